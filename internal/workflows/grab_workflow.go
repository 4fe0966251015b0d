package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/activities"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

// DefaultSaleWindow is how long a session accepts reservations when no
// explicit sale-open instant was given (15 minutes)
const DefaultSaleWindow = 15 * time.Minute

// GrabWorkflow runs one ticket-grab session. Reservations arrive as signals
// while the sale is closed; when the sale opens (by signal or timer) the
// collected reservations are pushed to the API server and drained in
// priority order.
func GrabWorkflow(ctx workflow.Context, input models.GrabSessionInput) (*models.GrabSessionResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Grab session started", "sessionId", input.SessionID)

	// Activity options
	activityOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, activityOpts)

	// Channels for signals
	reserveCh := workflow.GetSignalChannel(ctx, models.SignalReserve)
	openSaleCh := workflow.GetSignalChannel(ctx, models.SignalOpenSale)

	saleOpenAt := input.SaleOpenAt
	if saleOpenAt.IsZero() {
		saleOpenAt = workflow.Now(ctx).Add(DefaultSaleWindow)
	}
	saleTimer := workflow.NewTimer(ctx, saleOpenAt.Sub(workflow.Now(ctx)))

	var pending []models.Reservation
	saleOpen := false

	for !saleOpen {
		selector := workflow.NewSelector(ctx)

		selector.AddReceive(reserveCh, func(c workflow.ReceiveChannel, more bool) {
			var r models.Reservation
			c.Receive(ctx, &r)
			pending = append(pending, r)
			logger.Info("Reservation collected", "sessionId", input.SessionID, "userId", r.UserID, "flightId", r.FlightID)
		})

		selector.AddReceive(openSaleCh, func(c workflow.ReceiveChannel, more bool) {
			c.Receive(ctx, nil)
			logger.Info("Sale opened by signal", "sessionId", input.SessionID)
			saleOpen = true
		})

		selector.AddFuture(saleTimer, func(f workflow.Future) {
			logger.Info("Sale window elapsed", "sessionId", input.SessionID)
			saleOpen = true
		})

		selector.Select(ctx)

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	// Reservations signaled in the same batch as the open still count.
	for {
		var r models.Reservation
		if !reserveCh.ReceiveAsync(&r) {
			break
		}
		pending = append(pending, r)
	}

	if len(pending) > 0 {
		err := workflow.ExecuteActivity(ctx, "EnqueueReservations", activities.EnqueueReservationsInput{
			Reservations: pending,
		}).Get(ctx, nil)
		if err != nil {
			logger.Error("Failed to enqueue reservations", "sessionId", input.SessionID, "error", err)
			return nil, err
		}
	}

	var drained activities.DrainReservationsOutput
	err := workflow.ExecuteActivity(ctx, "DrainReservations", activities.DrainReservationsInput{
		SessionID: input.SessionID,
	}).Get(ctx, &drained)
	if err != nil {
		logger.Error("Failed to drain reservations", "sessionId", input.SessionID, "error", err)
		return nil, err
	}

	logger.Info("Grab session finished", "sessionId", input.SessionID, "reserved", len(pending), "outcomes", len(drained.Outcomes))

	return &models.GrabSessionResult{
		SessionID: input.SessionID,
		Reserved:  len(pending),
		Outcomes:  drained.Outcomes,
	}, nil
}
