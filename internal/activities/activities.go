package activities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.temporal.io/sdk/activity"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

// Activities call back into the API server over HTTP. Flight state lives in
// the server's memory, so the worker cannot touch it directly.
type Activities struct {
	apiBaseURL string
	httpClient *http.Client
}

// NewActivities creates activities targeting the given API server
func NewActivities(apiBaseURL string) *Activities {
	return &Activities{
		apiBaseURL: apiBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// EnqueueReservationsInput carries the reservations collected by a grab
// session.
type EnqueueReservationsInput struct {
	Reservations []models.Reservation `json:"reservations"`
}

// DrainReservationsInput identifies the session being drained.
type DrainReservationsInput struct {
	SessionID string `json:"sessionId"`
}

// DrainReservationsOutput is the drained outcome list.
type DrainReservationsOutput struct {
	Outcomes []models.GrabOutcome `json:"outcomes"`
}

// EnqueueReservations pushes the session's reservations into the server's
// pending queue.
func (a *Activities) EnqueueReservations(ctx context.Context, input EnqueueReservationsInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Enqueueing reservations", "count", len(input.Reservations))

	for _, r := range input.Reservations {
		if err := a.postJSON(ctx, "/api/reservations", r, nil); err != nil {
			return fmt.Errorf("failed to enqueue reservation for %s: %w", r.UserID, err)
		}
	}
	return nil
}

// DrainReservations asks the server to drain its pending queue and returns
// the outcomes.
func (a *Activities) DrainReservations(ctx context.Context, input DrainReservationsInput) (*DrainReservationsOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Draining reservations", "sessionId", input.SessionID)

	var outcomes []models.GrabOutcome
	if err := a.postJSON(ctx, "/api/reservations/drain", nil, &outcomes); err != nil {
		return nil, fmt.Errorf("failed to drain reservations: %w", err)
	}

	logger.Info("Reservations drained", "sessionId", input.SessionID, "outcomes", len(outcomes))
	return &DrainReservationsOutput{Outcomes: outcomes}, nil
}

func (a *Activities) postJSON(ctx context.Context, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiBaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
