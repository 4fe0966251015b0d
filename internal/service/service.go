package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/database"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/engine"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/websocket"
	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
)

// ErrGrabSessionsUnavailable is returned by grab-session operations when no
// workflow backend is configured.
var ErrGrabSessionsUnavailable = errors.New("grab sessions unavailable: no workflow backend configured")

// FlightService defines the flight management service interface
type FlightService interface {
	ListFlights(ctx context.Context, filter engine.Filter) []models.Flight
	GetFlight(ctx context.Context, flightID string) (models.Flight, error)
	AddFlight(ctx context.Context, flight models.Flight) error
	UpdateFlight(ctx context.Context, flightID string, patch models.FlightUpdate) (models.Flight, error)
	DeleteFlight(ctx context.Context, flightID string) error
	DelayFlight(ctx context.Context, flightID string, minutes int) (models.Flight, error)
	CancelFlight(ctx context.Context, flightID string) ([]models.RefundNotice, error)
	Connections(ctx context.Context, flightID string) ([]string, error)
	AlternateRoutes(ctx context.Context, depCity, desCity string) [][]string
	BuyTicket(ctx context.Context, userID, flightID string, qty int) models.TicketResult
	RefundTicket(ctx context.Context, userID, flightID string, qty int) models.TicketResult
	UserTickets(ctx context.Context, userID string) []models.Holding
	Reserve(ctx context.Context, r models.Reservation)
	DrainReservations(ctx context.Context) []models.GrabOutcome
	StartGrabSession(ctx context.Context, saleOpenAt time.Time) (string, error)
	ReserveInSession(ctx context.Context, sessionID string, r models.Reservation) error
	OpenSale(ctx context.Context, sessionID string) error
}

// flightServiceImpl implements FlightService on top of the in-memory
// engine. The hub, repository, and Temporal client are all optional; a nil
// value disables event broadcasting, write-behind persistence, and grab
// sessions respectively.
type flightServiceImpl struct {
	sys            *engine.System
	hub            *websocket.Hub
	repo           *database.Repository
	temporalClient client.Client
}

// NewFlightService creates a new FlightService
func NewFlightService(sys *engine.System, hub *websocket.Hub, repo *database.Repository, temporalClient client.Client) FlightService {
	return &flightServiceImpl{
		sys:            sys,
		hub:            hub,
		repo:           repo,
		temporalClient: temporalClient,
	}
}

func (s *flightServiceImpl) ListFlights(ctx context.Context, filter engine.Filter) []models.Flight {
	return s.sys.QueryFlights(filter)
}

func (s *flightServiceImpl) GetFlight(ctx context.Context, flightID string) (models.Flight, error) {
	return s.sys.GetFlight(flightID)
}

func (s *flightServiceImpl) AddFlight(ctx context.Context, flight models.Flight) error {
	if err := s.sys.AddFlight(flight); err != nil {
		return err
	}
	s.persistUpsert(ctx, flight)
	return nil
}

func (s *flightServiceImpl) UpdateFlight(ctx context.Context, flightID string, patch models.FlightUpdate) (models.Flight, error) {
	flight, ok := s.sys.UpdateFlight(flightID, patch)
	if !ok {
		return models.Flight{}, engine.ErrFlightNotFound
	}
	s.persistUpsert(ctx, flight)
	return flight, nil
}

func (s *flightServiceImpl) DeleteFlight(ctx context.Context, flightID string) error {
	s.sys.RemoveFlight(flightID)
	s.persistDelete(ctx, flightID)
	return nil
}

func (s *flightServiceImpl) DelayFlight(ctx context.Context, flightID string, minutes int) (models.Flight, error) {
	flight, ok := s.sys.SetDelay(flightID, minutes)
	if !ok {
		return models.Flight{}, engine.ErrFlightNotFound
	}
	if s.hub != nil {
		s.hub.BroadcastFlightDelayed(flightID, minutes)
	}
	s.persistUpsert(ctx, flight)
	return flight, nil
}

func (s *flightServiceImpl) CancelFlight(ctx context.Context, flightID string) ([]models.RefundNotice, error) {
	notices, ok := s.sys.CancelFlight(flightID)
	if !ok {
		return nil, engine.ErrFlightNotFound
	}
	if s.hub != nil {
		s.hub.BroadcastFlightCancelled(flightID, notices)
	}
	if flight, err := s.sys.GetFlight(flightID); err == nil {
		s.persistUpsert(ctx, flight)
	}
	return notices, nil
}

func (s *flightServiceImpl) Connections(ctx context.Context, flightID string) ([]string, error) {
	return s.sys.Connections(flightID)
}

func (s *flightServiceImpl) AlternateRoutes(ctx context.Context, depCity, desCity string) [][]string {
	return s.sys.AlternateRoutes(depCity, desCity)
}

func (s *flightServiceImpl) BuyTicket(ctx context.Context, userID, flightID string, qty int) models.TicketResult {
	result := s.sys.BuyTicket(userID, flightID, qty)
	if result.OK {
		if flight, err := s.sys.GetFlight(flightID); err == nil {
			s.persistUpsert(ctx, flight)
		}
	}
	return result
}

func (s *flightServiceImpl) RefundTicket(ctx context.Context, userID, flightID string, qty int) models.TicketResult {
	result := s.sys.RefundTicket(userID, flightID, qty)
	if result.OK {
		if flight, err := s.sys.GetFlight(flightID); err == nil {
			s.persistUpsert(ctx, flight)
		}
	}
	return result
}

func (s *flightServiceImpl) UserTickets(ctx context.Context, userID string) []models.Holding {
	return s.sys.UserTickets(userID)
}

func (s *flightServiceImpl) Reserve(ctx context.Context, r models.Reservation) {
	s.sys.Reserve(r)
}

func (s *flightServiceImpl) DrainReservations(ctx context.Context) []models.GrabOutcome {
	outcomes := s.sys.DrainReservations()

	succeeded := 0
	touched := make(map[string]bool)
	for _, o := range outcomes {
		if o.OK {
			succeeded++
			touched[o.FlightID] = true
		}
	}
	if s.hub != nil && len(outcomes) > 0 {
		s.hub.BroadcastSaleDrained(succeeded, len(outcomes)-succeeded)
	}
	for flightID := range touched {
		if flight, err := s.sys.GetFlight(flightID); err == nil {
			s.persistUpsert(ctx, flight)
		}
	}
	return outcomes
}

func (s *flightServiceImpl) StartGrabSession(ctx context.Context, saleOpenAt time.Time) (string, error) {
	if s.temporalClient == nil {
		return "", ErrGrabSessionsUnavailable
	}

	sessionID := uuid.New().String()[:8]

	workflowOptions := client.StartWorkflowOptions{
		ID:        "grab-" + sessionID,
		TaskQueue: models.GrabTaskQueue,
	}

	input := models.GrabSessionInput{
		SessionID:  sessionID,
		SaleOpenAt: saleOpenAt,
	}

	_, err := s.temporalClient.ExecuteWorkflow(ctx, workflowOptions, "GrabWorkflow", input)
	if err != nil {
		return "", fmt.Errorf("failed to start grab session: %w", err)
	}
	return sessionID, nil
}

func (s *flightServiceImpl) ReserveInSession(ctx context.Context, sessionID string, r models.Reservation) error {
	if s.temporalClient == nil {
		return ErrGrabSessionsUnavailable
	}
	return s.temporalClient.SignalWorkflow(ctx, "grab-"+sessionID, "", models.SignalReserve, r)
}

func (s *flightServiceImpl) OpenSale(ctx context.Context, sessionID string) error {
	if s.temporalClient == nil {
		return ErrGrabSessionsUnavailable
	}
	return s.temporalClient.SignalWorkflow(ctx, "grab-"+sessionID, "", models.SignalOpenSale, nil)
}

// persistUpsert mirrors the in-memory record to the database when one is
// configured. The engine stays authoritative; failures are logged, not
// propagated.
func (s *flightServiceImpl) persistUpsert(ctx context.Context, flight models.Flight) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Upsert(ctx, flight); err != nil {
		log.Printf("Failed to persist flight %s: %v", flight.ID, err)
	}
}

func (s *flightServiceImpl) persistDelete(ctx context.Context, flightID string) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Delete(ctx, flightID); err != nil {
		log.Printf("Failed to delete flight %s: %v", flightID, err)
	}
}
