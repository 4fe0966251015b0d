package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/engine"
	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

// MockFlightService is a mock implementation of FlightService
type MockFlightService struct {
	mock.Mock
}

func (m *MockFlightService) ListFlights(ctx context.Context, filter engine.Filter) []models.Flight {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Flight)
}

func (m *MockFlightService) GetFlight(ctx context.Context, flightID string) (models.Flight, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(models.Flight), args.Error(1)
}

func (m *MockFlightService) AddFlight(ctx context.Context, flight models.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightService) UpdateFlight(ctx context.Context, flightID string, patch models.FlightUpdate) (models.Flight, error) {
	args := m.Called(ctx, flightID, patch)
	return args.Get(0).(models.Flight), args.Error(1)
}

func (m *MockFlightService) DeleteFlight(ctx context.Context, flightID string) error {
	args := m.Called(ctx, flightID)
	return args.Error(0)
}

func (m *MockFlightService) DelayFlight(ctx context.Context, flightID string, minutes int) (models.Flight, error) {
	args := m.Called(ctx, flightID, minutes)
	return args.Get(0).(models.Flight), args.Error(1)
}

func (m *MockFlightService) CancelFlight(ctx context.Context, flightID string) ([]models.RefundNotice, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RefundNotice), args.Error(1)
}

func (m *MockFlightService) Connections(ctx context.Context, flightID string) ([]string, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockFlightService) AlternateRoutes(ctx context.Context, depCity, desCity string) [][]string {
	args := m.Called(ctx, depCity, desCity)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([][]string)
}

func (m *MockFlightService) BuyTicket(ctx context.Context, userID, flightID string, qty int) models.TicketResult {
	args := m.Called(ctx, userID, flightID, qty)
	return args.Get(0).(models.TicketResult)
}

func (m *MockFlightService) RefundTicket(ctx context.Context, userID, flightID string, qty int) models.TicketResult {
	args := m.Called(ctx, userID, flightID, qty)
	return args.Get(0).(models.TicketResult)
}

func (m *MockFlightService) UserTickets(ctx context.Context, userID string) []models.Holding {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.Holding)
}

func (m *MockFlightService) Reserve(ctx context.Context, r models.Reservation) {
	m.Called(ctx, r)
}

func (m *MockFlightService) DrainReservations(ctx context.Context) []models.GrabOutcome {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]models.GrabOutcome)
}

func (m *MockFlightService) StartGrabSession(ctx context.Context, saleOpenAt time.Time) (string, error) {
	args := m.Called(ctx, saleOpenAt)
	return args.String(0), args.Error(1)
}

func (m *MockFlightService) ReserveInSession(ctx context.Context, sessionID string, r models.Reservation) error {
	args := m.Called(ctx, sessionID, r)
	return args.Error(0)
}

func (m *MockFlightService) OpenSale(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
