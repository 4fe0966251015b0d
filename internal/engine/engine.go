package engine

import (
	"errors"
	"sync"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

var (
	// ErrFlightNotFound is returned by direct lookups of a missing flight.
	ErrFlightNotFound = errors.New("flight not found")
	// ErrDuplicateFlight is returned when adding a flight whose identifier
	// already exists.
	ErrDuplicateFlight = errors.New("flight already exists")
)

// MaxFlightsPerUser caps the number of distinct flights a user may hold
// tickets on at the same time. Topping up an already-held flight is exempt.
const MaxFlightsPerUser = 10

// System is the in-memory flight management core. It owns the flight store,
// the connectivity graph derived from it, the per-user ticket ledger, and
// the reservation queue. All state is guarded by one mutex: buy, refund,
// cancel, and drain are read-modify-write sequences that must not
// interleave with each other or with a graph rebuild.
type System struct {
	mu sync.Mutex

	flights []*models.Flight // insertion order, drives deterministic output
	byID    map[string]*models.Flight
	graph   map[string][]string
	ledger  map[string]map[string]int // userID -> flightID -> quantity
	pending reservationQueue
}

// New returns an empty System.
func New() *System {
	return &System{
		byID:   make(map[string]*models.Flight),
		graph:  make(map[string][]string),
		ledger: make(map[string]map[string]int),
	}
}

// LoadRecords bulk-adds flight records, skipping any whose identifier is
// already present, and rebuilds the connectivity graph once. It returns the
// number of records added.
func (s *System) LoadRecords(records []models.Flight) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, rec := range records {
		if _, exists := s.byID[rec.ID]; exists {
			continue
		}
		f := rec
		s.flights = append(s.flights, &f)
		s.byID[f.ID] = &f
		added++
	}
	s.rebuildGraph()
	return added
}

// AddFlight inserts a new flight record and rebuilds the connectivity
// graph. Adding an existing identifier fails with ErrDuplicateFlight.
func (s *System) AddFlight(rec models.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.ID]; exists {
		return ErrDuplicateFlight
	}
	f := rec
	s.flights = append(s.flights, &f)
	s.byID[f.ID] = &f
	s.rebuildGraph()
	return nil
}

// RemoveFlight deletes the flight if present and rebuilds the connectivity
// graph. Removing an absent identifier is a no-op, not an error.
func (s *System) RemoveFlight(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[id]; !exists {
		return
	}
	delete(s.byID, id)
	kept := s.flights[:0]
	for _, f := range s.flights {
		if f.ID != id {
			kept = append(kept, f)
		}
	}
	s.flights = kept
	s.rebuildGraph()
}

// UpdateFlight applies the non-nil fields of the patch to the flight and
// rebuilds the connectivity graph. The identifier itself is immutable. It
// returns the updated record and false if the identifier is absent.
func (s *System) UpdateFlight(id string, patch models.FlightUpdate) (models.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists := s.byID[id]
	if !exists {
		return models.Flight{}, false
	}
	if patch.DepartureCity != nil {
		f.DepartureCity = *patch.DepartureCity
	}
	if patch.DestinationCity != nil {
		f.DestinationCity = *patch.DestinationCity
	}
	if patch.StopOver != nil {
		f.StopOver = *patch.StopOver
	}
	if patch.DepartureDate != nil {
		f.DepartureDate = *patch.DepartureDate
	}
	if patch.DepartureTime != nil {
		f.DepartureTime = *patch.DepartureTime
	}
	if patch.ArrivalTime != nil {
		f.ArrivalTime = *patch.ArrivalTime
	}
	if patch.Price != nil {
		f.Price = *patch.Price
	}
	if patch.Tickets != nil {
		f.Tickets = *patch.Tickets
	}
	if patch.IsDelay != nil {
		f.IsDelay = *patch.IsDelay
	}
	if patch.DelayMinutes != nil {
		f.DelayMinutes = *patch.DelayMinutes
	}
	if patch.IsCancelled != nil {
		f.IsCancelled = *patch.IsCancelled
	}
	if patch.IsForSale != nil {
		f.IsForSale = *patch.IsForSale
	}
	s.rebuildGraph()
	return *f, true
}

// SetDelay marks the flight delayed by the given number of minutes. The
// connectivity graph is intentionally not rebuilt: published connections
// are not invalidated by a delay in this model. It returns the updated
// record and false if the identifier is absent.
func (s *System) SetDelay(id string, minutes int) (models.Flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists := s.byID[id]
	if !exists {
		return models.Flight{}, false
	}
	f.IsDelay = true
	f.DelayMinutes = minutes
	return *f, true
}

// CancelFlight marks the flight cancelled and closed for sale, then wipes
// every user's holding on it without restocking inventory. It returns one
// refund notice per affected user, sorted by user identifier, and false if
// the identifier is absent. Cancelling an already-cancelled flight is
// idempotent.
func (s *System) CancelFlight(id string) ([]models.RefundNotice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists := s.byID[id]
	if !exists {
		return nil, false
	}
	f.IsCancelled = true
	f.IsForSale = false
	return s.cancellationRefundLocked(id), true
}

// GetFlight returns a copy of the record or ErrFlightNotFound.
func (s *System) GetFlight(id string) (models.Flight, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists := s.byID[id]
	if !exists {
		return models.Flight{}, ErrFlightNotFound
	}
	return *f, nil
}

// Flights returns a snapshot of all records in insertion order.
func (s *System) Flights() []models.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Flight, len(s.flights))
	for i, f := range s.flights {
		out[i] = *f
	}
	return out
}
