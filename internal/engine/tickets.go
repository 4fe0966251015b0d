package engine

import (
	"sort"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

// BuyTicket attempts to purchase qty tickets on a flight for a user. All
// failures are reported in the result, never as an error. On success the
// flight's inventory is decremented and the user's ledger entry is
// incremented (or created).
func (s *System) BuyTicket(userID, flightID string, qty int) models.TicketResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buyLocked(userID, flightID, qty)
}

// buyLocked holds the single validation and state-transition path shared by
// direct purchases and reservation draining. Callers must hold s.mu.
func (s *System) buyLocked(userID, flightID string, qty int) models.TicketResult {
	if qty <= 0 {
		return models.TicketResult{Reason: models.ReasonInvalidQuantity}
	}
	f, exists := s.byID[flightID]
	if !exists {
		return models.TicketResult{Reason: models.ReasonFlightNotFound}
	}
	if f.IsCancelled || !f.IsForSale {
		return models.TicketResult{Reason: models.ReasonNotForSale}
	}
	if f.Tickets < qty {
		return models.TicketResult{Reason: models.ReasonInsufficientTickets}
	}
	// The distinct-flight cap applies only when buying into a flight the
	// user does not already hold.
	if s.ledger[userID][flightID] == 0 && len(s.ledger[userID]) >= MaxFlightsPerUser {
		return models.TicketResult{Reason: models.ReasonFlightLimitReached}
	}

	f.Tickets -= qty
	if s.ledger[userID] == nil {
		s.ledger[userID] = make(map[string]int)
	}
	s.ledger[userID][flightID] += qty
	return models.TicketResult{OK: true, Reason: models.ReasonPurchased}
}

// RefundTicket returns qty tickets from a user's holding. If the flight is
// not cancelled the tickets are restocked; a cancelled flight never
// restocks since it can no longer sell. The ledger entry is deleted when it
// reaches zero, and the user disappears from the ledger with their last
// entry.
func (s *System) RefundTicket(userID, flightID string, qty int) models.TicketResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		return models.TicketResult{Reason: models.ReasonInvalidQuantity}
	}
	f, exists := s.byID[flightID]
	if !exists {
		return models.TicketResult{Reason: models.ReasonFlightNotFound}
	}
	held := s.ledger[userID][flightID]
	if held == 0 {
		return models.TicketResult{Reason: models.ReasonNoHolding}
	}
	if held < qty {
		return models.TicketResult{Reason: models.ReasonExcessRefund}
	}

	if !f.IsCancelled {
		f.Tickets += qty
	}
	s.ledger[userID][flightID] = held - qty
	if s.ledger[userID][flightID] == 0 {
		delete(s.ledger[userID], flightID)
		if len(s.ledger[userID]) == 0 {
			delete(s.ledger, userID)
		}
	}
	return models.TicketResult{OK: true, Reason: models.ReasonRefunded}
}

// cancellationRefundLocked wipes every user's holding on a cancelled flight
// and reports the affected users. Inventory is not restocked. Notices are
// sorted by user identifier for reproducible output. Callers must hold s.mu.
func (s *System) cancellationRefundLocked(flightID string) []models.RefundNotice {
	var notices []models.RefundNotice
	for userID, holdings := range s.ledger {
		qty, held := holdings[flightID]
		if !held {
			continue
		}
		delete(holdings, flightID)
		if len(holdings) == 0 {
			delete(s.ledger, userID)
		}
		notices = append(notices, models.RefundNotice{UserID: userID, Quantity: qty})
	}
	sort.Slice(notices, func(i, j int) bool { return notices[i].UserID < notices[j].UserID })
	return notices
}

// UserTickets returns a user's current holdings sorted by flight
// identifier. A user with no holdings yields an empty list.
func (s *System) UserTickets(userID string) []models.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()

	holdings := make([]models.Holding, 0, len(s.ledger[userID]))
	for flightID, qty := range s.ledger[userID] {
		holdings = append(holdings, models.Holding{FlightID: flightID, Quantity: qty})
	}
	sort.Slice(holdings, func(i, j int) bool { return holdings[i].FlightID < holdings[j].FlightID })
	return holdings
}

// TicketHolders returns the identifiers of all users currently holding
// tickets, sorted.
func (s *System) TicketHolders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]string, 0, len(s.ledger))
	for userID := range s.ledger {
		users = append(users, userID)
	}
	sort.Strings(users)
	return users
}
