package models

// Reason vocabulary for ticket and reservation outcomes. Callers branch on
// these values, so they are fixed strings rather than free-form messages.
const (
	ReasonPurchased           = "ticket purchased"
	ReasonRefunded            = "ticket refunded"
	ReasonGrabbed             = "grab succeeded"
	ReasonFlightNotFound      = "flight not found"
	ReasonNotForSale          = "flight not for sale"
	ReasonInsufficientTickets = "insufficient tickets"
	ReasonFlightLimitReached  = "flight limit reached"
	ReasonNoHolding           = "no tickets held for flight"
	ReasonExcessRefund        = "refund exceeds held tickets"
	ReasonInvalidQuantity     = "quantity must be positive"
)

// TicketResult is the outcome of a buy or refund attempt. Failures are
// reported as data, never as errors: callers branch on OK and Reason.
type TicketResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
}

// Holding is one entry of a user's ticket ledger.
type Holding struct {
	FlightID string `json:"flightId"`
	Quantity int    `json:"quantity"`
}

// RefundNotice reports one user's holding wiped by a flight cancellation,
// for the caller to surface as a notification.
type RefundNotice struct {
	UserID   string `json:"userId"`
	Quantity int    `json:"quantity"`
}

// Reservation is one pending ticket-grab request. Lower priority values are
// served first; ties break by user then flight identifier.
type Reservation struct {
	Priority int    `json:"priority"`
	UserID   string `json:"userId"`
	FlightID string `json:"flightId"`
	Quantity int    `json:"quantity"`
}

// GrabOutcome is the result of one drained reservation.
type GrabOutcome struct {
	UserID   string `json:"userId"`
	FlightID string `json:"flightId"`
	Quantity int    `json:"quantity"`
	OK       bool   `json:"ok"`
	Reason   string `json:"reason"`
}

// BuyTicketRequest is the body of a ticket purchase call.
type BuyTicketRequest struct {
	UserID   string `json:"userId"`
	FlightID string `json:"flightId"`
	Quantity int    `json:"quantity"`
}

// RefundTicketRequest is the body of a ticket refund call.
type RefundTicketRequest struct {
	UserID   string `json:"userId"`
	FlightID string `json:"flightId"`
	Quantity int    `json:"quantity"`
}

// DelayFlightRequest sets the delay marker on a flight.
type DelayFlightRequest struct {
	Minutes int `json:"minutes"`
}

// CancelFlightResponse reports a cancellation and the holdings it wiped.
type CancelFlightResponse struct {
	FlightID string         `json:"flightId"`
	Refunds  []RefundNotice `json:"refunds"`
}

// RoutesResponse lists alternate itineraries, each a sequence of flight
// identifiers in travel order.
type RoutesResponse struct {
	DepartureCity   string     `json:"departureCity"`
	DestinationCity string     `json:"destinationCity"`
	Routes          [][]string `json:"routes"`
}
