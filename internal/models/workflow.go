package models

import "time"

// GrabTaskQueue is the Temporal task queue shared by the API server and the
// grab worker.
const GrabTaskQueue = "flight-grab-queue"

// Signals understood by the grab-session workflow.
const (
	SignalReserve  = "reserve"
	SignalOpenSale = "open-sale"
)

// GrabSessionInput starts a grab-session workflow. Reservations are
// signaled into the session until the sale opens, then drained in one pass.
type GrabSessionInput struct {
	SessionID  string    `json:"sessionId"`
	SaleOpenAt time.Time `json:"saleOpenAt"`
}

// GrabSessionResult is the final state of a grab session.
type GrabSessionResult struct {
	SessionID string        `json:"sessionId"`
	Reserved  int           `json:"reserved"`
	Outcomes  []GrabOutcome `json:"outcomes"`
}

// StartGrabSessionRequest is the body of a start-session call. A zero
// SaleOpenAt means the session drains when explicitly opened (or after the
// default sale window).
type StartGrabSessionRequest struct {
	SaleOpenAt time.Time `json:"saleOpenAt,omitempty"`
}

// StartGrabSessionResponse returns the identifier used to signal the session.
type StartGrabSessionResponse struct {
	SessionID string `json:"sessionId"`
}
