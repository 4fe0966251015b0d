package models

import "time"

// Flight represents one schedulable flight instance: identity, schedule,
// pricing, inventory, and status flags.
type Flight struct {
	ID              string  `json:"id"`
	DepartureCity   string  `json:"departureCity"`
	DestinationCity string  `json:"destinationCity"`
	StopOver        string  `json:"stopOver"`
	DepartureDate   string  `json:"departureDate"` // YYYYMMDD
	DepartureTime   string  `json:"departureTime"` // HH:MM
	ArrivalTime     string  `json:"arrivalTime"`   // HH:MM
	Price           float64 `json:"price"`
	Tickets         int     `json:"tickets"`
	IsDelay         bool    `json:"isDelay"`
	DelayMinutes    int     `json:"delayMinutes"`
	IsCancelled     bool    `json:"isCancelled"`
	IsForSale       bool    `json:"isForSale"`
}

const instantLayout = "20060102 15:04"

// DepartureAt combines DepartureDate and DepartureTime into an instant.
// Malformed fields yield the zero time.
func (f *Flight) DepartureAt() time.Time {
	t, _ := time.Parse(instantLayout, f.DepartureDate+" "+f.DepartureTime)
	return t
}

// ArrivalAt combines DepartureDate and ArrivalTime. The arrival reuses the
// departure date, so a flight crossing midnight reports an arrival instant
// earlier than its departure. Connectivity edges depend on this comparison,
// so the behavior is kept as is.
func (f *Flight) ArrivalAt() time.Time {
	t, _ := time.Parse(instantLayout, f.DepartureDate+" "+f.ArrivalTime)
	return t
}

// Sellable reports whether tickets can currently be bought for the flight.
func (f *Flight) Sellable() bool {
	return f.Tickets > 0 && !f.IsCancelled && f.IsForSale
}

// FlightUpdate is a partial update of a flight's mutable fields. Only
// non-nil fields are applied; the identifier is immutable and therefore
// not part of the patch. Unrecognized fields in a request body are ignored
// by JSON decoding.
type FlightUpdate struct {
	DepartureCity   *string  `json:"departureCity,omitempty"`
	DestinationCity *string  `json:"destinationCity,omitempty"`
	StopOver        *string  `json:"stopOver,omitempty"`
	DepartureDate   *string  `json:"departureDate,omitempty"`
	DepartureTime   *string  `json:"departureTime,omitempty"`
	ArrivalTime     *string  `json:"arrivalTime,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	Tickets         *int     `json:"tickets,omitempty"`
	IsDelay         *bool    `json:"isDelay,omitempty"`
	DelayMinutes    *int     `json:"delayMinutes,omitempty"`
	IsCancelled     *bool    `json:"isCancelled,omitempty"`
	IsForSale       *bool    `json:"isForSale,omitempty"`
}
