package engine

import (
	"sort"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

// SortKey selects the ordering of a flight listing.
type SortKey string

const (
	SortByPrice SortKey = "price"
	// SortByDepartureTime orders by the departure time-of-day string.
	// The comparison is lexical, not chronological across midnight.
	SortByDepartureTime SortKey = "departureTime"
)

// Filter narrows and orders a flight listing. Zero-valued fields are
// inactive.
type Filter struct {
	DepartureCity   string
	DestinationCity string
	OnlyForSale     bool
	SortBy          SortKey
}

// QueryFlights returns a snapshot of the flights matching the filter. With
// no sort key the result keeps store insertion order; sorting is stable, so
// ties also keep it.
func (s *System) QueryFlights(filter Filter) []models.Flight {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Flight
	for _, f := range s.flights {
		if filter.DepartureCity != "" && f.DepartureCity != filter.DepartureCity {
			continue
		}
		if filter.DestinationCity != "" && f.DestinationCity != filter.DestinationCity {
			continue
		}
		if filter.OnlyForSale && !f.Sellable() {
			continue
		}
		matched = append(matched, *f)
	}

	switch filter.SortBy {
	case SortByPrice:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Price < matched[j].Price })
	case SortByDepartureTime:
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].DepartureTime < matched[j].DepartureTime })
	}
	return matched
}
