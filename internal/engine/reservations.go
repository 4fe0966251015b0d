package engine

import (
	"container/heap"

	"github.com/SleepingLingHuan/Flight-Management-System/internal/models"
)

// reservationQueue orders pending grab requests by (priority, userID,
// flightID) ascending, a strict total order that keeps drain output
// reproducible. Quantity never participates in the ordering.
type reservationQueue []models.Reservation

func (q reservationQueue) Len() int { return len(q) }

func (q reservationQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.UserID != b.UserID {
		return a.UserID < b.UserID
	}
	return a.FlightID < b.FlightID
}

func (q reservationQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *reservationQueue) Push(x any) {
	*q = append(*q, x.(models.Reservation))
}

func (q *reservationQueue) Pop() any {
	old := *q
	n := len(old)
	r := old[n-1]
	*q = old[:n-1]
	return r
}

// Reserve appends a pending grab request. Nothing is validated at enqueue
// time; a request may still fail when the queue is drained.
func (s *System) Reserve(r models.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	heap.Push(&s.pending, r)
}

// PendingReservations reports the number of queued grab requests.
func (s *System) PendingReservations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.Len()
}

// DrainReservations exhaustively consumes the reservation queue in priority
// order, attempting each request through the same validation and state
// transition as BuyTicket. Every dequeued attempt sees the inventory and
// ledger state left by the attempts before it, so one drain call is
// strictly sequentially consistent. It returns one outcome per request and
// never fails: failures are data.
func (s *System) DrainReservations() []models.GrabOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]models.GrabOutcome, 0, s.pending.Len())
	for s.pending.Len() > 0 {
		r := heap.Pop(&s.pending).(models.Reservation)
		res := s.buyLocked(r.UserID, r.FlightID, r.Quantity)
		reason := res.Reason
		if res.OK {
			reason = models.ReasonGrabbed
		}
		outcomes = append(outcomes, models.GrabOutcome{
			UserID:   r.UserID,
			FlightID: r.FlightID,
			Quantity: r.Quantity,
			OK:       res.OK,
			Reason:   reason,
		})
	}
	return outcomes
}
