// Package stats keeps per-theater booking counters and the global
// revenue total.  Counters are updated incrementally, one call per
// committed transition; there is no recomputation pass.
package stats

import (
	"fmt"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// Aggregator is not safe for concurrent use; the booking engine owns it
// and calls it from inside its critical section.
type Aggregator struct {
	capacity int
	theaters []model.Stats
	total    int64
}

// New returns an aggregator for theaters theaters of capacity seats each,
// with every seat available.
func New(theaters, capacity int) *Aggregator {
	a := &Aggregator{capacity: capacity, theaters: make([]model.Stats, theaters)}
	for i := range a.theaters {
		a.theaters[i].Available = capacity
	}
	return a
}

// RecordBook moves one seat of theater from available to booked and adds
// price to the theater revenue and the global total.
func (a *Aggregator) RecordBook(theater int, price int64) {
	s := &a.theaters[theater]
	s.Booked++
	s.Available--
	s.Revenue += price
	a.total += price
}

// RecordCancel is the exact inverse of RecordBook.
func (a *Aggregator) RecordCancel(theater int, price int64) {
	s := &a.theaters[theater]
	s.Booked--
	s.Available++
	s.Revenue -= price
	a.total -= price
}

// Theater returns a copy of one theater's counters.
func (a *Aggregator) Theater(theater int) model.Stats { return a.theaters[theater] }

// TotalRevenue returns the sum of every theater's revenue.
func (a *Aggregator) TotalRevenue() int64 { return a.total }

// All returns a copy of every theater's counters.
func (a *Aggregator) All() []model.Stats {
	out := make([]model.Stats, len(a.theaters))
	copy(out, a.theaters)
	return out
}

// Verify checks booked+available == capacity for every theater and that
// the global total equals the sum of theater revenues.
func (a *Aggregator) Verify() error {
	var sum int64
	for i, s := range a.theaters {
		if s.Booked+s.Available != a.capacity {
			return fmt.Errorf("theater %d: booked %d + available %d != capacity %d", i, s.Booked, s.Available, a.capacity)
		}
		if s.Booked < 0 || s.Available < 0 {
			return fmt.Errorf("theater %d: negative counter (booked %d, available %d)", i, s.Booked, s.Available)
		}
		sum += s.Revenue
	}
	if sum != a.total {
		return fmt.Errorf("total revenue %d != sum of theater revenue %d", a.total, sum)
	}
	return nil
}
