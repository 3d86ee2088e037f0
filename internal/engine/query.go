package engine

import (
	"fmt"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// Snapshot copies one theater's grid and statistics for rendering.  The
// staged seat is flagged when it belongs to this theater.
func (e *Engine) Snapshot(theater int) (model.TheaterSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.inv.HasTheater(theater) {
		return model.TheaterSnapshot{}, fmt.Errorf("snapshot theater %d: %w", theater, ErrInvalidTheater)
	}
	rows, cols := e.inv.Rows(), e.inv.Cols()
	grid := make([][]model.SeatView, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]model.SeatView, cols)
		for c := 0; c < cols; c++ {
			v := model.SeatView{Row: r, Col: c, Status: e.inv.Status(theater, r, c)}
			if cat, ok := e.inv.Category(theater, r, c); ok {
				v.Category = &cat
			}
			if sel := e.selected; sel != nil && sel.Theater == theater && sel.Row == r && sel.Col == c {
				v.Selected = true
			}
			grid[r][c] = v
		}
	}
	return model.TheaterSnapshot{
		Theater:      theater,
		Rows:         rows,
		Cols:         cols,
		Grid:         grid,
		Stats:        e.stats.Theater(theater),
		TotalRevenue: e.stats.TotalRevenue(),
		Version:      e.version,
	}, nil
}

// Stats returns every theater's counters and the global revenue total.
func (e *Engine) Stats() model.StatsSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.StatsSnapshot{
		Theaters:     e.stats.All(),
		TotalRevenue: e.stats.TotalRevenue(),
		Version:      e.version,
	}
}

// Selection returns the active theater and staged seat, if any.
func (e *Engine) Selection() model.Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	var sel model.Selection
	if e.active >= 0 {
		t := e.active
		sel.Theater = &t
	}
	if e.selected != nil {
		s := *e.selected
		sel.Seat = &s
	}
	return sel
}

// Version counts committed transitions.  It changes exactly when a Book
// or Cancel commits and can be used to detect stale views.
func (e *Engine) Version() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.version
}

// Revision changes whenever anything a snapshot shows changes: every
// commit and every selection change.  Response caches key on it.
func (e *Engine) Revision() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.revision
}

// Verify checks the statistics invariants against each other and against
// the seat grids.
func (e *Engine) Verify() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.stats.Verify(); err != nil {
		return err
	}
	for t := 0; t < e.inv.Theaters(); t++ {
		booked := 0
		var revenue int64
		for r := 0; r < e.inv.Rows(); r++ {
			for c := 0; c < e.inv.Cols(); c++ {
				if cat, ok := e.inv.Category(t, r, c); ok {
					booked++
					revenue += e.prices.Price(cat)
				}
			}
		}
		s := e.stats.Theater(t)
		if s.Booked != booked || s.Revenue != revenue {
			return fmt.Errorf("theater %d: stats (%d booked, %d revenue) disagree with grid (%d booked, %d revenue)",
				t, s.Booked, s.Revenue, booked, revenue)
		}
	}
	return nil
}
