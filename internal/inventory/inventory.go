// Package inventory holds the seat grids of every theater.
//
// Inventory is plain data.  It does not lock and it does not validate
// business rules beyond its own preconditions: coordinates must be in
// range, SetBooked needs an EMPTY seat and SetEmpty needs a BOOKED one.
// Violating a precondition is a caller bug and panics.  The booking
// engine checks every precondition before calling in.
package inventory

import (
	"fmt"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

type seat struct {
	status   model.SeatStatus
	category model.Category
}

// Inventory is a fixed set of theaters, each with a rows×cols grid.
type Inventory struct {
	theaters int
	rows     int
	cols     int
	seats    []seat // theater-major, then row, then col
}

// New allocates theaters grids of rows×cols seats, all EMPTY.
func New(theaters, rows, cols int) *Inventory {
	if theaters <= 0 || rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("inventory: invalid dimensions %d×%d×%d", theaters, rows, cols))
	}
	return &Inventory{
		theaters: theaters,
		rows:     rows,
		cols:     cols,
		seats:    make([]seat, theaters*rows*cols),
	}
}

// Theaters returns the number of theaters.
func (inv *Inventory) Theaters() int { return inv.theaters }

// Rows returns the number of rows per theater.
func (inv *Inventory) Rows() int { return inv.rows }

// Cols returns the number of seats per row.
func (inv *Inventory) Cols() int { return inv.cols }

// Capacity returns rows×cols, the number of seats in one theater.
func (inv *Inventory) Capacity() int { return inv.rows * inv.cols }

// HasTheater reports whether theater is a valid index.
func (inv *Inventory) HasTheater(theater int) bool {
	return theater >= 0 && theater < inv.theaters
}

// Contains reports whether (row, col) lies inside a theater grid.
func (inv *Inventory) Contains(row, col int) bool {
	return row >= 0 && row < inv.rows && col >= 0 && col < inv.cols
}

func (inv *Inventory) at(theater, row, col int) *seat {
	if !inv.HasTheater(theater) || !inv.Contains(row, col) {
		panic(fmt.Sprintf("inventory: seat %d/%d/%d out of range", theater, row, col))
	}
	return &inv.seats[(theater*inv.rows+row)*inv.cols+col]
}

// Status returns the booking state of a seat.
func (inv *Inventory) Status(theater, row, col int) model.SeatStatus {
	return inv.at(theater, row, col).status
}

// Category returns the category frozen on a booked seat.  ok is false
// when the seat is EMPTY, in which case no category is meaningful.
func (inv *Inventory) Category(theater, row, col int) (c model.Category, ok bool) {
	s := inv.at(theater, row, col)
	if s.status != model.SeatBooked {
		return 0, false
	}
	return s.category, true
}

// SetBooked marks an EMPTY seat as BOOKED with category c.
func (inv *Inventory) SetBooked(theater, row, col int, c model.Category) {
	s := inv.at(theater, row, col)
	if s.status != model.SeatEmpty {
		panic(fmt.Sprintf("inventory: SetBooked on %s seat %d/%d/%d", s.status, theater, row, col))
	}
	s.status = model.SeatBooked
	s.category = c
}

// SetEmpty releases a BOOKED seat.
func (inv *Inventory) SetEmpty(theater, row, col int) {
	s := inv.at(theater, row, col)
	if s.status != model.SeatBooked {
		panic(fmt.Sprintf("inventory: SetEmpty on %s seat %d/%d/%d", s.status, theater, row, col))
	}
	s.status = model.SeatEmpty
	s.category = 0
}
