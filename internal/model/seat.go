package model

import "fmt"

// SeatStatus is the booking state of a single seat.  A seat is either
// EMPTY (bookable) or BOOKED.  The numeric values are the ones used by
// the external simulation.
type SeatStatus uint8

const (
	SeatEmpty  SeatStatus = 0 // seat can be booked
	SeatBooked SeatStatus = 1 // seat holds a booking
)

// String returns EMPTY or BOOKED.
func (s SeatStatus) String() string {
	switch s {
	case SeatEmpty:
		return "EMPTY"
	case SeatBooked:
		return "BOOKED"
	}
	return fmt.Sprintf("SeatStatus(%d)", uint8(s))
}

// MarshalText lets statuses appear by name in JSON responses.
func (s SeatStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Category is the pricing tier of a booked seat.  It is assigned when a
// seat is booked and kept on the seat until the booking is cancelled.
// The numeric values are written verbatim into command records.
type Category uint8

const (
	CategoryStandard Category = 0
	CategoryPremium  Category = 1
	CategoryVIP      Category = 2
)

// Categories lists every known category in wire order.
var Categories = []Category{CategoryStandard, CategoryPremium, CategoryVIP}

// String returns STANDARD, PREMIUM or VIP.
func (c Category) String() string {
	switch c {
	case CategoryStandard:
		return "STANDARD"
	case CategoryPremium:
		return "PREMIUM"
	case CategoryVIP:
		return "VIP"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool { return c <= CategoryVIP }

// MarshalText lets categories appear by name in JSON responses.
func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// SeatRef addresses one seat.  All fields are zero-based.
type SeatRef struct {
	Theater int `json:"theater"`
	Row     int `json:"row"`
	Col     int `json:"col"`
}

// String renders the seat as t/r/c for log lines.
func (r SeatRef) String() string { return fmt.Sprintf("%d/%d/%d", r.Theater, r.Row, r.Col) }
