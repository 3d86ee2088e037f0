package model

// Stats holds the counters of one theater.  Booked+Available always
// equals the theater's seat capacity and Revenue is the sum of the
// prices of the seats currently booked.
type Stats struct {
	Booked    int   `json:"booked"`
	Available int   `json:"available"`
	Revenue   int64 `json:"revenue"`
}

// SeatView is the rendering-oriented view of one seat in a snapshot.
// Category is only set while the seat is booked.
type SeatView struct {
	Row      int        `json:"row"`
	Col      int        `json:"col"`
	Status   SeatStatus `json:"status"`
	Category *Category  `json:"category,omitempty"`
	Selected bool       `json:"selected,omitempty"`
}

// TheaterSnapshot is a copy of one theater's grid and statistics taken
// atomically with respect to engine mutations.  Grid is indexed
// [row][col].
type TheaterSnapshot struct {
	Theater      int          `json:"theater"`
	Rows         int          `json:"rows"`
	Cols         int          `json:"cols"`
	Grid         [][]SeatView `json:"grid"`
	Stats        Stats        `json:"stats"`
	TotalRevenue int64        `json:"total_revenue"`
	Version      uint64       `json:"version"`
}

// StatsSnapshot carries every theater's statistics plus the global
// revenue total.
type StatsSnapshot struct {
	Theaters     []Stats `json:"theaters"`
	TotalRevenue int64   `json:"total_revenue"`
	Version      uint64  `json:"version"`
}

// Selection describes the session state of the engine: the active
// theater (if any) and the staged seat (if any).
type Selection struct {
	Theater *int     `json:"theater"`
	Seat    *SeatRef `json:"seat"`
}
