package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op identifies the kind of mutation carried by a command record.
type Op uint8

const (
	OpBook   Op = 1
	OpCancel Op = 2
)

// String returns BOOK or CANCEL.
func (o Op) String() string {
	switch o {
	case OpBook:
		return "BOOK"
	case OpCancel:
		return "CANCEL"
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// MarshalText lets ops appear by name in JSON responses.
func (o Op) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Command is one entry of the command channel.  It is created once per
// committed booking or cancellation and never modified afterwards.
//
// Fields:
//
//	Op       – BOOK or CANCEL.
//	Theater  – zero-based theater index.
//	Row, Col – zero-based seat coordinates.
//	Category – category frozen on the seat at booking time.
type Command struct {
	Op       Op       `json:"op"`
	Theater  int      `json:"theater"`
	Row      int      `json:"row"`
	Col      int      `json:"col"`
	Category Category `json:"category"`
}

// ErrMalformedCommand is returned by ParseCommand for lines that do not
// hold exactly five non-negative integer fields with a known op and
// category.
var ErrMalformedCommand = errors.New("malformed command line")

// Seat returns the seat the command refers to.
func (c Command) Seat() SeatRef { return SeatRef{Theater: c.Theater, Row: c.Row, Col: c.Col} }

// Line renders the command in the channel wire format
// "op theater row col category", without a trailing newline.
func (c Command) Line() string {
	return fmt.Sprintf("%d %d %d %d %d", c.Op, c.Theater, c.Row, c.Col, c.Category)
}

// String is the same as Line.
func (c Command) String() string { return c.Line() }

// ParseCommand decodes one wire line.  Surrounding whitespace and any
// run of spaces or tabs between fields are accepted.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return Command{}, fmt.Errorf("%w: want 5 fields, got %d", ErrMalformedCommand, len(fields))
	}
	var n [5]int
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 {
			return Command{}, fmt.Errorf("%w: field %d is %q", ErrMalformedCommand, i+1, f)
		}
		n[i] = v
	}
	cmd := Command{Op: Op(n[0]), Theater: n[1], Row: n[2], Col: n[3], Category: Category(n[4])}
	if cmd.Op != OpBook && cmd.Op != OpCancel {
		return Command{}, fmt.Errorf("%w: unknown op %d", ErrMalformedCommand, n[0])
	}
	if !cmd.Category.Valid() {
		return Command{}, fmt.Errorf("%w: unknown category %d", ErrMalformedCommand, n[4])
	}
	return cmd, nil
}
