package engine

import "errors"

// User-recoverable errors.  They leave every piece of engine state
// untouched and the presentation layer is expected to show them to the
// user and carry on.
var (
	// ErrNoTheaterSelected is returned when a seat is selected before any
	// theater has been made active.
	ErrNoTheaterSelected = errors.New("no theater selected")
	// ErrNoSeatSelected is returned by Book and Cancel without a prior Select.
	ErrNoSeatSelected = errors.New("no seat selected")
	// ErrSeatAlreadyBooked is returned by Book when the staged seat is
	// already booked, either a stale selection or a race with another booking.
	ErrSeatAlreadyBooked = errors.New("seat already booked")
	// ErrSeatNotBooked is returned by Cancel on an empty seat.
	ErrSeatNotBooked = errors.New("seat not booked")
)

// ErrContractViolation marks faults caused by a caller passing
// coordinates the engine was never configured for.  They abort the
// operation only.  Test with errors.Is(err, ErrContractViolation).
var ErrContractViolation = errors.New("contract violation")

var (
	// ErrInvalidTheater is returned for a theater id outside [0, N).
	ErrInvalidTheater = wrapContract("invalid theater")
	// ErrSeatOutOfRange is returned for a row or column outside the grid.
	ErrSeatOutOfRange = wrapContract("seat out of range")
)

// ErrChannelDesync is wrapped by Receipt.Warning when the transition
// committed in memory but its command could not be appended to the
// channel.  Engine state and channel state have diverged from that point.
var ErrChannelDesync = errors.New("command channel out of sync")

type contractError struct{ msg string }

func (e *contractError) Error() string { return e.msg }

func (e *contractError) Unwrap() error { return ErrContractViolation }

func wrapContract(msg string) error { return &contractError{msg: msg} }

// IsRecoverable reports whether err is one of the user-recoverable errors.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNoTheaterSelected) ||
		errors.Is(err, ErrNoSeatSelected) ||
		errors.Is(err, ErrSeatAlreadyBooked) ||
		errors.Is(err, ErrSeatNotBooked)
}
