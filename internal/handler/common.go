package handler // handler defines the HTTP handlers of the presentation API

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-engine/internal/engine"
)

// Handler exposes the booking engine over HTTP.  It carries no state of
// its own; the engine owns the active theater and the staged seat.
type Handler struct {
	Engine *engine.Engine
}

// New constructs a Handler and panics if eng is nil.
func New(eng *engine.Engine) *Handler {
	if eng == nil {
		panic("nil engine passed to handler.New")
	}
	return &Handler{Engine: eng}
}

// errorCodes gives each engine error a stable machine-readable code the
// presentation layer can turn into its own message.
var errorCodes = []struct {
	err  error
	code string
}{
	{engine.ErrNoTheaterSelected, "no_theater_selected"},
	{engine.ErrNoSeatSelected, "no_seat_selected"},
	{engine.ErrSeatAlreadyBooked, "seat_already_booked"},
	{engine.ErrSeatNotBooked, "seat_not_booked"},
	{engine.ErrInvalidTheater, "invalid_theater"},
	{engine.ErrSeatOutOfRange, "seat_out_of_range"},
}

func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "contract_violation"
}

// engineError maps engine errors onto HTTP responses: recoverable errors
// are 409, contract violations 422, anything else 500.
func engineError(c echo.Context, err error) error {
	var status int
	switch {
	case engine.IsRecoverable(err):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrContractViolation):
		status = http.StatusUnprocessableEntity
	default:
		c.Logger().Errorf("engine: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": errorCode(err), "message": err.Error()})
}

// theaterParam parses the :id path parameter.
func theaterParam(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}
