package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-engine/internal/engine"
	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

// receiptResponse is returned by Book and Cancel.  Warning is set when the
// transition committed but its command did not reach the command channel.
type receiptResponse struct {
	Command model.Command `json:"command"`
	Seat    model.SeatRef `json:"seat"`
	Amount  int64         `json:"amount"`
	Warning string        `json:"warning,omitempty"`
}

func newReceiptResponse(r engine.Receipt) receiptResponse {
	resp := receiptResponse{Command: r.Command, Seat: r.Command.Seat(), Amount: r.Amount}
	if r.Warning != nil {
		resp.Warning = r.Warning.Error()
	}
	return resp
}

// SelectTheater handles PUT /v1/session/theater with body {"theater": n}.
// It makes n the active theater and clears the staged seat.
func (h *Handler) SelectTheater(c echo.Context) error {
	var body struct {
		Theater *int `json:"theater"`
	}
	if err := c.Bind(&body); err != nil || body.Theater == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theater is required"})
	}
	if err := h.Engine.SelectTheater(*body.Theater); err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, h.Engine.Selection())
}

// SelectSeat handles POST /v1/session/seat with body {"row": r, "col": c}.
// The response says whether the staged seat can be booked or cancelled.
func (h *Handler) SelectSeat(c echo.Context) error {
	var body struct {
		Row *int `json:"row"`
		Col *int `json:"col"`
	}
	if err := c.Bind(&body); err != nil || body.Row == nil || body.Col == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "row and col are required"})
	}
	status, err := h.Engine.Select(*body.Row, *body.Col)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"selection": h.Engine.Selection(),
		"status":    status,
	})
}

// Book handles POST /v1/session/book and returns the price charged.
func (h *Handler) Book(c echo.Context) error {
	r, err := h.Engine.Book(c.Request().Context())
	if err != nil {
		return engineError(c, err)
	}
	if r.Warning != nil {
		c.Logger().Warnf("book %s: %v", r.Command.Seat(), r.Warning)
	}
	return c.JSON(http.StatusOK, newReceiptResponse(r))
}

// Cancel handles POST /v1/session/cancel and returns the refund.
func (h *Handler) Cancel(c echo.Context) error {
	r, err := h.Engine.Cancel(c.Request().Context())
	if err != nil {
		return engineError(c, err)
	}
	if r.Warning != nil {
		c.Logger().Warnf("cancel %s: %v", r.Command.Seat(), r.Warning)
	}
	return c.JSON(http.StatusOK, newReceiptResponse(r))
}

// Session handles GET /v1/session.
func (h *Handler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.Selection())
}
