package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListTheaters handles GET /v1/theaters.
func (h *Handler) ListTheaters(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"theaters": h.Engine.ListTheaters()})
}

// Snapshot handles GET /v1/theaters/:id and returns the theater's grid and
// statistics for rendering.
func (h *Handler) Snapshot(c echo.Context) error {
	id, ok := theaterParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid theater id"})
	}
	snap, err := h.Engine.Snapshot(id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, snap)
}

// Stats handles GET /v1/stats.
func (h *Handler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Engine.Stats())
}
