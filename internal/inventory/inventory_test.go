package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

func TestNewInventoryStartsEmpty(t *testing.T) {
	inv := New(4, 8, 8)
	assert.Equal(t, 4, inv.Theaters())
	assert.Equal(t, 64, inv.Capacity())
	for th := 0; th < 4; th++ {
		for r := 0; r < 8; r++ {
			for c := 0; c < 8; c++ {
				require.Equal(t, model.SeatEmpty, inv.Status(th, r, c))
				_, ok := inv.Category(th, r, c)
				require.False(t, ok)
			}
		}
	}
}

func TestSetBookedAndEmpty(t *testing.T) {
	inv := New(2, 3, 4)
	inv.SetBooked(1, 2, 3, model.CategoryVIP)

	assert.Equal(t, model.SeatBooked, inv.Status(1, 2, 3))
	c, ok := inv.Category(1, 2, 3)
	assert.True(t, ok)
	assert.Equal(t, model.CategoryVIP, c)
	// same coordinates in the other theater are untouched
	assert.Equal(t, model.SeatEmpty, inv.Status(0, 2, 3))

	inv.SetEmpty(1, 2, 3)
	assert.Equal(t, model.SeatEmpty, inv.Status(1, 2, 3))
	_, ok = inv.Category(1, 2, 3)
	assert.False(t, ok)
}

func TestPreconditionViolationsPanic(t *testing.T) {
	inv := New(1, 2, 2)
	assert.Panics(t, func() { inv.Status(1, 0, 0) })
	assert.Panics(t, func() { inv.Status(0, 2, 0) })
	assert.Panics(t, func() { inv.Status(0, 0, -1) })
	assert.Panics(t, func() { inv.SetEmpty(0, 0, 0) })

	inv.SetBooked(0, 0, 0, model.CategoryStandard)
	assert.Panics(t, func() { inv.SetBooked(0, 0, 0, model.CategoryStandard) })
}

func TestBounds(t *testing.T) {
	inv := New(4, 8, 8)
	assert.True(t, inv.HasTheater(3))
	assert.False(t, inv.HasTheater(4))
	assert.False(t, inv.HasTheater(-1))
	assert.True(t, inv.Contains(7, 7))
	assert.False(t, inv.Contains(8, 0))
	assert.False(t, inv.Contains(0, 8))
}
