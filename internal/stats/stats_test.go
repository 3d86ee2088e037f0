package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAggregator(t *testing.T) {
	a := New(4, 64)
	for i := 0; i < 4; i++ {
		s := a.Theater(i)
		assert.Equal(t, 0, s.Booked)
		assert.Equal(t, 64, s.Available)
		assert.Equal(t, int64(0), s.Revenue)
	}
	assert.Equal(t, int64(0), a.TotalRevenue())
	require.NoError(t, a.Verify())
}

func TestBookAndCancelKeepInvariants(t *testing.T) {
	a := New(3, 10)
	a.RecordBook(0, 150)
	a.RecordBook(2, 300)
	a.RecordBook(2, 200)
	require.NoError(t, a.Verify())

	assert.Equal(t, 1, a.Theater(0).Booked)
	assert.Equal(t, 9, a.Theater(0).Available)
	assert.Equal(t, int64(500), a.Theater(2).Revenue)
	assert.Equal(t, int64(650), a.TotalRevenue())

	a.RecordCancel(2, 300)
	require.NoError(t, a.Verify())
	assert.Equal(t, int64(200), a.Theater(2).Revenue)
	assert.Equal(t, int64(350), a.TotalRevenue())
}

func TestAllReturnsCopy(t *testing.T) {
	a := New(2, 4)
	all := a.All()
	all[0].Booked = 99
	assert.Equal(t, 0, a.Theater(0).Booked)
}

func TestVerifyDetectsDrift(t *testing.T) {
	a := New(1, 4)
	a.total = 10
	assert.Error(t, a.Verify())

	b := New(1, 4)
	b.theaters[0].Booked = 1
	assert.Error(t, b.Verify())
}
