package queue

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-booking-engine/internal/model"
)

func TestHandleMessageAppendsCanonicalLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.txt")

	cmd, err := HandleMessage([]byte(" 1  0 7 0 2\n"), path)
	require.NoError(t, err)
	assert.Equal(t, model.Command{Op: model.OpBook, Row: 7, Category: model.CategoryVIP}, cmd)
	_, err = HandleMessage([]byte("2 0 7 0 2"), path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 0 7 0 2\n2 0 7 0 2\n", string(data))
}

func TestHandleMessageRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.txt")

	_, err := HandleMessage([]byte(`{"op":1}`), path)
	assert.ErrorIs(t, err, model.ErrMalformedCommand)
	assert.NotErrorIs(t, err, errWrite)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestHandleMessageWriteFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "commands.txt")
	_, err := HandleMessage([]byte("1 0 0 0 0"), path)
	assert.ErrorIs(t, err, errWrite)
}

func TestWriteRetryBacksOff(t *testing.T) {
	var r writeRetry
	assert.Equal(t, minWriteRetry, r.next())
	assert.Equal(t, 2*minWriteRetry, r.next())
	assert.Equal(t, 4*minWriteRetry, r.next())

	for i := 0; i < 20; i++ {
		r.next()
	}
	assert.Equal(t, maxWriteRetry, r.next())

	r.reset()
	assert.Equal(t, minWriteRetry, r.next())
}

func TestSleepCtx(t *testing.T) {
	assert.True(t, sleepCtx(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.False(t, sleepCtx(ctx, time.Hour))
}
