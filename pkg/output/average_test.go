package output

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/flexdms/pkg/link"
)

func TestAverage(t *testing.T) {
	now := time.Now()
	got := Average([]link.Reading{
		{Timestamp: now, Voltage: 2.4, Diff: 0.1, Resistance: 46, Bottom: 38, Top: 48, Line: "a"},
		{Timestamp: now.Add(10 * time.Millisecond), Voltage: 2.6, Diff: 0.3, Resistance: 50, Bottom: 38, Top: 48, Line: "b"},
	})

	assert.InDelta(t, 2.5, got.Voltage, 1e-9)
	assert.InDelta(t, 0.2, got.Diff, 1e-9)
	assert.InDelta(t, 48.0, got.Resistance, 1e-9)
	assert.Equal(t, 38.0, got.Bottom)
	assert.Equal(t, 48.0, got.Top)
	assert.True(t, now.Add(10*time.Millisecond).Equal(got.Timestamp))
	assert.Empty(t, got.Line)

	assert.Equal(t, link.Reading{}, Average(nil))
}

func TestAveraging_FlushOnClose(t *testing.T) {
	next := &recordingOutput{}
	a := NewAveraging(next, time.Hour, zerolog.Nop())

	for _, rx := range []float64{44, 46, 48} {
		require.NoError(t, a.Publish(link.Reading{Resistance: rx}))
	}
	require.NoError(t, a.Close())

	require.Len(t, next.published, 1)
	assert.InDelta(t, 46.0, next.published[0].Resistance, 1e-9)
	assert.True(t, next.closed)
}

func TestAveraging_EmptyWindow(t *testing.T) {
	next := &recordingOutput{}
	a := NewAveraging(next, time.Hour, zerolog.Nop())

	require.NoError(t, a.Close())
	assert.Empty(t, next.published)
	assert.True(t, next.closed)
}
