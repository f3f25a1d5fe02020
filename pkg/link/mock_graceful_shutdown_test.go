package link

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMock_GracefulShutdown tests that Mock device closes the readings
// channel when Close() is called.
func TestMock_GracefulShutdown(t *testing.T) {
	mock := NewMock(steadyMockConfig(), zerolog.Nop())
	require.NoError(t, mock.Connect())
	require.NoError(t, mock.Start())

	readings := mock.Readings()

	// Read a few readings
	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range readings {
			received++
			if received == 3 {
				// Got enough readings, now close device
				mock.Close()
			}
		}
	}()

	// Wait for readings and channel closure
	select {
	case <-done:
		// Channel closed successfully
	case <-time.After(5 * time.Second):
		t.Fatal("Readings channel did not close within timeout")
	}

	assert.GreaterOrEqual(t, received, 3, "Should receive readings before channel closes")

	_, ok := <-readings
	assert.False(t, ok, "Channel should be closed")

	assert.False(t, mock.IsConnected())
}
