package link

import (
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputQueue(t *testing.T) {
	q := NewInputQueue()
	assert.Equal(t, 0, q.Buffered())

	_, err := q.ReadByte()
	assert.ErrorIs(t, err, io.EOF)

	n, err := q.Write([]byte("ab"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, q.Buffered())

	b, err := q.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	b, err = q.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), b)
	assert.Equal(t, 0, q.Buffered())
}

func TestInputQueue_ConcurrentWriters(t *testing.T) {
	q := NewInputQueue()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = q.Write([]byte{'x'})
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 800, q.Buffered())
}
