package link

import (
	"io"
	"sync"
)

// InputQueue is a goroutine-safe byte FIFO. Writers append bytes received
// from a blocking source; the probe drains it without blocking.
type InputQueue struct {
	mu  sync.Mutex
	buf []byte
}

// NewInputQueue returns an empty queue.
func NewInputQueue() *InputQueue {
	return &InputQueue{}
}

// Write appends p to the queue.
func (q *InputQueue) Write(p []byte) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.buf = append(q.buf, p...)
	return len(p), nil
}

// Buffered returns the number of queued bytes.
func (q *InputQueue) Buffered() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buf)
}

// ReadByte removes and returns the oldest byte, or io.EOF when empty.
func (q *InputQueue) ReadByte() (byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.buf) == 0 {
		return 0, io.EOF
	}
	b := q.buf[0]
	q.buf = q.buf[1:]
	if len(q.buf) == 0 {
		q.buf = q.buf[:0:0]
	}
	return b, nil
}
