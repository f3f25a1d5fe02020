package probe

import (
	"bytes"
	"time"
)

// constADC always returns the same count.
type constADC uint16

func (c constADC) Read() uint16 { return uint16(c) }

// seqADC returns its values in order and then repeats the last one.
type seqADC struct {
	values []uint16
	pos    int
}

func (s *seqADC) Read() uint16 {
	v := s.values[s.pos]
	if s.pos < len(s.values)-1 {
		s.pos++
	}
	return v
}

// bufInput is a non-blocking Input backed by a bytes.Buffer.
type bufInput struct {
	bytes.Buffer
}

func (b *bufInput) Buffered() int { return b.Len() }

// fakeClock is advanced manually.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
