package probe

import (
	"errors"
	"strings"
)

const (
	// MaxCommands is the number of handlers a Commands table can hold.
	MaxCommands = 10
	// MaxLineLength is the longest command line accepted; longer lines are discarded.
	MaxLineLength = 90
)

// ErrTooManyCommands is returned by Register when the table is full.
var ErrTooManyCommands = errors.New("probe: command table full")

// Handler receives the whitespace separated arguments after the command name.
type Handler func(args []string)

// Commands assembles bytes into lines and dispatches them by their first word.
// Lines end at '\r' or '\n'. Unknown commands are ignored.
type Commands struct {
	names    [MaxCommands]string
	handlers [MaxCommands]Handler
	n        int

	buf      [MaxLineLength]byte
	pos      int
	overflow bool
}

// Register adds a handler for name.
func (c *Commands) Register(name string, h Handler) error {
	if c.n == MaxCommands {
		return ErrTooManyCommands
	}
	c.names[c.n] = name
	c.handlers[c.n] = h
	c.n++
	return nil
}

// Poll drains whatever in has buffered and dispatches every completed line.
// It returns immediately when nothing is buffered.
func (c *Commands) Poll(in Input) {
	for in.Buffered() > 0 {
		b, err := in.ReadByte()
		if err != nil {
			return
		}
		c.feed(b)
	}
}

func (c *Commands) feed(b byte) {
	if b == '\r' || b == '\n' {
		if !c.overflow && c.pos > 0 {
			c.Dispatch(string(c.buf[:c.pos]))
		}
		// Reset buffer regardless of outcome
		c.pos = 0
		c.overflow = false
		return
	}

	if c.pos == len(c.buf) {
		c.overflow = true
		return
	}
	c.buf[c.pos] = b
	c.pos++
}

// Dispatch runs the handler registered for the first word of line and
// reports whether one was found.
func (c *Commands) Dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	for i := 0; i < c.n; i++ {
		if c.names[i] == fields[0] {
			c.handlers[i](fields[1:])
			return true
		}
	}
	return false
}
