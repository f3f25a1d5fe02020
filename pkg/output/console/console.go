// Package console writes readings as timestamped text lines, either to a
// terminal or to a record file for later analysis.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/itohio/flexdms/pkg/link"
	"github.com/itohio/flexdms/pkg/output"
)

var _ output.Output = (*Writer)(nil)

// Writer writes "HH:MM:SS:mmm,<probe line>" for every reading.
type Writer struct {
	w      *bufio.Writer
	closer io.Closer
}

// New writes to w. Close flushes but does not close w.
func New(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// NewFile appends to the record file at path, creating it if needed.
func NewFile(path string) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open record file: %w", err)
	}
	return &Writer{w: bufio.NewWriter(f), closer: f}, nil
}

// Publish writes one line and flushes it.
func (c *Writer) Publish(r link.Reading) error {
	if _, err := fmt.Fprintf(c.w, "%s,%s\n", link.FormatTimestamp(r.Timestamp), r.Line); err != nil {
		return err
	}
	return c.w.Flush()
}

// Close flushes pending output and closes the file, if any.
func (c *Writer) Close() error {
	err := c.w.Flush()
	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
