package link

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itohio/flexdms/pkg/probe"
)

// ErrUnknownLine is returned for lines that are neither data nor acknowledgements.
var ErrUnknownLine = errors.New("link: unrecognized line")

// Reading is one data line reported by the probe.
type Reading struct {
	Timestamp  time.Time // Host receive time
	Voltage    float64   // ADC pin voltage (V)
	Diff       float64   // Filtered bridge voltage difference (V)
	Resistance float64   // Estimated resistance (Ohm)
	Bottom     float64   // Lower bracket bound (Ohm)
	Top        float64   // Upper bracket bound (Ohm)
	Line       string    // Line as received, without terminator
}

// EventKind identifies a session acknowledgement.
type EventKind int

const (
	EventStarted EventKind = iota + 1
	EventStopped
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Event is a session acknowledgement received from the probe.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
}

const reportFields = 7

// ParseLine parses a probe data line.
// Format: v_out,v_diff,Rx,2,-2,Rbot,Rtop
// Example: " 2.502444,-0.070276,39.46,2,-2,34,44"
func ParseLine(line string) (Reading, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != reportFields {
		return Reading{}, fmt.Errorf("%w: expected %d comma-separated values, got %d", ErrUnknownLine, reportFields, len(parts))
	}

	var vals [reportFields]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Reading{}, fmt.Errorf("invalid field %d: %w", i+1, err)
		}
		vals[i] = v
	}

	// Fixed plot markers
	if vals[3] != 2 || vals[4] != -2 {
		return Reading{}, fmt.Errorf("%w: unexpected markers %v,%v", ErrUnknownLine, vals[3], vals[4])
	}

	return Reading{
		Voltage:    vals[0],
		Diff:       vals[1],
		Resistance: vals[2],
		Bottom:     vals[5],
		Top:        vals[6],
		Line:       strings.TrimRight(line, "\r\n"),
	}, nil
}

// splitAck recognizes an acknowledgement at the start of line and returns
// whatever follows it. Older firmware sends acknowledgements without a line
// terminator, so a data line may be glued to the end.
func splitAck(line string) (EventKind, string, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, probe.AckConnect):
		return EventStarted, trimmed[len(probe.AckConnect):], true
	case strings.HasPrefix(trimmed, probe.AckStop):
		return EventStopped, trimmed[len(probe.AckStop):], true
	default:
		return 0, line, false
	}
}

// FormatTimestamp formats t the way the recorder prefixes lines: HH:MM:SS:mmm.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%s:%03d", t.Format("15:04:05"), t.Nanosecond()/int(time.Millisecond))
}
