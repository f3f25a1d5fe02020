package link

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const eventBufferSize = 8

// stream turns probe output into readings and events.
type stream struct {
	readings chan Reading
	events   chan Event
	log      zerolog.Logger
	now      func() time.Time
}

func newStream(bufSize int, log zerolog.Logger) *stream {
	return &stream{
		readings: make(chan Reading, bufSize),
		events:   make(chan Event, eventBufferSize),
		log:      log,
		now:      time.Now,
	}
}

// consume reads lines from r until it fails, then closes both channels.
// It returns the read error, or nil at EOF.
func (s *stream) consume(r io.Reader) error {
	defer close(s.events)
	defer close(s.readings)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		s.handle(scanner.Text())
	}
	return scanner.Err()
}

func (s *stream) handle(line string) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return
	}
	now := s.now()

	if kind, rest, ok := splitAck(line); ok {
		s.log.Debug().Stringer("event", kind).Msg("probe acknowledged")
		select {
		case s.events <- Event{Kind: kind, Timestamp: now}:
		default:
			s.log.Warn().Stringer("event", kind).Msg("events channel full, dropping event")
		}
		line = rest
		if strings.TrimSpace(line) == "" {
			return
		}
	}

	reading, err := ParseLine(line)
	if err != nil {
		s.log.Warn().Err(err).Str("line", line).Msg("failed to parse line")
		return
	}
	reading.Timestamp = now

	// Send reading to channel (non-blocking)
	select {
	case s.readings <- reading:
	default:
		s.log.Warn().Msg("readings channel full, dropping reading")
	}
}
