package output

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/flexdms/pkg/link"
)

// Averaging collects readings and publishes their mean to the wrapped output
// once per interval. Publish never blocks on the wrapped output.
type Averaging struct {
	next Output
	log  zerolog.Logger

	mu     sync.Mutex
	buffer []link.Reading

	stop chan struct{}
	done chan struct{}
}

// NewAveraging starts publishing the mean of the readings received during
// each interval to next. interval must be positive.
func NewAveraging(next Output, interval time.Duration, log zerolog.Logger) *Averaging {
	a := &Averaging{
		next: next,
		log:  log,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(a.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-a.stop:
				a.flush()
				return
			case <-ticker.C:
				a.flush()
			}
		}
	}()

	return a
}

// Publish adds r to the current window.
func (a *Averaging) Publish(r link.Reading) error {
	a.mu.Lock()
	a.buffer = append(a.buffer, r)
	a.mu.Unlock()
	return nil
}

// Close publishes the pending window and closes the wrapped output.
func (a *Averaging) Close() error {
	close(a.stop)
	<-a.done
	return a.next.Close()
}

func (a *Averaging) flush() {
	a.mu.Lock()
	window := a.buffer
	a.buffer = nil
	a.mu.Unlock()

	if len(window) == 0 {
		return
	}
	if err := a.next.Publish(Average(window)); err != nil {
		a.log.Warn().Err(err).Int("readings", len(window)).Msg("publish averaged reading")
	}
}

// Average returns the mean of readings. Timestamp and the bracket bounds come
// from the most recent reading; Line is left empty.
func Average(readings []link.Reading) link.Reading {
	if len(readings) == 0 {
		return link.Reading{}
	}

	var sum link.Reading
	for _, r := range readings {
		sum.Voltage += r.Voltage
		sum.Diff += r.Diff
		sum.Resistance += r.Resistance
	}

	n := float64(len(readings))
	last := readings[len(readings)-1]
	return link.Reading{
		Timestamp:  last.Timestamp,
		Voltage:    sum.Voltage / n,
		Diff:       sum.Diff / n,
		Resistance: sum.Resistance / n,
		Bottom:     last.Bottom,
		Top:        last.Top,
	}
}
