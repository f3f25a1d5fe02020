package link

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.bug.st/serial"

	"github.com/itohio/flexdms/pkg/probe"
)

const (
	// DefaultBaudRate is the probe firmware baud rate.
	DefaultBaudRate = probe.BaudRate
	// DefaultBufferSize is the default size for the readings channel buffer.
	DefaultBufferSize = 100
)

// Port represents a serial port.
type Port struct {
	Name string
}

// Serial is a connection to the probe over a serial port.
type Serial struct {
	port     string
	baudRate int
	log      zerolog.Logger

	conn      serial.Port
	stream    *stream
	done      chan struct{}
	mu        sync.RWMutex
	connected bool
	closed    bool
	closing   atomic.Bool
}

// NewSerial creates a Serial device for the given port. Zero baudRate or
// bufSize select the defaults.
func NewSerial(port string, baudRate int, bufSize int, log zerolog.Logger) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	return &Serial{
		port:     port,
		baudRate: baudRate,
		log:      log.With().Str("port", port).Logger(),
		stream:   newStream(bufSize, log),
		done:     make(chan struct{}),
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(names))
	for _, name := range names {
		result = append(result, Port{Name: name})
	}
	return result, nil
}

// Connect opens the serial port and starts reading probe output.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrClosed
	}
	if d.connected {
		return ErrAlreadyConnected
	}

	port, err := serial.Open(d.port, &serial.Mode{BaudRate: d.baudRate})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true
	d.log.Info().Int("baud", d.baudRate).Msg("serial port opened")

	go func() {
		defer close(d.done)
		if err := d.stream.consume(port); err != nil && !d.closing.Load() {
			d.log.Warn().Err(err).Msg("error reading from serial port")
		}
	}()

	return nil
}

// Close closes the port and waits for the reader to finish. The readings
// and events channels are closed afterwards.
func (d *Serial) Close() error {
	d.mu.Lock()
	if !d.connected {
		d.mu.Unlock()
		return nil
	}

	d.closing.Store(true)
	err := d.conn.Close()
	d.conn = nil
	d.connected = false
	d.closed = true
	d.mu.Unlock()

	<-d.done

	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// Start asks the probe to begin reporting.
func (d *Serial) Start() error {
	return d.send(probe.CommandConnect)
}

// Stop asks the probe to stop reporting.
func (d *Serial) Stop() error {
	return d.send(probe.CommandStop)
}

// Readings returns the channel of parsed data lines.
func (d *Serial) Readings() <-chan Reading {
	return d.stream.readings
}

// Events returns the channel of session acknowledgements.
func (d *Serial) Events() <-chan Event {
	return d.stream.events
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

func (d *Serial) send(cmd string) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return ErrNotConnected
	}

	if _, err := d.conn.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("failed to send %s command: %w", cmd, err)
	}
	return nil
}
