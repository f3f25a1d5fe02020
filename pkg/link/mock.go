package link

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/flexdms/pkg/config"
	"github.com/itohio/flexdms/pkg/probe"
)

// Mock runs the probe firmware logic in-process against a simulated bridge
// and talks to it through pipes, so the host sees the same byte stream a
// real probe would send.
type Mock struct {
	cfg *config.MockConfig
	log zerolog.Logger

	stream   *stream
	cmdW     *io.PipeWriter
	outW     *io.PipeWriter
	cancel   context.CancelFunc
	runDone  chan struct{}
	readDone chan struct{}

	mu        sync.RWMutex
	connected bool
	closed    bool
}

// pipeConn joins the command and output pipes into the probe's serial link.
type pipeConn struct {
	io.Reader
	io.Writer
}

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.MockConfig, log zerolog.Logger) *Mock {
	if cfg == nil {
		cfg = &config.MockConfig{
			BaseResistance: 48,
			Amplitude:      4,
			Period:         5 * time.Second,
			NoiseCounts:    1,
			LoopInterval:   time.Millisecond,
		}
	}

	return &Mock{
		cfg:      cfg,
		log:      log.With().Str("device", "mock").Logger(),
		stream:   newStream(DefaultBufferSize, log),
		runDone:  make(chan struct{}),
		readDone: make(chan struct{}),
	}
}

// Connect starts the emulated probe.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.connected {
		return ErrAlreadyConnected
	}

	cmdR, cmdW := io.Pipe()
	outR, outW := io.Pipe()
	m.cmdW = cmdW
	m.outW = outW

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.connected = true

	go func() {
		defer close(m.readDone)
		_ = m.stream.consume(outR)
	}()

	go func() {
		defer close(m.runDone)
		_ = Emulate(ctx, pipeConn{Reader: cmdR, Writer: outW}, NewSimulatedBridge(*m.cfg), m.cfg.LoopInterval, m.log)
	}()

	return nil
}

// Close stops the emulated probe and closes the readings and events channels.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	<-m.runDone

	m.cmdW.Close()
	m.outW.Close()
	<-m.readDone

	m.connected = false
	m.closed = true
	return nil
}

// Start asks the emulated probe to begin reporting.
func (m *Mock) Start() error {
	return m.send(probe.CommandConnect)
}

// Stop asks the emulated probe to stop reporting.
func (m *Mock) Stop() error {
	return m.send(probe.CommandStop)
}

// Readings returns the channel of parsed data lines.
func (m *Mock) Readings() <-chan Reading {
	return m.stream.readings
}

// Events returns the channel of session acknowledgements.
func (m *Mock) Events() <-chan Event {
	return m.stream.events
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

func (m *Mock) send(cmd string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected {
		return ErrNotConnected
	}
	if _, err := m.cmdW.Write([]byte(cmd + "\n")); err != nil {
		return fmt.Errorf("failed to send %s command: %w", cmd, err)
	}
	return nil
}
