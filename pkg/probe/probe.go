// Package probe implements the FlexDMS bridge measurement loop: oversampled
// acquisition of one analog channel, exponential smoothing, resistance
// estimation and the host-controlled reporting session.
//
// The package has no dependencies on a particular board. Firmware wires a
// board ADC and UART into New; the host emulator wires simulated ones.
package probe

import (
	"context"
	"io"
	"time"
)

const (
	// OversamplingFactor is the number of raw ADC reads averaged per tick.
	OversamplingFactor = 16
	// ADCMaxCounts is the full-scale count of the 10-bit converter.
	ADCMaxCounts = 1023.0
	// VRef is the ADC reference voltage (V).
	VRef = 5.0

	// Gain stage calibration: gain = -((v - GainOffset) / GainDivisor).
	GainOffset  = 1.65
	GainDivisor = 1.213

	// Alpha is the smoothing factor of the low-pass filter.
	// 0.9 = smooth (slow response), 0.1 = less smooth (faster response).
	Alpha = 0.9

	// ReferenceResistance is the bridge reference resistor (Ohm).
	ReferenceResistance = 43.0
	// BridgeCoefficient scales the filtered voltage in the bridge formula.
	BridgeCoefficient = 0.61

	// BracketHalfSpan is the distance of each bracket bound from the first estimate.
	BracketHalfSpan = 5.0

	// TickInterval is the re-arm delay of the measurement task.
	TickInterval = 10 * time.Millisecond

	// BaudRate is the serial link speed of the reference board.
	BaudRate = 250000
)

// ADC is a single analog channel returning 10-bit counts (0-1023).
type ADC interface {
	Read() uint16
}

// Input is the receive side of the serial link. It must never block:
// Buffered reports how many bytes ReadByte can return right away.
type Input interface {
	Buffered() int
	ReadByte() (byte, error)
}

// State groups everything the loop keeps between ticks.
type State struct {
	Filter  Smoother
	Session Session
	Bracket Bracket
	// Dropped counts ticks whose resistance estimate was not representable.
	Dropped uint32
}

// Probe ties the measurement pipeline, command dispatch and scheduler
// together over one ADC channel and one serial link.
type Probe struct {
	adc   ADC
	in    Input
	out   io.Writer
	state State

	commands  Commands
	scheduler *Scheduler
	line      []byte
}

// New creates a probe. now is the clock used by the scheduler; pass time.Now
// on real hardware.
func New(adc ADC, in Input, out io.Writer, now func() time.Time) *Probe {
	p := &Probe{
		adc:  adc,
		in:   in,
		out:  out,
		line: make([]byte, 0, 64),
	}

	// Registration only fails past MaxCommands.
	_ = p.commands.Register(CommandConnect, p.connect)
	_ = p.commands.Register(CommandStop, p.stop)

	p.scheduler = NewScheduler(now, p.poll)
	p.scheduler.Every(TickInterval, p.tick)

	return p
}

// Step runs one scheduler cycle: command poll, then the measurement task if due.
func (p *Probe) Step() {
	p.scheduler.Step()
}

// Run steps the probe until ctx is done, sleeping idle between cycles.
func (p *Probe) Run(ctx context.Context, idle time.Duration) error {
	return p.scheduler.Run(ctx, idle)
}

// State returns a copy of the loop state.
func (p *Probe) State() State {
	return p.state
}

func (p *Probe) poll() {
	if p.in != nil {
		p.commands.Poll(p.in)
	}
}

func (p *Probe) tick() {
	if p.state.Session != Reporting {
		return
	}

	m, ok := Measure(&p.state, p.adc)
	if !ok {
		return
	}

	p.line = AppendReport(p.line[:0], m)
	_, _ = p.out.Write(p.line)
}

// Measure runs one pass of the pipeline against st. It reports false when
// nothing should be emitted for this tick: either the raw voltage was zero
// or the resistance estimate was not representable.
func Measure(st *State, adc ADC) (Measurement, bool) {
	voltage := ToVoltage(Sample(adc))

	m := Measurement{
		Voltage:  voltage,
		Filtered: st.Filter.Update(Gain(voltage)),
	}

	rx, err := EstimateResistance(m.Filtered)
	if err != nil {
		st.Dropped++
		return m, false
	}
	m.Resistance = rx

	// A zero raw voltage means no data yet; the bracket is not armed from it.
	if voltage == 0 {
		return m, false
	}

	st.Bracket.Arm(rx)
	m.Bottom, m.Top, _ = st.Bracket.Bounds()

	return m, true
}
