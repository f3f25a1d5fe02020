package link

import (
	"context"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/flexdms/pkg/config"
	"github.com/itohio/flexdms/pkg/probe"
)

// Emulate runs a probe against adc until ctx is done. Bytes read from rw are
// fed to the command parser; reports and acknowledgements are written to rw.
// The reader goroutine exits when rw returns an error, so callers close rw
// after Emulate returns.
func Emulate(ctx context.Context, rw io.ReadWriter, adc probe.ADC, idle time.Duration, log zerolog.Logger) error {
	in := NewInputQueue()

	go func() {
		buf := make([]byte, 64)
		for {
			n, err := rw.Read(buf)
			if n > 0 {
				_, _ = in.Write(buf[:n])
			}
			if err != nil {
				log.Debug().Err(err).Msg("emulator input closed")
				return
			}
		}
	}()

	p := probe.New(adc, in, rw, time.Now)
	err := p.Run(ctx, idle)

	st := p.State()
	lower, upper, armed := st.Bracket.Bounds()
	log.Info().
		Stringer("session", st.Session).
		Uint32("dropped", st.Dropped).
		Bool("bracket_set", armed).
		Float32("bracket_lower", lower).
		Float32("bracket_upper", upper).
		Msg("probe emulator stopped")

	return err
}

// SimulatedBridge is a probe.ADC producing the counts of a sensor whose
// resistance swings sinusoidally around a resting value.
type SimulatedBridge struct {
	cfg   config.MockConfig
	start time.Time
	now   func() time.Time
	rng   *rand.Rand
}

// NewSimulatedBridge creates a simulated sensor starting now.
func NewSimulatedBridge(cfg config.MockConfig) *SimulatedBridge {
	return &SimulatedBridge{
		cfg:   cfg,
		start: time.Now(),
		now:   time.Now,
		rng:   rand.New(rand.NewSource(1)),
	}
}

// Resistance returns the simulated sensor resistance at elapsed time t.
func (b *SimulatedBridge) Resistance(t time.Duration) float64 {
	if b.cfg.Period <= 0 || b.cfg.Amplitude == 0 {
		return b.cfg.BaseResistance
	}
	phase := 2 * math.Pi * t.Seconds() / b.cfg.Period.Seconds()
	return b.cfg.BaseResistance + b.cfg.Amplitude*math.Sin(phase)
}

// Read implements probe.ADC.
func (b *SimulatedBridge) Read() uint16 {
	counts := CountsForResistance(b.Resistance(b.now().Sub(b.start)))
	if n := b.cfg.NoiseCounts; n > 0 {
		counts += float64(b.rng.Intn(2*n+1) - n)
	}
	counts = math.Round(counts)
	if counts < 0 {
		return 0
	}
	if counts > probe.ADCMaxCounts {
		return probe.ADCMaxCounts
	}
	return uint16(counts)
}

// CountsForResistance returns the ADC count that, held steady, makes the
// probe settle on rx. It inverts the gain stage and the bridge formula.
func CountsForResistance(rx float64) float64 {
	ratio := rx / probe.ReferenceResistance
	diff := (ratio - 1) / (probe.BridgeCoefficient * (ratio + 1))
	pin := probe.GainOffset - diff*probe.GainDivisor
	return pin / probe.VRef * probe.ADCMaxCounts
}
