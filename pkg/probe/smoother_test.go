package probe

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestSmoother_Scenario(t *testing.T) {
	var s Smoother
	assert.Equal(t, float32(0), s.Value())

	assert.InDelta(t, 0.1, s.Update(1.0), 1e-6)
	assert.InDelta(t, 0.19, s.Update(1.0), 1e-6)
	assert.InDelta(t, 0.19, s.Value(), 1e-6)
}

func TestSmooth_ConvergesMonotonically(t *testing.T) {
	alphas := []float32{0.1, 0.5, 0.9, 0.99}
	starts := []float32{-3, 0, 5}
	const target = float32(1.25)

	for _, alpha := range alphas {
		for _, start := range starts {
			prev := start
			prevErr := math32.Abs(prev - target)
			for i := 0; i < 500 && prevErr > 1e-4; i++ {
				prev = Smooth(alpha, prev, target)
				err := math32.Abs(prev - target)
				assert.LessOrEqual(t, err, prevErr, "alpha=%v start=%v tick=%d", alpha, start, i)
				// error decays by alpha per tick
				assert.InDelta(t, alpha*prevErr, err, 1e-5, "alpha=%v start=%v tick=%d", alpha, start, i)
				prevErr = err
			}
		}
	}
}

func TestSmooth_StaysWithinInputRange(t *testing.T) {
	var s Smoother
	inputs := []float32{1, -1, 0.5, 2, -2, 0}

	for _, x := range inputs {
		prev := s.Value()
		got := s.Update(x)
		lo := math32.Min(prev, x)
		hi := math32.Max(prev, x)
		assert.GreaterOrEqual(t, got, lo)
		assert.LessOrEqual(t, got, hi)
	}
}
