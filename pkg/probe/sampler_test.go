package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSample_ConstantInput(t *testing.T) {
	assert.Equal(t, float32(512.0), Sample(constADC(512)))
	assert.Equal(t, float32(0), Sample(constADC(0)))
	assert.Equal(t, float32(1023), Sample(constADC(1023)))
}

func TestSample_Averages(t *testing.T) {
	values := make([]uint16, OversamplingFactor)
	for i := range values {
		values[i] = uint16(i)
	}
	adc := &seqADC{values: values}

	// 0..15 averages to 7.5
	assert.Equal(t, float32(7.5), Sample(adc))
	assert.Equal(t, OversamplingFactor-1, adc.pos, "Sample should read exactly OversamplingFactor times")
}

func TestToVoltage(t *testing.T) {
	tests := []struct {
		name    string
		average float32
		want    float32
	}{
		{name: "zero", average: 0, want: 0},
		{name: "full scale", average: 1023, want: 5.0},
		{name: "mid scale", average: 511.5, want: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ToVoltage(tt.average), 1e-5)
		})
	}
}

func TestGain(t *testing.T) {
	tests := []struct {
		name    string
		voltage float32
		want    float32
	}{
		{name: "offset point", voltage: 1.65, want: 0},
		{name: "zero input", voltage: 0, want: 1.65 / 1.213},
		{name: "full scale", voltage: 5, want: -(5 - 1.65) / 1.213},
		{name: "out of range is not clamped", voltage: 10, want: -(10 - 1.65) / 1.213},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Gain(tt.voltage), 1e-5)
		})
	}
}
