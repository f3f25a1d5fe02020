package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendReport(t *testing.T) {
	tests := []struct {
		name string
		m    Measurement
		want string
	}{
		{
			name: "typical",
			m:    Measurement{Voltage: 2.5, Filtered: -0.5, Resistance: 43, Bottom: 38, Top: 48},
			want: " 2.500000,-0.500000,43.00,2,-2,38,48\r\n",
		},
		{
			name: "small values are padded",
			m:    Measurement{Voltage: 0.25, Filtered: 0.125, Resistance: 1.5, Bottom: 5, Top: 9},
			want: " 0.250000, 0.125000,1.50,2,-2, 5, 9\r\n",
		},
		{
			name: "wide values are not truncated",
			m:    Measurement{Voltage: 12.5, Filtered: -10.25, Resistance: 123.25, Bottom: 118, Top: 128},
			want: "12.500000,-10.250000,123.25,2,-2,118,128\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendReport(nil, tt.m)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestAppendReport_ReusesBuffer(t *testing.T) {
	buf := make([]byte, 0, 64)
	buf = AppendReport(buf, Measurement{Voltage: 1})
	first := string(buf)
	buf = AppendReport(buf[:0], Measurement{Voltage: 1})
	assert.Equal(t, first, string(buf))
}
