package probe

import "strconv"

// LineEnding terminates every line the probe writes.
const LineEnding = "\r\n"

// Measurement holds the quantities of one reported tick.
type Measurement struct {
	Voltage    float32 // ADC pin voltage (V)
	Filtered   float32 // Smoothed bridge voltage difference (V)
	Resistance float32 // Estimated resistance (Ohm)
	Bottom     float32 // Lower bracket bound (Ohm)
	Top        float32 // Upper bracket bound (Ohm)
}

// AppendReport appends the report line for m to dst.
// Format: v_out,v_diff,Rx,2,-2,Rbot,Rtop
// Example: " 2.500000,-0.500000,43.00,2,-2,38,48"
func AppendReport(dst []byte, m Measurement) []byte {
	dst = appendFixed(dst, m.Voltage, 9, 6)
	dst = append(dst, ',')
	dst = appendFixed(dst, m.Filtered, 9, 6)
	dst = append(dst, ',')
	dst = appendFixed(dst, m.Resistance, 4, 2)
	dst = append(dst, ",2,-2,"...)
	dst = appendFixed(dst, m.Bottom, 2, 0)
	dst = append(dst, ',')
	dst = appendFixed(dst, m.Top, 2, 0)
	return append(dst, LineEnding...)
}

// appendFixed formats v with prec decimals, right-justified to width.
func appendFixed(dst []byte, v float32, width, prec int) []byte {
	var tmp [32]byte
	s := strconv.AppendFloat(tmp[:0], float64(v), 'f', prec, 32)
	for i := len(s); i < width; i++ {
		dst = append(dst, ' ')
	}
	return append(dst, s...)
}
