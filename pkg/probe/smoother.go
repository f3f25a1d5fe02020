package probe

// Smooth blends x into prev with weight alpha on the previous value.
func Smooth(alpha, prev, x float32) float32 {
	return alpha*prev + (1-alpha)*x
}

// Smoother is a single-pole low-pass filter with Alpha as its weight.
// The zero value starts from 0 and there is no reset.
type Smoother struct {
	value float32
}

// Update feeds x into the filter and returns the new filtered value.
func (s *Smoother) Update(x float32) float32 {
	s.value = Smooth(Alpha, s.value, x)
	return s.value
}

// Value returns the current filtered value.
func (s Smoother) Value() float32 {
	return s.value
}
