package probe

// Sample reads adc OversamplingFactor times and returns the mean count.
func Sample(adc ADC) float32 {
	var sum uint32
	for i := 0; i < OversamplingFactor; i++ {
		sum += uint32(adc.Read())
	}
	return float32(sum) / OversamplingFactor
}

// ToVoltage converts an averaged count to the voltage at the ADC pin.
func ToVoltage(average float32) float32 {
	return (average / ADCMaxCounts) * VRef
}

// Gain applies the fixed transfer function of the analog front end.
// Values outside the ADC range propagate unclamped.
func Gain(voltage float32) float32 {
	return -((voltage - GainOffset) / GainDivisor)
}
