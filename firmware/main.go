//go:build tinygo

//go:generate tinygo flash -target=arduino

package main

import (
	"machine"
	"time"

	"github.com/itohio/flexdms/pkg/probe"
)

var uart = machine.Serial

// sensor adapts a board ADC to probe.ADC. machine.ADC.Get returns a 16-bit
// left-aligned value regardless of resolution.
type sensor struct {
	adc machine.ADC
}

func (s sensor) Read() uint16 {
	return s.adc.Get() >> (16 - ADC_RESOLUTION)
}

func main() {
	machine.InitADC()

	PIN_SENSOR.Configure(machine.PinConfig{Mode: machine.PinInput})
	adc := machine.ADC{Pin: PIN_SENSOR}
	adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	p := probe.New(sensor{adc: adc}, uart, uart, time.Now)

	// Main loop
	for {
		p.Step()

		// Small delay to prevent tight loop (but still allow precise timing)
		time.Sleep(LOOP_IDLE)
	}
}
