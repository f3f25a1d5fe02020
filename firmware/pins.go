//go:build tinygo

package main

import (
	"machine"
	"time"

	"github.com/itohio/flexdms/pkg/probe"
)

const (
	// ADC configuration
	ADC_REFERENCE_MV = 5000 // Reference voltage in millivolts (5V)
	ADC_RESOLUTION   = 10   // ADC resolution in bits (10-bit = 0-1023)

	// Bridge output
	PIN_SENSOR = machine.ADC0

	// Serial configuration
	// Format: " v_out   , v_diff  ,Rx   ,2,-2,Rb,Rt\r\n" = ~40 bytes per line
	// 100 lines/sec * 40 bytes/line = 4,000 bytes/sec
	// UART 8N1: 10 bits/byte = 40,000 baud minimum.
	// 250000 provides ~6x headroom.
	UART_BAUD_RATE = probe.BaudRate

	// Idle time between scheduler cycles
	LOOP_IDLE = 100 * time.Microsecond
)
