// Package adc provides an ADS1115 I2C converter as a probe.ADC so the probe
// loop can run on a Linux host against real hardware.
package adc

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/itohio/flexdms/pkg/probe"
)

const (
	pointerConv   = 0x00
	pointerConfig = 0x01

	// Full scale of the ±6.144V PGA range. It covers the 0-5V span of the
	// reference board ADC.
	fullScale = 6.144
)

// ErrInvalidChannel is returned for inputs outside AIN0-AIN3.
var ErrInvalidChannel = errors.New("invalid ads1115 channel")

// ADS1115 reads one single-ended input in continuous conversion mode and
// scales it to 10-bit counts over probe.VRef.
type ADS1115 struct {
	dev conn.Conn
	bus i2c.BusCloser

	mu  sync.Mutex
	err error
}

// Open initializes periph, opens the I2C bus and starts continuous
// conversion on channel.
func Open(bus string, addr uint16, channel int) (*ADS1115, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	b, err := i2creg.Open(bus)
	if err != nil {
		return nil, fmt.Errorf("open i2c %q: %w", bus, err)
	}

	a, err := New(&i2c.Dev{Addr: addr, Bus: b}, channel)
	if err != nil {
		b.Close()
		return nil, err
	}
	a.bus = b
	return a, nil
}

// New configures the converter behind c.
func New(c conn.Conn, channel int) (*ADS1115, error) {
	msb, lsb, err := configWord(channel)
	if err != nil {
		return nil, err
	}
	if err := c.Tx([]byte{pointerConfig, msb, lsb}, nil); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}
	return &ADS1115{dev: c}, nil
}

// Read returns the latest conversion as 0-1023 counts. On a bus error it
// returns 0, which the probe treats as no reading, and records the error.
func (a *ADS1115) Read() uint16 {
	buf := make([]byte, 2)
	if err := a.dev.Tx([]byte{pointerConv}, buf); err != nil {
		a.mu.Lock()
		a.err = fmt.Errorf("read conversion: %w", err)
		a.mu.Unlock()
		return 0
	}
	return toCounts(int16(buf[0])<<8 | int16(buf[1]))
}

// Err returns the last read error and clears it.
func (a *ADS1115) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	err := a.err
	a.err = nil
	return err
}

// Close releases the I2C bus.
func (a *ADS1115) Close() error {
	if a.bus != nil {
		return a.bus.Close()
	}
	return nil
}

func configWord(channel int) (byte, byte, error) {
	if channel < 0 || channel > 3 {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidChannel, channel)
	}
	mux := byte(0x4 + channel) // AINx vs GND

	var config uint16
	config |= uint16(mux) << 12
	// PGA ±6.144V (000), continuous mode (bit 8 = 0)
	config |= 0x7 << 5 // 860 SPS
	config |= 0x3      // comparator disabled
	return byte(config >> 8), byte(config & 0xFF), nil
}

func toCounts(raw int16) uint16 {
	volts := float64(raw) * fullScale / 32768.0
	counts := math.Round(volts / probe.VRef * probe.ADCMaxCounts)
	switch {
	case counts < 0:
		return 0
	case counts > probe.ADCMaxCounts:
		return probe.ADCMaxCounts
	}
	return uint16(counts)
}

var _ probe.ADC = (*ADS1115)(nil)
