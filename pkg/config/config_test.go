package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpfile.Name()) })

	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 250000, cfg.Serial.BaudRate)
	assert.Equal(t, 100, cfg.Serial.BufferSize)
	assert.Equal(t, float64(48), cfg.Mock.BaseResistance)
	assert.Equal(t, 5*time.Second, cfg.Mock.Period)
	assert.True(t, cfg.Outputs.Console)
	assert.False(t, cfg.Outputs.MQTT.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.Outputs.MQTT.Interval)
	assert.Equal(t, float64(38), cfg.Analysis.Lower)
	assert.Equal(t, float64(58), cfg.Analysis.Upper)
	assert.Equal(t, 46.7, cfg.Analysis.Threshold)
	assert.Equal(t, "sim", cfg.Emulator.ADC)
	assert.Equal(t, 0x48, cfg.Emulator.I2CAddress)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	name := writeTemp(t, `
serial:
  port: "/dev/ttyUSB1"
  baud_rate: 115200

mock:
  base_resistance: 50
  amplitude: 2
  period: 2s
  noise_counts: 3

outputs:
  console: false
  record_path: "run.txt"
  mqtt:
    enabled: true
    server: "tcp://broker:1883"
    topic: "lab/dms"

analysis:
  lower: 40
  upper: 60
  threshold: 50

emulator:
  adc: ads1115
  i2c_bus: "2"
  channel: 1
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB1", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, float64(50), cfg.Mock.BaseResistance)
	assert.Equal(t, 2*time.Second, cfg.Mock.Period)
	assert.Equal(t, 3, cfg.Mock.NoiseCounts)
	assert.False(t, cfg.Outputs.Console)
	assert.Equal(t, "run.txt", cfg.Outputs.RecordPath)
	assert.True(t, cfg.Outputs.MQTT.Enabled)
	assert.Equal(t, "tcp://broker:1883", cfg.Outputs.MQTT.Server)
	assert.Equal(t, "lab/dms", cfg.Outputs.MQTT.Topic)
	assert.Equal(t, "flexdms", cfg.Outputs.MQTT.ClientID) // default
	assert.Equal(t, float64(40), cfg.Analysis.Lower)
	assert.Equal(t, float64(60), cfg.Analysis.Upper)
	assert.Equal(t, float64(50), cfg.Analysis.Threshold)
	assert.Equal(t, "ads1115", cfg.Emulator.ADC)
	assert.Equal(t, "2", cfg.Emulator.I2CBus)
	assert.Equal(t, 1, cfg.Emulator.Channel)
}

func TestLoad_InvalidYAML(t *testing.T) {
	name := writeTemp(t, "invalid: yaml: content: [")

	cfg, err := Load(name)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	name := writeTemp(t, `
serial:
  port: "/dev/ttyACM1"
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyACM1", cfg.Serial.Port)
	assert.Equal(t, 250000, cfg.Serial.BaudRate)             // default
	assert.Equal(t, time.Millisecond, cfg.Mock.LoopInterval) // default
	assert.True(t, cfg.Outputs.Console)                      // default
}

func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "empty analysis window", content: "analysis:\n  lower: 60\n  upper: 40\n"},
		{name: "unknown adc", content: "emulator:\n  adc: mcp3008\n"},
		{name: "channel out of range", content: "emulator:\n  channel: 4\n"},
		{name: "negative mqtt interval", content: "outputs:\n  mqtt:\n    interval: -1s\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeTemp(t, tt.content))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Analysis.Threshold = 47.5

	name := writeTemp(t, "")
	require.NoError(t, cfg.Save(name))

	// Load it back and verify
	loaded, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, 47.5, loaded.Analysis.Threshold)
	assert.Equal(t, cfg.Mock.Period, loaded.Mock.Period)
}
