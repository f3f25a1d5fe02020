package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the host application configuration.
type Config struct {
	Serial   SerialConfig   `yaml:"serial"`
	Mock     MockConfig     `yaml:"mock"`
	Outputs  OutputsConfig  `yaml:"outputs"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Emulator EmulatorConfig `yaml:"emulator"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port       string `yaml:"port"`
	BaudRate   int    `yaml:"baud_rate"`
	BufferSize int    `yaml:"buffer_size"` // Readings channel capacity
}

// MockConfig describes the simulated bridge used instead of real hardware.
type MockConfig struct {
	BaseResistance float64       `yaml:"base_resistance"` // Resting sensor resistance (Ohm)
	Amplitude      float64       `yaml:"amplitude"`       // Peak deflection from rest (Ohm)
	Period         time.Duration `yaml:"period"`          // Deflection period
	NoiseCounts    int           `yaml:"noise_counts"`    // Peak ADC noise (counts)
	LoopInterval   time.Duration `yaml:"loop_interval"`   // Emulated scheduler cycle
}

// OutputsConfig selects where readings go.
type OutputsConfig struct {
	Console    bool       `yaml:"console"`
	RecordPath string     `yaml:"record_path"` // Timestamped log file; empty disables
	MQTT       MQTTConfig `yaml:"mqtt"`
}

// MQTTConfig contains MQTT publisher configuration.
type MQTTConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Server   string        `yaml:"server"`
	ClientID string        `yaml:"client_id"`
	Topic    string        `yaml:"topic"`
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Interval time.Duration `yaml:"interval"` // Publish the mean of readings at this rate; 0 publishes every reading
}

// AnalysisConfig contains the log analysis window and threshold.
type AnalysisConfig struct {
	Lower     float64 `yaml:"lower"`     // Lowest Rx kept (Ohm)
	Upper     float64 `yaml:"upper"`     // Highest Rx kept (Ohm)
	Threshold float64 `yaml:"threshold"` // Rx above which the sensor counts as deflected (Ohm)
}

// EmulatorConfig describes the probe emulator backend.
type EmulatorConfig struct {
	Port       string `yaml:"port"`        // Serial port the emulated probe answers on
	ADC        string `yaml:"adc"`         // "sim" or "ads1115"
	I2CBus     string `yaml:"i2c_bus"`     // e.g. "1" -> /dev/i2c-1
	I2CAddress int    `yaml:"i2c_address"` // ADS1115 address
	Channel    int    `yaml:"channel"`     // ADS1115 single-ended input (0-3)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:       "/dev/ttyACM0", // "COM3" on Windows
			BaudRate:   250000,
			BufferSize: 100,
		},
		Mock: MockConfig{
			BaseResistance: 48,
			Amplitude:      4,
			Period:         5 * time.Second,
			NoiseCounts:    1,
			LoopInterval:   time.Millisecond,
		},
		Outputs: OutputsConfig{
			Console: true,
			MQTT: MQTTConfig{
				Server:   "tcp://localhost:1883",
				ClientID: "flexdms",
				Topic:    "flexdms/reading",
				Interval: 100 * time.Millisecond,
			},
		},
		Analysis: AnalysisConfig{
			Lower:     38,
			Upper:     58,
			Threshold: 46.7,
		},
		Emulator: EmulatorConfig{
			Port:       "/dev/ttyGS0",
			ADC:        "sim",
			I2CBus:     "1",
			I2CAddress: 0x48,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	if c.Analysis.Lower > c.Analysis.Upper {
		return fmt.Errorf("analysis window is empty: lower %v > upper %v", c.Analysis.Lower, c.Analysis.Upper)
	}
	switch c.Emulator.ADC {
	case "sim", "ads1115":
	default:
		return fmt.Errorf("unknown emulator adc %q (want sim or ads1115)", c.Emulator.ADC)
	}
	if c.Outputs.MQTT.Interval < 0 {
		return fmt.Errorf("mqtt interval %v is negative", c.Outputs.MQTT.Interval)
	}
	if c.Emulator.Channel < 0 || c.Emulator.Channel > 3 {
		return fmt.Errorf("emulator channel %d out of range 0-3", c.Emulator.Channel)
	}
	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}
	if c.Serial.BufferSize == 0 {
		c.Serial.BufferSize = def.Serial.BufferSize
	}

	if c.Mock.BaseResistance == 0 {
		c.Mock.BaseResistance = def.Mock.BaseResistance
	}
	if c.Mock.Period == 0 {
		c.Mock.Period = def.Mock.Period
	}
	if c.Mock.LoopInterval == 0 {
		c.Mock.LoopInterval = def.Mock.LoopInterval
	}

	if c.Outputs.MQTT.Server == "" {
		c.Outputs.MQTT.Server = def.Outputs.MQTT.Server
	}
	if c.Outputs.MQTT.ClientID == "" {
		c.Outputs.MQTT.ClientID = def.Outputs.MQTT.ClientID
	}
	if c.Outputs.MQTT.Topic == "" {
		c.Outputs.MQTT.Topic = def.Outputs.MQTT.Topic
	}

	if c.Analysis.Lower == 0 && c.Analysis.Upper == 0 {
		c.Analysis.Lower = def.Analysis.Lower
		c.Analysis.Upper = def.Analysis.Upper
	}
	if c.Analysis.Threshold == 0 {
		c.Analysis.Threshold = def.Analysis.Threshold
	}

	if c.Emulator.Port == "" {
		c.Emulator.Port = def.Emulator.Port
	}
	if c.Emulator.ADC == "" {
		c.Emulator.ADC = def.Emulator.ADC
	}
	if c.Emulator.I2CBus == "" {
		c.Emulator.I2CBus = def.Emulator.I2CBus
	}
	if c.Emulator.I2CAddress == 0 {
		c.Emulator.I2CAddress = def.Emulator.I2CAddress
	}
}
