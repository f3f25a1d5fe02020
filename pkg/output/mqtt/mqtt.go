// Package mqtt publishes readings as JSON messages to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/itohio/flexdms/pkg/config"
	"github.com/itohio/flexdms/pkg/link"
	"github.com/itohio/flexdms/pkg/output"
)

const disconnectQuiesceMs = 250

var _ output.Output = (*Output)(nil)

// Payload is the JSON body of one published reading.
type Payload struct {
	Timestamp  time.Time `json:"timestamp"`
	Voltage    float64   `json:"voltage"`
	Diff       float64   `json:"diff"`
	Resistance float64   `json:"resistance"`
	Bottom     float64   `json:"bottom"`
	Top        float64   `json:"top"`
}

// Output publishes readings to one topic.
type Output struct {
	client mqtt.Client
	topic  string
}

// New connects to the broker described by cfg.
func New(cfg config.MQTTConfig) (*Output, error) {
	opts := mqtt.NewClientOptions().AddBroker(cfg.Server).SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return NewWithClient(client, cfg.Topic), nil
}

// NewWithClient publishes through an already connected client.
func NewWithClient(client mqtt.Client, topic string) *Output {
	return &Output{client: client, topic: topic}
}

// Publish sends r as JSON.
func (m *Output) Publish(r link.Reading) error {
	b, err := json.Marshal(Payload{
		Timestamp:  r.Timestamp,
		Voltage:    r.Voltage,
		Diff:       r.Diff,
		Resistance: r.Resistance,
		Bottom:     r.Bottom,
		Top:        r.Top,
	})
	if err != nil {
		return err
	}

	token := m.client.Publish(m.topic, 0, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish: %w", err)
	}
	return nil
}

// Close disconnects from the broker.
func (m *Output) Close() error {
	if m.client != nil {
		m.client.Disconnect(disconnectQuiesceMs)
	}
	return nil
}
