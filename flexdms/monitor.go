package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/itohio/flexdms/pkg/config"
	"github.com/itohio/flexdms/pkg/link"
	"github.com/itohio/flexdms/pkg/output"
	"github.com/itohio/flexdms/pkg/output/console"
	"github.com/itohio/flexdms/pkg/output/mqtt"
)

// stopTimeout bounds how long monitor waits for the stop acknowledgement.
const stopTimeout = time.Second

func newMonitorCmd(g *globals) *cobra.Command {
	var (
		port      string
		useMock   bool
		record    string
		noConsole bool
		useMQTT   bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Start a reporting session and stream readings until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, changed, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if changed["port"] {
				cfg.Serial.Port = port
			}
			if changed["record"] {
				cfg.Outputs.RecordPath = record
			}
			if changed["no-console"] {
				cfg.Outputs.Console = !noConsole
			}
			if changed["mqtt"] {
				cfg.Outputs.MQTT.Enabled = useMQTT
			}

			out, err := openOutputs(cfg.Outputs, g.log)
			if err != nil {
				return err
			}
			defer out.Close()

			var dev link.Device
			if useMock {
				dev = link.NewMock(&cfg.Mock, g.log)
			} else {
				dev = link.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Serial.BufferSize, g.log)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return monitor(ctx, dev, out, g.log)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "serial port override (e.g., COM3 or /dev/ttyACM0)")
	cmd.Flags().BoolVar(&useMock, "mock", false, "use the in-process simulated probe instead of a serial port")
	cmd.Flags().StringVar(&record, "record", "", "append timestamped readings to this file")
	cmd.Flags().BoolVar(&noConsole, "no-console", false, "do not print readings to stdout")
	cmd.Flags().BoolVar(&useMQTT, "mqtt", false, "publish readings to the configured MQTT broker")

	return cmd
}

func openOutputs(cfg config.OutputsConfig, log zerolog.Logger) (output.Fanout, error) {
	var outs output.Fanout

	if cfg.Console {
		outs = append(outs, console.New(os.Stdout))
	}
	if cfg.RecordPath != "" {
		w, err := console.NewFile(cfg.RecordPath)
		if err != nil {
			outs.Close()
			return nil, err
		}
		log.Info().Str("path", cfg.RecordPath).Msg("recording readings")
		outs = append(outs, w)
	}
	if cfg.MQTT.Enabled {
		m, err := mqtt.New(cfg.MQTT)
		if err != nil {
			outs.Close()
			return nil, err
		}
		log.Info().Str("server", cfg.MQTT.Server).Str("topic", cfg.MQTT.Topic).Msg("publishing to mqtt")
		if cfg.MQTT.Interval > 0 {
			outs = append(outs, output.NewAveraging(m, cfg.MQTT.Interval, log))
		} else {
			outs = append(outs, m)
		}
	}

	return outs, nil
}

// monitor connects dev, starts a session and forwards readings to out until
// ctx is done or the device goes away. The session is stopped and the
// device closed before it returns.
func monitor(ctx context.Context, dev link.Device, out output.Output, log zerolog.Logger) error {
	if err := dev.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer dev.Close()

	if err := dev.Start(); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	readings, events := dev.Readings(), dev.Events()
	for {
		select {
		case <-ctx.Done():
			stopSession(dev, events, log)
			return nil
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			log.Info().Stringer("event", ev.Kind).Msg("probe acknowledged")
		case r, ok := <-readings:
			if !ok {
				log.Warn().Msg("probe disconnected")
				return nil
			}
			if err := out.Publish(r); err != nil {
				log.Warn().Err(err).Msg("publish failed")
			}
		}
	}
}

func stopSession(dev link.Device, events <-chan link.Event, log zerolog.Logger) {
	if err := dev.Stop(); err != nil {
		log.Warn().Err(err).Msg("stop session")
		return
	}

	timeout := time.NewTimer(stopTimeout)
	defer timeout.Stop()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind == link.EventStopped {
				log.Info().Msg("session stopped")
				return
			}
		case <-timeout.C:
			log.Warn().Msg("no stop acknowledgement from probe")
			return
		}
	}
}
