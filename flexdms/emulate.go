package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.bug.st/serial"

	"github.com/itohio/flexdms/pkg/adc"
	"github.com/itohio/flexdms/pkg/config"
	"github.com/itohio/flexdms/pkg/link"
	"github.com/itohio/flexdms/pkg/probe"
)

// adcErrorInterval is how often ADS1115 bus errors are reported.
const adcErrorInterval = time.Second

func newEmulateCmd(g *globals) *cobra.Command {
	var port, backend string

	cmd := &cobra.Command{
		Use:   "emulate",
		Short: "Run the probe loop here and answer on a serial port",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, changed, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if changed["port"] {
				cfg.Emulator.Port = port
			}
			if changed["adc"] {
				cfg.Emulator.ADC = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			source, closeSource, err := openADC(ctx, cfg, g)
			if err != nil {
				return err
			}
			defer closeSource()

			conn, err := serial.Open(cfg.Emulator.Port, &serial.Mode{BaudRate: probe.BaudRate})
			if err != nil {
				return fmt.Errorf("failed to open serial port %s: %w", cfg.Emulator.Port, err)
			}
			defer conn.Close()

			g.log.Info().
				Str("port", cfg.Emulator.Port).
				Str("adc", cfg.Emulator.ADC).
				Msg("probe emulator running")

			return link.Emulate(ctx, conn, source, cfg.Mock.LoopInterval, g.log)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "serial port the emulated probe answers on")
	cmd.Flags().StringVar(&backend, "adc", "", "analog source: sim or ads1115")

	return cmd
}

func openADC(ctx context.Context, cfg *config.Config, g *globals) (probe.ADC, func(), error) {
	if cfg.Emulator.ADC != "ads1115" {
		return link.NewSimulatedBridge(cfg.Mock), func() {}, nil
	}

	a, err := adc.Open(cfg.Emulator.I2CBus, uint16(cfg.Emulator.I2CAddress), cfg.Emulator.Channel)
	if err != nil {
		return nil, nil, err
	}

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(adcErrorInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-t.C:
				if err := a.Err(); err != nil {
					g.log.Warn().Err(err).Msg("ads1115")
				}
			}
		}
	}()

	return a, func() {
		close(done)
		if err := a.Close(); err != nil {
			g.log.Warn().Err(err).Msg("close ads1115")
		}
	}, nil
}
