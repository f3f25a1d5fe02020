package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/itohio/flexdms/pkg/config"
)

const longHelp = `
Host tools for the FlexDMS bridge probe.

  monitor   start a session and stream readings to the console, a record file or MQTT
  analyze   measure how long a recorded session stayed above a resistance threshold
  emulate   run the probe loop on this machine and answer on a serial port
  ports     list serial ports
`

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// globals are the flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string

	log zerolog.Logger
}

func main() {
	g := &globals{log: newLogger(zerolog.InfoLevel)}

	root := &cobra.Command{
		Use:           "flexdms",
		Short:         "Host tools for the FlexDMS bridge probe",
		Long:          strings.TrimSpace(longHelp),
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(g.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", g.logLevel, err)
			}
			g.log = newLogger(level)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "config.yaml", "configuration file path")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newMonitorCmd(g),
		newAnalyzeCmd(g),
		newEmulateCmd(g),
		newPortsCmd(g),
	)

	if err := root.Execute(); err != nil {
		g.log.Error().Err(err).Msg("flexdms")
		os.Exit(1)
	}
}

func newLogger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// loadConfig reads the configuration file and reports which flags the user
// set so commands can let them override file values.
func (g *globals) loadConfig(cmd *cobra.Command) (*config.Config, map[string]bool, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	return cfg, changed, nil
}
