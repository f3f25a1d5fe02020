package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/itohio/flexdms/pkg/analysis"
	"github.com/itohio/flexdms/pkg/config"
)

func newAnalyzeCmd(g *globals) *cobra.Command {
	var lower, upper, threshold float64

	cmd := &cobra.Command{
		Use:   "analyze <log>",
		Short: "Measure how long a recorded session stayed above the threshold",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, changed, err := g.loadConfig(cmd)
			if err != nil {
				return err
			}
			if changed["lower"] {
				cfg.Analysis.Lower = lower
			}
			if changed["upper"] {
				cfg.Analysis.Upper = upper
			}
			if changed["threshold"] {
				cfg.Analysis.Threshold = threshold
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open log: %w", err)
			}
			defer f.Close()

			return analyze(f, cfg.Analysis, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Float64Var(&lower, "lower", 0, "lowest Rx kept (Ohm)")
	cmd.Flags().Float64Var(&upper, "upper", 0, "highest Rx kept (Ohm)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Rx above which the sensor counts as deflected (Ohm)")

	return cmd
}

func analyze(r io.Reader, cfg config.AnalysisConfig, w io.Writer) error {
	records, err := analysis.ReadLog(r)
	if err != nil {
		return err
	}

	kept := analysis.Window(records, cfg.Lower, cfg.Upper)
	fmt.Fprintf(w, "records: %d, in window [%g, %g]: %d\n", len(records), cfg.Lower, cfg.Upper, len(kept))

	span, ok := analysis.AboveThreshold(kept, cfg.Threshold)
	if !ok {
		fmt.Fprintf(w, "no readings above %g Ohm\n", cfg.Threshold)
		return nil
	}

	fmt.Fprintf(w, "above %g Ohm: %.3f s (%d readings)\n", cfg.Threshold, span.Duration, span.Count)
	fmt.Fprintf(w, "standard deviation: %.4f Ohm\n", span.StdDev)
	return nil
}
