package cmd

import (
	"context"
	"fmt"

	"github.com/bnema/session-ctx-cli/internal/application"
	"github.com/spf13/cobra"
)

func newBenchCmd(app *app) *cobra.Command {
	var sessions, iterations int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the codecs over a synthetic context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var report application.BenchReport
			run := func(_ context.Context) error {
				var err error
				report, err = app.bench.Run(application.BenchOptions{
					Sessions:   sessions,
					Iterations: iterations,
				})
				return err
			}

			if err := runBenchSpinner(cmd.Context(), cmd.ErrOrStderr(), run); err != nil {
				return err
			}

			output, err := app.benchRenderer(report)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().IntVar(&sessions, "sessions", 0, "Synthetic sessions to generate (default 20)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "Timing iterations per codec (default 50)")

	return cmd
}
