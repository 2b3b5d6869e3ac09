package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/session-ctx-cli/internal/adapters/render/summary"
	"github.com/bnema/session-ctx-cli/internal/adapters/repo/jsonfile"
	"github.com/bnema/session-ctx-cli/internal/application"
	"github.com/bnema/session-ctx-cli/internal/layered"
	"github.com/bnema/session-ctx-cli/internal/ports"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	service            *application.Service
	convert            *application.ConvertService
	bench              *application.BenchService
	summaryRenderer    func(application.Summary) (string, error)
	comparisonRenderer func(application.Comparison) (string, error)
	benchRenderer      func(application.BenchReport) (string, error)
}

func wireApp() (*app, error) {
	repo, err := jsonfile.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire context repository: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	return &app{
		service:            application.NewService(repo, ports.SystemClock{}, filepath.Base(workDir)),
		convert:            application.NewConvertService(repo, repo),
		bench:              application.NewBenchService(repo),
		summaryRenderer:    summary.RenderSummary,
		comparisonRenderer: summary.RenderComparison,
		benchRenderer:      summary.RenderBenchReport,
	}, nil
}

// printWarnings surfaces codec degradations without failing the command.
func printWarnings(cmd *cobra.Command, warnings []layered.Warning) {
	for _, warning := range warnings {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", warning.Path, warning.Detail)
	}
}
