// Command extract flattens an experiment export into one CSV row per participant, stage and day.
//
//	extract <experiment_id>
//
// reads results/<experiment_id>/data.json and writes results/<experiment_id>/csv_data.csv.
package main

import (
	"fmt"
	"io"
	"os"

	"expdata/internal/analysis"
	"expdata/internal/config"
	"expdata/internal/logging"
	"expdata/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg         = config.Load()
	previewRows int
	coverage    bool
	logger      *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "extract <experiment_id>",
	Short:         "Convert an experiment's data.json export into csv_data.csv",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(cfg.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfg.ResultsDir, "results-dir", cfg.ResultsDir, "Directory holding one folder per experiment")
	rootCmd.Flags().StringVar(&cfg.SchemaPath, "schema", cfg.SchemaPath, "YAML file overriding the built-in lookup tables")
	rootCmd.Flags().IntVar(&previewRows, "preview-rows", 20, "Rows shown in the preview (0 shows all)")
	rootCmd.Flags().BoolVar(&coverage, "coverage", false, "Also print how many rows fill each column")
	rootCmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable verbose logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runExtract(out io.Writer, experimentID string) error {
	schema, err := config.LoadSchema(cfg.SchemaPath)
	if err != nil {
		return err
	}
	analysisService, err := analysis.NewService(schema, logger)
	if err != nil {
		return err
	}
	exportService := service.NewExportService()
	extractionService := service.NewExtractionService(cfg.ResultsDir, analysisService, exportService, logger)

	extraction, err := extractionService.Extract(experimentID)
	if err != nil {
		return err
	}
	if err := exportService.RenderPreview(out, extraction.Table, schema.PreviewColumns, previewRows); err != nil {
		return err
	}
	if !coverage {
		return nil
	}
	profiler := service.NewCoverageProfiler()
	return profiler.Render(out, profiler.Profile(extraction.Table))
}
