package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"msmeinsights/adapters/excel"
	"msmeinsights/domain/report"
	"msmeinsights/internal/analysis"
	"msmeinsights/internal/config"
	"msmeinsights/internal/errors"
	"msmeinsights/internal/logging"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "msmeinsights",
		Short:         "Security insights reports from anomaly-detection outputs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newReportCmd(),
		newExportCmd(),
	)
	return rootCmd
}

// sourceFlags are the input path overrides shared by every command
type sourceFlags struct {
	full string
	expl string
	pred string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.full, "full", "", "Full traffic CSV (default from FULL_CSV)")
	cmd.Flags().StringVar(&f.expl, "expl", "", "Explained anomalies CSV (default from EXPL_CSV)")
	cmd.Flags().StringVar(&f.pred, "pred", "", "Predictions CSV (default from PRED_CSV)")
}

func (f *sourceFlags) sources(cfg *config.Config) report.Sources {
	src := report.Sources{
		Full:        cfg.Data.FullCSV,
		Explanation: cfg.Data.ExplCSV,
		Prediction:  cfg.Data.PredCSV,
	}
	if f.full != "" {
		src.Full = f.full
	}
	if f.expl != "" {
		src.Explanation = f.expl
	}
	if f.pred != "" {
		src.Prediction = f.pred
	}
	return src
}

// buildReport loads configuration and runs one render pass
func buildReport(cmd *cobra.Command, flags *sourceFlags) (*report.Report, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cfg.Logging)

	loader := excel.NewLoader(logger.Named("loader"), cfg.Data.MaxBytes)
	builder := analysis.NewBuilder(loader, cfg.Report, logger.Named("analysis"))
	return builder.Build(cmd.Context(), flags.sources(cfg)), logger, nil
}

func newReportCmd() *cobra.Command {
	var flags sourceFlags
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the insights report",
		Long: `Build the insights report from the three input tables and print it.

Example: msmeinsights report --format markdown --full csic_database.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			render, ok := renderers[format]
			if !ok {
				return errors.InvalidInput(fmt.Sprintf("unknown format %q (use text, markdown or json)", format))
			}

			rep, logger, err := buildReport(cmd, &flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := render(cmd.OutOrStdout(), rep); err != nil {
				return errors.Wrap(err, "failed to render report")
			}
			return rep.Err()
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, markdown or json")
	return cmd
}

func newExportCmd() *cobra.Command {
	var flags sourceFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the insights report as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, logger, err := buildReport(cmd, &flags)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if err := excel.NewExporter().WriteFile(out, rep); err != nil {
				return err
			}
			logger.Info("report exported", zap.String("path", out), zap.String("report_id", rep.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "Report %s written to %s\n", rep.ID, out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "report.xlsx", "Output workbook path")
	return cmd
}

type renderFunc func(w io.Writer, rep *report.Report) error

var renderers = map[string]renderFunc{
	"text":     renderText,
	"markdown": renderMarkdown,
	"json":     renderJSON,
}

func renderJSON(w io.Writer, rep *report.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
