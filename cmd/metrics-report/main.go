// Command metrics-report computes per-machine reliability indicators from a
// cleaned intervention log and writes the metrics CSV and text report.
//
//	metrics-report [-mappings file.yaml] [-xlsx] [input] [topN]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"maintcli/internal/analytics"
	"maintcli/internal/config"
	"maintcli/internal/exporter"
	"maintcli/internal/infrastructure"
	"maintcli/internal/normalize"
	"maintcli/internal/pipeline"
	"maintcli/internal/records"
	"maintcli/internal/validation"
	"maintcli/pkg/contracts"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one analysis and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("metrics-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version information and exit")
	mappingsFile := fs.String("mappings", "", "YAML file overriding the normalization tables")
	workbook := fs.Bool("xlsx", false, "also write an Excel workbook with every analysis table")
	period := fs.Float64("period", 0, "availability window in hours (defaults to the configured value)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: metrics-report [-mappings file.yaml] [-xlsx] [-period hours] [input] [topN]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if *showVersion {
		fmt.Fprintln(stdout, contracts.Info("metrics-report"))
		return 0
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "warning: failed to load config, using defaults: %v\n", err)
		cfg = config.Default()
	}
	logger, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "warning: failed to initialize logger, using default: %v\n", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	input := config.DefaultCleanedFile
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}
	topN := parseTopN(fs.Arg(1), cfg.Analysis.TopN, logger)
	if *mappingsFile == "" {
		*mappingsFile = cfg.Data.MappingsFile
	}
	if *period > 0 {
		cfg.Analysis.PeriodHours = *period
	}
	paths := config.DeriveOutputPaths(input)

	logger.Info("starting metrics report",
		slog.String("input", input),
		slog.Int("top_n", topN),
		slog.Float64("period_hours", cfg.Analysis.PeriodHours),
		slog.String("metrics", paths.Metrics),
		slog.String("report", paths.MetricsReport))

	validator := validation.NewFileValidator(logger)
	if _, err := validator.ValidateInputFile(input); err != nil {
		return 1
	}
	if err := validator.ValidateOutputFile(input, paths.Metrics); err != nil {
		return 1
	}

	mappings, err := config.LoadMappings(*mappingsFile)
	if err != nil {
		logger.Error("failed to load mappings", slog.String("path", *mappingsFile), slog.String("error", err.Error()))
		return 1
	}

	rows, err := records.Load(input)
	if err != nil {
		logger.Error("failed to load input", slog.String("path", input), slog.String("error", err.Error()))
		return 1
	}

	// Cleaning is idempotent, so an already cleaned file passes through unchanged
	// and a raw one is normalized before any metric is computed.
	cleaned, err := pipeline.New(normalize.New(mappings), logger).Run(ctx, rows)
	if err != nil {
		logger.Error("cleaning failed", slog.String("error", err.Error()))
		return 1
	}

	engine := analytics.NewEngine(analytics.OptionsFromConfig(cfg.Analysis), logger)
	analysis, err := engine.Analyze(ctx, records.NewStore(cleaned.Records))
	if err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		return 1
	}

	if err := exporter.NewCSVWriter(logger).WriteMetrics(paths.Metrics, analysis.Machines); err != nil {
		logger.Error("failed to write metrics", slog.String("path", paths.Metrics), slog.String("error", err.Error()))
		return 1
	}

	report := exporter.MetricsReportText(exporter.MetricsReportInput{
		Source:          input,
		MetricsFile:     paths.Metrics,
		TopN:            topN,
		ParetoThreshold: engine.Options().ParetoThreshold,
		MTTRAlertHours:  cfg.Analysis.MTTRAlertHours,
		MTBFAlertDays:   cfg.Analysis.MTBFAlertDays,
		Analysis:        analysis,
	})
	if err := exporter.WriteText(paths.MetricsReport, report); err != nil {
		logger.Error("failed to write metrics report", slog.String("path", paths.MetricsReport), slog.String("error", err.Error()))
		return 1
	}

	if *workbook {
		if err := exporter.WriteWorkbook(paths.Workbook, analysis); err != nil {
			logger.Error("failed to write workbook", slog.String("path", paths.Workbook), slog.String("error", err.Error()))
			return 1
		}
	}

	fmt.Fprintf(stdout, "Analysed %d machines, %d interventions\n",
		analysis.Summary.Machines, analysis.Summary.Interventions)
	fmt.Fprintf(stdout, "Metrics file:   %s\n", paths.Metrics)
	fmt.Fprintf(stdout, "Metrics report: %s\n", paths.MetricsReport)
	if *workbook {
		fmt.Fprintf(stdout, "Workbook:       %s\n", paths.Workbook)
	}
	return 0
}

// parseTopN reads the optional topN argument. Anything that is not a
// positive integer falls back to def with a warning.
func parseTopN(arg string, def int, logger *slog.Logger) int {
	if def <= 0 {
		def = config.DefaultTopN
	}
	if arg == "" {
		return def
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n <= 0 {
		logger.Warn("invalid topN argument, using default",
			slog.String("value", arg),
			slog.Int("default", def))
		return def
	}
	return n
}
