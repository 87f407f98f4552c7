// Command cleaner normalizes a maintenance intervention log and writes the
// cleaned file next to an audit report of every correction.
//
//	cleaner [-mappings file.yaml] [input] [output]
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
	"syscall"
	"time"

	"maintcli/internal/config"
	"maintcli/internal/exporter"
	"maintcli/internal/files"
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

// run executes one cleaning pass and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cleaner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "print version information and exit")
	mappingsFile := fs.String("mappings", "", "YAML file overriding the normalization tables")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: cleaner [-mappings file.yaml] [input] [output]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if *showVersion {
		fmt.Fprintln(stdout, contracts.Info("cleaner"))
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

	input := config.DefaultInputFile
	if fs.NArg() > 0 {
		input = fs.Arg(0)
	}
	paths := config.DeriveOutputPaths(input)
	output := paths.Cleaned
	if fs.NArg() > 1 {
		output = fs.Arg(1)
	}
	if *mappingsFile == "" {
		*mappingsFile = cfg.Data.MappingsFile
	}

	logger.Info("starting cleaner",
		slog.String("input", input),
		slog.String("output", output),
		slog.String("report", paths.CleaningReport),
		slog.String("mappings", *mappingsFile))

	validator := validation.NewFileValidator(logger)
	if _, err := validator.ValidateInputFile(input); err != nil {
		return 1
	}
	if err := validator.ValidateOutputFile(input, output, files.FormatCSV, files.FormatCSVGzip, files.FormatCSVZstd); err != nil {
		return 1
	}
	if err := validator.ValidateOutputFile(input, paths.CleaningReport); err != nil {
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

	result, err := pipeline.New(normalize.New(mappings), logger).Run(ctx, rows)
	if err != nil {
		logger.Error("cleaning failed", slog.String("error", err.Error()))
		return 1
	}

	if err := exporter.NewCSVWriter(logger).WriteCleaned(output, result.Canonical); err != nil {
		logger.Error("failed to write cleaned file", slog.String("path", output), slog.String("error", err.Error()))
		return 1
	}

	report := exporter.CleaningReportText(exporter.CleaningReportInput{
		Source:      input,
		Output:      output,
		GeneratedAt: time.Now(),
		Report:      result.Report,
	})
	if err := exporter.WriteText(paths.CleaningReport, report); err != nil {
		logger.Error("failed to write cleaning report", slog.String("path", paths.CleaningReport), slog.String("error", err.Error()))
		return 1
	}

	fmt.Fprintf(stdout, "Cleaned %d records (%d corrections, %d warnings, %d missing identifiers)\n",
		result.Report.TotalRecords,
		result.Report.TotalChanges(),
		len(result.Report.Warnings),
		result.Report.MissingIdentifiers)
	fmt.Fprintf(stdout, "Cleaned file:    %s\n", output)
	fmt.Fprintf(stdout, "Cleaning report: %s\n", paths.CleaningReport)
	return 0
}
