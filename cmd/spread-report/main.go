package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spreadcli/internal/config"
	"spreadcli/internal/dataprocessing"
	"spreadcli/internal/exporter"
	"spreadcli/internal/infrastructure"
	"spreadcli/internal/spread"
)

func main() {
	file1 := flag.String("file1", "", "CSV or Excel file with the first price series (required)")
	file2 := flag.String("file2", "", "CSV or Excel file with the second price series (required)")
	configFile := flag.String("config", "", "config file path (defaults to spreadcli.yaml next to the binary)")
	outputDir := flag.String("out", "", "output directory for reports (defaults to the configured paths.output_dir)")
	tickSize := flag.Float64("tick-size", 0, "tick size override")
	strict := flag.Bool("strict", false, "strict daily-only adjacency (max 3 calendar days between rows)")
	bootstrapIter := flag.Int("bootstrap-iter", 0, "bootstrap iteration count override")
	seed := flag.Int64("seed", 0, "bootstrap seed override (negative for entropy seeding)")
	noExcel := flag.Bool("no-excel", false, "skip the Excel workbook export")
	noJSON := flag.Bool("no-json", false, "skip the JSON export")
	flag.Parse()

	if *file1 == "" || *file2 == "" {
		fmt.Fprintln(os.Stderr, "both -file1 and -file2 are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flag overrides beat both file and environment
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "tick-size":
			cfg.Analysis.TickSize = *tickSize
		case "strict":
			cfg.Analysis.StrictDailyOnly = *strict
		case "bootstrap-iter":
			cfg.Analysis.BootstrapIterations = *bootstrapIter
		case "seed":
			cfg.Analysis.BootstrapSeed = *seed
		case "out":
			cfg.Paths.OutputDir = *outputDir
		}
	})

	if err := cfg.EnsureDirectories(); err != nil {
		slog.Error("Failed to create directories", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureTraceID(context.Background())

	path1 := config.ResolveInputPath(*file1)
	path2 := config.ResolveInputPath(*file2)
	logger.InfoContext(ctx, "loading input series",
		slog.String("file1", path1),
		slog.String("file2", path2))

	series1, series2, err := dataprocessing.LoadSeriesPair(ctx, path1, path2, logger)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load input series", slog.String("error", err.Error()))
		os.Exit(1)
	}

	calc, err := spread.NewCalculator(cfg.Params(), logger)
	if err != nil {
		logger.ErrorContext(ctx, "invalid analysis parameters", slog.String("error", err.Error()))
		os.Exit(1)
	}

	result, err := calc.Calculate(ctx, series1, series2)
	if err != nil {
		logger.ErrorContext(ctx, "analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printReport(os.Stdout, result)

	if err := saveReports(result, cfg.Paths.OutputDir, *noExcel, *noJSON, logger); err != nil {
		logger.ErrorContext(ctx, "failed to save reports", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "analysis complete",
		slog.String("run_id", result.Diagnostics.RunID),
		slog.Int("raw_rows", result.Diagnostics.RawRows),
		slog.Int("valid_rows", result.Diagnostics.ValidRows))
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}

func saveReports(result *spread.Result, outputDir string, noExcel, noJSON bool, logger *slog.Logger) error {
	timestamp := time.Now().Format("20060102_150405")

	barsPath := filepath.Join(outputDir, fmt.Sprintf("spread_bars_%s.csv", timestamp))
	if err := spread.SaveBarsToCSV(result.Bars, barsPath); err != nil {
		return fmt.Errorf("save bars CSV: %w", err)
	}
	logger.Info("saved bars", slog.String("path", barsPath))

	probPath := filepath.Join(outputDir, fmt.Sprintf("spread_probabilities_%s.csv", timestamp))
	if err := spread.SaveProbabilitiesToCSV(result, probPath); err != nil {
		return fmt.Errorf("save probabilities CSV: %w", err)
	}
	logger.Info("saved probabilities", slog.String("path", probPath))

	if !noJSON {
		jsonPath := filepath.Join(outputDir, fmt.Sprintf("spread_result_%s.json", timestamp))
		if err := spread.SaveToJSON(result, jsonPath); err != nil {
			return fmt.Errorf("save JSON: %w", err)
		}
		logger.Info("saved JSON result", slog.String("path", jsonPath))
	}

	if !noExcel {
		excelPath := filepath.Join(outputDir, fmt.Sprintf("spread_report_%s.xlsx", timestamp))
		if err := exporter.NewExcelWriter(logger).Write(result, excelPath); err != nil {
			return fmt.Errorf("save Excel workbook: %w", err)
		}
		logger.Info("saved Excel workbook", slog.String("path", excelPath))
	}

	return nil
}
