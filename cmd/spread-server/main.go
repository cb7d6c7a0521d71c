package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spreadcli/internal/config"
	"spreadcli/internal/dataprocessing"
	"spreadcli/internal/infrastructure"
	"spreadcli/internal/spread"
	transport "spreadcli/internal/transport/http"
)

func main() {
	file1 := flag.String("file1", "", "CSV or Excel file with the first price series (required)")
	file2 := flag.String("file2", "", "CSV or Excel file with the second price series (required)")
	configFile := flag.String("config", "", "config file path (defaults to spreadcli.yaml next to the binary)")
	port := flag.Int("port", 0, "HTTP port override")
	flag.Parse()

	if *file1 == "" || *file2 == "" {
		fmt.Fprintln(os.Stderr, "both -file1 and -file2 are required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*file1, *file2, *configFile, *port); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(file1, file2, configFile string, port int) error {
	cfg, err := loadConfig(configFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx, cancel := context.WithCancel(infrastructure.EnsureTraceID(context.Background()))
	defer cancel()

	metrics := infrastructure.NewMetricsRecorder()
	store := transport.NewMemoryStore()

	if err := analyze(ctx, cfg, file1, file2, store, metrics, logger); err != nil {
		return err
	}

	router := transport.NewRouter(transport.RouterConfig{
		Store:     store,
		Logger:    logger,
		RateRPS:   cfg.Server.RateLimitRPS,
		RateBurst: cfg.Server.RateLimitBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "server listening",
			slog.String("address", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.InfoContext(ctx, "received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

// analyze runs the pipeline once at startup and publishes the result to the
// store the handlers read from.
func analyze(ctx context.Context, cfg *config.Config, file1, file2 string, store *transport.MemoryStore, metrics *infrastructure.MetricsRecorder, logger *slog.Logger) error {
	start := time.Now()

	path1 := config.ResolveInputPath(file1)
	path2 := config.ResolveInputPath(file2)

	series1, series2, err := dataprocessing.LoadSeriesPair(ctx, path1, path2, logger)
	if err != nil {
		metrics.RecordRun("error", time.Since(start).Seconds())
		return fmt.Errorf("load input series: %w", err)
	}
	metrics.RecordRowsParsed("series1", len(series1))
	metrics.RecordRowsParsed("series2", len(series2))

	calc, err := spread.NewCalculator(cfg.Params(), logger)
	if err != nil {
		return fmt.Errorf("invalid analysis parameters: %w", err)
	}

	result, err := calc.Calculate(ctx, series1, series2)
	if err != nil {
		metrics.RecordRun("error", time.Since(start).Seconds())
		return fmt.Errorf("analysis failed: %w", err)
	}

	metrics.RecordOutliers(result.Diagnostics.OutlierRows)
	metrics.RecordRegimeSize("raw", result.Diagnostics.RawRows)
	metrics.RecordRegimeSize("valid", result.Diagnostics.ValidRows)
	metrics.RecordRun("success", time.Since(start).Seconds())

	store.Set(result)
	logger.InfoContext(ctx, "analysis result published",
		slog.String("run_id", result.Diagnostics.RunID),
		slog.Int("raw_rows", result.Diagnostics.RawRows),
		slog.Int("valid_rows", result.Diagnostics.ValidRows))
	return nil
}

func loadConfig(configFile string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}
