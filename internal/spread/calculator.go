package spread

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Calculator orchestrates a full spread probability analysis run.
type Calculator struct {
	params Params
	logger *slog.Logger
}

// NewCalculator creates a calculator with the given parameters. Invalid
// parameters are rejected here so every stage downstream can trust them.
func NewCalculator(params Params, logger *slog.Logger) (*Calculator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !params.IsValid() {
		return nil, fmt.Errorf("invalid parameters: tick_size=%.4f, tick_levels=%v", params.TickSize, params.TickLevels)
	}
	return &Calculator{params: params, logger: logger}, nil
}

// Params returns the calculator's effective parameters.
func (c *Calculator) Params() Params {
	return c.params
}

// Calculate aligns the two series and runs every analysis stage in order:
// outlier classification, regime construction, probability estimation,
// volume weighting, bootstrap resampling, conditional transitions, the
// statistical suite and support/resistance detection.
func (c *Calculator) Calculate(ctx context.Context, series1, series2 []SeriesPoint) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := c.logger.With(slog.String("run_id", runID))

	logger.InfoContext(ctx, "starting spread analysis",
		slog.Int("series1_rows", len(series1)),
		slog.Int("series2_rows", len(series2)),
		slog.Float64("tick_size", c.params.TickSize),
		slog.Bool("strict_daily_only", c.params.StrictDailyOnly),
	)

	bars, alignStats, err := AlignSeries(series1, series2, c.params, logger)
	if err != nil {
		logger.ErrorContext(ctx, "series alignment failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("align series: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	outliers := ClassifyOutliers(bars, c.params, logger)
	raw, valid := BuildRegimes(bars)

	logger.InfoContext(ctx, "regimes built",
		slog.Int("merged_rows", len(bars)),
		slog.Int("raw_rows", raw.Len()),
		slog.Int("valid_rows", valid.Len()),
		slog.Int("warmup_rows", outliers.WarmupRows),
		slog.Int("outlier_rows", outliers.OutlierRows),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{
		Bars:           bars,
		Raw:            ComputeProbabilities(raw, c.params),
		Valid:          ComputeProbabilities(valid, c.params),
		VolumeWeighted: ComputeVolumeWeighted(raw, c.params),
		Bootstrap:      ComputeBootstrap(valid, c.params),
		Transitions:    ComputeTransitions(valid, c.params.MinConditionalSamples),
		Statistics:     ComputeStatistics(raw),
		Levels:         DetectLevels(bars, raw, c.params, logger),
		Histogram:      BuildHistogram(valid),
	}
	result.Diagnostics = Diagnostics{
		RunID:          runID,
		GeneratedAt:    time.Now().UTC(),
		Duration:       time.Since(start).String(),
		Params:         c.params,
		Align:          alignStats,
		WarmupRows:     outliers.WarmupRows,
		OutlierRows:    outliers.OutlierRows,
		FinalThreshold: outliers.FinalThreshold,
		RawRows:        raw.Len(),
		ValidRows:      valid.Len(),
	}

	logger.InfoContext(ctx, "spread analysis complete",
		slog.Duration("duration", time.Since(start)),
		slog.Int("bootstrap_records", len(result.Bootstrap)),
		slog.Int("resistance_levels", len(result.Levels.Resistance)),
		slog.Int("support_levels", len(result.Levels.Support)),
	)

	return result, nil
}
