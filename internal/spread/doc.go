// Package spread implements tick-level probability analytics for the spread
// between two daily OHLCV series.
//
// The package aligns two independently sourced daily series into one spread
// series, classifies anomalous moves with a causal expanding-window MAD
// filter, and estimates the probability of tick-sized moves under two
// parallel regimes so the numbers can always be cross-checked against each
// other:
//
//  1. Raw regime: every consecutive session pair with a defined move,
//     outliers and warm-up rows included.
//  2. Valid regime: the raw regime minus warm-up and outlier rows.
//
// # Architecture
//
// Each concern lives in its own file:
//
//   - types.go: bars, regimes and run parameters
//   - align.go: daily deduplication and inner-join alignment of the two series
//   - outlier.go: causal expanding-window MAD classification
//   - regime.go: raw and valid regime construction
//   - probability.go: empirical estimates with Wilson score intervals,
//     plus the volume-weighted variant
//   - bootstrap.go: IID bootstrap confidence intervals
//   - transitions.go: conditional next-move probabilities after up/down days
//   - stats.go: distribution moments, autocorrelation, t-test, Wilcoxon
//     signed-rank and runs test
//   - levels.go: support/resistance detection from volume nodes and swings
//   - histogram.go: tick-move distribution bins
//   - calculator.go: run orchestration
//   - persist.go: CSV and JSON output
//
// # Usage Example
//
//	calc, err := spread.NewCalculator(spread.DefaultParams(), slog.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := calc.Calculate(ctx, series1, series2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("valid-regime sample size: %d\n", result.Valid.SampleSize)
//
// All classification is causal: the filter at row i sees only rows 0..i, so
// adding new data never relabels history.
package spread
