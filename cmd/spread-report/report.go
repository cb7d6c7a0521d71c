package main

import (
	"fmt"
	"io"
	"strings"

	"spreadcli/internal/spread"
)

const histogramBarWidth = 40

// printReport renders the full analysis to the console in the same layout
// the file exports use.
func printReport(w io.Writer, result *spread.Result) {
	printOverview(w, result)
	printHistogram(w, result.Histogram)
	printRegime(w, "VALID REGIME (outliers and warm-up removed)", result.Valid)
	printRegime(w, "RAW REGIME (everything observed)", result.Raw)
	printVolumeWeighted(w, result.VolumeWeighted)
	printBootstrap(w, result.Bootstrap)
	printTransitions(w, result.Transitions)
	printStatistics(w, result.Statistics)
	printLevels(w, result.Levels)
}

func printOverview(w io.Writer, result *spread.Result) {
	d := result.Diagnostics

	fmt.Fprintln(w, "\n=== SPREAD ANALYSIS OVERVIEW ===")
	fmt.Fprintf(w, "Run ID: %s\n", d.RunID)
	fmt.Fprintf(w, "Date range: %s to %s (%d merged rows)\n",
		d.Align.FirstDate.Format("2006-01-02"),
		d.Align.LastDate.Format("2006-01-02"),
		d.Align.MergedRows)
	fmt.Fprintf(w, "Raw rows: %d | Valid rows: %d | Warm-up: %d | Outliers: %d\n",
		d.RawRows, d.ValidRows, d.WarmupRows, d.OutlierRows)
	fmt.Fprintf(w, "Final outlier threshold: %.2f ticks\n", d.FinalThreshold)
	if d.Align.GapExcluded > 0 {
		fmt.Fprintf(w, "Rows excluded by gap policy: %d\n", d.Align.GapExcluded)
	}
	if d.Align.ExcessiveDedup {
		fmt.Fprintln(w, "WARNING: input looks intraday; daily consolidation removed over 20% of rows")
	}
}

func printHistogram(w io.Writer, bins []spread.HistogramBin) {
	if len(bins) == 0 {
		return
	}

	maxCount := 0
	for _, b := range bins {
		if b.Count > maxCount {
			maxCount = b.Count
		}
	}

	fmt.Fprintln(w, "\n=== TICK MOVE DISTRIBUTION (VALID REGIME) ===")
	for _, b := range bins {
		width := b.Count * histogramBarWidth / maxCount
		fmt.Fprintf(w, "%+4d | %-*s %d (%.1f%%)\n",
			b.TickMove, histogramBarWidth, strings.Repeat("#", width), b.Count, b.Share*100)
	}
}

func printRegime(w io.Writer, title string, probs spread.RegimeProbabilities) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
	if probs.SampleSize == 0 {
		fmt.Fprintln(w, "No rows in this regime.")
		return
	}

	fmt.Fprintf(w, "Sample size: %d\n", probs.SampleSize)
	fmt.Fprintf(w, "P(no move) = %.1f%% [%.1f%%, %.1f%%] (%d days)\n",
		probs.ZeroProb*100, probs.ZeroCI.Lower*100, probs.ZeroCI.Upper*100, probs.ZeroCount)

	fmt.Fprintln(w, "Ticks | P(exact) | P(>=)          | P(up)  | P(down)")
	fmt.Fprintln(w, "------|----------|----------------|--------|--------")
	for _, rec := range probs.Records {
		fmt.Fprintf(w, "%5d | %7.1f%% | %5.1f%% CI[%2.0f-%2.0f%%] | %5.1f%% | %5.1f%%\n",
			rec.TickThreshold,
			rec.ProbExact*100,
			rec.ProbAtLeast*100, rec.AtLeastCI.Lower*100, rec.AtLeastCI.Upper*100,
			rec.ProbUp*100, rec.ProbDown*100)
	}
}

func printVolumeWeighted(w io.Writer, records []spread.VolumeWeightedRecord) {
	if len(records) == 0 {
		return
	}

	fmt.Fprintln(w, "\n=== VOLUME-WEIGHTED PROBABILITIES (RAW REGIME) ===")
	fmt.Fprintln(w, "Ticks | P(>=)  | P(up)  | P(down)")
	fmt.Fprintln(w, "------|--------|--------|--------")
	for _, rec := range records {
		fmt.Fprintf(w, "%5d | %5.1f%% | %5.1f%% | %5.1f%%\n",
			rec.TickThreshold, rec.AtLeast*100, rec.Up*100, rec.Down*100)
	}
}

func printBootstrap(w io.Writer, records []spread.BootstrapRecord) {
	if len(records) == 0 {
		return
	}

	fmt.Fprintln(w, "\n=== BOOTSTRAP ESTIMATES (VALID REGIME) ===")
	fmt.Fprintln(w, "Ticks | P(>=) mean [95% CI]      | P(up) mean | P(down) mean")
	fmt.Fprintln(w, "------|--------------------------|------------|-------------")
	for _, rec := range records {
		fmt.Fprintf(w, "%5d | %5.1f%% [%5.1f%%, %5.1f%%] | %9.1f%% | %11.1f%%\n",
			rec.TickThreshold,
			rec.Absolute.Mean*100, rec.Absolute.CILower*100, rec.Absolute.CIUpper*100,
			rec.Up.Mean*100, rec.Down.Mean*100)
	}
}

func printTransitions(w io.Writer, transitions spread.Transitions) {
	fmt.Fprintln(w, "\n=== CONDITIONAL TRANSITIONS (VALID REGIME) ===")
	fmt.Fprintf(w, "Consecutive pairs: %d\n", transitions.Pairs)
	printCohort(w, "After an up day", transitions.AfterUp)
	printCohort(w, "After a down day", transitions.AfterDown)
}

func printCohort(w io.Writer, label string, cohort *spread.TransitionCohort) {
	if cohort == nil {
		fmt.Fprintf(w, "%s: insufficient samples\n", label)
		return
	}
	fmt.Fprintf(w, "%s (n=%d): continue %.1f%% | reverse %.1f%% | flat %.1f%% | mean next move %+.2f ticks\n",
		label, cohort.Samples,
		cohort.ProbContinue*100, cohort.ProbReverse*100, cohort.ProbFlat*100,
		cohort.MeanNextMove)
}

func printStatistics(w io.Writer, suite spread.StatisticalSuite) {
	fmt.Fprintln(w, "\n=== STATISTICAL TESTS (RAW REGIME) ===")
	if !suite.Available {
		fmt.Fprintln(w, "Not enough moves for the test suite (need at least 10).")
		return
	}

	d := suite.Distribution
	fmt.Fprintf(w, "Moves: n=%d, mean %+.3f, std %.3f, skew %+.3f, excess kurtosis %+.3f, range [%+.0f, %+.0f]\n",
		d.SampleSize, d.Mean, d.StdDev, d.Skewness, d.Kurtosis, d.Min, d.Max)
	fmt.Fprintf(w, "Absolute moves: mean %.3f, median %.1f ticks\n", d.MeanAbs, d.MedianAbs)

	for _, ac := range suite.Autocorrelations {
		if ac.Defined {
			fmt.Fprintf(w, "Autocorrelation lag %d: %+.3f\n", ac.Lag, ac.Value)
		} else {
			fmt.Fprintf(w, "Autocorrelation lag %d: undefined\n", ac.Lag)
		}
	}

	if suite.TTest.Available {
		fmt.Fprintf(w, "t-test (mean=0): t=%.3f, p=%.4f%s\n",
			suite.TTest.Statistic, suite.TTest.PValue, significanceMark(suite.TTest.Significant))
	} else {
		fmt.Fprintln(w, "t-test (mean=0): not available (zero variance)")
	}

	if suite.Wilcoxon.Available {
		fmt.Fprintf(w, "Wilcoxon signed-rank (n=%d non-zero): W=%.1f, p=%.4f%s\n",
			suite.Wilcoxon.Samples, suite.Wilcoxon.Statistic, suite.Wilcoxon.PValue,
			significanceMark(suite.Wilcoxon.Significant))
	} else {
		fmt.Fprintln(w, "Wilcoxon signed-rank: not available (fewer than 10 non-zero moves)")
	}

	if suite.RunsTest.Applicable {
		verdict := "random"
		if !suite.RunsTest.Random {
			verdict = "NOT random"
		}
		fmt.Fprintf(w, "Runs test: %d runs (expected %.1f), z=%.2f, sequence looks %s\n",
			suite.RunsTest.Runs, suite.RunsTest.Expected, suite.RunsTest.ZScore, verdict)
	} else {
		fmt.Fprintln(w, "Runs test: not applicable (degenerate above/below split)")
	}
}

func significanceMark(significant bool) string {
	if significant {
		return " *significant*"
	}
	return ""
}

func printLevels(w io.Writer, levels spread.LevelAnalysis) {
	fmt.Fprintln(w, "\n=== SUPPORT / RESISTANCE ===")
	fmt.Fprintf(w, "Current spread: %.3f | Direction: %s | Lookback: %d days\n",
		levels.CurrentPrice, levels.Direction, levels.LookbackDays)

	printLevelSide(w, "Resistance", levels.Resistance)
	printLevelSide(w, "Support", levels.Support)

	if levels.NextTarget != nil {
		side := "support"
		if levels.NextTarget.IsResistance {
			side = "resistance"
		}
		fmt.Fprintf(w, "Next target: %.3f (%s, strength %.1f, %d ticks away)\n",
			levels.NextTarget.Price, side, levels.NextTarget.Strength, levels.NextTarget.DistanceTicks)
	}
}

func printLevelSide(w io.Writer, label string, side []spread.Level) {
	if len(side) == 0 {
		fmt.Fprintf(w, "%s: none detected\n", label)
		return
	}
	fmt.Fprintf(w, "%s:\n", label)
	for _, lvl := range side {
		fmt.Fprintf(w, "  %.3f | strength %4.1f | %3d ticks away | touches %d | evidence %s\n",
			lvl.Price, lvl.Strength, lvl.DistanceTicks, lvl.TouchCount, joinEvidence(lvl.Evidence))
	}
}

func joinEvidence(evidence []spread.EvidenceType) string {
	parts := make([]string, len(evidence))
	for i, e := range evidence {
		parts[i] = string(e)
	}
	return strings.Join(parts, "+")
}
