package spread

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// SaveBarsToCSV writes the merged spread series, one row per bar, including
// the classification flags so a run can be audited row by row.
func SaveBarsToCSV(bars []Bar, outputPath string) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Date",
		"Close_1",
		"Close_2",
		"Spread_Close",
		"Spread_Volume",
		"Price_Change",
		"Tick_Move",
		"Days_Gap",
		"Row_ID",
		"Is_Consecutive",
		"Is_Warmup",
		"Is_Outlier",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, b := range bars {
		row := []string{
			b.Date.Format("2006-01-02"),
			strconv.FormatFloat(b.Close1, 'f', 6, 64),
			strconv.FormatFloat(b.Close2, 'f', 6, 64),
			strconv.FormatFloat(b.SpreadClose, 'f', 6, 64),
			strconv.FormatFloat(b.SpreadVolume, 'f', 2, 64),
			formatOptionalFloat(b.PriceChange, b.HasMove),
			formatOptionalInt(b.TickMove, b.HasMove),
			strconv.Itoa(b.DaysGap),
			strconv.Itoa(b.RowID),
			strconv.FormatBool(b.IsConsecutive),
			strconv.FormatBool(b.IsWarmup),
			strconv.FormatBool(b.IsOutlier),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row for %s: %w", b.Date.Format("2006-01-02"), err)
		}
	}

	return nil
}

// SaveProbabilitiesToCSV writes the per-threshold probability table for both
// regimes side by side.
func SaveProbabilitiesToCSV(result *Result, outputPath string) error {
	if result == nil {
		return fmt.Errorf("no result to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"Regime",
		"Tick_Threshold",
		"Tick_Value",
		"Count_Exact",
		"Count_At_Least",
		"Count_Up",
		"Count_Down",
		"Prob_Exact",
		"Prob_At_Least",
		"Prob_Up",
		"Prob_Down",
		"At_Least_CI_Lower",
		"At_Least_CI_Upper",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, rp := range []RegimeProbabilities{result.Raw, result.Valid} {
		for _, rec := range rp.Records {
			row := []string{
				string(rp.Kind),
				strconv.Itoa(rec.TickThreshold),
				strconv.FormatFloat(rec.TickValue, 'f', 6, 64),
				strconv.Itoa(rec.CountExact),
				strconv.Itoa(rec.CountAtLeast),
				strconv.Itoa(rec.CountUp),
				strconv.Itoa(rec.CountDown),
				strconv.FormatFloat(rec.ProbExact, 'f', 6, 64),
				strconv.FormatFloat(rec.ProbAtLeast, 'f', 6, 64),
				strconv.FormatFloat(rec.ProbUp, 'f', 6, 64),
				strconv.FormatFloat(rec.ProbDown, 'f', 6, 64),
				strconv.FormatFloat(rec.AtLeastCI.Lower, 'f', 6, 64),
				strconv.FormatFloat(rec.AtLeastCI.Upper, 'f', 6, 64),
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write CSV row: %w", err)
			}
		}
	}

	return nil
}

// SaveToJSON writes the whole result bundle as indented JSON.
func SaveToJSON(result *Result, outputPath string) error {
	if result == nil {
		return fmt.Errorf("no result to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write JSON file: %w", err)
	}

	return nil
}

func formatOptionalFloat(v float64, present bool) string {
	if !present {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatOptionalInt(v int, present bool) string {
	if !present {
		return ""
	}
	return strconv.Itoa(v)
}
