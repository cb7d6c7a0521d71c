package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "spreadcli/internal/errors"
	"spreadcli/internal/spread"
)

// ExcelWriter renders a full analysis result into a multi-sheet workbook.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// Write saves the result to outputPath as an xlsx workbook with one sheet
// per analysis section.
func (w *ExcelWriter) Write(result *spread.Result, outputPath string) error {
	if result == nil {
		return apperrors.NewExportError("no result to export", nil)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return apperrors.NewExportError("create output directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := w.writeSummarySheet(f, result); err != nil {
		return err
	}
	if err := w.writeBarsSheet(f, result.Bars); err != nil {
		return err
	}
	if err := w.writeProbabilitySheet(f, result); err != nil {
		return err
	}
	if err := w.writeBootstrapSheet(f, result.Bootstrap); err != nil {
		return err
	}
	if err := w.writeLevelsSheet(f, result.Levels); err != nil {
		return err
	}

	// Drop the default sheet excelize creates.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return apperrors.NewExportError("delete default sheet", err)
	}

	if err := f.SaveAs(outputPath); err != nil {
		return apperrors.NewExportError(fmt.Sprintf("save workbook %s", outputPath), err)
	}

	w.logger.Info("exported Excel workbook",
		slog.String("path", outputPath),
		slog.Int("bars", len(result.Bars)))
	return nil
}

func (w *ExcelWriter) writeSummarySheet(f *excelize.File, result *spread.Result) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewExportError("create summary sheet", err)
	}

	d := result.Diagnostics
	rows := [][]interface{}{
		{"Run ID", d.RunID},
		{"Generated At", d.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Duration", d.Duration},
		{"First Date", d.Align.FirstDate.Format("2006-01-02")},
		{"Last Date", d.Align.LastDate.Format("2006-01-02")},
		{"Merged Rows", d.Align.MergedRows},
		{"Dropped Dates", d.Align.DroppedDates},
		{"Gap Excluded", d.Align.GapExcluded},
		{"Warmup Rows", d.WarmupRows},
		{"Outlier Rows", d.OutlierRows},
		{"Outlier Threshold (ticks)", d.FinalThreshold},
		{"Raw Regime Rows", d.RawRows},
		{"Valid Regime Rows", d.ValidRows},
		{"Tick Size", d.Params.TickSize},
		{"Strict Daily Only", d.Params.StrictDailyOnly},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewExportError("write summary row", err)
		}
	}
	return nil
}

func (w *ExcelWriter) writeBarsSheet(f *excelize.File, bars []spread.Bar) error {
	const sheet = "Bars"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewExportError("create bars sheet", err)
	}

	header := []interface{}{"Date", "Close 1", "Close 2", "Spread Close", "Spread Volume",
		"Tick Move", "Days Gap", "Row ID", "Consecutive", "Warmup", "Outlier"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewExportError("write bars header", err)
	}

	for i, b := range bars {
		row := []interface{}{
			b.Date.Format("2006-01-02"),
			b.Close1, b.Close2, b.SpreadClose, b.SpreadVolume,
			b.TickMove, b.DaysGap, b.RowID,
			b.IsConsecutive, b.IsWarmup, b.IsOutlier,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewExportError("write bars row", err)
		}
	}
	return nil
}

func (w *ExcelWriter) writeProbabilitySheet(f *excelize.File, result *spread.Result) error {
	const sheet = "Probabilities"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewExportError("create probabilities sheet", err)
	}

	header := []interface{}{"Regime", "Threshold", "Tick Value",
		"P(exact)", "P(at least)", "P(up)", "P(down)",
		"At Least CI Low", "At Least CI High"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewExportError("write probabilities header", err)
	}

	line := 2
	for _, rp := range []spread.RegimeProbabilities{result.Raw, result.Valid} {
		for _, rec := range rp.Records {
			row := []interface{}{
				string(rp.Kind), rec.TickThreshold, rec.TickValue,
				rec.ProbExact, rec.ProbAtLeast, rec.ProbUp, rec.ProbDown,
				rec.AtLeastCI.Lower, rec.AtLeastCI.Upper,
			}
			cell, _ := excelize.CoordinatesToCellName(1, line)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return apperrors.NewExportError("write probabilities row", err)
			}
			line++
		}
	}
	return nil
}

func (w *ExcelWriter) writeBootstrapSheet(f *excelize.File, records []spread.BootstrapRecord) error {
	const sheet = "Bootstrap"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewExportError("create bootstrap sheet", err)
	}

	header := []interface{}{"Threshold",
		"Abs Mean", "Abs CI Low", "Abs CI High",
		"Up Mean", "Up CI Low", "Up CI High",
		"Down Mean", "Down CI Low", "Down CI High"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return apperrors.NewExportError("write bootstrap header", err)
	}

	for i, rec := range records {
		row := []interface{}{
			rec.TickThreshold,
			rec.Absolute.Mean, rec.Absolute.CILower, rec.Absolute.CIUpper,
			rec.Up.Mean, rec.Up.CILower, rec.Up.CIUpper,
			rec.Down.Mean, rec.Down.CILower, rec.Down.CIUpper,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewExportError("write bootstrap row", err)
		}
	}
	return nil
}

func (w *ExcelWriter) writeLevelsSheet(f *excelize.File, levels spread.LevelAnalysis) error {
	const sheet = "Levels"
	if _, err := f.NewSheet(sheet); err != nil {
		return apperrors.NewExportError("create levels sheet", err)
	}

	meta := [][]interface{}{
		{"Current Price", levels.CurrentPrice},
		{"Direction", string(levels.Direction)},
		{"Lookback Days", levels.LookbackDays},
	}
	for i, row := range meta {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewExportError("write levels metadata", err)
		}
	}

	header := []interface{}{"Side", "Price", "Distance", "Strength", "Touches", "Swings", "Volume"}
	if err := f.SetSheetRow(sheet, "A5", &header); err != nil {
		return apperrors.NewExportError("write levels header", err)
	}

	line := 6
	writeSide := func(side string, levels []spread.Level) error {
		for _, lv := range levels {
			row := []interface{}{side, lv.Price, lv.Distance, lv.Strength, lv.TouchCount, lv.SwingCount, lv.Volume}
			cell, _ := excelize.CoordinatesToCellName(1, line)
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return apperrors.NewExportError("write levels row", err)
			}
			line++
		}
		return nil
	}
	if err := writeSide("Resistance", levels.Resistance); err != nil {
		return err
	}
	return writeSide("Support", levels.Support)
}
