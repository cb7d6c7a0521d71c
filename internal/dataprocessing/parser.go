package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "spreadcli/internal/errors"
	"spreadcli/internal/spread"
)

// Column aliases accepted for each field. Header matching is
// case-insensitive and ignores surrounding whitespace.
var columnAliases = map[string][]string{
	"date":   {"date", "timestamp", "datetime", "time"},
	"open":   {"open", "open price"},
	"high":   {"high", "high price"},
	"low":    {"low", "low price"},
	"close":  {"close", "close price", "adj close", "last"},
	"volume": {"volume", "vol", "quantity"},
}

// requiredColumns must all resolve for a file to be usable. A header missing
// any of them is fatal, not degradable: a volume-less file would silently
// zero every volume-weighted estimate downstream.
var requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
	"2006/01/02",
	"02.01.2006",
}

// ParseSeriesFile reads one OHLCV series from a CSV or Excel file. Rows with
// a blank or unparseable value are skipped and counted, not fatal; a header
// missing any of the six required columns is.
func ParseSeriesFile(path string, logger *slog.Logger) ([]spread.SeriesPoint, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var rows [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcelRows(path)
	default:
		rows, err = readCSVRows(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s is empty", path), nil)
	}

	columns, err := resolveColumns(path, rows[0])
	if err != nil {
		return nil, err
	}

	var points []spread.SeriesPoint
	var skipped int
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		if isBlankRow(row) {
			continue
		}

		pt, err := parseRow(path, line, row, columns)
		if err != nil {
			skipped++
			logger.Warn("skipping unparseable row", slog.String("file", path), slog.Int("line", line), slog.String("error", err.Error()))
			continue
		}
		points = append(points, pt)
	}

	if len(points) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no usable data rows", path), nil)
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	logger.Info("parsed series file",
		slog.String("file", path),
		slog.Int("rows", len(points)),
		slog.Int("skipped", skipped))

	return points, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("read %s", path), err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no sheets", path), nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read sheet %q of %s", sheets[0], path), err)
	}
	return rows, nil
}

// resolveColumns maps canonical field names to column indices from the
// header row.
func resolveColumns(path string, header []string) (map[string]int, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	columns := make(map[string]int)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			for idx, h := range normalized {
				if h == alias {
					columns[field] = idx
					break
				}
			}
			if _, ok := columns[field]; ok {
				break
			}
		}
	}

	var missing []string
	for _, field := range requiredColumns {
		if _, ok := columns[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewSchemaError(path, missing, normalized)
	}
	return columns, nil
}

func parseRow(path string, line int, row []string, columns map[string]int) (spread.SeriesPoint, error) {
	var pt spread.SeriesPoint

	ts, err := parseDate(cell(row, columns["date"]))
	if err != nil {
		return pt, apperrors.NewRowError(path, line, "date", err)
	}
	pt.Timestamp = ts

	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"open", &pt.Open},
		{"high", &pt.High},
		{"low", &pt.Low},
		{"close", &pt.Close},
		{"volume", &pt.Volume},
	} {
		v, err := parseFloat(cell(row, columns[field.name]))
		if err != nil {
			return pt, apperrors.NewRowError(path, line, field.name, err)
		}
		*field.dst = v
	}

	return pt, nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

func parseFloat(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(value, 64)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
