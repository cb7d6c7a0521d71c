// Package exporter renders analysis results into Excel workbooks for
// people who review the numbers outside the CLI. CSV and JSON persistence
// lives with the analytics in internal/spread; this package only owns the
// workbook formats.
package exporter
