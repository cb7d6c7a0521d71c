// Package dataprocessing loads OHLCV series files into the in-memory form
// the spread analytics consume.
//
// CSV and Excel inputs are supported. Header matching is case-insensitive
// with a small set of aliases per field; a missing required column fails
// fast with a SchemaError naming every missing column, while individual bad
// rows are skipped with a warning.
package dataprocessing
