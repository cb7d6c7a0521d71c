// Package config loads application configuration with the precedence
// environment > YAML file > built-in defaults.
//
// Environment variables use the SPREAD prefix (for example
// SPREAD_ANALYSIS_TICK_SIZE). The optional spreadcli.yaml is searched for in
// the working directory first and next to the executable second. Validation
// runs after all sources are merged, so a bad value fails startup no matter
// where it came from.
package config
