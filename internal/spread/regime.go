package spread

// BuildRegimes partitions the merged bars into the two analysis views.
//
// The raw regime holds every consecutive bar with a defined tick move,
// including outliers and warm-up rows. The valid regime is the raw regime
// minus outliers and warm-up rows, so valid is always a subset of raw.
// Regimes are built once per run and treated as read-only afterwards.
func BuildRegimes(bars []Bar) (raw, valid Regime) {
	raw = Regime{Kind: RegimeRaw}
	valid = Regime{Kind: RegimeValid}

	for _, b := range bars {
		if !b.IsConsecutive || !b.HasMove {
			continue
		}
		raw.Bars = append(raw.Bars, b)
		if !b.IsOutlier && !b.IsWarmup {
			valid.Bars = append(valid.Bars, b)
		}
	}
	return raw, valid
}
