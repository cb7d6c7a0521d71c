package spread

import (
	"log/slog"
	"math"
	"sort"
)

// EvidenceType tags the kind of evidence contributing to a price level.
type EvidenceType string

const (
	EvidenceVolume    EvidenceType = "Volume"
	EvidenceSwingHigh EvidenceType = "SwingHigh"
	EvidenceSwingLow  EvidenceType = "SwingLow"
)

// Level is a detected support or resistance price level. Levels are keyed by
// the integer tick index of their price so that float drift can never split
// one level into two.
type Level struct {
	TickIndex     int            `json:"tick_index"`
	Price         float64        `json:"price"`
	Evidence      []EvidenceType `json:"evidence"`
	Volume        float64        `json:"volume"`
	TouchCount    int            `json:"touch_count"`
	SwingCount    int            `json:"swing_count"`
	Strength      float64        `json:"strength"` // 0..10
	Distance      float64        `json:"distance"` // from current price, price units
	DistanceTicks int            `json:"distance_ticks"`
	IsResistance  bool           `json:"is_resistance"`
}

// Direction labels the bias implied by the latest move.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
	DirectionFlat Direction = "FLAT"
)

// LevelAnalysis is the support/resistance output for one run.
type LevelAnalysis struct {
	CurrentPrice float64   `json:"current_price"`
	Direction    Direction `json:"direction"`
	LookbackDays int       `json:"lookback_days"`
	Resistance   []Level   `json:"resistance"`
	Support      []Level   `json:"support"`
	NextTarget   *Level    `json:"next_target,omitempty"`
}

// levelEntry is the mutable registry record during construction. Contributions
// merge into an existing entry, they never overwrite it.
type levelEntry struct {
	tickIndex  int
	evidence   map[EvidenceType]bool
	volume     float64
	touchCount int
	swingCount int
}

// DetectLevels builds the support/resistance picture from a recency-windowed
// slice of the merged series.
//
// All closes are quantized to integer tick indices. Levels gather evidence
// from volume concentration (top TopNLevels*6 tick indices by accumulated
// spread volume) and from swing highs/lows found with a centered rolling
// window. Centered detection looks at future rows, which is acceptable here
// because levels are descriptive; they are never fed into a causal estimate.
func DetectLevels(bars []Bar, raw Regime, p Params, logger *slog.Logger) LevelAnalysis {
	if logger == nil {
		logger = slog.Default()
	}
	if len(bars) == 0 {
		return LevelAnalysis{Direction: DirectionFlat}
	}

	lookbackDays := p.SRLookbackDays
	cutoff := bars[len(bars)-1].Timestamp.AddDate(0, 0, -lookbackDays)
	var window []Bar
	for _, b := range bars {
		if !b.Timestamp.Before(cutoff) {
			window = append(window, b)
		}
	}
	if len(window) < minLookbackRows {
		// Too little recent history: use the full raw-regime span instead.
		window = raw.Bars
		if len(window) == 0 {
			window = bars
		}
		lookbackDays = calendarDaysBetween(window[0].Timestamp, window[len(window)-1].Timestamp)
		logger.Info("recency window too small, using full history for levels",
			slog.Int("rows", len(window)),
			slog.Int("lookback_days", lookbackDays))
	}

	currentPrice := bars[len(bars)-1].SpreadClose
	prevPrice := currentPrice
	if len(bars) > 1 {
		prevPrice = bars[len(bars)-2].SpreadClose
	}

	ticks := make([]int, len(window))
	for i, b := range window {
		ticks[i] = tickIndex(b.SpreadClose, p.TickSize)
	}

	touchCounts := make(map[int]int, len(ticks))
	volumeByTick := make(map[int]float64, len(ticks))
	for i, t := range ticks {
		touchCounts[t]++
		volumeByTick[t] += window[i].SpreadVolume
	}
	maxVolume := 0.0
	for _, v := range volumeByTick {
		if v > maxVolume {
			maxVolume = v
		}
	}

	registry := make(map[int]*levelEntry)
	upsert := func(tick int) *levelEntry {
		entry, ok := registry[tick]
		if !ok {
			entry = &levelEntry{
				tickIndex:  tick,
				evidence:   make(map[EvidenceType]bool),
				touchCount: touchCounts[tick],
			}
			registry[tick] = entry
		}
		return entry
	}

	// Volume nodes: top N*6 tick indices by accumulated volume.
	for _, tick := range topVolumeTicks(volumeByTick, p.TopNLevels*6) {
		entry := upsert(tick)
		entry.evidence[EvidenceVolume] = true
		entry.volume += volumeByTick[tick]
	}

	// Swing points from a centered rolling window on the tick index.
	half := (p.SwingWindow - 1) / 2
	for i := half; i+p.SwingWindow-1-half < len(ticks); i++ {
		lo, hi := i-half, i-half+p.SwingWindow-1
		winMax, winMin := ticks[lo], ticks[lo]
		for j := lo + 1; j <= hi; j++ {
			if ticks[j] > winMax {
				winMax = ticks[j]
			}
			if ticks[j] < winMin {
				winMin = ticks[j]
			}
		}
		if ticks[i] == winMax {
			entry := upsert(ticks[i])
			entry.evidence[EvidenceSwingHigh] = true
			entry.swingCount++
		}
		if ticks[i] == winMin {
			entry := upsert(ticks[i])
			entry.evidence[EvidenceSwingLow] = true
			entry.swingCount++
		}
	}

	currentTick := tickIndex(currentPrice, p.TickSize)
	var resistance, support []Level
	for _, entry := range registry {
		distTicks := absInt(entry.tickIndex - currentTick)
		if distTicks == 0 {
			// The level at the current price is not actionable.
			continue
		}
		price := float64(entry.tickIndex) * p.TickSize
		lv := Level{
			TickIndex:     entry.tickIndex,
			Price:         price,
			Evidence:      sortedEvidence(entry.evidence),
			Volume:        entry.volume,
			TouchCount:    entry.touchCount,
			SwingCount:    entry.swingCount,
			Strength:      levelStrength(entry, maxVolume),
			Distance:      math.Abs(price - currentPrice),
			DistanceTicks: distTicks,
			IsResistance:  price > currentPrice,
		}
		if lv.IsResistance {
			resistance = append(resistance, lv)
		} else {
			support = append(support, lv)
		}
	}

	sortByStrength(resistance)
	sortByStrength(support)

	minDistance := float64(p.SRMinDistanceTicks) * p.TickSize
	resistance = filterByDistance(resistance, minDistance, p.TopNLevels)
	support = filterByDistance(support, minDistance, p.TopNLevels)

	out := LevelAnalysis{
		CurrentPrice: currentPrice,
		LookbackDays: lookbackDays,
		Resistance:   resistance,
		Support:      support,
	}

	switch {
	case currentPrice > prevPrice:
		out.Direction = DirectionUp
		out.NextTarget = firstLevel(resistance)
	case currentPrice < prevPrice:
		out.Direction = DirectionDown
		out.NextTarget = firstLevel(support)
	default:
		out.Direction = DirectionFlat
		out.NextTarget = firstLevel(resistance)
		if out.NextTarget == nil {
			out.NextTarget = firstLevel(support)
		}
	}

	logger.Info("support/resistance levels detected",
		slog.Int("resistance", len(resistance)),
		slog.Int("support", len(support)),
		slog.String("direction", string(out.Direction)),
		slog.Int("lookback_days", lookbackDays))

	return out
}

// levelStrength scores a level on a 0..10 scale.
//
//	+1 per distinct evidence type (max 3)
//	+3 confluence bonus when volume and a swing coincide
//	+0..3 proportional to the level's volume share of the max-volume level
//	+0..2 proportional to touch count, capped at 10 touches
//	+0..2 proportional to swing count, capped at 3 swings
func levelStrength(entry *levelEntry, maxVolume float64) float64 {
	score := float64(minInt(len(entry.evidence), 3))

	hasSwing := entry.evidence[EvidenceSwingHigh] || entry.evidence[EvidenceSwingLow]
	if entry.evidence[EvidenceVolume] && hasSwing {
		score += 3
	}
	if maxVolume > 0 {
		score += entry.volume / maxVolume * 3
	}
	score += math.Min(float64(entry.touchCount)/10, 1) * 2
	score += math.Min(float64(entry.swingCount)/3, 1) * 2

	return math.Min(math.Round(score*10)/10, 10)
}

// topVolumeTicks returns up to n tick indices by descending accumulated
// volume, ties broken by tick index for determinism.
func topVolumeTicks(volumeByTick map[int]float64, n int) []int {
	ticks := make([]int, 0, len(volumeByTick))
	for t := range volumeByTick {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool {
		if volumeByTick[ticks[i]] != volumeByTick[ticks[j]] {
			return volumeByTick[ticks[i]] > volumeByTick[ticks[j]]
		}
		return ticks[i] < ticks[j]
	})
	if len(ticks) > n {
		ticks = ticks[:n]
	}
	return ticks
}

// filterByDistance greedily keeps the strongest levels at least minDistance
// apart, caps them at maxN, then re-sorts by ascending distance for
// presentation. The input must already be sorted strongest-first.
func filterByDistance(levels []Level, minDistance float64, maxN int) []Level {
	var accepted []Level
	for _, lv := range levels {
		ok := true
		for _, a := range accepted {
			if math.Abs(lv.Price-a.Price) < minDistance {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		accepted = append(accepted, lv)
		if len(accepted) >= maxN {
			break
		}
	}
	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Distance < accepted[j].Distance
	})
	return accepted
}

func sortByStrength(levels []Level) {
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].Strength != levels[j].Strength {
			return levels[i].Strength > levels[j].Strength
		}
		return levels[i].Distance < levels[j].Distance
	})
}

func sortedEvidence(set map[EvidenceType]bool) []EvidenceType {
	out := make([]EvidenceType, 0, len(set))
	for ev := range set {
		out = append(out, ev)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func firstLevel(levels []Level) *Level {
	if len(levels) == 0 {
		return nil
	}
	lv := levels[0]
	return &lv
}

// tickIndex quantizes a price to its integer tick index.
func tickIndex(price, tickSize float64) int {
	return int(math.Round(price / tickSize))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
