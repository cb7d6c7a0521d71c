package spread

import "time"

// Diagnostics carries run metadata and data-quality counters alongside the
// analytical outputs.
type Diagnostics struct {
	RunID       string     `json:"run_id"`
	GeneratedAt time.Time  `json:"generated_at"`
	Duration    string     `json:"duration"`
	Params      Params     `json:"params"`
	Align       AlignStats `json:"align"`

	WarmupRows     int     `json:"warmup_rows"`
	OutlierRows    int     `json:"outlier_rows"`
	FinalThreshold float64 `json:"final_threshold"`

	RawRows   int `json:"raw_rows"`
	ValidRows int `json:"valid_rows"`
}

// Result is the complete output of one spread analysis run.
type Result struct {
	Diagnostics Diagnostics `json:"diagnostics"`

	Bars []Bar `json:"bars"`

	Raw   RegimeProbabilities `json:"raw"`
	Valid RegimeProbabilities `json:"valid"`

	VolumeWeighted []VolumeWeightedRecord `json:"volume_weighted,omitempty"`
	Bootstrap      []BootstrapRecord      `json:"bootstrap,omitempty"`
	Transitions    Transitions            `json:"transitions"`
	Statistics     StatisticalSuite       `json:"statistics"`
	Levels         LevelAnalysis          `json:"levels"`
	Histogram      []HistogramBin         `json:"histogram,omitempty"`
}
