package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"spreadcli/internal/spread"
)

// DashboardHandler renders a single-page HTML summary of the latest analysis.
type DashboardHandler struct {
	store  ResultStore
	logger *slog.Logger
	tmpl   *template.Template
}

// NewDashboardHandler creates a dashboard handler with the page template
// parsed once up front.
func NewDashboardHandler(store ResultStore, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:  store,
		logger: logger.With(slog.String("handler", "dashboard")),
		tmpl:   template.Must(template.New("dashboard").Funcs(dashboardFuncs).Parse(dashboardTemplate)),
	}
}

// Serve handles GET /
func (h *DashboardHandler) Serve(w http.ResponseWriter, r *http.Request) {
	result := h.store.Latest()
	if result == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(emptyDashboardPage))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, dashboardData(result)); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render dashboard",
			slog.String("error", err.Error()))
	}
}

type dashboardView struct {
	RunID        string
	GeneratedAt  string
	RawRows      int
	ValidRows    int
	WarmupRows   int
	OutlierRows  int
	CurrentPrice float64
	Direction    spread.Direction
	NextTarget   *spread.Level
	Resistance   []spread.Level
	Support      []spread.Level
	Raw          spread.RegimeProbabilities
	Valid        spread.RegimeProbabilities
	Statistics   spread.StatisticalSuite
	Histogram    []spread.HistogramBin
}

func dashboardData(result *spread.Result) dashboardView {
	return dashboardView{
		RunID:        result.Diagnostics.RunID,
		GeneratedAt:  result.Diagnostics.GeneratedAt.Format("2006-01-02 15:04:05 MST"),
		RawRows:      result.Diagnostics.RawRows,
		ValidRows:    result.Diagnostics.ValidRows,
		WarmupRows:   result.Diagnostics.WarmupRows,
		OutlierRows:  result.Diagnostics.OutlierRows,
		CurrentPrice: result.Levels.CurrentPrice,
		Direction:    result.Levels.Direction,
		NextTarget:   result.Levels.NextTarget,
		Resistance:   result.Levels.Resistance,
		Support:      result.Levels.Support,
		Raw:          result.Raw,
		Valid:        result.Valid,
		Statistics:   result.Statistics,
		Histogram:    result.Histogram,
	}
}

var dashboardFuncs = template.FuncMap{
	"pct": func(p float64) string {
		return fmt.Sprintf("%.1f%%", p*100)
	},
	"f3": func(v float64) string {
		return fmt.Sprintf("%.3f", v)
	},
}

const emptyDashboardPage = `<!DOCTYPE html>
<html><head><title>Spread Analyzer</title></head>
<body><h1>Spread Analyzer</h1><p>No analysis result available yet.</p></body></html>`

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head>
<title>Spread Analyzer</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 4px 10px; text-align: right; }
th { background: #f0f0f0; }
td:first-child, th:first-child { text-align: left; }
h2 { margin-top: 1.5em; }
.muted { color: #888; }
</style>
</head>
<body>
<h1>Spread Analyzer</h1>
<p class="muted">Run {{.RunID}} generated {{.GeneratedAt}}</p>

<h2>Overview</h2>
<table>
<tr><td>Raw rows</td><td>{{.RawRows}}</td></tr>
<tr><td>Valid rows</td><td>{{.ValidRows}}</td></tr>
<tr><td>Warm-up rows</td><td>{{.WarmupRows}}</td></tr>
<tr><td>Outlier rows</td><td>{{.OutlierRows}}</td></tr>
<tr><td>Current spread</td><td>{{f3 .CurrentPrice}}</td></tr>
<tr><td>Direction</td><td>{{.Direction}}</td></tr>
</table>

<h2>Tick probabilities (valid regime, n={{.Valid.SampleSize}})</h2>
<table>
<tr><th>Threshold</th><th>P(exact)</th><th>P(&ge;)</th><th>P(up)</th><th>P(down)</th></tr>
<tr><td>0 ticks</td><td>{{pct .Valid.ZeroProb}}</td><td></td><td></td><td></td></tr>
{{range .Valid.Records}}
<tr><td>{{.TickThreshold}} ticks</td><td>{{pct .ProbExact}}</td><td>{{pct .ProbAtLeast}}</td><td>{{pct .ProbUp}}</td><td>{{pct .ProbDown}}</td></tr>
{{end}}
</table>

<h2>Tick probabilities (raw regime, n={{.Raw.SampleSize}})</h2>
<table>
<tr><th>Threshold</th><th>P(exact)</th><th>P(&ge;)</th><th>P(up)</th><th>P(down)</th></tr>
<tr><td>0 ticks</td><td>{{pct .Raw.ZeroProb}}</td><td></td><td></td><td></td></tr>
{{range .Raw.Records}}
<tr><td>{{.TickThreshold}} ticks</td><td>{{pct .ProbExact}}</td><td>{{pct .ProbAtLeast}}</td><td>{{pct .ProbUp}}</td><td>{{pct .ProbDown}}</td></tr>
{{end}}
</table>

{{if .Resistance}}
<h2>Resistance</h2>
<table>
<tr><th>Price</th><th>Strength</th><th>Distance (ticks)</th><th>Volume</th></tr>
{{range .Resistance}}
<tr><td>{{f3 .Price}}</td><td>{{.Strength}}</td><td>{{.DistanceTicks}}</td><td>{{f3 .Volume}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Support}}
<h2>Support</h2>
<table>
<tr><th>Price</th><th>Strength</th><th>Distance (ticks)</th><th>Volume</th></tr>
{{range .Support}}
<tr><td>{{f3 .Price}}</td><td>{{.Strength}}</td><td>{{.DistanceTicks}}</td><td>{{f3 .Volume}}</td></tr>
{{end}}
</table>
{{end}}

{{if .NextTarget}}
<p>Next target: {{f3 .NextTarget.Price}} ({{if .NextTarget.IsResistance}}resistance{{else}}support{{end}}, strength {{.NextTarget.Strength}})</p>
{{end}}

{{if .Statistics.Available}}
<h2>Statistics</h2>
<table>
<tr><td>Mean move</td><td>{{f3 .Statistics.Distribution.Mean}} ticks</td></tr>
<tr><td>Std dev</td><td>{{f3 .Statistics.Distribution.StdDev}}</td></tr>
<tr><td>Mean abs move</td><td>{{f3 .Statistics.Distribution.MeanAbs}} ticks</td></tr>
<tr><td>Median abs move</td><td>{{f3 .Statistics.Distribution.MedianAbs}} ticks</td></tr>
<tr><td>Skewness</td><td>{{f3 .Statistics.Distribution.Skewness}}</td></tr>
<tr><td>Kurtosis</td><td>{{f3 .Statistics.Distribution.Kurtosis}}</td></tr>
{{if .Statistics.TTest.Available}}<tr><td>t-test p</td><td>{{f3 .Statistics.TTest.PValue}}</td></tr>{{end}}
{{if .Statistics.Wilcoxon.Available}}<tr><td>Wilcoxon p</td><td>{{f3 .Statistics.Wilcoxon.PValue}}</td></tr>{{end}}
{{if .Statistics.RunsTest.Applicable}}<tr><td>Runs test z</td><td>{{f3 .Statistics.RunsTest.ZScore}}</td></tr>{{end}}
</table>
{{end}}

{{if .Histogram}}
<h2>Move histogram</h2>
<table>
<tr><th>Ticks</th><th>Count</th><th>Share</th></tr>
{{range .Histogram}}
<tr><td>{{.TickMove}}</td><td>{{.Count}}</td><td>{{pct .Share}}</td></tr>
{{end}}
</table>
{{end}}

</body>
</html>`
