package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated simulation statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`
	Layout          string  `csv:"layout"`

	// Population at window end
	Sprites int `csv:"sprites"`

	// Population commands during window
	Grows         int `csv:"grows"`
	Shrinks       int `csv:"shrinks"`
	Spawned       int `csv:"spawned"`
	LayoutChanges int `csv:"layout_changes"`

	// Motion and collision totals during window
	Ticks        int `csv:"ticks"`
	Bounces      int `csv:"bounces"`
	Collisions   int `csv:"collisions"`
	Dropped      int `csv:"dropped"`
	SkippedPairs int `csv:"skipped_pairs"`

	// Per-tick collision distribution
	CollisionsMean float64 `csv:"collisions_mean"`
	CollisionsP10  float64 `csv:"collisions_p10"`
	CollisionsP50  float64 `csv:"collisions_p50"`
	CollisionsP90  float64 `csv:"collisions_p90"`

	// Grid load at window end
	OccupiedCells    int `csv:"occupied_cells"`
	MaxCellOccupancy int `csv:"max_cell_occupancy"`

	// Process memory at window end
	RSSMB float64 `csv:"rss_mb"`
}

// LogStats logs the window using slog.
func (s WindowStats) LogStats() {
	slog.Info("window",
		"tick", s.WindowEndTick,
		"layout", s.Layout,
		"sprites", s.Sprites,
		"collisions", s.Collisions,
		"collisions_p50", s.CollisionsP50,
		"bounces", s.Bounces,
		"skipped_pairs", s.SkippedPairs,
		"dropped", s.Dropped,
		"max_cell", s.MaxCellOccupancy,
		"rss_mb", s.RSSMB,
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean and percentiles of values.
func ComputeDistribution(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}
