package telemetry

import (
	"fmt"
	"log/slog"
	"time"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkBudgetExceeded BookmarkType = "budget_exceeded"
	BookmarkBudgetRestored BookmarkType = "budget_restored"
	BookmarkCollisionSpike BookmarkType = "collision_spike"
	BookmarkCapSaturated   BookmarkType = "cap_saturated"
)

// Bookmark marks a window worth looking at when comparing layouts.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Layout      string       `csv:"layout"`
	Sprites     int          `csv:"sprites"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"layout", b.Layout,
		"sprites", b.Sprites,
		"description", b.Description,
	)
}

// BookmarkDetector watches window stats for frame budget breaches,
// collision spikes and per-cell cap saturation.
type BookmarkDetector struct {
	budget time.Duration

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	overBudget   bool
	capSaturated bool
}

// NewBookmarkDetector creates a detector with the given history size.
// budget is the per-tick time above which a window counts as over budget.
func NewBookmarkDetector(historySize int, budget time.Duration) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		budget:      budget,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest window and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats, perf PerfStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkBudget(stats, perf); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCollisionSpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCapSaturation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) bookmark(t BookmarkType, stats WindowStats, format string, args ...any) *Bookmark {
	return &Bookmark{
		Type:        t,
		Tick:        stats.WindowEndTick,
		Layout:      stats.Layout,
		Sprites:     stats.Sprites,
		Description: fmt.Sprintf(format, args...),
	}
}

// checkBudget fires on the transitions into and out of over-budget.
func (bd *BookmarkDetector) checkBudget(stats WindowStats, perf PerfStats) *Bookmark {
	if bd.budget <= 0 || perf.AvgTickDuration == 0 {
		return nil
	}

	over := perf.AvgTickDuration > bd.budget
	if over == bd.overBudget {
		return nil
	}
	bd.overBudget = over

	if over {
		return bd.bookmark(BookmarkBudgetExceeded, stats,
			"Avg tick %s exceeds budget %s at %d sprites",
			perf.AvgTickDuration.Round(time.Microsecond), bd.budget, stats.Sprites)
	}
	return bd.bookmark(BookmarkBudgetRestored, stats,
		"Avg tick %s back within budget %s at %d sprites",
		perf.AvgTickDuration.Round(time.Microsecond), bd.budget, stats.Sprites)
}

func (bd *BookmarkDetector) checkCollisionSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Ticks == 0 {
		return nil
	}

	// Compare per-tick rates so windows of different length are comparable
	var total float64
	var n int
	for _, h := range history {
		if h.Ticks == 0 {
			continue
		}
		total += float64(h.Collisions) / float64(h.Ticks)
		n++
	}
	if n == 0 || total == 0 {
		return nil
	}

	avg := total / float64(n)
	current := float64(stats.Collisions) / float64(stats.Ticks)
	if current > avg*2.0 && stats.Collisions >= 10 {
		return bd.bookmark(BookmarkCollisionSpike, stats,
			"Collisions per tick %.1f is %.1fx average (%.1f)", current, current/avg, avg)
	}

	return nil
}

// checkCapSaturation fires once when the per-cell cap first starts skipping pairs.
func (bd *BookmarkDetector) checkCapSaturation(stats WindowStats) *Bookmark {
	saturated := stats.SkippedPairs > 0
	if saturated == bd.capSaturated {
		return nil
	}
	bd.capSaturated = saturated
	if !saturated {
		return nil
	}
	return bd.bookmark(BookmarkCapSaturated, stats,
		"Per-cell cap skipped %d pairs (max cell occupancy %d)", stats.SkippedPairs, stats.MaxCellOccupancy)
}
