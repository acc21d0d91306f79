package telemetry

import (
	"testing"
	"time"
)

func hasBookmark(bookmarks []Bookmark, t BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == t {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_CollisionSpike(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)

	// Steady collision rate
	for i := 0; i < 5; i++ {
		stats := WindowStats{
			WindowEndTick: int32(i * 300),
			Ticks:         300,
			Collisions:    600,
		}
		bd.Check(stats, PerfStats{})
	}

	spike := WindowStats{
		WindowEndTick: 1800,
		Ticks:         300,
		Collisions:    3000, // 5x the average
	}
	if !hasBookmark(bd.Check(spike, PerfStats{}), BookmarkCollisionSpike) {
		t.Error("expected collision_spike bookmark")
	}
}

func TestBookmarkDetector_NoSpikeWithoutHistory(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)

	stats := WindowStats{Ticks: 300, Collisions: 3000}
	if hasBookmark(bd.Check(stats, PerfStats{}), BookmarkCollisionSpike) {
		t.Error("collision_spike should need history")
	}
}

func TestBookmarkDetector_BudgetTransitions(t *testing.T) {
	budget := 16 * time.Millisecond
	bd := NewBookmarkDetector(10, budget)

	under := PerfStats{AvgTickDuration: 4 * time.Millisecond}
	over := PerfStats{AvgTickDuration: 20 * time.Millisecond}

	if got := bd.Check(WindowStats{Sprites: 1000}, under); len(got) != 0 {
		t.Errorf("expected no bookmarks under budget, got %v", got)
	}

	if !hasBookmark(bd.Check(WindowStats{Sprites: 64000}, over), BookmarkBudgetExceeded) {
		t.Error("expected budget_exceeded bookmark")
	}

	// Staying over budget does not fire again
	if hasBookmark(bd.Check(WindowStats{Sprites: 64000}, over), BookmarkBudgetExceeded) {
		t.Error("budget_exceeded should fire only on transition")
	}

	if !hasBookmark(bd.Check(WindowStats{Sprites: 32000}, under), BookmarkBudgetRestored) {
		t.Error("expected budget_restored bookmark")
	}
}

func TestBookmarkDetector_CapSaturated(t *testing.T) {
	bd := NewBookmarkDetector(10, 0)

	bookmarks := bd.Check(WindowStats{SkippedPairs: 12, MaxCellOccupancy: 40, Layout: "fields"}, PerfStats{})
	if !hasBookmark(bookmarks, BookmarkCapSaturated) {
		t.Fatal("expected cap_saturated bookmark")
	}
	if bookmarks[0].Layout != "fields" {
		t.Errorf("expected layout fields, got %q", bookmarks[0].Layout)
	}

	if hasBookmark(bd.Check(WindowStats{SkippedPairs: 30}, PerfStats{}), BookmarkCapSaturated) {
		t.Error("cap_saturated should fire only once while saturated")
	}

	bd.Check(WindowStats{}, PerfStats{})
	if !hasBookmark(bd.Check(WindowStats{SkippedPairs: 1}, PerfStats{}), BookmarkCapSaturated) {
		t.Error("expected cap_saturated to fire again after clearing")
	}
}
