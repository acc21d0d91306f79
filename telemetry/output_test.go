package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dvmizew/DataOrientedDesignInGameDev/config"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestOutputManager_DisabledWhenDirEmpty(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Every method is a no-op on nil
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0, "records", 0); err != nil {
		t.Errorf("WritePerf on nil: %v", err)
	}
	if err := om.WriteBookmark(Bookmark{}); err != nil {
		t.Errorf("WriteBookmark on nil: %v", err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Errorf("WriteConfig on nil: %v", err)
	}
	if om.Dir() != "" {
		t.Error("expected empty Dir on nil")
	}
	if err := om.Close(); err != nil {
		t.Errorf("Close on nil: %v", err)
	}
}

func TestOutputManager_HeaderWrittenOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		stats := WindowStats{WindowEndTick: int32(i * 300), Layout: "fields", Sprites: 1000 * i, Collisions: i}
		if err := om.WriteTelemetry(stats); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
		perf := PerfStats{AvgTickDuration: time.Millisecond}
		if err := om.WritePerf(perf, int32(i*300), "fields", 1000*i); err != nil {
			t.Fatalf("WritePerf: %v", err)
		}
	}
	if err := om.WriteBookmark(Bookmark{Type: BookmarkCapSaturated, Tick: 600, Layout: "fields"}); err != nil {
		t.Fatalf("WriteBookmark: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	telemetryLines := readLines(t, filepath.Join(dir, "telemetry.csv"))
	if len(telemetryLines) != 4 {
		t.Fatalf("expected header + 3 rows in telemetry.csv, got %d lines", len(telemetryLines))
	}
	if !strings.HasPrefix(telemetryLines[0], "window_end,sim_time,layout,sprites") {
		t.Errorf("unexpected telemetry header %q", telemetryLines[0])
	}
	for _, line := range telemetryLines[1:] {
		if strings.HasPrefix(line, "window_end") {
			t.Error("header repeated in telemetry.csv")
		}
	}

	perfLines := readLines(t, filepath.Join(dir, "perf.csv"))
	if len(perfLines) != 4 {
		t.Fatalf("expected header + 3 rows in perf.csv, got %d lines", len(perfLines))
	}
	if !strings.Contains(perfLines[0], "collide_pct") {
		t.Errorf("perf header missing collide_pct: %q", perfLines[0])
	}

	bookmarkLines := readLines(t, filepath.Join(dir, "bookmarks.csv"))
	if len(bookmarkLines) != 2 {
		t.Fatalf("expected header + 1 row in bookmarks.csv, got %d lines", len(bookmarkLines))
	}
	if !strings.HasPrefix(bookmarkLines[1], "cap_saturated,600,fields") {
		t.Errorf("unexpected bookmark row %q", bookmarkLines[1])
	}
}

func TestOutputManager_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	reloaded, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if reloaded.Screen != cfg.Screen {
		t.Errorf("screen mismatch: got %+v, want %+v", reloaded.Screen, cfg.Screen)
	}
	if om.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", om.Dir(), dir)
	}
}
