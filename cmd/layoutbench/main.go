// Package main benchmarks every sprite memory layout over a doubling
// population ladder and writes the results as CSV.
//
// Usage: go run ./cmd/layoutbench -output bench
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/dvmizew/DataOrientedDesignInGameDev/config"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sim"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sprites"
	"github.com/dvmizew/DataOrientedDesignInGameDev/telemetry"
)

// Row is one (layout, population) measurement.
type Row struct {
	Layout          string  `csv:"layout"`
	Sprites         int     `csv:"sprites"`
	Ticks           int     `csv:"ticks"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	StdTickUS       int64   `csv:"std_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	CollisionsTick  float64 `csv:"collisions_per_tick"`
	SkippedTick     float64 `csv:"skipped_pairs_per_tick"`
	MaxCell         int     `csv:"max_cell_occupancy"`
	IntegratePct    float64 `csv:"integrate_pct"`
	ReflectPct      float64 `csv:"reflect_pct"`
	GridPct         float64 `csv:"grid_pct"`
	CollidePct      float64 `csv:"collide_pct"`
	RSSMB           float64 `csv:"rss_mb"`
	WithinBudget    bool    `csv:"within_budget"`
	BudgetHeadroomX float64 `csv:"budget_headroom_x"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	outputDir := flag.String("output", ".", "Output directory for bench.csv")
	layoutsFlag := flag.String("layouts", "records,fields,archetype", "Comma-separated layouts to run")
	ticks := flag.Int("ticks", 300, "Measured ticks per population step")
	warmup := flag.Int("warmup", 30, "Unmeasured ticks before each step")
	seed := flag.Int64("seed", 42, "RNG seed, shared by every layout")
	maxSprites := flag.Int("max", 0, "Largest population (0 = config population.max)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(*configPath, *outputDir, *layoutsFlag, *ticks, *warmup, *seed, *maxSprites); err != nil {
		slog.Error("layoutbench failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir, layoutsFlag string, ticks, warmup int, seed int64, maxSprites int) error {
	if ticks < 1 {
		return fmt.Errorf("ticks must be positive, got %d", ticks)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if maxSprites > 0 {
		cfg.Population.Max = maxSprites
	}

	var layouts []sprites.Layout
	for _, name := range strings.Split(layoutsFlag, ",") {
		l, err := sprites.ParseLayout(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		layouts = append(layouts, l)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	memory, err := telemetry.NewMemorySampler()
	if err != nil {
		slog.Warn("memory sampling disabled", "error", err)
	}

	budget := time.Second / 60
	if cfg.Screen.TargetFPS > 0 {
		budget = time.Second / time.Duration(cfg.Screen.TargetFPS)
	}

	var rows []Row
	for _, layout := range layouts {
		layoutRows, err := benchLayout(cfg, layout, seed, ticks, warmup, budget, memory)
		if err != nil {
			return err
		}
		logScaling(layout, layoutRows)
		rows = append(rows, layoutRows...)
	}

	path := filepath.Join(outputDir, "bench.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating bench.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(rows, f); err != nil {
		return fmt.Errorf("writing bench.csv: %w", err)
	}
	slog.Info("bench written", "path", path, "rows", len(rows))
	return nil
}

// benchLayout grows one simulation from the initial population to the cap,
// measuring each step.
func benchLayout(cfg *config.Config, layout sprites.Layout, seed int64, ticks, warmup int, budget time.Duration, memory *telemetry.MemorySampler) ([]Row, error) {
	opts, err := sim.OptionsFromConfig(cfg, layout, seed)
	if err != nil {
		return nil, err
	}
	opts.PerfWindow = ticks
	s := sim.New(opts)
	if s.SpawnInitial() == 0 {
		return nil, fmt.Errorf("population.initial must be positive")
	}

	dt := cfg.Derived.DT32
	var rows []Row
	for {
		for i := 0; i < warmup; i++ {
			s.Tick(dt)
		}
		s.Perf().Reset()

		var collisions, skipped, maxCell int
		for i := 0; i < ticks; i++ {
			st := s.Tick(dt)
			collisions += st.Collisions
			skipped += st.SkippedPairs
			maxCell = max(maxCell, st.MaxCellOccupancy)
		}

		perf := s.Perf().Stats()
		rss, err := memory.RSSMB()
		if err != nil {
			slog.Debug("memory sample failed", "error", err)
		}

		row := Row{
			Layout:         layout.String(),
			Sprites:        s.Count(),
			Ticks:          ticks,
			AvgTickUS:      perf.AvgTickDuration.Microseconds(),
			MinTickUS:      perf.MinTickDuration.Microseconds(),
			MaxTickUS:      perf.MaxTickDuration.Microseconds(),
			StdTickUS:      perf.StdDevTickDuration.Microseconds(),
			TicksPerSec:    perf.TicksPerSecond,
			CollisionsTick: float64(collisions) / float64(ticks),
			SkippedTick:    float64(skipped) / float64(ticks),
			MaxCell:        maxCell,
			IntegratePct:   perf.PhasePct[telemetry.PhaseIntegrate],
			ReflectPct:     perf.PhasePct[telemetry.PhaseReflect],
			GridPct:        perf.PhasePct[telemetry.PhaseGrid],
			CollidePct:     perf.PhasePct[telemetry.PhaseCollide],
			RSSMB:          rss,
			WithinBudget:   perf.AvgTickDuration <= budget,
		}
		if perf.AvgTickDuration > 0 {
			row.BudgetHeadroomX = float64(budget) / float64(perf.AvgTickDuration)
		}
		rows = append(rows, row)

		slog.Info("step",
			"layout", row.Layout,
			"sprites", row.Sprites,
			"avg_tick_us", row.AvgTickUS,
			"collide_pct", math.Round(row.CollidePct*10)/10,
			"within_budget", row.WithinBudget,
		)

		if s.Grow() == 0 {
			return rows, nil
		}
	}
}

// logScaling fits avg tick time against population on a log-log scale.
// A slope near 1 means the step is linear in the sprite count.
func logScaling(layout sprites.Layout, rows []Row) {
	var xs, ys []float64
	for _, r := range rows {
		if r.AvgTickUS <= 0 {
			continue
		}
		xs = append(xs, math.Log(float64(r.Sprites)))
		ys = append(ys, math.Log(float64(r.AvgTickUS)))
	}
	if len(xs) < 2 {
		return
	}

	_, slope := stat.LinearRegression(xs, ys, nil, false)
	slog.Info("scaling",
		"layout", layout.String(),
		"steps", len(rows),
		"exponent", math.Round(slope*100)/100,
	)
}
