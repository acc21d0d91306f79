// Package sim ties a sprite store, the motion system and the population
// controller into one single-threaded simulation.
//
// Callers drive it with Tick and population commands, then read the
// drawable snapshot with Rects between ticks.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/dvmizew/DataOrientedDesignInGameDev/config"
	"github.com/dvmizew/DataOrientedDesignInGameDev/spatial"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sprites"
	"github.com/dvmizew/DataOrientedDesignInGameDev/systems"
	"github.com/dvmizew/DataOrientedDesignInGameDev/telemetry"
)

// Options configures a simulation. The screen size is fixed for the
// lifetime of the simulation.
type Options struct {
	Layout sprites.Layout

	ScreenWidth  float32
	ScreenHeight float32
	CellSize     float32

	SpriteWidth  float32
	SpriteHeight float32
	Speed        float32

	InitialSprites int
	MaxSprites     int

	// CellCaps holds the per-cell pair-test cap for each layout.
	// Missing layouts are uncapped.
	CellCaps map[sprites.Layout]int

	Seed       int64
	PerfWindow int // ticks averaged by Perf(); 0 = 60
}

// OptionsFromConfig builds options from a loaded config.
func OptionsFromConfig(cfg *config.Config, layout sprites.Layout, seed int64) (Options, error) {
	caps := make(map[sprites.Layout]int, len(cfg.Collision.CellCap))
	for name, c := range cfg.Collision.CellCap {
		l, err := sprites.ParseLayout(name)
		if err != nil {
			return Options{}, fmt.Errorf("collision.cell_cap: %w", err)
		}
		caps[l] = c
	}

	return Options{
		Layout:         layout,
		ScreenWidth:    cfg.Derived.ScreenW32,
		ScreenHeight:   cfg.Derived.ScreenH32,
		CellSize:       cfg.Derived.CellSize32,
		SpriteWidth:    cfg.Derived.SpriteW32,
		SpriteHeight:   cfg.Derived.SpriteH32,
		Speed:          cfg.Derived.Speed32,
		InitialSprites: cfg.Population.Initial,
		MaxSprites:     cfg.Population.Max,
		CellCaps:       caps,
		Seed:           seed,
		PerfWindow:     cfg.Telemetry.PerfCollectorWindow,
	}, nil
}

// Sim is one sprite simulation. It is not safe for concurrent use.
type Sim struct {
	opts Options

	store  sprites.Store
	motion *systems.MotionSystem
	pop    *systems.Population
	perf   *telemetry.PerfCollector

	last  systems.StepStats
	ticks int32
}

// New creates an empty simulation. It panics on an unknown layout or a
// non-positive cell size.
func New(opts Options) *Sim {
	bounds := systems.Bounds{Width: opts.ScreenWidth, Height: opts.ScreenHeight}
	rng := rand.New(rand.NewSource(opts.Seed))

	s := &Sim{
		opts:   opts,
		store:  sprites.New(opts.Layout),
		motion: systems.NewMotionSystem(bounds, opts.CellSize, opts.CellCaps[opts.Layout]),
		pop:    systems.NewPopulation(rng, bounds, opts.SpriteWidth, opts.SpriteHeight, opts.Speed),
		perf:   telemetry.NewPerfCollector(opts.PerfWindow),
	}
	s.motion.SetPhaseTimer(s.perf)
	return s
}

// Tick advances the simulation by dt seconds. dt must be finite and >= 0.
func (s *Sim) Tick(dt float32) systems.StepStats {
	s.perf.StartTick()
	s.last = s.motion.Update(s.store, dt)
	s.perf.EndTick()
	s.ticks++
	return s.last
}

// Grow doubles the population up to the configured maximum.
func (s *Sim) Grow() int {
	return s.GrowTo(s.opts.MaxSprites)
}

// GrowTo doubles the population up to limit and returns how many sprites
// were added. An empty simulation stays empty.
func (s *Sim) GrowTo(limit int) int {
	return s.pop.Grow(s.store, limit)
}

// Shrink halves the population, keeping the lowest indices.
func (s *Sim) Shrink() {
	s.pop.Shrink(s.store)
}

// Clear removes every sprite.
func (s *Sim) Clear() {
	s.pop.Clear(s.store)
}

// Spawn adds n sprites inside area, never exceeding the configured maximum.
// It returns how many were added.
func (s *Sim) Spawn(n int, area systems.Area) int {
	if s.opts.MaxSprites > 0 {
		n = min(n, s.opts.MaxSprites-s.store.Len())
	}
	if n <= 0 {
		return 0
	}
	s.pop.Spawn(s.store, n, area)
	return n
}

// SpawnInitial spawns the configured initial population over the whole screen.
func (s *Sim) SpawnInitial() int {
	return s.Spawn(s.opts.InitialSprites, s.pop.Screen())
}

// SwitchLayout moves the population into a store of the given layout.
// Sprite order, and therefore every index, is preserved.
func (s *Sim) SwitchLayout(layout sprites.Layout) {
	if layout == s.store.Layout() {
		return
	}
	from := s.store.Layout()
	next := sprites.New(layout)
	sprites.CopyInto(next, s.store)
	s.store = next
	s.motion.SetCellCap(s.opts.CellCaps[layout])
	s.perf.Reset()

	slog.Info("layout switched",
		"from", from.String(),
		"to", layout.String(),
		"sprites", next.Len(),
		"cell_cap", s.motion.CellCap(),
	)
}

// Count returns the number of sprites.
func (s *Sim) Count() int { return s.store.Len() }

// Layout returns the current memory layout.
func (s *Sim) Layout() sprites.Layout { return s.store.Layout() }

// Rects appends the drawable rectangle of every sprite to dst.
func (s *Sim) Rects(dst []sprites.Rect) []sprites.Rect {
	return s.store.Rects(dst)
}

// Store returns the live store. Callers must not mutate it.
func (s *Sim) Store() sprites.Store { return s.store }

// Grid returns the broad-phase grid as of the last tick.
func (s *Sim) Grid() *spatial.Grid { return s.motion.Grid() }

// LastStats returns the counts of the last tick.
func (s *Sim) LastStats() systems.StepStats { return s.last }

// Ticks returns the number of ticks run so far.
func (s *Sim) Ticks() int32 { return s.ticks }

// Perf returns the per-phase tick timing collector.
func (s *Sim) Perf() *telemetry.PerfCollector { return s.perf }

// Options returns the options the simulation was created with.
func (s *Sim) Options() Options { return s.opts }
