// Package game drives the sprite simulation from a raylib window or headless loop.
package game

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/dvmizew/DataOrientedDesignInGameDev/config"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sim"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sprites"
	"github.com/dvmizew/DataOrientedDesignInGameDev/telemetry"
	"github.com/dvmizew/DataOrientedDesignInGameDev/ui"
)

// Game holds the complete driver state.
type Game struct {
	cfg *config.Config
	sim *sim.Sim

	headless       bool
	paused         bool
	stepsPerUpdate int
	pending        ui.Action

	// Telemetry
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	memory           *telemetry.MemorySampler
	fps              *telemetry.FPSCounter
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
	memoryMB         float64

	// Rendering (nil in headless mode)
	hud        *ui.HUD
	phasePanel *ui.PhasePanel
	buttons    *ui.ButtonBar
	texture    rl.Texture2D
	hasTexture bool
	color      rl.Color
	rects      []sprites.Rect
	lastFrame  time.Time
	frames     int

	width, height float32
}

// NewGameWithOptions creates a game with the initial population spawned.
// In graphical mode the raylib window must already be open.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	layoutName := opts.Layout
	if layoutName == "" {
		layoutName = cfg.Layout
	}
	layout, err := sprites.ParseLayout(layoutName)
	if err != nil {
		return nil, err
	}

	simOpts, err := sim.OptionsFromConfig(cfg, layout, opts.Seed)
	if err != nil {
		return nil, err
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:              cfg,
		sim:              sim.New(simOpts),
		headless:         opts.Headless,
		stepsPerUpdate:   steps,
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		bookmarkDetector: telemetry.NewBookmarkDetector(10, frameBudget(cfg)),
		fps:              telemetry.NewFPSCounter(cfg.Telemetry.FPSSamples),
		logStats:         opts.LogStats,
		statsCallback:    opts.StatsCallback,
		width:            cfg.Derived.ScreenW32,
		height:           cfg.Derived.ScreenH32,
	}

	g.memory, err = telemetry.NewMemorySampler()
	if err != nil {
		slog.Warn("memory sampling disabled", "error", err)
	}

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("setting up output: %w", err)
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if !g.headless {
		g.setupRendering()
	}

	spawned := g.sim.SpawnInitial()
	g.collector.RecordSpawn(spawned)
	slog.Info("simulation ready",
		"layout", layout.String(),
		"sprites", spawned,
		"cell_size", simOpts.CellSize,
		"sprite_w", simOpts.SpriteWidth,
		"sprite_h", simOpts.SpriteHeight,
		"seed", opts.Seed,
	)

	return g, nil
}

// frameBudget is the per-tick time available at the target frame rate.
func frameBudget(cfg *config.Config) time.Duration {
	fps := cfg.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}

// Update processes input and advances the simulation by the last frame time.
func (g *Game) Update() {
	action := g.handleInput()
	if action == ui.ActionNone {
		action = g.pending
	}
	g.pending = ui.ActionNone
	g.apply(action)

	if g.paused {
		return
	}

	dt := rl.GetFrameTime()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(dt)
	}
}

// UpdateHeadless advances the simulation with the fixed physics step.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step(g.cfg.Derived.DT32)
	}
}

func (g *Game) step(dt float32) {
	st := g.sim.Tick(dt)
	g.collector.RecordTick(telemetry.TickCounts{
		Bounces:          st.Bounces,
		Collisions:       st.Collisions,
		Dropped:          st.Dropped,
		SkippedPairs:     st.SkippedPairs,
		OccupiedCells:    st.OccupiedCells,
		MaxCellOccupancy: st.MaxCellOccupancy,
	})
	g.flushTelemetry()
}

// apply executes a population or layout command.
func (g *Game) apply(action ui.Action) {
	before := g.sim.Count()

	switch action {
	case ui.ActionNone:
		return
	case ui.ActionGrow:
		added := g.sim.Grow()
		g.collector.RecordGrow(added)
	case ui.ActionShrink:
		g.sim.Shrink()
		g.collector.RecordShrink()
	case ui.ActionToggleLayout:
		g.sim.SwitchLayout(g.sim.Layout().Next())
		g.collector.RecordLayoutChange()
		g.fps.Reset()
	case ui.ActionReset:
		g.sim.Clear()
		g.collector.RecordSpawn(g.sim.SpawnInitial())
	}

	g.logCommand(action, before)
}

// Unload releases resources and closes output files.
func (g *Game) Unload() {
	if g.hasTexture {
		rl.UnloadTexture(g.texture)
		g.hasTexture = false
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.sim.Ticks() }

// Sim returns the underlying simulation.
func (g *Game) Sim() *sim.Sim { return g.sim }
