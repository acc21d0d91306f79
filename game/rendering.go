package game

import (
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/dvmizew/DataOrientedDesignInGameDev/telemetry"
	"github.com/dvmizew/DataOrientedDesignInGameDev/ui"
)

const controlsLegend = "[Up] double  [Down] halve  [Space] layout  [C] reset  [P] pause  [</>] speed  [Esc] quit"

// memorySampleFrames is how often the HUD memory line is refreshed.
const memorySampleFrames = 30

func (g *Game) setupRendering() {
	g.hud = ui.NewHUD()
	g.phasePanel = ui.NewPhasePanel(10, 150, 260)
	g.buttons = ui.NewButtonBar(g.width)

	c := g.cfg.Render.Color
	g.color = rl.Color{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: uint8(c[3])}

	if path := g.cfg.Render.Texture; path != "" {
		tex := rl.LoadTexture(path)
		if tex.ID == 0 {
			slog.Warn("sprite texture not loaded, drawing rectangles", "path", path)
			return
		}
		g.texture = tex
		g.hasTexture = true
	}
}

// Draw renders the game.
func (g *Game) Draw() {
	g.recordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.drawSprites()

	perf := g.sim.Perf().Stats()
	g.hud.Draw(ui.HUDData{
		FPS:        g.fps.FPS(),
		FrameTime:  g.fps.FrameTime(),
		MemoryMB:   g.memoryMB,
		Sprites:    g.sim.Count(),
		MaxSprites: g.cfg.Population.Max,
		Layout:     g.sim.Layout().String(),
		CellCap:    g.cfg.CellCapFor(g.sim.Layout().String()),
		Tick:       g.sim.Ticks(),
	})
	g.phasePanel.Draw(perf.AvgTickDuration, telemetry.Phases, perf.PhasePct)

	if a := g.buttons.Draw(g.sim.Layout().Next().String()); a != ui.ActionNone {
		g.pending = a
	}
	if g.paused {
		rl.DrawText("PAUSED", int32(g.width)/2-40, 10, 20, rl.Yellow)
	}
	g.hud.DrawControls(int32(g.height), controlsLegend)

	rl.EndDrawing()
}

func (g *Game) recordFrame() {
	now := time.Now()
	if !g.lastFrame.IsZero() {
		g.fps.Add(now.Sub(g.lastFrame))
	}
	g.lastFrame = now
	g.sim.Perf().RecordFrame()

	if g.frames%memorySampleFrames == 0 {
		g.sampleMemory()
	}
	g.frames++
}

func (g *Game) sampleMemory() {
	if g.memory == nil {
		return
	}
	mb, err := g.memory.RSSMB()
	if err != nil {
		slog.Debug("memory sample failed", "error", err)
	}
	g.memoryMB = mb
}

// drawSprites renders every sprite as a textured quad or a filled rectangle.
func (g *Game) drawSprites() {
	g.rects = g.sim.Rects(g.rects[:0])

	if g.hasTexture {
		src := rl.Rectangle{Width: float32(g.texture.Width), Height: float32(g.texture.Height)}
		for _, r := range g.rects {
			dst := rl.Rectangle{X: r.X, Y: r.Y, Width: r.W, Height: r.H}
			rl.DrawTexturePro(g.texture, src, dst, rl.Vector2{}, 0, g.color)
		}
		return
	}

	for _, r := range g.rects {
		rl.DrawRectangleV(rl.Vector2{X: r.X, Y: r.Y}, rl.Vector2{X: r.W, Y: r.H}, g.color)
	}
}
