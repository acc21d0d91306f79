// Grid preview tool - interactive view of broad-phase cell occupancy with sliders.
//
// Usage: go run ./cmd/gridpreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/dvmizew/DataOrientedDesignInGameDev/config"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sim"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sprites"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewScale = 0.5
	panelX       = 680
)

// GridParams holds the broad-phase parameters being tuned.
type GridParams struct {
	CellSize float32
	Sprites  int
	CellCap  int
	Speed    float32
	Seed     int64
}

func defaultParams(cfg *config.Config) GridParams {
	return GridParams{
		CellSize: cfg.Derived.CellSize32,
		Sprites:  cfg.Population.Initial,
		CellCap:  cfg.CellCapFor(sprites.LayoutFields.String()),
		Speed:    cfg.Derived.Speed32,
		Seed:     12345,
	}
}

func newSim(cfg *config.Config, p GridParams) *sim.Sim {
	opts, err := sim.OptionsFromConfig(cfg, sprites.LayoutFields, p.Seed)
	if err != nil {
		panic(err)
	}
	opts.CellSize = p.CellSize
	opts.Speed = p.Speed
	opts.InitialSprites = p.Sprites
	opts.CellCaps = map[sprites.Layout]int{sprites.LayoutFields: p.CellCap}
	s := sim.New(opts)
	s.SpawnInitial()
	return s
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	rl.InitWindow(windowWidth, windowHeight, "Grid Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams(cfg)
	s := newSim(cfg, params)
	heat, cols, rows := newHeatTexture(s)
	defer func() { rl.UnloadTexture(heat) }()

	var rects []sprites.Rect
	paused := false
	needsRebuild := false

	previewW := cfg.Derived.ScreenW32 * previewScale
	previewH := cfg.Derived.ScreenH32 * previewScale

	for !rl.WindowShouldClose() {
		if needsRebuild {
			s = newSim(cfg, params)
			needsRebuild = false
		}
		if !paused {
			s.Tick(rl.GetFrameTime())
		}

		grid := s.Grid()
		if grid.Cols() != cols || grid.Rows() != rows {
			rl.UnloadTexture(heat)
			heat, cols, rows = newHeatTexture(s)
		}
		updateHeat(heat, s)

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Occupancy heatmap under the sprites
		rl.DrawTexturePro(
			heat,
			rl.Rectangle{X: 0, Y: 0, Width: float32(cols), Height: float32(rows)},
			rl.Rectangle{X: 10, Y: 10, Width: float32(cols) * grid.CellSize() * previewScale, Height: float32(rows) * grid.CellSize() * previewScale},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rects = s.Rects(rects[:0])
		for _, r := range rects {
			rl.DrawRectangleLinesEx(
				rl.Rectangle{X: 10 + r.X*previewScale, Y: 10 + r.Y*previewScale, Width: r.W * previewScale, Height: r.H * previewScale},
				1, rl.Color{R: 30, G: 30, B: 30, A: 120},
			)
		}
		rl.DrawRectangleLines(10, 10, int32(previewW), int32(previewH), rl.DarkGray)

		// Stats
		st := s.LastStats()
		statsY := int32(previewH + 25)
		rl.DrawText(fmt.Sprintf("Grid: %dx%d  Occupied: %d  Max/cell: %d", cols, rows, st.OccupiedCells, st.MaxCellOccupancy), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Collisions: %d  Skipped pairs: %d  Dropped: %d", st.Collisions, st.SkippedPairs, st.Dropped), 15, statsY+20, 16, rl.DarkGray)
		perf := s.Perf().Stats()
		rl.DrawText(fmt.Sprintf("Tick: %s  FPS: %d", perf.AvgTickDuration, rl.GetFPS()), 15, statsY+40, 16, rl.DarkGray)

		// Control panel
		y := float32(10)
		rl.DrawText("Broad-phase Parameters", panelX, int32(y), 20, rl.DarkGray)
		y += 35

		if v := slider(&y, "Cell size", "8", "256", params.CellSize, 8, 256, "%.0f"); float32(int(v)) != params.CellSize {
			params.CellSize = float32(int(v))
			needsRebuild = true
		}
		if v := slider(&y, "Sprites", "100", "20000", float32(params.Sprites), 100, 20000, "%.0f"); int(v) != params.Sprites {
			params.Sprites = int(v)
			needsRebuild = true
		}
		if v := slider(&y, "Cell cap (0 = off)", "0", "64", float32(params.CellCap), 0, 64, "%.0f"); int(v) != params.CellCap {
			params.CellCap = int(v)
			needsRebuild = true
		}
		if v := slider(&y, "Speed", "0", "600", params.Speed, 0, 600, "%.0f"); v != params.Speed {
			params.Speed = v
			needsRebuild = true
		}
		y += 10

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, toggleText(paused, "Resume", "Pause")) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: y, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRebuild = true
		}
		y += 45
		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			needsRebuild = true
		}
		y += 55

		// Output YAML
		rl.DrawText("YAML Config:", panelX, int32(y), 16, rl.DarkGray)
		y += 25
		yaml := configYAML(params)
		rl.DrawText(yaml, panelX, int32(y), 14, rl.Gray)

		rl.DrawText("Press C to copy YAML to clipboard", panelX, windowHeight-30, 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

// slider draws a labelled slider bar and advances y.
func slider(y *float32, label, left, right string, value, minVal, maxVal float32, format string) float32 {
	rl.DrawText(label, panelX, int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: panelX, Y: *y, Width: windowWidth - panelX - 90, Height: 20},
		left, right,
		value, minVal, maxVal,
	)
	rl.DrawText(fmt.Sprintf(format, value), windowWidth-60, int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func configYAML(p GridParams) string {
	return fmt.Sprintf(`physics:
  grid_cell_size: %.0f
sprite:
  speed: %.0f
population:
  initial: %d
collision:
  cell_cap:
    fields: %d`, p.CellSize, p.Speed, p.Sprites, p.CellCap)
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func newHeatTexture(s *sim.Sim) (rl.Texture2D, int, int) {
	g := s.Grid()
	img := rl.GenImageColor(g.Cols(), g.Rows(), rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return tex, g.Cols(), g.Rows()
}

// updateHeat colors each cell by its occupancy relative to the fullest cell.
func updateHeat(texture rl.Texture2D, s *sim.Sim) {
	g := s.Grid()
	_, maxPer := g.Occupancy()
	if maxPer == 0 {
		maxPer = 1
	}

	pixels := make([]color.RGBA, g.Len())
	for i := range pixels {
		v := float32(len(g.Cell(i))) / float32(maxPer)
		// White -> orange -> red
		var r, gr, b uint8
		if v < 0.5 {
			t := v / 0.5
			r = 255
			gr = uint8(255 - t*90)
			b = uint8(255 - t*200)
		} else {
			t := (v - 0.5) / 0.5
			r = uint8(255 - t*55)
			gr = uint8(165 - t*135)
			b = uint8(55 - t*25)
		}
		pixels[i] = color.RGBA{R: r, G: gr, B: b, A: 255}
	}
	rl.UpdateTexture(texture, pixels)
}
