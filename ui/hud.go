package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	FPS        float64
	FrameTime  time.Duration
	MemoryMB   float64
	Sprites    int
	MaxSprites int
	Layout     string
	CellCap    int
	Tick       int32
}

// HUD renders the performance readout in the top-left corner.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	x, y := int32(10), int32(10)

	r.DrawPanel(x-5, y-5, 260, r.Theme.LineHeight*6+10)

	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.1f", data.FPS))
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%.2f ms", float64(data.FrameTime.Microseconds())/1000))
	y = r.DrawLabelValue(x, y, "Memory", fmt.Sprintf("%.1f MB", data.MemoryMB))
	y = r.DrawLabelValue(x, y, "Sprites", fmt.Sprintf("%d / %d", data.Sprites, data.MaxSprites))

	layout := data.Layout
	if data.CellCap > 0 {
		layout = fmt.Sprintf("%s (cap %d)", layout, data.CellCap)
	}
	y = r.DrawLabelValue(x, y, "Layout", layout)
	r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d", data.Tick))
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PhasePanel shows each step phase's share of the tick.
type PhasePanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPhasePanel creates a phase panel at the given position.
func NewPhasePanel(x, y, width int32) *PhasePanel {
	return &PhasePanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the panel. phases gives the display order.
func (p *PhasePanel) Draw(avgTick time.Duration, phases []string, pct map[string]float64) {
	r := p.renderer
	height := r.Theme.LineHeight*int32(len(phases)+1) + r.Theme.Padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Theme.Padding
	y := p.y + r.Theme.Padding
	y = r.DrawSectionHeader(x, y, fmt.Sprintf("Tick %s", avgTick.Round(time.Microsecond)))
	for _, phase := range phases {
		y = r.DrawPercentBar(x, y, phase, pct[phase], 50, p.width-r.Theme.Padding*2)
	}
}

// Action is a command issued from the HUD buttons.
type Action uint8

const (
	ActionNone Action = iota
	ActionGrow
	ActionShrink
	ActionToggleLayout
	ActionReset
)

// ButtonBar draws the command buttons along the top-right edge.
type ButtonBar struct {
	x, y float32
}

// NewButtonBar creates a button bar whose right edge is at screenWidth.
func NewButtonBar(screenWidth float32) *ButtonBar {
	return &ButtonBar{x: screenWidth - 4*110 - 10, y: 10}
}

// Draw renders the buttons and returns the one clicked this frame.
func (b *ButtonBar) Draw(nextLayout string) Action {
	action := ActionNone
	bounds := rl.Rectangle{X: b.x, Y: b.y, Width: 100, Height: 30}

	if gui.Button(bounds, "Double [Up]") {
		action = ActionGrow
	}
	bounds.X += 110
	if gui.Button(bounds, "Halve [Down]") {
		action = ActionShrink
	}
	bounds.X += 110
	if gui.Button(bounds, "To "+nextLayout) {
		action = ActionToggleLayout
	}
	bounds.X += 110
	if gui.Button(bounds, "Reset [C]") {
		action = ActionReset
	}
	return action
}
