package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/dvmizew/DataOrientedDesignInGameDev/ui"
)

// handleInput processes keyboard input and returns the requested command.
// Commands are edge-triggered: holding a key acts once.
func (g *Game) handleInput() ui.Action {
	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		return ui.ActionGrow
	case rl.IsKeyPressed(rl.KeyDown):
		return ui.ActionShrink
	case rl.IsKeyPressed(rl.KeySpace):
		return ui.ActionToggleLayout
	case rl.IsKeyPressed(rl.KeyC):
		return ui.ActionReset
	}
	return ui.ActionNone
}
