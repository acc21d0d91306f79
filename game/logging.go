package game

import (
	"log/slog"

	"github.com/dvmizew/DataOrientedDesignInGameDev/ui"
)

var actionNames = map[ui.Action]string{
	ui.ActionGrow:         "grow",
	ui.ActionShrink:       "shrink",
	ui.ActionToggleLayout: "toggle_layout",
	ui.ActionReset:        "reset",
}

// logCommand logs a population or layout command and its effect.
func (g *Game) logCommand(action ui.Action, before int) {
	slog.Info("command",
		"action", actionNames[action],
		"tick", g.sim.Ticks(),
		"layout", g.sim.Layout().String(),
		"before", before,
		"after", g.sim.Count(),
	)
}
