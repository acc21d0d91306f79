package game

import (
	"github.com/dvmizew/DataOrientedDesignInGameDev/config"
	"github.com/dvmizew/DataOrientedDesignInGameDev/telemetry"
)

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	Seed           int64
	Layout         string // empty = config layout
	LogStats       bool
	StatsWindowSec float64 // 0 = config telemetry.stats_window
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}
