// Package telemetry provides performance timing, window statistics, budget
// bookmarks and CSV output for the sprite simulation.
package telemetry

// TickCounts is the per-tick input to the Collector.
type TickCounts struct {
	Bounces          int
	Collisions       int
	Dropped          int
	SkippedPairs     int
	OccupiedCells    int
	MaxCellOccupancy int
}

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	grows         int
	shrinks       int
	spawned       int
	layoutChanges int

	ticks        int
	bounces      int
	collisions   int
	dropped      int
	skippedPairs int

	perTickCollisions []float64
	last              TickCounts
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(1)
	if dt > 0 {
		ticksPerWindow = int32(windowDurationSec / float64(dt))
	}
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		perTickCollisions:   make([]float64, 0, ticksPerWindow),
	}
}

// RecordTick adds one tick's motion and collision counts.
func (c *Collector) RecordTick(t TickCounts) {
	c.ticks++
	c.bounces += t.Bounces
	c.collisions += t.Collisions
	c.dropped += t.Dropped
	c.skippedPairs += t.SkippedPairs
	c.perTickCollisions = append(c.perTickCollisions, float64(t.Collisions))
	c.last = t
}

// RecordGrow records a doubling command that added n sprites.
func (c *Collector) RecordGrow(n int) {
	c.grows++
	c.spawned += n
}

// RecordShrink records a halving command.
func (c *Collector) RecordShrink() {
	c.shrinks++
}

// RecordSpawn records n explicitly spawned sprites.
func (c *Collector) RecordSpawn(n int) {
	c.spawned += n
}

// RecordLayoutChange records a runtime layout switch.
func (c *Collector) RecordLayoutChange() {
	c.layoutChanges++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, layout string, sprites int, rssMB float64) WindowStats {
	mean, p10, p50, p90 := ComputeDistribution(c.perTickCollisions)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),
		Layout:          layout,

		Sprites: sprites,

		Grows:         c.grows,
		Shrinks:       c.shrinks,
		Spawned:       c.spawned,
		LayoutChanges: c.layoutChanges,

		Ticks:        c.ticks,
		Bounces:      c.bounces,
		Collisions:   c.collisions,
		Dropped:      c.dropped,
		SkippedPairs: c.skippedPairs,

		CollisionsMean: mean,
		CollisionsP10:  p10,
		CollisionsP50:  p50,
		CollisionsP90:  p90,

		OccupiedCells:    c.last.OccupiedCells,
		MaxCellOccupancy: c.last.MaxCellOccupancy,

		RSSMB: rssMB,
	}

	c.windowStartTick = currentTick
	c.grows, c.shrinks, c.spawned, c.layoutChanges = 0, 0, 0, 0
	c.ticks, c.bounces, c.collisions, c.dropped, c.skippedPairs = 0, 0, 0, 0, 0
	c.perTickCollisions = c.perTickCollisions[:0]

	return stats
}
