// Package systems contains the per-tick systems of the sprite simulation.
package systems

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/dvmizew/DataOrientedDesignInGameDev/spatial"
	"github.com/dvmizew/DataOrientedDesignInGameDev/sprites"
	"github.com/dvmizew/DataOrientedDesignInGameDev/telemetry"
)

// Bounds represents the simulation bounds.
type Bounds struct {
	Width, Height float32
}

// PhaseTimer receives phase boundaries. telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// StepStats counts what happened during one Update.
type StepStats struct {
	Bounces          int // axis corrections at the screen edges
	Collisions       int // overlapping pairs whose velocities were swapped
	Dropped          int // sprites that fell outside the grid
	SkippedPairs     int // pairs not tested because of the per-cell cap
	OccupiedCells    int
	MaxCellOccupancy int
}

// MotionSystem integrates motion, reflects sprites off the screen edges and
// resolves same-cell collisions. It owns the broad-phase grid.
type MotionSystem struct {
	bounds  Bounds
	grid    *spatial.Grid
	cellCap int
	timer   PhaseTimer
	stats   StepStats
}

// NewMotionSystem creates a motion system for the given screen.
// cellCap > 0 limits each cell's pair tests to its first cellCap sprites.
func NewMotionSystem(bounds Bounds, cellSize float32, cellCap int) *MotionSystem {
	return &MotionSystem{
		bounds:  bounds,
		grid:    spatial.NewGrid(bounds.Width, bounds.Height, cellSize),
		cellCap: cellCap,
	}
}

// SetPhaseTimer installs a timer notified at the start of every phase.
func (s *MotionSystem) SetPhaseTimer(t PhaseTimer) { s.timer = t }

// SetCellCap changes the per-cell cap. 0 disables it.
func (s *MotionSystem) SetCellCap(cellCap int) { s.cellCap = cellCap }

// CellCap returns the per-cell cap.
func (s *MotionSystem) CellCap() int { return s.cellCap }

// Grid returns the broad-phase grid as rebuilt by the last Update.
func (s *MotionSystem) Grid() *spatial.Grid { return s.grid }

// Update advances every sprite in store by dt seconds.
// dt must be finite and >= 0.
func (s *MotionSystem) Update(store sprites.Store, dt float32) StepStats {
	s.stats = StepStats{}

	switch st := store.(type) {
	case *sprites.Records:
		s.updateRecords(st, dt)
	case *sprites.Fields:
		s.updateFields(st, dt)
	case *sprites.Archetype:
		s.updateArchetype(st, dt)
	default:
		s.updateGeneric(store, dt)
	}

	s.stats.OccupiedCells, s.stats.MaxCellOccupancy = s.grid.Occupancy()
	return s.stats
}

func (s *MotionSystem) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

// candidates applies the per-cell cap and accounts for the pairs it skips.
func (s *MotionSystem) candidates(cell []int32) []int32 {
	n := len(cell)
	if s.cellCap <= 0 || n <= s.cellCap {
		return cell
	}
	c := s.cellCap
	s.stats.SkippedPairs += n*(n-1)/2 - c*(c-1)/2
	return cell[:c]
}

func (s *MotionSystem) updateRecords(r *sprites.Records, dt float32) {
	all := r.Sprites()

	s.phase(telemetry.PhaseIntegrate)
	for i := range all {
		sp := &all[i]
		sp.X += sp.VX * dt
		sp.Y += sp.VY * dt
	}

	s.phase(telemetry.PhaseReflect)
	for i := range all {
		sp := &all[i]
		s.stats.Bounces += bounce(&sp.X, &sp.Y, &sp.VX, &sp.VY, sp.W, sp.H, s.bounds)
	}

	s.phase(telemetry.PhaseGrid)
	s.grid.Clear()
	for i := range all {
		if !s.grid.Insert(int32(i), all[i].X, all[i].Y) {
			s.stats.Dropped++
		}
	}

	s.phase(telemetry.PhaseCollide)
	for _, cell := range s.grid.Cells() {
		cell = s.candidates(cell)
		for i := 0; i < len(cell); i++ {
			a := &all[cell[i]]
			for j := i + 1; j < len(cell); j++ {
				b := &all[cell[j]]
				if overlaps(a.X, a.Y, a.W, a.H, b.X, b.Y, b.W, b.H) {
					a.VX, b.VX = b.VX, a.VX
					a.VY, b.VY = b.VY, a.VY
					s.stats.Collisions++
				}
			}
		}
	}
}

func (s *MotionSystem) updateFields(f *sprites.Fields, dt float32) {
	n := f.Len()
	x, y, vx, vy, w, h := f.X, f.Y, f.VX, f.VY, f.W, f.H

	s.phase(telemetry.PhaseIntegrate)
	if n > 0 {
		// x += dt*vx, y += dt*vy over whole columns
		blas32.Axpy(dt, blas32.Vector{N: n, Inc: 1, Data: vx}, blas32.Vector{N: n, Inc: 1, Data: x})
		blas32.Axpy(dt, blas32.Vector{N: n, Inc: 1, Data: vy}, blas32.Vector{N: n, Inc: 1, Data: y})
	}

	s.phase(telemetry.PhaseReflect)
	for i := 0; i < n; i++ {
		s.stats.Bounces += bounce(&x[i], &y[i], &vx[i], &vy[i], w[i], h[i], s.bounds)
	}

	s.phase(telemetry.PhaseGrid)
	s.grid.Clear()
	for i := 0; i < n; i++ {
		if !s.grid.Insert(int32(i), x[i], y[i]) {
			s.stats.Dropped++
		}
	}

	s.phase(telemetry.PhaseCollide)
	for _, cell := range s.grid.Cells() {
		cell = s.candidates(cell)
		for i := 0; i < len(cell); i++ {
			a := cell[i]
			for j := i + 1; j < len(cell); j++ {
				b := cell[j]
				if overlaps(x[a], y[a], w[a], h[a], x[b], y[b], w[b], h[b]) {
					vx[a], vx[b] = vx[b], vx[a]
					vy[a], vy[b] = vy[b], vy[a]
					s.stats.Collisions++
				}
			}
		}
	}
}

func (s *MotionSystem) updateArchetype(a *sprites.Archetype, dt float32) {
	// Integration and reflection are per-entity, so table order is fine
	s.phase(telemetry.PhaseIntegrate)
	query := a.Filter().Query()
	for query.Next() {
		pos, vel, _ := query.Get()
		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
	}

	s.phase(telemetry.PhaseReflect)
	query = a.Filter().Query()
	for query.Next() {
		pos, vel, ext := query.Get()
		s.stats.Bounces += bounce(&pos.X, &pos.Y, &vel.X, &vel.Y, ext.W, ext.H, s.bounds)
	}

	// Grid and collisions must follow index order for identical results
	entities := a.Entities()
	posMap, velMap, extMap := a.Positions(), a.Velocities(), a.Extents()

	s.phase(telemetry.PhaseGrid)
	s.grid.Clear()
	for i, e := range entities {
		pos := posMap.Get(e)
		if !s.grid.Insert(int32(i), pos.X, pos.Y) {
			s.stats.Dropped++
		}
	}

	s.phase(telemetry.PhaseCollide)
	for _, cell := range s.grid.Cells() {
		cell = s.candidates(cell)
		for i := 0; i < len(cell); i++ {
			ea := entities[cell[i]]
			pa, xa := posMap.Get(ea), extMap.Get(ea)
			for j := i + 1; j < len(cell); j++ {
				eb := entities[cell[j]]
				pb, xb := posMap.Get(eb), extMap.Get(eb)
				if overlaps(pa.X, pa.Y, xa.W, xa.H, pb.X, pb.Y, xb.W, xb.H) {
					va, vb := velMap.Get(ea), velMap.Get(eb)
					*va, *vb = *vb, *va
					s.stats.Collisions++
				}
			}
		}
	}
}

// updateGeneric steps any Store through At/Set. It is the reference path
// for layouts without a dedicated kernel.
func (s *MotionSystem) updateGeneric(store sprites.Store, dt float32) {
	n := store.Len()

	s.phase(telemetry.PhaseIntegrate)
	for i := 0; i < n; i++ {
		sp := store.At(i)
		sp.X += sp.VX * dt
		sp.Y += sp.VY * dt
		store.Set(i, sp)
	}

	s.phase(telemetry.PhaseReflect)
	for i := 0; i < n; i++ {
		sp := store.At(i)
		s.stats.Bounces += bounce(&sp.X, &sp.Y, &sp.VX, &sp.VY, sp.W, sp.H, s.bounds)
		store.Set(i, sp)
	}

	s.phase(telemetry.PhaseGrid)
	s.grid.Clear()
	for i := 0; i < n; i++ {
		sp := store.At(i)
		if !s.grid.Insert(int32(i), sp.X, sp.Y) {
			s.stats.Dropped++
		}
	}

	s.phase(telemetry.PhaseCollide)
	for _, cell := range s.grid.Cells() {
		cell = s.candidates(cell)
		for i := 0; i < len(cell); i++ {
			for j := i + 1; j < len(cell); j++ {
				// Re-read a every pair: an earlier swap may have changed it
				a, b := store.At(int(cell[i])), store.At(int(cell[j]))
				if overlaps(a.X, a.Y, a.W, a.H, b.X, b.Y, b.W, b.H) {
					a.VX, b.VX = b.VX, a.VX
					a.VY, b.VY = b.VY, a.VY
					store.Set(int(cell[i]), a)
					store.Set(int(cell[j]), b)
					s.stats.Collisions++
				}
			}
		}
	}
}

// bounce clamps a sprite into the bounds, checking left, top, right and
// bottom in that order. Velocity on a corrected axis is forced to point away
// from the wall. Returns the number of corrections.
func bounce(x, y, vx, vy *float32, w, h float32, b Bounds) int {
	n := 0
	if *x <= 0 {
		*x = 0
		*vx = abs32(*vx)
		n++
	}
	if *y <= 0 {
		*y = 0
		*vy = abs32(*vy)
		n++
	}
	if *x+w >= b.Width {
		*x = b.Width - w
		*vx = -abs32(*vx)
		n++
	}
	if *y+h >= b.Height {
		*y = b.Height - h
		*vy = -abs32(*vy)
		n++
	}
	return n
}

// overlaps is the strict AABB test; touching edges do not overlap.
func overlaps(ax, ay, aw, ah, bx, by, bw, bh float32) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}

func abs32(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) &^ (1 << 31))
}
