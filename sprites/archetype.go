package sprites

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/dvmizew/DataOrientedDesignInGameDev/components"
)

// Archetype stores sprites as ark ECS entities with Position, Velocity and
// Extent components. Component columns live in ark's archetype tables; the
// entities slice keeps insertion order so sprites stay index-addressed.
type Archetype struct {
	world *ecs.World

	mapper *ecs.Map3[components.Position, components.Velocity, components.Extent]
	filter *ecs.Filter3[components.Position, components.Velocity, components.Extent]

	// Individual component mappers for lookups
	posMap *ecs.Map1[components.Position]
	velMap *ecs.Map1[components.Velocity]
	extMap *ecs.Map1[components.Extent]

	entities []ecs.Entity
}

// NewArchetype creates an empty ECS-backed store with its own world.
func NewArchetype() *Archetype {
	world := ecs.NewWorld()
	return &Archetype{
		world:    world,
		mapper:   ecs.NewMap3[components.Position, components.Velocity, components.Extent](world),
		filter:   ecs.NewFilter3[components.Position, components.Velocity, components.Extent](world),
		posMap:   ecs.NewMap1[components.Position](world),
		velMap:   ecs.NewMap1[components.Velocity](world),
		extMap:   ecs.NewMap1[components.Extent](world),
		entities: make([]ecs.Entity, 0, 1024),
	}
}

func (a *Archetype) Layout() Layout { return LayoutArchetype }

func (a *Archetype) Len() int { return len(a.entities) }

func (a *Archetype) Add(s Sprite) {
	pos := components.Position{X: s.X, Y: s.Y}
	vel := components.Velocity{X: s.VX, Y: s.VY}
	ext := components.Extent{W: s.W, H: s.H}
	a.entities = append(a.entities, a.mapper.NewEntity(&pos, &vel, &ext))
}

func (a *Archetype) At(i int) Sprite {
	e := a.entities[i]
	pos, vel, ext := a.posMap.Get(e), a.velMap.Get(e), a.extMap.Get(e)
	return Sprite{X: pos.X, Y: pos.Y, W: ext.W, H: ext.H, VX: vel.X, VY: vel.Y}
}

func (a *Archetype) Set(i int, s Sprite) {
	e := a.entities[i]
	*a.posMap.Get(e) = components.Position{X: s.X, Y: s.Y}
	*a.velMap.Get(e) = components.Velocity{X: s.VX, Y: s.VY}
	*a.extMap.Get(e) = components.Extent{W: s.W, H: s.H}
}

func (a *Archetype) RemoveLastHalf() {
	if n := len(a.entities); n > 1 {
		a.truncate(n / 2)
	}
}

func (a *Archetype) Clear() { a.truncate(0) }

func (a *Archetype) truncate(n int) {
	for _, e := range a.entities[n:] {
		a.world.RemoveEntity(e)
	}
	a.entities = a.entities[:n]
}

func (a *Archetype) Rects(dst []Rect) []Rect {
	for _, e := range a.entities {
		pos, ext := a.posMap.Get(e), a.extMap.Get(e)
		dst = append(dst, Rect{X: pos.X, Y: pos.Y, W: ext.W, H: ext.H})
	}
	return dst
}

// Entities returns the entities in index order.
func (a *Archetype) Entities() []ecs.Entity { return a.entities }

// Filter returns the filter matching every sprite entity. Its query visits
// entities in table order, not index order.
func (a *Archetype) Filter() *ecs.Filter3[components.Position, components.Velocity, components.Extent] {
	return a.filter
}

// Positions returns the position mapper.
func (a *Archetype) Positions() *ecs.Map1[components.Position] { return a.posMap }

// Velocities returns the velocity mapper.
func (a *Archetype) Velocities() *ecs.Map1[components.Velocity] { return a.velMap }

// Extents returns the extent mapper.
func (a *Archetype) Extents() *ecs.Map1[components.Extent] { return a.extMap }
