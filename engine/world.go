package engine

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/vmath"
)

// Bounds is the visible play area in world pixels, origin top-left
type Bounds struct {
	Width, Height float64
}

// Center returns the midpoint of the play area
func (b Bounds) Center() vmath.Vec2 {
	return vmath.Vec2{X: b.Width / 2, Y: b.Height / 2}
}

// Outside reports whether p lies beyond the bounds by more than margin on any side
func (b Bounds) Outside(p vmath.Vec2, margin float64) bool {
	return p.X < -margin || p.X > b.Width+margin || p.Y < -margin || p.Y > b.Height+margin
}

// World is the entity pool plus session state for one game
// Mutated only by the driver goroutine under RunSafe; other goroutines reach it
// through the EventQueue or Snapshot
type World struct {
	updateMutex sync.Mutex

	Bounds Bounds
	Player *components.PlayerComponent

	Projectiles Pool[components.ProjectileComponent]
	Enemies     Pool[components.EnemyComponent]
	Particles   Pool[components.ParticleComponent]

	Score int
	Tick  uint64

	// Generation increases on every Reset; queued events stamped with an older
	// generation belong to a finished session
	Generation uint64

	state  atomic.Int32 // GameState, readable without the lock
	nextID components.EntityID
}

// NewWorld creates an idle world with no player
func NewWorld(bounds Bounds) *World {
	return &World{Bounds: bounds}
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// State returns the lifecycle phase
func (w *World) State() GameState {
	return GameState(w.state.Load())
}

// SetState moves the lifecycle to s, panics on an illegal edge
func (w *World) SetState(s GameState) {
	from := w.State()
	if !CanTransition(from, s) {
		panic(fmt.Sprintf("illegal game state transition %v -> %v", from, s))
	}
	w.state.Store(int32(s))
}

// NextID returns a fresh entity id, unique within the world's lifetime
func (w *World) NextID() components.EntityID {
	w.nextID++
	return w.nextID
}

// Reset clears all pools, zeroes score and tick, and places a fresh player
// at the center of bounds; caller holds the lock
func (w *World) Reset(bounds Bounds, playerRadius float64) {
	w.Bounds = bounds
	w.Projectiles.Reset()
	w.Enemies.Reset()
	w.Particles.Reset()
	w.Score = 0
	w.Tick = 0
	w.Generation++
	w.Player = components.NewPlayer(bounds.Center(), playerRadius)
}

// Compact removes every entity marked during the frame
func (w *World) Compact() {
	w.Projectiles.Compact()
	w.Enemies.Compact()
	w.Particles.Compact()
}

// Snapshot copies the renderable state; caller holds the lock
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:        w.Tick,
		State:       w.State(),
		Score:       w.Score,
		Bounds:      w.Bounds,
		Projectiles: w.Projectiles.Snapshot(),
		Enemies:     w.Enemies.Snapshot(),
		Particles:   w.Particles.Snapshot(),
	}
	if w.Player != nil {
		p := *w.Player
		snap.Player = &p
	}
	return snap
}
