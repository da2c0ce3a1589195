package components

import "github.com/lixenwraith/turret/vmath"

// EntityID identifies a projectile or enemy for event correlation and renderers
type EntityID uint64

// ProjectileComponent is a player shot; no TTL, expires by leaving the bounds
type ProjectileComponent struct {
	ID     EntityID
	Pos    vmath.Vec2
	Vel    vmath.Vec2 // px/tick
	Radius float64
	Angle  float64 // Heading at fire time, for renderers
}

// EnemyComponent walks from an edge toward the player
// Vel is fixed at spawn unless homing is enabled
type EnemyComponent struct {
	ID     EntityID
	Pos    vmath.Vec2
	Vel    vmath.Vec2 // px/tick
	Speed  float64    // |Vel|, kept for re-aiming
	Radius float64
	Angle  float64 // Facing, radians
}

// RGB is an 8-bit color carried by particles, renderer-agnostic
type RGB struct {
	R, G, B uint8
}

// ParticleComponent is a death-effect fragment
// Alpha starts at 1 and is non-increasing; pruned at <= 0
type ParticleComponent struct {
	Pos    vmath.Vec2
	Vel    vmath.Vec2
	Radius float64
	Color  RGB
	Alpha  float64
	Age    int // Ticks lived; Alpha is derived from it to avoid accumulated rounding
}
