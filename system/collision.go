package system

import (
	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/vmath"
)

// KillEvent is one resolved projectile-enemy pair
// Indices refer to pool positions and stay valid until the pools are compacted
type KillEvent struct {
	EnemyIndex      int
	ProjectileIndex int
	EnemyID         components.EntityID
	ProjectileID    components.EntityID
	Impact          vmath.Vec2
}

// CollisionResult is the outcome of one resolver pass; it never mutates the pools
type CollisionResult struct {
	Kills        []KillEvent
	Terminal     bool
	ContactIndex int // Enemy that reached the player, -1 if none
}

// ResolveCollisions pairs projectiles with enemies and tests enemies against the player
//
// Enemies are visited in pool order; each takes the first live projectile, in pool
// order, that overlaps it and has not been claimed by an earlier enemy this pass.
// Every enemy not killed this pass is then tested against the player, the first one
// within contactThreshold (inclusive) sets Terminal.
//
// kills is reused as backing storage for the returned Kills slice
func ResolveCollisions(
	projectiles *engine.Pool[components.ProjectileComponent],
	enemies *engine.Pool[components.EnemyComponent],
	player *components.PlayerComponent,
	contactThreshold float64,
	kills []KillEvent,
) CollisionResult {
	res := CollisionResult{Kills: kills[:0], ContactIndex: -1}

	var claimed []bool
	if projectiles.Len() > 0 {
		claimed = make([]bool, projectiles.Len())
	}

	thresholdSq := contactThreshold * contactThreshold

	for ei := 0; ei < enemies.Len(); ei++ {
		if !enemies.Live(ei) {
			continue
		}
		enemy := enemies.At(ei)

		killed := false
		for pi := 0; pi < projectiles.Len(); pi++ {
			if claimed[pi] || !projectiles.Live(pi) {
				continue
			}
			proj := projectiles.At(pi)
			if !vmath.CirclesOverlap(proj.Pos, proj.Radius, enemy.Pos, enemy.Radius) {
				continue
			}

			claimed[pi] = true
			killed = true
			res.Kills = append(res.Kills, KillEvent{
				EnemyIndex:      ei,
				ProjectileIndex: pi,
				EnemyID:         enemy.ID,
				ProjectileID:    proj.ID,
				Impact:          enemy.Pos,
			})
			break
		}

		if killed || res.Terminal || player == nil {
			continue
		}
		if vmath.V2DistSq(enemy.Pos, player.Pos) <= thresholdSq {
			res.Terminal = true
			res.ContactIndex = ei
		}
	}

	return res
}
