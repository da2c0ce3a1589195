package system

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/config"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/status"
	"github.com/lixenwraith/turret/vmath"
)

// StepResult summarizes one frame for the caller's sinks
type StepResult struct {
	Kills      int
	ScoreDelta int
	Terminal   bool
}

// Simulation applies queued input and advances the world one frame at a time
// All methods run on the driver goroutine with the world lock held
type Simulation struct {
	cfg       *config.Config
	rng       *rand.Rand
	particles ParticleParams

	// Reusable buffer to avoid allocation in hot path
	killBuf []KillEvent

	statShots       *atomic.Int64
	statKills       *atomic.Int64
	statScore       *atomic.Int64
	statSpawned     *atomic.Int64
	statProjectiles *atomic.Int64
	statEnemies     *atomic.Int64
	statParticles   *atomic.Int64
	statStepMicros  *atomic.Int64
	statStepAvg     *status.AtomicFloat
	statStale       *atomic.Int64
}

// NewSimulation creates a simulation; rng drives particle bursts only
func NewSimulation(cfg *config.Config, rng *rand.Rand, reg *status.Registry) *Simulation {
	return &Simulation{
		cfg: cfg,
		rng: rng,
		particles: ParticleParams{
			BurstCount: cfg.ParticleBurstCount,
			DecayRate:  cfg.ParticleDecayRate,
			Damping:    cfg.ParticleDamping,
			MaxSpeed:   cfg.ParticleMaxSpeed,
		},
		statShots:       reg.Ints.Get(status.MetricShots),
		statKills:       reg.Ints.Get(status.MetricKills),
		statScore:       reg.Ints.Get(status.MetricScore),
		statSpawned:     reg.Ints.Get(status.MetricSpawned),
		statProjectiles: reg.Ints.Get(status.MetricProjectiles),
		statEnemies:     reg.Ints.Get(status.MetricEnemies),
		statParticles:   reg.Ints.Get(status.MetricParticles),
		statStepMicros:  reg.Ints.Get(status.MetricStepMicros),
		statStepAvg:     reg.Floats.Get(status.MetricStepAvg),
		statStale:       reg.Ints.Get(status.MetricStaleEvents),
	}
}

// Init resets session counters for a new game
func (s *Simulation) Init() {
	s.statShots.Store(0)
	s.statKills.Store(0)
	s.statScore.Store(0)
	s.statSpawned.Store(0)
	s.statProjectiles.Store(0)
	s.statEnemies.Store(0)
	s.statParticles.Store(0)
}

// Apply folds queued events into the world in queue order, returns shots fired
// Events stamped for an earlier session are dropped
// Non-finite angles or positions panic; producers must not emit them
func (s *Simulation) Apply(w *engine.World, events []engine.GameEvent) (shots int) {
	for _, ev := range events {
		if ev.Stale(w.Generation) {
			s.statStale.Add(1)
			continue
		}
		switch ev.Type {
		case engine.EventAim:
			if p, ok := ev.Payload.(engine.AimPayload); ok {
				s.aim(w, p.Angle)
			}
		case engine.EventFire:
			if p, ok := ev.Payload.(engine.FirePayload); ok {
				s.Fire(w, p.Angle)
				shots++
			}
		case engine.EventSpawnEnemy:
			if p, ok := ev.Payload.(engine.SpawnPayload); ok {
				s.AddEnemy(w, p.Enemy)
			}
		}
	}
	return shots
}

func (s *Simulation) aim(w *engine.World, angle float64) {
	requirePlayer(w)
	requireFinite("aim angle", angle)
	w.Player.Angle = angle
}

// Fire turns the player to angle and launches one projectile from the muzzle
func (s *Simulation) Fire(w *engine.World, angle float64) {
	requirePlayer(w)
	requireFinite("fire angle", angle)

	p := w.Player
	p.Angle = angle
	w.Projectiles.Append(components.ProjectileComponent{
		ID:     w.NextID(),
		Pos:    vmath.V2Add(p.Pos, vmath.V2FromAngle(angle, s.cfg.MuzzleOffset)),
		Vel:    vmath.V2FromAngle(angle, s.cfg.ProjectileSpeed),
		Radius: s.cfg.ProjectileCollisionRadius,
		Angle:  angle,
	})
	p.Fire(s.cfg.ShootPoseTicks)
	s.statShots.Add(1)
}

// AddEnemy assigns an id and appends e to the enemy pool
func (s *Simulation) AddEnemy(w *engine.World, e components.EnemyComponent) components.EntityID {
	if !vmath.V2IsFinite(e.Pos) || !vmath.V2IsFinite(e.Vel) {
		panic(fmt.Sprintf("enemy with non-finite state: %+v", e))
	}
	e.ID = w.NextID()
	w.Enemies.Append(e)
	s.statSpawned.Add(1)
	return e.ID
}

// Step advances exactly one frame
//
// Order: move projectiles and enemies, age particles, resolve collisions and
// apply kills, detect player contact, prune, compact, advance the player pose.
// Calling Step without a player or outside Running panics
func (s *Simulation) Step(w *engine.World) StepResult {
	requirePlayer(w)
	if st := w.State(); st != engine.StateRunning {
		panic(fmt.Sprintf("step in state %v", st))
	}

	start := time.Now()
	var res StepResult

	// 1. Movement
	w.Projectiles.Each(func(_ int, p *components.ProjectileComponent) {
		p.Pos = vmath.V2Add(p.Pos, p.Vel)
	})
	target := w.Player.Pos
	homing := s.cfg.EnemyHoming
	w.Enemies.Each(func(_ int, e *components.EnemyComponent) {
		if homing {
			e.Vel = vmath.V2Toward(e.Pos, target, e.Speed)
			if e.Vel != (vmath.Vec2{}) {
				e.Angle = vmath.V2Angle(e.Vel)
			}
		}
		e.Pos = vmath.V2Add(e.Pos, e.Vel)
	})

	// 2. Particle aging; spent particles are marked here and removed with the rest
	AgeParticles(&w.Particles, s.particles)

	// 3. Kills
	cr := ResolveCollisions(&w.Projectiles, &w.Enemies, w.Player, s.cfg.ContactThreshold(), s.killBuf)
	s.killBuf = cr.Kills
	for _, k := range cr.Kills {
		w.Enemies.Mark(k.EnemyIndex)
		w.Projectiles.Mark(k.ProjectileIndex)
		w.Score += s.cfg.KillReward
		res.ScoreDelta += s.cfg.KillReward
		EmitBurst(s.rng, &w.Particles, k.Impact, s.particles)
	}
	res.Kills = len(cr.Kills)

	// 4. Terminal
	if cr.Terminal {
		w.SetState(engine.StateGameOver)
		res.Terminal = true
	}

	// 5. Prune
	margin := s.cfg.ProjectileLifetimeBounds
	bounds := w.Bounds
	w.Projectiles.MarkWhere(func(p *components.ProjectileComponent) bool {
		return bounds.Outside(p.Pos, margin)
	})
	w.Compact()

	w.Player.AdvancePose(s.cfg.ReloadPoseTicks)
	w.Tick++

	s.statKills.Add(int64(res.Kills))
	s.statScore.Store(int64(w.Score))
	s.statProjectiles.Store(int64(w.Projectiles.Len()))
	s.statEnemies.Store(int64(w.Enemies.Len()))
	s.statParticles.Store(int64(w.Particles.Len()))
	micros := time.Since(start).Microseconds()
	s.statStepMicros.Store(micros)
	s.statStepAvg.Smooth(float64(micros), 0.1)

	return res
}

func requirePlayer(w *engine.World) {
	if w.Player == nil {
		panic("simulation: world has no player")
	}
}

func requireFinite(what string, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("simulation: non-finite %s %v", what, v))
	}
}
