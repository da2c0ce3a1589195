package system

import (
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/config"
	"github.com/lixenwraith/turret/core"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/status"
	"github.com/lixenwraith/turret/vmath"
)

// Edge is one side of the play area
type Edge int

const (
	EdgeTop Edge = iota
	EdgeRight
	EdgeBottom
	EdgeLeft
)

// NewEnemyAtEdge places an enemy offset px outside a random edge, aimed at target
// The position along the edge is uniform; heading is fixed from this instant
func NewEnemyAtEdge(rng *rand.Rand, bounds engine.Bounds, target vmath.Vec2, speed, radius, offset float64) components.EnemyComponent {
	var pos vmath.Vec2
	switch Edge(rng.Intn(4)) {
	case EdgeTop:
		pos = vmath.Vec2{X: rng.Float64() * bounds.Width, Y: -offset}
	case EdgeRight:
		pos = vmath.Vec2{X: bounds.Width + offset, Y: rng.Float64() * bounds.Height}
	case EdgeBottom:
		pos = vmath.Vec2{X: rng.Float64() * bounds.Width, Y: bounds.Height + offset}
	case EdgeLeft:
		pos = vmath.Vec2{X: -offset, Y: rng.Float64() * bounds.Height}
	}

	vel := vmath.V2Toward(pos, target, speed)
	return components.EnemyComponent{
		Pos:    pos,
		Vel:    vel,
		Speed:  speed,
		Radius: radius,
		Angle:  vmath.V2Angle(vel),
	}
}

// SpawnScheduler emits one EventSpawnEnemy per interval of wall-clock time
// Runs in its own goroutine and never touches the pools directly; the driver applies
// the queued descriptor. Start/Stop are idempotent and at most one timer goroutine
// exists per scheduler. Emission is suspended while the clock is paused
type SpawnScheduler struct {
	world *engine.World
	queue *engine.EventQueue
	clock *engine.PausableClock
	rng   *rand.Rand

	interval time.Duration
	speed    float64
	radius   float64
	offset   float64

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	statTimers *atomic.Int64
}

// NewSpawnScheduler creates a stopped scheduler; rng is owned by it from here on
func NewSpawnScheduler(world *engine.World, queue *engine.EventQueue, clock *engine.PausableClock, cfg *config.Config, rng *rand.Rand, reg *status.Registry) *SpawnScheduler {
	return &SpawnScheduler{
		world:      world,
		queue:      queue,
		clock:      clock,
		rng:        rng,
		interval:   cfg.SpawnInterval(),
		speed:      cfg.EnemySpeed,
		radius:     cfg.EnemyCollisionRadius,
		offset:     cfg.SpawnOffset(),
		statTimers: reg.Ints.Get(status.MetricSpawnTimers),
	}
}

// Start launches the timer goroutine unless one is already running
func (s *SpawnScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.statTimers.Add(1)
	s.wg.Add(1)

	stop := s.stopChan
	core.Go(func() { s.loop(stop) })
}

// Stop halts the timer goroutine and waits for it to exit
// Must not be called while holding the world lock
func (s *SpawnScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
}

// IsRunning reports whether the timer goroutine is active
func (s *SpawnScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *SpawnScheduler) loop(stop <-chan struct{}) {
	defer func() {
		s.statTimers.Add(-1)
		s.wg.Done()
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if s.clock.IsPaused() {
				continue
			}
			s.emit()
		}
	}
}

// emit reads the current target under the world lock and queues one enemy
func (s *SpawnScheduler) emit() {
	var (
		bounds engine.Bounds
		target vmath.Vec2
		gen    uint64
		ok     bool
	)
	s.world.RunSafe(func() {
		if s.world.Player == nil || s.world.State() != engine.StateRunning {
			return
		}
		bounds = s.world.Bounds
		target = s.world.Player.Pos
		gen = s.world.Generation
		ok = true
	})
	if !ok {
		return
	}

	enemy := NewEnemyAtEdge(s.rng, bounds, target, s.speed, s.radius, s.offset)
	if !vmath.V2IsFinite(enemy.Pos) || !vmath.V2IsFinite(enemy.Vel) {
		log.Printf("spawn: discarded non-finite enemy %+v", enemy)
		return
	}
	s.queue.Push(engine.GameEvent{
		Type:       engine.EventSpawnEnemy,
		Generation: gen,
		Payload:    engine.SpawnPayload{Enemy: enemy},
	})
}
