package game

import (
	"log"
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/lixenwraith/turret/config"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/status"
	"github.com/lixenwraith/turret/system"
	"github.com/lixenwraith/turret/vmath"
)

// Sinks are the collaborators notified by a session; nil fields are replaced by no-ops
type Sinks struct {
	Render   engine.RenderSink
	Score    engine.ScoreSink
	GameOver engine.GameOverSink
	Fire     engine.FireSink
}

func (s *Sinks) fill() {
	var nop engine.NopSinks
	if s.Render == nil {
		s.Render = nop
	}
	if s.Score == nil {
		s.Score = nop
	}
	if s.GameOver == nil {
		s.GameOver = nop
	}
	if s.Fire == nil {
		s.Fire = nop
	}
}

// Game owns the world and the two periodic tasks driving it
//
// Lifecycle calls (Start, Restart, Stop, Resize) are serialized by mu and may come
// from any goroutine. Input calls (Aim, Fire) only enqueue events. The driver
// goroutine is the sole consumer of the queue and the sole writer of the world
type Game struct {
	cfg   *config.Config
	reg   *status.Registry
	sinks Sinks

	world   *engine.World
	queue   *engine.EventQueue
	clock   *engine.PausableClock
	sim     *system.Simulation
	spawner *system.SpawnScheduler

	mu      sync.Mutex
	driver  *engine.ClockScheduler
	bounds  engine.Bounds
	session string

	statState   *status.AtomicString
	statSession *status.AtomicString
	statRuns    *atomic.Int64
}

// New creates an idle game; seed feeds the spawn and particle generators
func New(cfg *config.Config, bounds engine.Bounds, seed int64, reg *status.Registry, sinks Sinks) *Game {
	sinks.fill()

	world := engine.NewWorld(bounds)
	queue := engine.NewEventQueue()
	clock := engine.NewPausableClock()

	g := &Game{
		cfg:         cfg,
		reg:         reg,
		sinks:       sinks,
		world:       world,
		queue:       queue,
		clock:       clock,
		sim:         system.NewSimulation(cfg, rand.New(rand.NewSource(seed)), reg),
		spawner:     system.NewSpawnScheduler(world, queue, clock, cfg, rand.New(rand.NewSource(seed+1)), reg),
		bounds:      bounds,
		statState:   reg.Strings.Get(status.MetricState),
		statSession: reg.Strings.Get(status.MetricSession),
		statRuns:    reg.Ints.Get(status.MetricRuns),
	}
	g.statState.Store(engine.StateIdle.String())
	return g
}

// World exposes the world for read-only inspection under its lock
func (g *Game) World() *engine.World {
	return g.world
}

// State returns the current lifecycle phase
func (g *Game) State() engine.GameState {
	return g.world.State()
}

// Session returns the id of the current or last session, empty before the first start
// Lock-free, safe to call from sinks on the driver goroutine
func (g *Game) Session() string {
	return g.statSession.Load()
}

// Paused reports whether game time is frozen
func (g *Game) Paused() bool {
	return g.clock.IsPaused()
}

// Start begins a session from Idle or GameOver; no-op while Running
func (g *Game) Start() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.world.State() == engine.StateRunning {
		return false
	}
	g.begin()
	return true
}

// Restart ends whatever is running and begins a fresh session
func (g *Game) Restart() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.begin()
}

// Stop cancels the driver and spawn scheduler together and returns to Idle
// Idempotent; leaves no goroutine behind
func (g *Game) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.halt()
	g.world.RunSafe(func() {
		g.world.SetState(engine.StateIdle)
	})
	g.statState.Store(engine.StateIdle.String())
}

// Resize records new play bounds for the next session
// A running session keeps its bounds for pruning and spawns; an idle or
// finished world adopts them at once so its screen matches the terminal
func (g *Game) Resize(bounds engine.Bounds) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.bounds = bounds
	g.world.RunSafe(func() {
		if g.world.State() != engine.StateRunning {
			g.world.Bounds = bounds
		}
	})
}

// TogglePause freezes or resumes game time while Running, returns the paused state
func (g *Game) TogglePause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.world.State() != engine.StateRunning {
		return g.clock.IsPaused()
	}
	if g.clock.IsPaused() {
		g.clock.Resume()
		log.Printf("game: resumed session %s", g.session)
	} else {
		g.clock.Pause()
		log.Printf("game: paused session %s", g.session)
	}
	g.renderNow()
	return g.clock.IsPaused()
}

// Aim queues a facing change toward a world point
func (g *Game) Aim(target vmath.Vec2) {
	if angle, gen, ok := g.angleTo(target); ok {
		g.queue.Push(engine.GameEvent{Type: engine.EventAim, Generation: gen, Payload: engine.AimPayload{Angle: angle}})
	}
}

// Fire queues one shot toward a world point
func (g *Game) Fire(target vmath.Vec2) {
	if angle, gen, ok := g.angleTo(target); ok {
		g.queue.Push(engine.GameEvent{Type: engine.EventFire, Generation: gen, Payload: engine.FirePayload{Angle: angle}})
	}
}

// angleTo resolves a pointer position to a facing angle and the session
// generation it was aimed in; input outside Running, while paused or
// coincident with the player is dropped
func (g *Game) angleTo(target vmath.Vec2) (float64, uint64, bool) {
	if g.clock.IsPaused() || !vmath.V2IsFinite(target) {
		return 0, 0, false
	}

	var (
		center vmath.Vec2
		gen    uint64
		ok     bool
	)
	g.world.RunSafe(func() {
		if g.world.State() == engine.StateRunning && g.world.Player != nil {
			center = g.world.Player.Pos
			gen = g.world.Generation
			ok = true
		}
	})
	if !ok {
		return 0, 0, false
	}

	dir := vmath.V2Sub(target, center)
	if dir == (vmath.Vec2{}) {
		return 0, 0, false
	}
	return vmath.V2Angle(dir), gen, true
}

// RenderNow pushes the current frame to the render sink outside the driver cadence
// Used for Idle and paused screens where no ticks run
func (g *Game) RenderNow() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.renderNow()
}

func (g *Game) renderNow() {
	var snap engine.Snapshot
	g.world.RunSafe(func() {
		snap = g.world.Snapshot()
	})
	snap.Paused = g.clock.IsPaused()
	g.sinks.Render.Render(snap)
}

// halt stops both periodic tasks and waits for them; caller holds mu
func (g *Game) halt() {
	if g.driver != nil {
		g.driver.Stop()
		g.driver = nil
	}
	g.spawner.Stop()
}

// begin tears down any previous session and starts a new one; caller holds mu
func (g *Game) begin() {
	g.halt()

	if n := g.queue.Drain(); n > 0 {
		log.Printf("game: dropped %d stale events", n)
	}
	g.clock.Resume()

	g.world.RunSafe(func() {
		// Through Idle so a restart mid-session is a legal edge
		g.world.SetState(engine.StateIdle)
		g.world.Reset(g.bounds, g.cfg.PlayerCollisionRadius)
		g.world.SetState(engine.StateRunning)
	})
	g.sim.Init()

	g.session = uuid.NewString()
	g.statSession.Store(g.session)
	g.statState.Store(engine.StateRunning.String())
	g.statRuns.Add(1)
	log.Printf("game: session %s started, bounds %.0fx%.0f", g.session, g.bounds.Width, g.bounds.Height)

	g.sinks.GameOver.Reset()
	g.sinks.Score.ScoreChanged(0)

	g.driver = engine.NewClockScheduler(g.clock, g.cfg.TickInterval(), g.reg, g.tick)
	g.driver.Start()
	g.spawner.Start()
}

// tick runs on the driver goroutine; returning false ends the driver
func (g *Game) tick() bool {
	var (
		snap    engine.Snapshot
		res     system.StepResult
		shots   int
		running = true
	)

	g.world.RunSafe(func() {
		if g.world.State() != engine.StateRunning {
			running = false
			return
		}
		shots = g.sim.Apply(g.world, g.queue.Consume())
		res = g.sim.Step(g.world)
		snap = g.world.Snapshot()
	})
	if !running {
		return false
	}

	if shots > 0 {
		g.sinks.Fire.Fired(shots)
	}
	if res.ScoreDelta > 0 {
		g.sinks.Score.ScoreChanged(snap.Score)
	}
	g.sinks.Render.Render(snap)

	if res.Terminal {
		// Spawner stops with the driver; the world lock is not held here
		g.spawner.Stop()
		g.statState.Store(engine.StateGameOver.String())
		log.Printf("game: session %s over at tick %d, score %d", g.Session(), snap.Tick, snap.Score)
		g.sinks.GameOver.GameOver(snap.Score)
		return false
	}
	return true
}
