package status

import "sync/atomic"

// Metric keys written by the engine and systems
const (
	MetricTicks       = "engine.ticks"
	MetricLoops       = "engine.loops"  // Live driver goroutines, must stay <= 1
	MetricSpawnTimers = "spawn.timers"  // Live spawn scheduler goroutines, must stay <= 1
	MetricSpawned     = "spawn.enemies" // Enemies produced this session
	MetricShots       = "game.shots"
	MetricKills       = "game.kills"
	MetricScore       = "game.score"
	MetricProjectiles = "pool.projectiles"
	MetricEnemies     = "pool.enemies"
	MetricParticles   = "pool.particles"
	MetricStepMicros  = "engine.step_us"
	MetricStepAvg     = "engine.step_avg_us" // Float, moving average of MetricStepMicros
	MetricState       = "game.state"
	MetricSession     = "game.session"
	MetricRuns        = "game.runs"          // Sessions started since launch
	MetricStaleEvents = "engine.stale_events" // Queued events dropped after a restart
)

// Registry is the central metrics facade
// Systems cache pointers during init; update loops write directly to atomics
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Snapshot copies every metric into a plain map for serialization
func (r *Registry) Snapshot() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Floats.Range(func(k string, v *AtomicFloat) { out[k] = v.Get() })
	r.Strings.Range(func(k string, v *AtomicString) { out[k] = v.Load() })
	return out
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}
