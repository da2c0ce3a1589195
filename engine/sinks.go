package engine

import "github.com/lixenwraith/turret/components"

// Snapshot is an immutable copy of one frame handed to render sinks
type Snapshot struct {
	Tick        uint64
	State       GameState
	Paused      bool
	Score       int
	Bounds      Bounds
	Player      *components.PlayerComponent
	Projectiles []components.ProjectileComponent
	Enemies     []components.EnemyComponent
	Particles   []components.ParticleComponent
}

// RenderSink receives one snapshot per frame and must not block the driver
type RenderSink interface {
	Render(snap Snapshot)
}

// ScoreSink receives the score after every change, including the reset to 0
type ScoreSink interface {
	ScoreChanged(score int)
}

// GameOverSink is told once per Running->GameOver transition and on every restart
type GameOverSink interface {
	GameOver(score int)
	Reset()
}

// FireSink is told how many shots were fired in a frame, after the world lock is released
type FireSink interface {
	Fired(shots int)
}

// RenderSinks fans a snapshot out to several sinks in order
type RenderSinks []RenderSink

func (rs RenderSinks) Render(snap Snapshot) {
	for _, s := range rs {
		s.Render(snap)
	}
}

// NopSinks discards every notification
type NopSinks struct{}

func (NopSinks) Render(Snapshot)  {}
func (NopSinks) ScoreChanged(int) {}
func (NopSinks) GameOver(int)     {}
func (NopSinks) Reset()           {}
func (NopSinks) Fired(int)        {}
