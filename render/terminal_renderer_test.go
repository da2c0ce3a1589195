package render

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/status"
	"github.com/lixenwraith/turret/vmath"
)

func newTestRenderer(t *testing.T) (*TerminalRenderer, tcell.SimulationScreen, *status.Registry) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Failed to init simulation screen: %v", err)
	}
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)

	reg := status.NewRegistry()
	return NewTerminalRenderer(screen, 8, 16, 40, reg), screen, reg
}

func rowText(s tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		ch, _, _, _ := s.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		b.WriteString(rowText(s, y, w))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestRenderNeverBlocks(t *testing.T) {
	r, _, reg := newTestRenderer(t)

	for i := uint64(1); i <= 5; i++ {
		r.Render(engine.Snapshot{Tick: i})
	}

	select {
	case snap := <-r.Frames():
		if snap.Tick != 5 {
			t.Errorf("mailbox tick = %d, want newest (5)", snap.Tick)
		}
	default:
		t.Fatal("mailbox empty")
	}
	if got := reg.Ints.Get("render.dropped").Load(); got != 4 {
		t.Errorf("dropped = %d, want 4", got)
	}
}

func TestDrawMailboxFrame(t *testing.T) {
	r, screen, reg := newTestRenderer(t)

	r.Render(engine.Snapshot{State: engine.StateIdle})
	select {
	case snap := <-r.Frames():
		r.Draw(snap)
	case <-time.After(time.Second):
		t.Fatal("no frame in mailbox")
	}

	if reg.Ints.Get("render.drawn").Load() != 1 {
		t.Errorf("drawn = %d, want 1", reg.Ints.Get("render.drawn").Load())
	}
	if !strings.Contains(screenText(screen), "T U R R E T") {
		t.Error("idle title not drawn")
	}
}

func TestStatusBarShowsKillsOnceTracked(t *testing.T) {
	r, screen, reg := newTestRenderer(t)
	screen.SetSize(160, 20)

	r.Draw(engine.Snapshot{State: engine.StateRunning})
	if bar := rowText(screen, 19, 160); strings.Contains(bar, "kills") {
		t.Errorf("untracked kills shown: %q", bar)
	}
	if _, ok := reg.Ints.Lookup(status.MetricKills); ok {
		t.Error("drawing registered the kills metric")
	}

	reg.Ints.Get(status.MetricKills).Store(7)
	r.Draw(engine.Snapshot{State: engine.StateRunning})
	if bar := rowText(screen, 19, 160); !strings.Contains(bar, "kills 7") {
		t.Errorf("status bar = %q, want kills 7", bar)
	}
}

func TestDrawRunningFrame(t *testing.T) {
	r, screen, _ := newTestRenderer(t)
	bounds := r.PlayBounds(40, 20)

	player := components.NewPlayer(bounds.Center(), 20)
	snap := engine.Snapshot{
		Tick:   42,
		State:  engine.StateRunning,
		Score:  300,
		Bounds: bounds,
		Player: player,
		Enemies: []components.EnemyComponent{
			{Pos: vmath.Vec2{X: 40, Y: 40}, Radius: 10},
		},
		Projectiles: []components.ProjectileComponent{
			{Pos: vmath.Vec2{X: 300, Y: 280}, Radius: 5},
		},
		Particles: []components.ParticleComponent{
			{Pos: vmath.Vec2{X: 4, Y: 290}, Radius: 1, Color: RGB{R: 255, G: 0, B: 0}, Alpha: 0.5},
		},
	}
	r.Draw(snap)

	bar := rowText(screen, 19, 40)
	if !strings.Contains(bar, "SCORE 300") || !strings.Contains(bar, "Running") {
		t.Errorf("status bar = %q", bar)
	}

	tests := []struct {
		name string
		x, y int
		want rune
	}{
		{"player body", 20, 9, '█'},
		{"barrel", 24, 9, '─'},
		{"enemy heading", 5, 2, '→'},
		{"projectile", 37, 17, '•'},
		{"particle", 0, 18, '·'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, _, _, _ := screen.GetContent(tt.x, tt.y)
			if ch != tt.want {
				t.Errorf("cell (%d,%d) = %q, want %q\n%s", tt.x, tt.y, ch, tt.want, screenText(screen))
			}
		})
	}
}

func TestDrawOverlays(t *testing.T) {
	tests := []struct {
		name string
		snap engine.Snapshot
		want string
	}{
		{"idle", engine.Snapshot{State: engine.StateIdle}, "Enter to start"},
		{"game over", engine.Snapshot{State: engine.StateGameOver, Score: 700}, "score 700"},
		{"paused", engine.Snapshot{State: engine.StateRunning, Paused: true}, "PAUSED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, screen, _ := newTestRenderer(t)
			r.Draw(tt.snap)
			if text := screenText(screen); !strings.Contains(text, tt.want) {
				t.Errorf("screen missing %q:\n%s", tt.want, text)
			}
		})
	}
}

func TestCoordinateMapping(t *testing.T) {
	r, _, _ := newTestRenderer(t)

	b := r.PlayBounds(100, 31)
	if b.Width != 800 || b.Height != 480 {
		t.Errorf("PlayBounds = %+v, want 800x480", b)
	}

	p := r.CellToWorld(3, 2)
	if p != (vmath.Vec2{X: 28, Y: 40}) {
		t.Errorf("CellToWorld(3,2) = %v, want (28,40)", p)
	}
	if x, y := r.worldToCell(p); x != 3 || y != 2 {
		t.Errorf("round trip = (%d,%d), want (3,2)", x, y)
	}
}

func TestGlyphs(t *testing.T) {
	if barrelGlyph(0) != '─' || barrelGlyph(1.5707963) != '│' {
		t.Error("barrel glyph mismatch on axes")
	}
	if enemyGlyph(3.14159265) != '←' || enemyGlyph(-1.5707963) != '↑' {
		t.Error("enemy glyph mismatch")
	}
}
