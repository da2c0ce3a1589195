package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/turret/config"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/input"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() error = %v", err)
	}
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)

	cfg := config.Default()
	cfg.AudioEnabled = false
	cfg.EnemySpawnIntervalMs = 3600 * 1000
	cfg.TickRate = 500

	a := newApp(cfg, screen, 1)
	t.Cleanup(a.close)
	return a
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestAppQuit(t *testing.T) {
	a := newTestApp(t)
	if a.handle(&input.Intent{Type: input.IntentQuit}) {
		t.Error("quit should end the loop")
	}
}

func TestAppStartAndFire(t *testing.T) {
	a := newTestApp(t)
	if !a.handle(&input.Intent{Type: input.IntentStart}) {
		t.Fatal("start should keep the loop running")
	}
	if a.game.State() != engine.StateRunning {
		t.Fatalf("state = %v, want Running", a.game.State())
	}

	a.handle(&input.Intent{Type: input.IntentFire, X: 0, Y: 0})

	w := a.game.World()
	waitFor(t, func() bool {
		n := 0
		w.RunSafe(func() { n = w.Projectiles.Len() })
		return n > 0
	})
}

func TestAppRestartIgnoredWhileIdle(t *testing.T) {
	a := newTestApp(t)
	a.handle(&input.Intent{Type: input.IntentRestart})
	if a.game.State() != engine.StateIdle {
		t.Errorf("state = %v, want Idle", a.game.State())
	}
}

func TestAppToggleMute(t *testing.T) {
	a := newTestApp(t)
	a.handle(&input.Intent{Type: input.IntentToggleMute})
	if !a.sound.Muted() {
		t.Error("expected muted after toggle")
	}
}

func TestAppResize(t *testing.T) {
	a := newTestApp(t)
	a.handle(&input.Intent{Type: input.IntentResize, X: 20, Y: 11})

	var b engine.Bounds
	w := a.game.World()
	w.RunSafe(func() { b = w.Bounds })
	want := a.renderer.PlayBounds(20, 11)
	if b != want {
		t.Errorf("bounds = %+v, want %+v", b, want)
	}
}

func TestAppRunExitsOnClosedEvents(t *testing.T) {
	a := newTestApp(t)
	events := make(chan tcell.Event)
	done := make(chan struct{})
	go func() {
		a.run(events)
		close(done)
	}()
	close(events)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not exit after events closed")
	}
}

func TestAppResizeReleasesHeldButton(t *testing.T) {
	a := newTestApp(t)
	press := tcell.NewEventMouse(5, 5, tcell.Button1, tcell.ModNone)

	if got := a.machine.Process(press); got == nil || got.Type != input.IntentFire {
		t.Fatalf("first press = %+v, want Fire", got)
	}
	if got := a.machine.Process(press); got != nil && got.Type == input.IntentFire {
		t.Fatal("held button fired twice")
	}

	a.handle(&input.Intent{Type: input.IntentResize, X: 30, Y: 15})

	if got := a.machine.Process(press); got == nil || got.Type != input.IntentFire {
		t.Errorf("press after resize = %+v, want Fire", got)
	}
}
