package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/turret/audio"
	"github.com/lixenwraith/turret/config"
	"github.com/lixenwraith/turret/constants"
	"github.com/lixenwraith/turret/core"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/game"
	"github.com/lixenwraith/turret/input"
	"github.com/lixenwraith/turret/network"
	"github.com/lixenwraith/turret/render"
	"github.com/lixenwraith/turret/status"
)

var (
	configFlag   = flag.String("config", "", "Path to a YAML config file")
	debugFlag    = flag.Bool("debug", false, "Write logs to logs/turret.log")
	spectateFlag = flag.String("spectate", "", "Serve spectator frames on this address, e.g. :8080")
	muteFlag     = flag.Bool("mute", false, "Disable audio")
	seedFlag     = flag.Int64("seed", 0, "Random seed, 0 picks one from the clock")
)

func main() {
	flag.Parse()

	if logFile := setupLogging(*debugFlag); logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "turret: %v\n", err)
		os.Exit(1)
	}
	if *spectateFlag != "" {
		cfg.SpectatorAddr = *spectateFlag
	}
	if *muteFlag {
		cfg.AudioEnabled = false
	}
	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "turret: failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "turret: failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	core.RegisterCrashScreen(screen)
	defer core.RegisterCrashScreen(nil)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	a := newApp(cfg, screen, seed)
	defer a.close()

	// tcell PollEvent returns nil once the screen is finalized
	events := make(chan tcell.Event, constants.InputQueueSize)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	})

	a.run(events)
	log.Printf("turret: exit, score %d", a.score())
}

// app wires the game to the terminal, speaker and spectator server
type app struct {
	screen     tcell.Screen
	machine    *input.Machine
	renderer   *render.TerminalRenderer
	sound      *audio.SoundManager
	spectators *network.Service
	game       *game.Game
}

func newApp(cfg *config.Config, screen tcell.Screen, seed int64) *app {
	reg := status.NewRegistry()
	a := &app{
		screen:   screen,
		machine:  input.NewMachine(),
		renderer: render.NewTerminalRenderer(screen, cfg.CellWidth, cfg.CellHeight, cfg.MuzzleOffset, reg),
		sound:    audio.NewSoundManager(audio.LoadAudioConfig(cfg.AudioEnabled)),
	}

	if err := a.sound.Initialize(); err != nil {
		log.Printf("turret: audio unavailable, continuing muted: %v", err)
	}

	sinks := engine.RenderSinks{a.renderer}
	if cfg.SpectatorAddr != "" {
		netCfg := network.DefaultConfig()
		netCfg.Address = cfg.SpectatorAddr
		a.spectators = network.NewService(netCfg, reg, a.session)
		sinks = append(sinks, a.spectators)
	}

	cols, rows := screen.Size()
	a.game = game.New(cfg, a.renderer.PlayBounds(cols, rows), seed, reg, game.Sinks{
		Render:   sinks,
		Score:    a.sound,
		GameOver: a.sound,
		Fire:     a.sound,
	})

	if a.spectators != nil {
		if err := a.spectators.Start(); err != nil {
			log.Printf("turret: spectator server disabled: %v", err)
		}
	}

	a.game.RenderNow()
	return a
}

func (a *app) session() string {
	return a.game.Session()
}

func (a *app) score() int {
	var s int
	w := a.game.World()
	w.RunSafe(func() { s = w.Score })
	return s
}

// run draws frames and dispatches input until quit or the event source closes
func (a *app) run(events <-chan tcell.Event) {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			intent := a.machine.Process(ev)
			if intent == nil {
				continue
			}
			if !a.handle(intent) {
				return
			}
		case snap := <-a.renderer.Frames():
			a.renderer.Draw(snap)
		}
	}
}

// handle applies one intent; returns false on quit
func (a *app) handle(intent *input.Intent) bool {
	switch intent.Type {
	case input.IntentQuit:
		return false
	case input.IntentResize:
		// Release events can be lost across a resize; a held button must not swallow the next click
		a.machine.Reset()
		a.screen.Sync()
		a.game.Resize(a.renderer.PlayBounds(intent.X, intent.Y))
		a.game.RenderNow()
	case input.IntentToggleMute:
		log.Printf("turret: muted=%v", a.sound.ToggleMute())
	case input.IntentStart:
		a.game.Start()
	case input.IntentRestart:
		if a.game.State() != engine.StateIdle {
			a.game.Restart()
		}
	case input.IntentPause:
		a.game.TogglePause()
	case input.IntentAim:
		a.game.Aim(a.renderer.CellToWorld(intent.X, intent.Y))
	case input.IntentFire:
		a.game.Fire(a.renderer.CellToWorld(intent.X, intent.Y))
	}
	return true
}

// close stops the session before its sinks go away
func (a *app) close() {
	a.game.Stop()
	if a.spectators != nil {
		a.spectators.Stop()
	}
	a.sound.Cleanup()
}
