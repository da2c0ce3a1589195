package render

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/constants"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/status"
	"github.com/lixenwraith/turret/vmath"
)

// TerminalRenderer draws snapshots onto a tcell screen
// Render is called from the driver goroutine and never blocks: frames go through
// a one-slot mailbox that keeps only the newest. Run drains the mailbox on the UI side
type TerminalRenderer struct {
	screen tcell.Screen
	reg    *status.Registry

	cellWidth  float64
	cellHeight float64
	muzzle     float64

	frames chan engine.Snapshot

	statDropped *atomic.Int64
	statDrawn   *atomic.Int64
}

// NewTerminalRenderer creates a renderer mapping world pixels to cells of the given size
func NewTerminalRenderer(screen tcell.Screen, cellWidth, cellHeight, muzzle float64, reg *status.Registry) *TerminalRenderer {
	return &TerminalRenderer{
		screen:      screen,
		reg:         reg,
		cellWidth:   cellWidth,
		cellHeight:  cellHeight,
		muzzle:      muzzle,
		frames:      make(chan engine.Snapshot, constants.RenderQueueSize),
		statDropped: reg.Ints.Get("render.dropped"),
		statDrawn:   reg.Ints.Get("render.drawn"),
	}
}

// Render hands a snapshot to the UI side, replacing any undrawn frame
func (r *TerminalRenderer) Render(snap engine.Snapshot) {
	for {
		select {
		case r.frames <- snap:
			return
		default:
		}
		// Mailbox full: discard the stale frame and retry
		select {
		case <-r.frames:
			r.statDropped.Add(1)
		default:
		}
	}
}

// Frames exposes the mailbox for select loops on the UI goroutine
func (r *TerminalRenderer) Frames() <-chan engine.Snapshot {
	return r.frames
}

// PlayBounds returns the world bounds covered by a screen of the given size,
// excluding the status bar row
func (r *TerminalRenderer) PlayBounds(cols, rows int) engine.Bounds {
	if rows > 1 {
		rows--
	}
	return engine.Bounds{
		Width:  float64(cols) * r.cellWidth,
		Height: float64(rows) * r.cellHeight,
	}
}

// CellToWorld returns the world point at the center of a cell
func (r *TerminalRenderer) CellToWorld(x, y int) vmath.Vec2 {
	return vmath.Vec2{
		X: (float64(x) + 0.5) * r.cellWidth,
		Y: (float64(y) + 0.5) * r.cellHeight,
	}
}

// worldToCell maps a world point to a cell
func (r *TerminalRenderer) worldToCell(p vmath.Vec2) (int, int) {
	return int(math.Floor(p.X / r.cellWidth)), int(math.Floor(p.Y / r.cellHeight))
}

// Draw renders one frame and shows it; runs on the UI goroutine
func (r *TerminalRenderer) Draw(snap engine.Snapshot) {
	width, height := r.screen.Size()
	bg := tcell.StyleDefault.Background(ToTcell(RgbBackground))
	r.screen.Fill(' ', bg)

	playRows := height - 1

	// Particles first so live entities stay on top
	for _, p := range snap.Particles {
		c := Blend(RgbBackground, p.Color, p.Alpha)
		glyph := '·'
		if p.Radius >= 2 {
			glyph = '*'
		}
		r.plot(p.Pos, glyph, bg.Foreground(ToTcell(c)), width, playRows)
	}

	for _, e := range snap.Enemies {
		r.drawDisc(e.Pos, e.Radius, '▓', bg.Foreground(ToTcell(RgbEnemy)), width, playRows)
		r.plot(e.Pos, enemyGlyph(e.Angle), bg.Foreground(ToTcell(RgbEnemyEdge)).Background(ToTcell(RgbEnemy)), width, playRows)
	}

	for _, p := range snap.Projectiles {
		r.plot(p.Pos, '•', bg.Foreground(ToTcell(RgbProjectile)), width, playRows)
	}

	if snap.Player != nil {
		r.drawPlayer(snap.Player, bg, width, playRows)
	}

	r.drawStatusBar(snap, width, height)
	r.drawOverlay(snap, width, playRows)

	r.screen.Show()
	r.statDrawn.Add(1)
}

// plot sets a single cell if the point is on screen
func (r *TerminalRenderer) plot(p vmath.Vec2, ch rune, style tcell.Style, width, rows int) {
	x, y := r.worldToCell(p)
	if x < 0 || y < 0 || x >= width || y >= rows {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// drawDisc fills every cell whose center lies inside the circle
func (r *TerminalRenderer) drawDisc(center vmath.Vec2, radius float64, ch rune, style tcell.Style, width, rows int) {
	minX, minY := r.worldToCell(vmath.Vec2{X: center.X - radius, Y: center.Y - radius})
	maxX, maxY := r.worldToCell(vmath.Vec2{X: center.X + radius, Y: center.Y + radius})
	rSq := radius * radius

	for y := max(minY, 0); y <= min(maxY, rows-1); y++ {
		for x := max(minX, 0); x <= min(maxX, width-1); x++ {
			if vmath.V2DistSq(r.CellToWorld(x, y), center) <= rSq {
				r.screen.SetContent(x, y, ch, nil, style)
			}
		}
	}
}

func (r *TerminalRenderer) drawPlayer(p *components.PlayerComponent, bg tcell.Style, width, rows int) {
	body := RgbPlayer
	switch p.Pose {
	case components.PoseShooting:
		body = RgbPlayerFire
	case components.PoseReloading:
		body = RgbPlayerLoad
	}
	r.drawDisc(p.Pos, p.Radius, '█', bg.Foreground(ToTcell(body)), width, rows)

	// Barrel from the body edge to the muzzle
	barrel := bg.Foreground(ToTcell(RgbBarrel))
	glyph := barrelGlyph(p.Angle)
	step := math.Min(r.cellWidth, r.cellHeight) / 2
	for d := p.Radius; d <= r.muzzle; d += step {
		r.plot(vmath.V2Add(p.Pos, vmath.V2FromAngle(p.Angle, d)), glyph, barrel, width, rows)
	}
}

// barrelGlyph picks a line character closest to the aim angle (screen y grows down)
func barrelGlyph(angle float64) rune {
	oct := int(math.Round(angle/(math.Pi/4))) & 3
	switch oct {
	case 0:
		return '─'
	case 1:
		return '╲'
	case 2:
		return '│'
	default:
		return '╱'
	}
}

// enemyGlyph is an arrow showing heading
func enemyGlyph(angle float64) rune {
	arrows := [...]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}
	idx := int(math.Round(angle/(math.Pi/4))) % 8
	if idx < 0 {
		idx += 8
	}
	return arrows[idx]
}

func (r *TerminalRenderer) drawStatusBar(snap engine.Snapshot, width, height int) {
	if height < 1 {
		return
	}
	bg := RgbStatusBg
	switch {
	case snap.State == engine.StateGameOver:
		bg = RgbStatusOver
	case snap.Paused:
		bg = RgbStatusPause
	}
	style := tcell.StyleDefault.Foreground(ToTcell(RgbStatusText)).Background(ToTcell(bg))

	state := snap.State.String()
	if snap.Paused {
		state = "Paused"
	}
	text := fmt.Sprintf(" SCORE %d | %s | tick %d | enemies %d | shots %d | particles %d ",
		snap.Score, state, snap.Tick, len(snap.Enemies), len(snap.Projectiles), len(snap.Particles))
	// Kills appear once a simulation tracks them
	if r.reg != nil {
		if kills, ok := r.reg.Ints.Lookup(status.MetricKills); ok {
			text += fmt.Sprintf("| kills %d ", kills.Load())
		}
	}

	y := height - 1
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
	drawText(r.screen, 0, y, width, text, style)
}

func (r *TerminalRenderer) drawOverlay(snap engine.Snapshot, width, rows int) {
	var lines []string
	switch {
	case snap.State == engine.StateIdle:
		lines = []string{"T U R R E T", "", "mouse aims, click fires", "Enter to start, q to quit"}
	case snap.State == engine.StateGameOver:
		lines = []string{"GAME OVER", fmt.Sprintf("score %d", snap.Score), "", "r to restart, q to quit"}
	case snap.Paused:
		lines = []string{"PAUSED", "p to resume"}
	default:
		return
	}

	style := tcell.StyleDefault.Foreground(ToTcell(RgbOverlayText)).Background(ToTcell(RgbBackground)).Bold(true)
	top := rows/2 - len(lines)/2
	for i, line := range lines {
		x := (width - len([]rune(line))) / 2
		drawText(r.screen, max(x, 0), top+i, width, line, style)
	}
}

// drawText writes s starting at (x,y), clipped to width
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	for _, ch := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x++
	}
}
