package input

import "github.com/gdamore/tcell/v2"

// Machine parses tcell events into semantic Intents
// Tracks the mouse button mask so a held button fires once
type Machine struct {
	keyTable *KeyTable
	buttons  tcell.ButtonMask

	lastX, lastY int
}

// NewMachine creates a new input machine with the default key table
func NewMachine() *Machine {
	return &Machine{
		keyTable: DefaultKeyTable(),
		lastX:    -1,
		lastY:    -1,
	}
}

// Reset clears mouse tracking state; the next press fires and the next move aims
func (m *Machine) Reset() {
	m.buttons = tcell.ButtonNone
	m.lastX, m.lastY = -1, -1
}

// Process parses a terminal event and returns an Intent
// Returns nil for events with no meaning to the game
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch e := ev.(type) {
	case *tcell.EventResize:
		w, h := e.Size()
		return &Intent{Type: IntentResize, X: w, Y: h}
	case *tcell.EventKey:
		return m.processKey(e)
	case *tcell.EventMouse:
		return m.processMouse(e)
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	if ev.Key() == tcell.KeyRune {
		if t, ok := m.keyTable.Runes[ev.Rune()]; ok {
			return &Intent{Type: t}
		}
		return nil
	}
	if t, ok := m.keyTable.SpecialKeys[ev.Key()]; ok {
		return &Intent{Type: t}
	}
	return nil
}

func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	x, y := ev.Position()
	buttons := ev.Buttons()
	pressed := buttons&tcell.Button1 != 0 && m.buttons&tcell.Button1 == 0
	m.buttons = buttons

	if pressed {
		m.lastX, m.lastY = x, y
		return &Intent{Type: IntentFire, X: x, Y: y}
	}

	if x == m.lastX && y == m.lastY {
		return nil
	}
	m.lastX, m.lastY = x, y
	return &Intent{Type: IntentAim, X: x, Y: y}
}
