package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit       // q, Esc, Ctrl+C, screen closed
	IntentResize     // Terminal resize event
	IntentToggleMute // m

	// Session lifecycle
	IntentStart   // Enter, Space
	IntentRestart // r
	IntentPause   // p

	// Mouse
	IntentAim  // Pointer moved; X, Y hold the cell
	IntentFire // Left button pressed; X, Y hold the cell
)

func (t IntentType) String() string {
	switch t {
	case IntentNone:
		return "None"
	case IntentQuit:
		return "Quit"
	case IntentResize:
		return "Resize"
	case IntentToggleMute:
		return "ToggleMute"
	case IntentStart:
		return "Start"
	case IntentRestart:
		return "Restart"
	case IntentPause:
		return "Pause"
	case IntentAim:
		return "Aim"
	case IntentFire:
		return "Fire"
	default:
		return "Unknown"
	}
}

// Intent is one parsed user action
type Intent struct {
	Type IntentType
	X, Y int // Cell coordinates for mouse intents, terminal size for Resize
}
