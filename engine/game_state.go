package engine

// GameState is the session lifecycle phase
type GameState int32

const (
	StateIdle GameState = iota
	StateRunning
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// CanTransition reports whether from -> to is a legal lifecycle edge
// Idle->Running (start), Running->GameOver (contact), GameOver->Running (restart),
// and any state -> Idle (shutdown)
func CanTransition(from, to GameState) bool {
	switch to {
	case StateIdle:
		return true
	case StateRunning:
		return from == StateIdle || from == StateGameOver
	case StateGameOver:
		return from == StateRunning
	default:
		return false
	}
}
