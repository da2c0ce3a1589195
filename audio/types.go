package audio

// Cue identifies a game sound effect
type Cue int

const (
	CueFire     Cue = iota // Projectile launched
	CueKill                // Enemy destroyed
	CueGameOver            // Enemy reached the player
	cueCount
)

func (c Cue) String() string {
	switch c {
	case CueFire:
		return "fire"
	case CueKill:
		return "kill"
	case CueGameOver:
		return "gameover"
	default:
		return "unknown"
	}
}
