package components

import "github.com/lixenwraith/turret/vmath"

// Pose is the player's firing animation state
type Pose uint8

const (
	PoseStanding Pose = iota
	PoseShooting
	PoseReloading
)

func (p Pose) String() string {
	switch p {
	case PoseStanding:
		return "Standing"
	case PoseShooting:
		return "Shooting"
	case PoseReloading:
		return "Reloading"
	default:
		return "Unknown"
	}
}

// PlayerComponent is the stationary turret at the play-field center
// Position never changes after creation; Angle tracks the pointer
type PlayerComponent struct {
	Pos    vmath.Vec2
	Angle  float64 // Facing, radians
	Radius float64

	// Pose state machine, advanced once per tick
	Pose      Pose
	PoseTicks int // Ticks remaining in current pose (0 for Standing)
}

// NewPlayer creates a standing player at pos
func NewPlayer(pos vmath.Vec2, radius float64) *PlayerComponent {
	return &PlayerComponent{
		Pos:    pos,
		Radius: radius,
		Pose:   PoseStanding,
	}
}

// Fire enters Shooting, restarting the sequence if already mid-animation
func (p *PlayerComponent) Fire(shootTicks int) {
	p.Pose = PoseShooting
	p.PoseTicks = shootTicks
}

// AdvancePose steps the Shooting -> Reloading -> Standing sequence by one tick
// A zero-length phase is skipped within the same tick
func (p *PlayerComponent) AdvancePose(reloadTicks int) {
	if p.Pose == PoseStanding {
		return
	}

	if p.PoseTicks > 0 {
		p.PoseTicks--
	}
	if p.PoseTicks > 0 {
		return
	}

	switch p.Pose {
	case PoseShooting:
		if reloadTicks > 0 {
			p.Pose = PoseReloading
			p.PoseTicks = reloadTicks
			return
		}
		p.Pose = PoseStanding
	case PoseReloading:
		p.Pose = PoseStanding
	}
}
