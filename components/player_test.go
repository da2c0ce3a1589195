package components

import (
	"testing"

	"github.com/lixenwraith/turret/vmath"
)

func TestPoseString(t *testing.T) {
	tests := []struct {
		pose     Pose
		expected string
	}{
		{PoseStanding, "Standing"},
		{PoseShooting, "Shooting"},
		{PoseReloading, "Reloading"},
		{Pose(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.pose.String(); got != tt.expected {
				t.Errorf("Pose(%d).String() = %q, want %q", tt.pose, got, tt.expected)
			}
		})
	}
}

func TestPoseSequence(t *testing.T) {
	p := NewPlayer(vmath.Vec2{X: 100, Y: 100}, 20)
	p.Fire(2)

	if p.Pose != PoseShooting {
		t.Fatalf("after Fire pose = %v, want Shooting", p.Pose)
	}

	p.AdvancePose(3)
	if p.Pose != PoseShooting {
		t.Errorf("tick 1 pose = %v, want Shooting", p.Pose)
	}

	p.AdvancePose(3)
	if p.Pose != PoseReloading || p.PoseTicks != 3 {
		t.Errorf("tick 2 pose = %v (%d), want Reloading (3)", p.Pose, p.PoseTicks)
	}

	for i := 0; i < 3; i++ {
		p.AdvancePose(3)
	}
	if p.Pose != PoseStanding {
		t.Errorf("after reload pose = %v, want Standing", p.Pose)
	}

	// Standing is absorbing
	p.AdvancePose(3)
	if p.Pose != PoseStanding {
		t.Errorf("standing advanced to %v", p.Pose)
	}
}

func TestPoseRefireRestartsShooting(t *testing.T) {
	p := NewPlayer(vmath.Vec2{}, 20)
	p.Fire(5)
	p.AdvancePose(10)
	p.AdvancePose(10)
	p.Fire(5)

	if p.Pose != PoseShooting || p.PoseTicks != 5 {
		t.Errorf("refire pose = %v (%d), want Shooting (5)", p.Pose, p.PoseTicks)
	}
}

func TestPoseZeroReloadSkipsToStanding(t *testing.T) {
	p := NewPlayer(vmath.Vec2{}, 20)
	p.Fire(1)
	p.AdvancePose(0)

	if p.Pose != PoseStanding {
		t.Errorf("pose = %v, want Standing", p.Pose)
	}
}
