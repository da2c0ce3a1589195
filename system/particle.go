package system

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lixenwraith/turret/components"
	"github.com/lixenwraith/turret/constants"
	"github.com/lixenwraith/turret/engine"
	"github.com/lixenwraith/turret/vmath"
)

// ParticleParams is the burst and aging configuration
type ParticleParams struct {
	BurstCount int
	DecayRate  float64
	Damping    float64
	MaxSpeed   float64
}

// EmitBurst appends count particles at origin with random heading, speed, radius and hue
func EmitBurst(rng *rand.Rand, pool *engine.Pool[components.ParticleComponent], origin vmath.Vec2, p ParticleParams) {
	for i := 0; i < p.BurstCount; i++ {
		angle := rng.Float64() * 2 * math.Pi
		speed := rng.Float64() * p.MaxSpeed
		radius := constants.ParticleMinRadius + rng.Float64()*(constants.ParticleMaxRadius-constants.ParticleMinRadius)

		pool.Append(components.ParticleComponent{
			Pos:    origin,
			Vel:    vmath.V2FromAngle(angle, speed),
			Radius: radius,
			Color:  randomHue(rng),
			Alpha:  1,
		})
	}
}

// randomHue returns a fully random hue at the configured saturation and lightness
func randomHue(rng *rand.Rand) components.RGB {
	c := colorful.Hsl(rng.Float64()*360, constants.ParticleSaturation, constants.ParticleLightness)
	r, g, b := c.Clamped().RGB255()
	return components.RGB{R: r, G: g, B: b}
}

// AgeParticles damps, integrates and fades every live particle, then marks the spent ones
// Returns the number marked
func AgeParticles(pool *engine.Pool[components.ParticleComponent], p ParticleParams) int {
	pool.Each(func(_ int, pt *components.ParticleComponent) {
		pt.Vel = vmath.V2Scale(pt.Vel, p.Damping)
		pt.Pos = vmath.V2Add(pt.Pos, pt.Vel)
		pt.Age++
		pt.Alpha = ParticleAlpha(pt.Age, p.DecayRate)
	})
	return pool.MarkWhere(func(pt *components.ParticleComponent) bool {
		return pt.Alpha <= 0
	})
}

// ParticleAlpha is 1 - age*decay clamped to [0,1]
func ParticleAlpha(age int, decay float64) float64 {
	a := 1 - float64(age)*decay
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
