package constants

// Gameplay defaults, overridable through config
const (
	EnemySpawnIntervalMs     = 1000
	EnemySpeed               = 0.8 // px/tick
	ProjectileSpeed          = 6.0 // px/tick
	ProjectileLifetimeBounds = 50.0
	KillReward               = 100

	PlayerCollisionRadius     = 20.0
	ProjectileCollisionRadius = 5.0
	EnemyCollisionRadius      = 25.0

	// SpawnEdgeOffset is the distance beyond the visible edge where enemies appear
	SpawnEdgeOffset = 80.0

	// MuzzleOffset is the distance from player center where projectiles appear
	MuzzleOffset = 40.0
)

// Particle defaults
const (
	ParticleBurstCount = 12
	ParticleDecayRate  = 0.01
	ParticleDamping    = 0.98
	ParticleMaxSpeed   = 4.0 // px/tick, per axis
	ParticleMinRadius  = 1.0
	ParticleMaxRadius  = 3.0

	// ParticleSaturation/Lightness are HSL parameters for burst colors
	ParticleSaturation = 0.5
	ParticleLightness  = 0.5
)

// Player pose timing in ticks (200ms shoot, 500ms reload at 60Hz)
const (
	ShootPoseTicks  = 12
	ReloadPoseTicks = 30
)

// Terminal cell size in world pixels
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)
