package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/turret/constants"
)

// ErrInvalid is wrapped by every Validate failure
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable of the simulation and its collaborators
// Field names map 1:1 to YAML keys and TURRET_* environment variables
type Config struct {
	TickRate int `yaml:"tickRate"`

	EnemySpawnIntervalMs     int     `yaml:"enemySpawnIntervalMs"`
	EnemySpeed               float64 `yaml:"enemySpeed"`
	EnemyHoming              bool    `yaml:"enemyHoming"`
	ProjectileSpeed          float64 `yaml:"projectileSpeed"`
	ProjectileLifetimeBounds float64 `yaml:"projectileLifetimeBounds"`
	KillReward               int     `yaml:"killReward"`

	ParticleBurstCount int     `yaml:"particleBurstCount"`
	ParticleDecayRate  float64 `yaml:"particleDecayRate"`
	ParticleDamping    float64 `yaml:"particleDamping"`
	ParticleMaxSpeed   float64 `yaml:"particleMaxSpeed"`

	PlayerCollisionRadius     float64 `yaml:"playerCollisionRadius"`
	ProjectileCollisionRadius float64 `yaml:"projectileCollisionRadius"`
	EnemyCollisionRadius      float64 `yaml:"enemyCollisionRadius"`

	// PlayerContactThreshold replaces enemy+player radius sum when > 0
	PlayerContactThreshold float64 `yaml:"playerContactThreshold"`

	SpawnEdgeOffset float64 `yaml:"spawnEdgeOffset"`
	MuzzleOffset    float64 `yaml:"muzzleOffset"`

	ShootPoseTicks  int `yaml:"shootPoseTicks"`
	ReloadPoseTicks int `yaml:"reloadPoseTicks"`

	CellWidth  float64 `yaml:"cellWidth"`
	CellHeight float64 `yaml:"cellHeight"`

	AudioEnabled  bool   `yaml:"audioEnabled"`
	SpectatorAddr string `yaml:"spectatorAddr"`
}

// Default returns the stock configuration
func Default() *Config {
	return &Config{
		TickRate:                  constants.DefaultTickRate,
		EnemySpawnIntervalMs:      constants.EnemySpawnIntervalMs,
		EnemySpeed:                constants.EnemySpeed,
		ProjectileSpeed:           constants.ProjectileSpeed,
		ProjectileLifetimeBounds:  constants.ProjectileLifetimeBounds,
		KillReward:                constants.KillReward,
		ParticleBurstCount:        constants.ParticleBurstCount,
		ParticleDecayRate:         constants.ParticleDecayRate,
		ParticleDamping:           constants.ParticleDamping,
		ParticleMaxSpeed:          constants.ParticleMaxSpeed,
		PlayerCollisionRadius:     constants.PlayerCollisionRadius,
		ProjectileCollisionRadius: constants.ProjectileCollisionRadius,
		EnemyCollisionRadius:      constants.EnemyCollisionRadius,
		SpawnEdgeOffset:           constants.SpawnEdgeOffset,
		MuzzleOffset:              constants.MuzzleOffset,
		ShootPoseTicks:            constants.ShootPoseTicks,
		ReloadPoseTicks:           constants.ReloadPoseTicks,
		CellWidth:                 constants.CellWidth,
		CellHeight:                constants.CellHeight,
		AudioEnabled:              true,
	}
}

// Load builds a config from defaults, an optional YAML file and environment overrides
// Empty path skips the file stage
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays YAML keys present in path onto c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays TURRET_* variables resolved through getenv
// Unparseable values are reported, unset ones are ignored
func (c *Config) ApplyEnv(getenv func(string) string) error {
	ints := []struct {
		key string
		dst *int
	}{
		{"TURRET_TICK_RATE", &c.TickRate},
		{"TURRET_ENEMY_SPAWN_INTERVAL_MS", &c.EnemySpawnIntervalMs},
		{"TURRET_KILL_REWARD", &c.KillReward},
		{"TURRET_PARTICLE_BURST_COUNT", &c.ParticleBurstCount},
		{"TURRET_SHOOT_POSE_TICKS", &c.ShootPoseTicks},
		{"TURRET_RELOAD_POSE_TICKS", &c.ReloadPoseTicks},
	}
	for _, e := range ints {
		if v := getenv(e.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", e.key, v, err)
			}
			*e.dst = n
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"TURRET_ENEMY_SPEED", &c.EnemySpeed},
		{"TURRET_PROJECTILE_SPEED", &c.ProjectileSpeed},
		{"TURRET_PROJECTILE_LIFETIME_BOUNDS", &c.ProjectileLifetimeBounds},
		{"TURRET_PARTICLE_DECAY_RATE", &c.ParticleDecayRate},
		{"TURRET_PARTICLE_DAMPING", &c.ParticleDamping},
		{"TURRET_PARTICLE_MAX_SPEED", &c.ParticleMaxSpeed},
		{"TURRET_PLAYER_COLLISION_RADIUS", &c.PlayerCollisionRadius},
		{"TURRET_PROJECTILE_COLLISION_RADIUS", &c.ProjectileCollisionRadius},
		{"TURRET_ENEMY_COLLISION_RADIUS", &c.EnemyCollisionRadius},
		{"TURRET_PLAYER_CONTACT_THRESHOLD", &c.PlayerContactThreshold},
		{"TURRET_SPAWN_EDGE_OFFSET", &c.SpawnEdgeOffset},
		{"TURRET_MUZZLE_OFFSET", &c.MuzzleOffset},
	}
	for _, e := range floats {
		if v := getenv(e.key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", e.key, v, err)
			}
			*e.dst = f
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"TURRET_ENEMY_HOMING", &c.EnemyHoming},
		{"TURRET_AUDIO_ENABLED", &c.AudioEnabled},
	}
	for _, e := range bools {
		if v := getenv(e.key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s=%q: %w", e.key, v, err)
			}
			*e.dst = b
		}
	}

	if v := getenv("TURRET_SPECTATOR_ADDR"); v != "" {
		c.SpectatorAddr = v
	}
	return nil
}

// Validate rejects values the simulation cannot run with
func (c *Config) Validate() error {
	switch {
	case c.TickRate <= 0 || c.TickRate > constants.MaxTickRate:
		return fmt.Errorf("%w: tickRate must be in 1..%d, got %d", ErrInvalid, constants.MaxTickRate, c.TickRate)
	case c.EnemySpawnIntervalMs <= 0:
		return fmt.Errorf("%w: enemySpawnIntervalMs must be positive, got %d", ErrInvalid, c.EnemySpawnIntervalMs)
	case c.KillReward < 0:
		return fmt.Errorf("%w: killReward must not be negative, got %d", ErrInvalid, c.KillReward)
	case c.ParticleBurstCount < 0:
		return fmt.Errorf("%w: particleBurstCount must not be negative, got %d", ErrInvalid, c.ParticleBurstCount)
	case c.ParticleDecayRate <= 0 || c.ParticleDecayRate > 1:
		return fmt.Errorf("%w: particleDecayRate must be in (0,1], got %v", ErrInvalid, c.ParticleDecayRate)
	case c.ParticleDamping < 0 || c.ParticleDamping > 1:
		return fmt.Errorf("%w: particleDamping must be in [0,1], got %v", ErrInvalid, c.ParticleDamping)
	case c.ShootPoseTicks < 0 || c.ReloadPoseTicks < 0:
		return fmt.Errorf("%w: pose ticks must not be negative", ErrInvalid)
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return fmt.Errorf("%w: cell size must be positive", ErrInvalid)
	}

	nonNegative := []struct {
		name string
		v    float64
	}{
		{"enemySpeed", c.EnemySpeed},
		{"projectileSpeed", c.ProjectileSpeed},
		{"projectileLifetimeBounds", c.ProjectileLifetimeBounds},
		{"particleMaxSpeed", c.ParticleMaxSpeed},
		{"playerCollisionRadius", c.PlayerCollisionRadius},
		{"projectileCollisionRadius", c.ProjectileCollisionRadius},
		{"enemyCollisionRadius", c.EnemyCollisionRadius},
		{"playerContactThreshold", c.PlayerContactThreshold},
		{"spawnEdgeOffset", c.SpawnEdgeOffset},
		{"muzzleOffset", c.MuzzleOffset},
	}
	for _, f := range nonNegative {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalid, f.name, f.v)
		}
	}
	return nil
}

// TickInterval converts TickRate to the driver period
func (c *Config) TickInterval() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// SpawnInterval converts EnemySpawnIntervalMs to a duration
func (c *Config) SpawnInterval() time.Duration {
	return time.Duration(c.EnemySpawnIntervalMs) * time.Millisecond
}

// ContactThreshold returns the enemy-to-player distance that ends the game
func (c *Config) ContactThreshold() float64 {
	if c.PlayerContactThreshold > 0 {
		return c.PlayerContactThreshold
	}
	return c.PlayerCollisionRadius + c.EnemyCollisionRadius
}

// SpawnOffset is how far outside the visible bounds enemies appear, never less than enemy size
func (c *Config) SpawnOffset() float64 {
	return math.Max(c.SpawnEdgeOffset, 2*c.EnemyCollisionRadius)
}
