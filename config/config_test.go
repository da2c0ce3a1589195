package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lixenwraith/turret/constants"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.SpawnInterval() != time.Second {
		t.Errorf("SpawnInterval = %v, want 1s", cfg.SpawnInterval())
	}
	if cfg.KillReward != 100 {
		t.Errorf("KillReward = %d, want 100", cfg.KillReward)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "turret.yaml")
	content := []byte("enemySpeed: 5\nkillReward: 250\nenemyHoming: true\nparticleBurstCount: 8\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.EnemySpeed != 5 {
		t.Errorf("EnemySpeed = %v, want 5", cfg.EnemySpeed)
	}
	if cfg.KillReward != 250 {
		t.Errorf("KillReward = %d, want 250", cfg.KillReward)
	}
	if !cfg.EnemyHoming {
		t.Error("EnemyHoming should be true")
	}
	if cfg.ParticleBurstCount != 8 {
		t.Errorf("ParticleBurstCount = %d, want 8", cfg.ParticleBurstCount)
	}
	// Untouched keys keep defaults
	if cfg.ProjectileSpeed != Default().ProjectileSpeed {
		t.Errorf("ProjectileSpeed = %v, want default", cfg.ProjectileSpeed)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TURRET_ENEMY_SPEED":             "2.5",
		"TURRET_ENEMY_SPAWN_INTERVAL_MS": "1500",
		"TURRET_AUDIO_ENABLED":           "false",
		"TURRET_SPECTATOR_ADDR":          ":9000",
	}
	cfg := Default()
	if err := cfg.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.EnemySpeed != 2.5 {
		t.Errorf("EnemySpeed = %v, want 2.5", cfg.EnemySpeed)
	}
	if cfg.SpawnInterval() != 1500*time.Millisecond {
		t.Errorf("SpawnInterval = %v, want 1.5s", cfg.SpawnInterval())
	}
	if cfg.AudioEnabled {
		t.Error("AudioEnabled should be false")
	}
	if cfg.SpectatorAddr != ":9000" {
		t.Errorf("SpectatorAddr = %q, want :9000", cfg.SpectatorAddr)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(func(k string) string {
		if k == "TURRET_KILL_REWARD" {
			return "lots"
		}
		return ""
	})
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick rate", func(c *Config) { c.TickRate = 0 }},
		{"tick rate above max", func(c *Config) { c.TickRate = constants.MaxTickRate + 1 }},
		{"tick rate past nanosecond", func(c *Config) { c.TickRate = 2_000_000_000 }},
		{"zero spawn interval", func(c *Config) { c.EnemySpawnIntervalMs = 0 }},
		{"negative reward", func(c *Config) { c.KillReward = -1 }},
		{"zero decay", func(c *Config) { c.ParticleDecayRate = 0 }},
		{"damping above one", func(c *Config) { c.ParticleDamping = 1.5 }},
		{"negative radius", func(c *Config) { c.EnemyCollisionRadius = -3 }},
		{"negative speed", func(c *Config) { c.ProjectileSpeed = -1 }},
		{"zero cell", func(c *Config) { c.CellWidth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestContactThreshold(t *testing.T) {
	cfg := Default()
	cfg.PlayerCollisionRadius = 20
	cfg.EnemyCollisionRadius = 4
	if got := cfg.ContactThreshold(); got != 24 {
		t.Errorf("ContactThreshold = %v, want 24", got)
	}

	cfg.PlayerContactThreshold = 30
	if got := cfg.ContactThreshold(); got != 30 {
		t.Errorf("ContactThreshold override = %v, want 30", got)
	}
}

func TestSpawnOffsetCoversEnemySize(t *testing.T) {
	cfg := Default()
	cfg.SpawnEdgeOffset = 10
	cfg.EnemyCollisionRadius = 25
	if got := cfg.SpawnOffset(); got != 50 {
		t.Errorf("SpawnOffset = %v, want 50", got)
	}
}

func TestValidateMaxTickRate(t *testing.T) {
	cfg := Default()
	cfg.TickRate = constants.MaxTickRate
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.TickInterval() != time.Millisecond {
		t.Errorf("TickInterval = %v, want 1ms", cfg.TickInterval())
	}
}
