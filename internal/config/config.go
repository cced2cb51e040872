// Package config loads arena tuning from YAML. Every field has a default, so
// a file only needs the values it changes.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full tuning surface of an arena run.
type Config struct {
	Seed   int64        `yaml:"seed"`
	Arena  ArenaConfig  `yaml:"arena"`
	Player PlayerConfig `yaml:"player"`
	Enemy  EnemyConfig  `yaml:"enemy"`
	Waves  WaveConfig   `yaml:"waves"`
}

// ArenaConfig sizes the playfield and the fixed simulation step.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	TickMS int64   `yaml:"tick_ms"`
}

type PlayerConfig struct {
	Speed           float64 `yaml:"speed"` // px/s
	HP              float64 `yaml:"hp"`
	FireCooldownMS  int64   `yaml:"fire_cooldown_ms"`
	ProjectileSpeed float64 `yaml:"projectile_speed"`
	Damage          float64 `yaml:"damage"`
}

// EnemyConfig holds the caller-side rules the AI leaves to the arena:
// cooldowns, aim error and projectile stats.
type EnemyConfig struct {
	BaseHP              float64 `yaml:"base_hp"`
	AttackCooldownMinMS int64   `yaml:"attack_cooldown_min_ms"`
	AttackCooldownMaxMS int64   `yaml:"attack_cooldown_max_ms"`
	AimJitter           float64 `yaml:"aim_jitter"`
	BossAimJitter       float64 `yaml:"boss_aim_jitter"`
	RefireMS            int64   `yaml:"refire_ms"`
	BossRefireMS        int64   `yaml:"boss_refire_ms"`
	ProjectileSpeed     float64 `yaml:"projectile_speed"`
	ProjectileTTLMS     int64   `yaml:"projectile_ttl_ms"`
	Damage              float64 `yaml:"damage"`
	BossDamage          float64 `yaml:"boss_damage"`
}

type WaveConfig struct {
	SpawnScale      float64 `yaml:"spawn_scale"` // enemies per wave = ceil(scale*wave)
	BossEvery       int     `yaml:"boss_every"`
	FirstArmedKills int     `yaml:"first_armed_kills"` // kills before spawned enemies may shoot
}

// Default returns the stock tuning.
func Default() Config {
	return Config{
		Seed: 1,
		Arena: ArenaConfig{
			Width:  1920,
			Height: 1080,
			TickMS: 16,
		},
		Player: PlayerConfig{
			Speed:           400,
			HP:              100,
			FireCooldownMS:  150,
			ProjectileSpeed: 800,
			Damage:          10,
		},
		Enemy: EnemyConfig{
			BaseHP:              5,
			AttackCooldownMinMS: 500,
			AttackCooldownMaxMS: 2000,
			AimJitter:           420,
			BossAimJitter:       69,
			RefireMS:            1000,
			BossRefireMS:        100,
			ProjectileSpeed:     800,
			ProjectileTTLMS:     10000,
			Damage:              10,
			BossDamage:          5,
		},
		Waves: WaveConfig{
			SpawnScale:      1.75,
			BossEvery:       5,
			FirstArmedKills: 2,
		},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path) // #nosec G304 -- path is an operator flag
	if err != nil {
		return Config{}, errors.Wrap(err, "open config")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode yaml")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value.
func (c *Config) Validate() error {
	switch {
	case c.Arena.Width <= 0 || c.Arena.Height <= 0:
		return errors.Errorf("arena size must be positive, got %gx%g", c.Arena.Width, c.Arena.Height)
	case c.Arena.TickMS <= 0:
		return errors.Errorf("arena.tick_ms must be positive, got %d", c.Arena.TickMS)
	case c.Player.Speed < 0:
		return errors.Errorf("player.speed must not be negative, got %g", c.Player.Speed)
	case c.Player.HP <= 0:
		return errors.Errorf("player.hp must be positive, got %g", c.Player.HP)
	case c.Player.FireCooldownMS < 0:
		return errors.Errorf("player.fire_cooldown_ms must not be negative, got %d", c.Player.FireCooldownMS)
	case c.Player.ProjectileSpeed <= 0 || c.Enemy.ProjectileSpeed <= 0:
		return errors.New("projectile speeds must be positive")
	case c.Enemy.BaseHP <= 0:
		return errors.Errorf("enemy.base_hp must be positive, got %g", c.Enemy.BaseHP)
	case c.Enemy.AttackCooldownMinMS < 0 || c.Enemy.AttackCooldownMaxMS < c.Enemy.AttackCooldownMinMS:
		return errors.Errorf("enemy attack cooldown range [%d, %d] is invalid",
			c.Enemy.AttackCooldownMinMS, c.Enemy.AttackCooldownMaxMS)
	case c.Enemy.AimJitter < 0 || c.Enemy.BossAimJitter < 0:
		return errors.New("aim jitter must not be negative")
	case c.Enemy.RefireMS < 0 || c.Enemy.BossRefireMS < 0:
		return errors.New("refire delays must not be negative")
	case c.Enemy.ProjectileTTLMS <= 0:
		return errors.Errorf("enemy.projectile_ttl_ms must be positive, got %d", c.Enemy.ProjectileTTLMS)
	case c.Waves.SpawnScale <= 0:
		return errors.Errorf("waves.spawn_scale must be positive, got %g", c.Waves.SpawnScale)
	case c.Waves.BossEvery < 0:
		return errors.Errorf("waves.boss_every must not be negative, got %d", c.Waves.BossEvery)
	}
	return nil
}
