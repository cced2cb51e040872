package game

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/Garsondee/Raider-Sense/internal/config"
	"github.com/Garsondee/Raider-Sense/internal/enemyai"
)

// Spawn band, in arena pixels. Enemies appear away from the player so a
// fresh wave never lands on top of it.
const (
	spawnMarginRight  = 120.0
	spawnMarginTop    = 100.0
	spawnMarginBottom = 180.0
	spawnClearX       = 900.0 // no spawns within this x distance of the player
	spawnClearY       = 400.0
)

// WaveDirector tracks wave progression and builds each wave's roster.
type WaveDirector struct {
	cfg       config.WaveConfig
	enemy     config.EnemyConfig
	wave      int
	bossCount int
}

func NewWaveDirector(cfg config.WaveConfig, enemy config.EnemyConfig) *WaveDirector {
	return &WaveDirector{cfg: cfg, enemy: enemy}
}

func (wd *WaveDirector) Wave() int      { return wd.wave }
func (wd *WaveDirector) BossCount() int { return wd.bossCount }

// isBossWave reports whether wave n is a boss wave.
func (wd *WaveDirector) isBossWave(n int) bool {
	return wd.cfg.BossEvery > 0 && n%wd.cfg.BossEvery == 0
}

// waveSize is ceil(spawnScale * n).
func (wd *WaveDirector) waveSize(n int) int {
	return int(math.Ceil(wd.cfg.SpawnScale * float64(n)))
}

// spawnPlan is one enemy the arena should create.
type spawnPlan struct {
	kind     behavior.Archetype
	pos      enemyai.Vec2
	hp       float64
	velocity float64
	armed    bool
	cooldown int64
	boss     bool
}

// Next advances to the next wave and returns what to spawn. Regular waves
// may come back short when the player leaves no room in the spawn band.
func (wd *WaveDirector) Next(rng *rand.Rand, player enemyai.Vec2, kills int, width, height float64) []spawnPlan {
	wd.wave++
	if wd.isBossWave(wd.wave) {
		wd.bossCount++
		return []spawnPlan{{
			kind:     bossArchetype(wd.bossCount),
			pos:      enemyai.V(width*0.47, height*0.46),
			hp:       bossHP(wd.bossCount),
			velocity: bossVelocity(wd.wave),
			armed:    true,
			boss:     true,
		}}
	}

	hpMod := hpModifier(kills)
	armed := kills >= wd.cfg.FirstArmedKills
	n := wd.waveSize(wd.wave)
	plans := make([]spawnPlan, 0, n)
	for i := 0; i < n; i++ {
		x, okX := pickOutside(rng, 0, width-spawnMarginRight, player.X, spawnClearX)
		y, okY := pickOutside(rng, spawnMarginTop, height-spawnMarginBottom, player.Y, spawnClearY)
		if !okX || !okY {
			continue
		}
		p := spawnPlan{
			kind:     waveArchetype(i),
			pos:      enemyai.V(x, y),
			hp:       enemyHP(wd.enemy.BaseHP, hpMod),
			velocity: enemyVelocity(hpMod),
			armed:    armed,
		}
		if armed {
			p.cooldown = randomCooldown(rng, wd.enemy.AttackCooldownMinMS, wd.enemy.AttackCooldownMaxMS)
		}
		plans = append(plans, p)
	}
	return plans
}

// pickOutside draws uniformly from [lo, hi) minus [c-clear, c+clear].
func pickOutside(rng *rand.Rand, lo, hi, c, clear float64) (float64, bool) {
	leftHi := math.Min(hi, c-clear)
	rightLo := math.Max(lo, c+clear)
	left := math.Max(0, leftHi-lo)
	right := math.Max(0, hi-rightLo)
	total := left + right
	if total <= 0 {
		return 0, false
	}
	r := rng.Float64() * total
	if r < left {
		return lo + r, true
	}
	return rightLo + (r - left), true
}

func randomCooldown(rng *rand.Rand, lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Int63n(hi-lo)
}
