package game

import (
	"math"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
)

// --- Enemy scaling ---

const (
	bossHPBase        = 1000.0
	bossHPScale       = 1.75 // per boss spawned so far
	bossVelocityBase  = 100.0
	bossVelocityScale = 1.05 // per wave number
	enemyVelocityBase = 100.0
	killHPScale       = 1.10 // hp modifier gained per player kill
	bossKillValue     = 10   // kills credited for a boss
)

// hpModifier scales regular enemies with the player's kill count. It never
// drops below 1 so the first waves spawn at base strength.
func hpModifier(kills int) float64 {
	return math.Max(1, float64(kills)*killHPScale)
}

// enemyVelocity grows logarithmically in the base and linearly in the
// modifier: ln(600)*mod + 100.
func enemyVelocity(hpMod float64) float64 {
	return math.Log(600)*hpMod + enemyVelocityBase
}

func enemyHP(baseHP, hpMod float64) float64 {
	return baseHP * hpMod
}

func bossHP(bossCount int) float64 {
	return bossHPBase * bossHPScale * float64(bossCount)
}

func bossVelocity(wave int) float64 {
	return bossVelocityBase * bossVelocityScale * float64(wave)
}

// playerDamageModifier steps up every ten kills.
func playerDamageModifier(kills int) float64 {
	m := math.Floor(float64(kills)/10) * 1.5
	if m < 1 {
		return 1
	}
	return m
}

// --- Archetype presentation ---

// archetypeLetter prefixes enemy labels, e.g. "A7" or "E2".
func archetypeLetter(k behavior.Archetype) string {
	switch k {
	case behavior.Normal:
		return "N"
	case behavior.Aggressive:
		return "A"
	case behavior.Elusive:
		return "E"
	default:
		return "?"
	}
}

// waveArchetype picks the archetype for the i-th enemy of a wave. Every
// tenth is Elusive, every other fifth Aggressive, the rest Normal.
func waveArchetype(i int) behavior.Archetype {
	switch {
	case i%10 == 0:
		return behavior.Elusive
	case i%5 == 0:
		return behavior.Aggressive
	default:
		return behavior.Normal
	}
}

// bossArchetype alternates starting with Normal for the first boss.
func bossArchetype(bossCount int) behavior.Archetype {
	if bossCount%2 == 0 {
		return behavior.Aggressive
	}
	return behavior.Normal
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
