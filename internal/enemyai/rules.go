package enemyai

import (
	"math"
	"math/rand"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
)

// --- Rule constants ---

const (
	ArenaWidth  = 1920.0 // nominal arena, always inside the random-move box
	ArenaHeight = 1080.0

	moveRandomReach   = 1000.0 // px around the enemy for MoveToRandom
	attackRandomReach = 500.0  // px around the player for AttackRandom
	DodgeMaxDistance  = 500.0  // upper bound of a random dodge
	ThreatRadius      = 50.0   // projectiles closer than this are dodged
)

// randomInBox picks a point uniformly in the box reaching `reach` past c on
// every side, stretched to always cover the nominal arena.
func randomInBox(rng *rand.Rand, c Vec2, reach float64) Vec2 {
	minX := math.Min(c.X-reach, 0)
	maxX := math.Max(c.X+reach, ArenaWidth)
	minY := math.Min(c.Y-reach, 0)
	maxY := math.Max(c.Y+reach, ArenaHeight)
	return Vec2{
		X: minX + rng.Float64()*(maxX-minX),
		Y: minY + rng.Float64()*(maxY-minY),
	}
}

// randomNear picks a point at a random angle and a random distance in
// [0, reach) from c.
func randomNear(rng *rand.Rand, c Vec2, reach float64) Vec2 {
	angle := rng.Float64() * 2 * math.Pi
	dist := rng.Float64() * reach
	return c.Add(Polar(angle, dist))
}

// BlindDodge displaces enemy by a random angle and a random distance in
// [0, DodgeMaxDistance), ignoring any threat data.
func BlindDodge(rng *rand.Rand, enemy Vec2) Vec2 {
	return randomNear(rng, enemy, DodgeMaxDistance)
}

// stepAway moves from by speed directly away from toward. Coincident points
// give no direction and leave from in place.
func stepAway(from, toward Vec2, speed float64) Vec2 {
	dir, ok := toward.Sub(from).Unit()
	if !ok {
		return from
	}
	return from.Sub(dir.Scale(speed))
}

// applyRule is the rule table shared by every archetype.
func applyRule(rng *rand.Rand, b behavior.Behavior, ctx Context) ActionResult {
	res := ActionResult{EnemyPosition: ctx.Enemy, EnemyTarget: ctx.Player}
	switch b {
	case behavior.Idle:
	case behavior.MoveToRandom:
		res.EnemyPosition = randomInBox(rng, ctx.Enemy, moveRandomReach)
	case behavior.MoveToPlayer:
		res.EnemyPosition = ctx.Player
	case behavior.RunAway:
		res.EnemyPosition = stepAway(ctx.Enemy, ctx.Player, ctx.Speed)
	case behavior.Dodge:
		res.EnemyPosition = BlindDodge(rng, ctx.Enemy)
	case behavior.AttackPlayer:
		res.EnemyTarget = ctx.Player
		res.IsAttacking = true
	case behavior.AttackRandom:
		res.EnemyTarget = randomNear(rng, ctx.Player, attackRandomReach)
		res.IsAttacking = true
	default:
		// unknown tag: hold position
	}
	return res
}
