package enemyai

import "math/rand"

// DodgeProjectiles flees the nearest projectile within ThreatRadius of enemy,
// stepping speed pixels directly away from it. Ties on distance go to the
// earlier projectile in the slice. With nothing in range it falls back to
// BlindDodge. A projectile sitting exactly on the enemy gives no direction,
// so the enemy stays put.
//
// The result depends only on the arguments (rng included); nothing is kept
// between calls. Cost is linear in len(projectiles).
func DodgeProjectiles(rng *rand.Rand, enemy Vec2, projectiles []Vec2, speed float64) Vec2 {
	nearest, ok := nearestThreat(enemy, projectiles)
	if !ok {
		return BlindDodge(rng, enemy)
	}
	return stepAway(enemy, nearest, speed)
}

// nearestThreat returns the closest projectile within ThreatRadius.
func nearestThreat(enemy Vec2, projectiles []Vec2) (Vec2, bool) {
	var best Vec2
	bestDist := ThreatRadius
	found := false
	for _, p := range projectiles {
		if !p.Finite() {
			continue
		}
		d := enemy.Dist(p)
		if d > ThreatRadius {
			continue
		}
		if !found || d < bestDist {
			best = p
			bestDist = d
			found = true
		}
	}
	return best, found
}
