package game

import (
	"image/color"
	"math/rand"

	"github.com/Garsondee/Raider-Sense/internal/enemyai"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// --- Combat constants ---

const (
	farTargetDistance = 10000.0 // shots fly toward a far point along the aim line
	offArenaMargin    = 500.0   // projectiles beyond this margin are culled
	bossFanSpacing    = 200.0   // px offset between boss fan projectiles
	bossFanPerBoss    = 5       // extra fan projectiles per boss spawned
	flashLifetime     = 4       // ticks a muzzle flash persists
)

// Side is who fired a projectile.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// Projectile is a straight-line shot with a lifetime.
type Projectile struct {
	pos    enemyai.Vec2
	vel    enemyai.Vec2 // px/s
	side   Side
	damage float64
	ttlMS  int64
	owner  *Enemy // nil for player shots
}

func (p *Projectile) Pos() enemyai.Vec2 { return p.pos }
func (p *Projectile) Side() Side        { return p.side }
func (p *Projectile) alive() bool       { return p.ttlMS > 0 && p.damage > 0 }

type muzzleFlash struct {
	pos  enemyai.Vec2
	boss bool
	age  int
}

// hitEvent is one resolved collision.
type hitEvent struct {
	victim  *Enemy // nil when the player was hit
	shooter *Enemy // nil for player shots
	damage  float64
	contact bool // ship-to-ship collision rather than a projectile
}

// CombatManager owns live projectiles, firing and collision resolution.
type CombatManager struct {
	rng         *rand.Rand
	projectiles []*Projectile
	flashes     []muzzleFlash
	shotsFired  [2]int
}

// NewCombatManager creates a combat manager with the given RNG seed.
func NewCombatManager(seed int64) *CombatManager {
	return &CombatManager{
		rng: rand.New(rand.NewSource(seed)), // #nosec G404 -- game only
	}
}

// Projectiles returns the live projectiles.
func (cm *CombatManager) Projectiles() []*Projectile { return cm.projectiles }

// ShotsFired counts projectiles launched by side since the start.
func (cm *CombatManager) ShotsFired(s Side) int { return cm.shotsFired[s] }

// ThreatPositions lists the player projectiles an enemy might dodge.
func (cm *CombatManager) ThreatPositions() []enemyai.Vec2 {
	out := make([]enemyai.Vec2, 0, len(cm.projectiles))
	for _, p := range cm.projectiles {
		if p.side == SidePlayer {
			out = append(out, p.pos)
		}
	}
	return out
}

func (cm *CombatManager) launch(from, toward enemyai.Vec2, speed, damage float64, ttlMS int64, side Side, owner *Enemy) {
	dir, ok := toward.Sub(from).Unit()
	if !ok {
		return
	}
	cm.projectiles = append(cm.projectiles, &Projectile{
		pos:    from,
		vel:    dir.Scale(speed),
		side:   side,
		damage: damage,
		ttlMS:  ttlMS,
		owner:  owner,
	})
	cm.shotsFired[side]++
}

// PlayerFire shoots from the player toward aim. Reports whether a shot left.
func (cm *CombatManager) PlayerFire(p *Player, aim enemyai.Vec2, speed, damage float64, ttlMS int64) bool {
	before := cm.shotsFired[SidePlayer]
	cm.launch(p.pos, aim, speed, damage, ttlMS, SidePlayer, nil)
	return cm.shotsFired[SidePlayer] > before
}

// weaponStats is the enemy side of the arena config an enemy volley needs.
type weaponStats struct {
	aimJitter     float64
	bossAimJitter float64
	speed         float64
	ttlMS         int64
	damage        float64
	bossDamage    float64
}

// EnemyVolley fires at e.aim with random aim error. A regular enemy fires
// one shot; a boss fires a fan of 5*bossCount+1 shots spread around a far
// point on its aim line. Returns the number of projectiles launched.
func (cm *CombatManager) EnemyVolley(e *Enemy, w weaponStats, bossCount int) int {
	jitter := w.aimJitter
	if e.boss {
		jitter = w.bossAimJitter
	}
	aim := e.aim.Add(enemyai.V(cm.jitter(jitter), cm.jitter(jitter)))
	dir, ok := aim.Sub(e.pos).Unit()
	if !ok {
		return 0
	}
	far := e.aim.Add(dir.Scale(farTargetDistance))

	before := cm.shotsFired[SideEnemy]
	if !e.boss {
		cm.launch(e.pos, far, w.speed, w.damage, w.ttlMS, SideEnemy, e)
	} else {
		if bossCount < 1 {
			bossCount = 1
		}
		for j := 0; j <= bossCount*bossFanPerBoss; j++ {
			offset := float64(j) * bossFanSpacing
			if j%2 == 0 {
				offset = -offset
			}
			dmg := w.damage
			if j%3 == 0 {
				dmg = w.bossDamage
			}
			cm.launch(e.pos, far.Add(enemyai.V(offset, offset)), w.speed, dmg, w.ttlMS, SideEnemy, e)
		}
	}
	n := cm.shotsFired[SideEnemy] - before
	if n > 0 {
		cm.flashes = append(cm.flashes, muzzleFlash{pos: e.pos, boss: e.boss})
		e.shots += n
	}
	return n
}

func (cm *CombatManager) jitter(r float64) float64 {
	if r <= 0 {
		return 0
	}
	return (cm.rng.Float64()*2 - 1) * r
}

// Advance moves projectiles, ages them and drops the expired or far
// off-arena ones.
func (cm *CombatManager) Advance(dtMS int64, width, height float64) {
	dt := float64(dtMS) / 1000
	kept := cm.projectiles[:0]
	for _, p := range cm.projectiles {
		p.pos = p.pos.Add(p.vel.Scale(dt))
		p.ttlMS -= dtMS
		if p.pos.X <= -offArenaMargin || p.pos.X >= width+offArenaMargin ||
			p.pos.Y <= -offArenaMargin || p.pos.Y >= height+offArenaMargin {
			p.ttlMS = 0
		}
		if p.alive() {
			kept = append(kept, p)
		}
	}
	for i := len(kept); i < len(cm.projectiles); i++ {
		cm.projectiles[i] = nil
	}
	cm.projectiles = kept

	flashes := cm.flashes[:0]
	for _, f := range cm.flashes {
		f.age++
		if f.age < flashLifetime {
			flashes = append(flashes, f)
		}
	}
	cm.flashes = flashes
}

// Resolve applies ship contact and projectile hits. A projectile spends its
// damage on what it hits and keeps flying with whatever is left.
func (cm *CombatManager) Resolve(player *Player, enemies []*Enemy) []hitEvent {
	var events []hitEvent

	for _, e := range enemies {
		if !e.Alive() || !player.Alive() {
			continue
		}
		if e.pos.Dist(player.pos) < playerRadius+e.radius() {
			playerHP, enemyHP := player.hp, e.hp
			player.takeDamage(enemyHP)
			e.takeDamage(playerHP)
			events = append(events, hitEvent{victim: nil, shooter: e, damage: enemyHP, contact: true})
			events = append(events, hitEvent{victim: e, damage: playerHP, contact: true})
		}
	}

	for _, p := range cm.projectiles {
		switch p.side {
		case SidePlayer:
			for _, e := range enemies {
				if !p.alive() {
					break
				}
				if !e.Alive() || p.pos.Dist(e.pos) >= e.radius() {
					continue
				}
				absorbed := e.takeDamage(p.damage)
				events = append(events, hitEvent{victim: e, damage: p.damage})
				p.damage -= absorbed
			}
		case SideEnemy:
			if !player.Alive() || p.pos.Dist(player.pos) >= playerRadius {
				continue
			}
			dmg := p.damage
			before := player.hp
			player.takeDamage(dmg)
			p.damage -= before
			if p.owner != nil {
				p.owner.hits++
			}
			events = append(events, hitEvent{victim: nil, shooter: p.owner, damage: dmg})
		}
	}
	return events
}

// Draw renders projectiles and muzzle flashes, mapping arena coordinates
// to the screen with scale then the offset.
func (cm *CombatManager) Draw(screen *ebiten.Image, offX, offY, scale float32) {
	playerShot := color.RGBA{R: 200, G: 200, B: 255, A: 255}
	enemyShot := color.RGBA{R: 255, G: 80, B: 80, A: 210}
	for _, p := range cm.projectiles {
		c := enemyShot
		r := float32(3)
		if p.side == SidePlayer {
			c = playerShot
			r = 2.5
		}
		vector.FillCircle(screen, offX+float32(p.pos.X)*scale, offY+float32(p.pos.Y)*scale, r, c, true)
	}
	for _, f := range cm.flashes {
		alpha := uint8(220 - f.age*50)
		r := float32(10)
		if f.boss {
			r = 24
		}
		vector.FillCircle(screen, offX+float32(f.pos.X)*scale, offY+float32(f.pos.Y)*scale, r*scale,
			color.RGBA{R: 255, G: 210, B: 120, A: alpha}, true)
	}
}
