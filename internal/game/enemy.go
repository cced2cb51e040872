package game

import (
	"fmt"
	"math"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/Garsondee/Raider-Sense/internal/enemyai"
)

const (
	enemyRadius     = 18.0
	bossRadius      = 54.0
	playerRadius    = 22.0
	decisionHistory = 32 // per-enemy decisions kept for debug reports
)

// EnemyState is the coarse movement state shown in logs and the inspector.
type EnemyState int

const (
	EnemyStateHolding EnemyState = iota // at or near its proposed position
	EnemyStateMoving                    // closing on its proposed position
	EnemyStateDead
)

func (es EnemyState) String() string {
	switch es {
	case EnemyStateHolding:
		return "holding"
	case EnemyStateMoving:
		return "moving"
	case EnemyStateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// decisionRecord is one executed AI step.
type decisionRecord struct {
	Tick     int
	NowMS    int64
	Behavior behavior.Behavior
	Node     behavior.NodeID
	Result   enemyai.ActionResult
}

func (d decisionRecord) String() string {
	atk := ""
	if d.Result.IsAttacking {
		atk = " ATK"
	}
	return fmt.Sprintf("T=%d %s#%d -> pos%v aim%v%s",
		d.Tick, d.Behavior, d.Node, d.Result.EnemyPosition, d.Result.EnemyTarget, atk)
}

// Enemy is one hostile ship. The AI decides intent; the arena moves it and
// fires its weapon.
type Enemy struct {
	id    int
	label string
	kind  behavior.Archetype
	boss  bool
	ai    *enemyai.AI

	pos    enemyai.Vec2 // actual position
	target enemyai.Vec2 // AI's proposed position
	aim    enemyai.Vec2 // AI's attack target
	state  EnemyState

	velocity float64 // px/s
	hp       float64
	maxHP    float64

	armed         bool
	cooldownMS    int64
	attackPending bool

	lastBehavior behavior.Behavior
	hasDecided   bool
	aiErrors     int
	shots        int
	hits         int // projectiles of ours that struck the player

	history []decisionRecord
}

// newEnemy builds an enemy with its own AI drawing from rng.
func newEnemy(id int, kind behavior.Archetype, pos enemyai.Vec2, hp, velocity float64, ai *enemyai.AI) *Enemy {
	return &Enemy{
		id:       id,
		label:    fmt.Sprintf("%s%d", archetypeLetter(kind), id),
		kind:     kind,
		ai:       ai,
		pos:      pos,
		target:   pos,
		velocity: velocity,
		hp:       hp,
		maxHP:    hp,
	}
}

func (e *Enemy) ID() int                       { return e.id }
func (e *Enemy) Label() string                 { return e.label }
func (e *Enemy) Archetype() behavior.Archetype { return e.kind }
func (e *Enemy) IsBoss() bool                  { return e.boss }
func (e *Enemy) Pos() enemyai.Vec2             { return e.pos }
func (e *Enemy) Target() enemyai.Vec2          { return e.target }
func (e *Enemy) Aim() enemyai.Vec2             { return e.aim }
func (e *Enemy) HP() float64                   { return e.hp }
func (e *Enemy) Alive() bool                   { return e.state != EnemyStateDead }
func (e *Enemy) AI() *enemyai.AI               { return e.ai }
func (e *Enemy) Shots() int                    { return e.shots }
func (e *Enemy) State() EnemyState             { return e.state }

// LastBehavior is the behavior the AI most recently executed.
func (e *Enemy) LastBehavior() (behavior.Behavior, bool) {
	return e.lastBehavior, e.hasDecided
}

func (e *Enemy) radius() float64 {
	if e.boss {
		return bossRadius
	}
	return enemyRadius
}

func (e *Enemy) record(d decisionRecord) {
	e.lastBehavior = d.Behavior
	e.hasDecided = true
	e.history = append(e.history, d)
	if len(e.history) > decisionHistory {
		e.history = e.history[len(e.history)-decisionHistory:]
	}
}

// moveToward advances the enemy along a straight line to its proposed
// position without overshooting it.
func (e *Enemy) moveToward(dtMS int64) {
	step := e.velocity * float64(dtMS) / 1000
	delta := e.target.Sub(e.pos)
	dist := delta.Len()
	if dist <= step || dist == 0 {
		e.pos = e.target
		e.state = EnemyStateHolding
		return
	}
	dir, _ := delta.Unit()
	e.pos = e.pos.Add(dir.Scale(step))
	e.state = EnemyStateMoving
}

// tickCooldown counts the weapon down; unarmed enemies never fire.
func (e *Enemy) tickCooldown(dtMS int64) {
	if !e.armed || e.cooldownMS <= 0 {
		e.cooldownMS = 0
		return
	}
	e.cooldownMS -= dtMS
	if e.cooldownMS < 0 {
		e.cooldownMS = 0
	}
}

func (e *Enemy) readyToFire() bool {
	return e.armed && e.cooldownMS == 0 && e.attackPending
}

// takeDamage returns the damage actually absorbed.
func (e *Enemy) takeDamage(dmg float64) float64 {
	absorbed := math.Min(e.hp, dmg)
	e.hp -= dmg
	if e.hp <= 0 {
		e.hp = 0
		e.state = EnemyStateDead
	}
	return absorbed
}

// --- Player ---

// Player is the human (or scripted) ship.
type Player struct {
	pos            enemyai.Vec2
	hp             float64
	maxHP          float64
	fireCooldownMS int64
	hitFlash       int // ticks of red flash after a hit
}

func newPlayer(pos enemyai.Vec2, hp float64) *Player {
	return &Player{pos: pos, hp: hp, maxHP: hp}
}

func (p *Player) Pos() enemyai.Vec2 { return p.pos }
func (p *Player) HP() float64       { return p.hp }
func (p *Player) Alive() bool       { return p.hp > 0 }

func (p *Player) takeDamage(dmg float64) {
	p.hp -= dmg
	if p.hp < 0 {
		p.hp = 0
	}
	p.hitFlash = 8
}
