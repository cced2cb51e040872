package game

import (
	"math"

	"github.com/Garsondee/Raider-Sense/internal/enemyai"
	"github.com/Garsondee/Raider-Sense/internal/sfx"
)

// PlayerIntent is what the player wants this tick.
type PlayerIntent struct {
	Move enemyai.Vec2 // direction, any length; zero to stand still
	Fire bool
	Aim  enemyai.Vec2 // world point to shoot at
}

// PlayerController supplies the player's intent each tick. The arena never
// reads input devices itself.
type PlayerController interface {
	Intent(a *Arena) PlayerIntent
}

// idleController stands still and never fires.
type idleController struct{}

func (idleController) Intent(*Arena) PlayerIntent { return PlayerIntent{} }

// ScriptedPlayer strafes on a Lissajous curve around the arena centre and
// shoots at the nearest live enemy.
type ScriptedPlayer struct {
	AmpX, AmpY float64 // fraction of the arena size
	FreqX      float64 // rad/s
	FreqY      float64
}

// DefaultScriptedPlayer covers most of the arena without hugging the walls.
func DefaultScriptedPlayer() *ScriptedPlayer {
	return &ScriptedPlayer{AmpX: 0.35, AmpY: 0.3, FreqX: 0.7, FreqY: 1.1}
}

func (sp *ScriptedPlayer) Intent(a *Arena) PlayerIntent {
	t := float64(a.NowMS()) / 1000
	want := enemyai.V(
		a.Width/2+sp.AmpX*a.Width*math.Sin(sp.FreqX*t),
		a.Height/2+sp.AmpY*a.Height*math.Sin(sp.FreqY*t),
	)
	intent := PlayerIntent{Move: want.Sub(a.Player.pos)}
	if e := a.nearestEnemy(a.Player.pos); e != nil {
		intent.Fire = true
		intent.Aim = e.pos
	}
	return intent
}

// nearestEnemy returns the closest live enemy to p, or nil.
func (a *Arena) nearestEnemy(p enemyai.Vec2) *Enemy {
	var best *Enemy
	bestD := math.MaxFloat64
	for _, e := range a.Enemies {
		if !e.Alive() {
			continue
		}
		if d := e.pos.Dist(p); d < bestD {
			best, bestD = e, d
		}
	}
	return best
}

// updatePlayer moves the player at most speed*dt along its intent, keeps it
// inside the arena and fires when the cooldown allows.
func (a *Arena) updatePlayer(dtMS int64) {
	p := a.Player
	if !p.Alive() {
		return
	}
	if p.hitFlash > 0 {
		p.hitFlash--
	}
	intent := a.controller.Intent(a)

	if dir, ok := intent.Move.Unit(); ok {
		step := math.Min(a.cfg.Player.Speed*float64(dtMS)/1000, intent.Move.Len())
		p.pos = p.pos.Add(dir.Scale(step))
	}
	p.pos.X = clamp(p.pos.X, 0, a.Width)
	p.pos.Y = clamp(p.pos.Y, 0, a.Height)

	if p.fireCooldownMS > 0 {
		p.fireCooldownMS -= dtMS
		if p.fireCooldownMS < 0 {
			p.fireCooldownMS = 0
		}
	}
	if !intent.Fire || p.fireCooldownMS > 0 {
		return
	}
	dmg := a.cfg.Player.Damage * playerDamageModifier(a.kills)
	if a.combat.PlayerFire(p, intent.Aim, a.cfg.Player.ProjectileSpeed, dmg, a.cfg.Enemy.ProjectileTTLMS) {
		p.fireCooldownMS = a.cfg.Player.FireCooldownMS
		a.cue(sfx.CuePlayerShot)
	}
}
