package game

import (
	"fmt"
	"math/rand"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/Garsondee/Raider-Sense/internal/config"
	"github.com/Garsondee/Raider-Sense/internal/enemyai"
	"github.com/Garsondee/Raider-Sense/internal/sfx"
	"github.com/rs/zerolog"
)

const (
	reportEveryTicks = 60   // reporter sampling interval (~1s at 60TPS)
	waveRetryMS      = 1000 // wait after a wave found no room to spawn
)

// SoundSink receives event cues. *sfx.Player satisfies it.
type SoundSink interface {
	Play(sfx.Cue)
}

// Arena is the simulation the enemy AIs live in: one player, the enemies,
// their projectiles and the wave progression. It has no Ebiten dependency
// of its own; Game wraps it for the window and the CLIs drive it headless.
type Arena struct {
	Width    float64
	Height   float64
	Player   *Player
	Enemies  []*Enemy
	SimLog   *SimLog
	Reporter *SimReporter
	Thoughts *ThoughtLog
	Waves    *WaveDirector

	cfg        config.Config
	seed       int64
	rng        *rand.Rand
	combat     *CombatManager
	log        zerolog.Logger
	controller PlayerController
	sound      SoundSink
	autoWaves  bool

	tick     int
	nowMS    int64
	kills    int
	nextID   int
	over     bool
	aiErrors int

	nextWaveMS int64
}

// arenaOptionKind controls the pass in which an option is applied.
type arenaOptionKind int

const (
	arenaOptInfra   arenaOptionKind = iota // config, size, seed, logger
	arenaOptActor                          // player placement, enemies; needs RNG and combat
	arenaOptControl                        // controller, waves, sound
)

// ArenaOption is a builder function applied to an Arena during construction.
type ArenaOption struct {
	kind arenaOptionKind
	fn   func(*Arena)
}

// WithConfig replaces the tuning, including arena size and seed. Put it
// before WithArenaSize or WithSeed when combining them.
func WithConfig(cfg config.Config) ArenaOption {
	return ArenaOption{arenaOptInfra, func(a *Arena) {
		a.cfg = cfg
		a.Width = cfg.Arena.Width
		a.Height = cfg.Arena.Height
		a.seed = cfg.Seed
	}}
}

// WithArenaSize sets the playfield dimensions.
func WithArenaSize(w, h float64) ArenaOption {
	return ArenaOption{arenaOptInfra, func(a *Arena) {
		a.Width = w
		a.Height = h
		a.cfg.Arena.Width = w
		a.cfg.Arena.Height = h
	}}
}

// WithSeed sets the RNG seed for deterministic runs.
func WithSeed(seed int64) ArenaOption {
	return ArenaOption{arenaOptInfra, func(a *Arena) {
		a.seed = seed
		a.cfg.Seed = seed
	}}
}

// WithLogger routes operational logs (AI failures, waves, deaths).
func WithLogger(l zerolog.Logger) ArenaOption {
	return ArenaOption{arenaOptInfra, func(a *Arena) {
		a.log = l
	}}
}

// WithVerbose enables per-tick position logging.
func WithVerbose(v bool) ArenaOption {
	return ArenaOption{arenaOptInfra, func(a *Arena) {
		a.SimLog = NewSimLog(v)
	}}
}

// WithPlayerAt places the player.
func WithPlayerAt(x, y float64) ArenaOption {
	return ArenaOption{arenaOptActor, func(a *Arena) {
		a.Player.pos = enemyai.V(x, y)
	}}
}

// WithEnemy adds an armed base-strength enemy whose weapon is ready.
func WithEnemy(kind behavior.Archetype, x, y float64) ArenaOption {
	return ArenaOption{arenaOptActor, func(a *Arena) {
		a.spawn(spawnPlan{
			kind:     kind,
			pos:      enemyai.V(x, y),
			hp:       enemyHP(a.cfg.Enemy.BaseHP, 1),
			velocity: enemyVelocity(1),
			armed:    true,
		})
	}}
}

// WithUnarmedEnemy adds an enemy that moves and decides but never fires.
func WithUnarmedEnemy(kind behavior.Archetype, x, y float64) ArenaOption {
	return ArenaOption{arenaOptActor, func(a *Arena) {
		a.spawn(spawnPlan{
			kind:     kind,
			pos:      enemyai.V(x, y),
			hp:       enemyHP(a.cfg.Enemy.BaseHP, 1),
			velocity: enemyVelocity(1),
		})
	}}
}

// WithBoss adds a first-tier boss and counts it toward the boss total.
func WithBoss(kind behavior.Archetype, x, y float64) ArenaOption {
	return ArenaOption{arenaOptActor, func(a *Arena) {
		a.Waves.bossCount++
		a.spawn(spawnPlan{
			kind:     kind,
			pos:      enemyai.V(x, y),
			hp:       bossHP(a.Waves.bossCount),
			velocity: bossVelocity(1),
			armed:    true,
			boss:     true,
		})
	}}
}

// WithController sets who drives the player. The default stands still.
func WithController(pc PlayerController) ArenaOption {
	return ArenaOption{arenaOptControl, func(a *Arena) {
		if pc != nil {
			a.controller = pc
		}
	}}
}

// WithScriptedPlayer makes the player strafe and shoot on its own.
func WithScriptedPlayer() ArenaOption {
	return WithController(DefaultScriptedPlayer())
}

// WithAutoWaves spawns the next wave whenever the arena is clear.
func WithAutoWaves(on bool) ArenaOption {
	return ArenaOption{arenaOptControl, func(a *Arena) {
		a.autoWaves = on
	}}
}

// WithSound plays event cues on s.
func WithSound(s SoundSink) ArenaOption {
	return ArenaOption{arenaOptControl, func(a *Arena) {
		a.sound = s
	}}
}

// NewArena constructs an Arena from the given options in ordered passes:
//  1. Infrastructure (config, size, seed, logger)
//  2. RNG, combat, player and wave state
//  3. Actors
//  4. Control
func NewArena(opts ...ArenaOption) *Arena {
	cfg := config.Default()
	a := &Arena{
		Width:      cfg.Arena.Width,
		Height:     cfg.Arena.Height,
		SimLog:     NewSimLog(false),
		Thoughts:   NewThoughtLog(),
		cfg:        cfg,
		seed:       cfg.Seed,
		log:        zerolog.Nop(),
		controller: idleController{},
	}
	for _, o := range opts {
		if o.kind == arenaOptInfra {
			o.fn(a)
		}
	}
	a.rng = rand.New(rand.NewSource(a.seed)) // #nosec G404 -- game simulation
	a.combat = NewCombatManager(a.rng.Int63())
	a.Waves = NewWaveDirector(a.cfg.Waves, a.cfg.Enemy)
	a.Reporter = NewSimReporter(reportWindowTicks, false)
	a.Player = newPlayer(enemyai.V(a.Width/2, a.Height/2), a.cfg.Player.HP)
	for _, o := range opts {
		if o.kind == arenaOptActor {
			o.fn(a)
		}
	}
	for _, o := range opts {
		if o.kind == arenaOptControl {
			o.fn(a)
		}
	}
	return a
}

// --- Accessors ---

func (a *Arena) Config() config.Config   { return a.cfg }
func (a *Arena) Combat() *CombatManager  { return a.combat }
func (a *Arena) CurrentTick() int        { return a.tick }
func (a *Arena) NowMS() int64            { return a.nowMS }
func (a *Arena) Kills() int              { return a.kills }
func (a *Arena) Over() bool              { return a.over }
func (a *Arena) AIErrors() int           { return a.aiErrors }
func (a *Arena) Seed() int64             { return a.seed }
func (a *Arena) Logger() *zerolog.Logger { return &a.log }

// EnemyByLabel finds a live enemy by its label.
func (a *Arena) EnemyByLabel(label string) *Enemy {
	for _, e := range a.Enemies {
		if e.label == label {
			return e
		}
	}
	return nil
}

// --- Simulation ---

// RunTicks advances the arena n fixed steps.
func (a *Arena) RunTicks(n int) {
	for i := 0; i < n; i++ {
		a.Tick(a.cfg.Arena.TickMS)
	}
}

// RunUntil advances up to maxTicks fixed steps, stopping early if predicate
// returns true. Returns the tick at which the predicate was satisfied, or -1.
func (a *Arena) RunUntil(predicate func(*Arena) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		a.Tick(a.cfg.Arena.TickMS)
		if predicate(a) {
			return a.tick
		}
	}
	return -1
}

// Tick advances the arena by dtMS of simulated time. A finished arena does
// not advance.
func (a *Arena) Tick(dtMS int64) {
	if a.over || dtMS <= 0 {
		return
	}
	a.tick++
	a.nowMS += dtMS

	// 1. PLAYER
	a.updatePlayer(dtMS)

	// 2. THINK + ACT: every enemy reads the same projectile snapshot.
	threats := a.combat.ThreatPositions()
	for _, e := range a.Enemies {
		a.thinkAndAct(e, dtMS, threats)
	}

	// 3. PROJECTILES + COLLISIONS
	a.combat.Advance(dtMS, a.Width, a.Height)
	a.logHits(a.combat.Resolve(a.Player, a.Enemies))
	a.reapDead()

	if !a.Player.Alive() {
		a.over = true
		a.SimLog.Add(a.tick, "--", "--", "player", "down",
			fmt.Sprintf("wave %d, %d kills", a.Waves.Wave(), a.kills), float64(a.kills))
		a.log.Info().Int("tick", a.tick).Int("wave", a.Waves.Wave()).Int("kills", a.kills).Msg("player down")
		return
	}

	// 4. WAVES
	if a.autoWaves && len(a.Enemies) == 0 && a.nowMS >= a.nextWaveMS {
		a.spawnWave()
	}

	// 5. ANALYTICS
	if a.tick%reportEveryTicks == 0 {
		a.Reporter.Collect(a.tick, a.Waves.Wave(), a.Player, a.Enemies, len(a.combat.projectiles))
	}
}

// thinkAndAct runs one enemy's decision, movement and weapon for a tick.
// A failed decision is logged and the enemy keeps its previous intent.
func (a *Arena) thinkAndAct(e *Enemy, dtMS int64, threats []enemyai.Vec2) {
	if !e.Alive() {
		return
	}
	ran := e.ai.Current()
	before := e.ai.Decisions()
	res, err := e.ai.Step(a.nowMS, enemyai.Context{
		Player:      a.Player.pos,
		Enemy:       e.pos,
		Speed:       e.velocity,
		Projectiles: threats,
	})
	if err != nil {
		e.aiErrors++
		a.aiErrors++
		a.log.Warn().Err(err).Str("enemy", e.label).Stringer("archetype", e.kind).Int("tick", a.tick).Msg("ai step failed")
		a.SimLog.addEnemy(a.tick, e, "ai", "error", err.Error(), 0)
	} else {
		if e.ai.Decisions() != before {
			e.record(decisionRecord{Tick: a.tick, NowMS: a.nowMS, Behavior: ran.Behavior, Node: ran.NodeID, Result: res})
			a.SimLog.addEnemy(a.tick, e, "ai", "decision", fmt.Sprintf("%s#%d", ran.Behavior, ran.NodeID), float64(ran.NodeID))
			a.Thoughts.Add(a.tick, e.label, e.kind, fmt.Sprintf("%s, next %s", ran.Behavior, e.ai.Current().Behavior))
		}
		e.target = res.EnemyPosition
		e.aim = res.EnemyTarget
		if res.IsAttacking {
			e.attackPending = true
		}
	}

	prev := e.state
	e.moveToward(dtMS)
	if e.state != prev {
		a.SimLog.addEnemy(a.tick, e, "move", "state", fmt.Sprintf("%s → %s", prev, e.state), 0)
	}
	a.SimLog.AddVerbose(a.tick, e.label, e.kind.String(), "move", "position", e.pos.String(), 0)

	e.tickCooldown(dtMS)
	if !e.readyToFire() {
		return
	}
	n := a.combat.EnemyVolley(e, a.weapon(), a.Waves.BossCount())
	e.attackPending = false
	if e.boss {
		e.cooldownMS = a.cfg.Enemy.BossRefireMS
		a.cue(sfx.CueBossShot)
	} else {
		e.cooldownMS = a.cfg.Enemy.RefireMS
		a.cue(sfx.CueEnemyShot)
	}
	a.SimLog.addEnemy(a.tick, e, "combat", "fire", fmt.Sprintf("%d shots toward %v", n, e.aim), float64(n))
}

func (a *Arena) weapon() weaponStats {
	return weaponStats{
		aimJitter:     a.cfg.Enemy.AimJitter,
		bossAimJitter: a.cfg.Enemy.BossAimJitter,
		speed:         a.cfg.Enemy.ProjectileSpeed,
		ttlMS:         a.cfg.Enemy.ProjectileTTLMS,
		damage:        a.cfg.Enemy.Damage,
		bossDamage:    a.cfg.Enemy.BossDamage,
	}
}

func (a *Arena) logHits(events []hitEvent) {
	for _, h := range events {
		if h.victim != nil {
			key := "hit"
			if h.contact {
				key = "ram"
			}
			a.SimLog.addEnemy(a.tick, h.victim, "combat", key, fmt.Sprintf("took %.0f, hp %.0f", h.damage, h.victim.hp), h.damage)
			continue
		}
		from := "--"
		if h.shooter != nil {
			from = h.shooter.label
		}
		a.SimLog.Add(a.tick, from, "--", "player", "hit", fmt.Sprintf("took %.0f, hp %.0f", h.damage, a.Player.hp), h.damage)
		a.cue(sfx.CueHit)
	}
}

// reapDead removes destroyed enemies and credits kills.
func (a *Arena) reapDead() {
	kept := a.Enemies[:0]
	for _, e := range a.Enemies {
		if e.Alive() {
			kept = append(kept, e)
			continue
		}
		credit := 1
		if e.boss {
			credit = bossKillValue
			a.log.Info().Str("enemy", e.label).Int("wave", a.Waves.Wave()).Msg("boss destroyed")
		}
		a.kills += credit
		a.SimLog.addEnemy(a.tick, e, "combat", "kill", fmt.Sprintf("kills=%d", a.kills), float64(a.kills))
	}
	for i := len(kept); i < len(a.Enemies); i++ {
		a.Enemies[i] = nil
	}
	a.Enemies = kept
}

// spawnWave asks the director for the next roster and spawns it.
func (a *Arena) spawnWave() {
	plans := a.Waves.Next(a.rng, a.Player.pos, a.kills, a.Width, a.Height)
	for _, p := range plans {
		a.spawn(p)
	}
	wave := a.Waves.Wave()
	if len(plans) == 0 {
		a.nextWaveMS = a.nowMS + waveRetryMS
		a.log.Warn().Int("wave", wave).Stringer("player", a.Player.pos).Msg("no room to spawn wave")
	}
	key := "spawn"
	if len(plans) == 1 && plans[0].boss {
		key = "boss"
	}
	a.SimLog.Add(a.tick, "--", "--", "wave", key, fmt.Sprintf("wave %d: %d enemies", wave, len(plans)), float64(wave))
	a.log.Info().Int("wave", wave).Int("enemies", len(plans)).Int("kills", a.kills).Msg("wave spawned")
	a.cue(sfx.CueWave)
}

// spawn creates an enemy with its own AI and RNG stream.
func (a *Arena) spawn(p spawnPlan) *Enemy {
	rng := rand.New(rand.NewSource(a.rng.Int63())) // #nosec G404 -- game simulation
	e := newEnemy(a.nextID, p.kind, p.pos, p.hp, p.velocity, enemyai.New(p.kind, rng))
	a.nextID++
	e.boss = p.boss
	e.armed = p.armed
	e.cooldownMS = p.cooldown
	if e.boss {
		e.label = fmt.Sprintf("B%d", e.id)
	}
	a.Enemies = append(a.Enemies, e)
	return e
}

func (a *Arena) cue(c sfx.Cue) {
	if a.sound != nil {
		a.sound.Play(c)
	}
}

// --- Snapshots ---

// ArenaSnapshot captures a lightweight state summary.
type ArenaSnapshot struct {
	Tick     int
	NowMS    int64
	PlayerX  float64
	PlayerY  float64
	PlayerHP float64
	Enemies  []EnemySnapshot
}

// EnemySnapshot is a lightweight copy of an enemy's state at a tick.
type EnemySnapshot struct {
	ID        int
	Label     string
	Archetype behavior.Archetype
	Boss      bool
	X, Y      float64
	TargetX   float64
	TargetY   float64
	HP        float64
	Current   behavior.Behavior // next action to run
	QueueLen  int
	Attacking bool
}

// Snapshot returns the current state of the player and all enemies.
func (a *Arena) Snapshot() ArenaSnapshot {
	snap := ArenaSnapshot{
		Tick:     a.tick,
		NowMS:    a.nowMS,
		PlayerX:  a.Player.pos.X,
		PlayerY:  a.Player.pos.Y,
		PlayerHP: a.Player.hp,
	}
	for _, e := range a.Enemies {
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID:        e.id,
			Label:     e.label,
			Archetype: e.kind,
			Boss:      e.boss,
			X:         e.pos.X,
			Y:         e.pos.Y,
			TargetX:   e.target.X,
			TargetY:   e.target.Y,
			HP:        e.hp,
			Current:   e.ai.Current().Behavior,
			QueueLen:  e.ai.QueueLen(),
			Attacking: e.attackPending,
		})
	}
	return snap
}
