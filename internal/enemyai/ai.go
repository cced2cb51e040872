// Package enemyai schedules and evaluates enemy behaviors. Each AI walks its
// archetype's behavior tree lazily: a node's children join the action queue
// the first time that node runs, and the queue always hands back whichever
// action has gone longest without running.
package enemyai

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/pkg/errors"
)

// DwellMS is the minimum gap, in simulation milliseconds, between the last
// run of the current action and its next run.
const DwellMS int64 = 1000

var (
	// ErrInvalidContext is returned when the tick's inputs are unusable.
	ErrInvalidContext = errors.New("enemyai: invalid context")
	// ErrUnknownArchetype is returned by an AI built for an archetype that
	// does not exist.
	ErrUnknownArchetype = errors.New("enemyai: unknown archetype")
	// ErrNotInitialized is returned by a zero-value AI.
	ErrNotInitialized = errors.New("enemyai: AI not initialized")
)

// Context is everything an AI reads from the world for one decision.
type Context struct {
	Player      Vec2    // player position
	Enemy       Vec2    // this enemy's position
	Speed       float64 // this enemy's speed
	Projectiles []Vec2  // live projectile positions
}

func (c Context) validate() error {
	if !c.Player.Finite() {
		return errors.Wrapf(ErrInvalidContext, "player position %v", c.Player)
	}
	if !c.Enemy.Finite() {
		return errors.Wrapf(ErrInvalidContext, "enemy position %v", c.Enemy)
	}
	if !finite(c.Speed) || c.Speed < 0 {
		return errors.Wrapf(ErrInvalidContext, "speed %v", c.Speed)
	}
	return nil
}

// ActionResult is one decision's intent. EnemyPosition is where the enemy
// should head, not where it is.
type ActionResult struct {
	EnemyPosition Vec2
	EnemyTarget   Vec2
	IsAttacking   bool
}

// AI is one enemy's decision state: its tree, its queue and the action it
// will run next. The archetype tag selects the rule variant in evaluate.
type AI struct {
	kind     behavior.Archetype
	tree     *behavior.Tree
	queue    *ActionQueue
	current  ScheduledAction
	expanded map[behavior.NodeID]bool
	rng      *rand.Rand

	last      ActionResult
	hasLast   bool
	decisions int
	lastRunAt int64
}

// New builds an AI for kind. A nil rng uses the shared process generator.
func New(kind behavior.Archetype, rng *rand.Rand) *AI {
	if rng == nil {
		rng = sharedRand
	}
	tree := behavior.NewTree(kind)
	root := tree.Root()
	ai := &AI{
		kind:     kind,
		tree:     tree,
		queue:    NewActionQueue(),
		current:  ScheduledAction{Behavior: root.Behavior(), NodeID: root.ID()},
		expanded: make(map[behavior.NodeID]bool, tree.Len()),
		rng:      rng,
	}
	// Root children are seeded as never performed so they run right after
	// the root.
	ai.expand(root.ID(), 0)
	return ai
}

func NewNormal(rng *rand.Rand) *AI     { return New(behavior.Normal, rng) }
func NewAggressive(rng *rand.Rand) *AI { return New(behavior.Aggressive, rng) }
func NewElusive(rng *rand.Rand) *AI    { return New(behavior.Elusive, rng) }

// Step runs one decision if the current action is due, otherwise it returns
// the previous result untouched. Errors leave the AI unchanged; the caller
// should keep the enemy's last intent for this tick.
func (ai *AI) Step(nowMS int64, ctx Context) (ActionResult, error) {
	if ai == nil || ai.tree == nil || ai.queue == nil {
		return ActionResult{}, ErrNotInitialized
	}
	if !ai.kind.Valid() {
		return ai.previous(ctx), errors.Wrapf(ErrUnknownArchetype, "archetype %d", int(ai.kind))
	}
	if err := ctx.validate(); err != nil {
		return ai.previous(ctx), err
	}
	if nowMS-ai.current.LastPerformed < DwellMS {
		return ai.previous(ctx), nil
	}

	res := ai.evaluate(ai.current.Behavior, ctx)

	if !ai.expanded[ai.current.NodeID] {
		ai.expand(ai.current.NodeID, nowMS)
	}

	ai.current.LastPerformed = nowMS
	ai.queue.Push(ai.current)
	ai.current = ai.queue.Pop(nowMS)
	ai.tree.SetCurrent(ai.current.NodeID)

	ai.last = res
	ai.hasLast = true
	ai.decisions++
	ai.lastRunAt = nowMS
	return res, nil
}

// evaluate is the single dispatch point over archetypes.
func (ai *AI) evaluate(b behavior.Behavior, ctx Context) ActionResult {
	switch ai.kind {
	case behavior.Elusive:
		if b == behavior.Dodge {
			return ActionResult{
				EnemyPosition: DodgeProjectiles(ai.rng, ctx.Enemy, ctx.Projectiles, ctx.Speed),
				EnemyTarget:   ctx.Player,
			}
		}
		return applyRule(ai.rng, b, ctx)
	case behavior.Normal, behavior.Aggressive:
		return applyRule(ai.rng, b, ctx)
	default:
		return ActionResult{EnemyPosition: ctx.Enemy, EnemyTarget: ctx.Player}
	}
}

// expand pushes id's children once, in coin-flip order, stamped at.
// Leaves and unknown ids are marked expanded and push nothing.
func (ai *AI) expand(id behavior.NodeID, at int64) {
	ai.expanded[id] = true
	l, r, ok := ai.tree.Children(id)
	if !ok {
		return
	}
	first, second := l, r
	if ai.rng.Intn(2) == 1 {
		first, second = r, l
	}
	for _, child := range []behavior.NodeID{first, second} {
		b, ok := ai.tree.BehaviorOf(child)
		if !ok {
			continue
		}
		ai.queue.Push(ScheduledAction{Behavior: b, NodeID: child, LastPerformed: at})
	}
}

func (ai *AI) previous(ctx Context) ActionResult {
	if ai.hasLast {
		return ai.last
	}
	return ActionResult{EnemyPosition: ctx.Enemy, EnemyTarget: ctx.Player}
}

// --- Introspection ---

func (ai *AI) Archetype() behavior.Archetype { return ai.kind }
func (ai *AI) Tree() *behavior.Tree          { return ai.tree }
func (ai *AI) Current() ScheduledAction      { return ai.current }
func (ai *AI) QueueLen() int                 { return ai.queue.Len() }
func (ai *AI) Decisions() int                { return ai.decisions }

// Queued lists pending actions in the order they would run.
func (ai *AI) Queued() []ScheduledAction { return ai.queue.Snapshot() }

// NextDueMS is the earliest time the current action may run.
func (ai *AI) NextDueMS() int64 { return ai.current.LastPerformed + DwellMS }

// Expanded reports whether id's children have already been queued.
func (ai *AI) Expanded(id behavior.NodeID) bool { return ai.expanded[id] }

// LastResult returns the most recent decision and the time it was made.
func (ai *AI) LastResult() (ActionResult, int64, bool) {
	return ai.last, ai.lastRunAt, ai.hasLast
}

// --- Shared generator ---

// lockedSource lets the process-wide generator be shared across goroutines.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

var sharedRand = rand.New(&lockedSource{src: rand.NewSource(time.Now().UnixNano())}) // #nosec G404 -- game only
