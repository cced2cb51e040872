package enemyai

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed)) // #nosec G404 -- test determinism
}

func baseCtx() Context {
	return Context{Player: V(100, 100), Enemy: V(0, 0), Speed: 50}
}

// --- Construction ---

func TestNewSeedsRootChildren(t *testing.T) {
	for _, kind := range behavior.Archetypes() {
		t.Run(kind.String(), func(t *testing.T) {
			ai := New(kind, seeded(1))
			assert.Equal(t, behavior.RootID, ai.Current().NodeID)
			assert.Equal(t, int64(0), ai.Current().LastPerformed)
			assert.Equal(t, 2, ai.QueueLen(), "root children queued")
			assert.True(t, ai.Expanded(behavior.RootID))

			ids := map[behavior.NodeID]bool{}
			for _, a := range ai.Queued() {
				ids[a.NodeID] = true
				assert.Equal(t, int64(0), a.LastPerformed)
			}
			assert.Equal(t, map[behavior.NodeID]bool{1: true, 2: true}, ids)
		})
	}
}

func TestNilRandUsesSharedGenerator(t *testing.T) {
	ai := NewElusive(nil)
	require.NotNil(t, ai.rng)
	_, err := ai.Step(1000, baseCtx())
	require.NoError(t, err)
}

// --- Dwell gate ---

func TestStepBeforeFirstDecisionPassesThrough(t *testing.T) {
	ai := NewNormal(seeded(2))
	ctx := baseCtx()

	res, err := ai.Step(0, ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionResult{EnemyPosition: ctx.Enemy, EnemyTarget: ctx.Player}, res)
	assert.Equal(t, 0, ai.Decisions())
	assert.Equal(t, behavior.RootID, ai.Current().NodeID)
	assert.Equal(t, 2, ai.QueueLen())
}

func TestNormalFirstDecisionRunsIdle(t *testing.T) {
	ai := NewNormal(seeded(3))
	ctx := baseCtx()

	res, err := ai.Step(1000, ctx)
	require.NoError(t, err)
	assert.Equal(t, V(0, 0), res.EnemyPosition, "idle holds position")
	assert.Equal(t, V(100, 100), res.EnemyTarget)
	assert.False(t, res.IsAttacking)

	cur := ai.Current()
	assert.Contains(t, []behavior.Behavior{behavior.MoveToRandom, behavior.MoveToPlayer}, cur.Behavior)
	assert.Contains(t, []behavior.NodeID{1, 2}, cur.NodeID)
	assert.Equal(t, int64(0), cur.LastPerformed)

	// other root child still waits, root requeued at 1000
	queued := ai.Queued()
	require.Len(t, queued, 2)
	assert.Equal(t, int64(0), queued[0].LastPerformed)
	assert.Equal(t, behavior.RootID, queued[1].NodeID)
	assert.Equal(t, int64(1000), queued[1].LastPerformed)
}

func TestDwellGateReturnsPreviousResult(t *testing.T) {
	ai := NewAggressive(seeded(4))
	ctx := baseCtx()

	// never-run actions fire immediately; drive until the current one has
	// a real timestamp
	now := int64(1000)
	for ai.Current().LastPerformed == 0 {
		_, err := ai.Step(now, ctx)
		require.NoError(t, err)
		now++
	}
	cur := ai.Current()
	decisions := ai.Decisions()
	last, _, ok := ai.LastResult()
	require.True(t, ok)

	gated := cur.LastPerformed + DwellMS - 1
	got, err := ai.Step(gated, Context{Player: V(9, 9), Enemy: V(7, 7), Speed: 1})
	require.NoError(t, err)
	assert.Equal(t, last, got, "gated step replays the last decision")
	assert.Equal(t, decisions, ai.Decisions())
	assert.Equal(t, cur, ai.Current())
}

func TestDwellGateOpensAtExactlyDwell(t *testing.T) {
	ai := NewNormal(seeded(5))
	ctx := baseCtx()
	_, err := ai.Step(999, ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, ai.Decisions())
	_, err = ai.Step(1000, ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, ai.Decisions())
}

// --- Expansion ---

func TestExpansionOnce(t *testing.T) {
	for _, kind := range behavior.Archetypes() {
		t.Run(kind.String(), func(t *testing.T) {
			ai := New(kind, seeded(6))
			ctx := baseCtx()
			tree := ai.Tree()

			pushes := 0
			for now := int64(1000); now < 60000; now += 250 {
				before := ai.QueueLen()
				wasExpanded := ai.Expanded(ai.Current().NodeID)
				ran := ai.Current()
				prevDecisions := ai.Decisions()
				_, err := ai.Step(now, ctx)
				require.NoError(t, err)
				if ai.Decisions() == prevDecisions {
					continue
				}
				// a step pushes current back and pops one: net zero, plus
				// two more the first time a branch runs
				grew := ai.QueueLen() - before
				_, _, hasKids := tree.Children(ran.NodeID)
				if !wasExpanded && hasKids {
					assert.Equal(t, 2, grew, "first run of %v", ran)
					pushes += 2
				} else {
					assert.Equal(t, 0, grew, "rerun of %v", ran)
				}
			}
			// every non-root node ends up queued exactly once, plus the
			// one held as current
			assert.Equal(t, tree.Len(), ai.QueueLen()+1)
			assert.Equal(t, tree.Len()-3, pushes, "root children seeded at construction")
		})
	}
}

func TestEveryNodeEventuallyRuns(t *testing.T) {
	ai := NewNormal(seeded(7))
	ctx := baseCtx()
	seen := map[behavior.NodeID]bool{}
	for now := int64(1000); now < 120000; now += 100 {
		seen[ai.Current().NodeID] = true
		_, err := ai.Step(now, ctx)
		require.NoError(t, err)
	}
	assert.Len(t, seen, ai.Tree().Len())
}

// --- Rule outcomes ---

func TestAttackPlayerRule(t *testing.T) {
	ctx := Context{Player: V(500, 500), Enemy: V(0, 0), Speed: 50}
	res := applyRule(seeded(8), behavior.AttackPlayer, ctx)
	assert.Equal(t, V(500, 500), res.EnemyTarget)
	assert.True(t, res.IsAttacking)
	assert.Equal(t, V(0, 0), res.EnemyPosition)
}

func TestMoveToPlayerRule(t *testing.T) {
	res := applyRule(seeded(9), behavior.MoveToPlayer, baseCtx())
	assert.Equal(t, V(100, 100), res.EnemyPosition)
	assert.False(t, res.IsAttacking)
}

func TestMoveToRandomStaysInBox(t *testing.T) {
	rng := seeded(10)
	ctx := Context{Player: V(0, 0), Enemy: V(3000, -2000), Speed: 10}
	for i := 0; i < 500; i++ {
		p := applyRule(rng, behavior.MoveToRandom, ctx).EnemyPosition
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, 4000.0)
		assert.GreaterOrEqual(t, p.Y, -3000.0)
		assert.Less(t, p.Y, ArenaHeight)
	}
}

func TestAttackRandomStaysWithinReachOfPlayer(t *testing.T) {
	for _, player := range []Vec2{V(960, 540), V(100, 100), V(1900, 60), V(-300, 2000)} {
		rng := seeded(11)
		ctx := Context{Player: player, Enemy: V(0, 0), Speed: 10}
		for i := 0; i < 1000; i++ {
			res := applyRule(rng, behavior.AttackRandom, ctx)
			require.True(t, res.IsAttacking)
			assert.Equal(t, ctx.Enemy, res.EnemyPosition)
			require.LessOrEqual(t, res.EnemyTarget.Dist(player), attackRandomReach,
				"player %v target %v", player, res.EnemyTarget)
		}
	}
}

func TestRunAwayRule(t *testing.T) {
	res := applyRule(seeded(12), behavior.RunAway, Context{Player: V(10, 0), Enemy: V(0, 0), Speed: 5})
	assert.True(t, res.EnemyPosition.Approx(V(-5, 0), 1e-9), "got %v", res.EnemyPosition)

	// coincident positions have no direction
	res = applyRule(seeded(12), behavior.RunAway, Context{Player: V(3, 3), Enemy: V(3, 3), Speed: 5})
	assert.Equal(t, V(3, 3), res.EnemyPosition)
	for _, c := range []float64{res.EnemyPosition.X, res.EnemyPosition.Y} {
		assert.False(t, math.IsNaN(c))
	}
}

func TestBlindDodgeRadius(t *testing.T) {
	rng := seeded(13)
	for i := 0; i < 500; i++ {
		p := BlindDodge(rng, V(200, 200))
		assert.Less(t, p.Dist(V(200, 200)), DodgeMaxDistance+1e-9)
	}
}

func TestElusiveDodgeUsesProjectiles(t *testing.T) {
	ai := NewElusive(seeded(14))
	ctx := Context{Player: V(900, 900), Enemy: V(0, 0), Speed: 20, Projectiles: []Vec2{V(10, 0)}}
	res := ai.evaluate(behavior.Dodge, ctx)
	assert.True(t, res.EnemyPosition.Approx(V(-20, 0), 1e-9), "got %v", res.EnemyPosition)
	assert.Equal(t, ctx.Player, res.EnemyTarget)

	// Normal dodges blind even with a projectile in range
	n := NewNormal(seeded(14))
	res = n.evaluate(behavior.Dodge, ctx)
	assert.Less(t, res.EnemyPosition.Dist(V(0, 0)), DodgeMaxDistance)
}

// --- Errors ---

func TestStepRejectsBadContext(t *testing.T) {
	cases := map[string]Context{
		"nan player":     {Player: V(math.NaN(), 0), Speed: 1},
		"inf enemy":      {Enemy: V(0, math.Inf(1)), Speed: 1},
		"negative speed": {Speed: -1},
		"nan speed":      {Speed: math.NaN()},
	}
	for name, ctx := range cases {
		t.Run(name, func(t *testing.T) {
			ai := NewNormal(seeded(15))
			before := ai.Current()
			_, err := ai.Step(5000, ctx)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidContext))
			assert.Equal(t, ErrInvalidContext, errors.Cause(err))
			assert.Equal(t, before, ai.Current())
			assert.Equal(t, 0, ai.Decisions())
			assert.Equal(t, 2, ai.QueueLen())
		})
	}
}

func TestStepUnknownArchetype(t *testing.T) {
	ai := New(behavior.Archetype(42), seeded(16))
	_, err := ai.Step(1000, baseCtx())
	assert.True(t, errors.Is(err, ErrUnknownArchetype))
	assert.Equal(t, 0, ai.Decisions())
}

func TestZeroValueAI(t *testing.T) {
	var ai AI
	_, err := ai.Step(1000, baseCtx())
	assert.Equal(t, ErrNotInitialized, err)

	var nilAI *AI
	_, err = nilAI.Step(1000, baseCtx())
	assert.Equal(t, ErrNotInitialized, err)
}

func TestSameSeedSameDecisions(t *testing.T) {
	run := func() []ScheduledAction {
		ai := NewNormal(seeded(99))
		ctx := baseCtx()
		var out []ScheduledAction
		for now := int64(1000); now < 30000; now += 333 {
			_, err := ai.Step(now, ctx)
			require.NoError(t, err)
			out = append(out, ai.Current())
		}
		return out
	}
	assert.Equal(t, run(), run())
}
