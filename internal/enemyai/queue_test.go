package enemyai

import (
	"testing"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func act(b behavior.Behavior, id behavior.NodeID, at int64) ScheduledAction {
	return ScheduledAction{Behavior: b, NodeID: id, LastPerformed: at}
}

func TestQueuePopsLeastRecent(t *testing.T) {
	q := NewActionQueue()
	q.Push(act(behavior.Dodge, 5, 3000))
	q.Push(act(behavior.MoveToPlayer, 2, 1000))
	q.Push(act(behavior.AttackPlayer, 6, 2000))
	q.Push(act(behavior.Idle, 0, 500))

	var order []behavior.NodeID
	for q.Len() > 0 {
		order = append(order, q.Pop(9999).NodeID)
	}
	assert.Equal(t, []behavior.NodeID{0, 2, 6, 5}, order)
}

func TestQueueTiesAreFIFO(t *testing.T) {
	q := NewActionQueue()
	for id := behavior.NodeID(1); id <= 6; id++ {
		q.Push(act(behavior.Idle, id, 0))
	}
	for id := behavior.NodeID(1); id <= 6; id++ {
		assert.Equal(t, id, q.Pop(0).NodeID)
	}
}

func TestQueueEmptyPopIsIdle(t *testing.T) {
	q := NewActionQueue()
	got := q.Pop(4242)
	assert.Equal(t, act(behavior.Idle, behavior.RootID, 4242), got)
	assert.Equal(t, 0, q.Len())

	_, ok := q.Peek()
	assert.False(t, ok)
}

func TestQueuePeekMatchesPop(t *testing.T) {
	q := NewActionQueue()
	q.Push(act(behavior.RunAway, 3, 70))
	q.Push(act(behavior.Dodge, 4, 10))
	peeked, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 2, q.Len())
	assert.Equal(t, peeked, q.Pop(0))
}

func TestQueueSnapshotDoesNotDrain(t *testing.T) {
	q := NewActionQueue()
	q.Push(act(behavior.Dodge, 5, 30))
	q.Push(act(behavior.Dodge, 6, 10))
	q.Push(act(behavior.Dodge, 7, 20))

	snap := q.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []behavior.NodeID{6, 7, 5}, []behavior.NodeID{snap[0].NodeID, snap[1].NodeID, snap[2].NodeID})
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, behavior.NodeID(6), q.Pop(0).NodeID)
}

func TestScheduledActionString(t *testing.T) {
	assert.Equal(t, "attack_player#6@2000", act(behavior.AttackPlayer, 6, 2000).String())
}
