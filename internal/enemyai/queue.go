package enemyai

import (
	"container/heap"
	"fmt"
	"sort"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
)

// ScheduledAction is one pending unit of work: run Behavior for NodeID.
// LastPerformed is in simulation milliseconds; 0 means never run.
type ScheduledAction struct {
	Behavior      behavior.Behavior
	NodeID        behavior.NodeID
	LastPerformed int64
}

func (a ScheduledAction) String() string {
	return fmt.Sprintf("%s#%d@%d", a.Behavior, a.NodeID, a.LastPerformed)
}

type queueItem struct {
	action ScheduledAction
	seq    uint64 // insertion order, breaks timestamp ties FIFO
}

type actionHeap []queueItem

func (h actionHeap) Len() int { return len(h) }

// Less orders oldest LastPerformed first.
func (h actionHeap) Less(i, j int) bool {
	if h[i].action.LastPerformed != h[j].action.LastPerformed {
		return h[i].action.LastPerformed < h[j].action.LastPerformed
	}
	return h[i].seq < h[j].seq
}

func (h actionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *actionHeap) Push(x any) { *h = append(*h, x.(queueItem)) }

func (h *actionHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// ActionQueue is a priority queue of scheduled actions, least recently
// performed first.
type ActionQueue struct {
	items actionHeap
	seq   uint64
}

// NewActionQueue returns an empty queue.
func NewActionQueue() *ActionQueue {
	return &ActionQueue{}
}

func (q *ActionQueue) Len() int { return q.items.Len() }

// Push enqueues a.
func (q *ActionQueue) Push(a ScheduledAction) {
	heap.Push(&q.items, queueItem{action: a, seq: q.seq})
	q.seq++
}

// Pop removes the most overdue action. An empty queue yields a synthetic
// Idle on node 0 stamped nowMS, so callers always get something to run.
func (q *ActionQueue) Pop(nowMS int64) ScheduledAction {
	if q.items.Len() == 0 {
		return ScheduledAction{Behavior: behavior.Idle, NodeID: behavior.RootID, LastPerformed: nowMS}
	}
	return heap.Pop(&q.items).(queueItem).action
}

// Peek returns the action Pop would return, without removing it.
func (q *ActionQueue) Peek() (ScheduledAction, bool) {
	if q.items.Len() == 0 {
		return ScheduledAction{}, false
	}
	return q.items[0].action, true
}

// Snapshot returns the queued actions in pop order.
func (q *ActionQueue) Snapshot() []ScheduledAction {
	items := make(actionHeap, len(q.items))
	copy(items, q.items)
	sort.Sort(items)
	out := make([]ScheduledAction, len(items))
	for i, it := range items {
		out[i] = it.action
	}
	return out
}
