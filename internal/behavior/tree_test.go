package behavior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTreesAreWellFormed(t *testing.T) {
	for _, kind := range Archetypes() {
		t.Run(kind.String(), func(t *testing.T) {
			tree := NewTree(kind)
			require.NoError(t, tree.Validate())

			seen := map[NodeID]int{}
			tree.Walk(func(n Node, _ int) { seen[n.ID()]++ })
			assert.Len(t, seen, tree.Len(), "every node reachable from root")
			for id, n := range seen {
				assert.Equal(t, 1, n, "node %d visited more than once", id)
			}

			for _, n := range append(tree.Nodes(), tree.Root()) {
				l, r, ok := tree.Children(n.ID())
				if !ok {
					continue
				}
				_, lok := tree.Node(l)
				_, rok := tree.Node(r)
				assert.True(t, lok, "left child %d of %d resolves", l, n.ID())
				assert.True(t, rok, "right child %d of %d resolves", r, n.ID())
			}
		})
	}
}

func TestNormalTreeShape(t *testing.T) {
	tree := NewTree(Normal)
	assert.Equal(t, 11, tree.Len())
	assert.Equal(t, 3, tree.Depth())
	assert.Equal(t, Idle, tree.Root().Behavior())

	want := map[NodeID]Behavior{
		1: MoveToRandom, 2: MoveToPlayer,
		3: AttackRandom, 4: MoveToPlayer,
		5: Dodge, 6: AttackPlayer,
		7: MoveToPlayer, 8: AttackPlayer,
		9: Dodge, 10: AttackPlayer,
	}
	for id, b := range want {
		got, ok := tree.BehaviorOf(id)
		require.True(t, ok, "node %d", id)
		assert.Equal(t, b, got, "node %d", id)
	}

	l, r, ok := tree.Children(4)
	require.True(t, ok)
	assert.Equal(t, NodeID(9), l)
	assert.Equal(t, NodeID(10), r)

	p, ok := tree.Parent(10)
	require.True(t, ok)
	assert.Equal(t, NodeID(4), p)
}

func TestAggressiveReachesAttackInTwoHops(t *testing.T) {
	tree := NewTree(Aggressive)
	assert.Equal(t, 7, tree.Len())
	assert.Equal(t, 2, tree.Depth())

	b, _ := tree.BehaviorOf(2)
	assert.Equal(t, AttackPlayer, b)

	attacks := 0
	tree.Walk(func(n Node, _ int) {
		if n.Behavior().IsAttack() {
			attacks++
		}
	})
	assert.Equal(t, 3, attacks)
}

func TestElusiveFavoursEvasion(t *testing.T) {
	tree := NewTree(Elusive)
	assert.Equal(t, 2, tree.Depth())

	evasive, engage := 0, 0
	tree.Walk(func(n Node, _ int) {
		if !n.IsLeaf() {
			return
		}
		switch n.Behavior() {
		case RunAway, Dodge, MoveToRandom:
			evasive++
		case AttackPlayer, AttackRandom, MoveToPlayer:
			engage++
		}
	})
	assert.Greater(t, evasive, engage)
}

func TestLookupMissIsNotAnError(t *testing.T) {
	tree := NewTree(Normal)

	_, ok := tree.Node(99)
	assert.False(t, ok)
	_, ok = tree.BehaviorOf(99)
	assert.False(t, ok)
	_, ok = tree.Parent(99)
	assert.False(t, ok)
	_, _, ok = tree.Children(99)
	assert.False(t, ok)

	_, _, ok = tree.Children(7)
	assert.False(t, ok, "leaf has no children")
	_, ok = tree.Parent(RootID)
	assert.False(t, ok, "root has no parent")
}

func TestRootChildrenHardcoded(t *testing.T) {
	// Root entry claims other children; expansion still uses 1 and 2.
	tree := newTreeFromTable(Normal, RootNode(0, Idle, 7, 8), NewTree(Normal).Nodes())
	l, r, ok := tree.Children(RootID)
	require.True(t, ok)
	assert.Equal(t, NodeID(1), l)
	assert.Equal(t, NodeID(2), r)
	assert.Error(t, tree.Validate())
}

func TestValidateRejectsMalformedTables(t *testing.T) {
	cases := []struct {
		name  string
		root  Node
		nodes []Node
	}{
		{
			name: "duplicate id",
			root: RootNode(0, Idle, 1, 2),
			nodes: []Node{
				Leaf(1, Dodge, 0),
				Leaf(2, Dodge, 0),
				Leaf(2, RunAway, 0),
			},
		},
		{
			name:  "missing child",
			root:  RootNode(0, Idle, 1, 2),
			nodes: []Node{Leaf(1, Dodge, 0)},
		},
		{
			name: "second root",
			root: RootNode(0, Idle, 1, 2),
			nodes: []Node{
				Leaf(1, Dodge, 0),
				Leaf(2, Dodge, 0),
				RootNode(3, Idle, 1, 2),
			},
		},
		{
			name: "wrong parent link",
			root: RootNode(0, Idle, 1, 2),
			nodes: []Node{
				Leaf(1, Dodge, 0),
				Leaf(2, Dodge, 1),
			},
		},
		{
			name: "unreachable node",
			root: RootNode(0, Idle, 1, 2),
			nodes: []Node{
				Leaf(1, Dodge, 0),
				Leaf(2, Dodge, 0),
				Leaf(3, Dodge, 2),
			},
		},
		{
			name: "cycle",
			root: RootNode(0, Idle, 1, 2),
			nodes: []Node{
				Branch(1, Dodge, 0, 0, 2),
				Leaf(2, Dodge, 0),
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree := newTreeFromTable(Normal, tc.root, tc.nodes)
			assert.Error(t, tree.Validate())
		})
	}
}

func TestCurrentNodeTracking(t *testing.T) {
	tree := NewTree(Elusive)
	assert.Equal(t, RootID, tree.Current())
	tree.SetCurrent(5)
	assert.Equal(t, NodeID(5), tree.Current())
}

func TestNodesReturnsCopy(t *testing.T) {
	tree := NewTree(Aggressive)
	nodes := tree.Nodes()
	nodes[0] = Leaf(1, RunAway, 0)
	b, _ := tree.BehaviorOf(1)
	assert.Equal(t, MoveToPlayer, b)
}
