package behavior

import (
	"fmt"

	"github.com/pkg/errors"
)

// NodeID identifies a node within one tree.
type NodeID uint32

// RootID is the id every static tree gives its root.
const RootID NodeID = 0

// Root children are fixed by convention so expansion of the root never
// depends on the table being intact.
const (
	rootLeftID  NodeID = 1
	rootRightID NodeID = 2
)

// Node is one entry of a behavior tree table. A node is either a leaf or has
// exactly two children.
type Node struct {
	id        NodeID
	behavior  Behavior
	parent    NodeID
	hasParent bool
	left      NodeID
	right     NodeID
	hasKids   bool
}

// RootNode builds a parentless branch node.
func RootNode(id NodeID, b Behavior, left, right NodeID) Node {
	return Node{id: id, behavior: b, left: left, right: right, hasKids: true}
}

// Branch builds a node with a parent and two children.
func Branch(id NodeID, b Behavior, parent, left, right NodeID) Node {
	return Node{id: id, behavior: b, parent: parent, hasParent: true, left: left, right: right, hasKids: true}
}

// Leaf builds a childless node.
func Leaf(id NodeID, b Behavior, parent NodeID) Node {
	return Node{id: id, behavior: b, parent: parent, hasParent: true}
}

func (n Node) ID() NodeID         { return n.id }
func (n Node) Behavior() Behavior { return n.behavior }

// Parent returns the parent id, or false for a root.
func (n Node) Parent() (NodeID, bool) {
	return n.parent, n.hasParent
}

// Children returns the (left, right) pair, or false for a leaf.
func (n Node) Children() (NodeID, NodeID, bool) {
	return n.left, n.right, n.hasKids
}

// IsLeaf reports whether the node has no children.
func (n Node) IsLeaf() bool { return !n.hasKids }

func (n Node) String() string {
	if n.hasKids {
		return fmt.Sprintf("#%d %s -> {%d, %d}", n.id, n.behavior, n.left, n.right)
	}
	return fmt.Sprintf("#%d %s", n.id, n.behavior)
}

// Tree is an immutable behavior tree for one archetype. Lookups scan nodes
// linearly; trees never exceed a dozen entries.
type Tree struct {
	kind    Archetype
	root    Node
	nodes   []Node
	current NodeID
}

// NewTree builds the static tree for kind. Unknown kinds get the Normal tree.
func NewTree(kind Archetype) *Tree {
	root, nodes := table(kind)
	if !kind.Valid() {
		kind = Normal
	}
	return &Tree{kind: kind, root: root, nodes: nodes, current: root.id}
}

// newTreeFromTable is used by tests to exercise malformed tables.
func newTreeFromTable(kind Archetype, root Node, nodes []Node) *Tree {
	return &Tree{kind: kind, root: root, nodes: nodes, current: root.id}
}

func (t *Tree) Archetype() Archetype { return t.kind }
func (t *Tree) Root() Node           { return t.root }

// Len counts every node including the root.
func (t *Tree) Len() int { return len(t.nodes) + 1 }

// Nodes returns a copy of the non-root table.
func (t *Tree) Nodes() []Node {
	out := make([]Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Node looks up id. An unknown id is not an error.
func (t *Tree) Node(id NodeID) (Node, bool) {
	if id == t.root.id {
		return t.root, true
	}
	for _, n := range t.nodes {
		if n.id == id {
			return n, true
		}
	}
	return Node{}, false
}

// BehaviorOf returns the behavior tag of id.
func (t *Tree) BehaviorOf(id NodeID) (Behavior, bool) {
	n, ok := t.Node(id)
	if !ok {
		return Idle, false
	}
	return n.behavior, true
}

// Parent returns the parent of id, if any.
func (t *Tree) Parent(id NodeID) (NodeID, bool) {
	n, ok := t.Node(id)
	if !ok {
		return 0, false
	}
	return n.Parent()
}

// Children returns the child pair of id. The root always answers (1, 2)
// regardless of what its table entry says.
func (t *Tree) Children(id NodeID) (NodeID, NodeID, bool) {
	if id == RootID {
		return rootLeftID, rootRightID, true
	}
	for _, n := range t.nodes {
		if n.id == id {
			return n.Children()
		}
	}
	return 0, 0, false
}

// Current is the node the owning AI last selected. Informational only.
func (t *Tree) Current() NodeID { return t.current }

// SetCurrent records the node the owning AI is running.
func (t *Tree) SetCurrent(id NodeID) { t.current = id }

// Walk visits every node reachable from the root, depth first, left before
// right. Children that do not resolve are skipped; each id is visited once.
func (t *Tree) Walk(fn func(n Node, depth int)) {
	seen := make(map[NodeID]bool, t.Len())
	var visit func(id NodeID, depth int)
	visit = func(id NodeID, depth int) {
		if seen[id] {
			return
		}
		n, ok := t.Node(id)
		if !ok {
			return
		}
		seen[id] = true
		fn(n, depth)
		if l, r, ok := t.Children(id); ok {
			visit(l, depth+1)
			visit(r, depth+1)
		}
	}
	visit(t.root.id, 0)
}

// Depth is the longest root-to-leaf edge count.
func (t *Tree) Depth() int {
	deepest := 0
	t.Walk(func(_ Node, d int) {
		if d > deepest {
			deepest = d
		}
	})
	return deepest
}

// Validate checks the table invariants: a single parentless root, unique
// ids, binary branching, parents that exist and agree with the child links,
// and every node reachable exactly once from the root.
func (t *Tree) Validate() error {
	if _, ok := t.root.Parent(); ok {
		return errors.Errorf("%s tree: root #%d has a parent", t.kind, t.root.id)
	}
	if t.root.IsLeaf() {
		return errors.Errorf("%s tree: root #%d has no children", t.kind, t.root.id)
	}

	ids := map[NodeID]Node{t.root.id: t.root}
	for _, n := range t.nodes {
		if _, dup := ids[n.id]; dup {
			return errors.Errorf("%s tree: duplicate node id %d", t.kind, n.id)
		}
		if _, ok := n.Parent(); !ok {
			return errors.Errorf("%s tree: node #%d is a second root", t.kind, n.id)
		}
		ids[n.id] = n
	}

	childOf := map[NodeID]NodeID{}
	for _, n := range ids {
		l, r, ok := n.Children()
		if !ok {
			continue
		}
		if l == r {
			return errors.Errorf("%s tree: node #%d lists child %d twice", t.kind, n.id, l)
		}
		for _, c := range []NodeID{l, r} {
			child, exists := ids[c]
			if !exists {
				return errors.Errorf("%s tree: node #%d has missing child %d", t.kind, n.id, c)
			}
			if p, _ := child.Parent(); p != n.id {
				return errors.Errorf("%s tree: node #%d claims parent %d but is a child of %d", t.kind, c, p, n.id)
			}
			if prev, taken := childOf[c]; taken {
				return errors.Errorf("%s tree: node #%d is a child of both %d and %d", t.kind, c, prev, n.id)
			}
			childOf[c] = n.id
		}
	}

	for _, n := range t.nodes {
		p, _ := n.Parent()
		if _, ok := ids[p]; !ok {
			return errors.Errorf("%s tree: node #%d references missing parent %d", t.kind, n.id, p)
		}
	}

	if l, r, _ := t.root.Children(); l != rootLeftID || r != rootRightID {
		return errors.Errorf("%s tree: root children are {%d, %d}, want {%d, %d}", t.kind, l, r, rootLeftID, rootRightID)
	}

	visited := 0
	t.Walk(func(Node, int) { visited++ })
	if visited != len(ids) {
		return errors.Errorf("%s tree: %d of %d nodes reachable from root", t.kind, visited, len(ids))
	}
	return nil
}
