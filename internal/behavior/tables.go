package behavior

// --- Static tree tables ---
//
// Ids are fixed. The root is always 0 with children 1 and 2.

func normalTable() (Node, []Node) {
	return RootNode(0, Idle, 1, 2), []Node{
		Branch(1, MoveToRandom, 0, 3, 4),
		Branch(2, MoveToPlayer, 0, 5, 6),
		Branch(3, AttackRandom, 1, 7, 8),
		Branch(4, MoveToPlayer, 1, 9, 10),
		Leaf(5, Dodge, 2),
		Leaf(6, AttackPlayer, 2),
		Leaf(7, MoveToPlayer, 3),
		Leaf(8, AttackPlayer, 3),
		Leaf(9, Dodge, 4),
		Leaf(10, AttackPlayer, 4),
	}
}

func aggressiveTable() (Node, []Node) {
	return RootNode(0, Idle, 1, 2), []Node{
		Branch(1, MoveToPlayer, 0, 3, 4),
		Branch(2, AttackPlayer, 0, 5, 6),
		Leaf(3, MoveToRandom, 1),
		Leaf(4, AttackPlayer, 1),
		Leaf(5, MoveToPlayer, 2),
		Leaf(6, AttackPlayer, 2),
	}
}

// elusiveTable mirrors the aggressive shape with evasive behaviors swapped in.
func elusiveTable() (Node, []Node) {
	return RootNode(0, Idle, 1, 2), []Node{
		Branch(1, RunAway, 0, 3, 4),
		Branch(2, Dodge, 0, 5, 6),
		Leaf(3, MoveToRandom, 1),
		Leaf(4, AttackPlayer, 1),
		Leaf(5, RunAway, 2),
		Leaf(6, Dodge, 2),
	}
}

func table(kind Archetype) (Node, []Node) {
	switch kind {
	case Aggressive:
		return aggressiveTable()
	case Elusive:
		return elusiveTable()
	default:
		return normalTable()
	}
}
