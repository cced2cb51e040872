package behavior

// Behavior is an atomic action an enemy can be doing.
type Behavior int

const (
	Idle         Behavior = iota // hold position
	MoveToPlayer                 // close on the player
	MoveToRandom                 // reposition somewhere in or around the arena
	AttackPlayer                 // fire straight at the player
	AttackRandom                 // fire into the area around the player
	RunAway                      // step directly away from the player
	Dodge                        // sidestep
)

var behaviorNames = [...]string{
	Idle:         "idle",
	MoveToPlayer: "move_to_player",
	MoveToRandom: "move_to_random",
	AttackPlayer: "attack_player",
	AttackRandom: "attack_random",
	RunAway:      "run_away",
	Dodge:        "dodge",
}

func (b Behavior) String() string {
	if b < 0 || int(b) >= len(behaviorNames) {
		return "unknown"
	}
	return behaviorNames[b]
}

// Valid reports whether b is a member of the catalog.
func (b Behavior) Valid() bool {
	return b >= 0 && int(b) < len(behaviorNames)
}

// IsAttack reports whether the behavior expresses an intent to fire.
func (b Behavior) IsAttack() bool {
	return b == AttackPlayer || b == AttackRandom
}

// IsMovement reports whether the behavior proposes a new position.
func (b Behavior) IsMovement() bool {
	switch b {
	case MoveToPlayer, MoveToRandom, RunAway, Dodge:
		return true
	}
	return false
}

// Behaviors returns the whole catalog in declaration order.
func Behaviors() []Behavior {
	out := make([]Behavior, len(behaviorNames))
	for i := range behaviorNames {
		out[i] = Behavior(i)
	}
	return out
}

// ParseBehavior maps a snake_case name back to its Behavior.
func ParseBehavior(name string) (Behavior, bool) {
	for i, n := range behaviorNames {
		if n == name {
			return Behavior(i), true
		}
	}
	return Idle, false
}

// Archetype names an enemy behavior profile backed by its own static tree.
type Archetype int

const (
	Normal     Archetype = iota // balanced, deeper tree
	Aggressive                  // reaches attack leaves in two hops
	Elusive                     // favours running and dodging
	archetypeCount
)

func (a Archetype) String() string {
	switch a {
	case Normal:
		return "normal"
	case Aggressive:
		return "aggressive"
	case Elusive:
		return "elusive"
	default:
		return "unknown"
	}
}

// Valid reports whether a is one of the three archetypes.
func (a Archetype) Valid() bool {
	return a >= Normal && a < archetypeCount
}

// Archetypes lists every archetype.
func Archetypes() []Archetype {
	return []Archetype{Normal, Aggressive, Elusive}
}

// ParseArchetype accepts the String form of an archetype.
func ParseArchetype(name string) (Archetype, bool) {
	for _, a := range Archetypes() {
		if a.String() == name {
			return a, true
		}
	}
	return Normal, false
}
