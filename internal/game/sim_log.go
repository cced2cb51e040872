package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
)

// SimLogEntry is one recorded event during an arena run.
type SimLogEntry struct {
	Tick      int
	Enemy     string  // label e.g. "N3", "E0", or "--" for global events
	Archetype string  // "normal", "aggressive", "elusive", or "--"
	Category  string  // ai, combat, wave, player, move
	Key       string  // specific event name within the category
	Value     string  // human-readable detail
	NumVal    float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] A5   ai        decision         attack_player#2
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Enemy, e.Category, e.Key, e.Value)
}

// SimLog collects structured events during an arena run.
// Unlike ThoughtLog (UI ring-buffer), SimLog is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position entries
// are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, enemy, archetype, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:      tick,
		Enemy:     enemy,
		Archetype: archetype,
		Category:  category,
		Key:       key,
		Value:     value,
		NumVal:    numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, enemy, archetype, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, enemy, archetype, category, key, value, numVal)
}

// addEnemy is Add with the label and archetype taken from e.
func (sl *SimLog) addEnemy(tick int, e *Enemy, category, key, value string, numVal float64) {
	sl.Add(tick, e.label, e.kind.String(), category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterEnemy returns entries for a specific enemy label.
func (sl *SimLog) FilterEnemy(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Enemy == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (sl *SimLog) FilterTickRange(fromTick, toTick int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatRange returns a log string filtered to a tick range.
func (sl *SimLog) FormatRange(fromTick, toTick int) string {
	var sb strings.Builder
	for _, e := range sl.FilterTickRange(fromTick, toTick) {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// BehaviorCounts tallies executed decisions per archetype and behavior.
func (sl *SimLog) BehaviorCounts() map[string]map[string]int {
	out := map[string]map[string]int{}
	for _, e := range sl.Filter("ai", "decision") {
		m, ok := out[e.Archetype]
		if !ok {
			m = map[string]int{}
			out[e.Archetype] = m
		}
		name := e.Value
		if i := strings.IndexByte(name, '#'); i >= 0 {
			name = name[:i]
		}
		m[name]++
	}
	return out
}

// Summary returns a short human-readable summary of the arena state.
func (sl *SimLog) Summary(tick int, player *Player, enemies []*Enemy) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)

	// Current behavior per archetype.
	counts := map[behavior.Archetype]map[behavior.Behavior]int{}
	for _, e := range enemies {
		b, ok := e.LastBehavior()
		if !ok || !e.Alive() {
			continue
		}
		if _, ok := counts[e.kind]; !ok {
			counts[e.kind] = map[behavior.Behavior]int{}
		}
		counts[e.kind][b]++
	}
	for _, k := range behavior.Archetypes() {
		c, ok := counts[k]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%s: ", k)
		for _, b := range behavior.Behaviors() {
			if n := c[b]; n > 0 {
				fmt.Fprintf(&sb, "%s=%d  ", b, n)
			}
		}
		sb.WriteByte('\n')
	}

	alive := 0
	var labels []string
	for _, e := range enemies {
		if e.Alive() {
			alive++
			if e.attackPending {
				labels = append(labels, e.label)
			}
		}
	}
	sort.Strings(labels)
	fmt.Fprintf(&sb, "Enemies alive: %d\n", alive)
	if len(labels) > 0 {
		fmt.Fprintf(&sb, "Attacking: [%s]\n", strings.Join(labels, ", "))
	} else {
		sb.WriteString("Attacking: none\n")
	}
	if player != nil {
		fmt.Fprintf(&sb, "Player: hp=%.0f at %v\n", player.hp, player.pos)
	}
	return sb.String()
}
