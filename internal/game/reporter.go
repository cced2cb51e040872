package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
)

// reportWindowTicks is the default sliding window for recent-behaviour reports (~10s at 60TPS).
const reportWindowTicks = 600

// --- Snapshot types ---

// ArchetypeReport captures one archetype's enemies at one point in time.
type ArchetypeReport struct {
	Alive     int
	Bosses    int
	Attacking int // enemies holding an unfired attack decision
	Moving    int
	AvgHP     float64
	Behaviors map[behavior.Behavior]int // most recent decision per enemy
	AIErrors  int
}

// EnemyReport captures a single enemy's state.
type EnemyReport struct {
	ID        int
	Label     string
	Archetype behavior.Archetype
	Boss      bool
	State     EnemyState
	HP        float64
	Last      behavior.Behavior
	Next      behavior.Behavior
	QueueLen  int
	Decisions int
}

// SimReport is a full snapshot of the arena at one tick.
type SimReport struct {
	Tick        int
	Wave        int
	PlayerHP    float64
	Projectiles int

	PerArchetype map[behavior.Archetype]*ArchetypeReport

	// Enemies detail (optional, for verbose mode).
	Enemies []EnemyReport
}

// --- Reporter ---

// SimReporter collects periodic reports from the arena and can produce
// summaries over sliding time windows.
type SimReporter struct {
	history     []SimReport
	windowTicks int
	verbose     bool
}

// NewSimReporter creates a reporter with the given window size.
func NewSimReporter(windowTicks int, verbose bool) *SimReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &SimReporter{
		windowTicks: windowTicks,
		verbose:     verbose,
	}
}

// Collect gathers a snapshot from the current arena state.
// Call this periodically (e.g. every 60 ticks / 1s).
func (r *SimReporter) Collect(tick, wave int, player *Player, enemies []*Enemy, projectiles int) {
	report := SimReport{
		Tick:         tick,
		Wave:         wave,
		Projectiles:  projectiles,
		PerArchetype: make(map[behavior.Archetype]*ArchetypeReport),
	}
	if player != nil {
		report.PlayerHP = player.hp
	}

	for _, e := range enemies {
		r.tallyEnemy(e, &report)
	}
	for _, ar := range report.PerArchetype {
		if ar.Alive > 0 {
			ar.AvgHP /= float64(ar.Alive)
		}
	}

	r.history = append(r.history, report)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2 // reports per second * 2 windows
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

func (r *SimReporter) tallyEnemy(e *Enemy, report *SimReport) {
	if !e.Alive() {
		return
	}
	ar, ok := report.PerArchetype[e.kind]
	if !ok {
		ar = &ArchetypeReport{Behaviors: make(map[behavior.Behavior]int)}
		report.PerArchetype[e.kind] = ar
	}
	ar.Alive++
	ar.AvgHP += e.hp
	ar.AIErrors += e.aiErrors
	if e.boss {
		ar.Bosses++
	}
	if e.attackPending {
		ar.Attacking++
	}
	if e.state == EnemyStateMoving {
		ar.Moving++
	}
	last, decided := e.LastBehavior()
	if decided {
		ar.Behaviors[last]++
	}

	if r.verbose {
		report.Enemies = append(report.Enemies, EnemyReport{
			ID:        e.id,
			Label:     e.label,
			Archetype: e.kind,
			Boss:      e.boss,
			State:     e.state,
			HP:        e.hp,
			Last:      last,
			Next:      e.ai.Current().Behavior,
			QueueLen:  e.ai.QueueLen(),
			Decisions: e.ai.Decisions(),
		})
	}
}

// Latest returns the most recent report, or nil if none collected yet.
func (r *SimReporter) Latest() *SimReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// WindowSummary returns an aggregated summary over the recent time window.
// It averages behaviour proportions, alive counts and player health across
// all reports in the window.
func (r *SimReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	// Find reports within the window.
	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []SimReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	if len(window) == 0 {
		return nil
	}

	n := float64(len(window))
	wr := &WindowReport{
		FromTick:     window[len(window)-1].Tick,
		ToTick:       window[0].Tick,
		SampleCount:  len(window),
		FromWave:     window[len(window)-1].Wave,
		ToWave:       window[0].Wave,
		BehaviorPct:  make(map[behavior.Archetype]map[behavior.Behavior]float64),
		AvgAlive:     make(map[behavior.Archetype]float64),
		AvgAttacking: make(map[behavior.Archetype]float64),
	}

	totals := make(map[behavior.Archetype]map[behavior.Behavior]float64)
	sums := make(map[behavior.Archetype]float64)

	for _, rpt := range window {
		wr.AvgPlayerHP += rpt.PlayerHP
		wr.AvgProjectiles += float64(rpt.Projectiles)
		for k, ar := range rpt.PerArchetype {
			wr.AvgAlive[k] += float64(ar.Alive)
			wr.AvgAttacking[k] += float64(ar.Attacking)
			if _, ok := totals[k]; !ok {
				totals[k] = make(map[behavior.Behavior]float64)
			}
			for b, c := range ar.Behaviors {
				totals[k][b] += float64(c)
				sums[k] += float64(c)
			}
		}
	}

	// Behaviour percentages.
	for k, m := range totals {
		if sums[k] == 0 {
			continue
		}
		pct := make(map[behavior.Behavior]float64, len(m))
		for b, c := range m {
			pct[b] = c / sums[k] * 100
		}
		wr.BehaviorPct[k] = pct
	}

	// Averages.
	wr.AvgPlayerHP /= n
	wr.AvgProjectiles /= n
	for k := range wr.AvgAlive {
		wr.AvgAlive[k] /= n
		wr.AvgAttacking[k] /= n
	}

	return wr
}

// WindowReport is an aggregated summary over a time window.
type WindowReport struct {
	FromTick, ToTick int
	SampleCount      int
	FromWave, ToWave int

	// Behaviour distribution per archetype as percentages (0-100).
	BehaviorPct map[behavior.Archetype]map[behavior.Behavior]float64

	// Averages over the window.
	AvgAlive       map[behavior.Archetype]float64
	AvgAttacking   map[behavior.Archetype]float64
	AvgPlayerHP    float64
	AvgProjectiles float64
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Behaviour Report (T=%d..%d, %d samples, wave %d..%d) ===\n",
		wr.FromTick, wr.ToTick, wr.SampleCount, wr.FromWave, wr.ToWave)

	for _, k := range behavior.Archetypes() {
		pct, ok := wr.BehaviorPct[k]
		if !ok && wr.AvgAlive[k] == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n--- %s (alive=%.1f attacking=%.1f) ---\n",
			strings.ToUpper(k.String()), wr.AvgAlive[k], wr.AvgAttacking[k])
		for _, b := range behavior.Behaviors() {
			if p, ok := pct[b]; ok && p > 0.5 {
				fmt.Fprintf(&sb, "  %-16s %5.1f%%\n", b, p)
			}
		}
	}

	sb.WriteString("\n--- Pressure ---\n")
	fmt.Fprintf(&sb, "  player hp=%.1f  projectiles in flight=%.1f\n", wr.AvgPlayerHP, wr.AvgProjectiles)
	fmt.Fprintf(&sb, "  threat: %s\n", pressureLabel(wr.AvgProjectiles))

	return sb.String()
}

func pressureLabel(projectiles float64) string {
	switch {
	case projectiles > 60:
		return "bullet hell"
	case projectiles > 20:
		return "heavy"
	case projectiles > 5:
		return "moderate"
	default:
		return "light"
	}
}

// FormatLatest returns a concise snapshot of the most recent collected report.
func (r *SimReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot T=%d wave=%d ---\n", rpt.Tick, rpt.Wave)
	fmt.Fprintf(&sb, "Player: hp=%.0f  projectiles=%d\n", rpt.PlayerHP, rpt.Projectiles)
	for _, k := range behavior.Archetypes() {
		ar, ok := rpt.PerArchetype[k]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "%-10s alive=%d bosses=%d moving=%d attacking=%d avg_hp=%.0f errors=%d\n",
			k, ar.Alive, ar.Bosses, ar.Moving, ar.Attacking, ar.AvgHP, ar.AIErrors)
		sb.WriteString("           ")
		for _, b := range behavior.Behaviors() {
			if c := ar.Behaviors[b]; c > 0 {
				fmt.Fprintf(&sb, "%s=%d ", b, c)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// History returns all collected reports.
func (r *SimReporter) History() []SimReport {
	return r.history
}

// BehaviorProportions computes the share of each most-recent decision across
// live enemies at the current moment. Enemies that have not decided yet are
// skipped. Returns a map of Behavior → fraction (0-1).
func BehaviorProportions(enemies []*Enemy) map[behavior.Behavior]float64 {
	counts := make(map[behavior.Behavior]int)
	total := 0
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		b, ok := e.LastBehavior()
		if !ok {
			continue
		}
		counts[b]++
		total++
	}
	props := make(map[behavior.Behavior]float64, len(counts))
	if total > 0 {
		for b, c := range counts {
			props[b] = float64(c) / float64(total)
		}
	}
	return props
}
