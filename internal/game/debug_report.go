package game

import (
	"fmt"
	"strings"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
)

// DebugReport renders a copyable text dump of one enemy's decision state:
// the scheduler, the explored part of its tree and its recent decisions.
func (a *Arena) DebugReport(e *Enemy, lastTicks int) string {
	if e == nil {
		return ""
	}
	if lastTicks <= 0 {
		lastTicks = 600
	}
	toTick := a.tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- RaiderSense debug report ---\n")
	fmt.Fprintf(&b, "seed=%d tick_range=[%d..%d] now=%dms wave=%d kills=%d\n",
		a.seed, fromTick, toTick, a.nowMS, a.Waves.Wave(), a.kills)
	boss := ""
	if e.boss {
		boss = " [BOSS]"
	}
	fmt.Fprintf(&b, "selected=%s archetype=%s%s hp=%.0f/%.0f state=%s\n",
		e.label, e.kind, boss, e.hp, e.maxHP, e.state)
	fmt.Fprintf(&b, "pos=%v target=%v aim=%v speed=%.0f\n", e.pos, e.target, e.aim, e.velocity)
	fmt.Fprintf(&b, "weapon: armed=%t cooldown=%dms pending=%t shots=%d hits=%d\n\n",
		e.armed, e.cooldownMS, e.attackPending, e.shots, e.hits)

	ai := e.ai
	cur := ai.Current()
	b.WriteString("== scheduler ==\n")
	fmt.Fprintf(&b, "current: %s  decisions=%d errors=%d\n", cur, ai.Decisions(), e.aiErrors)
	if res, at, ok := ai.LastResult(); ok {
		fmt.Fprintf(&b, "last result @%dms: pos=%v aim=%v attacking=%t\n",
			at, res.EnemyPosition, res.EnemyTarget, res.IsAttacking)
	} else {
		b.WriteString("last result: (none yet)\n")
	}
	queued := ai.Queued()
	fmt.Fprintf(&b, "queue (%d):\n", len(queued))
	for i, q := range queued {
		fmt.Fprintf(&b, "  %02d) %s\n", i+1, q)
	}

	b.WriteString("\n== tree ==\n")
	tree := ai.Tree()
	tree.Walk(func(n behavior.Node, depth int) {
		mark := " "
		switch {
		case n.ID() == cur.NodeID:
			mark = ">"
		case ai.Expanded(n.ID()):
			mark = "+"
		}
		fmt.Fprintf(&b, "%s%s%s#%d\n", mark, strings.Repeat("  ", depth), n.Behavior(), n.ID())
	})

	b.WriteString("\n== decisions ==\n")
	recs := e.decisionsBetween(fromTick, toTick)
	if len(recs) == 0 {
		b.WriteString("(no decisions recorded yet)\n")
		return b.String()
	}
	sum := summarizeDecisions(recs)
	fmt.Fprintf(&b, "summary: n=%d attacks=%d maxGapMS=%d minGapMS=%d\n",
		len(recs), sum.attacks, sum.maxGapMS, sum.minGapMS)
	b.WriteString("mix:")
	for _, bh := range behavior.Behaviors() {
		if c := sum.counts[bh]; c > 0 {
			fmt.Fprintf(&b, " %s=%d", bh, c)
		}
	}
	b.WriteByte('\n')
	b.WriteString("stages:\n")
	for i, st := range buildStages(recs) {
		fmt.Fprintf(&b, "  %02d) T=%d..%d %s x%d\n", i+1, st.startTick, st.endTick, st.behavior, st.count)
	}
	b.WriteString("recent:\n")
	for _, r := range recs {
		b.WriteString("  ")
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// decisionsBetween returns history records within [fromTick, toTick].
func (e *Enemy) decisionsBetween(fromTick, toTick int) []decisionRecord {
	var out []decisionRecord
	for _, r := range e.history {
		if r.Tick >= fromTick && r.Tick <= toTick {
			out = append(out, r)
		}
	}
	return out
}

type decisionSummary struct {
	counts   map[behavior.Behavior]int
	attacks  int
	maxGapMS int64
	minGapMS int64
}

func summarizeDecisions(recs []decisionRecord) decisionSummary {
	res := decisionSummary{counts: make(map[behavior.Behavior]int)}
	for i, r := range recs {
		res.counts[r.Behavior]++
		if r.Result.IsAttacking {
			res.attacks++
		}
		if i == 0 {
			continue
		}
		gap := r.NowMS - recs[i-1].NowMS
		if gap > res.maxGapMS {
			res.maxGapMS = gap
		}
		if res.minGapMS == 0 || gap < res.minGapMS {
			res.minGapMS = gap
		}
	}
	return res
}

// reportStage is a run of consecutive decisions of the same behavior.
type reportStage struct {
	startTick int
	endTick   int
	behavior  behavior.Behavior
	count     int
}

func buildStages(recs []decisionRecord) []reportStage {
	if len(recs) == 0 {
		return nil
	}
	var stages []reportStage
	cur := reportStage{startTick: recs[0].Tick, endTick: recs[0].Tick, behavior: recs[0].Behavior, count: 1}
	for _, r := range recs[1:] {
		if r.Behavior == cur.behavior {
			cur.endTick = r.Tick
			cur.count++
			continue
		}
		stages = append(stages, cur)
		cur = reportStage{startTick: r.Tick, endTick: r.Tick, behavior: r.Behavior, count: 1}
	}
	return append(stages, cur)
}
