package game

import (
	"strings"
	"testing"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/Garsondee/Raider-Sense/internal/enemyai"
)

func TestSimReporter_CollectTalliesPerArchetype(t *testing.T) {
	r := NewSimReporter(0, true)
	player := newPlayer(enemyai.V(500, 500), 80)

	a := newEnemy(0, behavior.Aggressive, enemyai.V(0, 0), 10, 100, enemyai.NewAggressive(nil))
	a.attackPending = true
	a.record(decisionRecord{Behavior: behavior.AttackPlayer})
	b := newEnemy(1, behavior.Aggressive, enemyai.V(0, 0), 20, 100, enemyai.NewAggressive(nil))
	b.boss = true
	b.state = EnemyStateMoving
	dead := newEnemy(2, behavior.Elusive, enemyai.V(0, 0), 5, 100, enemyai.NewElusive(nil))
	dead.takeDamage(5)

	r.Collect(60, 3, player, []*Enemy{a, b, dead}, 7)

	rpt := r.Latest()
	if rpt == nil {
		t.Fatal("expected a report")
	}
	if rpt.Tick != 60 || rpt.Wave != 3 || rpt.PlayerHP != 80 || rpt.Projectiles != 7 {
		t.Fatalf("unexpected header %+v", rpt)
	}
	ar := rpt.PerArchetype[behavior.Aggressive]
	if ar == nil || ar.Alive != 2 || ar.Bosses != 1 || ar.Attacking != 1 || ar.Moving != 1 {
		t.Fatalf("unexpected aggressive tally %+v", ar)
	}
	if ar.AvgHP != 15 {
		t.Fatalf("expected avg hp 15, got %.1f", ar.AvgHP)
	}
	if ar.Behaviors[behavior.AttackPlayer] != 1 {
		t.Fatalf("expected one attack behavior, got %v", ar.Behaviors)
	}
	if _, ok := rpt.PerArchetype[behavior.Elusive]; ok {
		t.Fatal("dead enemies should not be tallied")
	}
	if len(rpt.Enemies) != 2 {
		t.Fatalf("verbose reporter should list 2 enemies, got %d", len(rpt.Enemies))
	}
}

func TestSimReporter_EmptyFormats(t *testing.T) {
	r := NewSimReporter(600, false)
	if r.Latest() != nil || r.WindowSummary() != nil {
		t.Fatal("fresh reporter should have no data")
	}
	if r.FormatLatest() != "No data.\n" {
		t.Fatalf("unexpected empty format %q", r.FormatLatest())
	}
	var wr *WindowReport
	if !strings.Contains(wr.Format(), "No data") {
		t.Fatal("nil window report should format as no data")
	}
}

func TestSimReporter_WindowSummary(t *testing.T) {
	r := NewSimReporter(120, false)
	player := newPlayer(enemyai.V(0, 0), 100)
	e := newEnemy(0, behavior.Normal, enemyai.V(0, 0), 5, 100, enemyai.NewNormal(nil))

	e.record(decisionRecord{Behavior: behavior.MoveToPlayer})
	r.Collect(60, 1, player, []*Enemy{e}, 0)
	player.hp = 50
	e.record(decisionRecord{Behavior: behavior.AttackPlayer})
	r.Collect(120, 1, player, []*Enemy{e}, 10)
	player.hp = 30
	r.Collect(240, 2, player, []*Enemy{e}, 20)

	wr := r.WindowSummary()
	if wr == nil {
		t.Fatal("expected a window summary")
	}
	// Window is 120 ticks back from 240, so the tick 60 sample drops out.
	if wr.SampleCount != 2 || wr.FromTick != 120 || wr.ToTick != 240 {
		t.Fatalf("unexpected window %+v", wr)
	}
	if wr.FromWave != 1 || wr.ToWave != 2 {
		t.Fatalf("unexpected wave range %d..%d", wr.FromWave, wr.ToWave)
	}
	if wr.AvgPlayerHP != 40 || wr.AvgProjectiles != 15 {
		t.Fatalf("unexpected averages hp=%.1f projectiles=%.1f", wr.AvgPlayerHP, wr.AvgProjectiles)
	}
	if pct := wr.BehaviorPct[behavior.Normal][behavior.AttackPlayer]; pct != 100 {
		t.Fatalf("expected attack at 100%%, got %.1f", pct)
	}
	out := wr.Format()
	if !strings.Contains(out, "NORMAL") || !strings.Contains(out, "moderate") {
		t.Fatalf("unexpected format:\n%s", out)
	}
}

func TestSimReporter_ArenaCollectsEverySecond(t *testing.T) {
	a := NewArena(
		WithSeed(4),
		WithUnarmedEnemy(behavior.Normal, 100, 100),
	)
	a.RunTicks(120)
	if n := len(a.Reporter.History()); n != 2 {
		t.Fatalf("expected 2 reports in 120 ticks, got %d", n)
	}
	if !strings.Contains(a.Reporter.FormatLatest(), "normal") {
		t.Fatalf("latest report should list the normal enemy:\n%s", a.Reporter.FormatLatest())
	}
}

func TestBehaviorProportions(t *testing.T) {
	e1 := newEnemy(0, behavior.Elusive, enemyai.V(0, 0), 5, 100, enemyai.NewElusive(nil))
	e1.record(decisionRecord{Behavior: behavior.Dodge})
	e2 := newEnemy(1, behavior.Elusive, enemyai.V(0, 0), 5, 100, enemyai.NewElusive(nil))
	e2.record(decisionRecord{Behavior: behavior.RunAway})
	e3 := newEnemy(2, behavior.Elusive, enemyai.V(0, 0), 5, 100, enemyai.NewElusive(nil))

	props := BehaviorProportions([]*Enemy{e1, e2, e3})
	if props[behavior.Dodge] != 0.5 || props[behavior.RunAway] != 0.5 {
		t.Fatalf("unexpected proportions %v", props)
	}
}
