package game

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
)

func TestThoughtLog_RingKeepsNewest(t *testing.T) {
	tl := NewThoughtLog()
	for i := 0; i < logMaxEntries+10; i++ {
		tl.Add(i, "N1", behavior.Normal, fmt.Sprintf("msg %d", i))
	}
	if tl.Len() != logMaxEntries {
		t.Fatalf("expected %d entries, got %d", logMaxEntries, tl.Len())
	}
	recent := tl.Recent()
	if recent[0].Tick != 10 {
		t.Fatalf("oldest kept entry should be tick 10, got %d", recent[0].Tick)
	}
	if last := recent[len(recent)-1]; last.Tick != logMaxEntries+9 || last.Message != fmt.Sprintf("msg %d", logMaxEntries+9) {
		t.Fatalf("newest entry wrong: %+v", last)
	}
}

func TestThoughtLog_PartialFillInOrder(t *testing.T) {
	tl := NewThoughtLog()
	tl.Add(1, "A0", behavior.Aggressive, "first")
	tl.Add(2, "E1", behavior.Elusive, "second")
	recent := tl.Recent()
	if len(recent) != 2 || recent[0].Message != "first" || recent[1].Message != "second" {
		t.Fatalf("unexpected order %+v", recent)
	}
}

func TestSimLog_FilterAndLookup(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "N0", "normal", "ai", "decision", "idle#0", 0)
	sl.Add(2, "N0", "normal", "combat", "fire", "1 shots", 1)
	sl.Add(3, "E1", "elusive", "ai", "decision", "dodge#2", 2)
	sl.AddVerbose(3, "E1", "elusive", "move", "position", "(1, 1)", 0)

	if n := len(sl.Entries()); n != 3 {
		t.Fatalf("verbose entry should be dropped, got %d entries", n)
	}
	if n := sl.CountCategory("ai", "decision"); n != 2 {
		t.Fatalf("expected 2 decisions, got %d", n)
	}
	if n := len(sl.Filter("ai", "")); n != 2 {
		t.Fatalf("empty key should match any, got %d", n)
	}
	last, ok := sl.LastOf("ai", "decision")
	if !ok || last.Value != "dodge#2" {
		t.Fatalf("unexpected last decision %+v", last)
	}
	if _, ok := sl.LastOf("wave", "spawn"); ok {
		t.Fatal("no wave entries were added")
	}
	if !sl.HasEntry("ai", "decision", "dodge") || sl.HasEntry("ai", "decision", "attack") {
		t.Fatal("HasEntry substring match is wrong")
	}
	if n := len(sl.FilterEnemy("N0")); n != 2 {
		t.Fatalf("expected 2 N0 entries, got %d", n)
	}
	if n := len(sl.FilterTickRange(2, 3)); n != 2 {
		t.Fatalf("expected 2 entries in ticks 2..3, got %d", n)
	}
	if !strings.Contains(sl.FormatRange(1, 1), "idle#0") {
		t.Fatal("range format should include tick 1")
	}
}

func TestSimLog_VerboseKeepsPositions(t *testing.T) {
	sl := NewSimLog(true)
	sl.AddVerbose(1, "N0", "normal", "move", "position", "(1, 1)", 0)
	if len(sl.Entries()) != 1 {
		t.Fatal("verbose log should keep position entries")
	}
}

func TestSimLog_BehaviorCounts(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "N0", "normal", "ai", "decision", "idle#0", 0)
	sl.Add(2, "N0", "normal", "ai", "decision", "idle#0", 0)
	sl.Add(3, "N0", "normal", "ai", "decision", "dodge#2", 2)
	sl.Add(3, "A1", "aggressive", "ai", "decision", "attack_player#2", 2)
	sl.Add(4, "A1", "aggressive", "combat", "fire", "1 shots", 1)

	counts := sl.BehaviorCounts()
	if counts["normal"]["idle"] != 2 || counts["normal"]["dodge"] != 1 {
		t.Fatalf("unexpected normal counts %v", counts["normal"])
	}
	if counts["aggressive"]["attack_player"] != 1 || len(counts["aggressive"]) != 1 {
		t.Fatalf("unexpected aggressive counts %v", counts["aggressive"])
	}
}

func TestSimLogEntry_String(t *testing.T) {
	e := SimLogEntry{Tick: 42, Enemy: "A5", Category: "ai", Key: "decision", Value: "attack_player#2"}
	got := e.String()
	if !strings.HasPrefix(got, "[T=042] A5") || !strings.HasSuffix(got, "attack_player#2") {
		t.Fatalf("unexpected line %q", got)
	}
}
