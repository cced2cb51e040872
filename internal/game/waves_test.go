package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/Garsondee/Raider-Sense/internal/config"
	"github.com/Garsondee/Raider-Sense/internal/enemyai"
)

func newTestDirector() *WaveDirector {
	cfg := config.Default()
	return NewWaveDirector(cfg.Waves, cfg.Enemy)
}

func TestWaveSizes(t *testing.T) {
	wd := newTestDirector()
	want := map[int]int{1: 2, 2: 4, 3: 6, 4: 7, 6: 11}
	for n, size := range want {
		if got := wd.waveSize(n); got != size {
			t.Fatalf("wave %d: expected %d enemies, got %d", n, size, got)
		}
	}
}

func TestWaveSpawnsAwayFromPlayer(t *testing.T) {
	wd := newTestDirector()
	rng := rand.New(rand.NewSource(3)) // #nosec G404 -- test
	player := enemyai.V(100, 100)
	plans := wd.Next(rng, player, 0, 1920, 1080)
	if len(plans) != 2 {
		t.Fatalf("wave 1 should spawn 2 enemies, got %d", len(plans))
	}
	for _, p := range plans {
		if math.Abs(p.pos.X-player.X) <= spawnClearX {
			t.Fatalf("spawn x %.0f too close to player", p.pos.X)
		}
		if math.Abs(p.pos.Y-player.Y) <= spawnClearY {
			t.Fatalf("spawn y %.0f too close to player", p.pos.Y)
		}
		if p.armed {
			t.Fatal("first wave before any kills should be unarmed")
		}
	}
	if plans[0].kind != behavior.Elusive || plans[1].kind != behavior.Normal {
		t.Fatalf("unexpected roster %s, %s", plans[0].kind, plans[1].kind)
	}
}

func TestWaveNoRoomSpawnsNothing(t *testing.T) {
	wd := newTestDirector()
	rng := rand.New(rand.NewSource(4)) // #nosec G404 -- test
	// A narrow arena leaves no x outside the clearance band.
	plans := wd.Next(rng, enemyai.V(400, 300), 0, 800, 600)
	if len(plans) != 0 {
		t.Fatalf("expected no spawns, got %d", len(plans))
	}
	if wd.Wave() != 1 {
		t.Fatalf("wave counter should still advance, got %d", wd.Wave())
	}
}

func TestBossEveryFifthWave(t *testing.T) {
	wd := newTestDirector()
	rng := rand.New(rand.NewSource(5)) // #nosec G404 -- test
	var plans []spawnPlan
	for i := 0; i < 5; i++ {
		plans = wd.Next(rng, enemyai.V(100, 100), 10, 1920, 1080)
	}
	if len(plans) != 1 || !plans[0].boss {
		t.Fatalf("wave 5 should be a lone boss, got %+v", plans)
	}
	if plans[0].kind != behavior.Normal {
		t.Fatalf("first boss should be normal, got %s", plans[0].kind)
	}
	if math.Abs(plans[0].hp-1750) > 1e-9 {
		t.Fatalf("first boss hp: expected 1750, got %.1f", plans[0].hp)
	}
	if wd.BossCount() != 1 {
		t.Fatalf("expected boss count 1, got %d", wd.BossCount())
	}
}

func TestArmedWaveCooldownInRange(t *testing.T) {
	wd := newTestDirector()
	rng := rand.New(rand.NewSource(6)) // #nosec G404 -- test
	plans := wd.Next(rng, enemyai.V(100, 100), 5, 1920, 1080)
	for _, p := range plans {
		if !p.armed {
			t.Fatal("enemies after the armed threshold should be armed")
		}
		if p.cooldown < 500 || p.cooldown >= 2000 {
			t.Fatalf("cooldown %d outside [500,2000)", p.cooldown)
		}
	}
}

func TestPickOutside(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) // #nosec G404 -- test
	for i := 0; i < 200; i++ {
		v, ok := pickOutside(rng, 0, 1000, 500, 100)
		if !ok {
			t.Fatal("expected room on both sides")
		}
		if v < 0 || v >= 1000 || (v >= 400 && v < 600) {
			t.Fatalf("value %.1f inside the cleared band or out of range", v)
		}
	}
	if _, ok := pickOutside(rng, 0, 1000, 500, 600); ok {
		t.Fatal("clearance covering the whole range should fail")
	}
}
