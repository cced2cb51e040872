package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Raider-Sense/internal/behavior"
	"github.com/Garsondee/Raider-Sense/internal/config"
	"github.com/Garsondee/Raider-Sense/internal/game"
	"github.com/rs/zerolog"
)

type runStats struct {
	runIndex int
	seed     int64

	ticksRun    int
	waveReached int
	kills       int
	playerHP    float64

	firstDecisionTick int
	firstFireTick     int
	firstKillTick     int
	firstBossTick     int
	playerDownTick    int

	decisions     int
	aiErrors      int
	enemyVolleys  int
	enemyShots    int
	playerShots   int
	playerHits    int // enemy projectiles that struck the player
	enemyHits     int // hits landed on enemies
	behaviorCount map[string]map[string]int

	windowSummary *game.WindowReport
	outcome       game.RunOutcomeReason
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var configPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless arena runs")
	flag.IntVar(&ticks, "ticks", 3600, "maximum ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1 (default: config seed when -config is given)")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "YAML tuning file (defaults built in)")
	flag.BoolVar(&verbose, "v", false, "log waves and deaths to stderr")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
	}
	seedBase = baseSeed(seedBase, flagWasSet(flag.CommandLine, "seed-base"), cfg, configPath != "")
	logger := zerolog.Nop()
	if verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	}

	fmt.Printf("=== Headless Arena Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d arena=%.0fx%.0f\n\n",
		runs, ticks, seedBase, seedStep, cfg.Arena.Width, cfg.Arena.Height)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runArena(i+1, seed, ticks, cfg, logger)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runArena plays one scripted-player run with automatic waves until the
// player goes down or the tick budget runs out.
func runArena(runIndex int, seed int64, ticks int, cfg config.Config, logger zerolog.Logger) runStats {
	a := game.NewArena(
		game.WithConfig(cfg),
		game.WithSeed(seed),
		game.WithLogger(logger),
		game.WithScriptedPlayer(),
		game.WithAutoWaves(true),
	)
	a.RunUntil(func(a *game.Arena) bool { return a.Over() }, ticks)

	entries := a.SimLog.Entries()
	enemyShots := 0
	for _, e := range a.SimLog.Filter("combat", "fire") {
		enemyShots += int(e.NumVal)
	}

	return runStats{
		runIndex:          runIndex,
		seed:              seed,
		ticksRun:          a.CurrentTick(),
		waveReached:       a.Waves.Wave(),
		kills:             a.Kills(),
		playerHP:          a.Player.HP(),
		firstDecisionTick: firstTick(entries, "ai", "decision", ""),
		firstFireTick:     firstTick(entries, "combat", "fire", ""),
		firstKillTick:     firstTick(entries, "combat", "kill", ""),
		firstBossTick:     firstTick(entries, "wave", "boss", ""),
		playerDownTick:    firstTick(entries, "player", "down", ""),
		decisions:         a.SimLog.CountCategory("ai", "decision"),
		aiErrors:          a.AIErrors(),
		enemyVolleys:      a.SimLog.CountCategory("combat", "fire"),
		enemyShots:        enemyShots,
		playerShots:       a.Combat().ShotsFired(game.SidePlayer),
		playerHits:        a.SimLog.CountCategory("player", "hit"),
		enemyHits:         a.SimLog.CountCategory("combat", "hit"),
		behaviorCount:     a.SimLog.BehaviorCounts(),
		windowSummary:     a.Reporter.WindowSummary(),
		outcome:           a.Outcome(),
	}
}

// baseSeed keeps an explicit -seed-base; otherwise a loaded config file's
// non-zero seed replaces the flag default.
func baseSeed(flagBase int64, explicit bool, cfg config.Config, fromFile bool) int64 {
	if !explicit && fromFile && cfg.Seed != 0 {
		return cfg.Seed
	}
	return flagBase
}

func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func firstTick(entries []game.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Tick
		}
	}
	return -1
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("outcome: %s (%s) ticks=%d wave=%d kills=%d player_hp=%.0f player_down=%d\n",
		rs.outcome.Outcome, rs.outcome.Description, rs.ticksRun, rs.waveReached, rs.kills, rs.playerHP, rs.playerDownTick)
	fmt.Printf("phase_markers: first_decision=%d first_fire=%d first_kill=%d first_boss=%d\n",
		rs.firstDecisionTick, rs.firstFireTick, rs.firstKillTick, rs.firstBossTick)
	fmt.Printf("event_totals: decisions=%d ai_errors=%d volleys=%d enemy_shots=%d player_shots=%d\n",
		rs.decisions, rs.aiErrors, rs.enemyVolleys, rs.enemyShots, rs.playerShots)
	fmt.Printf("hits: on_player=%d on_enemies=%d\n", rs.playerHits, rs.enemyHits)
	for _, k := range behavior.Archetypes() {
		counts, ok := rs.behaviorCount[k.String()]
		if !ok {
			continue
		}
		fmt.Printf("%-10s %s\n", k, formatShares(counts))
	}
	if rs.windowSummary != nil {
		fmt.Printf("window_samples=%d window_tick_range=%d..%d avg_projectiles=%.1f avg_player_hp=%.1f\n",
			rs.windowSummary.SampleCount, rs.windowSummary.FromTick, rs.windowSummary.ToTick,
			rs.windowSummary.AvgProjectiles, rs.windowSummary.AvgPlayerHP)
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalDecisions := 0
	totalErrors := 0
	totalShots := 0
	totalPlayerShots := 0
	totalPlayerHits := 0
	totalKills := 0
	totalWaves := 0

	fireTicks := make([]int, 0, len(all))
	killTicks := make([]int, 0, len(all))
	downTicks := make([]int, 0, len(all))
	merged := map[string]map[string]int{}
	outcomes := map[game.RunOutcome]int{}

	for _, rs := range all {
		totalDecisions += rs.decisions
		totalErrors += rs.aiErrors
		totalShots += rs.enemyShots
		totalPlayerShots += rs.playerShots
		totalPlayerHits += rs.playerHits
		totalKills += rs.kills
		totalWaves += rs.waveReached
		if rs.firstFireTick >= 0 {
			fireTicks = append(fireTicks, rs.firstFireTick)
		}
		if rs.firstKillTick >= 0 {
			killTicks = append(killTicks, rs.firstKillTick)
		}
		if rs.playerDownTick >= 0 {
			downTicks = append(downTicks, rs.playerDownTick)
		}
		mergeCounts(merged, rs.behaviorCount)
		outcomes[rs.outcome.Outcome]++
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d player_down_in=%d survived=%d inconclusive=%d\n", len(all), len(downTicks),
		outcomes[game.OutcomeSurvived], outcomes[game.OutcomeInconclusive])
	fmt.Printf("avg_per_run: decisions=%.1f ai_errors=%.1f enemy_shots=%.1f player_shots=%.1f hits_on_player=%.1f kills=%.1f wave=%.1f\n",
		avg(totalDecisions, len(all)), avg(totalErrors, len(all)), avg(totalShots, len(all)),
		avg(totalPlayerShots, len(all)), avg(totalPlayerHits, len(all)), avg(totalKills, len(all)), avg(totalWaves, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_fire=%s first_kill=%s player_down=%s\n",
		avgTickString(fireTicks), avgTickString(killTicks), avgTickString(downTicks))

	fmt.Println("\n=== Behaviour Mix By Archetype ===")
	for _, k := range behavior.Archetypes() {
		counts, ok := merged[k.String()]
		if !ok {
			fmt.Printf("  %-10s (never spawned)\n", k)
			continue
		}
		fmt.Printf("  %-10s n=%d  %s\n", k, sumCounts(counts), formatShares(counts))
	}
}

// mergeCounts adds src's archetype/behavior tallies into dst.
func mergeCounts(dst, src map[string]map[string]int) {
	for k, m := range src {
		d, ok := dst[k]
		if !ok {
			d = map[string]int{}
			dst[k] = d
		}
		for b, c := range m {
			d[b] += c
		}
	}
}

func sumCounts(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// formatShares renders behavior percentages, largest first, ties by name.
func formatShares(counts map[string]int) string {
	total := sumCounts(counts)
	if total == 0 {
		return "none"
	}
	names := make([]string, 0, len(counts))
	for b := range counts {
		names = append(names, b)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	parts := make([]string, 0, len(names))
	for _, b := range names {
		parts = append(parts, fmt.Sprintf("%s=%.1f%%", b, float64(counts[b])/float64(total)*100))
	}
	return strings.Join(parts, " ")
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgTickString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}
