package game

type RunOutcome int

const (
	OutcomeInconclusive RunOutcome = iota
	OutcomePlayerDown
	OutcomeSurvived
)

func (o RunOutcome) String() string {
	switch o {
	case OutcomePlayerDown:
		return "player_down"
	case OutcomeSurvived:
		return "survived"
	case OutcomeInconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

type RunOutcomeReason struct {
	Outcome      RunOutcome
	Wave         int
	Kills        int
	EnemiesAlive int
	BossesAlive  int
	PlayerHPPct  float64
	Description  string
}

// DetermineRunOutcome grades a finished or time-limited arena run.
func DetermineRunOutcome(player *Player, enemies []*Enemy, wave, kills int) RunOutcomeReason {
	r := RunOutcomeReason{Wave: wave, Kills: kills}
	for _, e := range enemies {
		if !e.Alive() {
			continue
		}
		r.EnemiesAlive++
		if e.boss {
			r.BossesAlive++
		}
	}
	if player != nil && player.maxHP > 0 {
		r.PlayerHPPct = player.hp / player.maxHP
	}

	switch {
	case player == nil || !player.Alive():
		r.Outcome = OutcomePlayerDown
		switch {
		case wave <= 1:
			r.Description = "player_down_first_wave"
		case r.BossesAlive > 0:
			r.Description = "player_down_to_boss"
		default:
			r.Description = "player_down"
		}
	case wave == 0 && r.EnemiesAlive == 0:
		r.Outcome = OutcomeInconclusive
		r.Description = "no_contact"
	case kills == 0:
		r.Outcome = OutcomeInconclusive
		r.Description = "no_kills"
	case r.PlayerHPPct >= 0.5:
		r.Outcome = OutcomeSurvived
		r.Description = "survived_comfortably"
	default:
		r.Outcome = OutcomeSurvived
		r.Description = "survived_under_pressure"
	}
	return r
}

// Outcome grades the arena as it stands.
func (a *Arena) Outcome() RunOutcomeReason {
	return DetermineRunOutcome(a.Player, a.Enemies, a.Waves.Wave(), a.kills)
}
