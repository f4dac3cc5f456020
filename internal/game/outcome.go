package game

import "fmt"

type MatchOutcome int

const (
	OutcomeUndecided MatchOutcome = iota
	OutcomeVictory
	OutcomeDraw
)

func (o MatchOutcome) String() string {
	switch o {
	case OutcomeVictory:
		return "victory"
	case OutcomeDraw:
		return "draw"
	case OutcomeUndecided:
		return "undecided"
	default:
		return "unknown"
	}
}

type MatchOutcomeReason struct {
	Outcome     MatchOutcome
	Winner      int
	Survivors   int
	Total       int
	Description string
}

// DetermineMatchOutcome classifies a finished or running match from a
// snapshot. Auto-fire runs never decide.
func DetermineMatchOutcome(snap SimSnapshot) MatchOutcomeReason {
	total := len(snap.Tanks)
	survivors := 0
	for _, tk := range snap.Tanks {
		if tk.Health > 0 {
			survivors++
		}
	}
	if snap.Phase != PhaseGameOver {
		return MatchOutcomeReason{
			Outcome:     OutcomeUndecided,
			Winner:      -1,
			Survivors:   survivors,
			Total:       total,
			Description: "match_in_progress",
		}
	}
	if snap.Winner >= 0 {
		return MatchOutcomeReason{
			Outcome:     OutcomeVictory,
			Winner:      snap.Winner,
			Survivors:   survivors,
			Total:       total,
			Description: fmt.Sprintf("sole_survivor_t%d", snap.Winner+1),
		}
	}
	return MatchOutcomeReason{
		Outcome:     OutcomeDraw,
		Winner:      -1,
		Survivors:   survivors,
		Total:       total,
		Description: "mutual_destruction",
	}
}
