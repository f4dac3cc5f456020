package game

import "fmt"

// Phase is the engine's top-level state. The set is closed: transitions
// outside the legality table are programming errors and panic.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseTanks
	PhaseControl
	PhaseMissiles
	PhaseExplosions
	PhaseSand
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseTanks:
		return "tanks"
	case PhaseControl:
		return "control"
	case PhaseMissiles:
		return "missiles"
	case PhaseExplosions:
		return "explosions"
	case PhaseSand:
		return "sand"
	case PhaseGameOver:
		return "gameover"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// validTransitions is the full turn-based graph. The auto-fire variant
// walks a strict subset (idle->missiles, sand->idle). PhaseGameOver is
// terminal and reachable from every live phase through the elimination
// check.
var validTransitions = map[Phase][]Phase{
	PhaseIdle:       {PhaseTanks, PhaseMissiles, PhaseGameOver},
	PhaseTanks:      {PhaseControl, PhaseGameOver},
	PhaseControl:    {PhaseMissiles, PhaseGameOver},
	PhaseMissiles:   {PhaseExplosions, PhaseSand, PhaseGameOver},
	PhaseExplosions: {PhaseSand, PhaseGameOver},
	PhaseSand:       {PhaseTanks, PhaseIdle, PhaseGameOver},
	PhaseGameOver:   {},
}

// canTransition reports whether from->to is a legal edge.
func canTransition(from, to Phase) bool {
	for _, p := range validTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}
