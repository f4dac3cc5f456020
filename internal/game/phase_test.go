package game

import (
	"strings"
	"testing"
)

func TestPhaseString(t *testing.T) {
	cases := []struct {
		p    Phase
		want string
	}{
		{PhaseIdle, "idle"},
		{PhaseTanks, "tanks"},
		{PhaseControl, "control"},
		{PhaseMissiles, "missiles"},
		{PhaseExplosions, "explosions"},
		{PhaseSand, "sand"},
		{PhaseGameOver, "gameover"},
		{Phase(42), "phase(42)"},
	}
	for _, tc := range cases {
		if got := tc.p.String(); got != tc.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tc.p), got, tc.want)
		}
	}
}

func TestCanTransition_FullTable(t *testing.T) {
	legalEdges := [][2]Phase{
		{PhaseIdle, PhaseTanks},
		{PhaseIdle, PhaseMissiles},
		{PhaseIdle, PhaseGameOver},
		{PhaseTanks, PhaseControl},
		{PhaseTanks, PhaseGameOver},
		{PhaseControl, PhaseMissiles},
		{PhaseControl, PhaseGameOver},
		{PhaseMissiles, PhaseExplosions},
		{PhaseMissiles, PhaseSand},
		{PhaseMissiles, PhaseGameOver},
		{PhaseExplosions, PhaseSand},
		{PhaseExplosions, PhaseGameOver},
		{PhaseSand, PhaseTanks},
		{PhaseSand, PhaseIdle},
		{PhaseSand, PhaseGameOver},
	}
	legal := map[[2]Phase]bool{}
	for _, e := range legalEdges {
		legal[e] = true
	}

	for from := PhaseIdle; from <= PhaseGameOver; from++ {
		for to := PhaseIdle; to <= PhaseGameOver; to++ {
			want := legal[[2]Phase{from, to}]
			if got := canTransition(from, to); got != want {
				t.Errorf("canTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestGameOverIsTerminal(t *testing.T) {
	for to := PhaseIdle; to <= PhaseGameOver; to++ {
		if canTransition(PhaseGameOver, to) {
			t.Errorf("gameover must not transition to %s", to)
		}
	}
}

func TestTransition_IllegalEdgePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic on illegal transition")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "illegal phase transition") {
			t.Fatalf("unexpected panic payload: %v", r)
		}
	}()
	s := NewSim(WithFieldSize(64, 48), WithSeed(1))
	s.transition(PhaseExplosions)
}
