package game

import (
	"strings"
	"testing"
)

func sampleSnap(tick, grains, volleys int) SimSnapshot {
	terrain := make([]bool, grains)
	for i := range terrain {
		terrain[i] = true
	}
	return SimSnapshot{
		Tick:         tick,
		Terrain:      terrain,
		VolleysFired: volleys,
		TurnIndex:    -1,
	}
}

func TestCollect_CountsFromSnapshot(t *testing.T) {
	snap := SimSnapshot{
		Tick:          420,
		Phase:         PhaseSand,
		Terrain:       []bool{true, false, true, true},
		Projectiles:   make([]ProjectileSnapshot, 2),
		Wind:          -0.012,
		TurnIndex:     1,
		VolleysFired:  4,
		CratersCarved: 3,
		Tanks: []TankSnapshot{
			{Health: 100},
			{Health: 0},
			{Health: 40},
		},
	}

	r := NewMatchReporter(600)
	r.Collect(snap)

	got, ok := r.Latest()
	if !ok {
		t.Fatalf("Latest reported no data after a collect")
	}
	want := MatchReport{
		Tick:          420,
		Phase:         PhaseSand,
		AliveTanks:    2,
		TotalHealth:   140,
		GrainCount:    3,
		ShotsInFlight: 2,
		VolleysFired:  4,
		CratersCarved: 3,
		Wind:          -0.012,
		TurnIndex:     1,
	}
	if got != want {
		t.Fatalf("collected report %+v, want %+v", got, want)
	}
}

func TestLatest_EmptyReporter(t *testing.T) {
	if _, ok := NewMatchReporter(0).Latest(); ok {
		t.Fatalf("empty reporter claimed to have a report")
	}
}

func TestCollect_PrunesOldHistory(t *testing.T) {
	// windowTicks 6000 keeps 6000/60*2 = 200 samples.
	r := NewMatchReporter(6000)
	for i := 0; i < 250; i++ {
		r.Collect(sampleSnap(i*60, 10, 0))
	}

	h := r.History()
	if len(h) != 200 {
		t.Fatalf("history length %d, want 200", len(h))
	}
	if h[0].Tick != 3000 {
		t.Fatalf("oldest kept tick %d, want 3000", h[0].Tick)
	}
	if h[len(h)-1].Tick != 249*60 {
		t.Fatalf("newest kept tick %d, want %d", h[len(h)-1].Tick, 249*60)
	}
}

func TestCollect_PruneFloor(t *testing.T) {
	// Tiny windows still keep at least 100 samples.
	r := NewMatchReporter(60)
	for i := 0; i < 130; i++ {
		r.Collect(sampleSnap(i*60, 10, 0))
	}

	h := r.History()
	if len(h) != 100 {
		t.Fatalf("history length %d, want 100", len(h))
	}
	if h[0].Tick != 1800 {
		t.Fatalf("oldest kept tick %d, want 1800", h[0].Tick)
	}
}

func TestWindowSummary_Empty(t *testing.T) {
	if got := NewMatchReporter(600).WindowSummary(); got != "No data collected yet.\n" {
		t.Fatalf("empty summary %q", got)
	}
}

func TestWindowSummary_WindowBoundsAndDeltas(t *testing.T) {
	r := NewMatchReporter(600)
	ticks := []int{0, 300, 600, 900, 1200}
	grains := []int{1000, 990, 980, 970, 960}
	volleys := []int{3, 3, 3, 4, 5}
	for i := range ticks {
		r.Collect(sampleSnap(ticks[i], grains[i], volleys[i]))
	}

	out := r.WindowSummary()

	// Cutoff is latest-window = 600; the T=600 sample is still inside,
	// T=0 and T=300 are not.
	if !strings.Contains(out, "=== Match Report (T=600..1200, 3 samples) ===") {
		t.Fatalf("summary header wrong:\n%s", out)
	}
	if !strings.Contains(out, "960 grains (-20 in window)") {
		t.Fatalf("summary grain delta wrong:\n%s", out)
	}
	if !strings.Contains(out, "5 volleys (+2 in window)") {
		t.Fatalf("summary volley delta wrong:\n%s", out)
	}
	if !strings.Contains(out, "turn=none") {
		t.Fatalf("summary turn label wrong:\n%s", out)
	}
}
