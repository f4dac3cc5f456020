package game

import (
	"math"
	"slices"
	"testing"
)

// dumpLog prints the full SimLog to t.Log so it appears in `go test -v` output.
func dumpLog(t *testing.T, s *Sim) {
	t.Helper()
	entries := s.Log().Entries()
	if len(entries) == 0 {
		t.Log("(no log entries)")
		return
	}
	for _, e := range entries {
		t.Log(e.String())
	}
}

// dumpSummary prints the match summary block.
func dumpSummary(t *testing.T, s *Sim) {
	t.Helper()
	t.Log(s.Log().Summary(s.Snapshot()))
}

// fireScriptedShot turns the turret to face left at minimum power and
// queues the shot. At power 10 the shell detonates a safe 30+ cells short
// of any tank, so scripted matches stay damage-free and deterministic in
// their turn order.
func fireScriptedShot(t *testing.T, s *Sim) {
	t.Helper()
	if s.Phase() != PhaseControl {
		t.Fatalf("T=%d: cannot fire outside control, phase %s", s.Tick(), s.Phase())
	}
	s.SetAim(-0.5 * math.Pi)
	s.SetPower(-100)
	s.RequestFire()
}

// --- Scenario: Full Volley Round Trip ---

func TestScenario_FullVolleyRoundTrip(t *testing.T) {
	t.Log("=== TestScenario_FullVolleyRoundTrip ===")
	t.Log("--- Setup: 2 tanks on flat ground, one low-power shot left ---")

	s := newFlatMatch(3)
	runUntilPhase(t, s, PhaseControl, 300)
	fireScriptedShot(t, s)
	runUntilPhase(t, s, PhaseExplosions, 60)
	runUntilPhase(t, s, PhaseControl, 300)

	dumpLog(t, s)
	dumpSummary(t, s)

	var seq []string
	for _, e := range s.Log().Filter("phase", "change") {
		seq = append(seq, e.Value)
	}
	want := []string{
		"idle -> tanks",
		"tanks -> control",
		"control -> missiles",
		"missiles -> explosions",
		"explosions -> sand",
		"sand -> tanks",
		"tanks -> control",
	}
	if !slices.Equal(seq, want) {
		t.Errorf("phase sequence %v, want %v", seq, want)
	}

	snap := s.Snapshot()
	if snap.CratersCarved != 1 {
		t.Errorf("craters carved %d, want 1", snap.CratersCarved)
	}
	if s.TurnIndex() != 1 {
		t.Errorf("turn cursor %d after the volley, want 1", s.TurnIndex())
	}
	for i, tk := range snap.Tanks {
		if tk.Health != tankMaxHealth {
			t.Errorf("%s took damage from a far-off blast: health %.1f", tankLabel(i), tk.Health)
		}
	}

	grains := 0
	for _, c := range snap.Terrain {
		if c {
			grains++
		}
	}
	if full := 160 * 45; grains >= full {
		t.Errorf("terrain did not lose grains to the crater: %d of %d", grains, full)
	}
}

// --- Scenario: Turn Rotation ---

func TestScenario_TurnRotation_FourTanks(t *testing.T) {
	t.Log("=== TestScenario_TurnRotation_FourTanks ===")
	t.Log("--- Setup: 4 tanks, 6 scripted volleys, cursor must cycle in order ---")

	s := NewSim(
		WithFieldSize(240, 90),
		WithSeed(13),
		WithTankCount(4),
		WithFlatTerrain(45),
	)

	var order []int
	for i := 0; i < 6; i++ {
		runUntilPhase(t, s, PhaseControl, 600)
		order = append(order, s.TurnIndex())
		fireScriptedShot(t, s)
		runUntilPhase(t, s, PhaseMissiles, 10)
	}

	dumpLog(t, s)
	dumpSummary(t, s)

	want := []int{0, 1, 2, 3, 0, 1}
	if !slices.Equal(order, want) {
		t.Errorf("turn order %v, want %v", order, want)
	}
	if snap := s.Snapshot(); snap.VolleysFired != 6 {
		t.Errorf("volleys fired %d, want 6", snap.VolleysFired)
	}
}

// --- Scenario: Auto-Fire Erosion ---

func TestScenario_AutoFireErosion(t *testing.T) {
	t.Log("=== TestScenario_AutoFireErosion ===")
	t.Log("--- Setup: rolling hills under random bombardment, 3000 ticks ---")

	s := NewSim(
		WithFieldSize(192, 108),
		WithSeed(1234),
		WithAutoFire(),
	)
	reporter := NewMatchReporter(reportWindowTicks)

	start := s.terrain.OccupiedCount()
	prev := start
	for i := 0; i < 3000; i++ {
		s.Update()
		if s.Tick()%60 == 0 {
			reporter.Collect(s.Snapshot())
			cur := s.terrain.OccupiedCount()
			if cur > prev {
				t.Fatalf("T=%d: terrain grew from %d to %d grains", s.Tick(), prev, cur)
			}
			prev = cur
		}
	}

	t.Log(s.Log().FormatRange(s.Tick()-300, s.Tick()))
	t.Log(reporter.WindowSummary())
	dumpSummary(t, s)

	snap := s.Snapshot()
	end := s.terrain.OccupiedCount()
	lost := float64(start-end) / float64(start) * 100
	t.Logf("erosion: %d -> %d grains (%.1f%% lost), %d craters over %d volleys",
		start, end, lost, snap.CratersCarved, snap.VolleysFired)

	if snap.VolleysFired < 10 {
		t.Errorf("only %d volleys in 3000 auto ticks", snap.VolleysFired)
	}
	if snap.CratersCarved < 5 {
		t.Errorf("only %d craters in 3000 auto ticks", snap.CratersCarved)
	}
	if end > start {
		t.Errorf("grain count grew over the run: %d -> %d", start, end)
	}
}
