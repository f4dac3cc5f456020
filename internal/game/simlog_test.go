package game

import (
	"strings"
	"testing"
)

func TestSimLogEntry_StringFixedWidth(t *testing.T) {
	e := SimLogEntry{Tick: 42, Actor: "T1", Category: "fire", Key: "shot", Value: "angle=4.31"}
	want := "[T=042] T1     fire       shot           angle=4.31"
	if got := e.String(); got != want {
		t.Fatalf("entry formatted as %q, want %q", got, want)
	}
}

func TestSimLog_FilterAndCount(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "sim", "phase", "change", "idle -> tanks", 0)
	sl.Add(5, "T1", "fire", "shot", "angle=3.14 power=50 r=9.0", 50)
	sl.Add(9, "T2", "fire", "shot", "angle=4.71 power=80 r=7.5", 80)
	sl.Add(12, "sim", "terrain", "crater", "cleared 40 cells at (20,45) r=9.0", 40)

	if got := len(sl.Filter("fire", "shot")); got != 2 {
		t.Fatalf("fire/shot entries %d, want 2", got)
	}
	if got := len(sl.Filter("fire", "")); got != 2 {
		t.Fatalf("fire/* entries %d, want 2", got)
	}
	if got := len(sl.Filter("", "shot")); got != 2 {
		t.Fatalf("*/shot entries %d, want 2", got)
	}
	if got := sl.CountCategory("terrain", "crater"); got != 1 {
		t.Fatalf("crater count %d, want 1", got)
	}
	if got := len(sl.FilterActor("T2")); got != 1 {
		t.Fatalf("T2 entries %d, want 1", got)
	}
}

func TestSimLog_FilterTickRangeInclusive(t *testing.T) {
	sl := NewSimLog(false)
	for tick := 1; tick <= 10; tick++ {
		sl.Add(tick, "sim", "wind", "regen", "", 0)
	}
	got := sl.FilterTickRange(3, 7)
	if len(got) != 5 {
		t.Fatalf("range [3,7] returned %d entries, want 5", len(got))
	}
	if got[0].Tick != 3 || got[len(got)-1].Tick != 7 {
		t.Fatalf("range bounds %d..%d, want 3..7", got[0].Tick, got[len(got)-1].Tick)
	}
}

func TestSimLog_LastOf(t *testing.T) {
	sl := NewSimLog(false)
	if _, ok := sl.LastOf("wind", "regen"); ok {
		t.Fatalf("empty log should report no entry")
	}
	sl.Add(1, "sim", "wind", "regen", "+0.0100", 0.01)
	sl.Add(8, "sim", "wind", "regen", "-0.0050", -0.005)

	e, ok := sl.LastOf("wind", "regen")
	if !ok || e.Tick != 8 {
		t.Fatalf("LastOf returned T=%d ok=%v, want the T=8 entry", e.Tick, ok)
	}
}

func TestSimLog_HasEntrySubstring(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(3, "sim", "match", "gameover", "sole_survivor_t2", 1)

	if !sl.HasEntry("match", "gameover", "survivor") {
		t.Fatalf("substring match should hit")
	}
	if sl.HasEntry("match", "gameover", "mutual") {
		t.Fatalf("absent substring should miss")
	}
	if sl.HasEntry("match", "missing_key", "") {
		t.Fatalf("absent key should miss")
	}
}

func TestSimLog_VerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, "T1", "tank", "landed", "fell 2.0 to y=40", 2)
	if len(quiet.Entries()) != 0 {
		t.Fatalf("quiet log recorded a verbose entry")
	}

	verbose := NewSimLog(true)
	verbose.AddVerbose(1, "T1", "tank", "landed", "fell 2.0 to y=40", 2)
	if len(verbose.Entries()) != 1 {
		t.Fatalf("verbose log dropped a verbose entry")
	}
}

func TestSimLog_FormatRange(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "sim", "phase", "change", "idle -> tanks", 0)
	sl.Add(50, "T1", "fire", "shot", "angle=3.14 power=10 r=8.0", 10)

	out := sl.FormatRange(40, 60)
	if strings.Contains(out, "idle -> tanks") {
		t.Fatalf("range output leaked an early entry:\n%s", out)
	}
	if !strings.Contains(out, "power=10") {
		t.Fatalf("range output missed the in-range entry:\n%s", out)
	}
}

func TestSimLog_SummarySnapshot(t *testing.T) {
	snap := SimSnapshot{
		Tick:          240,
		Phase:         PhaseControl,
		Wind:          0.013,
		VolleysFired:  3,
		CratersCarved: 2,
		TurnIndex:     1,
		Tanks: []TankSnapshot{
			{X: 40, Y: 42, Angle: 4.71, Power: 50, Health: 100, Resting: true},
			{X: 120, Y: 42, Angle: 3.14, Power: 80, Health: 0, Resting: true},
		},
	}
	out := NewSimLog(false).Summary(snap)

	if !strings.Contains(out, "T=240") {
		t.Fatalf("summary missing the tick:\n%s", out)
	}
	if !strings.Contains(out, "control") {
		t.Fatalf("summary missing the phase:\n%s", out)
	}
	if !strings.Contains(out, "dead") {
		t.Fatalf("summary missing the dead tank state:\n%s", out)
	}
	if !strings.Contains(out, "Alive: 1/2") {
		t.Fatalf("summary miscounted the roster:\n%s", out)
	}
}
