package game

import (
	"fmt"
	"math"
	"strings"
)

// reportWindowTicks is the default sliding window for match reports
// (~60s at 60TPS).
const reportWindowTicks = 3600

// MatchReport captures the match state at one tick.
type MatchReport struct {
	Tick          int
	Phase         Phase
	AliveTanks    int
	TotalHealth   float64
	GrainCount    int
	ShotsInFlight int
	VolleysFired  int
	CratersCarved int
	Wind          float64
	TurnIndex     int
}

// MatchReporter collects periodic reports and produces summaries over a
// sliding time window.
type MatchReporter struct {
	history     []MatchReport
	windowTicks int
}

// NewMatchReporter creates a reporter with the given window size.
func NewMatchReporter(windowTicks int) *MatchReporter {
	if windowTicks <= 0 {
		windowTicks = reportWindowTicks
	}
	return &MatchReporter{windowTicks: windowTicks}
}

// Collect records one report from a snapshot. Call it periodically,
// every 60 ticks or so.
func (r *MatchReporter) Collect(snap SimSnapshot) {
	rpt := MatchReport{
		Tick:          snap.Tick,
		Phase:         snap.Phase,
		ShotsInFlight: len(snap.Projectiles),
		VolleysFired:  snap.VolleysFired,
		CratersCarved: snap.CratersCarved,
		Wind:          snap.Wind,
		TurnIndex:     snap.TurnIndex,
	}
	for _, c := range snap.Terrain {
		if c {
			rpt.GrainCount++
		}
	}
	for _, tk := range snap.Tanks {
		if tk.Health > 0 {
			rpt.AliveTanks++
			rpt.TotalHealth += tk.Health
		}
	}
	r.history = append(r.history, rpt)

	// Prune old history beyond 2x window to prevent unbounded growth.
	maxKeep := r.windowTicks / 60 * 2
	if maxKeep < 100 {
		maxKeep = 100
	}
	if len(r.history) > maxKeep {
		r.history = r.history[len(r.history)-maxKeep:]
	}
}

// Latest returns the most recent report, false if none collected yet.
func (r *MatchReporter) Latest() (MatchReport, bool) {
	if len(r.history) == 0 {
		return MatchReport{}, false
	}
	return r.history[len(r.history)-1], true
}

// History returns all collected reports.
func (r *MatchReporter) History() []MatchReport {
	return r.history
}

// WindowSummary aggregates the reports inside the recent window into a
// human-readable block: erosion, fire activity and roster attrition.
func (r *MatchReporter) WindowSummary() string {
	if len(r.history) == 0 {
		return "No data collected yet.\n"
	}

	latestTick := r.history[len(r.history)-1].Tick
	cutoff := latestTick - r.windowTicks
	var window []MatchReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Tick < cutoff {
			break
		}
		window = append(window, r.history[i])
	}
	// window is newest-first
	newest := window[0]
	oldest := window[len(window)-1]
	n := float64(len(window))

	var avgShots, avgWind float64
	for _, rpt := range window {
		avgShots += float64(rpt.ShotsInFlight)
		avgWind += math.Abs(rpt.Wind)
	}
	avgShots /= n
	avgWind /= n

	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Match Report (T=%d..%d, %d samples) ===\n",
		oldest.Tick, newest.Tick, len(window))
	fmt.Fprintf(&sb, "Phase: %s  turn=%s\n", newest.Phase, turnCursorLabel(newest.TurnIndex))
	fmt.Fprintf(&sb, "Terrain: %d grains (%+d in window), %d craters (%+d in window)\n",
		newest.GrainCount, newest.GrainCount-oldest.GrainCount,
		newest.CratersCarved, newest.CratersCarved-oldest.CratersCarved)
	fmt.Fprintf(&sb, "Fire: %d volleys (%+d in window), avg shots in flight %.2f, avg |wind| %.4f\n",
		newest.VolleysFired, newest.VolleysFired-oldest.VolleysFired, avgShots, avgWind)
	fmt.Fprintf(&sb, "Roster: %d alive (was %d), total health %.0f (was %.0f)\n",
		newest.AliveTanks, oldest.AliveTanks, newest.TotalHealth, oldest.TotalHealth)
	return sb.String()
}

func turnCursorLabel(idx int) string {
	if idx < 0 {
		return "none"
	}
	return tankLabel(idx)
}
