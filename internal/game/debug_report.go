package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// debugReportTicks is how much history the clipboard report covers.
const debugReportTicks = 3600

// copyDebugReport puts the current match report on the system
// clipboard. Failures land in the sim log instead of crashing the
// shell.
func (g *Game) copyDebugReport() {
	report := g.matchDebugReport(debugReportTicks)
	if err := clipboard.WriteAll(report); err != nil {
		g.sim.Log().Add(g.snap.Tick, "shell", "debug", "clipboard_error", err.Error(), 0)
		return
	}
	g.sim.Log().Add(g.snap.Tick, "shell", "debug", "report_copied",
		fmt.Sprintf("%d bytes", len(report)), float64(len(report)))
}

// matchDebugReport renders the recent match history as text: roster
// state, phase runs and notable events from the sim log.
func (g *Game) matchDebugReport(lastTicks int) string {
	if lastTicks <= 0 {
		lastTicks = 120
	}
	snap := g.snap
	toTick := snap.Tick
	fromTick := toTick - lastTicks + 1
	if fromTick < 0 {
		fromTick = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- bernard match report ---\n")
	fmt.Fprintf(&b, "seed=%d tick_range=[%d..%d] phase=%s mode=%s\n",
		g.sim.Seed(), fromTick, toTick, snap.Phase, snap.Mode)
	fmt.Fprintf(&b, "volleys=%d craters=%d wind=%+.4f shots=%d turn=%s\n\n",
		snap.VolleysFired, snap.CratersCarved, snap.Wind,
		len(snap.Projectiles), turnCursorLabel(snap.TurnIndex))

	b.WriteString("roster:\n")
	for i, tk := range snap.Tanks {
		state := "resting"
		if !tk.Resting {
			state = "falling"
		}
		if tk.Health <= 0 {
			state = "dead"
		}
		fmt.Fprintf(&b, "  %s pos=(%.1f,%.1f) hp=%.0f angle=%.2f power=%.0f %s\n",
			tankLabel(i), tk.X, tk.Y, tk.Health, tk.Angle, tk.Power, state)
	}
	b.WriteByte('\n')

	runs := phaseRuns(g.sim.Log().Filter("phase", "change"), toTick)
	if len(runs) > 16 {
		runs = runs[len(runs)-16:]
	}
	b.WriteString("phase runs:\n")
	for i, r := range runs {
		fmt.Fprintf(&b, "  %02d) T=%d..%d (%dt) %s\n",
			i+1, r.fromTick, r.toTick, r.toTick-r.fromTick+1, r.phase)
	}
	b.WriteByte('\n')

	var events []string
	for _, e := range g.sim.Log().FilterTickRange(fromTick, toTick) {
		if e.Category == "phase" {
			continue
		}
		events = append(events, e.String())
	}
	if len(events) > 24 {
		events = append(events[:24], fmt.Sprintf("... (%d more events)", len(events)-24))
	}
	b.WriteString("events:\n")
	for _, e := range events {
		b.WriteString("  ")
		b.WriteString(e)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	b.WriteString(g.reporter.WindowSummary())
	return b.String()
}

type phaseRun struct {
	phase    string
	fromTick int
	toTick   int
}

// phaseRuns folds the transition log into contiguous phase intervals.
// Each change entry carries "from -> to" in its value; the run for "to"
// lasts until the next transition or the current tick.
func phaseRuns(changes []SimLogEntry, nowTick int) []phaseRun {
	var runs []phaseRun
	for i, e := range changes {
		parts := strings.Split(e.Value, " -> ")
		if len(parts) != 2 {
			continue
		}
		end := nowTick
		if i+1 < len(changes) {
			end = changes[i+1].Tick - 1
			if end < e.Tick {
				end = e.Tick
			}
		}
		runs = append(runs, phaseRun{phase: parts[1], fromTick: e.Tick, toTick: end})
	}
	return runs
}
