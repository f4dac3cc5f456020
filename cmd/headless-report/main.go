package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/gerardpaapu/bernard/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	firstCraterTick int
	firstSettleTick int

	volleys     int
	detonations int
	outOfBounds int
	craters     int
	settles     int
	windRegens  int

	grainsStart int
	grainsEnd   int
	craterCells int

	maxSettlePasses int

	windowSummary string
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var fieldW int
	var fieldH int
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 3600, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&fieldW, "w", 320, "field width in cells")
	flag.IntVar(&fieldH, "h", 180, "field height in cells")
	flag.BoolVar(&verbose, "v", false, "record per-tick detail entries in the sim log")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if fieldW <= 0 || fieldH <= 0 {
		fmt.Printf("error: bad field size %dx%d\n", fieldW, fieldH)
		return
	}

	fmt.Printf("=== Headless Erosion Report ===\n")
	fmt.Printf("runs=%d ticks=%d field=%dx%d seed_base=%d seed_step=%d\n\n",
		runs, ticks, fieldW, fieldH, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runErosion(i+1, seed, ticks, fieldW, fieldH, verbose)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runErosion drives one auto-fire match for the given tick budget and
// distills its sim log into counters.
func runErosion(runIndex int, seed int64, ticks, w, h int, verbose bool) runStats {
	opts := []game.SimOption{
		game.WithFieldSize(w, h),
		game.WithSeed(seed),
		game.WithAutoFire(),
	}
	if verbose {
		opts = append(opts, game.WithVerboseLog())
	}
	s := game.NewSim(opts...)
	grainsStart := countGrains(s.Snapshot().Terrain)

	reporter := game.NewMatchReporter(ticks)
	for t := 0; t < ticks; t++ {
		s.Update()
		if s.Tick()%60 == 0 {
			reporter.Collect(s.Snapshot())
		}
	}

	snap := s.Snapshot()
	log := s.Log()
	entries := log.Entries()

	craterCells := 0
	maxPasses := 0
	for _, e := range entries {
		if e.Category != "terrain" {
			continue
		}
		switch e.Key {
		case "crater":
			craterCells += int(e.NumVal)
		case "settled":
			if int(e.NumVal) > maxPasses {
				maxPasses = int(e.NumVal)
			}
		}
	}

	return runStats{
		runIndex:        runIndex,
		seed:            seed,
		firstCraterTick: firstTick(entries, "terrain", "crater", ""),
		firstSettleTick: firstTick(entries, "terrain", "settled", ""),
		volleys:         snap.VolleysFired,
		detonations:     log.CountCategory("impact", "detonation"),
		outOfBounds:     log.CountCategory("impact", "out_of_bounds"),
		craters:         snap.CratersCarved,
		settles:         log.CountCategory("terrain", "settled"),
		windRegens:      log.CountCategory("wind", "regen"),
		grainsStart:     grainsStart,
		grainsEnd:       countGrains(snap.Terrain),
		craterCells:     craterCells,
		maxSettlePasses: maxPasses,
		windowSummary:   reporter.WindowSummary(),
	}
}

// firstTick returns the tick of the first entry matching category and key,
// optionally requiring a value substring, or -1 when none matches.
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
	fmt.Printf("phase_markers: first_crater=%d first_settle=%d\n",
		rs.firstCraterTick, rs.firstSettleTick)
	fmt.Printf("event_totals: volleys=%d detonations=%d out_of_bounds=%d craters=%d settles=%d wind_regens=%d\n",
		rs.volleys, rs.detonations, rs.outOfBounds, rs.craters, rs.settles, rs.windRegens)
	fmt.Printf("terrain: grains %d -> %d (%+d) crater_cells=%d max_settle_passes=%d class=%s\n",
		rs.grainsStart, rs.grainsEnd, rs.grainsEnd-rs.grainsStart,
		rs.craterCells, rs.maxSettlePasses, classifyErosion(rs.grainsStart, rs.grainsEnd))
	fmt.Print(rs.windowSummary)
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalVolleys := 0
	totalDetonations := 0
	totalOOB := 0
	totalCraters := 0
	totalSettles := 0
	totalCraterCells := 0

	craterTicks := make([]int, 0, len(all))
	settleTicks := make([]int, 0, len(all))
	classCounts := map[string]int{}
	lossSum := 0.0
	lossRuns := 0

	for _, rs := range all {
		totalVolleys += rs.volleys
		totalDetonations += rs.detonations
		totalOOB += rs.outOfBounds
		totalCraters += rs.craters
		totalSettles += rs.settles
		totalCraterCells += rs.craterCells
		if rs.firstCraterTick >= 0 {
			craterTicks = append(craterTicks, rs.firstCraterTick)
		}
		if rs.firstSettleTick >= 0 {
			settleTicks = append(settleTicks, rs.firstSettleTick)
		}
		classCounts[classifyErosion(rs.grainsStart, rs.grainsEnd)]++
		if rs.grainsStart > 0 {
			lossSum += float64(rs.grainsStart-rs.grainsEnd) / float64(rs.grainsStart) * 100
			lossRuns++
		}
	}

	fmt.Println("=== Aggregate Erosion Inputs ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: volleys=%.1f detonations=%.1f out_of_bounds=%.1f craters=%.1f settles=%.1f crater_cells=%.1f\n",
		avg(totalVolleys, len(all)), avg(totalDetonations, len(all)), avg(totalOOB, len(all)),
		avg(totalCraters, len(all)), avg(totalSettles, len(all)), avg(totalCraterCells, len(all)))
	fmt.Printf("phase_marker_avg_ticks: first_crater=%s first_settle=%s\n",
		avgTickString(craterTicks), avgTickString(settleTicks))
	fmt.Printf("avg_grain_loss=%s%%\n", avgLossString(lossSum, lossRuns))

	classes := make([]string, 0, len(classCounts))
	for c := range classCounts {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	fmt.Print("erosion_classes:")
	for _, c := range classes {
		fmt.Printf(" %s=%d", c, classCounts[c])
	}
	fmt.Println()
}

func countGrains(cells []bool) int {
	n := 0
	for _, c := range cells {
		if c {
			n++
		}
	}
	return n
}

// classifyErosion buckets a run by the share of starting grains lost to
// craters over the run.
func classifyErosion(start, end int) string {
	if start <= 0 {
		return "erosion_none"
	}
	lost := float64(start-end) / float64(start)
	switch {
	case lost < 0.10:
		return "erosion_light"
	case lost < 0.30:
		return "erosion_moderate"
	default:
		return "erosion_heavy"
	}
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

func avgLossString(sum float64, n int) string {
	if n <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", sum/float64(n))
}
