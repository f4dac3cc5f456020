package game

import "fmt"

const (
	defaultFieldW = 320
	defaultFieldH = 180

	// explosionDuration is how many ticks the explosions phase holds the
	// blast on screen. Craters are carved on the first of them.
	explosionDuration = 30
)

// Mode selects the engine variant.
type Mode int

const (
	// ModeTurnBased is the full game: tank roster, player control, turns,
	// elimination and gameover.
	ModeTurnBased Mode = iota
	// ModeAutoFire is the legacy loop: idle rains random volleys onto the
	// terrain with no roster, no control phase and no end. The headless
	// runner and the demo restart use it.
	ModeAutoFire
)

func (m Mode) String() string {
	if m == ModeAutoFire {
		return "auto_fire"
	}
	return "turn_based"
}

// terrainProfile picks the initial field fill.
type terrainProfile int

const (
	terrainHills terrainProfile = iota
	terrainFlat
	terrainEmpty
	terrainFull
)

// Sim is the artillery engine. One Update call advances exactly one tick;
// the driving clock owns the cadence. Sim is not safe for concurrent use:
// Update and Snapshot must be called from the same goroutine or under
// external synchronization.
type Sim struct {
	w, h int
	seed int64
	mode Mode
	rng  *Rand

	terrain     *Terrain
	tanks       []*Tank
	projectiles []*Projectile
	explosions  []Explosion

	phase          Phase
	explosionTicks int
	wind           float64
	turnIdx        int
	winner         int
	tick           int

	pendingAim   float64
	pendingPower float64
	fireQueued   bool

	volleysFired  int
	cratersCarved int
	sandPasses    int // passes in the current sand phase

	log *SimLog

	// construction-time knobs, consumed by NewSim
	tankCount   int
	profile     terrainProfile
	flatSurface int
	verbose     bool
	placed      bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // size, seed, mode, terrain profile, verbose
	simOptActor                      // tank placement, after terrain exists
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithFieldSize sets the grid dimensions.
func WithFieldSize(w, h int) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.w = w
		s.h = h
	}}
}

// WithSeed sets the seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.seed = seed
	}}
}

// WithAutoFire switches the engine to the legacy rosterless variant.
func WithAutoFire() SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.mode = ModeAutoFire
	}}
}

// WithVerboseLog records per-tick detail entries in the sim log.
func WithVerboseLog() SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.verbose = true
	}}
}

// WithTankCount sets the size of the default evenly-spread roster.
func WithTankCount(n int) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.tankCount = n
	}}
}

// WithFlatTerrain fills every column down from the given surface row,
// replacing the rolling-hill generator. Used by scripted scenarios.
func WithFlatTerrain(surface int) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.profile = terrainFlat
		s.flatSurface = surface
	}}
}

// WithEmptyTerrain starts with a bare field.
func WithEmptyTerrain() SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.profile = terrainEmpty
	}}
}

// WithFullTerrain starts with every cell occupied.
func WithFullTerrain() SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.profile = terrainFull
	}}
}

// WithTankAt places a tank at the given column, at spawn height. Custom
// placements replace the default spread roster.
func WithTankAt(x float64) SimOption {
	return SimOption{simOptActor, func(s *Sim) {
		s.tanks = append(s.tanks, NewTank(x, tankSpawnY))
		s.placed = true
	}}
}

// NewSim builds an engine in ordered passes: infrastructure options
// first (field size, seed, mode, terrain profile), then the terrain,
// then actor options (tank placement). With no actor options, a
// turn-based sim spreads tankCount tanks evenly across the field.
func NewSim(opts ...SimOption) *Sim {
	s := &Sim{
		w:         defaultFieldW,
		h:         defaultFieldH,
		seed:      1,
		phase:     PhaseIdle,
		turnIdx:   -1,
		winner:    -1,
		tankCount: 2,
		profile:   terrainHills,
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(s)
		}
	}
	s.rng = NewRand(s.seed)
	s.log = NewSimLog(s.verbose)
	s.terrain = NewTerrain(s.w, s.h, s.rng)
	switch s.profile {
	case terrainHills:
		s.terrain.GenerateHills()
	case terrainFlat:
		s.terrain.GenerateFlat(s.flatSurface)
	case terrainFull:
		s.terrain.GenerateFull()
	case terrainEmpty:
		// stays bare
	}
	for _, o := range opts {
		if o.kind == simOptActor {
			o.fn(s)
		}
	}
	if !s.placed && s.mode == ModeTurnBased {
		for i := 0; i < s.tankCount; i++ {
			x := float64(s.w) * float64(i+1) / float64(s.tankCount+1)
			s.tanks = append(s.tanks, NewTank(x, tankSpawnY))
		}
	}
	return s
}

// Update advances the simulation by one tick. PhaseGameOver is terminal:
// no further phase work happens and the tick counter stops.
func (s *Sim) Update() {
	if s.phase == PhaseGameOver {
		return
	}
	s.tick++
	switch s.phase {
	case PhaseIdle:
		s.tickIdle()
	case PhaseTanks:
		s.tickTanks()
	case PhaseControl:
		s.tickControl()
	case PhaseMissiles:
		s.tickMissiles()
	case PhaseExplosions:
		s.tickExplosions()
	case PhaseSand:
		s.tickSand()
	}
	if s.mode == ModeTurnBased {
		s.checkElimination()
	}
}

func (s *Sim) tickIdle() {
	if s.mode == ModeAutoFire {
		s.regenWind()
		s.autoVolley()
		s.volleysFired++
		s.transition(PhaseMissiles)
		return
	}
	s.transition(PhaseTanks)
}

// tickTanks runs drop physics until every tank rests, then hands control
// to the active tank. A dead or unset cursor is advanced to the next
// living tank before control begins.
func (s *Sim) tickTanks() {
	all := true
	for i, tk := range s.tanks {
		wasDropped := tk.dropped
		resting, fell := tk.dropStep(s.terrain)
		if !resting {
			all = false
			continue
		}
		if fell > 0 {
			key := "landed"
			if !wasDropped {
				key = "initial_drop"
			}
			s.log.AddVerbose(s.tick, tankLabel(i), "tank", key,
				fmt.Sprintf("fell %.1f to y=%.0f", fell, tk.Y), fell)
		}
	}
	if !all {
		return
	}
	if s.turnIdx < 0 || !s.tanks[s.turnIdx].Alive() {
		s.advanceTurn()
		if s.turnIdx >= 0 {
			s.log.Add(s.tick, tankLabel(s.turnIdx), "turn", "begin", "", float64(s.turnIdx))
		}
	}
	s.transition(PhaseControl)
}

// tickControl applies buffered aim and power to the active tank, then
// fires if a shot was queued. Indexing with an absent cursor panics here,
// which is the intended loud failure: the dispatch guarantees a living
// active tank in this phase.
func (s *Sim) tickControl() {
	tk := s.tanks[s.turnIdx]
	if s.pendingAim != 0 {
		tk.Angle = clampF(tk.Angle+s.pendingAim, aimMin, aimMax)
		s.pendingAim = 0
	}
	if s.pendingPower != 0 {
		tk.Power = clampF(tk.Power+s.pendingPower, powerMin, powerMax)
		s.pendingPower = 0
	}
	if !s.fireQueued {
		return
	}
	s.fireQueued = false
	s.regenWind()
	s.projectiles = s.projectiles[:0]
	s.FireFromTank(s.turnIdx, tk.Angle, tk.Power)
	s.volleysFired++
	s.transition(PhaseMissiles)
}

func (s *Sim) tickMissiles() {
	batch := s.stepProjectiles()
	if len(batch) > 0 {
		s.explosions = batch
		s.explosionTicks = explosionDuration
		s.transition(PhaseExplosions)
		return
	}
	if len(s.projectiles) == 0 {
		if s.mode == ModeTurnBased {
			s.advanceTurn()
		}
		s.transition(PhaseSand)
	}
}

// tickExplosions carves craters and applies blast damage exactly once, on
// the first tick of the phase, then burns down the countdown.
func (s *Sim) tickExplosions() {
	if s.explosionTicks == explosionDuration {
		for _, e := range s.explosions {
			before := s.terrain.OccupiedCount()
			s.terrain.ClearCircle(e.X, e.Y, e.Radius)
			s.cratersCarved++
			removed := before - s.terrain.OccupiedCount()
			s.log.Add(s.tick, "sim", "terrain", "crater",
				fmt.Sprintf("cleared %d cells at (%.0f,%.0f) r=%.1f", removed, e.X, e.Y, e.Radius),
				float64(removed))
			s.applyBlastDamage(e)
		}
	}
	s.explosionTicks--
	if s.explosionTicks > 0 {
		return
	}
	s.explosions = nil
	if s.mode == ModeTurnBased {
		s.advanceTurn()
	}
	s.transition(PhaseSand)
}

// tickSand runs one settling pass per tick until the terrain is still.
func (s *Sim) tickSand() {
	s.sandPasses++
	if s.terrain.Settle() {
		return
	}
	s.log.Add(s.tick, "sim", "terrain", "settled",
		fmt.Sprintf("%d passes", s.sandPasses), float64(s.sandPasses))
	s.sandPasses = 0
	if s.mode == ModeAutoFire {
		s.transition(PhaseIdle)
		return
	}
	s.transition(PhaseTanks)
}

// checkElimination ends the match the moment at most one tank is left.
// It runs after every tick regardless of phase.
func (s *Sim) checkElimination() {
	alive, last := s.aliveTanks()
	if alive > 1 {
		return
	}
	if alive == 1 {
		s.turnIdx = last
		s.winner = last
		s.log.Add(s.tick, "sim", "match", "gameover",
			fmt.Sprintf("sole_survivor_t%d", last+1), float64(last))
	} else {
		s.turnIdx = -1
		s.winner = -1
		s.log.Add(s.tick, "sim", "match", "gameover", "mutual_destruction", 0)
	}
	s.transition(PhaseGameOver)
}

// transition moves the engine to a new phase, enforcing the legality
// table. An illegal edge means the tick dispatch is broken.
func (s *Sim) transition(to Phase) {
	if !canTransition(s.phase, to) {
		panic(fmt.Sprintf("illegal phase transition %s -> %s", s.phase, to))
	}
	s.log.Add(s.tick, "sim", "phase", "change",
		fmt.Sprintf("%s -> %s", s.phase, to), 0)
	s.phase = to
}

// regenWind draws the volley's wind. It stays constant until the next
// volley.
func (s *Sim) regenWind() {
	s.wind = s.rng.BetweenF(-windMax, windMax)
	s.log.Add(s.tick, "sim", "wind", "regen", fmt.Sprintf("%+.4f", s.wind), s.wind)
}

// SetAim buffers a turret rotation, applied to the active tank on the
// next control tick and clamped to [pi, 2pi].
func (s *Sim) SetAim(delta float64) {
	s.pendingAim += delta
}

// SetPower buffers a power change, applied to the active tank on the
// next control tick and clamped to [10, 100].
func (s *Sim) SetPower(delta float64) {
	s.pendingPower += delta
}

// RequestFire queues a shot. The request latches until the next control
// tick and is consumed exactly once.
func (s *Sim) RequestFire() {
	s.fireQueued = true
}

// RunTicks advances the simulation n ticks.
func (s *Sim) RunTicks(n int) {
	for i := 0; i < n; i++ {
		s.Update()
	}
}

// RunUntil advances the simulation up to maxTicks, stopping early when
// the predicate holds. It returns the tick the predicate was satisfied
// at, or -1.
func (s *Sim) RunUntil(pred func(*Sim) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		s.Update()
		if pred(s) {
			return s.tick
		}
	}
	return -1
}

func (s *Sim) Phase() Phase  { return s.phase }
func (s *Sim) Tick() int     { return s.tick }
func (s *Sim) Seed() int64   { return s.seed }
func (s *Sim) Log() *SimLog  { return s.log }
func (s *Sim) Wind() float64 { return s.wind }

// TurnIndex returns the cursor, -1 when absent.
func (s *Sim) TurnIndex() int { return s.turnIdx }

// Winner returns the winning roster index, -1 while undecided or drawn.
func (s *Sim) Winner() int { return s.winner }

// TankSnapshot is a copy of one roster entry.
type TankSnapshot struct {
	X, Y     float64
	Angle    float64
	Power    float64
	Health   float64
	FallDist float64
	Resting  bool
}

// ProjectileSnapshot is a copy of one ballistic body.
type ProjectileSnapshot struct {
	X, Y   float64
	VX, VY float64
	Radius float64
}

// ExplosionSnapshot is a copy of one pending blast.
type ExplosionSnapshot struct {
	X, Y   float64
	Radius float64
}

// SimSnapshot is a deep copy of the externally visible state. The shell
// renders from it and tests assert on it; mutating one never affects the
// engine.
type SimSnapshot struct {
	Tick           int
	Phase          Phase
	Mode           Mode
	FieldW, FieldH int
	Terrain        []bool
	Projectiles    []ProjectileSnapshot
	Explosions     []ExplosionSnapshot
	ExplosionTicks int
	Tanks          []TankSnapshot
	Wind           float64
	TurnIndex      int
	Winner         int
	VolleysFired   int
	CratersCarved  int
}

// Snapshot captures the current state. Safe to hold across ticks.
func (s *Sim) Snapshot() SimSnapshot {
	snap := SimSnapshot{
		Tick:           s.tick,
		Phase:          s.phase,
		Mode:           s.mode,
		FieldW:         s.w,
		FieldH:         s.h,
		Terrain:        s.terrain.CopyCells(nil),
		ExplosionTicks: s.explosionTicks,
		Wind:           s.wind,
		TurnIndex:      s.turnIdx,
		Winner:         s.winner,
		VolleysFired:   s.volleysFired,
		CratersCarved:  s.cratersCarved,
	}
	for _, p := range s.projectiles {
		snap.Projectiles = append(snap.Projectiles, ProjectileSnapshot{
			X: p.X, Y: p.Y, VX: p.VX, VY: p.VY, Radius: p.Radius,
		})
	}
	for _, e := range s.explosions {
		snap.Explosions = append(snap.Explosions, ExplosionSnapshot{X: e.X, Y: e.Y, Radius: e.Radius})
	}
	for _, tk := range s.tanks {
		snap.Tanks = append(snap.Tanks, TankSnapshot{
			X: tk.X, Y: tk.Y,
			Angle: tk.Angle, Power: tk.Power, Health: tk.Health,
			FallDist: tk.FallDist, Resting: tk.resting,
		})
	}
	return snap
}
