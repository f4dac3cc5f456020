package game

import (
	"fmt"
	"math"
)

const (
	tankHalfWidth  = 3   // hull half-extent across the footprint, cells
	tankHalfHeight = 2   // hull half-height, cells
	tankGravity    = 0.6 // fall per tick while unsupported
	turretLength   = 6.0 // barrel length from hull center

	aimMin   = math.Pi
	aimMax   = 2 * math.Pi
	powerMin = 10.0
	powerMax = 100.0

	tankMaxHealth = 100.0
	tankSpawnY    = 8.0
)

// Tank is one roster entry. Eliminated tanks keep their slot with zero
// health so roster indices stay stable for the whole match.
type Tank struct {
	X, Y     float64
	Angle    float64 // turret angle, radians; [pi, 2pi] sweeps over the hull
	Power    float64
	Health   float64
	FallDist float64 // distance accumulated during the current drop
	resting  bool
	dropped  bool // set once the initial spawn drop has landed
}

// NewTank spawns a tank at x with the turret straight up.
func NewTank(x, y float64) *Tank {
	return &Tank{X: x, Y: y, Angle: 1.5 * math.Pi, Power: 50, Health: tankMaxHealth}
}

func (tk *Tank) Alive() bool { return tk.Health > 0 }

// Resting reports whether the hull was supported on its last drop step.
func (tk *Tank) Resting() bool { return tk.resting }

// dropStep advances one tick of drop physics. It reports whether the tank
// is resting and, on the tick it lands, the distance it fell.
//
// A supported tank is seated exactly atop the highest occupied cell under
// its footprint: the scan starts at the supporting row beneath the hull's
// bottom edge and climbs while the row above still holds terrain. The
// virtual floor supports tanks whose column has fully eroded, which also
// clamps a sinking hull to the bottom of the field.
func (tk *Tank) dropStep(t *Terrain) (resting bool, fell float64) {
	cx := int(math.Floor(tk.X))
	bottom := int(math.Floor(tk.Y)) + tankHalfHeight
	if !t.solidAt(cx, bottom+1) {
		tk.Y += tankGravity
		tk.FallDist += tankGravity
		tk.resting = false
		return false, 0
	}
	seat := bottom + 1
	for seat > 0 && footprintBlocked(t, cx, seat-1) {
		seat--
	}
	tk.Y = float64(seat - 1 - tankHalfHeight)
	if !tk.resting {
		tk.resting = true
		fell = tk.FallDist
		tk.FallDist = 0
		tk.dropped = true
	}
	return true, fell
}

// footprintBlocked reports whether any cell of the hull-width row holds
// terrain. The virtual floor reads solid; the side walls do not support
// the hull, so columns off the field are skipped.
func footprintBlocked(t *Terrain, cx, row int) bool {
	if row >= t.h {
		return true
	}
	if row < 0 {
		return false
	}
	for x := cx - tankHalfWidth; x <= cx+tankHalfWidth; x++ {
		if x < 0 || x >= t.w {
			continue
		}
		if t.cells[row*t.w+x] {
			return true
		}
	}
	return false
}

// muzzle returns the turret tip position for the current angle.
func (tk *Tank) muzzle() (float64, float64) {
	return tk.X + math.Cos(tk.Angle)*turretLength, tk.Y + math.Sin(tk.Angle)*turretLength
}

// tankLabel names a roster index for logs and reports.
func tankLabel(i int) string {
	return fmt.Sprintf("T%d", i+1)
}

// advanceTurn moves the cursor to the next living tank strictly after the
// current index, wrapping around the roster; the cursor goes absent when
// nobody qualifies. An unset cursor starts the search before index 0, so
// the first living tank takes the first turn.
func (s *Sim) advanceTurn() {
	n := len(s.tanks)
	if n == 0 {
		s.turnIdx = -1
		return
	}
	start := s.turnIdx
	for k := 1; k <= n; k++ {
		i := (start + k + n) % n
		if s.tanks[i].Alive() {
			s.turnIdx = i
			return
		}
	}
	s.turnIdx = -1
}

// aliveTanks counts living tanks and remembers the last living index, the
// winner when exactly one remains.
func (s *Sim) aliveTanks() (n, last int) {
	last = -1
	for i, tk := range s.tanks {
		if tk.Alive() {
			n++
			last = i
		}
	}
	return n, last
}

// applyBlastDamage hurts every living tank inside the blast circle, with
// quadratic falloff from full damage at the center to zero at the rim.
func (s *Sim) applyBlastDamage(e Explosion) {
	for i, tk := range s.tanks {
		if !tk.Alive() {
			continue
		}
		d := math.Hypot(tk.X-e.X, tk.Y-e.Y)
		if d >= e.Radius {
			continue
		}
		nd := d / e.Radius
		dmg := (1 - nd*nd) * maxBlastDamage
		before := tk.Health
		tk.Health = math.Max(0, tk.Health-dmg)
		s.log.Add(s.tick, tankLabel(i), "health", "blast_damage",
			fmt.Sprintf("%.1f -> %.1f", before, tk.Health), dmg)
		if !tk.Alive() {
			s.log.Add(s.tick, tankLabel(i), "health", "eliminated",
				fmt.Sprintf("blast at (%.0f,%.0f)", e.X, e.Y), 0)
		}
	}
}
