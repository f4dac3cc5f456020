package game

import (
	"fmt"
	"math"
)

const (
	projectileGravity = 0.07 // vertical acceleration per tick
	muzzleGap         = 1.5  // spawn distance beyond the turret tip

	// Power 0..100 maps linearly onto [speedMin, speedMax] cells/tick.
	speedMin = 2.2
	speedMax = 7.0

	// Every shot draws its detonation radius from this range.
	blastRadiusMin = 7.0
	blastRadiusMax = 14.0

	maxBlastDamage = 55.0
	windMax        = 0.02
)

// Projectile is one ballistic body in the current volley.
type Projectile struct {
	X, Y   float64
	VX, VY float64
	Radius float64 // detonation radius
}

// Explosion is the 1:1 record of a detonated projectile. The batch lives
// only for the duration of the explosions phase.
type Explosion struct {
	X, Y   float64
	Radius float64
}

// FireFromTank spawns one shot just beyond the turret tip of roster index
// i, with muzzle speed scaled from power along the given angle. Panics on
// an invalid roster index.
func (s *Sim) FireFromTank(i int, angle, power float64) {
	if i < 0 || i >= len(s.tanks) {
		panic(fmt.Sprintf("fire from invalid tank index %d (roster size %d)", i, len(s.tanks)))
	}
	tk := s.tanks[i]
	speed := speedMin + (power/100.0)*(speedMax-speedMin)
	dirX := math.Cos(angle)
	dirY := math.Sin(angle)
	launch := turretLength + muzzleGap
	p := &Projectile{
		X:      tk.X + dirX*launch,
		Y:      tk.Y + dirY*launch,
		VX:     dirX * speed,
		VY:     dirY * speed,
		Radius: s.rng.BetweenF(blastRadiusMin, blastRadiusMax),
	}
	s.projectiles = append(s.projectiles, p)
	s.log.Add(s.tick, tankLabel(i), "fire", "shot",
		fmt.Sprintf("angle=%.2f power=%.0f r=%.1f", angle, power, p.Radius), power)
}

// autoVolley rains 1-3 random shots from the top edge, the idle variant's
// stand-in for player turns. The volley collection is rebuilt fresh.
func (s *Sim) autoVolley() {
	s.projectiles = s.projectiles[:0]
	n := 1 + s.rng.Intn(3)
	for j := 0; j < n; j++ {
		p := &Projectile{
			X:      s.rng.BetweenF(0, float64(s.w)),
			Y:      0,
			VX:     s.rng.BetweenF(-1.5, 1.5),
			VY:     s.rng.BetweenF(0.5, 2.0),
			Radius: s.rng.BetweenF(blastRadiusMin, blastRadiusMax),
		}
		s.projectiles = append(s.projectiles, p)
	}
	s.log.Add(s.tick, "sim", "fire", "volley", fmt.Sprintf("%d shots", n), float64(n))
}

// stepProjectiles advances every body one tick and resolves contacts,
// returning the fresh batch of explosions (empty when nothing detonated).
// Bodies leaving the sides or the floor are dropped with no blast; flying
// above the field keeps a shot alive so it can arc back down.
func (s *Sim) stepProjectiles() []Explosion {
	var batch []Explosion
	kept := s.projectiles[:0]
	for _, p := range s.projectiles {
		prevX, prevY := p.X, p.Y
		p.VY += projectileGravity
		p.VX += s.wind
		p.X += p.VX
		p.Y += p.VY
		if p.X < 0 || p.X >= float64(s.w) || p.Y >= float64(s.h) {
			s.log.AddVerbose(s.tick, "sim", "impact", "out_of_bounds",
				fmt.Sprintf("(%.1f,%.1f)", p.X, p.Y), 0)
			continue
		}
		if hx, hy, ok := rayCast(s.terrain, s.tanks, prevX, prevY, p.X, p.Y); ok {
			batch = append(batch, Explosion{X: hx, Y: hy, Radius: p.Radius})
			s.log.Add(s.tick, "sim", "impact", "detonation",
				fmt.Sprintf("(%.1f,%.1f) r=%.1f", hx, hy, p.Radius), p.Radius)
			continue
		}
		kept = append(kept, p)
	}
	s.projectiles = kept
	return batch
}
