package game

import "math"

// tankHitRadius is the proximity radius for shot-versus-tank contact.
const tankHitRadius = 4.0

// rayCast walks the grid cells from (x0,y0) to (x1,y1) with equal-error
// integer stepping and returns the first contact on the way: an occupied
// cell (reported at the cell's center) or a living tank (reported on the
// hull circle along the approach). ok is false when the segment crosses
// nothing. Checking every rasterized cell keeps fast shots from
// tunneling through thin terrain or a tank.
func rayCast(t *Terrain, tanks []*Tank, x0, y0, x1, y1 float64) (float64, float64, bool) {
	ix := int(math.Floor(x0))
	iy := int(math.Floor(y0))
	// A shot already buried in terrain detonates where it stands.
	if shotBlockedAt(t, ix, iy) {
		return x0, y0, true
	}
	ex := int(math.Floor(x1))
	ey := int(math.Floor(y1))
	dx := absInt(ex - ix)
	dy := absInt(ey - iy)
	sx := 1
	if ix > ex {
		sx = -1
	}
	sy := 1
	if iy > ey {
		sy = -1
	}
	e := dx - dy
	for {
		if hx, hy, ok := contactAt(t, tanks, ix, iy, x0, y0); ok {
			return hx, hy, true
		}
		if ix == ex && iy == ey {
			return 0, 0, false
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			ix += sx
		}
		if e2 < dx {
			e += dx
			iy += sy
		}
	}
}

// shotBlockedAt is the occupancy reading for shots: above the field is
// open sky so lobbed shots can arc off-screen, while the floor and side
// walls read solid like they do for the automaton.
func shotBlockedAt(t *Terrain, x, y int) bool {
	if y < 0 {
		return false
	}
	return t.solidAt(x, y)
}

// contactAt tests one rasterized cell. Terrain wins over tanks when both
// claim the cell: the grid is what the shot buries into first.
func contactAt(t *Terrain, tanks []*Tank, ix, iy int, fromX, fromY float64) (float64, float64, bool) {
	if shotBlockedAt(t, ix, iy) {
		return float64(ix), float64(iy), true
	}
	cx := float64(ix)
	cy := float64(iy)
	for _, tk := range tanks {
		if !tk.Alive() {
			continue
		}
		dx := cx - tk.X
		dy := cy - tk.Y
		if dx*dx+dy*dy > tankHitRadius*tankHitRadius {
			continue
		}
		// Project the contact onto the hull circle so the blast
		// originates at the tank's surface, not its center.
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist < 1e-9 {
			// Dead-center contact: back off toward the shot's origin.
			dx = fromX - tk.X
			dy = fromY - tk.Y
			dist = math.Sqrt(dx*dx + dy*dy)
			if dist < 1e-9 {
				return tk.X, tk.Y - tankHitRadius, true
			}
		}
		return tk.X + dx/dist*tankHitRadius, tk.Y + dy/dist*tankHitRadius, true
	}
	return 0, 0, false
}
