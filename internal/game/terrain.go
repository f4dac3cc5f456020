package game

import (
	"fmt"
	"math"
)

const (
	// surfaceFrac places the mean skyline this far down the field.
	surfaceFrac = 0.55
	// surfaceJitter is the per-column random offset of the skyline, cells.
	surfaceJitter = 2
	// pitChance pokes occasional one-cell pits into the fresh surface.
	pitChance = 0.08
)

// Terrain owns the binary occupancy grid and the falling-sand automaton.
// The grid is row-major, index y*w+x, with y growing downward. Cells are
// unit squares centered on integer lattice points. Settling is double
// buffered: a pass writes into a scratch buffer and swaps, so no grain
// ever moves more than one row per pass.
type Terrain struct {
	w, h  int
	cells []bool
	next  []bool
	rng   *Rand
}

// NewTerrain allocates an empty field. Generate* fills it.
func NewTerrain(w, h int, rng *Rand) *Terrain {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("terrain: bad field size %dx%d", w, h))
	}
	return &Terrain{
		w:     w,
		h:     h,
		cells: make([]bool, w*h),
		next:  make([]bool, w*h),
		rng:   rng,
	}
}

func (t *Terrain) Width() int  { return t.w }
func (t *Terrain) Height() int { return t.h }

// At reports occupancy and panics out of bounds. Callers that want the
// solid-boundary reading go through solidAt instead.
func (t *Terrain) At(x, y int) bool {
	if x < 0 || x >= t.w || y < 0 || y >= t.h {
		panic(fmt.Sprintf("terrain: cell (%d,%d) outside %dx%d", x, y, t.w, t.h))
	}
	return t.cells[y*t.w+x]
}

// Set writes one cell and panics out of bounds.
func (t *Terrain) Set(x, y int, solid bool) {
	if x < 0 || x >= t.w || y < 0 || y >= t.h {
		panic(fmt.Sprintf("terrain: cell (%d,%d) outside %dx%d", x, y, t.w, t.h))
	}
	t.cells[y*t.w+x] = solid
}

// solidAt treats everything outside the grid as solid. Grains cannot
// leave through the floor or the side walls, and tanks find footing on
// the virtual floor.
func (t *Terrain) solidAt(x, y int) bool {
	if x < 0 || x >= t.w || y < 0 || y >= t.h {
		return true
	}
	return t.cells[y*t.w+x]
}

// GenerateHills fills the field with a rolling skyline: three sine
// harmonics of the column index pick each column's surface row, and the
// surface gets a jittered, occasionally pitted fringe.
func (t *Terrain) GenerateHills() {
	base := float64(t.h) * surfaceFrac
	amp := float64(t.h) * 0.17
	p1 := t.rng.BetweenF(0, 2*math.Pi)
	p2 := t.rng.BetweenF(0, 2*math.Pi)
	p3 := t.rng.BetweenF(0, 2*math.Pi)
	f1 := 2 * math.Pi / float64(t.w)
	for x := 0; x < t.w; x++ {
		fx := float64(x)
		s := math.Sin(fx*f1+p1) + 0.5*math.Sin(fx*f1*2.7+p2) + 0.25*math.Sin(fx*f1*6.1+p3)
		surface := int(base+amp*s/1.75) + t.rng.Between(-surfaceJitter, surfaceJitter)
		surface = clamp(surface, 1, t.h-1)
		for y := surface; y < t.h; y++ {
			t.cells[y*t.w+x] = true
		}
		if t.rng.Float64() < pitChance {
			t.cells[surface*t.w+x] = false
		}
	}
}

// GenerateFlat fills every column from the given surface row to the
// floor. Used by scripted scenarios.
func (t *Terrain) GenerateFlat(surface int) {
	surface = clamp(surface, 0, t.h)
	for y := surface; y < t.h; y++ {
		for x := 0; x < t.w; x++ {
			t.cells[y*t.w+x] = true
		}
	}
}

// GenerateFull occupies the whole field.
func (t *Terrain) GenerateFull() {
	for i := range t.cells {
		t.cells[i] = true
	}
}

// Settle runs one pass of the automaton and reports whether any grain
// moved. The sweep is bottom-up, columns left to right; rows below the
// sweep row are already final in the scratch buffer, and two grains
// contending for the same diagonal resolve in column order. Priority per
// grain, out of bounds reading as solid:
//
//  1. straight down
//  2. both diagonals open: 50/50 random pick
//  3. down-left only
//  4. down-right only
//  5. blocked, stays
func (t *Terrain) Settle() bool {
	for i := range t.next {
		t.next[i] = false
	}
	changed := false
	for y := t.h - 1; y >= 0; y-- {
		for x := 0; x < t.w; x++ {
			if !t.cells[y*t.w+x] {
				continue
			}
			nx, ny := x, y
			openL := !t.destSolid(x-1, y+1)
			openR := !t.destSolid(x+1, y+1)
			switch {
			case !t.destSolid(x, y+1):
				ny = y + 1
			case openL && openR:
				if t.rng.Coin() {
					nx = x - 1
				} else {
					nx = x + 1
				}
				ny = y + 1
			case openL:
				nx, ny = x-1, y+1
			case openR:
				nx, ny = x+1, y+1
			}
			t.next[ny*t.w+nx] = true
			if nx != x || ny != y {
				changed = true
			}
		}
	}
	t.cells, t.next = t.next, t.cells
	return changed
}

// destSolid is the occupancy reading for fall destinations: out of bounds
// is solid, in bounds reads the scratch buffer, where the rows beneath
// the sweep row and the earlier columns of the current row are final.
func (t *Terrain) destSolid(x, y int) bool {
	if x < 0 || x >= t.w || y < 0 || y >= t.h {
		return true
	}
	return t.next[y*t.w+x]
}

// ClearCircle empties every cell whose center lies within radius of
// (cx,cy), inclusive, by squared-distance comparison. The scan window is
// clipped to the grid.
func (t *Terrain) ClearCircle(cx, cy, radius float64) {
	if radius <= 0 {
		return
	}
	r2 := radius * radius
	x0 := clamp(int(math.Floor(cx-radius)), 0, t.w-1)
	x1 := clamp(int(math.Ceil(cx+radius)), 0, t.w-1)
	y0 := clamp(int(math.Floor(cy-radius)), 0, t.h-1)
	y1 := clamp(int(math.Ceil(cy+radius)), 0, t.h-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy > r2 {
				continue
			}
			t.cells[y*t.w+x] = false
		}
	}
}

// OccupiedCount returns the number of grains on the field.
func (t *Terrain) OccupiedCount() int {
	n := 0
	for _, c := range t.cells {
		if c {
			n++
		}
	}
	return n
}

// CopyCells appends a copy of the occupancy buffer to dst and returns the
// result. Pass a reused slice to avoid per-snapshot allocation.
func (t *Terrain) CopyCells(dst []bool) []bool {
	return append(dst[:0], t.cells...)
}
