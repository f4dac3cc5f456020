package game

import (
	"slices"
	"testing"
)

// makeTerrain builds a field from rows of '#' (solid) and '.' (open).
func makeTerrain(t *testing.T, seed int64, rows []string) *Terrain {
	t.Helper()
	h := len(rows)
	w := len(rows[0])
	tr := NewTerrain(w, h, NewRand(seed))
	for y, row := range rows {
		if len(row) != w {
			t.Fatalf("row %d is %d wide, want %d", y, len(row), w)
		}
		for x, c := range row {
			if c == '#' {
				tr.Set(x, y, true)
			}
		}
	}
	return tr
}

// checkCells compares the grid against the expected rows cell by cell.
func checkCells(t *testing.T, tr *Terrain, rows []string) {
	t.Helper()
	for y, row := range rows {
		for x, c := range row {
			want := c == '#'
			if got := tr.At(x, y); got != want {
				t.Errorf("cell (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestNewTerrain_BadSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on zero-width field")
		}
	}()
	NewTerrain(0, 10, NewRand(1))
}

func TestTerrain_AtOutOfBoundsPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-bounds read")
		}
	}()
	tr := NewTerrain(4, 4, NewRand(1))
	tr.At(4, 0)
}

func TestTerrain_SolidAtBoundary(t *testing.T) {
	tr := NewTerrain(4, 4, NewRand(1))
	cases := []struct {
		x, y int
		want bool
	}{
		{-1, 0, true},
		{4, 0, true},
		{0, -1, true},
		{0, 4, true},
		{1, 1, false},
	}
	for _, tc := range cases {
		if got := tr.solidAt(tc.x, tc.y); got != tc.want {
			t.Errorf("solidAt(%d,%d) = %v, want %v", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestSettle_GrainFallsOneRowPerPass(t *testing.T) {
	// Spec scenario: single grain top-left, solid bottom row. The grain
	// descends one row per pass and a pass on the settled grid reports no
	// movement.
	tr := makeTerrain(t, 1, []string{
		"#...",
		"....",
		"....",
		"####",
	})

	if !tr.Settle() {
		t.Fatalf("pass 1: expected movement")
	}
	checkCells(t, tr, []string{
		"....",
		"#...",
		"....",
		"####",
	})

	if !tr.Settle() {
		t.Fatalf("pass 2: expected movement")
	}
	checkCells(t, tr, []string{
		"....",
		"....",
		"#...",
		"####",
	})

	if tr.Settle() {
		t.Fatalf("pass 3: grid is settled, expected no movement")
	}
	checkCells(t, tr, []string{
		"....",
		"....",
		"#...",
		"####",
	})
}

func TestSettle_StraightDownBeatsDiagonals(t *testing.T) {
	// Below and both diagonals open: the grain must go straight down.
	tr := makeTerrain(t, 1, []string{
		".#.",
		"...",
		"...",
	})
	tr.Settle()
	checkCells(t, tr, []string{
		"...",
		".#.",
		"...",
	})
}

func TestSettle_DownLeftOnly(t *testing.T) {
	tr := makeTerrain(t, 1, []string{
		"...",
		".#.",
		".##",
	})
	tr.Settle()
	checkCells(t, tr, []string{
		"...",
		"...",
		"###",
	})
}

func TestSettle_DownRightOnly(t *testing.T) {
	tr := makeTerrain(t, 1, []string{
		"...",
		".#.",
		"##.",
	})
	tr.Settle()
	checkCells(t, tr, []string{
		"...",
		"...",
		"###",
	})
}

func TestSettle_BlockedGrainStays(t *testing.T) {
	tr := makeTerrain(t, 1, []string{
		".#.",
		"###",
	})
	if tr.Settle() {
		t.Fatalf("fully supported pile should not move")
	}
	checkCells(t, tr, []string{
		".#.",
		"###",
	})
}

func TestSettle_WallsAndFloorAreSolid(t *testing.T) {
	// Grains in the bottom corners have nowhere to go: out of bounds
	// reads as solid on every side.
	tr := makeTerrain(t, 1, []string{
		"...",
		"#.#",
	})
	if tr.Settle() {
		t.Fatalf("corner grains should rest against walls and floor")
	}
	checkCells(t, tr, []string{
		"...",
		"#.#",
	})
}

func TestSettle_DiagonalContendersResolveInColumnOrder(t *testing.T) {
	// Two grains flank a gap over a solid shelf. The left grain is swept
	// first and claims the shared diagonal; the right grain then finds its
	// only destination taken and stays put.
	tr := makeTerrain(t, 1, []string{
		"#.#",
		"#.#",
	})
	tr.Settle()
	checkCells(t, tr, []string{
		"..#",
		"###",
	})
}

func TestSettle_SpireShedsDeterministically(t *testing.T) {
	build := func() *Terrain {
		tr := NewTerrain(9, 6, NewRand(99))
		for y := 1; y < 6; y++ {
			tr.Set(4, y, true)
		}
		return tr
	}
	a := build()
	b := build()

	for pass := 0; pass < 20; pass++ {
		am := a.Settle()
		bm := b.Settle()
		if am != bm {
			t.Fatalf("pass %d: movement diverged between identical seeds", pass)
		}
		if !slices.Equal(a.CopyCells(nil), b.CopyCells(nil)) {
			t.Fatalf("pass %d: grids diverged between identical seeds", pass)
		}
		if !am {
			break
		}
	}

	if a.Settle() {
		t.Fatalf("spire should be at rest inside 20 passes")
	}
	if got := a.OccupiedCount(); got != 5 {
		t.Fatalf("settling lost grains: %d, want 5", got)
	}
}

func TestSettle_ConservesGrains(t *testing.T) {
	tr := NewTerrain(64, 48, NewRand(5))
	tr.GenerateHills()
	tr.ClearCircle(32, 30, 9)
	before := tr.OccupiedCount()

	for i := 0; i < 60; i++ {
		tr.Settle()
	}
	if got := tr.OccupiedCount(); got != before {
		t.Fatalf("settling changed the grain count: %d -> %d", before, got)
	}
}

func TestClearCircle_ExactEuclideanDisc(t *testing.T) {
	// Spec scenario: radius 10 at (50,50) on a fully occupied grid must
	// empty exactly the cells within Euclidean distance 10.
	tr := NewTerrain(100, 100, NewRand(1))
	tr.GenerateFull()
	tr.ClearCircle(50, 50, 10)

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			dx := float64(x) - 50
			dy := float64(y) - 50
			inside := dx*dx+dy*dy <= 100
			if got := tr.At(x, y); got == inside {
				t.Fatalf("cell (%d,%d): solid=%v with d2=%.0f", x, y, got, dx*dx+dy*dy)
			}
		}
	}
}

func TestClearCircle_ClipsAtEdges(t *testing.T) {
	tr := NewTerrain(20, 20, NewRand(1))
	tr.GenerateFull()
	tr.ClearCircle(0, 0, 5)

	if tr.At(0, 0) {
		t.Fatalf("corner cell should be cleared")
	}
	if !tr.At(0, 6) || !tr.At(6, 0) {
		t.Fatalf("cells beyond the radius should survive")
	}
}

func TestClearCircle_NonPositiveRadiusIsNoop(t *testing.T) {
	tr := NewTerrain(10, 10, NewRand(1))
	tr.GenerateFull()
	tr.ClearCircle(5, 5, 0)
	if got := tr.OccupiedCount(); got != 100 {
		t.Fatalf("zero radius removed %d cells", 100-got)
	}
}

func TestGenerateFlat_FillsBelowSurface(t *testing.T) {
	tr := NewTerrain(16, 12, NewRand(1))
	tr.GenerateFlat(5)

	for x := 0; x < 16; x++ {
		for y := 0; y < 12; y++ {
			want := y >= 5
			if got := tr.At(x, y); got != want {
				t.Fatalf("cell (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
	if got := tr.OccupiedCount(); got != 16*7 {
		t.Fatalf("occupied = %d, want %d", got, 16*7)
	}
}

func TestGenerateHills_DeterministicPerSeed(t *testing.T) {
	gen := func(seed int64) *Terrain {
		tr := NewTerrain(96, 64, NewRand(seed))
		tr.GenerateHills()
		return tr
	}

	a := gen(7)
	b := gen(7)
	if !slices.Equal(a.CopyCells(nil), b.CopyCells(nil)) {
		t.Fatalf("same seed generated different skylines")
	}

	// Every column reaches the floor and the top row stays open sky.
	for x := 0; x < 96; x++ {
		if !a.At(x, 63) {
			t.Errorf("column %d has no ground at the floor", x)
		}
		if a.At(x, 0) {
			t.Errorf("column %d reaches the top of the field", x)
		}
	}
}

func TestCopyCells_ReusesDst(t *testing.T) {
	tr := NewTerrain(8, 8, NewRand(1))
	tr.GenerateFlat(4)

	buf := make([]bool, 0, 64)
	out := tr.CopyCells(buf)
	if len(out) != 64 {
		t.Fatalf("copy length %d, want 64", len(out))
	}
	out2 := tr.CopyCells(out)
	if &out2[0] != &out[0] {
		t.Fatalf("copy with sufficient capacity should reuse the buffer")
	}
}
