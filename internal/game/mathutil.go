package game

// Rand is a small deterministic generator (xorshift64*). Every random
// draw in the engine goes through the one instance the Sim owns, so a
// seed fully determines a run.
type Rand struct {
	state uint64
}

// NewRand seeds a generator. Zero is remapped so the xorshift state never
// sticks at zero.
func NewRand(seed int64) *Rand {
	s := uint64(seed)
	if s == 0 {
		s = 0x9E3779B97F4A7C15
	}
	return &Rand{state: s}
}

// Uint64 advances the generator.
func (r *Rand) Uint64() uint64 {
	x := r.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	r.state = x
	return x * 2685821657736338717
}

// Intn returns a value in [0,n). Non-positive n returns 0.
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Uint64() % uint64(n))
}

// Between returns an integer in [lo,hi] inclusive.
func (r *Rand) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.Intn(hi-lo+1)
}

// Float64 returns a value in [0,1).
func (r *Rand) Float64() float64 {
	return float64(r.Uint64()>>11) * (1.0 / (1 << 53))
}

// BetweenF returns a float in [lo,hi).
func (r *Rand) BetweenF(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + (hi-lo)*r.Float64()
}

// Coin returns true half the time. The settling automaton uses it for the
// diagonal tie-break.
func (r *Rand) Coin() bool {
	return r.Uint64()&(1<<32) != 0
}

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// DeriveSeed expands a base seed into the nth decorrelated stream seed,
// so batch runs and restarts do not share correlated streams.
func DeriveSeed(base int64, n int) int64 {
	return int64(splitmix64(uint64(base) + uint64(n)))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
