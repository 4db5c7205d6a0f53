package shard

import (
	"fmt"
	"math/rand/v2"

	"corpusprep/internal/jobs"
)

// pcgStream is the fixed PCG stream selector; only the seed varies per run.
const pcgStream = 0x9e3779b97f4a7c15

// Assigner draws shard indices in [0, n).
type Assigner struct {
	n     int
	width float64
	rng   *rand.Rand
}

// NewAssigner returns an Assigner for n shards driven by seed.
func NewAssigner(n int, seed uint64) (*Assigner, error) {
	if n <= 0 {
		return nil, jobs.Invalid("shard", fmt.Sprintf("shard count must be positive, got %d", n))
	}
	return &Assigner{
		n:     n,
		width: 1.0 / float64(n),
		rng:   rand.New(rand.NewPCG(seed, seed^pcgStream)),
	}, nil
}

// Next returns the shard index for the next line. clamped is true when
// floating-point rounding pushed the raw index to n and it was pulled back to
// n-1.
func (a *Assigner) Next() (part int, clamped bool, err error) {
	return partition(a.rng.Float64(), a.width, a.n)
}

func partition(v, width float64, n int) (int, bool, error) {
	part := int(v / width)
	switch {
	case part < 0:
		return 0, false, jobs.Wrap(jobs.ErrInvariant, "shard", "assign", fmt.Sprintf("draw %v produced index %d outside [0,%d)", v, part, n), nil)
	case part >= n:
		return n - 1, true, nil
	default:
		return part, false, nil
	}
}

// RandomSeed returns a fresh seed from the runtime's randomly seeded source.
// Seeds are limited to 63 bits so a reported seed fits a TOML integer.
func RandomSeed() uint64 {
	return rand.Uint64() >> 1
}
