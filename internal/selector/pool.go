package selector

import (
	"sort"

	"github.com/Makepad-fr/spin/internal/model"
)

// Pool is the ordered set of integers in a range that are not excluded.
// It never materializes the range, so wide ranges stay cheap.
type Pool struct {
	rng      model.Range
	excluded []int // sorted, unique, inside rng
}

// NewPool derives the candidate pool for r minus exclusions. A range
// wider than an int can count is narrowed the way NormalizeRange does.
func NewPool(r model.Range, exclusions []int) Pool {
	r = clampSpan(r)
	p := Pool{rng: r}
	if r.Max < r.Min {
		return p
	}
	seen := make(map[int]bool, len(exclusions))
	for _, n := range exclusions {
		if n < r.Min || n > r.Max || seen[n] {
			continue
		}
		seen[n] = true
		p.excluded = append(p.excluded, n)
	}
	sort.Ints(p.excluded)
	return p
}

// Range returns the bounds the pool was built from.
func (p Pool) Range() model.Range { return p.rng }

// Len is the number of candidates.
func (p Pool) Len() int {
	if p.rng.Max < p.rng.Min {
		return 0
	}
	return p.rng.Max - p.rng.Min + 1 - len(p.excluded)
}

// Empty reports whether no spin can proceed.
func (p Pool) Empty() bool { return p.Len() == 0 }

// At returns the candidate at position i (0 <= i < Len).
func (p Pool) At(i int) int {
	n := p.rng.Min + i
	for _, e := range p.excluded {
		if e > n {
			break
		}
		n++
	}
	return n
}

// IndexOf returns the position of n in the pool, or -1.
func (p Pool) IndexOf(n int) int {
	if n < p.rng.Min || n > p.rng.Max {
		return -1
	}
	k := sort.SearchInts(p.excluded, n)
	if k < len(p.excluded) && p.excluded[k] == n {
		return -1
	}
	return n - p.rng.Min - k
}

// Contains reports whether n can be picked.
func (p Pool) Contains(n int) bool { return p.IndexOf(n) >= 0 }

// Numbers materializes the pool. Meant for small pools.
func (p Pool) Numbers() []int {
	out := make([]int, 0, p.Len())
	for i := 0; i < p.Len(); i++ {
		out = append(out, p.At(i))
	}
	return out
}

// Selection is the outcome of drawing from a pool.
type Selection struct {
	Number   int
	Position int
	PoolSize int
}

// Select draws one candidate uniformly.
func Select(p Pool, rng RNG) (Selection, error) {
	size := p.Len()
	if size == 0 {
		return Selection{}, &NoCandidatesError{Range: p.rng, Excluded: len(p.excluded)}
	}
	i := rng.Intn(size)
	return Selection{Number: p.At(i), Position: i, PoolSize: size}, nil
}
