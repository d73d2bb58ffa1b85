package solver

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/konkan-engine/konkan/pkg/cards"
)

// Pool caches BestCover results across independent queries keyed by the
// exact (mask, objective, threshold) triple queried. Analyzer and search
// code re-solve overlapping hand masks across turns, opponents, and
// determinizations.
type Pool struct {
	cache *lru.Cache[poolKey, Cover]
}

type poolKey struct {
	hi, lo    uint64
	objective Objective
	threshold int
}

// NewPool creates a cache holding up to size solved covers.
func NewPool(size int) *Pool {
	cache, err := lru.New[poolKey, Cover](size)
	if err != nil {
		panic(err) // only possible with a non-positive size, a programming fault
	}
	return &Pool{cache: cache}
}

// BestCover solves mask for objective/threshold, reusing a prior result
// for the exact same query if one is cached.
func (p *Pool) BestCover(mask cards.Mask, objective Objective, threshold int) Cover {
	key := poolKey{mask.Hi, mask.Lo, objective, threshold}
	if c, ok := p.cache.Get(key); ok {
		return c
	}
	c := NewSolver(mask).BestCover(mask, objective, threshold)
	p.cache.Add(key, c)
	return c
}
