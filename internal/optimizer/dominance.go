package optimizer

import (
	"cmp"
	"math"
	"slices"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
)

// Dominant reduces one slot's pieces to its Pareto frontier over
// (minimize weight, maximize score).
//
// A non-nil locked piece short-circuits everything: the result is exactly
// {locked}, regardless of ignored or score. Otherwise ignored pieces are removed,
// the rest are stable-sorted by weight, and a piece is kept iff its score
// strictly exceeds every lighter-or-equal piece kept before it. Among pieces of
// identical weight only the best-scoring one survives.
//
// Postcondition: the result preserves the sorted relative order and never
// contains an ignored piece unless it is the locked one.
func Dominant(items []*armor.Armor, score fitness.Func, ignored map[string]struct{}, locked *armor.Armor) []*armor.Armor {
	if locked != nil {
		return []*armor.Armor{locked}
	}

	pool := make([]*armor.Armor, 0, len(items))
	for _, a := range items {
		if _, skip := ignored[a.ID]; skip {
			continue
		}
		pool = append(pool, a)
	}
	slices.SortStableFunc(pool, func(a, b *armor.Armor) int {
		return cmp.Compare(a.Weight, b.Weight)
	})

	kept := make([]*armor.Armor, 0, len(pool))
	best := math.Inf(-1)
	for _, a := range pool {
		f := score(a)
		if !(f > best) {
			continue
		}
		// An equal-weight piece kept earlier is dominated by this one.
		if n := len(kept); n > 0 && kept[n-1].Weight == a.Weight {
			kept = kept[:n-1]
		}
		kept = append(kept, a)
		best = f
	}
	return kept
}
