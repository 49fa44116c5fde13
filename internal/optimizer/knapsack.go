package optimizer

import (
	"math"
	"slices"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
)

// unitsPerWeight is the discretization factor: capacities are tenths of a weight unit.
const unitsPerWeight = 10

// toUnits converts a weight to integer capacity units, rounding half away from zero.
func toUnits(w float64) int {
	return int(math.Round(w * unitsPerWeight))
}

// cell is one DP state: the best loadout found for a given stage and capacity.
// Chosen items are carried in the cell instead of reconstructed from backpointers.
type cell struct {
	fitness  float64
	weight   float64
	units    int
	items    [armor.NumSlots]*armor.Armor
	equipped [armor.NumSlots]bool
}

func (c cell) toSet() Set {
	return Set{
		Head:     c.items[0],
		Chest:    c.items[1],
		Hands:    c.items[2],
		Legs:     c.items[3],
		Weight:   c.weight,
		Fitness:  c.fitness,
		equipped: c.equipped,
	}
}

// Solve picks at most one piece per slot from candidates, in Head, Chest, Hands,
// Legs order, to maximize total score with total weight <= budget. It returns up
// to MaxSets distinct sets scanned from the highest capacity down, so among equal
// fitness the set using more of the budget comes first.
//
// Precondition: budget >= 0; every candidate weight >= 0.
// Postcondition: never fails; returns an empty slice when no combination has positive fitness.
func Solve(candidates [armor.NumSlots][]*armor.Armor, score fitness.Func, budget float64) []Set {
	capacity := max(toUnits(budget), 0)

	table := make([][]cell, armor.NumSlots+1)
	for i := range table {
		table[i] = make([]cell, capacity+1)
	}

	for i := 0; i < armor.NumSlots; i++ {
		cur, next := table[i], table[i+1]

		for _, piece := range candidates[i] {
			cost := toUnits(piece.Weight)
			stat := score(piece)

			for w := capacity; w >= cost; w-- {
				src := cur[w-cost]
				if src.units+cost > w {
					continue
				}
				total := src.fitness + stat
				if !(total > next[w].fitness) {
					continue
				}

				c := src
				for k := range c.items {
					if k != i && c.items[k] == nil {
						c.items[k] = placeholder(candidates, k)
					}
				}
				c.items[i] = piece
				c.equipped[i] = true
				c.fitness = total
				c.weight = src.weight + piece.Weight
				c.units = src.units + cost
				next[w] = c
			}
		}

		// Equipping this slot is optional. On a tie the cell that equips slot i
		// stays, so the heavier of two equal-fitness loadouts survives.
		for w := 0; w <= capacity; w++ {
			if cur[w].fitness > next[w].fitness {
				next[w] = cur[w]
			}
		}
	}

	return topSets(table[armor.NumSlots])
}

// placeholder returns the first candidate of slot k, or nil when it has none.
func placeholder(candidates [armor.NumSlots][]*armor.Armor, k int) *armor.Armor {
	if len(candidates[k]) == 0 {
		return nil
	}
	return candidates[k][0]
}

// chosen returns the equipped items of c; placeholder slots read as nil.
func (c cell) chosen() [armor.NumSlots]*armor.Armor {
	var out [armor.NumSlots]*armor.Armor
	for k, a := range c.items {
		if c.equipped[k] {
			out[k] = a
		}
	}
	return out
}

// topSets scans row from the highest capacity down and collects up to MaxSets
// cells with positive fitness and pairwise distinct chosen items.
func topSets(row []cell) []Set {
	sets := make([]Set, 0, MaxSets)
	seen := make([][armor.NumSlots]*armor.Armor, 0, MaxSets)

	for w := len(row) - 1; w >= 0 && len(sets) < MaxSets; w-- {
		c := row[w]
		if !(c.fitness > 0) {
			continue
		}
		key := c.chosen()
		if slices.Contains(seen, key) {
			continue
		}
		seen = append(seen, key)
		sets = append(sets, c.toSet())
	}
	return sets
}
