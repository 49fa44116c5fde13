// Package optimizer recommends armor loadouts: it prunes each slot to its
// Pareto frontier and runs a bounded multiple-choice knapsack over the four
// slots to find up to three distinct best sets within an equip-load budget.
package optimizer

import (
	"fmt"
	"math"
	"slices"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
)

// Config is one consistent snapshot of every optimizer input.
type Config struct {
	MaxEquipLoad     float64
	CurrentEquipLoad float64
	Breakpoint       float64

	// Mode selects a built-in criterion. It is ignored when Fitness is set.
	Mode fitness.Mode
	// Fitness overrides Mode, e.g. with a compiled script.
	Fitness fitness.Func

	// Locked maps a slot to the ID of the piece forced into it.
	Locked map[armor.Slot]string
	// Ignored holds IDs excluded from every slot unless locked there.
	Ignored map[string]struct{}
}

// Scorer returns the fitness function in effect for c.
func (c Config) Scorer() fitness.Func {
	if c.Fitness != nil {
		return c.Fitness
	}
	return fitness.For(c.Mode)
}

// Budget returns the equip-load budget derived from c.
func (c Config) Budget() float64 {
	return Budget(c.MaxEquipLoad, c.CurrentEquipLoad, c.Breakpoint)
}

// Normalize clamps c into the domain the core expects and drops lock entries
// that cannot apply. It returns one warning per adjustment.
//
// Postcondition: the returned Config has MaxEquipLoad >= 0, CurrentEquipLoad >= 0,
// a legal Breakpoint, and only locks naming a catalog piece of the locked slot.
// The input maps are not modified.
func (c Config) Normalize(cat *armor.Catalog) (Config, []string) {
	var warnings []string
	out := c

	if !(out.MaxEquipLoad >= 0) || math.IsInf(out.MaxEquipLoad, 0) {
		warnings = append(warnings, fmt.Sprintf("max equip load %v clamped to 0", out.MaxEquipLoad))
		out.MaxEquipLoad = 0
	}
	if !(out.CurrentEquipLoad >= 0) {
		warnings = append(warnings, fmt.Sprintf("current equip load %v clamped to 0", out.CurrentEquipLoad))
		out.CurrentEquipLoad = 0
	}
	if !ValidBreakpoint(out.Breakpoint) {
		snapped := SnapBreakpoint(out.Breakpoint)
		warnings = append(warnings, fmt.Sprintf("breakpoint %v snapped to %v", out.Breakpoint, snapped))
		out.Breakpoint = snapped
	}

	if out.Fitness == nil && !fitness.Known(out.Mode) {
		msg := fmt.Sprintf("unknown fitness mode %q: every slot collapses to its lightest piece", out.Mode)
		if s, ok := fitness.Suggest(string(out.Mode)); ok {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		warnings = append(warnings, msg)
	}

	out.Locked = make(map[armor.Slot]string, len(c.Locked))
	for _, slot := range armor.Slots {
		id, ok := c.Locked[slot]
		if !ok || id == "" {
			continue
		}
		a, found := cat.Item(id)
		switch {
		case !found:
			warnings = append(warnings, unknownIDWarning(cat, "locked", id))
		case a.Slot != slot:
			warnings = append(warnings, fmt.Sprintf("locked item %q belongs to slot %s, not %s; lock dropped", id, a.Slot, slot))
		default:
			out.Locked[slot] = id
		}
	}
	for slot, id := range c.Locked {
		if !slot.Valid() && id != "" {
			warnings = append(warnings, fmt.Sprintf("lock on unknown slot %q dropped", slot))
		}
	}

	out.Ignored = make(map[string]struct{}, len(c.Ignored))
	ids := make([]string, 0, len(c.Ignored))
	for id := range c.Ignored {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if _, found := cat.Item(id); !found {
			warnings = append(warnings, unknownIDWarning(cat, "ignored", id))
			continue
		}
		out.Ignored[id] = struct{}{}
	}

	return out, warnings
}

func unknownIDWarning(cat *armor.Catalog, kind, id string) string {
	msg := fmt.Sprintf("%s item %q not in catalog", kind, id)
	if s, ok := cat.Suggest(id); ok {
		msg += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return msg
}

// Result is the outcome of one full recompute.
type Result struct {
	// Budget is the equip-load budget the solve ran against.
	Budget float64
	// Candidates are the per-slot dominance-filtered lists, in slot order.
	Candidates [armor.NumSlots][]*armor.Armor
	// Sets are at most MaxSets distinct loadouts, best first.
	Sets []Set
}

// Optimize filters every slot and solves the knapsack for one config snapshot.
// It is pure: identical inputs yield identical output, and nothing is retained
// between calls.
//
// Precondition: cfg has been normalized; unresolvable locks are skipped silently.
// Postcondition: every returned set weighs at most the budget plus rounding tolerance.
func Optimize(cat *armor.Catalog, cfg Config) Result {
	score := cfg.Scorer()
	res := Result{Budget: cfg.Budget()}

	for i, slot := range armor.Slots {
		res.Candidates[i] = Dominant(cat.Slot(slot), score, cfg.Ignored, lockedPiece(cat, cfg.Locked, slot))
	}
	res.Sets = Solve(res.Candidates, score, res.Budget)
	return res
}

// lockedPiece resolves the lock for slot, or nil when there is none that applies.
func lockedPiece(cat *armor.Catalog, locked map[armor.Slot]string, slot armor.Slot) *armor.Armor {
	id, ok := locked[slot]
	if !ok || id == "" {
		return nil
	}
	a, found := cat.Item(id)
	if !found || a.Slot != slot {
		return nil
	}
	return a
}
