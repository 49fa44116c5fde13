package optimizer

import "github.com/cory-johannsen/armor-optimizer/internal/armor"

// MaxSets is the maximum number of distinct sets a solve returns.
const MaxSets = 3

// Set is one recommended loadout.
//
// A slot that the solver left empty still holds that slot's first candidate as a
// structural placeholder, or nil when the slot had no candidates at all.
// Equipped reports which slots actually contribute to Weight and Fitness.
type Set struct {
	Head  *armor.Armor
	Chest *armor.Armor
	Hands *armor.Armor
	Legs  *armor.Armor

	// Weight is the summed weight of the equipped pieces.
	Weight float64
	// Fitness is the summed score of the equipped pieces.
	Fitness float64

	equipped [armor.NumSlots]bool
}

// Piece returns the item held in slot, which may be a placeholder or nil.
func (s Set) Piece(slot armor.Slot) *armor.Armor {
	switch slot {
	case armor.SlotHead:
		return s.Head
	case armor.SlotChest:
		return s.Chest
	case armor.SlotHands:
		return s.Hands
	case armor.SlotLegs:
		return s.Legs
	}
	return nil
}

// Equipped reports whether slot contributes a piece to the set's totals.
func (s Set) Equipped(slot armor.Slot) bool {
	idx := slot.Index()
	return idx >= 0 && s.equipped[idx]
}

// EquippedPieces returns the contributing pieces in slot order.
func (s Set) EquippedPieces() []*armor.Armor {
	var out []*armor.Armor
	for i, slot := range armor.Slots {
		if s.equipped[i] {
			out = append(out, s.Piece(slot))
		}
	}
	return out
}
