package armor

// Slot identifies one of the four armor equipment slots.
type Slot string

const (
	// SlotHead is the helmet slot.
	SlotHead Slot = "head"
	// SlotChest is the chestpiece slot.
	SlotChest Slot = "chest"
	// SlotHands is the gauntlet slot.
	SlotHands Slot = "hands"
	// SlotLegs is the leggings slot.
	SlotLegs Slot = "legs"
)

// NumSlots is the number of armor slots.
const NumSlots = 4

// Slots lists every slot in solver order: Head, Chest, Hands, Legs.
var Slots = [NumSlots]Slot{SlotHead, SlotChest, SlotHands, SlotLegs}

// slotAliases maps alternate spellings used by catalog dumps and CLI flags.
var slotAliases = map[string]Slot{
	"head":        SlotHead,
	"helm":        SlotHead,
	"helmet":      SlotHead,
	"helmets":     SlotHead,
	"chest":       SlotChest,
	"chestpiece":  SlotChest,
	"chestpieces": SlotChest,
	"body":        SlotChest,
	"hands":       SlotHands,
	"arms":        SlotHands,
	"gauntlet":    SlotHands,
	"gauntlets":   SlotHands,
	"legs":        SlotLegs,
	"leggings":    SlotLegs,
	"greaves":     SlotLegs,
}

var slotDisplayNames = map[Slot]string{
	SlotHead:  "Head",
	SlotChest: "Chest",
	SlotHands: "Hands",
	SlotLegs:  "Legs",
}

// ParseSlot resolves s, or one of its aliases, to a Slot.
//
// Postcondition: ok is true iff s names a slot.
func ParseSlot(s string) (Slot, bool) {
	slot, ok := slotAliases[s]
	return slot, ok
}

// Valid reports whether s is one of the four slot constants.
func (s Slot) Valid() bool {
	_, ok := slotDisplayNames[s]
	return ok
}

// Index returns the solver stage of s, or -1 for an invalid slot.
func (s Slot) Index() int {
	for i, slot := range Slots {
		if slot == s {
			return i
		}
	}
	return -1
}

// DisplayName returns the human-readable label for s, or s itself if unknown.
func (s Slot) DisplayName() string {
	if label, ok := slotDisplayNames[s]; ok {
		return label
	}
	return string(s)
}
