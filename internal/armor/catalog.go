package armor

import (
	"fmt"
	"slices"

	"github.com/cory-johannsen/armor-optimizer/internal/suggest"
)

// Catalog holds every armor piece grouped by slot in catalog order, indexed by ID.
//
// A Catalog is immutable after construction and safe for concurrent reads.
type Catalog struct {
	slots [NumSlots][]*Armor
	byID  map[string]*Armor
	ids   []string
}

// NewCatalog groups items by slot, preserving their relative order.
//
// Precondition: every item is non-nil and passes Validate.
// Postcondition: Item(id) resolves every input; returns error on a duplicate ID or an invalid slot.
func NewCatalog(items []*Armor) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Armor, len(items))}
	for _, a := range items {
		idx := a.Slot.Index()
		if idx < 0 {
			return nil, fmt.Errorf("armor: NewCatalog: item %q has invalid slot %q", a.ID, a.Slot)
		}
		if _, exists := c.byID[a.ID]; exists {
			return nil, fmt.Errorf("armor: NewCatalog: armor ID %q already registered", a.ID)
		}
		c.byID[a.ID] = a
		c.ids = append(c.ids, a.ID)
		c.slots[idx] = append(c.slots[idx], a)
	}
	return c, nil
}

// Slot returns the pieces for s in catalog order.
//
// Postcondition: the returned slice is a copy; the pieces themselves are shared and must not be mutated.
func (c *Catalog) Slot(s Slot) []*Armor {
	idx := s.Index()
	if idx < 0 {
		return nil
	}
	return slices.Clone(c.slots[idx])
}

// Item returns the piece with the given id and whether it was found.
func (c *Catalog) Item(id string) (*Armor, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// Len returns the total number of pieces across all slots.
func (c *Catalog) Len() int {
	return len(c.byID)
}

// Suggest returns the known ID closest to id, for "did you mean" messages.
func (c *Catalog) Suggest(id string) (string, bool) {
	return suggest.Nearest(id, c.ids)
}

// LoadCatalog builds a Catalog from either a YAML directory or a JSON dump.
//
// Precondition: exactly one of dir and jsonPath is non-empty.
// Postcondition: Returns a populated Catalog or a non-nil error.
func LoadCatalog(dir, jsonPath string) (*Catalog, error) {
	var (
		items []*Armor
		err   error
	)
	switch {
	case dir != "" && jsonPath != "":
		return nil, fmt.Errorf("armor: LoadCatalog: dir %q and json %q are mutually exclusive", dir, jsonPath)
	case jsonPath != "":
		items, err = LoadJSONFile(jsonPath)
	case dir != "":
		items, err = LoadArmors(dir)
	default:
		return nil, fmt.Errorf("armor: LoadCatalog: no catalog source configured")
	}
	if err != nil {
		return nil, err
	}
	return NewCatalog(items)
}
