package armor

import (
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// jsonSections maps the top-level arrays of a community data dump to slots.
var jsonSections = []struct {
	key  string
	slot Slot
}{
	{"helmets", SlotHead},
	{"chestpieces", SlotChest},
	{"gauntlets", SlotHands},
	{"leggings", SlotLegs},
}

// ImportJSON parses a catalog dump of the form
// {"helmets":[...],"chestpieces":[...],"gauntlets":[...],"leggings":[...]}.
// Stat keys are camelCase ("scarletRot", "deathBlight"); a missing key reads as 0.
//
// Postcondition: Returns pieces in section order, then array order; all pass Validate.
func ImportJSON(data []byte) ([]*Armor, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("armor: ImportJSON: invalid JSON")
	}
	root := gjson.ParseBytes(data)

	armors := []*Armor{}
	var errs []error
	for _, sec := range jsonSections {
		i := 0
		root.Get(sec.key).ForEach(func(_, v gjson.Result) bool {
			a := parseJSONArmor(v, sec.slot)
			if err := a.Validate(); err != nil {
				errs = append(errs, fmt.Errorf("%s[%d]: %w", sec.key, i, err))
			} else {
				armors = append(armors, a)
			}
			i++
			return true
		})
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("armor: ImportJSON: %w", errors.Join(errs...))
	}
	return armors, nil
}

// LoadJSONFile reads path and parses it with ImportJSON.
func LoadJSONFile(path string) ([]*Armor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadJSONFile: cannot read file %q: %w", path, err)
	}
	armors, err := ImportJSON(data)
	if err != nil {
		return nil, fmt.Errorf("LoadJSONFile: %q: %w", path, err)
	}
	return armors, nil
}

func parseJSONArmor(v gjson.Result, slot Slot) *Armor {
	d := v.Get("defenses")
	r := v.Get("resistances")
	return &Armor{
		ID:     v.Get("id").String(),
		Name:   v.Get("name").String(),
		Slot:   slot,
		Weight: v.Get("weight").Float(),
		Poise:  v.Get("poise").Float(),
		Defenses: Defenses{
			Physical:  d.Get("physical").Float(),
			Strike:    d.Get("strike").Float(),
			Slash:     d.Get("slash").Float(),
			Pierce:    d.Get("pierce").Float(),
			Magic:     d.Get("magic").Float(),
			Fire:      d.Get("fire").Float(),
			Lightning: d.Get("lightning").Float(),
			Holy:      d.Get("holy").Float(),
		},
		Resistances: Resistances{
			ScarletRot:  r.Get("scarletRot").Float(),
			Poison:      r.Get("poison").Float(),
			Hemorrhage:  r.Get("hemorrhage").Float(),
			Frostbite:   r.Get("frostbite").Float(),
			Sleep:       r.Get("sleep").Float(),
			Madness:     r.Get("madness").Float(),
			DeathBlight: r.Get("deathBlight").Float(),
		},
	}
}
