// Package armor provides armor definitions, YAML and JSON loaders, and the
// read-only catalog the optimizer draws its candidates from.
package armor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Defenses holds the eight damage-negation channels of an armor piece.
// Every channel is always present; an absent YAML key decodes to zero.
type Defenses struct {
	Physical  float64 `yaml:"physical" json:"physical"`
	Strike    float64 `yaml:"strike" json:"strike"`
	Slash     float64 `yaml:"slash" json:"slash"`
	Pierce    float64 `yaml:"pierce" json:"pierce"`
	Magic     float64 `yaml:"magic" json:"magic"`
	Fire      float64 `yaml:"fire" json:"fire"`
	Lightning float64 `yaml:"lightning" json:"lightning"`
	Holy      float64 `yaml:"holy" json:"holy"`
}

// Standard returns physical + strike + slash + pierce.
func (d Defenses) Standard() float64 {
	return d.Physical + d.Strike + d.Slash + d.Pierce
}

// Elemental returns magic + fire + lightning + holy.
func (d Defenses) Elemental() float64 {
	return d.Magic + d.Fire + d.Lightning + d.Holy
}

// Total returns the sum of all eight channels.
func (d Defenses) Total() float64 {
	return d.Standard() + d.Elemental()
}

// Add returns the channel-wise sum of d and o.
func (d Defenses) Add(o Defenses) Defenses {
	return Defenses{
		Physical:  d.Physical + o.Physical,
		Strike:    d.Strike + o.Strike,
		Slash:     d.Slash + o.Slash,
		Pierce:    d.Pierce + o.Pierce,
		Magic:     d.Magic + o.Magic,
		Fire:      d.Fire + o.Fire,
		Lightning: d.Lightning + o.Lightning,
		Holy:      d.Holy + o.Holy,
	}
}

// Resistances holds the seven status-buildup resistance channels.
type Resistances struct {
	ScarletRot  float64 `yaml:"scarlet_rot" json:"scarletRot"`
	Poison      float64 `yaml:"poison" json:"poison"`
	Hemorrhage  float64 `yaml:"hemorrhage" json:"hemorrhage"`
	Frostbite   float64 `yaml:"frostbite" json:"frostbite"`
	Sleep       float64 `yaml:"sleep" json:"sleep"`
	Madness     float64 `yaml:"madness" json:"madness"`
	DeathBlight float64 `yaml:"death_blight" json:"deathBlight"`
}

// Total returns the sum of all seven channels.
func (r Resistances) Total() float64 {
	return r.ScarletRot + r.Poison + r.Hemorrhage + r.Frostbite + r.Sleep + r.Madness + r.DeathBlight
}

// Values returns the channels in display order: scarlet rot, poison,
// hemorrhage, frostbite, sleep, madness, death blight.
func (r Resistances) Values() [7]float64 {
	return [7]float64{r.ScarletRot, r.Poison, r.Hemorrhage, r.Frostbite, r.Sleep, r.Madness, r.DeathBlight}
}

// Add returns the channel-wise sum of r and o.
func (r Resistances) Add(o Resistances) Resistances {
	return Resistances{
		ScarletRot:  r.ScarletRot + o.ScarletRot,
		Poison:      r.Poison + o.Poison,
		Hemorrhage:  r.Hemorrhage + o.Hemorrhage,
		Frostbite:   r.Frostbite + o.Frostbite,
		Sleep:       r.Sleep + o.Sleep,
		Madness:     r.Madness + o.Madness,
		DeathBlight: r.DeathBlight + o.DeathBlight,
	}
}

// Armor is an immutable armor piece as loaded from the catalog.
type Armor struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Slot        Slot        `yaml:"slot" json:"slot"`
	Weight      float64     `yaml:"weight" json:"weight"`
	Poise       float64     `yaml:"poise" json:"poise"`
	Defenses    Defenses    `yaml:"defenses" json:"defenses"`
	Resistances Resistances `yaml:"resistances" json:"resistances"`
}

// Validate reports an error if the Armor is missing required fields or contains illegal values.
// Precondition: a is non-nil.
// Postcondition: Returns nil iff the piece is well-formed.
func (a *Armor) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !a.Slot.Valid() {
		errs = append(errs, fmt.Errorf("slot %q is not a valid armor slot", a.Slot))
	}
	// Negated comparisons also reject NaN.
	if !(a.Weight >= 0) {
		errs = append(errs, errors.New("weight must be >= 0"))
	}
	if !(a.Poise >= 0) {
		errs = append(errs, errors.New("poise must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %v", errs)
	}
	return nil
}

// armorFile is the multi-document layout: a list of pieces under "armors".
type armorFile struct {
	Armors []*Armor `yaml:"armors"`
}

// LoadArmors reads all .yaml files in dir in lexicographic order and returns the
// parsed pieces in file order, then document order.
// Precondition: dir must be a readable directory.
// Postcondition: Returns non-nil slice and nil error on success; all returned pieces pass Validate.
func LoadArmors(dir string) ([]*Armor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadArmors: cannot read directory %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	armors := []*Armor{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadArmors: cannot read file %q: %w", path, err)
		}
		parsed, err := parseArmorYAML(data)
		if err != nil {
			return nil, fmt.Errorf("LoadArmors: cannot parse file %q: %w", path, err)
		}
		for _, a := range parsed {
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("LoadArmors: invalid armor in %q: %w", path, err)
			}
		}
		armors = append(armors, parsed...)
	}
	return armors, nil
}

// parseArmorYAML accepts either a single armor document or an "armors" list.
func parseArmorYAML(data []byte) ([]*Armor, error) {
	var f armorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Armors) > 0 {
		for i, a := range f.Armors {
			if a == nil {
				return nil, fmt.Errorf("armors[%d] is empty", i)
			}
		}
		return f.Armors, nil
	}
	var a Armor
	if err := yaml.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return []*Armor{&a}, nil
}
