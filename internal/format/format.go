// Package format renders armor pieces and optimizer sets as human-readable
// stat strings and JSON-friendly views.
package format

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
)

// resistanceLabels matches the order of armor.Resistances.Values.
var resistanceLabels = [7]string{"Scarlet Rot", "Poison", "Hemorrhage", "Frostbite", "Sleep", "Madness", "Death"}

var printer = message.NewPrinter(language.English)

// Stats is the display contract for a piece or a set.
type Stats struct {
	Weight      string `json:"weight"`
	Poise       string `json:"poise"`
	Standard    string `json:"standard"`
	Elemental   string `json:"elemental"`
	Resistances string `json:"resistances"`
}

// ItemStats formats a single piece.
//
// Precondition: a is non-nil.
func ItemStats(a *armor.Armor) Stats {
	d := a.Defenses
	var std, elem, res strings.Builder

	writeTenths(&std, d.Standard(), "Standard")
	writeTenths(&std, d.Physical, "Physical")
	writeTenths(&std, d.Strike, "Strike")
	writeTenths(&std, d.Slash, "Slash")
	writeTenths(&std, d.Pierce, "Pierce")

	writeTenths(&elem, d.Elemental(), "Elemental")
	writeTenths(&elem, d.Magic, "Magic")
	writeTenths(&elem, d.Fire, "Fire")
	writeTenths(&elem, d.Lightning, "Lightning")
	writeTenths(&elem, d.Holy, "Holy")

	for i, v := range a.Resistances.Values() {
		res.WriteString(plain(v) + " " + resistanceLabels[i] + ", ")
	}

	return Stats{
		Weight:      printer.Sprintf("%.1f", a.Weight),
		Poise:       plain(a.Poise),
		Standard:    std.String(),
		Elemental:   elem.String(),
		Resistances: res.String(),
	}
}

// SetStats formats the summed stats of the equipped pieces of s. Placeholder
// pieces in skipped slots are not counted.
func SetStats(s optimizer.Set) Stats {
	return ItemStats(Sum(s))
}

// Sum folds the equipped pieces of s into a single synthetic piece.
func Sum(s optimizer.Set) *armor.Armor {
	total := &armor.Armor{ID: "set", Name: "Set Total"}
	for _, a := range s.EquippedPieces() {
		total.Weight += a.Weight
		total.Poise += a.Poise
		total.Defenses = total.Defenses.Add(a.Defenses)
		total.Resistances = total.Resistances.Add(a.Resistances)
	}
	return total
}

func writeTenths(b *strings.Builder, v float64, label string) {
	b.WriteString(printer.Sprintf("%.1f", v))
	b.WriteString(" " + label + ", ")
}

// plain renders v in its shortest exact decimal form.
func plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
