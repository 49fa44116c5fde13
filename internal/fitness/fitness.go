// Package fitness maps an armor piece to a scalar score under a named criterion.
package fitness

import (
	"strings"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/suggest"
)

// Mode names a fitness criterion.
type Mode string

const (
	Average     Mode = "average"
	Standard    Mode = "standard"
	Physical    Mode = "physical"
	Strike      Mode = "strike"
	Slash       Mode = "slash"
	Pierce      Mode = "pierce"
	Elemental   Mode = "elemental"
	Magic       Mode = "magic"
	Fire        Mode = "fire"
	Lightning   Mode = "lightning"
	Holy        Mode = "holy"
	Resistances Mode = "resistances"
	ScarletRot  Mode = "scarlet-rot"
	Poison      Mode = "poison"
	Hemorrhage  Mode = "hemorrhage"
	Frostbite   Mode = "frostbite"
	Sleep       Mode = "sleep"
	Madness     Mode = "madness"
	Death       Mode = "death"
	Poise       Mode = "poise"

	// Custom selects a user-supplied Lua scorer; see package scripting.
	Custom Mode = "custom"
)

// Sentinel is the score every item receives under an unrecognized mode.
// The dominance filter collapses such a slot to its lightest item.
const Sentinel = -1.0

// legacyPrefix is accepted in front of any mode key.
const legacyPrefix = "sort-"

// Func scores a single armor piece.
type Func func(*armor.Armor) float64

type modeInfo struct {
	mode  Mode
	label string
	score Func
}

// modes lists the built-in criteria in display order.
var modes = []modeInfo{
	{Average, "Greatest Average Absorption", func(a *armor.Armor) float64 { return a.Defenses.Total() }},
	{Standard, "Greatest Standard Absorption", func(a *armor.Armor) float64 { return a.Defenses.Standard() }},
	{Physical, "Greatest Physical Absorption", func(a *armor.Armor) float64 { return a.Defenses.Physical }},
	{Strike, "Greatest Strike Absorption", func(a *armor.Armor) float64 { return a.Defenses.Strike }},
	{Slash, "Greatest Slash Absorption", func(a *armor.Armor) float64 { return a.Defenses.Slash }},
	{Pierce, "Greatest Pierce Absorption", func(a *armor.Armor) float64 { return a.Defenses.Pierce }},
	{Elemental, "Greatest Elemental Absorption", func(a *armor.Armor) float64 { return a.Defenses.Elemental() }},
	{Magic, "Greatest Magic Absorption", func(a *armor.Armor) float64 { return a.Defenses.Magic }},
	{Fire, "Greatest Fire Absorption", func(a *armor.Armor) float64 { return a.Defenses.Fire }},
	{Lightning, "Greatest Lightning Absorption", func(a *armor.Armor) float64 { return a.Defenses.Lightning }},
	{Holy, "Greatest Holy Absorption", func(a *armor.Armor) float64 { return a.Defenses.Holy }},
	{Resistances, "Greatest Average Resistance", func(a *armor.Armor) float64 { return a.Resistances.Total() }},
	{ScarletRot, "Greatest Scarlet Rot Resistance", func(a *armor.Armor) float64 { return a.Resistances.ScarletRot }},
	{Poison, "Greatest Poison Resistance", func(a *armor.Armor) float64 { return a.Resistances.Poison }},
	{Hemorrhage, "Greatest Hemorrhage Resistance", func(a *armor.Armor) float64 { return a.Resistances.Hemorrhage }},
	{Frostbite, "Greatest Frostbite Resistance", func(a *armor.Armor) float64 { return a.Resistances.Frostbite }},
	{Sleep, "Greatest Sleep Resistance", func(a *armor.Armor) float64 { return a.Resistances.Sleep }},
	{Madness, "Greatest Madness Resistance", func(a *armor.Armor) float64 { return a.Resistances.Madness }},
	{Death, "Greatest Death Blight Resistance", func(a *armor.Armor) float64 { return a.Resistances.DeathBlight }},
	{Poise, "Greatest Poise", func(a *armor.Armor) float64 { return a.Poise }},
}

var byMode = func() map[Mode]modeInfo {
	m := make(map[Mode]modeInfo, len(modes))
	for _, info := range modes {
		m[info.mode] = info
	}
	return m
}()

func sentinel(*armor.Armor) float64 { return Sentinel }

// Modes returns the built-in modes in display order. Custom is not included.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	for i, info := range modes {
		out[i] = info.mode
	}
	return out
}

// Known reports whether m is a built-in mode.
func Known(m Mode) bool {
	_, ok := byMode[m]
	return ok
}

// Label returns the display label for m, or the key itself when m is not built in.
func Label(m Mode) string {
	if info, ok := byMode[m]; ok {
		return info.label
	}
	if m == Custom {
		return "Custom Script"
	}
	return string(m)
}

// ParseMode normalizes s: it trims, lowercases and strips the legacy "sort-" prefix.
// The returned Mode may still be unknown; callers check with Known.
func ParseMode(s string) Mode {
	s = strings.ToLower(strings.TrimSpace(s))
	return Mode(strings.TrimPrefix(s, legacyPrefix))
}

// Score returns the fitness of a under m. It is pure and total: an unknown
// mode, including Custom, scores every piece as Sentinel.
func Score(a *armor.Armor, m Mode) float64 {
	return For(m)(a)
}

// For binds m to a scoring function.
func For(m Mode) Func {
	if info, ok := byMode[m]; ok {
		return info.score
	}
	return sentinel
}

// Suggest returns the built-in mode closest to s.
func Suggest(s string) (Mode, bool) {
	keys := make([]string, len(modes))
	for i, info := range modes {
		keys[i] = string(info.mode)
	}
	best, ok := suggest.Nearest(string(ParseMode(s)), keys)
	return Mode(best), ok
}
