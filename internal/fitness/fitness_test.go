package fitness_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
)

func piece() *armor.Armor {
	return &armor.Armor{
		ID: "p", Name: "P", Slot: armor.SlotChest, Weight: 10, Poise: 21,
		Defenses: armor.Defenses{
			Physical: 1, Strike: 2, Slash: 3, Pierce: 4,
			Magic: 5, Fire: 6, Lightning: 7, Holy: 8,
		},
		Resistances: armor.Resistances{
			ScarletRot: 10, Poison: 20, Hemorrhage: 30, Frostbite: 40,
			Sleep: 50, Madness: 60, DeathBlight: 70,
		},
	}
}

func TestScore_EveryMode(t *testing.T) {
	want := map[fitness.Mode]float64{
		fitness.Average:     36,
		fitness.Standard:    10,
		fitness.Physical:    1,
		fitness.Strike:      2,
		fitness.Slash:       3,
		fitness.Pierce:      4,
		fitness.Elemental:   26,
		fitness.Magic:       5,
		fitness.Fire:        6,
		fitness.Lightning:   7,
		fitness.Holy:        8,
		fitness.Resistances: 280,
		fitness.ScarletRot:  10,
		fitness.Poison:      20,
		fitness.Hemorrhage:  30,
		fitness.Frostbite:   40,
		fitness.Sleep:       50,
		fitness.Madness:     60,
		fitness.Death:       70,
		fitness.Poise:       21,
	}
	require.Len(t, fitness.Modes(), len(want))
	for _, m := range fitness.Modes() {
		assert.Equal(t, want[m], fitness.Score(piece(), m), "mode %s", m)
	}
}

func TestScore_UnknownModeIsSentinel(t *testing.T) {
	assert.Equal(t, fitness.Sentinel, fitness.Score(piece(), "weight"))
	assert.Equal(t, fitness.Sentinel, fitness.Score(piece(), fitness.Custom))
	assert.Equal(t, -1.0, fitness.For("")(piece()))
}

func TestKnown(t *testing.T) {
	assert.True(t, fitness.Known(fitness.Standard))
	assert.False(t, fitness.Known(fitness.Custom))
	assert.False(t, fitness.Known("sort-standard"))
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, fitness.Standard, fitness.ParseMode("standard"))
	assert.Equal(t, fitness.Standard, fitness.ParseMode("  Sort-Standard "))
	assert.Equal(t, fitness.ScarletRot, fitness.ParseMode("SCARLET-ROT"))
	assert.Equal(t, fitness.Custom, fitness.ParseMode("custom"))
	assert.Equal(t, fitness.Mode("unknown"), fitness.ParseMode("unknown"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Greatest Standard Absorption", fitness.Label(fitness.Standard))
	assert.Equal(t, "Greatest Death Blight Resistance", fitness.Label(fitness.Death))
	assert.Equal(t, "Custom Script", fitness.Label(fitness.Custom))
	assert.Equal(t, "nonsense", fitness.Label("nonsense"))
}

func TestSuggest(t *testing.T) {
	got, ok := fitness.Suggest("lightnin")
	require.True(t, ok)
	assert.Equal(t, fitness.Lightning, got)

	got, ok = fitness.Suggest("sort-hemorage")
	require.True(t, ok)
	assert.Equal(t, fitness.Hemorrhage, got)

	_, ok = fitness.Suggest("xyzzy-plugh")
	assert.False(t, ok)
}

func TestProperty_ScoreIsPureAndTotal(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := &armor.Armor{
			ID: "x", Name: "X", Slot: armor.SlotLegs,
			Weight: rapid.Float64Range(0, 50).Draw(t, "weight"),
			Poise:  rapid.Float64Range(0, 50).Draw(t, "poise"),
			Defenses: armor.Defenses{
				Physical: rapid.Float64Range(0, 50).Draw(t, "physical"),
				Holy:     rapid.Float64Range(0, 50).Draw(t, "holy"),
			},
			Resistances: armor.Resistances{Sleep: rapid.Float64Range(0, 200).Draw(t, "sleep")},
		}
		key := rapid.OneOf(
			rapid.SampledFrom(fitness.Modes()),
			rapid.Map(rapid.StringMatching(`[a-z]{1,12}`), func(s string) fitness.Mode { return fitness.Mode(s) }),
		).Draw(t, "mode")

		first := fitness.Score(a, key)
		if second := fitness.Score(a, key); first != second {
			t.Fatalf("Score not deterministic for %q: %v then %v", key, first, second)
		}
		if !fitness.Known(key) && first != fitness.Sentinel {
			t.Fatalf("unknown mode %q scored %v, want sentinel", key, first)
		}
		if fitness.Known(key) && first < 0 {
			t.Fatalf("built-in mode %q scored non-negative stats as %v", key, first)
		}
	})
}
