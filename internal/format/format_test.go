package format_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/fitness"
	"github.com/cory-johannsen/armor-optimizer/internal/format"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
)

func knightHelm() *armor.Armor {
	return &armor.Armor{
		ID: "knight-helm", Name: "Knight Helm", Slot: armor.SlotHead,
		Weight: 5.6, Poise: 6,
		Defenses: armor.Defenses{
			Physical: 4.5, Strike: 4, Slash: 4.5, Pierce: 4,
			Magic: 3, Fire: 3.5, Lightning: 3, Holy: 3.5,
		},
		Resistances: armor.Resistances{ScarletRot: 16, Poison: 16, Hemorrhage: 19, Frostbite: 19, Sleep: 12, Madness: 12, DeathBlight: 16},
	}
}

func blackBoots() *armor.Armor {
	return &armor.Armor{
		ID: "black-boots", Name: "Black Boots", Slot: armor.SlotLegs,
		Weight: 2, Poise: 1.5,
		Defenses:    armor.Defenses{Physical: 1, Holy: 0.5},
		Resistances: armor.Resistances{Sleep: 8},
	}
}

func TestItemStats(t *testing.T) {
	s := format.ItemStats(knightHelm())
	assert.Equal(t, "5.6", s.Weight)
	assert.Equal(t, "6", s.Poise)
	assert.Equal(t, "17.0 Standard, 4.5 Physical, 4.0 Strike, 4.5 Slash, 4.0 Pierce, ", s.Standard)
	assert.Equal(t, "13.0 Elemental, 3.0 Magic, 3.5 Fire, 3.0 Lightning, 3.5 Holy, ", s.Elemental)
	assert.Equal(t, "16 Scarlet Rot, 16 Poison, 19 Hemorrhage, 19 Frostbite, 12 Sleep, 12 Madness, 16 Death, ", s.Resistances)
}

func TestItemStats_GroupsThousands(t *testing.T) {
	a := &armor.Armor{ID: "anvil", Name: "Anvil", Slot: armor.SlotChest, Weight: 1234.5}
	assert.Equal(t, "1,234.5", format.ItemStats(a).Weight)
}

func solve(t *testing.T, budget float64) []optimizer.Set {
	t.Helper()
	var cands [armor.NumSlots][]*armor.Armor
	cands[0] = []*armor.Armor{knightHelm()}
	cands[3] = []*armor.Armor{blackBoots()}
	return optimizer.Solve(cands, fitness.For(fitness.Poise), budget)
}

func TestSetStats_SumsEquippedPieces(t *testing.T) {
	sets := solve(t, 10)
	require.NotEmpty(t, sets)

	s := format.SetStats(sets[0])
	assert.Equal(t, "7.6", s.Weight)
	assert.Equal(t, "7.5", s.Poise)
	assert.Equal(t, "18.0 Standard, 5.5 Physical, 4.0 Strike, 4.5 Slash, 4.0 Pierce, ", s.Standard)
	assert.Contains(t, s.Resistances, "20 Sleep")
}

func TestSetStats_SkipsPlaceholders(t *testing.T) {
	sets := solve(t, 3)
	require.Len(t, sets, 1)
	require.NotNil(t, sets[0].Head, "head holds its placeholder")

	total := format.Sum(sets[0])
	assert.Equal(t, 2.0, total.Weight)
	assert.Equal(t, 1.5, total.Poise)
	assert.Equal(t, 8.0, total.Resistances.Sleep)
}

func TestViews(t *testing.T) {
	views := format.Views(solve(t, 3))
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, 1, v.Rank)
	assert.Equal(t, 1.5, v.Fitness)
	require.Len(t, v.Pieces, armor.NumSlots)

	assert.Equal(t, format.PieceView{Slot: armor.SlotHead}, v.Pieces[0])
	assert.Equal(t, format.PieceView{Slot: armor.SlotLegs, ID: "black-boots", Name: "Black Boots", Equipped: true}, v.Pieces[3])

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"black-boots"`)
	assert.Contains(t, string(data), `"rank":1`)
}

func TestViews_Empty(t *testing.T) {
	views := format.Views(nil)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestWriteSets(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.WriteSets(&buf, solve(t, 10)))
	out := buf.String()
	assert.Contains(t, out, "#1  fitness 7.5  weight 7.6  poise 7.5")
	assert.Contains(t, out, "Head   Knight Helm")
	assert.Contains(t, out, "Hands  (none)")
	assert.Contains(t, out, "Legs   Black Boots")
}

func TestWriteSets_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, format.WriteSets(&buf, nil))
	assert.Equal(t, "No set fits within the equip load budget.\n", buf.String())
}
