package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/cory-johannsen/armor-optimizer/internal/armor"
	"github.com/cory-johannsen/armor-optimizer/internal/optimizer"
)

// PieceView is one slot of a SetView.
type PieceView struct {
	Slot     armor.Slot `json:"slot"`
	ID       string     `json:"id,omitempty"`
	Name     string     `json:"name,omitempty"`
	Equipped bool       `json:"equipped"`
}

// SetView is the serializable form of an optimizer.Set.
type SetView struct {
	Rank    int         `json:"rank"`
	Pieces  []PieceView `json:"pieces"`
	Weight  float64     `json:"weight"`
	Fitness float64     `json:"fitness"`
	Stats   Stats       `json:"stats"`
}

// Views converts sets to their serializable form, ranked from 1.
func Views(sets []optimizer.Set) []SetView {
	out := make([]SetView, 0, len(sets))
	for i, s := range sets {
		v := SetView{
			Rank:    i + 1,
			Weight:  s.Weight,
			Fitness: s.Fitness,
			Stats:   SetStats(s),
		}
		for _, slot := range armor.Slots {
			pv := PieceView{Slot: slot, Equipped: s.Equipped(slot)}
			if a := s.Piece(slot); a != nil && pv.Equipped {
				pv.ID, pv.Name = a.ID, a.Name
			}
			v.Pieces = append(v.Pieces, pv)
		}
		out = append(out, v)
	}
	return out
}

// WriteSets writes a plain-text rendering of sets to w.
func WriteSets(w io.Writer, sets []optimizer.Set) error {
	if len(sets) == 0 {
		_, err := fmt.Fprintln(w, "No set fits within the equip load budget.")
		return err
	}
	var b strings.Builder
	for _, v := range Views(sets) {
		fmt.Fprintf(&b, "#%d  fitness %s  weight %s  poise %s\n",
			v.Rank, printer.Sprintf("%.1f", v.Fitness), v.Stats.Weight, v.Stats.Poise)
		for _, p := range v.Pieces {
			name := "(none)"
			if p.Equipped {
				name = p.Name
			}
			fmt.Fprintf(&b, "    %-6s %s\n", p.Slot.DisplayName(), name)
		}
		fmt.Fprintf(&b, "    %s\n", strings.TrimSuffix(v.Stats.Standard, ", "))
		fmt.Fprintf(&b, "    %s\n", strings.TrimSuffix(v.Stats.Elemental, ", "))
		fmt.Fprintf(&b, "    %s\n", strings.TrimSuffix(v.Stats.Resistances, ", "))
	}
	_, err := io.WriteString(w, b.String())
	return err
}
