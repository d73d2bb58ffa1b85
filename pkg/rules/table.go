package rules

import (
	"github.com/konkan-engine/konkan/pkg/cards"
	"github.com/konkan-engine/konkan/pkg/solver"
)

// TableMeld is a meld laid on the table, tagged with a stable ID so sarf
// actions can address it across mutations.
type TableMeld struct {
	solver.Meld
	ID int
}

// Table holds every meld laid on the table plus, per card, which player
// contributed it. A sarf-extension may add a card to a meld another
// player originally laid down, and laid points are credited per
// contributor, not per meld owner.
type Table struct {
	Melds     []TableMeld
	CardOwner map[cards.ID]int
	nextID    int
}

// NewTable returns an empty table.
func NewTable() Table {
	return Table{CardOwner: make(map[cards.ID]int)}
}

// Add lays down a new meld owned by player, crediting every one of its
// cards to that player, and returns the assigned meld ID.
func (t *Table) Add(m solver.Meld, player int) int {
	m.Owner = player
	id := t.nextID
	t.nextID++
	t.Melds = append(t.Melds, TableMeld{Meld: m, ID: id})
	for _, cardID := range m.Cards.IDs() {
		t.CardOwner[cardID] = player
	}
	return id
}

// Find returns the meld with the given ID and its index, if present.
func (t *Table) Find(id int) (*TableMeld, int, bool) {
	for i := range t.Melds {
		if t.Melds[i].ID == id {
			return &t.Melds[i], i, true
		}
	}
	return nil, -1, false
}

// LaidPointsFor sums the represented-rank points of every card on the
// table currently attributed to player.
func (t *Table) LaidPointsFor(player int) int {
	total := 0
	for _, tm := range t.Melds {
		for _, id := range tm.Cards.IDs() {
			if t.CardOwner[id] == player {
				total += cards.PointsAs(id, tm.RepresentedRank(id))
			}
		}
	}
	return total
}

// Clone deep-copies the table so speculative mutation never touches the
// original.
func (t Table) Clone() Table {
	n := Table{nextID: t.nextID}
	n.Melds = append([]TableMeld(nil), t.Melds...)
	n.CardOwner = make(map[cards.ID]int, len(t.CardOwner))
	for k, v := range t.CardOwner {
		n.CardOwner[k] = v
	}
	return n
}
