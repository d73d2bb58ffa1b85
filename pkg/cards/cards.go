// Package cards implements the dense 106-identifier card codec for Konkan:
// two 52-card decks plus two printed jokers, a 128-bit mask type, and the
// point table used by the solver and scorer.
package cards

import (
	"fmt"
	"math/bits"
	"math/rand"

	"github.com/bits-and-blooms/bitset"
)

// NumCards is the total number of distinct card identifiers: two 52-card
// decks (104) plus two printed jokers (ids 104 and 105).
const NumCards = 106

// ID is a dense card identifier in [0, NumCards).
type ID int

// Suit identifies one of the four standard suits.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	}
	return "?"
}

// Rank is a card rank, Ace low only (Ace=0 .. King=12).
type Rank int

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

const NumRanks = 13

var rankPoints = [NumRanks]int{10, 2, 3, 4, 5, 6, 7, 8, 9, 10, 10, 10, 10}
var rankNames = [NumRanks]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}

// Points returns the rank's intrinsic point value.
func (r Rank) Points() int { return rankPoints[r] }

func (r Rank) String() string { return rankNames[r] }

// JokerVariant distinguishes the two printed jokers (black and red) for display
// purposes only; it never affects scoring or meld legality.
type JokerVariant int

const (
	JokerBlack JokerVariant = iota
	JokerRed
)

// Decoded is the structured view of a card identifier.
type Decoded struct {
	IsJoker      bool
	Suit         Suit
	Rank         Rank
	Copy         int          // 0 or 1; -1 for a joker
	JokerVariant JokerVariant // valid only when IsJoker
}

// Encode returns the dense identifier for a standard card.
// copy must be 0 or 1; panics (programming fault) otherwise.
func Encode(suit Suit, rank Rank, copy int) ID {
	if copy != 0 && copy != 1 {
		panic(fmt.Sprintf("cards: invalid copy index %d", copy))
	}
	base := int(suit)*NumRanks + int(rank)
	return ID(base + copy*52)
}

// JokerBlackID and JokerRedID are the two printed-joker identifiers,
// placed after the 104 standard cards.
const (
	JokerBlackID ID = 104
	JokerRedID   ID = 105
)

// Decode recovers the structured view of a card identifier. Out-of-range
// identifiers are a programming fault and panic.
func Decode(id ID) Decoded {
	if id < 0 || id >= NumCards {
		panic(fmt.Sprintf("cards: identifier %d out of range", id))
	}
	if id >= 104 {
		variant := JokerBlack
		if id == JokerRedID {
			variant = JokerRed
		}
		return Decoded{IsJoker: true, Copy: -1, JokerVariant: variant}
	}
	copy := int(id) / 52
	base := int(id) % 52
	return Decoded{Suit: Suit(base / NumRanks), Rank: Rank(base % NumRanks), Copy: copy}
}

// Points returns a card's intrinsic point value: a joker's intrinsic value
// is 0. Use PointsAs to score a joker substituting for a represented rank.
func Points(id ID) int {
	d := Decode(id)
	if d.IsJoker {
		return 0
	}
	return d.Rank.Points()
}

// PointsAs returns the points a card contributes within a meld, where a
// joker scores the rank it represents and a normal card scores its own
// rank regardless of representedRank.
func PointsAs(id ID, representedRank Rank) int {
	d := Decode(id)
	if d.IsJoker {
		return representedRank.Points()
	}
	return d.Rank.Points()
}

func (d Decoded) String() string {
	if d.IsJoker {
		return "JK"
	}
	return d.Rank.String() + d.Suit.String()
}

func (id ID) String() string { return Decode(id).String() }

// NewDeck returns all 106 identifiers in construction order: copy 0 then
// copy 1 of the 52 standard cards, followed by the 2 printed jokers.
func NewDeck() []ID {
	deck := make([]ID, 0, NumCards)
	for copy := 0; copy < 2; copy++ {
		for _, suit := range []Suit{Spades, Hearts, Diamonds, Clubs} {
			for rank := Ace; rank <= King; rank++ {
				deck = append(deck, Encode(suit, rank, copy))
			}
		}
	}
	deck = append(deck, JokerBlackID, JokerRedID)
	return deck
}

// Shuffle permutes ids in place using rng.
func Shuffle(ids []ID, rng *rand.Rand) {
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

// Mask is a 128-bit set of card identifiers split into two 64-bit halves:
// bit k of Lo is identifier k (k<64); bit (k-64) of Hi is identifier k
// (k>=64). Multiplicity is captured by two distinct identifiers per
// physical card, so Mask is a true set of identifiers.
type Mask struct {
	Hi, Lo uint64
}

// BitFor returns the single-bit mask for an identifier.
func BitFor(id ID) Mask {
	if id < 64 {
		return Mask{Lo: 1 << uint(id)}
	}
	return Mask{Hi: 1 << uint(id-64)}
}

// MaskFromIDs unions the bits for each identifier.
func MaskFromIDs(ids []ID) Mask {
	var m Mask
	for _, id := range ids {
		m = m.With(id)
	}
	return m
}

// Combine builds a Mask from its two halves.
func Combine(hi, lo uint64) Mask { return Mask{Hi: hi, Lo: lo} }

// Split returns the (hi, lo) halves.
func (m Mask) Split() (hi, lo uint64) { return m.Hi, m.Lo }

func (m Mask) Has(id ID) bool {
	b := BitFor(id)
	return m.Hi&b.Hi != 0 || m.Lo&b.Lo != 0
}

func (m Mask) With(id ID) Mask {
	b := BitFor(id)
	return Mask{Hi: m.Hi | b.Hi, Lo: m.Lo | b.Lo}
}

func (m Mask) Without(id ID) Mask {
	b := BitFor(id)
	return Mask{Hi: m.Hi &^ b.Hi, Lo: m.Lo &^ b.Lo}
}

func (m Mask) Union(other Mask) Mask {
	return Mask{Hi: m.Hi | other.Hi, Lo: m.Lo | other.Lo}
}

func (m Mask) Intersect(other Mask) Mask {
	return Mask{Hi: m.Hi & other.Hi, Lo: m.Lo & other.Lo}
}

// Minus returns the set difference m \ other.
func (m Mask) Minus(other Mask) Mask {
	return Mask{Hi: m.Hi &^ other.Hi, Lo: m.Lo &^ other.Lo}
}

func (m Mask) IsEmpty() bool { return m.Hi == 0 && m.Lo == 0 }

func (m Mask) Popcount() int {
	return bits.OnesCount64(m.Hi) + bits.OnesCount64(m.Lo)
}

// IsSubsetOf reports whether every identifier in m is also in other.
func (m Mask) IsSubsetOf(other Mask) bool {
	return m.Hi&^other.Hi == 0 && m.Lo&^other.Lo == 0
}

func (m Mask) Equal(other Mask) bool { return m.Hi == other.Hi && m.Lo == other.Lo }

// IDs returns the identifiers present in m in ascending order.
func (m Mask) IDs() []ID {
	ids := make([]ID, 0, m.Popcount())
	lo, hi := m.Lo, m.Hi
	for lo != 0 {
		tz := bits.TrailingZeros64(lo)
		ids = append(ids, ID(tz))
		lo &= lo - 1
	}
	for hi != 0 {
		tz := bits.TrailingZeros64(hi)
		ids = append(ids, ID(tz+64))
		hi &= hi - 1
	}
	return ids
}

// ToBitSet converts m to a variable-size bitset.BitSet for consumers that
// perform set algebra over pools of arbitrary cardinality.
func (m Mask) ToBitSet() *bitset.BitSet {
	bs := bitset.New(NumCards)
	for _, id := range m.IDs() {
		bs.Set(uint(id))
	}
	return bs
}

// FromBitSet converts a bitset.BitSet back into a Mask.
func FromBitSet(bs *bitset.BitSet) Mask {
	var m Mask
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		m = m.With(ID(i))
	}
	return m
}

func (m Mask) String() string {
	s := "{"
	for i, id := range m.IDs() {
		if i > 0 {
			s += " "
		}
		s += id.String()
	}
	return s + "}"
}
