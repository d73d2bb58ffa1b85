package cards

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDeckHas106UniqueIdentifiers(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, NumCards)
	seen := map[ID]bool{}
	for _, id := range deck {
		require.False(t, seen[id], "duplicate identifier %d", id)
		seen[id] = true
	}
	for i := 0; i < NumCards; i++ {
		require.True(t, seen[ID(i)], "missing identifier %d", i)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for copy := 0; copy < 2; copy++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Ace; rank <= King; rank++ {
				id := Encode(suit, rank, copy)
				d := Decode(id)
				require.False(t, d.IsJoker)
				require.Equal(t, suit, d.Suit)
				require.Equal(t, rank, d.Rank)
				require.Equal(t, copy, d.Copy)
			}
		}
	}
}

func TestJokerDecoding(t *testing.T) {
	d := Decode(JokerBlackID)
	require.True(t, d.IsJoker)
	require.Equal(t, JokerBlack, d.JokerVariant)

	d = Decode(JokerRedID)
	require.True(t, d.IsJoker)
	require.Equal(t, JokerRed, d.JokerVariant)
}

func TestDecodeOutOfRangePanics(t *testing.T) {
	require.Panics(t, func() { Decode(-1) })
	require.Panics(t, func() { Decode(NumCards) })
}

func TestPointsTable(t *testing.T) {
	cases := []struct {
		rank Rank
		pts  int
	}{
		{Ace, 10}, {Two, 2}, {Nine, 9}, {Ten, 10}, {Jack, 10}, {Queen, 10}, {King, 10},
	}
	for _, c := range cases {
		id := Encode(Spades, c.rank, 0)
		require.Equal(t, c.pts, Points(id))
	}
	require.Equal(t, 0, Points(JokerBlackID))
	require.Equal(t, King.Points(), PointsAs(JokerBlackID, King))
}

func TestMaskBasics(t *testing.T) {
	var m Mask
	require.True(t, m.IsEmpty())

	c7s := Encode(Spades, Seven, 0)
	c7h := Encode(Hearts, Seven, 0)
	m = m.With(c7s).With(c7h)
	require.Equal(t, 2, m.Popcount())
	require.True(t, m.Has(c7s))
	require.True(t, m.Has(c7h))
	require.False(t, m.Has(Encode(Clubs, Seven, 0)))

	m2 := m.Without(c7h)
	require.Equal(t, 1, m2.Popcount())
	require.True(t, m2.IsSubsetOf(m))
	require.False(t, m.IsSubsetOf(m2))

	union := m2.Union(MaskFromIDs([]ID{c7h}))
	require.True(t, union.Equal(m))
}

func TestMaskHiLoSplitAcrossBoundary(t *testing.T) {
	lowID := ID(10)
	highID := ID(100)
	m := MaskFromIDs([]ID{lowID, highID})
	hi, lo := m.Split()
	require.NotZero(t, hi)
	require.NotZero(t, lo)
	require.Equal(t, m, Combine(hi, lo))
}

func TestMaskBitSetRoundTrip(t *testing.T) {
	ids := []ID{0, 5, 63, 64, 105}
	m := MaskFromIDs(ids)
	bs := m.ToBitSet()
	back := FromBitSet(bs)
	require.True(t, m.Equal(back))
}

func TestShuffleIsPermutation(t *testing.T) {
	deck := NewDeck()
	shuffled := append([]ID(nil), deck...)
	Shuffle(shuffled, rand.New(rand.NewSource(42)))
	require.ElementsMatch(t, deck, shuffled)
}
