package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/dice"
)

func TestDrawOne_Empty(t *testing.T) {
	card, ok := DrawOne(dice.NewSource(1), []string{})
	assert.False(t, ok)
	assert.Empty(t, card)

	card, ok = DrawOne[string](dice.NewSource(1), nil)
	assert.False(t, ok)
	assert.Empty(t, card)
}

func TestDrawOne_MemberOfDeck(t *testing.T) {
	deck := []string{"a", "b", "c"}
	src := dice.NewSource(3)
	for i := 0; i < 100; i++ {
		card, ok := DrawOne(src, deck)
		require.True(t, ok)
		assert.Contains(t, deck, card)
	}
}

func TestDrawMany_UniqueDistinctMembers(t *testing.T) {
	deck := []int{10, 11, 12, 13, 14, 15, 16}
	src := dice.NewSource(99)
	for n := 0; n <= len(deck); n++ {
		got := DrawMany(src, deck, n, true)
		assert.Len(t, got, n)
		seen := map[int]bool{}
		for _, c := range got {
			assert.Contains(t, deck, c)
			assert.False(t, seen[c], "card %d drawn twice", c)
			seen[c] = true
		}
	}
	assert.Equal(t, []int{10, 11, 12, 13, 14, 15, 16}, deck, "deck must not be reordered")
}

func TestDrawMany_ClampsUnique(t *testing.T) {
	deck := []string{"x", "y"}
	got := DrawMany(dice.NewSource(5), deck, 10, true)
	assert.Len(t, got, 2)
	assert.ElementsMatch(t, deck, got)
}

func TestDrawMany_WithReplacement(t *testing.T) {
	deck := []string{"x"}
	got := DrawMany(dice.NewSource(5), deck, 4, false)
	assert.Equal(t, []string{"x", "x", "x", "x"}, got)
}

func TestDrawMany_EmptyDeck(t *testing.T) {
	assert.Empty(t, DrawMany(dice.NewSource(5), []string{}, 3, true))
}
