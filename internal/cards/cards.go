// Package cards draws cards from catalog decks.
package cards

import "github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/dice"

// DrawOne returns a uniformly random card, or false when the deck is empty.
func DrawOne[T any](src dice.Source, deck []T) (T, bool) {
	var zero T
	if len(deck) == 0 {
		return zero, false
	}
	return deck[src.Intn(len(deck))], true
}

// DrawMany draws n cards. With unique set, no card is drawn twice and n is
// clamped to the deck size; otherwise cards are drawn with replacement.
// The deck itself is never reordered.
func DrawMany[T any](src dice.Source, deck []T, n int, unique bool) []T {
	if n <= 0 || len(deck) == 0 {
		return nil
	}
	if !unique {
		out := make([]T, n)
		for i := range out {
			out[i] = deck[src.Intn(len(deck))]
		}
		return out
	}
	if n > len(deck) {
		n = len(deck)
	}
	idx := make([]int, len(deck))
	for i := range idx {
		idx[i] = i
	}
	// Partial Fisher-Yates over the index slice.
	out := make([]T, n)
	for i := 0; i < n; i++ {
		j := i + src.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out[i] = deck[idx[i]]
	}
	return out
}
