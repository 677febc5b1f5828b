// Package dice resolves stat checks with a d10.
package dice

import (
	"math/rand"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// Sides is the die used for every check.
const Sides = 10

// Outcome thresholds. A total at or above SuccessAt succeeds, at or above
// PartialAt is a partial success, anything lower fails.
const (
	SuccessAt = 8
	PartialAt = 4
)

// Source is the randomness provider for rolls. *rand.Rand satisfies it.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Check is the result of one resolved check.
type Check struct {
	Raw     int
	Total   int
	Outcome models.Outcome
}

// Resolve rolls a d10, adds the modifier and classifies the total.
func Resolve(src Source, modifier int) Check {
	raw := src.Intn(Sides) + 1
	total := raw + modifier
	return Check{Raw: raw, Total: total, Outcome: Classify(total)}
}

// Classify maps a total to an outcome.
func Classify(total int) models.Outcome {
	switch {
	case total >= SuccessAt:
		return models.OutcomeSuccess
	case total >= PartialAt:
		return models.OutcomePartial
	default:
		return models.OutcomeFailure
	}
}

// RollStat resolves a check against a stat and returns the structured result.
func RollStat(src Source, stat models.Stat, modifier int) models.RollResult {
	c := Resolve(src, modifier)
	return models.RollResult{
		Stat:     stat,
		Raw:      c.Raw,
		Modifier: modifier,
		Total:    c.Total,
		Outcome:  c.Outcome,
	}
}

// NewSource returns a seeded source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
