package dice

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

type fixedSource int

func (f fixedSource) Intn(n int) int { return int(f) % n }

func TestResolve_TotalIsRawPlusModifier(t *testing.T) {
	src := NewSource(42)
	for m := -5; m <= 5; m++ {
		for i := 0; i < 200; i++ {
			c := Resolve(src, m)
			assert.GreaterOrEqual(t, c.Raw, 1)
			assert.LessOrEqual(t, c.Raw, Sides)
			assert.Equal(t, c.Raw+m, c.Total)
		}
	}
}

func TestResolve_Deterministic(t *testing.T) {
	a := NewSource(7)
	b := NewSource(7)
	for i := 0; i < 50; i++ {
		assert.Equal(t, Resolve(a, 2), Resolve(b, 2))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		total int
		want  models.Outcome
	}{
		{-2, models.OutcomeFailure},
		{3, models.OutcomeFailure},
		{4, models.OutcomePartial},
		{7, models.OutcomePartial},
		{8, models.OutcomeSuccess},
		{15, models.OutcomeSuccess},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.total), "total %d", tt.total)
	}
}

func TestRollStat(t *testing.T) {
	// fixedSource(4) rolls a 5.
	r := RollStat(fixedSource(4), models.StatCharm, 3)
	assert.Equal(t, models.StatCharm, r.Stat)
	assert.Equal(t, 5, r.Raw)
	assert.Equal(t, 3, r.Modifier)
	assert.Equal(t, 8, r.Total)
	assert.Equal(t, models.OutcomeSuccess, r.Outcome)
}
