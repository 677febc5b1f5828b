package engine

import "github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"

// Game-over reasons.
const (
	ReasonHeatMaximum    = "heat-maximum"
	ReasonAllTransformed = "all-players-transformed"
	ReasonObjectivesDone = "all objectives completed"
)

// Verdict is the result of evaluating the end conditions.
type Verdict struct {
	Over    bool
	Outcome models.MissionOutcome
	Reason  string
}

// Evaluate checks the end conditions in a fixed order; the first one that
// holds decides the verdict.
func Evaluate(s *models.GameState) Verdict {
	switch {
	case s.Heat >= s.MaxHeat:
		return Verdict{Over: true, Outcome: models.MissionFailure, Reason: ReasonHeatMaximum}
	case allTransformed(s):
		return Verdict{Over: true, Outcome: models.MissionFailure, Reason: ReasonAllTransformed}
	case s.RoundsCompleted >= 1 && requiredDone(s):
		return Verdict{Over: true, Outcome: models.MissionSuccess, Reason: ReasonObjectivesDone}
	}
	return Verdict{}
}

func allTransformed(s *models.GameState) bool {
	if len(s.Inventories) == 0 {
		return false
	}
	for _, inv := range s.Inventories {
		if inv.Weirdness < models.MaxWeirdness {
			return false
		}
	}
	return true
}

// requiredDone reports whether every required objective is completed. A
// state without required objectives never succeeds by objectives.
func requiredDone(s *models.GameState) bool {
	required := 0
	for _, o := range s.Objectives {
		if !o.Required {
			continue
		}
		required++
		if !s.ObjectiveCompleted(o.ID) {
			return false
		}
	}
	return required > 0
}
