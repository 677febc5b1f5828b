package engine

import (
	"fmt"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
)

// KeyEvents pulls the notable moments out of a transcript: card draws,
// resolved checks, overcome hazards, completed objectives and game over.
func KeyEvents(log []models.AgentMessage, characters []models.Character) []models.KeyEvent {
	var events []models.KeyEvent
	for _, m := range log {
		meta := m.Metadata
		var summary string
		switch meta.Phase {
		case models.PhaseChaos:
			summary = "Chaos: " + meta.Card
		case models.PhaseHazard:
			summary = "Hazard: " + meta.Card
		case models.PhaseHazardOvercome:
			summary = "Hazard overcome: " + meta.Card
		case models.PhaseTreasure:
			summary = "Treasure found: " + meta.Card
		case models.PhaseObjectiveComplete:
			summary = "Objective complete: " + meta.Objective
		case models.PhaseGameOver:
			summary = "Game over: " + meta.Reason
		case models.PhasePlayerTurn:
			if meta.Roll == nil {
				continue
			}
			summary = fmt.Sprintf("%s rolled %s: %d+%d=%d, %s", narration.Speaker(m, characters),
				meta.Roll.Stat, meta.Roll.Raw, meta.Roll.Modifier, meta.Roll.Total, meta.Roll.Outcome)
		default:
			continue
		}
		events = append(events, models.KeyEvent{
			Round:   meta.Round,
			Phase:   meta.Phase,
			Player:  m.Player,
			Summary: summary,
		})
	}
	return events
}
