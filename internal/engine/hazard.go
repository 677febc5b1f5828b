package engine

import (
	"context"
	"fmt"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/cards"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// drawHazard puts a hazard into play and has the GM announce it.
// An empty deck is a no-op.
func (r *run) drawHazard(ctx context.Context) error {
	r.phase = models.PhaseHazard
	card, ok := cards.DrawOne(r.rng, r.e.catalog.Hazards)
	if !ok {
		r.logger.Debug().Int("round", r.round).Msg("Hazard deck empty")
		return nil
	}
	metrics.CardsDrawn.WithLabelValues("hazard").Inc()
	r.logger.Debug().Int("round", r.round).Str("card", card.Name).Msg("Hazard drawn")

	r.state.ActiveHazards = append(r.state.ActiveHazards, card.Name)
	prompt, err := r.e.composer.Hazard(r.state, card, r.cfg.Verbosity)
	if err != nil {
		return err
	}
	_, err = r.narrate(ctx, models.PhaseHazard, card.Name, prompt)
	return err
}

// overcomeHazard removes the oldest active hazard after a successful check.
func (r *run) overcomeHazard(player int) {
	if len(r.state.ActiveHazards) == 0 {
		return
	}
	name := r.state.ActiveHazards[0]
	r.state.ActiveHazards = append([]string(nil), r.state.ActiveHazards[1:]...)
	r.progress = true
	r.logger.Debug().Int("round", r.round).Int("player", player).Str("card", name).Msg("Hazard overcome")
	r.notice(models.PhaseHazardOvercome, fmt.Sprintf("%s overcomes the %s.", r.state.Characters[player].Name, name), func(m *models.MessageMetadata) {
		m.Card = name
	})
}
