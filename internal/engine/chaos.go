package engine

import (
	"context"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/cards"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// drawChaos applies a chaos card and has the GM announce it.
// An empty deck is a no-op.
func (r *run) drawChaos(ctx context.Context) error {
	r.phase = models.PhaseChaos
	card, ok := cards.DrawOne(r.rng, r.e.catalog.Chaos)
	if !ok {
		r.logger.Debug().Int("round", r.round).Msg("Chaos deck empty")
		return nil
	}
	metrics.CardsDrawn.WithLabelValues("chaos").Inc()

	change := 0
	if card.HeatEffect != nil {
		change = r.adjustHeat(*card.HeatEffect)
	}
	r.state.OngoingEffects = applyDuration(r.state.OngoingEffects, card)
	r.logger.Debug().Int("round", r.round).Str("card", card.Name).Int("heat_change", change).Msg("Chaos drawn")

	prompt, err := r.e.composer.Chaos(r.state, card, change, r.cfg.Verbosity)
	if err != nil {
		return err
	}
	_, err = r.narrate(ctx, models.PhaseChaos, card.Name, prompt)
	return err
}

// applyDuration returns the ongoing effects after card enters play. An
// ongoing card replaces every earlier ongoing card; permanent cards stay.
func applyDuration(effects []models.OngoingEffect, card models.ChaosCard) []models.OngoingEffect {
	effect := models.OngoingEffect{Card: card.Name, Duration: card.Duration, Rules: card.Rules}
	switch card.Duration {
	case models.DurationOngoing:
		var kept []models.OngoingEffect
		for _, e := range effects {
			if e.Duration == models.DurationPermanent {
				kept = append(kept, e)
			}
		}
		return append(kept, effect)
	case models.DurationPermanent:
		return append(append([]models.OngoingEffect(nil), effects...), effect)
	default:
		return effects
	}
}
