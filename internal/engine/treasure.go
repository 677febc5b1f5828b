package engine

import (
	"context"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/cards"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// treasureCheck rolls for treasure when an objective was completed or a
// hazard overcome since the last check. Objective completion is detected
// after this phase, so it counts toward the following round's check.
func (r *run) treasureCheck(ctx context.Context) error {
	r.phase = models.PhaseTreasure
	if !r.progress {
		return nil
	}
	r.progress = false
	if r.rng.Float64() >= r.cfg.TreasureChance {
		return nil
	}
	card, ok := cards.DrawOne(r.rng, r.e.catalog.Treasures)
	if !ok {
		r.logger.Debug().Int("round", r.round).Msg("Treasure deck empty")
		return nil
	}
	metrics.CardsDrawn.WithLabelValues("treasure").Inc()

	player := r.rng.Intn(r.state.PlayerCount())
	inv := &r.state.Inventories[player]
	inv.Treasures = append(inv.Treasures, card.ID)
	r.state.DiscoveredTreasures = append(r.state.DiscoveredTreasures, card.Name)
	r.logger.Debug().Int("round", r.round).Int("player", player).Str("card", card.Name).Msg("Treasure found")

	prompt, err := r.e.composer.Treasure(r.state, card, player, r.cfg.Verbosity)
	if err != nil {
		return err
	}
	_, err = r.narrate(ctx, models.PhaseTreasure, card.Name, prompt)
	return err
}
