package engine

import (
	"context"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/dice"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
)

// rollType labels stat checks in the roll log.
const rollType = "stat-check"

// playerTurns gives every player one turn in index order. It reports true
// when the game ended after one of the turns.
func (r *run) playerTurns(ctx context.Context) (bool, error) {
	for i := range r.state.Characters {
		if err := r.playerTurn(ctx, i); err != nil {
			return false, err
		}
		if r.checkGameOver() {
			return true, nil
		}
	}
	return false, nil
}

func (r *run) playerTurn(ctx context.Context, player int) error {
	r.phase = models.PhasePlayerTurn
	r.state.Focus = player

	prompt, err := r.e.composer.PlayerTurn(r.state, player, r.e.catalog.ItemName)
	if err != nil {
		return err
	}
	history := narration.ForPlayer(r.transcript, r.state.Characters, player)
	reply, err := r.complete(ctx, r.personas.Players[player], narration.WithPrompt(history, prompt))
	if err != nil {
		return err
	}

	meta := r.meta(models.PhasePlayerTurn)
	var roll *models.RollResult
	if check, ok := DetectStatCheck(reply); ok {
		res := r.resolveCheck(player, check.Stat)
		roll = &res
		meta.Roll = roll
	}
	inv := r.state.Inventories[player]
	items := append(append([]string(nil), inv.Gear...), inv.Treasures...)
	if item, ok := DetectItemUse(reply, items, r.e.catalog.ItemName); ok {
		meta.ItemUsed = item
	}

	idx := player
	r.appendMessage(models.RolePlayer, &idx, reply, meta)

	if roll != nil && roll.Outcome == models.OutcomeSuccess {
		r.overcomeHazard(player)
	}
	return nil
}

// resolveCheck rolls against the player's stat and records the roll.
func (r *run) resolveCheck(player int, stat models.Stat) models.RollResult {
	mod := r.state.Characters[player].Stats.Get(stat)
	res := dice.RollStat(r.rng, stat, mod)
	r.state.Rolls = append(r.state.Rolls, models.RollEntry{
		Player:  player,
		Round:   r.round,
		Type:    rollType,
		Raw:     res.Raw,
		Stat:    stat,
		Outcome: res.Outcome,
	})
	metrics.RollsTotal.WithLabelValues(string(stat), string(res.Outcome)).Inc()
	r.logger.Debug().Int("round", r.round).Int("player", player).Str("stat", string(stat)).
		Int("raw", res.Raw).Int("modifier", mod).Str("outcome", string(res.Outcome)).Msg("Check resolved")
	return res
}
