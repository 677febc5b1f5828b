package engine

import (
	"context"
	"fmt"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/metrics"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// Chaos cadence: a card on round 0, then every chaosEvery rounds, or every
// chaosEveryHot rounds once heat reaches chaosHotAt.
const (
	chaosEvery    = 3
	chaosEveryHot = 2
	chaosHotAt    = 7
)

// chaosDue reports whether a chaos card is drawn at the start of round.
func chaosDue(round, heat int) bool {
	switch {
	case round == 0:
		return true
	case heat >= chaosHotAt:
		return round%chaosEveryHot == 0
	default:
		return round%chaosEvery == 0
	}
}

// heatIncrement is the per-round heat rise, including the nightmare module.
func heatIncrement(cfg models.SimulationConfig) int {
	inc := cfg.HeatPerRound
	if cfg.Modules.Nightmare {
		inc++
	}
	return inc
}

// playRound runs the phases of one round in order. It reports true when
// the game ended during the round; later phases are then skipped.
func (r *run) playRound(ctx context.Context, round int) (bool, error) {
	r.round = round
	r.state.Round = round
	logger := r.logger.With().Int("round", round).Logger()
	logger.Debug().Int("heat", r.state.Heat).Msg("Round started")

	if inc := heatIncrement(r.cfg); round > 0 && inc > 0 {
		applied := r.adjustHeat(inc)
		r.notice(models.PhaseHeatUpdate, fmt.Sprintf("Heat rises by %d and is now %d of %d.", applied, r.state.Heat, r.state.MaxHeat), nil)
		if r.checkGameOver() {
			return true, nil
		}
	}

	if chaosDue(round, r.state.Heat) {
		if err := r.drawChaos(ctx); err != nil {
			return false, err
		}
		if r.checkGameOver() {
			return true, nil
		}
	}

	if err := r.drawHazard(ctx); err != nil {
		return false, err
	}

	over, err := r.playerTurns(ctx)
	if err != nil || over {
		return over, err
	}

	if err := r.treasureCheck(ctx); err != nil {
		return false, err
	}

	if err := r.resolveActions(ctx); err != nil {
		return false, err
	}

	if err := r.summarize(ctx); err != nil {
		return false, err
	}

	r.state.RoundsCompleted++
	r.heatSeries = append(r.heatSeries, r.state.Heat)
	metrics.RoundsTotal.Inc()
	logger.Debug().Int("heat", r.state.Heat).Int("objectives_completed", len(r.state.CompletedObjectives)).Msg("Round finished")
	return r.checkGameOver(), nil
}

// resolveActions asks the GM to narrate the collective outcome of the
// round's actions, then records any objective the narration completes.
func (r *run) resolveActions(ctx context.Context) error {
	r.phase = models.PhaseGMResponse
	prompt, err := r.e.composer.GMResponse(r.state, r.cfg.Verbosity)
	if err != nil {
		return err
	}
	reply, err := r.narrate(ctx, models.PhaseGMResponse, "", prompt)
	if err != nil {
		return err
	}

	for _, obj := range DetectObjectives(reply, r.state.Objectives, r.state.ObjectiveCompleted) {
		r.state.CompletedObjectives = append(r.state.CompletedObjectives, obj.ID)
		r.progress = true
		r.logger.Info().Int("round", r.round).Str("objective", obj.ID).Msg("Objective completed")
		objID := obj.ID
		r.notice(models.PhaseObjectiveComplete, fmt.Sprintf("Objective complete: %s.", obj.Name), func(m *models.MessageMetadata) {
			m.Objective = objID
		})
	}
	return nil
}

func (r *run) summarize(ctx context.Context) error {
	r.phase = models.PhaseRoundSummary
	prompt, err := r.e.composer.RoundSummary(r.state)
	if err != nil {
		return err
	}
	_, err = r.narrate(ctx, models.PhaseRoundSummary, "", prompt)
	return err
}
