package engine

import (
	"context"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
)

const criticPersona = "You are an experienced tabletop game designer reviewing automated playtests of Flomanji. Be specific and constructive."

// critique requests a single design review of the finished session.
func (r *run) critique(ctx context.Context) error {
	r.phase = models.PhaseCriticReview
	prompt, err := r.e.composer.CriticReview(narration.CriticInput{
		Scenario:        r.cfg.Scenario,
		Players:         r.state.PlayerCount(),
		HeatProgression: r.heatSeries,
		Completed:       len(r.state.CompletedObjectives),
		Outcome:         r.outcome(),
		Transcript:      narration.Transcript(r.transcript, r.state.Characters),
	})
	if err != nil {
		return err
	}
	reply, err := r.complete(ctx, criticPersona, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		return err
	}
	r.appendMessage(models.RoleCritic, nil, reply, r.meta(models.PhaseCriticReview))
	return nil
}
