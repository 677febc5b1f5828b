package training_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/training"
)

func player(i int) *int { return &i }

func gm(round int, phase models.Phase, heat int, content string) models.AgentMessage {
	return models.AgentMessage{
		Role:    models.RoleGM,
		Content: content,
		Metadata: models.MessageMetadata{
			Round:    round,
			Phase:    phase,
			Heat:     heat,
			Snapshot: &models.GameState{Round: round, Heat: heat},
		},
	}
}

func act(round, p, heat int, content string) models.AgentMessage {
	return models.AgentMessage{
		Role:    models.RolePlayer,
		Player:  player(p),
		Content: content,
		Metadata: models.MessageMetadata{
			Round:    round,
			Phase:    models.PhasePlayerTurn,
			Heat:     heat,
			Snapshot: &models.GameState{Round: round, Heat: heat},
		},
	}
}

func sampleResult() *models.SimulationResult {
	roll := act(0, 0, 3, "I roll for Brawn and shove the gator off the dock.")
	roll.Metadata.Roll = &models.RollResult{Stat: models.StatBrawn, Raw: 7, Modifier: 2, Total: 9, Outcome: models.OutcomeSuccess}

	hazard := gm(0, models.PhaseHazard, 3, "A gator lunges from the canal.")
	hazard.Metadata.Card = "Canal Gator"

	objective := gm(1, models.PhaseObjectiveComplete, 5, "Objective complete: Find the Airboat.")
	objective.Metadata.Objective = "airboat"

	log := []models.AgentMessage{
		gm(0, models.PhaseIntroduction, 3, "Welcome to the swamp."),
		hazard,
		roll,
		act(0, 1, 3, "I film everything."),
		gm(0, models.PhaseGMResponse, 3, "Gary's shove saves the dock, a clever success. Dolores panics."),
		gm(0, models.PhaseRoundSummary, 3, "Round one ends."),
		gm(1, models.PhaseHeatUpdate, 5, "Heat rises by 2 and is now 5 of 10."),
		act(1, 0, 5, "I hotwire the airboat."),
		act(1, 1, 5, "I trip over the cooler."),
		gm(1, models.PhaseGMResponse, 5, "The cooler spills and Dolores is hurt. The failure costs time, and the airboat objective is completed."),
		objective,
		gm(1, models.PhaseRoundSummary, 5, "Round two ends."),
		gm(1, models.PhaseConclusion, 5, "The survivors escape."),
	}
	critic := models.AgentMessage{Role: models.RoleCritic, Content: "critique", Metadata: models.MessageMetadata{Round: 1, Phase: models.PhaseCriticReview}}
	log = append(log, critic)

	return &models.SimulationResult{
		ID:  "sim-1",
		Log: log,
		FinalState: models.GameState{
			Round:           1,
			RoundsCompleted: 2,
			Heat:            5,
			MaxHeat:         10,
			Characters:      []models.Character{{Name: "Gary"}, {Name: "Dolores"}},
		},
		Outcome: models.MissionSuccess,
		Reason:  "all objectives completed",
		CriticFeedback: "The heat rules escalate too slowly for a five round game.\n\n" +
			"Players loved the gator scene.\n\n" +
			"The movement mechanic between regions never came up.\n\n" +
			"Overall the gameplay felt balanced.",
	}
}

func TestGenerateCountsExamples(t *testing.T) {
	bundle := training.Generate(sampleResult())

	assert.Equal(t, "sim-1", bundle.SimulationID)
	assert.Equal(t, map[models.ExampleKind]int{
		models.ExampleGMResponse:          7,
		models.ExamplePlayerAction:        4,
		models.ExampleHazardEncounter:     1,
		models.ExampleObjectiveCompletion: 2,
		models.ExampleRuleCritique:        3,
	}, bundle.Stats.ExampleCounts)
	assert.Len(t, bundle.Examples, 17)

	ids := make(map[string]bool)
	for _, ex := range bundle.Examples {
		assert.False(t, ids[ex.ID], "duplicate id %s", ex.ID)
		ids[ex.ID] = true
	}
	assert.True(t, ids["sim-1-gm-response-1"])
	assert.True(t, ids["sim-1-rule-critique-3"])
}

func TestGenerateContextWindow(t *testing.T) {
	res := sampleResult()
	bundle := training.Generate(res)

	first := bundle.Examples[0]
	assert.Equal(t, models.ExampleGMResponse, first.Kind)
	assert.Empty(t, first.Context.Messages)
	assert.Equal(t, []string{"Gary", "Dolores"}, first.Context.Characters)

	var roll models.TrainingExample
	for _, ex := range bundle.Examples {
		if ex.Metadata["stat"] != "" {
			roll = ex
		}
	}
	require.Equal(t, models.ExamplePlayerAction, roll.Kind)
	assert.Equal(t, "brawn", roll.Metadata["stat"])
	assert.Equal(t, "success", roll.Metadata["outcome"])
	assert.Equal(t, "0", roll.Metadata["player"])
	assert.Len(t, roll.Context.Messages, 2)
	assert.Equal(t, 3, roll.Context.Heat)
	require.NotNil(t, roll.Context.State)
	for _, m := range roll.Context.Messages {
		assert.Nil(t, m.Metadata.Snapshot)
	}

	for _, ex := range bundle.Examples {
		assert.LessOrEqual(t, len(ex.Context.Messages), training.ContextSize)
	}
	assert.NotNil(t, res.Log[0].Metadata.Snapshot, "input must not be modified")
}

func TestGenerateStats(t *testing.T) {
	stats := training.Generate(sampleResult()).Stats

	assert.Equal(t, 1.0, stats.SuccessRate)
	assert.Equal(t, []int{3, 5}, stats.HeatProgression)

	var indices, players []int
	var impacts []models.Impact
	for _, dp := range stats.DecisionPoints {
		indices = append(indices, dp.Index)
		players = append(players, dp.Player)
		impacts = append(impacts, dp.Impact)
	}
	assert.Equal(t, []int{2, 3, 7, 8}, indices)
	assert.Equal(t, []int{0, 1, 0, 1}, players)
	assert.Equal(t, []models.Impact{models.ImpactPositive, models.ImpactPositive, models.ImpactNegative, models.ImpactNegative}, impacts)
	assert.Equal(t, stats.DecisionPoints[0].Response, stats.DecisionPoints[1].Response)
}

func TestDecisionPointsShareCollectiveResponse(t *testing.T) {
	hazard := gm(0, models.PhaseHazard, 2, "A gator blocks the ramp.")
	overcome := gm(0, models.PhaseHazardOvercome, 2, "Gary overcomes the Gator Ambush.")
	log := []models.AgentMessage{
		hazard,
		act(0, 0, 2, "I wrestle the gator."),
		overcome,
		act(0, 1, 2, "I hide."),
		gm(0, models.PhaseGMResponse, 2, "Gary's wrestling is a success, but the hiding fails."),
	}

	points := training.DecisionPoints(log)
	require.Len(t, points, 2)
	assert.Equal(t, 0, points[0].Player)
	assert.Equal(t, "I wrestle the gator.", points[0].Action)
	assert.Equal(t, 1, points[1].Player)
	assert.Equal(t, "I hide.", points[1].Action)
	for _, dp := range points {
		assert.Equal(t, log[4].Content, dp.Response)
		assert.Equal(t, models.ImpactNeutral, dp.Impact)
	}

	assert.Empty(t, training.DecisionPoints(log[:4]), "no GM reply yet")
}

func TestGenerateRuleCritiques(t *testing.T) {
	bundle := training.Generate(sampleResult(), training.WithRuleText("Checks: roll a d10.\n\nHeat: a shared danger meter."))

	var areas []string
	for _, ex := range bundle.Examples {
		if ex.Kind != models.ExampleRuleCritique {
			continue
		}
		require.NotNil(t, ex.History)
		areas = append(areas, ex.History.RuleArea)
		if ex.History.RuleArea == training.AreaHeat {
			assert.Equal(t, "Heat: a shared danger meter.", ex.History.PriorRuleText)
			assert.Equal(t, "Critic feedback on heat rules after a success run (all objectives completed) over 2 rounds.", ex.History.Reasoning)
		}
		assert.Len(t, ex.Context.Messages, training.ContextSize-1, "critic entries stay out of the window")
	}
	assert.Equal(t, []string{training.AreaHeat, training.AreaMovement, training.AreaGeneral}, areas)
}

func TestGenerateIsIdempotent(t *testing.T) {
	res := sampleResult()
	a := training.Generate(res)
	b := training.Generate(res)
	assert.Equal(t, a, b)
}

func TestSuccessRate(t *testing.T) {
	assert.Equal(t, 1.0, training.SuccessRate(models.MissionSuccess))
	assert.Equal(t, 0.5, training.SuccessRate(models.MissionPartial))
	assert.Equal(t, 0.0, training.SuccessRate(models.MissionFailure))
	assert.Equal(t, 0.0, training.SuccessRate(models.MissionPending))
}

func TestRuleArea(t *testing.T) {
	tests := map[string]string{
		"Heat climbs too fast.":                     training.AreaHeat,
		"Weirdness never mattered.":                 training.AreaWeirdness,
		"The objective list was unclear.":           training.AreaObjectives,
		"Character stats felt flat.":                training.AreaCharacter,
		"Combat with the gator dragged.":            training.AreaCombat,
		"Travel between regions needs a rule.":      training.AreaMovement,
		"The pacing of the rules was fine overall.": training.AreaGeneral,
	}
	for text, want := range tests {
		assert.Equal(t, want, training.RuleArea(text), text)
	}
}
