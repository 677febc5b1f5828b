package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

func TestDetectStatCheck(t *testing.T) {
	tests := []struct {
		text string
		want models.Stat
		ok   bool
	}{
		{"I roll for Charm to talk the ranger down.", models.StatCharm, true},
		{"Rolling for my strength, I heave the door.", models.StatBrawn, true},
		{"I roll agility and dive sideways.", models.StatMoxie, true},
		{"Time for a Grit check.", models.StatGrit, true},
		{"Checking with my perception, I scan the treeline.", models.StatWeirdSense, true},
		{"I make a weird sense check.", models.StatWeirdSense, true},
		{"Can I test my persuasion skill on him?", models.StatCharm, true},
		{"I roll the dice and hope, then make a dexterity roll.", models.StatMoxie, true},
		{"I roll for willpower.", models.StatGrit, true},
		{"I roll the dice.", "", false},
		{"I walk to the car.", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectStatCheck(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got.Stat, tt.text)
	}
}

func TestDetectItemUse(t *testing.T) {
	names := map[string]string{"flare-gun": "Flare Gun", "duct-tape": "Duct Tape"}
	name := func(id string) string { return names[id] }
	gear := []string{"flare-gun", "duct-tape"}

	item, ok := DetectItemUse("I pull out my duct tape and patch the hull.", gear, name)
	assert.True(t, ok)
	assert.Equal(t, "duct-tape", item)

	item, ok = DetectItemUse("Using the flare gun, I signal the chopper.", gear, name)
	assert.True(t, ok)
	assert.Equal(t, "flare-gun", item)

	_, ok = DetectItemUse("I stare at my flare gun.", gear, name)
	assert.False(t, ok)

	_, ok = DetectItemUse("I use my machete.", gear, name)
	assert.False(t, ok)

	names["conquistador-coin"] = "Conquistador Coin"
	item, ok = DetectItemUse("I use the Conquistador Coin to bribe the ranger.", append(gear, "conquistador-coin"), name)
	assert.True(t, ok)
	assert.Equal(t, "conquistador-coin", item)
}

func TestDetectObjectives(t *testing.T) {
	objectives := []models.Objective{
		{ID: "artifact", Name: "Find the Artifact", Keywords: []string{"artifact", "relic"}},
		{ID: "extract", Name: "Reach Extraction", Keywords: []string{"extraction"}},
		{ID: "done", Name: "Already Done", Keywords: []string{"cooler"}},
	}
	completed := func(id string) bool { return id == "done" }

	got := DetectObjectives("Dolores recovered the relic from the mud! The extraction point is still miles away. They emptied the cooler and were done.", objectives, completed)
	if assert.Len(t, got, 1) {
		assert.Equal(t, "artifact", got[0].ID)
	}

	assert.Empty(t, DetectObjectives("The relic glows in the distance.", objectives, completed))
}

func TestEvaluateOrder(t *testing.T) {
	base := func() *models.GameState {
		return &models.GameState{
			MaxHeat:         10,
			RoundsCompleted: 1,
			Objectives:      []models.Objective{{ID: "a", Required: true}, {ID: "b"}},
			Inventories:     []models.Inventory{{Weirdness: 2}, {Weirdness: 3}},
		}
	}

	assert.False(t, Evaluate(base()).Over)

	s := base()
	s.Heat = 10
	s.CompletedObjectives = []string{"a"}
	s.Inventories = []models.Inventory{{Weirdness: 10}}
	assert.Equal(t, Verdict{Over: true, Outcome: models.MissionFailure, Reason: ReasonHeatMaximum}, Evaluate(s))

	s = base()
	s.Inventories = []models.Inventory{{Weirdness: 10}, {Weirdness: 12}}
	s.CompletedObjectives = []string{"a"}
	assert.Equal(t, Verdict{Over: true, Outcome: models.MissionFailure, Reason: ReasonAllTransformed}, Evaluate(s))

	s = base()
	s.Inventories = []models.Inventory{{Weirdness: 10}, {Weirdness: 9}}
	assert.False(t, Evaluate(s).Over)

	s = base()
	s.CompletedObjectives = []string{"a"}
	assert.Equal(t, Verdict{Over: true, Outcome: models.MissionSuccess, Reason: ReasonObjectivesDone}, Evaluate(s))

	s.RoundsCompleted = 0
	assert.False(t, Evaluate(s).Over, "objectives need a completed round")
}

func TestChaosDue(t *testing.T) {
	assert.True(t, chaosDue(0, 0))
	assert.False(t, chaosDue(1, 0))
	assert.False(t, chaosDue(2, 0))
	assert.True(t, chaosDue(3, 0))
	assert.True(t, chaosDue(2, 7))
	assert.False(t, chaosDue(3, 7))
	assert.True(t, chaosDue(4, 9))
}

func TestApplyDuration(t *testing.T) {
	effects := []models.OngoingEffect{
		{Card: "Curse", Duration: models.DurationPermanent},
		{Card: "Storm", Duration: models.DurationOngoing},
	}

	got := applyDuration(effects, models.ChaosCard{Name: "Outage", Duration: models.DurationOngoing})
	assert.Equal(t, []string{"Curse", "Outage"}, cardNames(got))

	got = applyDuration(effects, models.ChaosCard{Name: "Hex", Duration: models.DurationPermanent})
	assert.Equal(t, []string{"Curse", "Storm", "Hex"}, cardNames(got))

	got = applyDuration(effects, models.ChaosCard{Name: "News", Duration: models.DurationImmediate})
	assert.Equal(t, []string{"Curse", "Storm"}, cardNames(got))
	assert.Len(t, effects, 2)
}

func cardNames(effects []models.OngoingEffect) []string {
	out := make([]string, len(effects))
	for i, e := range effects {
		out[i] = e.Card
	}
	return out
}

func TestHeatIncrement(t *testing.T) {
	assert.Equal(t, 2, heatIncrement(models.SimulationConfig{HeatPerRound: 2}))
	assert.Equal(t, 3, heatIncrement(models.SimulationConfig{HeatPerRound: 2, Modules: models.Modules{Nightmare: true}}))
}

func TestKeyEvents(t *testing.T) {
	p := 0
	chars := []models.Character{{Name: "Gary"}}
	log := []models.AgentMessage{
		{Role: models.RoleGM, Metadata: models.MessageMetadata{Phase: models.PhaseIntroduction}},
		{Role: models.RoleGM, Metadata: models.MessageMetadata{Phase: models.PhaseHazard, Card: "Sinkhole"}},
		{Role: models.RolePlayer, Player: &p, Metadata: models.MessageMetadata{Phase: models.PhasePlayerTurn}},
		{Role: models.RolePlayer, Player: &p, Metadata: models.MessageMetadata{Round: 1, Phase: models.PhasePlayerTurn, Roll: &models.RollResult{Stat: models.StatGrit, Raw: 6, Modifier: 2, Total: 8, Outcome: models.OutcomeSuccess}}},
		{Role: models.RoleGM, Metadata: models.MessageMetadata{Round: 1, Phase: models.PhaseGameOver, Reason: ReasonHeatMaximum}},
	}

	events := KeyEvents(log, chars)
	if assert.Len(t, events, 3) {
		assert.Equal(t, "Hazard: Sinkhole", events[0].Summary)
		assert.Equal(t, "Player 1 (Gary) rolled grit: 6+2=8, success", events[1].Summary)
		assert.Equal(t, 1, events[1].Round)
		assert.Equal(t, "Game over: heat-maximum", events[2].Summary)
	}
}

func TestStatForToken(t *testing.T) {
	stat, ok := StatForToken("Weird-Sense")
	assert.True(t, ok)
	assert.Equal(t, models.StatWeirdSense, stat)

	_, ok = StatForToken("luck")
	assert.False(t, ok)
}
