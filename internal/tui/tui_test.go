package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/store"
)

type runnerFunc func(ctx context.Context, cfg models.SimulationConfig, rules string) (*models.SimulationResult, error)

func (f runnerFunc) Run(ctx context.Context, cfg models.SimulationConfig, rules string) (*models.SimulationResult, error) {
	return f(ctx, cfg, rules)
}

func sample(id string) *models.SimulationResult {
	p := 0
	return &models.SimulationResult{
		ID:        id,
		Timestamp: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
		Config:    models.SimulationConfig{Scenario: "Airboat Escape"},
		FinalState: models.GameState{
			Heat:                6,
			MaxHeat:             10,
			Mood:                models.MoodTense,
			RoundsCompleted:     1,
			Objectives:          []models.Objective{{ID: "keys", Name: "Find the Keys"}, {ID: "station", Name: "Reach the Station"}},
			CompletedObjectives: []string{"keys"},
			Characters:          []models.Character{{Name: "Gary"}},
			Inventories:         []models.Inventory{{Health: 4, Weirdness: 2, Luck: 3}},
		},
		Log: []models.AgentMessage{
			{Role: models.RoleGM, Content: "The swamp wakes.", Metadata: models.MessageMetadata{Phase: models.PhaseIntroduction}},
			{Role: models.RolePlayer, Player: &p, Content: "I roll for Charm.", Metadata: models.MessageMetadata{
				Phase:    models.PhasePlayerTurn,
				Roll:     &models.RollResult{Stat: models.StatCharm, Raw: 5, Modifier: 3, Total: 8, Outcome: models.OutcomeSuccess},
				ItemUsed: "selfie-stick",
			}},
			{Role: models.RoleGM, Content: "Heat rises.", Metadata: models.MessageMetadata{Round: 1, Phase: models.PhaseHeatUpdate}},
		},
		Outcome: models.MissionPending,
	}
}

// step applies msg and runs the returned command once, feeding its message back.
func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	if cmd == nil {
		return m
	}
	out := cmd()
	if _, ok := out.(tea.BatchMsg); ok || out == nil {
		return m
	}
	next, _ = m.Update(out)
	return next.(model)
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loaded(t *testing.T, st store.Store, runner Runner) model {
	t.Helper()
	m := NewModel(st, runner, models.SimulationConfig{Rounds: 1}, "")
	m = step(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	out := m.Init()()
	next, _ := m.Update(out)
	return next.(model)
}

func TestBrowseAndAnnotate(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.Save(context.Background(), sample("run-1")))

	m := loaded(t, st, nil)
	require.Equal(t, stateList, m.state)
	assert.Contains(t, m.View(), "Flomanji playtests")

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, stateViewing, m.state)
	require.NotNil(t, m.current)

	log := m.renderLog()
	assert.Contains(t, log, "ROUND 1")
	assert.Contains(t, log, "ROUND 2")
	assert.Contains(t, log, "Player 1 (Gary) | player-turn")
	assert.Contains(t, log, "rolled charm: 5+3=8, success")
	assert.Contains(t, log, "used selfie-stick")

	panel := m.renderState()
	assert.Contains(t, panel, "######.... 6/10")
	assert.Contains(t, panel, "[x] Find the Keys")
	assert.Contains(t, panel, "[ ] Reach the Station")
	assert.Contains(t, panel, "Gary: HP 4  W 2  L 3")

	m = step(t, m, keys("a"))
	require.Equal(t, stateAnnotating, m.state)
	m = step(t, m, keys("too easy"))
	m = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateViewing, m.state)
	assert.Equal(t, "Annotations saved.", m.status)

	got, err := st.Get(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "too easy", got.Annotations)

	m = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateList, m.state)
}

func TestNewRunWithoutRunner(t *testing.T) {
	m := loaded(t, store.NewMemory(), nil)
	m = step(t, m, keys("n"))
	assert.Equal(t, stateList, m.state)
	assert.Contains(t, m.status, "No model configured")
}

func TestNewRunSavesAndOpens(t *testing.T) {
	st := store.NewMemory()
	runner := runnerFunc(func(_ context.Context, cfg models.SimulationConfig, _ string) (*models.SimulationResult, error) {
		assert.Equal(t, 1, cfg.Rounds)
		return sample("fresh"), nil
	})

	m := loaded(t, st, runner)
	m = step(t, m, keys("n"))
	assert.Equal(t, stateViewing, m.state)
	assert.Equal(t, "fresh", m.current.ID)

	_, err := st.Get(context.Background(), "fresh")
	assert.NoError(t, err)
}

func TestRunFailureShowsError(t *testing.T) {
	runner := runnerFunc(func(context.Context, models.SimulationConfig, string) (*models.SimulationResult, error) {
		return nil, errors.New("quota exceeded")
	})
	m := loaded(t, store.NewMemory(), runner)
	m = step(t, m, keys("n"))
	assert.Equal(t, stateError, m.state)
	assert.Contains(t, m.View(), "quota exceeded")
}

func TestHeatBar(t *testing.T) {
	assert.Equal(t, "......... 0/9", heatBar(0, 9))
	assert.Equal(t, "########## 12/10", heatBar(12, 10))
	assert.Equal(t, "3", heatBar(3, 0))
}
