package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/store"
)

func result(id string, at time.Time) *models.SimulationResult {
	p := 0
	return &models.SimulationResult{
		ID:        id,
		Timestamp: at,
		Config:    models.SimulationConfig{Scenario: "Gator Gate", Rounds: 2, Players: 1},
		FinalState: models.GameState{
			Heat:       4,
			MaxHeat:    10,
			Characters: []models.Character{{ID: "tourist", Name: "Gary"}},
		},
		Log: []models.AgentMessage{
			{Role: models.RoleGM, Content: "Welcome.", Timestamp: at, Metadata: models.MessageMetadata{Phase: models.PhaseIntroduction}},
			{Role: models.RolePlayer, Player: &p, Content: "I roll for Charm.", Timestamp: at, Metadata: models.MessageMetadata{
				Phase: models.PhasePlayerTurn,
				Roll:  &models.RollResult{Stat: models.StatCharm, Raw: 5, Modifier: 3, Total: 8, Outcome: models.OutcomeSuccess},
			}},
		},
		Outcome: models.MissionPending,
	}
}

func backends(t *testing.T) map[string]store.Store {
	t.Helper()
	y, err := store.NewYAML(t.TempDir())
	require.NoError(t, err)
	s, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return map[string]store.Store{
		"memory": store.NewMemory(),
		"yaml":   y,
		"sqlite": s,
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			require.NoError(t, s.Save(ctx, result("old", base)))
			require.NoError(t, s.Save(ctx, result("new", base.Add(time.Hour))))

			got, err := s.Get(ctx, "old")
			require.NoError(t, err)
			assert.Equal(t, "Gator Gate", got.Config.Scenario)
			require.Len(t, got.Log, 2)
			require.NotNil(t, got.Log[1].Player)
			assert.Equal(t, 0, *got.Log[1].Player)
			assert.Equal(t, 8, got.Log[1].Metadata.Roll.Total)
			assert.True(t, base.Equal(got.Timestamp))

			list, err = s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "new", list[0].ID)
			assert.Equal(t, "old", list[1].ID)

			require.NoError(t, s.UpdateAnnotations(ctx, "old", "heat felt slow"))
			got, err = s.Get(ctx, "old")
			require.NoError(t, err)
			assert.Equal(t, "heat felt slow", got.Annotations)
			assert.Len(t, got.Log, 2)

			_, err = s.Get(ctx, "missing")
			assert.ErrorIs(t, err, store.ErrNotFound)
			assert.ErrorIs(t, s.UpdateAnnotations(ctx, "missing", "x"), store.ErrNotFound)

			again := result("old", base)
			again.Outcome = models.MissionSuccess
			require.NoError(t, s.Save(ctx, again))
			got, err = s.Get(ctx, "old")
			require.NoError(t, err)
			assert.Equal(t, models.MissionSuccess, got.Outcome)
			list, err = s.List(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 2)
		})
	}
}

func TestMemoryDoesNotAlias(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	res := result("a", time.Now())
	require.NoError(t, s.Save(ctx, res))

	res.Annotations = "changed after save"
	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, got.Annotations)
}

func TestYAMLLayout(t *testing.T) {
	dir := t.TempDir()
	s, err := store.NewYAML(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), result("run-1", time.Now())))

	assert.FileExists(t, filepath.Join(dir, "run-1", "result.yaml"))
	assert.FileExists(t, filepath.Join(dir, "run-1", "log.yaml"))

	// directories without a result.yaml are skipped
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "partial"), 0755))
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.Error(t, s.Save(context.Background(), result("../escape", time.Now())))
	_, err = s.Get(context.Background(), "../escape")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOpen(t *testing.T) {
	s, err := store.Open(store.DriverMemory, "")
	require.NoError(t, err)
	assert.IsType(t, &store.Memory{}, s)

	s, err = store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "db", "runs.db"))
	require.NoError(t, err)
	assert.IsType(t, &store.SQLite{}, s)
	require.NoError(t, s.Close())

	_, err = store.Open("postgres", "")
	assert.ErrorIs(t, err, store.ErrUnknownDriver)
}
