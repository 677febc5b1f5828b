package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/store"
)

// Mock store.Store
type Store struct {
	mock.Mock
}

var _ store.Store = (*Store)(nil)

func (m *Store) Save(ctx context.Context, res *models.SimulationResult) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *Store) List(ctx context.Context) ([]*models.SimulationResult, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*models.SimulationResult)
	return list, args.Error(1)
}
func (m *Store) Get(ctx context.Context, id string) (*models.SimulationResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*models.SimulationResult)
	return res, args.Error(1)
}
func (m *Store) UpdateAnnotations(ctx context.Context, id, text string) error {
	args := m.Called(ctx, id, text)
	return args.Error(0)
}
func (m *Store) Close() error {
	args := m.Called()
	return args.Error(0)
}
