package store

import (
	"context"
	"sync"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// Memory keeps results in process memory.
type Memory struct {
	mu      sync.RWMutex
	results map[string]models.SimulationResult
}

func NewMemory() *Memory {
	return &Memory{results: make(map[string]models.SimulationResult)}
}

func (m *Memory) Save(_ context.Context, res *models.SimulationResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[res.ID] = *res
	return nil
}

func (m *Memory) List(_ context.Context) ([]*models.SimulationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.SimulationResult, 0, len(m.results))
	for _, res := range m.results {
		out = append(out, &res)
	}
	newestFirst(out)
	return out, nil
}

func (m *Memory) Get(_ context.Context, id string) (*models.SimulationResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	res, ok := m.results[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &res, nil
}

func (m *Memory) UpdateAnnotations(_ context.Context, id, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.results[id]
	if !ok {
		return ErrNotFound
	}
	res.Annotations = text
	m.results[id] = res
	return nil
}

func (m *Memory) Close() error { return nil }
