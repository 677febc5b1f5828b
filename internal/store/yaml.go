package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// DefaultDir is where the YAML store keeps results when no directory is given.
const DefaultDir = ".playtests"

const (
	resultFile = "result.yaml"
	logFile    = "log.yaml"
)

// YAML stores each result in its own directory: result.yaml holds
// everything but the transcript, which goes to log.yaml.
type YAML struct {
	dir string
	mu  sync.Mutex
}

func NewYAML(dir string) (*YAML, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &YAML{dir: dir}, nil
}

func (y *YAML) Save(_ context.Context, res *models.SimulationResult) error {
	if err := validID(res.ID); err != nil {
		return err
	}
	y.mu.Lock()
	defer y.mu.Unlock()

	dir := filepath.Join(y.dir, res.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	if err := writeYAML(filepath.Join(dir, logFile), res.Log); err != nil {
		return err
	}
	head := *res
	head.Log = nil
	return writeYAML(filepath.Join(dir, resultFile), &head)
}

func (y *YAML) List(ctx context.Context) ([]*models.SimulationResult, error) {
	entries, err := os.ReadDir(y.dir)
	if os.IsNotExist(err) {
		return []*models.SimulationResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	results := []*models.SimulationResult{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		// result.yaml marks a complete entry
		if _, err := os.Stat(filepath.Join(y.dir, entry.Name(), resultFile)); err != nil {
			continue
		}
		res, err := y.Get(ctx, entry.Name())
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	newestFirst(results)
	return results, nil
}

func (y *YAML) Get(_ context.Context, id string) (*models.SimulationResult, error) {
	if err := validID(id); err != nil {
		return nil, ErrNotFound
	}
	y.mu.Lock()
	defer y.mu.Unlock()
	return y.load(id)
}

func (y *YAML) UpdateAnnotations(_ context.Context, id, text string) error {
	if err := validID(id); err != nil {
		return ErrNotFound
	}
	y.mu.Lock()
	defer y.mu.Unlock()

	path := filepath.Join(y.dir, id, resultFile)
	var head models.SimulationResult
	if err := readYAML(path, &head); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	head.Annotations = text
	return writeYAML(path, &head)
}

func (y *YAML) Close() error { return nil }

func (y *YAML) load(id string) (*models.SimulationResult, error) {
	dir := filepath.Join(y.dir, id)
	var res models.SimulationResult
	if err := readYAML(filepath.Join(dir, resultFile), &res); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := readYAML(filepath.Join(dir, logFile), &res.Log); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return &res, nil
}

// validID rejects ids that would escape the store directory.
func validID(id string) error {
	if id == "" || id == "." || id == ".." || filepath.Base(id) != id {
		return fmt.Errorf("invalid result id %q", id)
	}
	return nil
}

func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return nil
}
