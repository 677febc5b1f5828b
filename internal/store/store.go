// Package store persists simulation results.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

var (
	// ErrNotFound is returned for an unknown result id.
	ErrNotFound = errors.New("simulation result not found")
	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("unknown store driver")
)

// Drivers accepted by Open.
const (
	DriverMemory = "memory"
	DriverYAML   = "yaml"
	DriverSQLite = "sqlite"
)

// Store saves and retrieves simulation results. Implementations are safe
// for concurrent use.
type Store interface {
	Save(ctx context.Context, res *models.SimulationResult) error
	// List returns every stored result, newest first.
	List(ctx context.Context) ([]*models.SimulationResult, error)
	Get(ctx context.Context, id string) (*models.SimulationResult, error)
	UpdateAnnotations(ctx context.Context, id, text string) error
	Close() error
}

// Open returns the store for driver. location is a directory for yaml and
// a database path for sqlite; memory ignores it.
func Open(driver, location string) (Store, error) {
	switch driver {
	case DriverMemory, "":
		return NewMemory(), nil
	case DriverYAML:
		return NewYAML(location)
	case DriverSQLite:
		return NewSQLite(location)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// newestFirst orders results by timestamp, newest first, then by id.
func newestFirst(results []*models.SimulationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID < b.ID
	})
}
