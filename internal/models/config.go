package models

import (
	"errors"
	"fmt"
)

// Simulation defaults applied to zero-valued fields.
const (
	DefaultRounds         = 5
	DefaultPlayers        = 2
	DefaultMaxHeat        = 10
	DefaultTreasureChance = 1.0 / 3
	DefaultVoice          = "classic"

	// MaxWeirdness is the per-player ceiling at which a survivor is lost to the weird.
	MaxWeirdness = 10
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid simulation config")

// WithDefaults fills zero-valued fields. Players is only defaulted when no
// explicit character list is given.
func (c SimulationConfig) WithDefaults() SimulationConfig {
	if c.Rounds == 0 {
		c.Rounds = DefaultRounds
	}
	if c.Players == 0 && len(c.Characters) == 0 {
		c.Players = DefaultPlayers
	}
	if c.MaxHeat == 0 {
		c.MaxHeat = DefaultMaxHeat
	}
	if c.TreasureChance <= 0 {
		c.TreasureChance = DefaultTreasureChance
	}
	if c.Verbosity == "" {
		c.Verbosity = VerbosityNormal
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	return c
}

// Validate rejects configurations no run can be built from.
func (c SimulationConfig) Validate() error {
	switch {
	case c.Rounds < 0:
		return fmt.Errorf("%w: rounds must not be negative", ErrInvalidConfig)
	case c.Players < 0:
		return fmt.Errorf("%w: players must not be negative", ErrInvalidConfig)
	case c.StartingHeat < 0:
		return fmt.Errorf("%w: starting heat must not be negative", ErrInvalidConfig)
	case c.HeatPerRound < 0:
		return fmt.Errorf("%w: heat per round must not be negative", ErrInvalidConfig)
	case c.MaxHeat < 0:
		return fmt.Errorf("%w: max heat must not be negative", ErrInvalidConfig)
	case c.TreasureChance > 1:
		return fmt.Errorf("%w: treasure chance must be at most 1", ErrInvalidConfig)
	}
	switch c.Verbosity {
	case "", VerbosityMinimal, VerbosityNormal, VerbosityVerbose:
	default:
		return fmt.Errorf("%w: unknown verbosity %q", ErrInvalidConfig, c.Verbosity)
	}
	return nil
}
