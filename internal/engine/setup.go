package engine

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/cards"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/catalog"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/dice"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/narration"
)

// Counters a character starts with when its sheet leaves them unset.
const (
	DefaultHealth = 5
	DefaultLuck   = 3
	DefaultStat   = 1
)

// setup builds the initial game state for cfg.
func (e *Engine) setup(cfg models.SimulationConfig, src dice.Source, logger zerolog.Logger) (*models.GameState, models.Mission, error) {
	chars := e.resolveCharacters(cfg, src, logger)
	if len(chars) == 0 {
		return nil, models.Mission{}, ErrNoPlayers
	}

	mission, ok := e.resolveMission(cfg)
	objectives := catalog.DefaultObjectives()
	if ok && len(mission.Objectives) > 0 {
		objectives = mission.Objectives
	}
	if !ok {
		logger.Debug().Str("mission_id", cfg.MissionID).Str("mission_type", cfg.MissionType).Msg("No mission resolved, using default objectives")
	}

	missionType := cfg.MissionType
	if mission.Type != "" {
		missionType = mission.Type
	}
	regions := e.catalog.RegionsFor(missionType)

	s := &models.GameState{
		MaxHeat:     cfg.MaxHeat,
		Objectives:  append([]models.Objective(nil), objectives...),
		Characters:  chars,
		Inventories: make([]models.Inventory, len(chars)),
		Regions:     append([]models.Region(nil), regions...),
		Voice:       cfg.Voice,
	}
	s.Heat = clamp(cfg.StartingHeat, 0, s.MaxHeat)
	s.Mood = narration.MoodFor(s.Heat)

	for i, ch := range chars {
		s.Inventories[i] = e.startingInventory(ch)
	}

	s.CurrentRegion = mission.StartRegion
	if s.CurrentRegion == "" && len(regions) > 0 {
		s.CurrentRegion = regions[0].ID
	}
	if s.CurrentRegion != "" {
		s.VisitedRegions = []string{s.CurrentRegion}
	}
	switch {
	case cfg.Extraction != "":
		s.Extraction = cfg.Extraction
	case mission.Extraction != "":
		s.Extraction = mission.Extraction
	case len(regions) > 0:
		s.Extraction = regions[len(regions)-1].ID
	}
	return s, mission, nil
}

// resolveCharacters returns the configured characters, or a random sample
// of the catalog when none are configured. Unknown ids become placeholders.
func (e *Engine) resolveCharacters(cfg models.SimulationConfig, src dice.Source, logger zerolog.Logger) []models.Character {
	if len(cfg.Characters) > 0 {
		chars := make([]models.Character, len(cfg.Characters))
		for i, id := range cfg.Characters {
			ch, ok := e.catalog.Character(id)
			if !ok {
				logger.Debug().Str("character", id).Msg("Unknown character, using placeholder")
				ch = placeholder(id, i)
			}
			chars[i] = ch
		}
		return chars
	}
	chars := cards.DrawMany(src, e.catalog.Characters, cfg.Players, true)
	if len(chars) < cfg.Players {
		logger.Debug().Int("requested", cfg.Players).Int("available", len(chars)).Msg("Character catalog smaller than player count")
	}
	return chars
}

func placeholder(id string, index int) models.Character {
	name := fmt.Sprintf("Survivor %d", index+1)
	if id != "" {
		name = titleCase(id)
	}
	return models.Character{
		ID:          id,
		Name:        name,
		Role:        "Survivor",
		Description: "An ordinary Floridian in the wrong place at the wrong time.",
		Stats: models.Stats{
			Brawn:      DefaultStat,
			Moxie:      DefaultStat,
			Charm:      DefaultStat,
			Grit:       DefaultStat,
			WeirdSense: DefaultStat,
		},
		Health: DefaultHealth,
		Luck:   DefaultLuck,
	}
}

// titleCase turns "swamp-guide" into "Swamp Guide".
func titleCase(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// startingInventory seeds an inventory from the character sheet. Gear ids
// missing from the catalog are dropped.
func (e *Engine) startingInventory(ch models.Character) models.Inventory {
	inv := models.Inventory{
		Health:    ch.Health,
		Weirdness: ch.Weirdness,
		Luck:      ch.Luck,
	}
	if inv.Health <= 0 {
		inv.Health = DefaultHealth
	}
	if inv.Luck <= 0 {
		inv.Luck = DefaultLuck
	}
	if inv.Weirdness < 0 {
		inv.Weirdness = 0
	}
	for _, id := range ch.StarterGear {
		if e.catalog.HasGear(id) {
			inv.Gear = append(inv.Gear, id)
		}
	}
	return inv
}

func (e *Engine) resolveMission(cfg models.SimulationConfig) (models.Mission, bool) {
	if cfg.MissionID != "" {
		if m, ok := e.catalog.Mission(cfg.MissionID); ok {
			return m, true
		}
	}
	if cfg.MissionType != "" {
		return e.catalog.MissionOfType(cfg.MissionType)
	}
	return models.Mission{}, false
}
