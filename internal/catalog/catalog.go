// Package catalog holds the static card content the simulator draws from.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

//go:embed data/*.yaml
var dataFS embed.FS

//go:embed data/rules.md
var RuleSummary string

// DefaultRegionSet is the region table used when a mission type has no entry.
const DefaultRegionSet = "default"

// Catalog is a read-only set of card collections.
type Catalog struct {
	Characters []models.Character
	Gear       []models.GearCard
	Hazards    []models.HazardCard
	Chaos      []models.ChaosCard
	Treasures  []models.TreasureCard
	Missions   []models.Mission
	Regions    map[string][]models.Region
}

// Load reads the embedded catalog.
func Load() (*Catalog, error) {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// MustLoad is Load for callers that ship the embedded catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFS reads a catalog from a directory holding the same YAML files as the embedded one.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{}
	files := []struct {
		name string
		dst  any
	}{
		{"characters.yaml", &c.Characters},
		{"gear.yaml", &c.Gear},
		{"hazards.yaml", &c.Hazards},
		{"chaos.yaml", &c.Chaos},
		{"treasures.yaml", &c.Treasures},
		{"missions.yaml", &c.Missions},
		{"regions.yaml", &c.Regions},
	}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := yaml.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
	}
	return c, nil
}

// Character looks up a character by id.
func (c *Catalog) Character(id string) (models.Character, bool) {
	for _, ch := range c.Characters {
		if ch.ID == id {
			return ch, true
		}
	}
	return models.Character{}, false
}

// Mission looks up a mission by id.
func (c *Catalog) Mission(id string) (models.Mission, bool) {
	for _, m := range c.Missions {
		if m.ID == id {
			return m, true
		}
	}
	return models.Mission{}, false
}

// MissionOfType returns the first mission of the given type.
func (c *Catalog) MissionOfType(missionType string) (models.Mission, bool) {
	for _, m := range c.Missions {
		if m.Type == missionType {
			return m, true
		}
	}
	return models.Mission{}, false
}

// RegionsFor returns the region table for a mission type, falling back to the default table.
func (c *Catalog) RegionsFor(missionType string) []models.Region {
	if regions, ok := c.Regions[missionType]; ok && len(regions) > 0 {
		return regions
	}
	return c.Regions[DefaultRegionSet]
}

// GearName resolves a gear id to its display name, returning the id when unknown.
func (c *Catalog) GearName(id string) string {
	for _, g := range c.Gear {
		if g.ID == id {
			return g.Name
		}
	}
	return id
}

// ItemName resolves a gear or treasure id to its display name, returning
// the id when unknown.
func (c *Catalog) ItemName(id string) string {
	if c.HasGear(id) {
		return c.GearName(id)
	}
	for _, t := range c.Treasures {
		if t.ID == id {
			return t.Name
		}
	}
	return id
}

// HasGear reports whether id names a gear card.
func (c *Catalog) HasGear(id string) bool {
	for _, g := range c.Gear {
		if g.ID == id {
			return true
		}
	}
	return false
}

// DefaultObjectives is used when no mission is selected.
func DefaultObjectives() []models.Objective {
	return []models.Objective{
		{
			ID:          "survive",
			Name:        "Survive the Night",
			Description: "Keep the whole group alive and human until dawn.",
			Required:    true,
			Keywords:    []string{"survive", "dawn", "sunrise"},
		},
		{
			ID:          "find-artifact",
			Name:        "Find the Artifact",
			Description: "Recover the strange object everyone is after.",
			Required:    true,
			Keywords:    []string{"artifact", "relic"},
		},
		{
			ID:          "reach-extraction",
			Name:        "Reach Extraction",
			Description: "Get to the extraction point before the Heat boils over.",
			Required:    true,
			Keywords:    []string{"extraction", "escape", "evac"},
		},
	}
}
