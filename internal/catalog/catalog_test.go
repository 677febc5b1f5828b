package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, c.Characters)
	assert.NotEmpty(t, c.Hazards)
	assert.NotEmpty(t, c.Chaos)
	assert.NotEmpty(t, c.Treasures)
	assert.NotEmpty(t, c.Missions)
	assert.NotEmpty(t, c.RegionsFor(DefaultRegionSet))
	assert.Contains(t, RuleSummary, "Heat")
}

func TestStarterGearExistsInCatalog(t *testing.T) {
	c := MustLoad()
	known := map[string]bool{}
	for _, g := range c.Gear {
		known[g.ID] = true
	}
	for _, ch := range c.Characters {
		for _, id := range ch.StarterGear {
			assert.True(t, known[id], "%s starts with unknown gear %s", ch.ID, id)
		}
	}
}

func TestMissionRegionsResolve(t *testing.T) {
	c := MustLoad()
	for _, m := range c.Missions {
		regions := c.RegionsFor(m.Type)
		require.NotEmpty(t, regions, m.ID)
		ids := map[string]bool{}
		for _, r := range regions {
			ids[r.ID] = true
		}
		assert.True(t, ids[m.StartRegion], "%s start region %s", m.ID, m.StartRegion)
		assert.True(t, ids[m.Extraction], "%s extraction %s", m.ID, m.Extraction)
	}
}

func TestLookups(t *testing.T) {
	c := MustLoad()

	ch, ok := c.Character("tourist")
	assert.True(t, ok)
	assert.Equal(t, 3, ch.Stats.Charm)

	_, ok = c.Character("nobody")
	assert.False(t, ok)

	m, ok := c.MissionOfType("escape")
	assert.True(t, ok)
	assert.Equal(t, "swamp-extraction", m.ID)

	assert.Equal(t, "Duct Tape", c.GearName("duct-tape"))
	assert.Equal(t, "mystery", c.GearName("mystery"))
	assert.Equal(t, "Duct Tape", c.ItemName("duct-tape"))
	assert.Equal(t, "Conquistador Coin", c.ItemName("conquistador-coin"))
	assert.Equal(t, "mystery", c.ItemName("mystery"))
	assert.Equal(t, c.Regions[DefaultRegionSet], c.RegionsFor("unknown-type"))
}

func TestLoadFS_MissingFile(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{})
	assert.Error(t, err)
}

func TestDefaultObjectivesAreRequired(t *testing.T) {
	objs := DefaultObjectives()
	assert.Len(t, objs, 3)
	for _, o := range objs {
		assert.True(t, o.Required)
	}
}
