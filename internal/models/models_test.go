package models

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGameStateCloneIsDeep(t *testing.T) {
	state := &GameState{
		Heat:                3,
		CompletedObjectives: []string{"obj-1"},
		Inventories: []Inventory{
			{Gear: []string{"flare-gun"}, Health: 5},
		},
		ActiveHazards: []string{"Gator Ambush"},
	}

	clone := state.Clone()
	clone.Heat = 9
	clone.CompletedObjectives[0] = "changed"
	clone.Inventories[0].Gear[0] = "changed"
	clone.ActiveHazards = append(clone.ActiveHazards, "Sinkhole")

	if state.Heat != 3 {
		t.Errorf("Expected heat 3, got %d", state.Heat)
	}
	if state.CompletedObjectives[0] != "obj-1" {
		t.Errorf("Expected objective obj-1, got %s", state.CompletedObjectives[0])
	}
	if state.Inventories[0].Gear[0] != "flare-gun" {
		t.Errorf("Expected gear flare-gun, got %s", state.Inventories[0].Gear[0])
	}
	if len(state.ActiveHazards) != 1 {
		t.Errorf("Expected 1 active hazard, got %d", len(state.ActiveHazards))
	}
}

func TestStatsGet(t *testing.T) {
	stats := Stats{Brawn: 1, Moxie: 2, Charm: 3, Grit: 4, WeirdSense: 5}
	for i, stat := range AllStats {
		if got := stats.Get(stat); got != i+1 {
			t.Errorf("Get(%s) = %d, want %d", stat, got, i+1)
		}
	}
	if got := stats.Get("luck"); got != 0 {
		t.Errorf("Get(luck) = %d, want 0", got)
	}
}

func TestChaosCardHeatEffectYAML(t *testing.T) {
	data := []byte(`
- id: hurricane
  name: Hurricane Warning
  duration: ongoing
  heat_effect: 2
- id: calm
  name: Eerie Calm
  duration: immediate
`)
	var cards []ChaosCard
	if err := yaml.Unmarshal(data, &cards); err != nil {
		t.Fatalf("Failed to unmarshal cards: %v", err)
	}
	if cards[0].HeatEffect == nil || *cards[0].HeatEffect != 2 {
		t.Errorf("Expected heat effect 2, got %v", cards[0].HeatEffect)
	}
	if cards[1].HeatEffect != nil {
		t.Errorf("Expected no heat effect, got %d", *cards[1].HeatEffect)
	}
}

func TestPlayerIndex(t *testing.T) {
	idx := 2
	if got := (AgentMessage{Player: &idx}).PlayerIndex(); got != 2 {
		t.Errorf("Expected 2, got %d", got)
	}
	if got := (AgentMessage{}).PlayerIndex(); got != -1 {
		t.Errorf("Expected -1, got %d", got)
	}
}
