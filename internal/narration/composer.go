// Package narration builds the prompts the simulator sends to the game
// master and player agents, and cleans what comes back.
package narration

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var funcs = template.FuncMap{
	"inc":  func(i int) int { return i + 1 },
	"join": strings.Join,
}

// Composer renders prompt templates.
type Composer struct {
	tmpl   *template.Template
	voices Voices
}

// NewComposer parses the embedded templates. A nil registry selects the built-in voices.
func NewComposer(voices Voices) (*Composer, error) {
	tmpl, err := template.New("prompts").Funcs(funcs).ParseFS(promptFS, "prompts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse prompts: %w", err)
	}
	if voices == nil {
		voices = DefaultVoices()
	}
	return &Composer{tmpl: tmpl, voices: voices}, nil
}

// Voices returns the composer's voice registry.
func (c *Composer) Voices() Voices {
	return c.voices
}

func (c *Composer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := c.tmpl.ExecuteTemplate(&buf, name+".tmpl", data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (c *Composer) voice(s *models.GameState, event Event, card string) string {
	return c.voices.Get(s.Voice).Narrate(event, s.Mood, s.Heat, card)
}

// Length turns verbosity into length guidance for the model.
func Length(v models.Verbosity) string {
	switch v {
	case models.VerbosityMinimal:
		return "one or two sentences"
	case models.VerbosityVerbose:
		return "two or three rich paragraphs"
	default:
		return "one short paragraph"
	}
}

// PersonaInput is everything the GM persona embeds.
type PersonaInput struct {
	RuleText string
	Config   models.SimulationConfig
	State    *models.GameState
	Mission  string
}

// ModuleRules lists the rule clauses of the enabled optional modules.
func ModuleRules(m models.Modules) []string {
	var rules []string
	if m.Traitor {
		rules = append(rules, "Traitor module: one survivor is secretly working against the group. Drop hints, never reveal who.")
	}
	if m.Nightmare {
		rules = append(rules, "Nightmare module: Heat rises one extra point every round and hazards hit harder.")
	}
	if m.Competitive {
		rules = append(rules, "Competitive module: survivors score individually for treasure; only one can be declared the winner.")
	}
	return rules
}

// GMPersona renders the system instruction for the GM agent.
func (c *Composer) GMPersona(in PersonaInput) (string, error) {
	return c.render("gm_persona", struct {
		RuleText     string
		Scenario     string
		Mission      string
		Extraction   string
		Region       string
		Characters   []models.Character
		Objectives   []models.Objective
		Rounds       int
		StartingHeat int
		MaxHeat      int
		HeatPerRound int
		ModuleRules  []string
	}{
		RuleText:     in.RuleText,
		Scenario:     in.Config.Scenario,
		Mission:      in.Mission,
		Extraction:   regionName(in.State, in.State.Extraction),
		Region:       regionName(in.State, in.State.CurrentRegion),
		Characters:   in.State.Characters,
		Objectives:   in.State.Objectives,
		Rounds:       in.Config.Rounds,
		StartingHeat: in.Config.StartingHeat,
		MaxHeat:      in.State.MaxHeat,
		HeatPerRound: in.Config.HeatPerRound,
		ModuleRules:  ModuleRules(in.Config.Modules),
	})
}

// PlayerPersona renders the system instruction for one player agent.
func (c *Composer) PlayerPersona(ruleText string, cfg models.SimulationConfig, ch models.Character, index int) (string, error) {
	return c.render("player_persona", struct {
		RuleText    string
		Scenario    string
		Character   models.Character
		Number      int
		Competitive bool
		Length      string
	}{
		RuleText:    ruleText,
		Scenario:    cfg.Scenario,
		Character:   ch,
		Number:      index + 1,
		Competitive: cfg.Modules.Competitive,
		Length:      Length(cfg.Verbosity),
	})
}

// Introduction asks the GM to open the session.
func (c *Composer) Introduction(s *models.GameState, v models.Verbosity) (string, error) {
	return c.render("introduction", struct {
		Voice   string
		Region  string
		Heat    int
		MaxHeat int
		Length  string
	}{c.voice(s, EventIntroduction, ""), regionName(s, s.CurrentRegion), s.Heat, s.MaxHeat, Length(v)})
}

// Hazard asks the GM to announce a hazard card.
func (c *Composer) Hazard(s *models.GameState, card models.HazardCard, v models.Verbosity) (string, error) {
	return c.render("hazard", struct {
		Voice   string
		Card    models.HazardCard
		Region  string
		Heat    int
		MaxHeat int
		Length  string
	}{c.voice(s, EventHazard, card.Name), card, regionName(s, s.CurrentRegion), s.Heat, s.MaxHeat, Length(v)})
}

// Chaos asks the GM to announce a chaos card. heatChange is the applied change.
func (c *Composer) Chaos(s *models.GameState, card models.ChaosCard, heatChange int, v models.Verbosity) (string, error) {
	return c.render("chaos", struct {
		Voice      string
		Card       models.ChaosCard
		HeatChange int
		Heat       int
		MaxHeat    int
		Length     string
	}{c.voice(s, EventChaos, card.Name), card, heatChange, s.Heat, s.MaxHeat, Length(v)})
}

// Treasure asks the GM to describe a treasure find.
func (c *Composer) Treasure(s *models.GameState, card models.TreasureCard, player int, v models.Verbosity) (string, error) {
	return c.render("treasure", struct {
		Voice  string
		Card   models.TreasureCard
		Player string
		Length string
	}{c.voice(s, EventTreasure, card.Name), card, characterName(s, player), Length(v)})
}

// PlayerTurn discloses a player's state and asks for an action.
// itemNames maps gear and treasure ids to display names.
func (c *Composer) PlayerTurn(s *models.GameState, player int, itemNames func(string) string) (string, error) {
	inv := s.Inventories[player]
	gear := make([]string, len(inv.Gear))
	for i, id := range inv.Gear {
		gear[i] = itemNames(id)
	}
	treasures := make([]string, len(inv.Treasures))
	for i, id := range inv.Treasures {
		treasures[i] = itemNames(id)
	}
	effects := make([]string, len(s.OngoingEffects))
	for i, e := range s.OngoingEffects {
		effects[i] = e.Card
	}
	return c.render("player_turn", struct {
		Round     int
		Character models.Character
		Inventory models.Inventory
		Gear      []string
		Treasures []string
		Heat      int
		MaxHeat   int
		Hazards   []string
		Effects   []string
	}{s.Round + 1, s.Characters[player], inv, gear, treasures, s.Heat, s.MaxHeat, s.ActiveHazards, effects})
}

// GMResponse asks the GM to narrate the collective outcome of a round's actions.
func (c *Composer) GMResponse(s *models.GameState, v models.Verbosity) (string, error) {
	return c.render("gm_response", struct {
		Voice   string
		Heat    int
		MaxHeat int
		Hazards []string
		Open    []string
		Length  string
	}{c.voice(s, EventResolution, ""), s.Heat, s.MaxHeat, s.ActiveHazards, openObjectives(s), Length(v)})
}

// RoundSummary asks the GM for a recap of the round.
func (c *Composer) RoundSummary(s *models.GameState) (string, error) {
	return c.render("round_summary", struct {
		Voice     string
		Round     int
		Heat      int
		MaxHeat   int
		Hazards   []string
		Completed int
		Total     int
	}{c.voice(s, EventSummary, ""), s.Round + 1, s.Heat, s.MaxHeat, s.ActiveHazards, len(s.CompletedObjectives), len(s.Objectives)})
}

// Conclusion asks the GM to close the session.
func (c *Composer) Conclusion(s *models.GameState, outcome models.MissionOutcome, reason string, v models.Verbosity) (string, error) {
	survivors := make([]string, len(s.Characters))
	for i, ch := range s.Characters {
		inv := s.Inventories[i]
		survivors[i] = fmt.Sprintf("%s: health %d, weirdness %d", ch.Name, inv.Health, inv.Weirdness)
	}
	return c.render("conclusion", struct {
		Voice     string
		Outcome   models.MissionOutcome
		Reason    string
		Heat      int
		MaxHeat   int
		Completed int
		Total     int
		Survivors []string
		Length    string
	}{c.voice(s, EventConclusion, ""), outcome, reason, s.Heat, s.MaxHeat, len(s.CompletedObjectives), len(s.Objectives), survivors, Length(v)})
}

// CriticInput is the metadata block handed to the critic.
type CriticInput struct {
	Scenario        string
	Players         int
	HeatProgression []int
	Completed       int
	Outcome         models.MissionOutcome
	Transcript      string
}

// CriticReview renders the single critic request.
func (c *Composer) CriticReview(in CriticInput) (string, error) {
	return c.render("critic", in)
}

func regionName(s *models.GameState, id string) string {
	for _, r := range s.Regions {
		if r.ID == id {
			return r.Name
		}
	}
	if id == "" {
		return "the edge of the map"
	}
	return id
}

func characterName(s *models.GameState, player int) string {
	if player >= 0 && player < len(s.Characters) {
		return s.Characters[player].Name
	}
	return fmt.Sprintf("Player %d", player+1)
}

func openObjectives(s *models.GameState) []string {
	var open []string
	for _, o := range s.Objectives {
		if !s.ObjectiveCompleted(o.ID) {
			open = append(open, o.Name)
		}
	}
	return open
}
