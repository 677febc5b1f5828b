package models

import "time"

// Stat is one of the five character stats a check can be made against.
type Stat string

const (
	StatBrawn      Stat = "brawn"
	StatMoxie      Stat = "moxie"
	StatCharm      Stat = "charm"
	StatGrit       Stat = "grit"
	StatWeirdSense Stat = "weirdSense"
)

// AllStats lists the stats in sheet order.
var AllStats = []Stat{StatBrawn, StatMoxie, StatCharm, StatGrit, StatWeirdSense}

// Outcome classifies a resolved check.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomePartial Outcome = "partial-success"
	OutcomeFailure Outcome = "failure"
)

// Stats is a character's stat block.
type Stats struct {
	Brawn      int `yaml:"brawn" json:"brawn"`
	Moxie      int `yaml:"moxie" json:"moxie"`
	Charm      int `yaml:"charm" json:"charm"`
	Grit       int `yaml:"grit" json:"grit"`
	WeirdSense int `yaml:"weirdSense" json:"weirdSense"`
}

// Get returns the modifier for a stat, or 0 for an unknown one.
func (s Stats) Get(stat Stat) int {
	switch stat {
	case StatBrawn:
		return s.Brawn
	case StatMoxie:
		return s.Moxie
	case StatCharm:
		return s.Charm
	case StatGrit:
		return s.Grit
	case StatWeirdSense:
		return s.WeirdSense
	}
	return 0
}

// Character is a playable character sheet from the catalog.
type Character struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Role        string   `yaml:"role" json:"role"`
	Description string   `yaml:"description" json:"description"`
	Stats       Stats    `yaml:"stats" json:"stats"`
	StarterGear []string `yaml:"starter_gear" json:"starterGear"`
	Health      int      `yaml:"health" json:"health"`
	Weirdness   int      `yaml:"weirdness" json:"weirdness"`
	Luck        int      `yaml:"luck" json:"luck"`
	Ability     string   `yaml:"ability" json:"ability"`
}

// GearCard is an equipment card.
type GearCard struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Category string `yaml:"category" json:"category"`
	Rules    string `yaml:"rules" json:"rules"`
}

// HazardCard is an encounter that players resolve with a stat check.
type HazardCard struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Type       string `yaml:"type" json:"type"`
	Stat       Stat   `yaml:"stat" json:"stat"`
	Difficulty int    `yaml:"difficulty" json:"difficulty"`
	Rules      string `yaml:"rules" json:"rules"`
	Flavor     string `yaml:"flavor" json:"flavor"`
}

// Duration says how long a chaos card stays in play.
type Duration string

const (
	DurationImmediate Duration = "immediate"
	DurationOngoing   Duration = "ongoing"
	DurationPermanent Duration = "permanent"
)

// ChaosCard is a global event card. HeatEffect is nil when the card leaves heat alone.
type ChaosCard struct {
	ID         string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Duration   Duration `yaml:"duration" json:"duration"`
	HeatEffect *int     `yaml:"heat_effect,omitempty" json:"heatEffect,omitempty"`
	Rules      string   `yaml:"rules" json:"rules"`
	Flavor     string   `yaml:"flavor" json:"flavor"`
}

// TreasureCard is a beneficial item found during play.
type TreasureCard struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Rules  string `yaml:"rules" json:"rules"`
	Flavor string `yaml:"flavor" json:"flavor"`
	Cursed bool   `yaml:"cursed" json:"cursed"`
}

// Objective is one goal of a mission.
type Objective struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Required    bool     `yaml:"required" json:"required"`
	Keywords    []string `yaml:"keywords" json:"keywords"`
}

// Mission bundles objectives, region layout and the extraction target.
type Mission struct {
	ID          string      `yaml:"id" json:"id"`
	Name        string      `yaml:"name" json:"name"`
	Type        string      `yaml:"type" json:"type"`
	Description string      `yaml:"description" json:"description"`
	Objectives  []Objective `yaml:"objectives" json:"objectives"`
	StartRegion string      `yaml:"start_region" json:"startRegion"`
	Extraction  string      `yaml:"extraction" json:"extraction"`
}

// Region is a named location with biome-tagged movement and rest effects.
type Region struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Biome      string `yaml:"biome" json:"biome"`
	MoveEffect string `yaml:"move_effect" json:"moveEffect"`
	RestEffect string `yaml:"rest_effect" json:"restEffect"`
}

// Inventory is one player's holdings and counters.
type Inventory struct {
	Gear      []string `yaml:"gear" json:"gear"`
	Treasures []string `yaml:"treasures" json:"treasures"`
	Health    int      `yaml:"health" json:"health"`
	Weirdness int      `yaml:"weirdness" json:"weirdness"`
	Luck      int      `yaml:"luck" json:"luck"`
}

// OngoingEffect is a chaos card that stays in play after it is drawn.
type OngoingEffect struct {
	Card     string   `yaml:"card" json:"card"`
	Duration Duration `yaml:"duration" json:"duration"`
	Rules    string   `yaml:"rules" json:"rules"`
}

// RollEntry is one line of the roll log.
type RollEntry struct {
	Player  int     `yaml:"player" json:"player"`
	Round   int     `yaml:"round" json:"round"`
	Type    string  `yaml:"type" json:"type"`
	Raw     int     `yaml:"raw" json:"raw"`
	Stat    Stat    `yaml:"stat" json:"stat"`
	Outcome Outcome `yaml:"outcome" json:"outcome"`
}

// RollResult is the structured outcome of a stat check.
type RollResult struct {
	Stat     Stat    `yaml:"stat" json:"stat"`
	Raw      int     `yaml:"raw" json:"raw"`
	Modifier int     `yaml:"modifier" json:"modifier"`
	Total    int     `yaml:"total" json:"total"`
	Outcome  Outcome `yaml:"outcome" json:"outcome"`
}

// Mood is the narrator's current temper.
type Mood string

const (
	MoodCalm    Mood = "calm"
	MoodTense   Mood = "tense"
	MoodFrantic Mood = "frantic"
)

// GameState is the single mutable state of a run.
type GameState struct {
	Round               int             `yaml:"round" json:"round"`
	RoundsCompleted     int             `yaml:"rounds_completed" json:"roundsCompleted"`
	Heat                int             `yaml:"heat" json:"heat"`
	MaxHeat             int             `yaml:"max_heat" json:"maxHeat"`
	Objectives          []Objective     `yaml:"objectives" json:"objectives"`
	CompletedObjectives []string        `yaml:"completed_objectives" json:"completedObjectives"`
	Characters          []Character     `yaml:"characters" json:"characters"`
	Inventories         []Inventory     `yaml:"inventories" json:"inventories"`
	Regions             []Region        `yaml:"regions" json:"regions"`
	CurrentRegion       string          `yaml:"current_region" json:"currentRegion"`
	VisitedRegions      []string        `yaml:"visited_regions" json:"visitedRegions"`
	Extraction          string          `yaml:"extraction" json:"extraction"`
	ActiveHazards       []string        `yaml:"active_hazards" json:"activeHazards"`
	OngoingEffects      []OngoingEffect `yaml:"ongoing_effects" json:"ongoingEffects"`
	DiscoveredTreasures []string        `yaml:"discovered_treasures" json:"discoveredTreasures"`
	Rolls               []RollEntry     `yaml:"rolls" json:"rolls"`
	Focus               int             `yaml:"focus" json:"focus"`
	Voice               string          `yaml:"voice" json:"voice"`
	Mood                Mood            `yaml:"mood" json:"mood"`
}

// PlayerCount is the number of seated players.
func (s *GameState) PlayerCount() int {
	return len(s.Characters)
}

// ObjectiveCompleted reports whether an objective id is in the completed list.
func (s *GameState) ObjectiveCompleted(id string) bool {
	for _, done := range s.CompletedObjectives {
		if done == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so snapshots never alias the live state.
func (s *GameState) Clone() *GameState {
	if s == nil {
		return nil
	}
	c := *s
	c.Objectives = make([]Objective, len(s.Objectives))
	for i, o := range s.Objectives {
		o.Keywords = append([]string(nil), o.Keywords...)
		c.Objectives[i] = o
	}
	c.CompletedObjectives = append([]string(nil), s.CompletedObjectives...)
	c.Characters = make([]Character, len(s.Characters))
	for i, ch := range s.Characters {
		ch.StarterGear = append([]string(nil), ch.StarterGear...)
		c.Characters[i] = ch
	}
	c.Inventories = make([]Inventory, len(s.Inventories))
	for i, inv := range s.Inventories {
		inv.Gear = append([]string(nil), inv.Gear...)
		inv.Treasures = append([]string(nil), inv.Treasures...)
		c.Inventories[i] = inv
	}
	c.Regions = append([]Region(nil), s.Regions...)
	c.VisitedRegions = append([]string(nil), s.VisitedRegions...)
	c.ActiveHazards = append([]string(nil), s.ActiveHazards...)
	c.OngoingEffects = append([]OngoingEffect(nil), s.OngoingEffects...)
	c.DiscoveredTreasures = append([]string(nil), s.DiscoveredTreasures...)
	c.Rolls = append([]RollEntry(nil), s.Rolls...)
	return &c
}

// Role tags the author of a transcript entry.
type Role string

const (
	RoleGM     Role = "gm"
	RolePlayer Role = "player"
	RoleCritic Role = "critic"
)

// Phase tags where in a run a message was produced.
type Phase string

const (
	PhaseIntroduction      Phase = "introduction"
	PhaseHeatUpdate        Phase = "heat-update"
	PhaseChaos             Phase = "chaos"
	PhaseHazard            Phase = "hazard"
	PhasePlayerTurn        Phase = "player-turn"
	PhaseHazardOvercome    Phase = "hazard-overcome"
	PhaseTreasure          Phase = "treasure"
	PhaseGMResponse        Phase = "gm-response"
	PhaseObjectiveComplete Phase = "objective-complete"
	PhaseRoundSummary      Phase = "round-summary"
	PhaseGameOver          Phase = "game-over"
	PhaseConclusion        Phase = "conclusion"
	PhaseCriticReview      Phase = "critic-review"
)

// MessageMetadata is the bag attached to every transcript entry.
type MessageMetadata struct {
	Round     int         `yaml:"round" json:"round"`
	Phase     Phase       `yaml:"phase" json:"phase"`
	Card      string      `yaml:"card,omitempty" json:"card,omitempty"`
	Roll      *RollResult `yaml:"roll,omitempty" json:"roll,omitempty"`
	ItemUsed  string      `yaml:"item_used,omitempty" json:"itemUsed,omitempty"`
	Objective string      `yaml:"objective,omitempty" json:"objective,omitempty"`
	Reason    string      `yaml:"reason,omitempty" json:"reason,omitempty"`
	Heat      int         `yaml:"heat" json:"heat"`
	Snapshot  *GameState  `yaml:"snapshot,omitempty" json:"snapshot,omitempty"`
}

// AgentMessage is one transcript entry. Entries are never edited once logged.
type AgentMessage struct {
	Role      Role            `yaml:"role" json:"role"`
	Content   string          `yaml:"content" json:"content"`
	Player    *int            `yaml:"player,omitempty" json:"player,omitempty"`
	Timestamp time.Time       `yaml:"timestamp" json:"timestamp"`
	Metadata  MessageMetadata `yaml:"metadata" json:"metadata"`
}

// PlayerIndex returns the author index, or -1 for non-player entries.
func (m AgentMessage) PlayerIndex() int {
	if m.Player == nil {
		return -1
	}
	return *m.Player
}

// Verbosity controls how long narration is asked to be.
type Verbosity string

const (
	VerbosityMinimal Verbosity = "minimal"
	VerbosityNormal  Verbosity = "normal"
	VerbosityVerbose Verbosity = "verbose"
)

// Modules toggles the optional rule modules.
type Modules struct {
	Traitor     bool `yaml:"traitor" json:"traitor"`
	Nightmare   bool `yaml:"nightmare" json:"nightmare"`
	Competitive bool `yaml:"competitive" json:"competitive"`
}

// SimulationConfig is the caller-supplied description of a run.
type SimulationConfig struct {
	Scenario       string    `yaml:"scenario" json:"scenario"`
	Rounds         int       `yaml:"rounds" json:"rounds"`
	Players        int       `yaml:"players" json:"players"`
	Characters     []string  `yaml:"characters,omitempty" json:"characters,omitempty"`
	StartingHeat   int       `yaml:"starting_heat" json:"startingHeat"`
	HeatPerRound   int       `yaml:"heat_per_round" json:"heatPerRound"`
	MaxHeat        int       `yaml:"max_heat" json:"maxHeat"`
	Verbosity      Verbosity `yaml:"verbosity" json:"verbosity"`
	Critic         bool      `yaml:"critic" json:"critic"`
	Modules        Modules   `yaml:"modules" json:"modules"`
	MissionID      string    `yaml:"mission_id,omitempty" json:"missionId,omitempty"`
	MissionType    string    `yaml:"mission_type,omitempty" json:"missionType,omitempty"`
	Extraction     string    `yaml:"extraction,omitempty" json:"extraction,omitempty"`
	Voice          string    `yaml:"voice,omitempty" json:"voice,omitempty"`
	TreasureChance float64   `yaml:"treasure_chance" json:"treasureChance"`
	Seed           int64     `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// MissionOutcome is the terminal verdict of a run.
type MissionOutcome string

const (
	MissionSuccess MissionOutcome = "success"
	MissionFailure MissionOutcome = "failure"
	MissionPartial MissionOutcome = "partial"
	MissionPending MissionOutcome = "pending"
)

// KeyEvent is a notable moment pulled out of the transcript.
type KeyEvent struct {
	Round   int    `yaml:"round" json:"round"`
	Phase   Phase  `yaml:"phase" json:"phase"`
	Player  *int   `yaml:"player,omitempty" json:"player,omitempty"`
	Summary string `yaml:"summary" json:"summary"`
}

// SimulationResult is the artifact a finished run produces.
type SimulationResult struct {
	ID             string           `yaml:"id" json:"id"`
	Timestamp      time.Time        `yaml:"timestamp" json:"timestamp"`
	Config         SimulationConfig `yaml:"config" json:"config"`
	FinalState     GameState        `yaml:"final_state" json:"finalState"`
	Log            []AgentMessage   `yaml:"log" json:"log"`
	CriticFeedback string           `yaml:"critic_feedback,omitempty" json:"criticFeedback,omitempty"`
	Annotations    string           `yaml:"annotations,omitempty" json:"annotations,omitempty"`
	KeyEvents      []KeyEvent       `yaml:"key_events" json:"keyEvents"`
	Outcome        MissionOutcome   `yaml:"outcome" json:"outcome"`
	Reason         string           `yaml:"reason,omitempty" json:"reason,omitempty"`
	Training       *TrainingBundle  `yaml:"training,omitempty" json:"training,omitempty"`
}
