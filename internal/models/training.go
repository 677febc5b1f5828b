package models

// ExampleKind labels what a training example teaches.
type ExampleKind string

const (
	ExampleGMResponse          ExampleKind = "gm-response"
	ExamplePlayerAction        ExampleKind = "player-action"
	ExampleHazardEncounter     ExampleKind = "hazard-encounter"
	ExampleObjectiveCompletion ExampleKind = "objective-completion"
	ExampleRuleCritique        ExampleKind = "rule-critique"
)

// ContextWindow is what a model would have seen before producing the expected output.
type ContextWindow struct {
	Messages   []AgentMessage `yaml:"messages" json:"messages"`
	State      *GameState     `yaml:"state,omitempty" json:"state,omitempty"`
	Round      int            `yaml:"round" json:"round"`
	Characters []string       `yaml:"characters" json:"characters"`
	Heat       int            `yaml:"heat" json:"heat"`
}

// HistoricalContext is attached to examples derived from critic feedback.
type HistoricalContext struct {
	RuleArea      string `yaml:"rule_area" json:"ruleArea"`
	PriorRuleText string `yaml:"prior_rule_text" json:"priorRuleText"`
	Reasoning     string `yaml:"reasoning" json:"reasoning"`
}

// TrainingExample pairs a context window with the text it should produce.
type TrainingExample struct {
	ID             string             `yaml:"id" json:"id"`
	Kind           ExampleKind        `yaml:"kind" json:"kind"`
	Context        ContextWindow      `yaml:"context" json:"context"`
	ExpectedOutput string             `yaml:"expected_output" json:"expectedOutput"`
	Metadata       map[string]string  `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	History        *HistoricalContext `yaml:"history,omitempty" json:"history,omitempty"`
}

// Impact classifies how a key decision turned out.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// DecisionPoint is a player action whose GM reply marked it as consequential.
type DecisionPoint struct {
	Index    int    `yaml:"index" json:"index"`
	Round    int    `yaml:"round" json:"round"`
	Player   int    `yaml:"player" json:"player"`
	Action   string `yaml:"action" json:"action"`
	Response string `yaml:"response" json:"response"`
	Impact   Impact `yaml:"impact" json:"impact"`
}

// TrainingStats summarises a run for the training bundle.
type TrainingStats struct {
	SuccessRate     float64             `yaml:"success_rate" json:"successRate"`
	HeatProgression []int               `yaml:"heat_progression" json:"heatProgression"`
	DecisionPoints  []DecisionPoint     `yaml:"decision_points" json:"decisionPoints"`
	ExampleCounts   map[ExampleKind]int `yaml:"example_counts" json:"exampleCounts"`
}

// TrainingBundle is everything the training generator derives from one run.
type TrainingBundle struct {
	SimulationID string            `yaml:"simulation_id" json:"simulationId"`
	Examples     []TrainingExample `yaml:"examples" json:"examples"`
	Stats        TrainingStats     `yaml:"stats" json:"stats"`
}
