// Package training turns finished simulation transcripts into labelled
// examples for fine-tuning narrator and player models.
package training

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// ContextSize is the number of prior messages in each example's window.
const ContextSize = 6

// Rule areas a critique can be filed under.
const (
	AreaHeat       = "heat"
	AreaWeirdness  = "weirdness"
	AreaObjectives = "objectives"
	AreaCharacter  = "character"
	AreaCombat     = "combat"
	AreaMovement   = "movement"
	AreaGeneral    = "general"
)

var (
	// A GM reply containing one of these marks the preceding player action as a decision.
	decisionWords = []string{"succeed", "success", "fail", "consequence", "as a result", "because of", "suddenly", "critical", "costs", "saves"}
	positiveWords = []string{"succeed", "success", "saves", "safe", "escape", "victory", "triumph", "clever", "relief", "manage"}
	negativeWords = []string{"fail", "injur", "hurt", "damage", "lost", "worse", "costs", "panic", "collapse", "weird"}

	hazardWords    = regexp.MustCompile(`(?i)\b(?:hazard|ambush|attack(?:s|ed)?|threat)\b`)
	objectiveWords = regexp.MustCompile(`(?i)\b(?:objective|mission goal)s?\b.*\b(?:complete[ds]?|achieved|accomplished)\b`)
	critiqueWords  = regexp.MustCompile(`(?i)\b(?:rules?|mechanics?|gameplay)\b`)
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// ruleAreas are checked in order; the first area with a keyword present wins.
var ruleAreas = []struct {
	area     string
	keywords []string
}{
	{AreaHeat, []string{"heat", "danger level"}},
	{AreaWeirdness, []string{"weirdness", "weird sense", "transform"}},
	{AreaObjectives, []string{"objective", "mission", "extraction"}},
	{AreaCharacter, []string{"character", "stat", "ability", "survivor"}},
	{AreaCombat, []string{"combat", "fight", "damage", "attack", "hazard"}},
	{AreaMovement, []string{"movement", "region", "travel", "move"}},
}

// narrated are the GM phases produced by the model rather than by the engine.
var narrated = map[models.Phase]bool{
	models.PhaseIntroduction: true,
	models.PhaseChaos:        true,
	models.PhaseHazard:       true,
	models.PhaseTreasure:     true,
	models.PhaseGMResponse:   true,
	models.PhaseRoundSummary: true,
	models.PhaseConclusion:   true,
}

// Option customises Generate.
type Option func(*generator)

// WithRuleText supplies the rule text the run was played under, so rule
// critiques can carry the passage they refer to.
func WithRuleText(text string) Option {
	return func(g *generator) { g.rules = text }
}

type generator struct {
	res    *models.SimulationResult
	rules  string
	names  []string
	counts map[models.ExampleKind]int
}

// Generate derives a training bundle from res. It is a pure function of its
// inputs: res is not modified and repeated calls return equal bundles.
func Generate(res *models.SimulationResult, opts ...Option) *models.TrainingBundle {
	g := &generator{res: res, counts: make(map[models.ExampleKind]int)}
	for _, opt := range opts {
		opt(g)
	}
	for _, ch := range res.FinalState.Characters {
		g.names = append(g.names, ch.Name)
	}

	bundle := &models.TrainingBundle{SimulationID: res.ID}
	for i, m := range res.Log {
		bundle.Examples = append(bundle.Examples, g.fromMessage(i, m)...)
	}
	bundle.Examples = append(bundle.Examples, g.critiques()...)

	bundle.Stats = models.TrainingStats{
		SuccessRate:     SuccessRate(res.Outcome),
		HeatProgression: HeatProgression(res.Log),
		DecisionPoints:  DecisionPoints(res.Log),
		ExampleCounts:   g.counts,
	}
	return bundle
}

func (g *generator) fromMessage(i int, m models.AgentMessage) []models.TrainingExample {
	var out []models.TrainingExample
	phase := m.Metadata.Phase
	switch m.Role {
	case models.RoleGM:
		if narrated[phase] {
			out = append(out, g.example(models.ExampleGMResponse, i, m))
		}
	case models.RolePlayer:
		out = append(out, g.example(models.ExamplePlayerAction, i, m))
	default:
		return nil
	}

	if phase == models.PhaseHazard || phase == models.PhaseHazardOvercome ||
		(m.Role == models.RoleGM && phase == models.PhaseGMResponse && hazardWords.MatchString(m.Content)) {
		out = append(out, g.example(models.ExampleHazardEncounter, i, m))
	}
	if phase == models.PhaseObjectiveComplete ||
		(m.Role == models.RoleGM && phase == models.PhaseGMResponse && objectiveWords.MatchString(m.Content)) {
		out = append(out, g.example(models.ExampleObjectiveCompletion, i, m))
	}
	return out
}

func (g *generator) example(kind models.ExampleKind, i int, m models.AgentMessage) models.TrainingExample {
	g.counts[kind]++
	ex := models.TrainingExample{
		ID:             fmt.Sprintf("%s-%s-%d", g.res.ID, kind, g.counts[kind]),
		Kind:           kind,
		Context:        g.window(i, m.Metadata.Round),
		ExpectedOutput: m.Content,
		Metadata: map[string]string{
			"phase": string(m.Metadata.Phase),
			"round": strconv.Itoa(m.Metadata.Round),
			"role":  string(m.Role),
		},
	}
	if m.Player != nil {
		ex.Metadata["player"] = strconv.Itoa(*m.Player)
	}
	if m.Metadata.Card != "" {
		ex.Metadata["card"] = m.Metadata.Card
	}
	if m.Metadata.Objective != "" {
		ex.Metadata["objective"] = m.Metadata.Objective
	}
	if r := m.Metadata.Roll; r != nil {
		ex.Metadata["stat"] = string(r.Stat)
		ex.Metadata["outcome"] = string(r.Outcome)
	}
	return ex
}

// window returns up to ContextSize messages before index end, with their
// snapshots stripped. State and heat come from the latest message in it.
func (g *generator) window(end, round int) models.ContextWindow {
	start := max(end-ContextSize, 0)
	w := models.ContextWindow{
		Round:      round,
		Characters: append([]string(nil), g.names...),
	}
	for _, m := range g.res.Log[start:end] {
		if m.Role == models.RoleCritic {
			continue
		}
		w.Heat = m.Metadata.Heat
		w.State = m.Metadata.Snapshot.Clone()
		m.Metadata.Snapshot = nil
		w.Messages = append(w.Messages, m)
	}
	if len(w.Messages) == 0 && end < len(g.res.Log) {
		w.Heat = g.res.Log[end].Metadata.Heat
	}
	return w
}

// critiques turns each critic paragraph about the rules into an example.
func (g *generator) critiques() []models.TrainingExample {
	feedback := strings.TrimSpace(g.res.CriticFeedback)
	if feedback == "" {
		return nil
	}
	var out []models.TrainingExample
	for _, p := range paragraphBreak.Split(feedback, -1) {
		p = strings.TrimSpace(p)
		if p == "" || !critiqueWords.MatchString(p) {
			continue
		}
		area := RuleArea(p)
		kind := models.ExampleRuleCritique
		g.counts[kind]++

		final := g.res.FinalState
		ex := models.TrainingExample{
			ID:   fmt.Sprintf("%s-%s-%d", g.res.ID, kind, g.counts[kind]),
			Kind: kind,
			Context: models.ContextWindow{
				State:      final.Clone(),
				Round:      final.Round,
				Characters: append([]string(nil), g.names...),
				Heat:       final.Heat,
			},
			ExpectedOutput: p,
			Metadata: map[string]string{
				"rule_area": area,
				"outcome":   string(g.res.Outcome),
			},
			History: &models.HistoricalContext{
				RuleArea:      area,
				PriorRuleText: rulePassage(g.rules, area),
				Reasoning:     reasoning(g.res, area),
			},
		}
		ex.Context.Messages = g.window(len(g.res.Log), final.Round).Messages
		out = append(out, ex)
	}
	return out
}

func reasoning(res *models.SimulationResult, area string) string {
	s := fmt.Sprintf("Critic feedback on %s rules after a %s run", area, res.Outcome)
	if res.Reason != "" {
		s += " (" + res.Reason + ")"
	}
	return fmt.Sprintf("%s over %d rounds.", s, res.FinalState.RoundsCompleted)
}

// rulePassage returns the first paragraph of rules that mentions area.
func rulePassage(rules, area string) string {
	if rules == "" || area == AreaGeneral {
		return ""
	}
	keywords := areaKeywords(area)
	for _, p := range paragraphBreak.Split(rules, -1) {
		if containsAny(strings.ToLower(p), keywords) {
			return strings.TrimSpace(p)
		}
	}
	return ""
}

func areaKeywords(area string) []string {
	for _, a := range ruleAreas {
		if a.area == area {
			return a.keywords
		}
	}
	return nil
}

// RuleArea infers which part of the rules a critique paragraph is about.
func RuleArea(text string) string {
	t := strings.ToLower(text)
	for _, a := range ruleAreas {
		if containsAny(t, a.keywords) {
			return a.area
		}
	}
	return AreaGeneral
}

// SuccessRate scores a mission outcome: success 1, partial 0.5, else 0.
func SuccessRate(outcome models.MissionOutcome) float64 {
	switch outcome {
	case models.MissionSuccess:
		return 1
	case models.MissionPartial:
		return 0.5
	}
	return 0
}

// HeatProgression is the heat recorded on each round summary, in order.
func HeatProgression(log []models.AgentMessage) []int {
	var heat []int
	for _, m := range log {
		if m.Metadata.Phase == models.PhaseRoundSummary {
			heat = append(heat, m.Metadata.Heat)
		}
	}
	return heat
}

// DecisionPoints finds player actions whose GM reply reads as
// consequential, and classifies how they turned out.
func DecisionPoints(log []models.AgentMessage) []models.DecisionPoint {
	var points []models.DecisionPoint
	for i, m := range log {
		if m.Role != models.RolePlayer {
			continue
		}
		reply, ok := nextGMReply(log, i)
		if !ok {
			continue
		}
		lower := strings.ToLower(reply.Content)
		if !containsAny(lower, decisionWords) {
			continue
		}
		points = append(points, models.DecisionPoint{
			Index:    i,
			Round:    m.Metadata.Round,
			Player:   m.PlayerIndex(),
			Action:   m.Content,
			Response: reply.Content,
			Impact:   classify(lower),
		})
	}
	return points
}

// nextGMReply returns the first narrated GM message after index i. Later
// player turns and engine notices are skipped, since the GM answers every
// turn of a round in one collective response.
func nextGMReply(log []models.AgentMessage, i int) (models.AgentMessage, bool) {
	for _, m := range log[i+1:] {
		if m.Role == models.RoleGM && narrated[m.Metadata.Phase] {
			return m, true
		}
	}
	return models.AgentMessage{}, false
}

func classify(text string) models.Impact {
	pos, neg := count(text, positiveWords), count(text, negativeWords)
	switch {
	case pos > neg:
		return models.ImpactPositive
	case neg > pos:
		return models.ImpactNegative
	}
	return models.ImpactNeutral
}

func count(text string, words []string) int {
	n := 0
	for _, w := range words {
		n += strings.Count(text, w)
	}
	return n
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
