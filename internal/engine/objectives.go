package engine

import (
	"regexp"
	"strings"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

var (
	sentenceBreak  = regexp.MustCompile(`[.!?\n]+`)
	completionVerb = regexp.MustCompile(`(?i)\b(?:complete[ds]?|achieved|accomplished|secured|reached|found|recovered|retrieved|escaped|survived|obtained|made it|succeeded|done)\b`)
)

// DetectObjectives returns the objectives a narration completes: a
// sentence must name the objective (or one of its keywords) and carry a
// completion verb. Objectives already completed are skipped.
func DetectObjectives(text string, objectives []models.Objective, completed func(id string) bool) []models.Objective {
	var sentences []string
	for _, s := range sentenceBreak.Split(strings.ToLower(text), -1) {
		if completionVerb.MatchString(s) {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) == 0 {
		return nil
	}

	var done []models.Objective
	for _, obj := range objectives {
		if completed(obj.ID) {
			continue
		}
		if mentions(sentences, objectiveTerms(obj)) {
			done = append(done, obj)
		}
	}
	return done
}

func objectiveTerms(obj models.Objective) []string {
	terms := []string{strings.ToLower(obj.Name)}
	for _, k := range obj.Keywords {
		terms = append(terms, strings.ToLower(k))
	}
	return terms
}

func mentions(sentences, terms []string) bool {
	for _, s := range sentences {
		for _, t := range terms {
			if t != "" && strings.Contains(s, t) {
				return true
			}
		}
	}
	return false
}
