package engine

import (
	"regexp"
	"strings"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// StatCheck is a stat check a player asked for. The zero value means no
// check was recognised.
type StatCheck struct {
	Stat  models.Stat
	Token string
}

const statToken = `([a-z]+(?:[\s-]?sense)?)`

// Checked in order; within a pattern, matches are tried left to right.
var statPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\broll(?:s|ed|ing)?\s+for\s+(?:my\s+|a\s+|an\s+|some\s+)?` + statToken),
	regexp.MustCompile(`(?i)\broll(?:s|ed|ing)?\s+(?:my\s+|a\s+|an\s+)?` + statToken),
	regexp.MustCompile(`(?i)\b` + statToken + `\s+(?:check|roll|test|save)\b`),
	regexp.MustCompile(`(?i)\bcheck(?:s|ed|ing)?\s+with\s+(?:my\s+)?` + statToken),
	regexp.MustCompile(`(?i)\b(?:test|use)s?\s+(?:my\s+)?` + statToken + `\s+(?:stat|skill)\b`),
}

// statAliases maps token fragments to stats. Earlier entries win, so
// longer fragments that contain shorter ones come first.
var statAliases = []struct {
	fragment string
	stat     models.Stat
}{
	{"weirdsense", models.StatWeirdSense},
	{"willpower", models.StatGrit},
	{"brawn", models.StatBrawn},
	{"strength", models.StatBrawn},
	{"might", models.StatBrawn},
	{"muscle", models.StatBrawn},
	{"moxie", models.StatMoxie},
	{"agility", models.StatMoxie},
	{"dex", models.StatMoxie},
	{"speed", models.StatMoxie},
	{"reflex", models.StatMoxie},
	{"charm", models.StatCharm},
	{"charisma", models.StatCharm},
	{"persua", models.StatCharm},
	{"grit", models.StatGrit},
	{"endurance", models.StatGrit},
	{"tough", models.StatGrit},
	{"constitution", models.StatGrit},
	{"weird", models.StatWeirdSense},
	{"perception", models.StatWeirdSense},
	{"intuition", models.StatWeirdSense},
	{"sense", models.StatWeirdSense},
}

// DetectStatCheck looks for a request to roll against a stat. Tokens that
// do not map to a stat are skipped, so "roll the dice" is not a check.
func DetectStatCheck(text string) (StatCheck, bool) {
	for _, re := range statPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if stat, ok := StatForToken(m[1]); ok {
				return StatCheck{Stat: stat, Token: m[1]}, true
			}
		}
	}
	return StatCheck{}, false
}

// StatForToken maps a free-form stat name to a stat.
func StatForToken(token string) (models.Stat, bool) {
	t := strings.ToLower(token)
	t = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(t)
	if t == "" {
		return "", false
	}
	for _, a := range statAliases {
		if strings.Contains(t, a.fragment) {
			return a.stat, true
		}
	}
	return "", false
}

var useVerb = regexp.MustCompile(`(?i)\b(?:use|uses|using|used|pull(?:s|ed)?\s+out|grab(?:s|bed)?|wield(?:s|ed)?|deploy(?:s|ed)?|hold(?:s)?\s+up)\b`)

// DetectItemUse returns the id of the first carried item (gear or treasure)
// the text says the player uses. Items are matched by display name or by id.
func DetectItemUse(text string, gear []string, name func(string) string) (string, bool) {
	loc := useVerb.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	rest := strings.ToLower(text[loc[0]:])
	for _, id := range gear {
		candidates := []string{strings.ToLower(name(id)), strings.ReplaceAll(strings.ToLower(id), "-", " ")}
		for _, c := range candidates {
			if c != "" && strings.Contains(rest, c) {
				return id, true
			}
		}
	}
	return "", false
}
