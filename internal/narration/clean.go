package narration

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/llm"
	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

var speakerPrefix = regexp.MustCompile(`(?i)^\s*(?:\*\*)?(?:GM|Game Master|Narrator|Player\s*\d+(?:\s*\([^)]*\))?)(?:\*\*)?\s*:\s*`)

// CleanReply strips an echoed speaker label ("GM: ", "Player 2: ") from a reply.
func CleanReply(text string) string {
	text = strings.TrimSpace(text)
	for {
		loc := speakerPrefix.FindStringIndex(text)
		if loc == nil {
			return text
		}
		text = strings.TrimSpace(text[loc[1]:])
	}
}

// Speaker is the label a transcript entry carries when shown to another agent.
func Speaker(m models.AgentMessage, characters []models.Character) string {
	switch m.Role {
	case models.RoleGM:
		return "GM"
	case models.RoleCritic:
		return "Critic"
	}
	idx := m.PlayerIndex()
	if idx >= 0 && idx < len(characters) {
		return fmt.Sprintf("Player %d (%s)", idx+1, characters[idx].Name)
	}
	return fmt.Sprintf("Player %d", idx+1)
}

// ForGM renders the log from the GM's seat: GM entries are the assistant's
// own turns, everything else is user input labelled with its speaker.
func ForGM(log []models.AgentMessage, characters []models.Character) []llm.Message {
	return normalize(log, characters, func(m models.AgentMessage) bool {
		return m.Role == models.RoleGM
	})
}

// ForPlayer renders the log from one player's seat.
func ForPlayer(log []models.AgentMessage, characters []models.Character, player int) []llm.Message {
	return normalize(log, characters, func(m models.AgentMessage) bool {
		return m.Role == models.RolePlayer && m.PlayerIndex() == player
	})
}

func normalize(log []models.AgentMessage, characters []models.Character, own func(models.AgentMessage) bool) []llm.Message {
	out := make([]llm.Message, 0, len(log))
	for _, m := range log {
		content := CleanReply(m.Content)
		if content == "" {
			continue
		}
		if own(m) {
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: content})
			continue
		}
		out = append(out, llm.Message{
			Role:    llm.RoleUser,
			Content: Speaker(m, characters) + ": " + content,
		})
	}
	return out
}

// WithPrompt appends the request as the final user turn.
func WithPrompt(history []llm.Message, prompt string) []llm.Message {
	out := make([]llm.Message, 0, len(history)+1)
	out = append(out, history...)
	return append(out, llm.Message{Role: llm.RoleUser, Content: prompt})
}

// Transcript flattens the log into "Speaker: text" lines.
func Transcript(log []models.AgentMessage, characters []models.Character) string {
	var sb strings.Builder
	for _, m := range log {
		fmt.Fprintf(&sb, "[Round %d | %s] %s: %s\n", m.Metadata.Round+1, m.Metadata.Phase, Speaker(m, characters), CleanReply(m.Content))
	}
	return sb.String()
}
