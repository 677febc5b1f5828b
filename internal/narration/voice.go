package narration

import (
	"fmt"
	"sort"

	"github.com/Rylee-ai/flomanji-ai-playtest-lab-sub001/internal/models"
)

// Event is the kind of moment a voice is asked to colour.
type Event string

const (
	EventIntroduction Event = "introduction"
	EventHazard       Event = "hazard"
	EventChaos        Event = "chaos"
	EventTreasure     Event = "treasure"
	EventResolution   Event = "resolution"
	EventSummary      Event = "summary"
	EventConclusion   Event = "conclusion"
)

// Voice is a narrator persona. Narrate returns a style fragment that is
// folded into the GM prompt for one event.
type Voice interface {
	Name() string
	Narrate(event Event, mood models.Mood, heat int, card string) string
}

// DefaultVoice is used when a configured voice is unknown.
const DefaultVoice = "classic"

// band buckets heat into low, mid and high.
func band(heat int) int {
	switch {
	case heat >= 7:
		return 2
	case heat >= 4:
		return 1
	default:
		return 0
	}
}

// phraseVoice is a voice backed by a style line and three danger-banded phrases.
type phraseVoice struct {
	name    string
	style   string
	phrases [3]string
	events  map[Event]string
}

func (v phraseVoice) Name() string { return v.name }

func (v phraseVoice) Narrate(event Event, mood models.Mood, heat int, card string) string {
	out := fmt.Sprintf("Narrate as %s. Current mood: %s. %s", v.style, mood, v.phrases[band(heat)])
	if hook, ok := v.events[event]; ok {
		out += " " + hook
	}
	if card != "" {
		out += fmt.Sprintf(" Make %q the centrepiece.", card)
	}
	return out
}

var builtinVoices = []Voice{
	phraseVoice{
		name:  "classic",
		style: "a warm, even-handed tabletop game master",
		phrases: [3]string{
			"Keep it light, the swamp is merely humid.",
			"Let unease creep into the descriptions.",
			"Everything is going wrong at once; make it urgent.",
		},
		events: map[Event]string{
			EventIntroduction: "Set the scene and introduce each survivor by name.",
			EventConclusion:   "Close the session like a GM packing up the dice.",
		},
	},
	phraseVoice{
		name:  "noir",
		style: "a world-weary hard-boiled detective narrating in first person",
		phrases: [3]string{
			"The heat is just the weather. For now.",
			"Somebody is lying and the humidity knows who.",
			"The city is burning and you are out of cigarettes.",
		},
		events: map[Event]string{
			EventHazard:  "Describe the threat like a suspect walking into the office.",
			EventSummary: "Recap the round like notes in a case file.",
		},
	},
	phraseVoice{
		name:  "gonzo",
		style: "an over-caffeinated tabloid reporter who cannot believe this is real",
		phrases: [3]string{
			"Just another Tuesday in Florida.",
			"This is going to make the front page.",
			"BREAKING NEWS. Use capital letters sparingly but mean it.",
		},
		events: map[Event]string{
			EventChaos:    "Announce it like a headline.",
			EventTreasure: "Treat the find like a viral sensation.",
		},
	},
	phraseVoice{
		name:  "nature-doc",
		style: "a hushed nature-documentary presenter",
		phrases: [3]string{
			"Observe the survivors in their natural habitat.",
			"The predators have noticed the herd.",
			"Nature is brutal and the cameras keep rolling.",
		},
		events: map[Event]string{
			EventHazard:     "Describe the hazard as a creature behaving according to instinct.",
			EventResolution: "Describe the survivors' actions as adaptive behaviour.",
		},
	},
}

// Voices is a registry of narrator personas keyed by name.
type Voices map[string]Voice

// DefaultVoices returns the built-in personas.
func DefaultVoices() Voices {
	v := make(Voices, len(builtinVoices))
	for _, voice := range builtinVoices {
		v.Register(voice)
	}
	return v
}

// Register adds or replaces a voice.
func (v Voices) Register(voice Voice) {
	v[voice.Name()] = voice
}

// Get returns the named voice, falling back to the default voice.
func (v Voices) Get(name string) Voice {
	if voice, ok := v[name]; ok {
		return voice
	}
	if voice, ok := v[DefaultVoice]; ok {
		return voice
	}
	return builtinVoices[0]
}

// Names lists registered voices alphabetically.
func (v Voices) Names() []string {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MoodFor derives the narrator mood from heat.
func MoodFor(heat int) models.Mood {
	switch band(heat) {
	case 2:
		return models.MoodFrantic
	case 1:
		return models.MoodTense
	default:
		return models.MoodCalm
	}
}
