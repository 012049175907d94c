package memory

import (
	"strings"

	"github.com/darkstrike03/nyx/internal/mood"
	"github.com/darkstrike03/nyx/internal/personality"
)

// humorTriggers in any learning line flip humor to playful.
var humorTriggers = []string{"joke", "funny", "laugh", "sarcasm"}

// Evolve applies one day's digest to the current trait state and returns
// the new state. Tone follows the first matching mood rule; the curiosity
// and humor updates below it are independent and cumulative. The humor
// trigger runs last, so playful overrides the anger rule's dry setting
// when both apply.
func Evolve(current personality.State, d Digest) personality.State {
	next := current.Normalize()

	switch {
	case isHappyMood(d.Mood):
		next.Tone = personality.ToneCheerful
	case isSadMood(d.Mood):
		next.Tone = personality.ToneEmpathetic
	case d.Mood == mood.Curious:
		next.Tone = personality.ToneInquisitive
		next.CuriosityLevel = personality.ClampUnit(next.CuriosityLevel + 0.1)
	case isAngerMood(d.Mood):
		next.Tone = personality.ToneBlunt
		next.Humor = personality.HumorDry
	default:
		next.Tone = personality.ToneNeutral
	}

	if len(d.Learnings) > 5 {
		next.CuriosityLevel = personality.ClampUnit(next.CuriosityLevel + 0.05)
	}

	if hasHumorTrigger(d.Learnings) {
		next.Humor = personality.HumorPlayful
	}

	return next.Normalize()
}

func hasHumorTrigger(learnings []string) bool {
	for _, l := range learnings {
		lower := strings.ToLower(l)
		for _, t := range humorTriggers {
			if strings.Contains(lower, t) {
				return true
			}
		}
	}
	return false
}

func isHappyMood(m mood.Label) bool {
	return m == mood.Excited || m == mood.Playful
}

func isSadMood(m mood.Label) bool {
	return m == mood.Sad || m == mood.Melancholy
}

func isAngerMood(m mood.Label) bool {
	return m == mood.Furious || m == mood.Frustrated || m == mood.Annoyed
}
