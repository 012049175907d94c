package memory

import (
	"fmt"
	"strings"

	"github.com/darkstrike03/nyx/internal/mood"
	"github.com/darkstrike03/nyx/internal/personality"
	"github.com/darkstrike03/nyx/internal/session"
)

// trivialPhrases mark conversational filler. Trivial entries still count
// toward the mood tally but contribute no learning line.
var trivialPhrases = []string{
	"hello", "hi", "how are you", "what is", "who is", "tell me about",
	"thanks", "bye", "good morning", "good night",
}

// Distill reduces an ordered day of session entries to one digest. Entry
// order matters only for the learning sequence and the dominant-mood
// tie-break; the tally itself is order independent. An empty input yields
// a neutral digest with no learnings.
func Distill(date string, entries []session.Entry) Digest {
	counts := make(map[mood.Label]int)
	firstSeen := make(map[mood.Label]int)
	var learnings []string

	for i, e := range entries {
		if e.Mood != "" {
			counts[e.Mood]++
			if _, ok := firstSeen[e.Mood]; !ok {
				firstSeen[e.Mood] = i
			}
		}

		if isTrivial(e.Message) {
			continue
		}
		if line, ok := learningLine(e); ok {
			learnings = append(learnings, line)
		}
	}

	dominant := dominantMood(counts, firstSeen)

	return Digest{
		Date:        date,
		Mood:        dominant,
		Learnings:   learnings,
		Personality: nudge(dominant),
	}
}

// dominantMood picks the label with the highest tally. Ties break toward
// the label seen earliest in the entry sequence; the map is never sorted,
// so the result is stable for a given input order.
func dominantMood(counts map[mood.Label]int, firstSeen map[mood.Label]int) mood.Label {
	dominant := mood.Neutral
	best := 0
	bestSeen := 0
	for label, n := range counts {
		seen := firstSeen[label]
		if n > best || (n == best && best > 0 && seen < bestSeen) {
			dominant = label
			best = n
			bestSeen = seen
		}
	}
	return dominant
}

func isTrivial(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range trivialPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// learningLine renders one learning from a non-trivial entry. Intents
// outside the known set produce no line.
func learningLine(e session.Entry) (string, bool) {
	switch e.Intent {
	case session.IntentPreference:
		return "User prefers " + e.Message, true
	case session.IntentAvoidance:
		return "User avoids " + e.Message, true
	case session.IntentEmotion:
		return "User expressed feeling " + e.Message, true
	case session.IntentFeedback:
		return fmt.Sprintf("User reacted with: %q", e.Message), true
	default:
		return "", false
	}
}

// nudge derives the digest's informational personality snapshot from the
// dominant mood, starting from the resting state. The authoritative trait
// mutation happens in Evolve, not here.
func nudge(dominant mood.Label) personality.State {
	p := personality.Default()
	switch {
	case dominant == mood.Curious:
		p.CuriosityLevel = personality.ClampUnit(p.CuriosityLevel + 0.2)
		p.Tone = personality.ToneInquisitive
	case isHappyMood(dominant):
		p.Tone = personality.ToneCheerful
	case isSadMood(dominant):
		p.Tone = personality.ToneEmpathetic
	}
	return p
}
