package mood

import "strings"

// rule is one row of the classifier table. Rules are evaluated top to
// bottom; the first rule whose predicate matches decides the label, so
// priority is row order, not keyword order within a row.
type rule struct {
	keywords []string
	label    Label
}

var rules = []rule{
	{[]string{"angry", "frustrate", "terrible", "hate", "stop"}, Furious},
	{[]string{"sad", "depressed", "sorry", "bad day"}, Melancholy},
	{[]string{"wow", "amazing", "cool", "tell me more", "explore"}, Curious},
	{[]string{"joke", "pun", "funny", "playful", "ha ha"}, Playful},
}

// greetings are neutral openers that map to the core resting mood.
var greetings = []string{"hello", "hi", "thank you", "help"}

// Classify maps arbitrary text to a mood label. It is total: every input,
// including the empty string, yields exactly one label from the closed set.
// Very short or greeting-like text resolves to the resting mood
// (mysterious); anything else without an emotional keyword resolves to the
// slightly more active contemplative default.
func Classify(text string) Label {
	lower := strings.ToLower(strings.TrimSpace(text))

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.label
			}
		}
	}

	if len(lower) < 5 {
		return Mysterious
	}
	for _, g := range greetings {
		if strings.Contains(lower, g) {
			return Mysterious
		}
	}

	return Contemplative
}
