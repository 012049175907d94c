package session

import "strings"

type intentRule struct {
	needles []string
	intent  string
}

// Ordered, first match wins. Preference before emotion so "I love tea"
// reads as a preference, not a feeling.
var intentRules = []intentRule{
	{[]string{"i prefer", "i like", "i love", "my favorite", "favourite"}, IntentPreference},
	{[]string{"i avoid", "i hate", "i dislike", "don't like", "do not like"}, IntentAvoidance},
	{[]string{"i feel", "i'm feeling", "i am feeling", "makes me feel"}, IntentEmotion},
	{[]string{"you should", "please stop", "that was wrong", "be more", "be less"}, IntentFeedback},
}

// InferIntent tags a message with the intent used for learning
// extraction. Anything unrecognized is plain chat.
func InferIntent(message string) string {
	text := strings.ToLower(strings.TrimSpace(message))
	for _, r := range intentRules {
		for _, needle := range r.needles {
			if strings.Contains(text, needle) {
				return r.intent
			}
		}
	}
	return IntentChat
}
