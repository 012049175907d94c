package session

import "github.com/darkstrike03/nyx/internal/mood"

// Intent tags describe why an entry matters for learning extraction.
// The set is open ended; unrecognized intents still count toward mood
// tallies but contribute no learning text.
const (
	IntentChat       = "chat"
	IntentPreference = "preference"
	IntentAvoidance  = "avoidance"
	IntentEmotion    = "emotion"
	IntentFeedback   = "feedback"
)

// Entry is one logged chat turn. Entries are immutable once written and
// live only until the next daily consolidation purges the store.
type Entry struct {
	ID        string     `json:"id"`
	Timestamp string     `json:"timestamp"`
	Message   string     `json:"message"`
	Mood      mood.Label `json:"mood"`
	Intent    string     `json:"intent"`
}
