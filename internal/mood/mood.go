package mood

// Label is one of the closed set of moods the agent can express. The set
// mirrors the moods the UI knows how to render; Classify only ever returns
// a value from this list.
type Label string

const (
	Mysterious    Label = "mysterious"
	Curious       Label = "curious"
	Wise          Label = "wise"
	Playful       Label = "playful"
	Mystical      Label = "mystical"
	Excited       Label = "excited"
	Calm          Label = "calm"
	Annoyed       Label = "annoyed"
	Frustrated    Label = "frustrated"
	Furious       Label = "furious"
	Sad           Label = "sad"
	Bored         Label = "bored"
	Neutral       Label = "neutral"
	Melancholy    Label = "melancholy"
	Contemplative Label = "contemplative"
)

// All lists every valid label.
var All = []Label{
	Mysterious, Curious, Wise, Playful, Mystical, Excited, Calm,
	Annoyed, Frustrated, Furious, Sad, Bored, Neutral, Melancholy,
	Contemplative,
}

// Valid reports whether l is a member of the closed label set.
func Valid(l Label) bool {
	for _, m := range All {
		if l == m {
			return true
		}
	}
	return false
}
