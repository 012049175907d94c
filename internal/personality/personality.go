// Package personality holds the agent's long-lived trait state: a couple
// of categorical traits and a bounded numeric one. The state is mutated
// only by the evolution step of the daily memory cycle and survives
// restarts through a file-backed store.
package personality

// Tone values.
const (
	ToneNeutral     = "neutral"
	ToneCheerful    = "cheerful"
	ToneEmpathetic  = "empathetic"
	ToneInquisitive = "inquisitive"
	ToneBlunt       = "blunt"
)

// Humor values.
const (
	HumorDry     = "dry"
	HumorPlayful = "playful"
)

// State is the full trait snapshot. CuriosityLevel is always within
// [0, 1]; Tone and Humor are never empty.
type State struct {
	Tone           string  `json:"tone"`
	Humor          string  `json:"humor"`
	CuriosityLevel float64 `json:"curiosityLevel"`
}

// Default is the resting personality used when no persisted state or
// persona seed exists.
func Default() State {
	return State{
		Tone:           ToneNeutral,
		Humor:          HumorDry,
		CuriosityLevel: 0.5,
	}
}

// Normalize clamps the numeric traits and backfills empty categoricals,
// so a State read from disk always satisfies the invariants.
func (s State) Normalize() State {
	s.CuriosityLevel = ClampUnit(s.CuriosityLevel)
	if s.Tone == "" {
		s.Tone = ToneNeutral
	}
	if s.Humor == "" {
		s.Humor = HumorDry
	}
	return s
}

// ClampUnit bounds v to [0, 1].
func ClampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
