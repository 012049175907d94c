// Package memory distills a day's session log into a compact digest and
// evolves the personality from it. Both operations are pure; persistence
// belongs to the archive and personality stores.
package memory

import (
	"github.com/darkstrike03/nyx/internal/mood"
	"github.com/darkstrike03/nyx/internal/personality"
)

// Digest is the single record summarizing one day of session activity.
// It is created once per day, never mutated, and archived as-is; the
// personality field is an informational snapshot of the day's nudge, not
// the authoritative trait state.
type Digest struct {
	Date        string            `json:"date"`
	Mood        mood.Label        `json:"mood"`
	Learnings   []string          `json:"learnings"`
	Personality personality.State `json:"personality"`
}
