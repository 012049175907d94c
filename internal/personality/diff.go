package personality

import "strconv"

// FieldChange records one trait transition between two daily snapshots.
// The diff is an audit side channel only; it never feeds back into state.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// Diff compares two states field by field in a fixed order. Equal states
// produce an empty slice.
func Diff(old, new State) []FieldChange {
	var changes []FieldChange
	if old.Tone != new.Tone {
		changes = append(changes, FieldChange{Field: "tone", Old: old.Tone, New: new.Tone})
	}
	if old.Humor != new.Humor {
		changes = append(changes, FieldChange{Field: "humor", Old: old.Humor, New: new.Humor})
	}
	if old.CuriosityLevel != new.CuriosityLevel {
		changes = append(changes, FieldChange{
			Field: "curiosityLevel",
			Old:   formatLevel(old.CuriosityLevel),
			New:   formatLevel(new.CuriosityLevel),
		})
	}
	return changes
}

func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
