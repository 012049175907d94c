package consolidate

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/darkstrike03/nyx/internal/memory"
	"github.com/darkstrike03/nyx/internal/mood"
	"github.com/darkstrike03/nyx/internal/personality"
)

type fakeTraits struct {
	state      personality.State
	replaced   bool
	getErr     error
	replaceErr error
}

func (f *fakeTraits) Get() (personality.State, error) {
	if f.getErr != nil {
		return personality.State{}, f.getErr
	}
	return f.state, nil
}

func (f *fakeTraits) Replace(s personality.State) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.state = s
	f.replaced = true
	return nil
}

func putDigest(t *testing.T, arch *fakeArchive, path string, d memory.Digest) {
	t.Helper()
	content, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		t.Fatal(err)
	}
	if err := arch.Put(context.Background(), path, content, "m", ""); err != nil {
		t.Fatal(err)
	}
}

func TestEvolveDaily_AppliesYesterdaysDigest(t *testing.T) {
	arch := newFakeArchive()
	putDigest(t, arch, "memolog/day-2026-08-29.json", memory.Digest{
		Date: "2026-08-29",
		Mood: mood.Curious,
		Learnings: []string{
			"a", "b", "c", "d", "e", "f",
		},
	})
	traits := &fakeTraits{state: personality.Default()}

	e := NewEvolver(arch, traits, "memolog")
	e.now = fixedClock("2026-08-30")

	if err := e.EvolveDaily(context.Background()); err != nil {
		t.Fatalf("EvolveDaily error: %v", err)
	}
	if !traits.replaced {
		t.Fatal("traits not persisted")
	}
	if traits.state.Tone != personality.ToneInquisitive {
		t.Errorf("tone = %q", traits.state.Tone)
	}
	// 0.5 + 0.1 (curious) + 0.05 (more than five learnings)
	if math.Abs(traits.state.CuriosityLevel-0.65) > 1e-9 {
		t.Errorf("curiosity = %v, want 0.65", traits.state.CuriosityLevel)
	}
}

func TestEvolveDaily_MissingDigestIsNoOp(t *testing.T) {
	arch := newFakeArchive()
	traits := &fakeTraits{state: personality.Default()}

	e := NewEvolver(arch, traits, "memolog")
	e.now = fixedClock("2026-08-30")

	if err := e.EvolveDaily(context.Background()); err != nil {
		t.Fatalf("missing digest must not fail: %v", err)
	}
	if traits.replaced {
		t.Error("traits changed with no digest to apply")
	}
}

func TestEvolveDaily_ArchiveFailure(t *testing.T) {
	arch := newFakeArchive()
	arch.getErr = errors.New("network down")
	traits := &fakeTraits{state: personality.Default()}

	e := NewEvolver(arch, traits, "memolog")
	e.now = fixedClock("2026-08-30")

	if err := e.EvolveDaily(context.Background()); err == nil {
		t.Fatal("expected error on archive failure")
	}
	if traits.replaced {
		t.Error("traits changed despite archive failure")
	}
}

func TestEvolveDaily_PersistFailure(t *testing.T) {
	arch := newFakeArchive()
	putDigest(t, arch, "memolog/day-2026-08-29.json", memory.Digest{
		Date: "2026-08-29",
		Mood: mood.Playful,
	})
	traits := &fakeTraits{state: personality.Default(), replaceErr: errors.New("disk full")}

	e := NewEvolver(arch, traits, "memolog")
	e.now = fixedClock("2026-08-30")

	if err := e.EvolveDaily(context.Background()); err == nil {
		t.Fatal("expected error when traits cannot be persisted")
	}
}
