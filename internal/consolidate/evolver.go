package consolidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/darkstrike03/nyx/internal/archive"
	"github.com/darkstrike03/nyx/internal/memory"
	"github.com/darkstrike03/nyx/internal/personality"
)

// Evolver runs the start-of-day action: fetch yesterday's archived
// digest and fold it into the persistent trait state.
type Evolver struct {
	archive archive.Service
	traits  personality.Store
	prefix  string
	now     func() time.Time
}

func NewEvolver(svc archive.Service, traits personality.Store, pathPrefix string) *Evolver {
	return &Evolver{
		archive: svc,
		traits:  traits,
		prefix:  pathPrefix,
		now:     time.Now,
	}
}

func (e *Evolver) EvolveDaily(ctx context.Context) error {
	yesterday := e.now().AddDate(0, 0, -1).Format(dateLayout)

	doc, err := e.archive.Get(ctx, archive.DayPath(e.prefix, yesterday))
	if errors.Is(err, archive.ErrNotFound) {
		// No archived day to learn from. Normal on first run.
		log.Printf("[consolidate] no digest for %s, skipping evolution", yesterday)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch digest for %s: %w", yesterday, err)
	}

	var digest memory.Digest
	if err := json.Unmarshal(doc.Content, &digest); err != nil {
		return fmt.Errorf("parse digest for %s: %w", yesterday, err)
	}

	current, err := e.traits.Get()
	if err != nil {
		return fmt.Errorf("load personality state: %w", err)
	}

	next := memory.Evolve(current, digest)
	if err := e.traits.Replace(next); err != nil {
		return fmt.Errorf("store personality state: %w", err)
	}

	log.Printf("[consolidate] evolved personality from %s: tone=%s humor=%s curiosity=%.2f",
		yesterday, next.Tone, next.Humor, next.CuriosityLevel)
	return nil
}
