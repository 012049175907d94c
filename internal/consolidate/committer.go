// Package consolidate orchestrates the two daily memory actions: the
// end-of-day archive commit and the start-of-day personality evolution.
// All collaborator errors are caught at this boundary and reported as a
// failed cycle; nothing here panics or retries within the same run.
package consolidate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/darkstrike03/nyx/internal/archive"
	"github.com/darkstrike03/nyx/internal/memory"
	"github.com/darkstrike03/nyx/internal/personality"
	"github.com/darkstrike03/nyx/internal/session"
)

const dateLayout = "2006-01-02"

// Committer runs the end-of-day consolidation: drain the session log,
// distill it into a digest, commit the digest to the archive, then purge
// the log. The purge happens only after a successful write — never
// before — so a failed commit loses nothing.
type Committer struct {
	store   session.Store
	archive archive.Service
	prefix  string
	now     func() time.Time
}

func NewCommitter(store session.Store, svc archive.Service, pathPrefix string) *Committer {
	return &Committer{
		store:   store,
		archive: svc,
		prefix:  pathPrefix,
		now:     time.Now,
	}
}

func (c *Committer) CommitDaily(ctx context.Context) error {
	now := c.now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	entries, err := c.store.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("read session log: %w", err)
	}

	digest := memory.Distill(today, orderEntries(entries))

	// An existing document for today means this is an update; its SHA
	// is the version token for the conditional write.
	var sha string
	existing, err := c.archive.Get(ctx, archive.DayPath(c.prefix, today))
	switch {
	case err == nil:
		sha = existing.SHA
	case errors.Is(err, archive.ErrNotFound):
		// create
	default:
		return fmt.Errorf("check existing digest: %w", err)
	}

	// Yesterday's digest feeds the audit diff only. Its absence, or any
	// failure fetching it, never blocks the commit.
	var changes []personality.FieldChange
	prev, err := c.archive.Get(ctx, archive.DayPath(c.prefix, yesterday))
	if err == nil {
		var prevDigest memory.Digest
		if err := json.Unmarshal(prev.Content, &prevDigest); err != nil {
			log.Printf("[consolidate] parse previous digest warning: %v", err)
		} else {
			changes = personality.Diff(prevDigest.Personality, digest.Personality)
		}
	} else if !errors.Is(err, archive.ErrNotFound) {
		log.Printf("[consolidate] fetch previous digest warning: %v", err)
	}

	content, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal digest: %w", err)
	}

	path := archive.DayPath(c.prefix, today)
	if err := c.archive.Put(ctx, path, content, commitMessage(today, changes), sha); err != nil {
		return fmt.Errorf("commit digest: %w", err)
	}

	if err := c.store.DeleteAll(ctx); err != nil {
		// The digest is archived; a failed purge only risks duplicate
		// entries in tomorrow's digest.
		return fmt.Errorf("purge session log after commit: %w", err)
	}

	log.Printf("[consolidate] committed %s (%d entries, %d learnings, mood %s)",
		path, len(entries), len(digest.Learnings), digest.Mood)
	return nil
}

// orderEntries re-establishes insertion order from the unordered store
// snapshot. Entry IDs are monotonic ULIDs, so lexicographic ID order is
// insertion order.
func orderEntries(entries map[string]session.Entry) []session.Entry {
	ordered := make([]session.Entry, 0, len(entries))
	for _, e := range entries {
		ordered = append(ordered, e)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	return ordered
}

func commitMessage(date string, changes []personality.FieldChange) string {
	msg := fmt.Sprintf("Memory commit for day-%s.json", date)
	if len(changes) == 0 {
		return msg
	}

	var sb strings.Builder
	sb.WriteString(msg)
	sb.WriteString("\n\nPersonality changes:")
	for _, ch := range changes {
		sb.WriteString(fmt.Sprintf("\n→ %s changed from %q to %q", ch.Field, ch.Old, ch.New))
	}
	return sb.String()
}
