// Package archive is the durable, versioned long-term store for daily
// memory digests: one document per calendar date, committed to a GitHub
// repository through the contents API. The file SHA doubles as the
// optimistic version token for conditional writes.
package archive

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no document exists at the path. Callers treat
	// this as a normal condition, not a failure.
	ErrNotFound = errors.New("archive: document not found")
	// ErrConflict means the write was rejected for a stale version
	// token. The cycle retries at its next scheduled occurrence.
	ErrConflict = errors.New("archive: version conflict")
)

// Document is one stored digest file plus its version token.
type Document struct {
	Content []byte
	SHA     string
}

// Service is the archive collaborator contract. Put with an empty sha
// creates the document; a non-empty sha performs a conditional update
// that the service must reject when stale.
type Service interface {
	Get(ctx context.Context, path string) (*Document, error)
	Put(ctx context.Context, path string, content []byte, message, sha string) error
}

// DayPath renders the date-keyed document location, e.g.
// "memolog/day-2026-08-30.json".
func DayPath(prefix, date string) string {
	return fmt.Sprintf("%s/day-%s.json", prefix, date)
}
