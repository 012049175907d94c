package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/darkstrike03/nyx/internal/mood"
	"github.com/oklog/ulid/v2"
)

// Logger appends one immutable entry to the store per chat turn. IDs are
// monotonic ULIDs so GetAll output can be re-ordered by insertion without
// trusting timestamps alone.
type Logger struct {
	store Store

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

func NewLogger(store Store) *Logger {
	return &Logger{
		store:   store,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Log records a chat turn. The mood is typically the classifier's output;
// an empty intent defaults to the generic conversational tag. Duplicate
// content produces a new entry each call.
func (l *Logger) Log(ctx context.Context, message string, m mood.Label, intent string) (Entry, error) {
	if message == "" {
		return Entry{}, fmt.Errorf("log session entry: empty message")
	}
	if intent == "" {
		intent = IntentChat
	}

	l.mu.Lock()
	now := l.now()
	id := ulid.MustNew(ulid.Timestamp(now), l.entropy).String()
	l.mu.Unlock()

	e := Entry{
		ID:        id,
		Timestamp: now.UTC().Format(time.RFC3339),
		Message:   message,
		Mood:      m,
		Intent:    intent,
	}
	if err := l.store.Put(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
