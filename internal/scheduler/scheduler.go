package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"
)

// Committer writes the day's digest to the archive and purges the session log.
type Committer interface {
	CommitDaily(ctx context.Context) error
}

// Evolver applies yesterday's digest to the persisted traits.
type Evolver interface {
	EvolveDaily(ctx context.Context) error
}

// Marker records which days have already been processed, so a restart
// never repeats a commit or evolution for the same day.
type Marker interface {
	LastCommitDate() string
	LastEvolveDate() string
	SetCommitDate(date string) error
	SetEvolveDate(date string) error
}

type clock struct {
	hour, minute int
}

func parseClock(s string) (clock, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return clock{}, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return clock{hour: h, minute: m}, nil
}

func (c clock) reached(now time.Time) bool {
	return now.Hour()*60+now.Minute() >= c.hour*60+c.minute
}

func (c clock) cronSpec() string {
	return fmt.Sprintf("%d %d * * *", c.minute, c.hour)
}

// Scheduler runs the daily agenda: evolve in the small hours, commit at
// the end of the day. Both are gated by the marker, so firing more than
// once per day is harmless.
type Scheduler struct {
	committer Committer
	evolver   Evolver
	marker    Marker
	commitAt  clock
	evolveAt  clock

	cron   *rcron.Cron
	mu     sync.Mutex
	cancel context.CancelFunc
	now    func() time.Time
}

func New(committer Committer, evolver Evolver, marker Marker, commitAt, evolveAt string) (*Scheduler, error) {
	ca, err := parseClock(commitAt)
	if err != nil {
		return nil, fmt.Errorf("commit time: %w", err)
	}
	ea, err := parseClock(evolveAt)
	if err != nil {
		return nil, fmt.Errorf("evolve time: %w", err)
	}
	return &Scheduler{
		committer: committer,
		evolver:   evolver,
		marker:    marker,
		commitAt:  ca,
		evolveAt:  ea,
		now:       time.Now,
	}, nil
}

func (s *Scheduler) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.cron = rcron.New()
	for _, spec := range []string{s.commitAt.cronSpec(), s.evolveAt.cronSpec()} {
		if _, err := s.cron.AddFunc(spec, func() {
			s.RunPending(runCtx, s.now())
		}); err != nil {
			cancel()
			return fmt.Errorf("register schedule %q: %w", spec, err)
		}
	}
	s.cron.Start()
	log.Printf("[scheduler] started, commit at %02d:%02d, evolve at %02d:%02d",
		s.commitAt.hour, s.commitAt.minute, s.evolveAt.hour, s.evolveAt.minute)

	// Catch up work missed while the process was down, then keep a
	// minute tick as a backstop for clock jumps the cron entries miss.
	s.RunPending(runCtx, s.now())
	go s.tickLoop(runCtx)

	return nil
}

func (s *Scheduler) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.RunPending(ctx, s.now())
		case <-ctx.Done():
			return
		}
	}
}

// RunPending executes whatever agenda items are due at now and not yet
// recorded in the marker. Evolution is checked first: its slot precedes
// the commit slot within a day.
func (s *Scheduler) RunPending(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := now.Format("2006-01-02")

	if s.evolveAt.reached(now) && s.marker.LastEvolveDate() != today {
		if err := s.evolver.EvolveDaily(ctx); err != nil {
			log.Printf("[scheduler] evolve failed: %v", err)
		} else if err := s.marker.SetEvolveDate(today); err != nil {
			log.Printf("[scheduler] failed to record evolve date: %v", err)
		}
	}

	if s.commitAt.reached(now) && s.marker.LastCommitDate() != today {
		if err := s.committer.CommitDaily(ctx); err != nil {
			log.Printf("[scheduler] commit failed: %v", err)
		} else if err := s.marker.SetCommitDate(today); err != nil {
			log.Printf("[scheduler] failed to record commit date: %v", err)
		}
	}
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	if s.cron != nil {
		stopCtx := s.cron.Stop()
		select {
		case <-stopCtx.Done():
		case <-time.After(5 * time.Second):
			log.Printf("[scheduler] stop timeout waiting for running jobs")
		}
	}
	log.Printf("[scheduler] stopped")
}
