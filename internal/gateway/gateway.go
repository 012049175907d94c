package gateway

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/darkstrike03/nyx/internal/archive"
	"github.com/darkstrike03/nyx/internal/bus"
	"github.com/darkstrike03/nyx/internal/channel"
	"github.com/darkstrike03/nyx/internal/config"
	"github.com/darkstrike03/nyx/internal/consolidate"
	"github.com/darkstrike03/nyx/internal/llm"
	"github.com/darkstrike03/nyx/internal/mood"
	"github.com/darkstrike03/nyx/internal/personality"
	"github.com/darkstrike03/nyx/internal/scheduler"
	"github.com/darkstrike03/nyx/internal/search"
	"github.com/darkstrike03/nyx/internal/session"
)

// Options for creating a Gateway
type Options struct {
	LLM        llm.Client
	Search     search.Client
	Archive    archive.Service
	SignalChan chan os.Signal // for testing signal handling
}

type Gateway struct {
	cfg        *config.Config
	bus        *bus.MessageBus
	channels   *channel.ChannelManager
	store      *session.SQLiteStore
	logger     *session.Logger
	traits     personality.Store
	llm        llm.Client
	search     search.Client
	sched      *scheduler.Scheduler
	committer  *consolidate.Committer
	evolver    *consolidate.Evolver
	signalChan chan os.Signal // for testing
}

// New creates a Gateway with default options
func New(cfg *config.Config) (*Gateway, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Gateway with custom options for testing
func NewWithOptions(cfg *config.Config, opts Options) (*Gateway, error) {
	g := &Gateway{cfg: cfg}

	g.bus = bus.NewMessageBus(config.DefaultBufSize)

	// Session log
	dbPath := strings.TrimSpace(cfg.Memory.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join(config.DataDir(), "session.db")
	}
	store, err := session.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	g.store = store
	g.logger = session.NewLogger(store)

	// Personality traits, seeded from the persona file on first run
	seed, err := personality.LoadSeed(filepath.Join(cfg.Agent.Workspace, personality.PersonaFileName))
	if err != nil {
		log.Printf("[gateway] persona seed warning: %v", err)
		seed = personality.Default()
	}
	g.traits = personality.NewFileStore(filepath.Join(config.DataDir(), "personality.json"), seed)

	// Archive-backed daily consolidation
	arch := opts.Archive
	if arch == nil {
		arch = archive.NewGitHubClient(cfg.Archive)
	}
	g.committer = consolidate.NewCommitter(store, arch, cfg.Archive.PathPrefix)
	g.evolver = consolidate.NewEvolver(arch, g.traits, cfg.Archive.PathPrefix)

	marker, err := consolidate.NewMarker(filepath.Join(config.DataDir(), "lastrun.json"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("open last-run marker: %w", err)
	}
	sched, err := scheduler.New(g.committer, g.evolver, marker, cfg.Memory.CommitAt, cfg.Memory.EvolveAt)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	g.sched = sched

	g.llm = opts.LLM
	if g.llm == nil {
		g.llm = llm.NewClient(cfg)
	}
	g.search = opts.Search
	if g.search == nil {
		g.search = search.NewClient(cfg)
	}

	chMgr, err := channel.NewChannelManager(cfg.Channels, g.bus)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr

	g.signalChan = opts.SignalChan

	return g, nil
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	log.Printf("[gateway] channels started: %v", g.channels.EnabledChannels())

	if err := g.sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	go g.processLoop(ctx)

	log.Printf("[gateway] running")

	// Use injected signal channel for testing, or create default
	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	<-sigCh

	log.Printf("[gateway] shutting down...")
	return g.Shutdown()
}

func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case msg := <-g.bus.Inbound:
			log.Printf("[gateway] inbound from %s/%s: %s", msg.Channel, msg.SenderID, truncate(msg.Content, 80))

			result := g.Respond(ctx, msg.Content)
			if result != "" {
				g.bus.Outbound <- bus.OutboundMessage{
					Channel: msg.Channel,
					ChatID:  msg.ChatID,
					Content: result,
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// Respond handles one chat turn: classify the mood, log the entry, then
// answer either from web search or from the model in persona.
func (g *Gateway) Respond(ctx context.Context, content string) string {
	label := mood.Classify(content)
	intent := session.InferIntent(content)
	if _, err := g.logger.Log(ctx, content, label, intent); err != nil {
		log.Printf("[gateway] session log warning: %v", err)
	}

	if query, ok := strings.CutPrefix(content, "/search "); ok {
		results, err := g.search.Search(ctx, query)
		if err != nil {
			log.Printf("[gateway] search error: %v", err)
			return "Search failed, try again later."
		}
		return search.FormatResults(results)
	}

	persona, err := g.traits.Get()
	if err != nil {
		log.Printf("[gateway] load traits warning: %v", err)
		persona = personality.Default()
	}

	result, err := g.llm.Generate(ctx, persona, content)
	if err != nil {
		log.Printf("[gateway] model error: %v", err)
		return "Sorry, I encountered an error processing your message."
	}
	return result
}

// CommitNow runs the end-of-day consolidation immediately.
func (g *Gateway) CommitNow(ctx context.Context) error {
	return g.committer.CommitDaily(ctx)
}

// EvolveNow applies yesterday's digest to the traits immediately.
func (g *Gateway) EvolveNow(ctx context.Context) error {
	return g.evolver.EvolveDaily(ctx)
}

func (g *Gateway) Shutdown() error {
	g.sched.Stop()
	_ = g.channels.StopAll()
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			log.Printf("[gateway] close session store warning: %v", err)
		}
	}
	log.Printf("[gateway] shutdown complete")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
