package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/darkstrike03/nyx/internal/config"
	"github.com/darkstrike03/nyx/internal/gateway"
	"github.com/darkstrike03/nyx/internal/personality"
	"github.com/darkstrike03/nyx/internal/session"
)

// Responder answers one chat turn (allows mocking in tests)
type Responder interface {
	Respond(ctx context.Context, content string) string
	Shutdown() error
}

// ResponderFactory creates a Responder instance
type ResponderFactory func(cfg *config.Config) (Responder, error)

// DefaultResponderFactory wires the full gateway as the responder
func DefaultResponderFactory(cfg *config.Config) (Responder, error) {
	if cfg.Provider.APIKey == "" {
		return nil, fmt.Errorf("API key not set. Run 'nyx onboard' or set NYX_OPENROUTER_API_KEY / OPENROUTER_API_KEY")
	}
	return gateway.New(cfg)
}

// ChatOptions for running chat with custom dependencies
type ChatOptions struct {
	ResponderFactory ResponderFactory
	Stdin            io.Reader
	Stdout           io.Writer
	Stderr           io.Writer
}

var rootCmd = &cobra.Command{
	Use:   "nyx",
	Short: "nyx - AI companion with an evolving personality",
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat in single message or REPL mode",
	RunE:  runChat,
}

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Start the full gateway (channels + daily memory cycle)",
	RunE:  runGateway,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize config, persona and data directories",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show nyx status",
	RunE:  runStatus,
}

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Run the end-of-day memory commit now",
	RunE:  runCommit,
}

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Apply yesterday's digest to the personality now",
	RunE:  runEvolve,
}

var messageFlag string

func init() {
	chatCmd.Flags().StringVarP(&messageFlag, "message", "m", "", "Single message to send")
	rootCmd.AddCommand(chatCmd, gatewayCmd, onboardCmd, statusCmd, commitCmd, evolveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runChat is the command handler that uses default options
func runChat(cmd *cobra.Command, args []string) error {
	return runChatWithOptions(ChatOptions{})
}

// runChatWithOptions runs chat with injectable dependencies for testing
func runChatWithOptions(opts ChatOptions) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	factory := opts.ResponderFactory
	if factory == nil {
		factory = DefaultResponderFactory
	}

	r, err := factory(cfg)
	if err != nil {
		return err
	}
	defer r.Shutdown()

	stdin := opts.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	ctx := context.Background()

	// Single message mode
	if messageFlag != "" {
		fmt.Fprintln(stdout, r.Respond(ctx, messageFlag))
		return nil
	}

	// REPL mode
	fmt.Fprintln(stdout, "nyx chat (type 'exit' to quit, '/search <q>' for web search)")
	scanner := bufio.NewScanner(stdin)
	for {
		fmt.Fprint(stdout, "\n> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			break
		}

		fmt.Fprintln(stdout, r.Respond(ctx, input))
	}
	return nil
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("API key not set. Run 'nyx onboard' or set NYX_OPENROUTER_API_KEY / OPENROUTER_API_KEY")
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	return gw.Run(context.Background())
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgDir := config.ConfigDir()
	cfgPath := config.ConfigPath()

	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := config.SaveConfig(config.DefaultConfig()); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := os.MkdirAll(cfg.Agent.Workspace, 0755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	if err := os.MkdirAll(config.DataDir(), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	writeIfNotExists(filepath.Join(cfg.Agent.Workspace, personality.PersonaFileName), personality.DefaultPersonaMD)

	fmt.Printf("Workspace ready: %s\n", cfg.Agent.Workspace)
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to set your OpenRouter API key and archive repo\n", cfgPath)
	fmt.Println("  2. Or set NYX_OPENROUTER_API_KEY and NYX_GITHUB_TOKEN")
	fmt.Println("  3. Run 'nyx chat -m \"Hello\"' to test")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Workspace: %s\n", cfg.Agent.Workspace)
	fmt.Printf("Model: %s\n", cfg.Agent.Model)
	fmt.Printf("API Key: %s\n", maskKey(cfg.Provider.APIKey))
	if cfg.Archive.Owner != "" && cfg.Archive.Repo != "" {
		fmt.Printf("Archive: %s/%s (%s)\n", cfg.Archive.Owner, cfg.Archive.Repo, cfg.Archive.Branch)
	} else {
		fmt.Println("Archive: not configured")
	}
	fmt.Printf("Archive token: %s\n", maskKey(cfg.Archive.Token))
	fmt.Printf("Search key: %s\n", maskKey(cfg.Search.APIKey))
	fmt.Printf("Telegram: enabled=%v\n", cfg.Channels.Telegram.Enabled)
	fmt.Printf("Schedule: commit %s, evolve %s\n", cfg.Memory.CommitAt, cfg.Memory.EvolveAt)

	traits := personality.NewFileStore(filepath.Join(config.DataDir(), "personality.json"), personality.Default())
	if state, err := traits.Get(); err == nil {
		fmt.Printf("Personality: tone=%s humor=%s curiosity=%.2f\n", state.Tone, state.Humor, state.CuriosityLevel)
	}

	dbPath := strings.TrimSpace(cfg.Memory.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join(config.DataDir(), "session.db")
	}
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Println("Session log: empty (no database yet)")
		return nil
	}
	store, err := session.NewSQLiteStore(dbPath)
	if err != nil {
		fmt.Printf("Session log: error (%v)\n", err)
		return nil
	}
	defer store.Close()
	if n, err := store.Count(context.Background()); err == nil {
		fmt.Printf("Session log: %d entries pending commit\n", n)
	}

	return nil
}

func runCommit(cmd *cobra.Command, args []string) error {
	gw, err := loadGateway()
	if err != nil {
		return err
	}
	defer gw.Shutdown()

	if err := gw.CommitNow(context.Background()); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	fmt.Println("Memory committed.")
	return nil
}

func runEvolve(cmd *cobra.Command, args []string) error {
	gw, err := loadGateway()
	if err != nil {
		return err
	}
	defer gw.Shutdown()

	if err := gw.EvolveNow(context.Background()); err != nil {
		return fmt.Errorf("evolve: %w", err)
	}
	fmt.Println("Personality evolved.")
	return nil
}

func loadGateway() (*gateway.Gateway, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	gw, err := gateway.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create gateway: %w", err)
	}
	return gw, nil
}

func maskKey(key string) string {
	if key == "" {
		return "not set"
	}
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "set"
}

func writeIfNotExists(path, content string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = os.WriteFile(path, []byte(content), 0644)
		fmt.Printf("  Created: %s\n", path)
	}
}
