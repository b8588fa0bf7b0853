package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entanglenet/distill-agent/application"
	"github.com/entanglenet/distill-agent/domain/config"
	"github.com/entanglenet/distill-agent/domain/game"
	"github.com/entanglenet/distill-agent/domain/ledger"
	"github.com/entanglenet/distill-agent/infrastructure/gameclient"
	"github.com/entanglenet/distill-agent/infrastructure/logging"
	"github.com/entanglenet/distill-agent/infrastructure/resilience"
	"github.com/entanglenet/distill-agent/infrastructure/storage/badgerstore"
)

// runOptions holds options for the run command.
type runOptions struct {
	configPath    string
	preset        string
	serverURL     string
	playerID      string
	playerName    string
	apiToken      string
	register      bool
	startNode     string
	restart       bool
	maxIterations int
	storeDir      string
	jsonOutput    bool
	verbose       bool
}

// newRunCmd creates the run command.
func (a *App) newRunCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an autonomous claiming session",
		Long: `Run the decision loop against the game server until a stop condition
fires: frontier exhausted, budget at the reserve floor, retry caps hit on
every viable edge, or the iteration cap reached.

Examples:
  # Run with a named preset
  distill-agent run --player alice --token TOKEN --preset aggressive

  # Register first, pick a starting node, then play
  distill-agent run --player alice --name "Alice" --register --start-node n4

  # Run from a config file, persisting the session ledger
  distill-agent run -c agent.yaml --player alice --token TOKEN --store-dir ./sessions`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSession(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "Named preset: default, aggressive, conservative")
	cmd.Flags().StringVar(&opts.serverURL, "server", "", "Game server URL (overrides config)")
	cmd.Flags().StringVar(&opts.playerID, "player", "", "Player ID")
	cmd.Flags().StringVar(&opts.playerName, "name", "", "Display name used at registration")
	cmd.Flags().StringVar(&opts.apiToken, "token", "", "API token from a previous registration")
	cmd.Flags().BoolVar(&opts.register, "register", false, "Register the player before running")
	cmd.Flags().StringVar(&opts.startNode, "start-node", "", "Starting node to select after registration")
	cmd.Flags().BoolVar(&opts.restart, "restart", false, "Restart the game before running")
	cmd.Flags().IntVar(&opts.maxIterations, "max-iterations", 0, "Iteration cap (overrides config)")
	cmd.Flags().StringVar(&opts.storeDir, "store-dir", "", "Directory for the persistent session ledger")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the run summary as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// loadConfig resolves the configuration from file, preset, and flags.
func (opts *runOptions) loadConfig() (config.Config, error) {
	var cfg config.Config
	var err error

	switch {
	case opts.configPath != "":
		cfg, err = config.Load(opts.configPath)
	default:
		cfg, err = config.Preset(opts.preset)
	}
	if err != nil {
		return config.Config{}, err
	}

	if opts.serverURL != "" {
		cfg.Client.BaseURL = opts.serverURL
	}
	if opts.playerID != "" {
		cfg.Client.PlayerID = opts.playerID
	}
	if opts.apiToken != "" {
		cfg.Client.APIToken = opts.apiToken
	}
	if opts.maxIterations > 0 {
		cfg.MaxIterations = opts.maxIterations
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	if cfg.Client.PlayerID == "" {
		return config.Config{}, fmt.Errorf("player ID is required (--player or config)")
	}
	return cfg, nil
}

// runSession executes one autonomous session.
func (a *App) runSession(ctx context.Context, opts *runOptions) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	client := gameclient.New(gameclient.Config{
		BaseURL:  cfg.Client.BaseURL,
		APIToken: cfg.Client.APIToken,
		PlayerID: cfg.Client.PlayerID,
		Timeout:  cfg.Client.Timeout,
		Executor: resilience.NewExecutor(resilience.Config{
			RetryMaxAttempts:  cfg.Resilience.RetryMaxAttempts,
			RetryInitialDelay: cfg.Resilience.RetryInitialDelay,
			BreakerThreshold:  cfg.Resilience.BreakerThreshold,
			BreakerTimeout:    cfg.Resilience.BreakerTimeout,
			FetchTimeout:      cfg.Client.Timeout,
			SubmitTimeout:     cfg.Resilience.SubmitTimeout,
		}),
	})

	if opts.register {
		if err := client.Register(ctx, opts.playerName); err != nil {
			return fmt.Errorf("register: %w", err)
		}
		fmt.Fprintf(a.stdout, "registered player %s\n", cfg.Client.PlayerID)
	}
	if opts.restart {
		if err := client.Restart(ctx); err != nil {
			return fmt.Errorf("restart: %w", err)
		}
	}
	if opts.startNode != "" {
		if err := client.SelectStartingNode(ctx, game.NodeID(opts.startNode)); err != nil {
			return fmt.Errorf("select starting node: %w", err)
		}
		fmt.Fprintf(a.stdout, "starting node %s selected\n", opts.startNode)
	}

	var store ledger.Store
	if opts.storeDir != "" {
		s, err := badgerstore.NewSessionStore(badgerstore.DefaultConfig(), badgerstore.WithDir(opts.storeDir))
		if err != nil {
			return fmt.Errorf("open session store: %w", err)
		}
		defer func() { _ = s.Close() }()
		store = s
	}

	engine, err := application.NewEngine(application.EngineConfig{
		Client: client,
		Config: cfg,
		Store:  store,
	})
	if err != nil {
		return err
	}

	summary, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(out))
		return nil
	}

	fmt.Fprintf(a.stdout, "session %s finished\n", engine.SessionID())
	fmt.Fprintf(a.stdout, "  iterations:        %d\n", summary.Iterations)
	fmt.Fprintf(a.stdout, "  successful claims: %d\n", summary.SuccessfulClaims)
	fmt.Fprintf(a.stdout, "  failed attempts:   %d\n", summary.FailedAttempts)
	fmt.Fprintf(a.stdout, "  final score:       %d\n", summary.FinalScore)
	fmt.Fprintf(a.stdout, "  final budget:      %d\n", summary.FinalBudget)
	fmt.Fprintf(a.stdout, "  owned nodes:       %d\n", summary.OwnedNodes)
	fmt.Fprintf(a.stdout, "  owned edges:       %d\n", summary.OwnedEdges)
	fmt.Fprintf(a.stdout, "  stop reason:       %s\n", summary.StopReason)
	return nil
}
