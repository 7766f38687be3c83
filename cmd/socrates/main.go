package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/socratesai/socrates/internal/agents"
	"github.com/socratesai/socrates/internal/ai"
	"github.com/socratesai/socrates/internal/config"
	"github.com/socratesai/socrates/internal/events"
	"github.com/socratesai/socrates/internal/maturity"
	"github.com/socratesai/socrates/internal/orchestrator"
	"github.com/socratesai/socrates/internal/storage"
	"github.com/socratesai/socrates/internal/storage/sqlite"
	"github.com/socratesai/socrates/internal/vector"
)

// Shared state wired in PersistentPreRunE and used by every subcommand
var (
	cfgPath string
	dbPath  string
	actor   string

	cfg    *config.Config
	logger *zap.Logger
	store  storage.Storage
	orch   *orchestrator.Orchestrator
	index  vector.Index
)

var rootCmd = &cobra.Command{
	Use:   "socrates",
	Short: "Socratic project development through AI-guided dialogue",
	Long: `Socrates guides a project from vague idea to concrete specification
through phased Socratic dialogue. Answers accumulate as spec entries,
maturity scoring gates phase transitions, and the knowledge base keeps
supporting documents searchable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if actor != "" {
		cfg.Actor = actor
	}

	logger, err = newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	store, err = storage.NewStorage(ctx, &storage.Config{Path: cfg.DBPath})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", cfg.DBPath, err)
	}

	// The vector index shares the storage database handle
	sqlStore, ok := store.(*sqlite.Store)
	if ok {
		index, err = vector.NewSQLiteIndex(&vector.Config{DB: sqlStore.DB(), Logger: logger})
		if err != nil {
			return fmt.Errorf("failed to initialize vector index: %w", err)
		}
	}

	scorer, err := maturity.NewScorer(cfg.Scoring)
	if err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}

	bus := events.NewBus(logger)

	// LLM access is optional: commands that need it fail at call time
	// with a clear error instead of blocking the whole CLI on an API key.
	var generator ai.Generator
	client, err := ai.NewClient(&ai.Config{
		Model:  cfg.Model,
		Store:  store,
		Bus:    bus,
		Logger: logger,
	})
	if err != nil {
		logger.Warn("llm client unavailable", zap.Error(err))
	} else {
		generator = client
	}

	orch = orchestrator.New(&orchestrator.Config{Bus: bus, Logger: logger})

	deps := &agents.Deps{
		Store:     store,
		Generator: generator,
		Index:     index,
		Scorer:    scorer,
		Bus:       bus,
		Logger:    logger,
	}
	if err := agents.RegisterAll(orch, deps); err != nil {
		return fmt.Errorf("failed to register agents: %w", err)
	}
	return nil
}

func teardown() {
	if store != nil {
		_ = store.Close()
	}
	if logger != nil {
		_ = logger.Sync()
	}
}

func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".socrates/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Author recorded on answers and notes (overrides config)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
