package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Tiliavir/nexus/internal/assistant"
	"github.com/Tiliavir/nexus/internal/config"
	"github.com/Tiliavir/nexus/internal/storage"
	"github.com/Tiliavir/nexus/internal/storage/postgres"
	"github.com/Tiliavir/nexus/internal/storage/redis"
	"github.com/Tiliavir/nexus/internal/storage/sqlite"
	"github.com/Tiliavir/nexus/internal/workspace"
)

// session bundles what every command needs.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	ws     *workspace.Workspace
	gw     *storage.Gateway
	ai     *assistant.Assistant
}

func (s *session) Close() {
	if err := s.gw.Close(); err != nil {
		s.logger.Warn("closing store", "err", err)
	}
}

// exit is swapped out in tests.
var exit = os.Exit

// fail prints err, closes the store and exits with code. os.Exit skips
// deferred calls, so commands use this instead of exiting directly once a
// session is open.
func (s *session) fail(err error, code int) {
	fmt.Fprintln(os.Stderr, err)
	s.Close()
	exit(code)
}

// loadConfig reads the config and applies command-line overrides.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if backendFlag != "" {
		cfg.Storage.Backend = backendFlag
	}
	return cfg
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore connects the configured storage backend.
func openStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return storage.NewFileStore(cfg.DataDir), nil
	case config.BackendSQLite:
		return sqlite.Open(ctx, cfg.SQLitePath)
	case config.BackendRedis:
		return redis.Dial(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.BackendPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres backend needs storage.postgres_url or NEXUS_POSTGRES_URL")
		}
		return postgres.Connect(ctx, cfg.PostgresURL, "")
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want file, sqlite, redis or postgres)", cfg.Backend)
	}
}

// newAssistant returns the configured remote classifier, or nil when none is
// configured. A provider without an API key is reported and disabled.
func newAssistant(ctx context.Context, cfg config.AssistantConfig, logger *slog.Logger) *assistant.Assistant {
	if cfg.Provider == "" {
		return nil
	}
	if cfg.APIKey == "" {
		logger.Warn("assistant disabled: no API key in environment", "provider", cfg.Provider)
		return nil
	}

	var (
		m   assistant.Model
		err error
	)
	switch cfg.Provider {
	case config.ProviderGemini:
		m, err = assistant.NewGemini(ctx, cfg.APIKey, cfg.Model, "")
	case config.ProviderClaude:
		m, err = assistant.NewClaude(cfg.APIKey, cfg.Model)
	default:
		err = fmt.Errorf("unknown assistant provider %q", cfg.Provider)
	}
	if err != nil {
		logger.Warn("assistant disabled", "err", err)
		return nil
	}
	logger.Debug("assistant enabled", "provider", cfg.Provider, "model", m.Name())
	return assistant.New(m, assistant.WithLogger(logger))
}

// exitCode maps rejected input and unknown ids to 1, everything else
// (storage, network) to 2.
func exitCode(err error) int {
	if errors.Is(err, workspace.ErrValidation) || errors.Is(err, storage.ErrNotFound) {
		return 1
	}
	return 2
}

// openSession loads the config, opens the store and loads the workspace.
// Storage failures exit with status 2.
func openSession(ctx context.Context) *session {
	cfg := loadConfig()
	logger := newLogger(cfg)

	store, err := openStore(ctx, cfg.Storage)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.Debug("store opened", "backend", cfg.Storage.Backend)

	ai := newAssistant(ctx, cfg.Assistant, logger)
	gw := storage.NewGateway(store, logger)
	ws := workspace.New(gw,
		workspace.WithLogger(logger),
		workspace.WithAssistant(ai),
		workspace.WithDefaultCollection(cfg.Storage.DefaultCollection),
	)
	s := &session{cfg: cfg, logger: logger, ws: ws, gw: gw, ai: ai}
	if err := ws.Load(ctx); err != nil {
		s.fail(err, 2)
	}
	if _, ok := ws.Collection(cfg.Storage.DefaultCollection); !ok {
		s.fail(fmt.Errorf("default_collection %q in config matches no collection", cfg.Storage.DefaultCollection), 1)
	}
	return s
}
