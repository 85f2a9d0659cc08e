package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jacentio/lattice/internal/config"
	"github.com/jacentio/lattice/internal/server"
	"github.com/jacentio/lattice/store"
	"github.com/jacentio/lattice/stream"
)

func newServeCommand(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Load configuration, import seed data, and serve the JSON API until
interrupted.

Configuration precedence (highest to lowest): flags, LATTICE_* environment
variables, config file, defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg, cfg.NewLogger(cmd.ErrOrStderr()))
		},
	}
	addServeFlags(cmd)
	return cmd
}

// runServe builds the store and serves until ctx is cancelled.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	s := newStore(cfg, logger)

	if cfg.SeedEnabled {
		seed, err := loadSeed(cfg.SeedFile)
		if err != nil {
			return err
		}
		if err := s.Import(ctx, seed); err != nil {
			return fmt.Errorf("import seed: %w", err)
		}
	}

	srv := server.NewServer(server.Config{
		Store:           s,
		Addr:            cfg.Addr,
		MaxDepth:        cfg.MaxDepth,
		ShutdownTimeout: cfg.ShutdownTimeout,
		Logger:          logger,
	})
	return srv.Serve(ctx)
}

func newStore(cfg *config.Config, logger *slog.Logger) *store.Store {
	storeCfg := store.DefaultConfig()
	storeCfg.Logger = logger

	if cfg.Audit {
		s, _ := stream.NewAuditedStore(storeCfg, logger)
		return s
	}
	return store.New(storeCfg)
}

// loadSeed reads the seed file, or the built-in seed when path is empty.
func loadSeed(path string) (store.Seed, error) {
	if path == "" {
		return store.DefaultSeed()
	}

	f, err := os.Open(path)
	if err != nil {
		return store.Seed{}, fmt.Errorf("open seed file: %w", err)
	}
	defer func() { _ = f.Close() }()

	seed, err := store.LoadSeed(f)
	if err != nil {
		return store.Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return seed, nil
}
