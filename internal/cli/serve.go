package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/causalsim/causalsim/internal/config"
	"github.com/causalsim/causalsim/internal/graphfile"
	"github.com/causalsim/causalsim/internal/model"
	"github.com/causalsim/causalsim/internal/samples"
	"github.com/causalsim/causalsim/internal/server"
	"github.com/causalsim/causalsim/internal/store"
	"github.com/causalsim/causalsim/internal/store/postgres"
	"github.com/causalsim/causalsim/internal/store/sqlite"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	ConfigPath string
	ListenAddr string
	GraphsDir  string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the CausalSim HTTP API",
		Long: `Run the HTTP API over the configured graph store.

Without a config file the server uses an in-memory store seeded with
the built-in sample graphs. --graphs adds graph definitions from a
directory of .cue/.json files to the seed set.`,
		Example: `  causalsim serve
  causalsim serve --config causalsim.yaml
  causalsim serve --listen :8080 --graphs ./graphs`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&opts.ListenAddr, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.GraphsDir, "graphs", "", "directory of graph definitions to seed the store with")

	return cmd
}

func runServe(rootOpts *RootOptions, opts *ServeOptions, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if rootOpts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		cfg, err = config.Load(opts.ConfigPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "load config", err)
		}
		slog.Info("config loaded", "path", opts.ConfigPath)
	}
	if opts.ListenAddr != "" {
		cfg.ListenAddr = opts.ListenAddr
	}

	st, cleanup, err := openStore(cfg, opts.GraphsDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer cleanup()

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	app := server.New(st, cfg.Engine)
	slog.Info("server starting", "addr", cfg.ListenAddr, "store", cfg.Store.Backend)

	err = app.Listen(cfg.ListenAddr, fiber.ListenConfig{
		GracefulContext:       ctx,
		DisableStartupMessage: true,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "serve", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openStore builds the configured backend. For SQL backends the seed
// graphs are written through the normal CreateGraph path on startup.
func openStore(cfg config.Config, graphsDir string) (store.Store, func(), error) {
	seeds := samples.All()
	if graphsDir != "" {
		loaded, err := graphfile.LoadDir(graphsDir)
		if err != nil {
			return nil, nil, err
		}
		seeds = append(seeds, loaded...)
		slog.Info("graph definitions loaded", "dir", graphsDir, "count", len(loaded))
	}

	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemory(seeds...), func() {}, nil

	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := seedStore(st, seeds); err != nil {
			st.Close()
			return nil, nil, err
		}
		return st, func() {
			if err := st.Close(); err != nil {
				slog.Error("error closing database", "error", err)
			}
		}, nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(context.Background(), cfg.Store.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect: %w", err)
		}
		st := postgres.New(pool)
		if err := st.CreateSchema(context.Background()); err != nil {
			pool.Close()
			return nil, nil, err
		}
		if err := seedStore(st, seeds); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return st, func() { pool.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

// seedStore writes seed graphs that are not already present.
func seedStore(st store.Store, seeds []model.CausalGraph) error {
	ctx := context.Background()
	for i := range seeds {
		if _, err := st.GetGraph(ctx, seeds[i].ID); err == nil {
			continue // already present, keep whatever state it has
		}
		if err := st.CreateGraph(ctx, &seeds[i]); err != nil {
			return fmt.Errorf("seed graph %s: %w", seeds[i].ID, err)
		}
	}
	return nil
}
