package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/auth"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/config"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/export"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/metrics"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/replication"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/seed"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/server"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/service"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/internal/storage/sqlite"
	"github.com/rasilvabrandao-stack/FerramentasFlexmedicalKure/pkg/logging"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logging.Setup()

	root := &cli.Command{
		Name:  "ferramentas",
		Usage: "Tool checkout tracker: form, admin panel and spreadsheet export",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			exportCommand(),
		},
		Action: runServe,
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP server (default)",
		Action: runServe,
	}
}

func runServe(ctx context.Context, _ *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := slog.Default()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	doc, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return err
	}
	if _, err := seed.Apply(ctx, store, doc); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}

	authenticator := auth.NewPasswordAuthenticator(store)
	if err := authenticator.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(reg)

	replicator := replication.NewClient(replication.Config{
		URL:        cfg.ReplicationURL,
		MaxRetries: cfg.ReplicationMaxRetries,
		BaseDelay:  cfg.ReplicationBaseDelay,
		Timeout:    cfg.ReplicationTimeout,
		Rate:       cfg.ReplicationRate,
	}, replication.WithMetrics(collector), replication.WithLogger(logger))
	if !replicator.Enabled() {
		logger.Warn("REPLICATION_URL not set, movements stay local only")
	}

	router, err := server.NewRouter(&server.Deps{
		Checkout:   service.NewCheckoutService(store, replicator, collector, logger),
		Inventory:  service.NewInventoryService(store, logger),
		Auth:       service.NewAuthService(authenticator, jwtManager, logger),
		JWTManager: jwtManager,
		Exports:    export.NewBuilder(store),
		Metrics:    collector,
		Gatherer:   reg,
		StaticPath: cfg.StaticPath,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	// h2c serves HTTP/2 without TLS for Connect clients.
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "address", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply every pending migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withMigrator(func(m *migrate.Migrate) error {
						return m.Up()
					})
				},
			},
			{
				Name:  "down",
				Usage: "Roll back migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					steps := c.Int("steps")
					if steps < 1 {
						return fmt.Errorf("--steps must be at least 1")
					}
					return withMigrator(func(m *migrate.Migrate) error {
						return m.Steps(-steps)
					})
				},
			},
			{
				Name:  "version",
				Usage: "Print the current schema version",
				Action: func(ctx context.Context, c *cli.Command) error {
					return withMigrator(func(m *migrate.Migrate) error {
						version, dirty, err := m.Version()
						if errors.Is(err, migrate.ErrNilVersion) {
							fmt.Println("no migrations applied")
							return nil
						}
						if err != nil {
							return err
						}
						fmt.Printf("version %d (dirty: %t)\n", version, dirty)
						return nil
					})
				},
			},
		},
	}
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	cfg := config.LoadStorage()

	m, err := sqlite.NewMigrator(cfg.DBPath)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("Migration finished", "database", cfg.DBPath)
	return nil
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the workbook to a file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output path (default: timestamped name in the current directory)"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := config.LoadStorage()

			store, err := sqlite.New(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer store.Close()

			wb, err := export.NewBuilder(store).Build(ctx)
			if err != nil {
				return err
			}

			path := c.String("output")
			if path == "" {
				path = export.FileName(time.Now())
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := wb.WriteXLSX(f); err != nil {
				f.Close()
				os.Remove(path)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", path, err)
			}

			slog.Info("Workbook exported", "file", path)
			return nil
		},
	}
}
