package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"regresa/internal/adapters/auth/identity"
	"regresa/internal/adapters/auth/jwt"
	"regresa/internal/adapters/oracle/gemini"
	"regresa/internal/adapters/oracle/openai"
	"regresa/internal/adapters/storage/postgres"
	"regresa/internal/config"
	"regresa/internal/matching"
	"regresa/internal/platform/logger"
	"regresa/internal/platform/metrics"
	"regresa/internal/ports/auth"
	"regresa/internal/router"
	"regresa/internal/store"
)

// @title Regresa API
// @version 1.0
// @description Reportes de mascotas perdidas, avistamientos y coincidencias por imagen.
// @BasePath /
func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "regresa",
		Short:         "API de mascotas perdidas y avistamientos",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "archivo YAML de configuración (o CONFIG_FILE)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Levanta el servidor HTTP",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Aplica las migraciones de Postgres y sale",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runMigrate(cmd.Context(), configPath)
			},
		},
	)
	return root
}

func loadConfig(path string) (config.Config, logger.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil && !errors.Is(err, config.ErrNoStore) {
		return cfg, nil, err
	}
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})
	return cfg, log, nil
}

func runServe(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	h := store.Open(ctx, cfg.Store, log, m)
	defer func() {
		if err := h.Close(); err != nil {
			log.Warn("store close failed", map[string]any{"error": err})
		}
	}()

	verifier, err := newVerifier(cfg.Auth)
	if err != nil {
		return err
	}
	oracle, err := newOracle(ctx, cfg.Oracle)
	if err != nil {
		return err
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Store:        h,
		Logger:       log,
		Metrics:      m,
		Oracle:       oracle,
		Match: matching.Options{
			Concurrency:   cfg.Match.Concurrency,
			MaxCandidates: cfg.Match.MaxCandidates,
			CallTimeout:   cfg.Oracle.Timeout,
		},
		Swagger: cfg.Swagger.Enabled,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{
			"addr":     cfg.Server.Addr,
			"store":    string(h.Mode),
			"driver":   h.Driver,
			"auth":     cfg.Auth.Mode,
			"oracle":   cfg.Oracle.Provider,
			"env":      cfg.Env,
			"swagger":  cfg.Swagger.Enabled,
			"matching": cfg.Match,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg, log, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Store.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate: store driver %q has no migrations", cfg.Store.Driver)
	}
	db, err := postgres.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info("migrations applied", nil)
	return nil
}

// newVerifier devuelve nil en modo dev: AuthContext acepta X-Debug-User-ID.
func newVerifier(cfg config.AuthConfig) (auth.AuthVerifier, error) {
	switch cfg.Mode {
	case config.AuthJWT:
		return jwt.NewVerifier(cfg.JWTSecret)
	case config.AuthIdentity:
		c, err := identity.NewClient(identity.Config{BaseURL: cfg.IdentityURL, APIKey: cfg.IdentityKey})
		if err != nil {
			return nil, err
		}
		return identity.NewVerifier(c), nil
	default:
		return nil, nil
	}
}

func newOracle(ctx context.Context, cfg config.OracleConfig) (matching.Oracle, error) {
	switch cfg.Provider {
	case config.OracleGemini:
		return gemini.New(ctx, gemini.Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL})
	case config.OracleOpenAI:
		return openai.New(openai.Config{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Timeout: cfg.Timeout})
	default:
		return matching.Disabled{}, nil
	}
}
