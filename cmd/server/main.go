// Command server runs the gate credential-verification service.
//
// Configuration is layered: built-in defaults, a YAML file (-config flag,
// GATE_CONFIG env, ./config.yaml, /etc/gate/config.yaml), then GATE_*
// environment overrides. See pkg/config for the full surface.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sentra-dev/gate/pkg/auth"
	"github.com/sentra-dev/gate/pkg/auth/basic"
	"github.com/sentra-dev/gate/pkg/auth/hmacsig"
	"github.com/sentra-dev/gate/pkg/auth/session"
	"github.com/sentra-dev/gate/pkg/config"
	"github.com/sentra-dev/gate/pkg/credential"
	"github.com/sentra-dev/gate/pkg/lockout"
	"github.com/sentra-dev/gate/pkg/password"
	"github.com/sentra-dev/gate/pkg/storage/memory"
	"github.com/sentra-dev/gate/pkg/storage/postgres"
	"github.com/sentra-dev/gate/pkg/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	policy := lockout.Policy{
		MaxAttempts:  cfg.Auth.Lockout.MaxAttempts,
		LockDuration: cfg.Auth.Lockout.LockDuration,
	}

	// Select the credential repository.
	var repo credential.Repository
	switch cfg.Storage.Type {
	case "postgres":
		store, err := postgres.New(context.Background(), postgres.Config{
			DSN:            cfg.Storage.Postgres.DSN,
			MaxConns:       cfg.Storage.Postgres.MaxConns,
			MigrateOnStart: cfg.Storage.Postgres.MigrateOnStart,
			Lockout:        policy,
		})
		if err != nil {
			return fmt.Errorf("creating postgres repository: %w", err)
		}
		defer store.Close()
		repo = store
		slog.Info("storage enabled", "type", "postgres")
	default:
		repo = memory.New(policy)
		slog.Info("storage enabled", "type", "memory")
	}

	// Assemble the core.
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	service := credential.NewService(repo, hasher, credential.RandomIssuer{})

	sessions, err := session.NewManager(session.Config{
		Secret:     []byte(cfg.Auth.Session.Secret),
		TTL:        cfg.Auth.Session.TTL,
		CookieName: cfg.Auth.Session.CookieName,
		Secure:     cfg.Auth.Session.Secure,
	})
	if err != nil {
		return fmt.Errorf("creating session manager: %w", err)
	}

	verifier := hmacsig.NewVerifier(repo, hmacsig.WithSkew(cfg.Auth.HMACSkew))

	dispatcher := &auth.Dispatcher{
		Hmac:    hmacsig.NewStrategy(verifier),
		Session: session.NewStrategy(sessions, repo),
	}

	handlers := &transport.Handlers{Service: service, Sessions: sessions}
	router := transport.NewRouter(handlers, dispatcher, basic.NewStrategy(service), transport.RouterConfig{
		LoginURL:       cfg.Auth.LoginURL,
		MetricsEnabled: cfg.Observability.Metrics.Enabled,
		MetricsPath:    cfg.Observability.Metrics.Path,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "storage", cfg.Storage.Type)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
