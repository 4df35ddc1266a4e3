package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	accountservice "carbono/contexts/account-core/account-service"
	"carbono/contexts/account-core/account-service/adapters/credentials"
	accountpostgres "carbono/contexts/account-core/account-service/adapters/postgres"
	accountapp "carbono/contexts/account-core/account-service/application"
	projectservice "carbono/contexts/account-core/project-service"
	projectpostgres "carbono/contexts/account-core/project-service/adapters/postgres"
	"carbono/contexts/account-core/project-service/domain/services"
	projectports "carbono/contexts/account-core/project-service/ports"
	"carbono/internal/platform/config"
	"carbono/internal/platform/db"
	"carbono/internal/platform/httpserver"
	"carbono/internal/shared/minting"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	projects     projectservice.Module
	pollInterval time.Duration
	enabled      bool
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, cfg.PostgresPingTimeout)
	if err != nil {
		return nil, err
	}

	accounts, projects, err := buildModules(pg, cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(accounts, projects, logger, normalizeAddr(cfg.HTTPPort), cfg.EnableSwagger)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, cfg.PostgresPingTimeout)
	if err != nil {
		return nil, err
	}

	_, projects, err := buildModules(pg, cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	projects.Reconciler.BatchSize = cfg.ReconcilerBatch

	return &WorkerApp{
		postgres:     pg,
		projects:     projects,
		pollInterval: cfg.ReconcilerInterval,
		enabled:      cfg.EnableAccessReconciler,
		logger:       logger,
	}, nil
}

func buildModules(pg *db.Postgres, cfg config.Config, logger *slog.Logger) (accountservice.Module, projectservice.Module, error) {
	minter := minting.Minter{MaxAttempts: cfg.MintMaxAttempts, Logger: logger}

	accountRepo := accountpostgres.NewRepository(pg.DB, logger)
	accounts := accountservice.NewModule(accountservice.Dependencies{
		Repository: accountRepo,
		Hasher:     credentials.BcryptHasher{Cost: cfg.BcryptCost},
		Clock:      accountpostgres.SystemClock{},
		Minter:     minter,
		Logger:     logger,
	})

	projectRepo := projectpostgres.NewRepository(pg.DB, logger)
	projects := projectservice.NewModule(projectservice.Dependencies{
		Repository: projectRepo,
		Grants:     projectRepo,
		Directory:  profileDirectoryBridge{accounts: accounts.Service},
		Clock:      projectpostgres.SystemClock{},
		Minter:     minter,
		Logger:     logger,
	})

	// Seed the tier catalog so resolution never trips over a missing row.
	names := make([]string, 0, len(services.GrantableTiers()))
	for _, tier := range services.GrantableTiers() {
		names = append(names, string(tier))
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := projectRepo.EnsureTiers(ctx, names); err != nil {
		return accountservice.Module{}, projectservice.Module{}, err
	}

	return accounts, projects, nil
}

// profileDirectoryBridge adapts the account-service application API to the
// project-service directory port, keeping the contexts decoupled at the
// type level.
type profileDirectoryBridge struct {
	accounts accountapp.Service
}

func (b profileDirectoryBridge) ResolveProfileByEmail(ctx context.Context, email string) (projectports.ProfileRef, bool, error) {
	profile, found, err := b.accounts.FindProfileByEmail(ctx, email)
	if err != nil || !found {
		return projectports.ProfileRef{}, found, err
	}
	return projectports.ProfileRef{
		ID:   profile.ID,
		Code: profile.Code,
		Name: profile.Name,
	}, true, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("access reconciler disabled",
			"event", "bootstrap_worker_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if _, err := w.projects.Reconciler.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
