package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"accounts/internal/config"
	"accounts/internal/db"
	"accounts/internal/db/migrations"
	"accounts/internal/lifecycle"
	"accounts/internal/logger"
	"accounts/internal/repository"
	"accounts/internal/routes"
	"accounts/internal/security"
	"accounts/internal/services"
)

func main() {
	if err := run(); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	sender, err := newSender(ctx, cfg)
	if err != nil {
		return err
	}

	issuer, err := security.NewTokenIssuer(security.TokenConfig{
		Secret: cfg.SigningSecret,
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return err
	}

	ctrl, err := lifecycle.NewController(lifecycle.Config{
		SigningSecret:    cfg.SigningSecret,
		MailSender:       cfg.MailSender,
		MailPassword:     cfg.MailPassword,
		MailFrom:         cfg.MailFrom,
		ResetLinkBase:    cfg.ResetLinkBase,
		ValidateLinkBase: cfg.ValidateLinkBase,
		TokenTTL:         cfg.TokenTTL,
		ResetTokenTTL:    cfg.ResetTokenTTL,
		VerifyTokenTTL:   cfg.VerifyTokenTTL,
		NotifyTimeout:    cfg.NotifyTimeout,
	}, lifecycle.Deps{
		Store:  store,
		Hasher: security.NewBcryptHasher(cfg.BcryptCost),
		Sender: sender,
		Issuer: issuer,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(cfg, store, ctrl, issuer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server")

	// give in-flight requests 5 seconds
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.AccountRepository, func(), error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory account store; accounts are lost on restart")
		return repository.NewMemoryAccountRepository(), func() {}, nil
	}

	if err := db.CreateDatabaseIfNotExists(ctx, cfg.DatabaseURL); err != nil {
		return nil, nil, fmt.Errorf("ensure database exists: %w", err)
	}

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if err := migrations.RunMigrations(ctx, database.DB); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	return repository.NewAccountRepository(database.DB), func() { _ = database.Close() }, nil
}

func newSender(ctx context.Context, cfg *config.Config) (services.EmailSender, error) {
	switch cfg.MailTransport {
	case "ses":
		sesCfg, err := config.NewSESConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ses config: %w", err)
		}
		return services.NewSESSender(sesCfg.Client, sesCfg.From), nil
	case "log":
		return &services.LogSender{
			Logger:      logger.WithModule("mail"),
			IncludeBody: cfg.Environment == "development",
		}, nil
	default:
		return &services.SMTPSender{
			Host:   cfg.SMTPHost,
			Port:   cfg.SMTPPort,
			User:   cfg.MailSender,
			Pass:   cfg.MailPassword,
			From:   cfg.MailFrom,
			UseTLS: cfg.SMTPUseTLS,
		}, nil
	}
}
