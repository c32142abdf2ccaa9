package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	frameflow "github.com/frameflow/frameflow"
	"github.com/frameflow/frameflow/httpapi"
	"github.com/frameflow/frameflow/metrics"
)

func main() {
	logger := frameflow.NewZerologLogger(os.Stderr, "frameflow")

	cfg, err := frameflow.LoadSettings()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *frameflow.Settings, logger frameflow.Logger) error {
	ctx := context.Background()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := frameflow.RunMigrations(ctx, db); err != nil {
		return err
	}

	repo := frameflow.NewRepositoryManager(db)
	repo.MustValidate()

	registry := prometheus.NewRegistry()
	sink := metrics.NewCollector(registry)

	hasher := frameflow.NewBcryptHasher(cfg.GetHashCost())
	tokens := frameflow.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)

	strategies := frameflow.NewStrategyRegistry(logger).
		Use(frameflow.NewPasswordStrategy(repo.Users(), hasher)).
		Use(frameflow.NewBearerStrategy(tokens, repo.Users()))

	auther := frameflow.NewAuthenticator(repo.Users(), strategies, hasher, tokens).
		WithLogger(logger).
		WithActivitySink(sink)

	emitter := frameflow.NewNotificationEmitter(repo.Notifications()).
		WithLogger(logger).
		WithActivitySink(sink)

	interactions := frameflow.NewInteractions(repo, emitter).
		WithLogger(logger).
		WithActivitySink(sink)

	uploader, err := frameflow.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		return err
	}

	content := frameflow.NewContent(repo, uploader).WithLogger(logger)

	server := httpapi.New(httpapi.Deps{
		Auth:         auther,
		Tokens:       tokens,
		Repo:         repo,
		Content:      content,
		Interactions: interactions,
		Gatherer:     registry,
		Logger:       logger,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := server.App().Shutdown(); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.ListenAddr)
	return server.Listen(cfg.ListenAddr)
}
