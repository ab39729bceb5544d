package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/huddleapp/community-api/internal/api"
	"github.com/huddleapp/community-api/internal/core/service"
	"github.com/huddleapp/community-api/internal/infrastructure/config"
	mongodb "github.com/huddleapp/community-api/internal/infrastructure/db/mongo"
	redisdb "github.com/huddleapp/community-api/internal/infrastructure/db/redis"
	"github.com/huddleapp/community-api/internal/infrastructure/queue"
	"github.com/huddleapp/community-api/internal/infrastructure/smtp"
	"github.com/huddleapp/community-api/internal/pkg/password"
	"github.com/huddleapp/community-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// The logger is not configured yet; write straight to stderr and die.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	userRepo := mongodb.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("mongodb index creation failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Services ---
	sessionCache := redisdb.NewSessionCache(rdb)
	tokenService := service.NewTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
		sessionCache,
	)

	mailer := smtp.NewMailer(cfg.SMTP, cfg.BaseURL)
	dispatcher := queue.NewDispatcher(0, mailer, log)
	dispatcher.Start(ctx)

	hasher := password.NewHasher(password.DefaultCost)
	authService := service.NewAuthService(userRepo, tokenService, hasher, dispatcher, log)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, authService, tokenService, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
