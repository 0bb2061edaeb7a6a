package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"foodgram/internal/config"
	"foodgram/internal/database"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/pkg/logger"
	"foodgram/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	images, err := server.NewImageStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.ImageStore).Msg("image store")
	}

	router, err := server.NewRouter(server.Deps{
		Config: cfg,
		DB:     db,
		Images: images,
		Tokens: jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router")
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server stopped")
}
