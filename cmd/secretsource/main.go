package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"secretsource/internal/app/artists"
	"secretsource/internal/catalog"
	"secretsource/internal/config"
	"secretsource/internal/dataset"
	"secretsource/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	logging.SetGlobalLogger(logger)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = openDatabase(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to database")
		}
		defer db.Close()
	}

	registry := dataset.Default(cfg.Data.Dir, db)
	cache := catalog.NewCache(catalog.NewAggregator(registry.Datasets()...), cfg.IsDevelopment())

	if cfg.Data.Watch {
		watcher, err := dataset.NewWatcher(cfg.Data.Dir, cache, 500*time.Millisecond)
		if err != nil {
			log.Fatal().Err(err).Str("dir", cfg.Data.Dir).Msg("watch datasets")
		}
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	svc := artists.New(cache, registry, newEnrichment(cfg))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHTTPHandler(cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("env", cfg.Env).
			Strs("datasets", registry.Names()).
			Msg("secret source API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
