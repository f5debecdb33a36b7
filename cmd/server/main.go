package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"library-api/pkg/config"
	"library-api/pkg/database"
	"library-api/pkg/handlers"
	"library-api/pkg/logger"
)

func main() {
	cfg := config.Read()
	log := logger.Get(cfg.Debug)

	log.Info().Str("addr", cfg.Addr).Msg("starting library service")

	db, err := database.Init(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: handlers.New(cfg, db).Router(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
		<-c
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Msg("server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}
