// Oarlock - Concept2 Logbook Sync and Training Analytics
// Copyright 2026 Oarlock Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/oarlock/oarlock

// Command server runs the Oarlock HTTP server: it keeps a local DuckDB
// cache of the athlete's Concept2 Logbook history in sync and serves
// training analytics over a JSON API.
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

	"github.com/oarlock/oarlock/internal/api"
	"github.com/oarlock/oarlock/internal/config"
	"github.com/oarlock/oarlock/internal/database"
	"github.com/oarlock/oarlock/internal/logging"
	syncengine "github.com/oarlock/oarlock/internal/sync"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logging.Info().Str("version", version).Msg("Starting Oarlock")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	tokens := syncengine.NewTokenSource(&cfg.Concept2)
	client := syncengine.NewConcept2Client(&cfg.Concept2, &cfg.Sync, tokens)
	manager := syncengine.NewManager(client, db, cfg)

	handler := api.NewHandler(db, manager, version)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	// Warm the cache in the background so the first dashboard request
	// does not pay for a full history fetch.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := manager.Sync(ctx); err != nil && !errors.Is(err, syncengine.ErrSyncInProgress) {
			logging.Warn().Err(err).Msg("Startup sync failed")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logging.Info().Msg("Server stopped")
	return nil
}
