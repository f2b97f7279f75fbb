// Package main is the entry point for the Gossip chat server.
//
// The main package is kept minimal — its job is to:
//  1. Set up logging
//  2. Load configuration
//  3. Create and start the server
//
// All actual logic lives in imported packages (internal/server,
// internal/service, ...), which keeps the components testable without
// running main.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/gossip/internal/config"
	"github.com/sakif/gossip/internal/server"
)

func main() {
	// Config first so the log level can come from it; bootstrap errors go
	// through a default logger.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.LogLevel == "DEBUG" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// Template and static paths resolve relative to the working directory,
	// which is the project root under both `go run` and the Dockerfile.
	templateDir, _ := filepath.Abs("web/templates")
	staticDir, _ := filepath.Abs("web/static")

	// Ensure the directory for the sqlite file exists (":memory:" and bare
	// filenames have no directory component to create).
	if dbDir := filepath.Dir(cfg.DatabaseURL); dbDir != "." && dbDir != "" {
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dbDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	srv, err := server.New(cfg, server.Options{
		TemplateDir: templateDir,
		StaticDir:   staticDir,
	}, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
