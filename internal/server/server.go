// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the "composition root": the one place where the sqlite store, the
// OpenRouter gateway, the Stream mirror, the services, and the handlers are
// wired together. Each layer only receives what it needs — the services get
// interfaces, the handlers get services, and nothing but this package knows
// the concrete types.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/gossip/internal/config"
	"github.com/sakif/gossip/internal/handler"
	"github.com/sakif/gossip/internal/llm"
	"github.com/sakif/gossip/internal/middleware"
	"github.com/sakif/gossip/internal/mirror"
	sqliteRepo "github.com/sakif/gossip/internal/repository/sqlite"
	"github.com/sakif/gossip/internal/service"
)

// Options carries the non-config wiring inputs.
type Options struct {
	TemplateDir string
	StaticDir   string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown, after in-flight requests drain.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New wires the full dependency chain and registers the routes.
func New(cfg *config.Config, opts Options, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(opts); err != nil {
		db.Close() // Clean up DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, the page/static routes, and the API.
//
// ROUTE STRUCTURE:
//
//	GET  /                → chat page (HTML)
//	GET  /static/*        → static files (CSS, JS)
//	GET  /healthz         → liveness probe
//	POST /register-user   → register in provider registry + store (JSON)
//	POST /chat            → one chat exchange (JSON)
//	POST /get-messages    → full history (JSON)
//
// MIDDLEWARE ORDER MATTERS — middleware executes in registration order:
// RequestID → RealIP → Recoverer → CORS → request logging.
func (s *Server) setupRoutes(opts Options) error {
	s.router.Use(chimiddleware.RequestID) // Adds X-Request-ID header
	s.router.Use(chimiddleware.RealIP)    // Extracts real IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer) // Recovers from panics, returns 500

	// CORS: the browser client may be served from a different origin during
	// development (the bundler's dev server). FRONTEND_URL pins it down in
	// production; unset means any origin.
	allowedOrigins := []string{"*"}
	if s.config.FrontendURL != "" {
		allowedOrigins = []string{s.config.FrontendURL}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(middleware.Logger(s.logger))

	// === External collaborators ===
	gateway := llm.NewOpenRouter(
		s.config.OpenRouterAPIKey,
		s.config.OpenRouterBaseURL,
		s.config.ChatModel,
	)

	streamMirror, err := mirror.NewStreamMirror(s.config.StreamAPIKey, s.config.StreamAPISecret)
	if err != nil {
		return fmt.Errorf("creating stream mirror: %w", err)
	}

	// === Services and handlers ===
	// Both repositories run over the one shared pool; the services see only
	// the interfaces, never the concrete store.
	users := sqliteRepo.NewUsers(s.db)
	turns := sqliteRepo.NewTurns(s.db)
	userService := service.NewUserService(users, streamMirror, s.logger)
	chatService := service.NewChatService(users, turns, gateway, streamMirror, s.logger)
	chatHandler := handler.NewChatHandler(userService, chatService, s.logger)

	// === Page and static routes ===
	pageHandler, err := handler.NewPageHandler(opts.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandleChatPage)

	fileServer := http.FileServer(http.Dir(opts.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// === API routes ===
	// Root-level paths (no /api prefix) — they ARE the wire contract the
	// browser client is written against.
	s.router.Post("/register-user", chatHandler.HandleRegisterUser)
	s.router.Post("/chat", chatHandler.HandleChat)
	s.router.Post("/get-messages", chatHandler.HandleGetMessages)

	return nil
}

// Start starts the HTTP server and handles graceful shutdown:
//  1. stop accepting new connections
//  2. wait for in-flight requests to finish (30s timeout)
//  3. close the database (flushes the WAL, releases the file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:    ":" + s.config.Port,
		Handler: s.router,
		// The completion call is a single synchronous round trip with no
		// timeout of its own, so the write timeout is the only bound on a
		// slow model. 60s mirrors what the provider allows.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("port", s.config.Port),
			slog.String("database", s.config.DatabaseURL),
			slog.String("model", s.config.ChatModel),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
