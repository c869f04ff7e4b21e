// Multi-Agent Tutoring System server
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/SriHarshitha88/Multi-Agent-Tutor/internal/api"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/internal/config"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/internal/middleware"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/agent"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/models"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/session"
	"github.com/SriHarshitha88/Multi-Agent-Tutor/pkg/tutor"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server",
		"port", cfg.Port,
		"provider", cfg.ModelProvider,
		"model", cfg.ModelName,
		"session_store", cfg.Session.Store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	model, err := buildModel(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize model client", "error", err)
		os.Exit(1)
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize session store, using in-memory sessions", "error", err)
		store = session.NewMemoryStore()
	}

	sessions := session.NewManager(store, session.Options{
		MaxHistory: cfg.Session.MaxHistory,
		Expiry:     cfg.Session.Expiry,
		Logger:     logger,
	})

	agentCfg := agent.Config{
		Model:     model,
		ModelName: cfg.ModelName,
		Logger:    logger,
	}
	coordinator := agent.NewCoordinator(agentCfg, agent.NewDefaultRegistry(agentCfg))
	svc := tutor.NewService(coordinator, sessions, logger)

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS([]string{"*"}))

	api.NewHandler(svc, cfg.ModelProvider, logger).RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Sweep expired in-memory sessions in the background.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := sessions.CleanupExpired(); removed > 0 {
					slog.Info("Expired sessions removed", "count", removed)
				}
			}
		}
	}()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func buildModel(ctx context.Context, cfg *config.Config) (models.Agent, error) {
	switch cfg.ModelProvider {
	case "gemini":
		return models.NewGeminiLLM(ctx, cfg.ModelName, "")
	case "openai":
		return models.NewOpenAILLM(cfg.ModelName, ""), nil
	case "anthropic":
		return models.NewAnthropicLLM(cfg.ModelName, ""), nil
	case "ollama":
		return models.NewOllamaLLM(cfg.ModelName, "")
	case "dummy":
		return models.NewDummyLLM(""), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.ModelProvider)
	}
}

func buildStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case "redis":
		return session.NewRedisStore(ctx, cfg.Session.RedisURL)
	case "mongo":
		return session.NewMongoStore(ctx, cfg.Session.MongoURI, cfg.Session.MongoDB, "sessions")
	case "postgres":
		return session.NewPostgresStore(ctx, cfg.Session.PostgresURL)
	default:
		return session.NewMemoryStore(), nil
	}
}
