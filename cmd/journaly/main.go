package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mrwolf/journaly/internal/api"
	"github.com/mrwolf/journaly/internal/config"
	"github.com/mrwolf/journaly/internal/db"
	"github.com/mrwolf/journaly/internal/journal"
	"github.com/mrwolf/journaly/internal/llm"
	"github.com/mrwolf/journaly/internal/observability"
	"github.com/mrwolf/journaly/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting journaly", zap.String("version", api.Version), zap.String("env", cfg.Environment))

	reg := observability.NewRegistry()

	// Model gateway
	backend := newBackend(cfg, logger)
	gateway := llm.NewGateway(backend, logger.Named("llm"), llm.NewMetrics(reg))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := gateway.Health(ctx); err != nil {
		logger.Warn("model backend health check failed, replies will use fallbacks",
			zap.String("backend", gateway.BackendName()),
			zap.Error(err),
		)
	} else {
		logger.Info("model backend ready", zap.String("backend", gateway.BackendName()))
	}
	cancel()

	// Entry store
	store, closeStore, err := newStore(cfg)
	if err != nil {
		logger.Fatal("failed to open entry store", zap.Error(err))
	}

	svc := journal.NewService(gateway, store, logger.Named("journal"))
	if cfg.SeedDemo {
		if err := svc.SeedDemo(context.Background()); err != nil {
			logger.Warn("demo seeding failed", zap.Error(err))
		}
	}

	router := api.NewRouter(cfg, svc, gateway, logger.Named("http"), reg)

	sched, err := scheduler.New(svc, gateway, logger.Named("scheduler"), scheduler.Config{
		Timezone:       cfg.Timezone,
		IdleTimeout:    cfg.SessionIdleTimeout,
		SweepInterval:  cfg.SweepInterval,
		HealthInterval: cfg.HealthInterval,
	})
	if err != nil {
		logger.Fatal("failed to create scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		logger.Fatal("failed to start scheduler", zap.Error(err))
	}

	// Start server
	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-done
	logger.Info("shutting down gracefully")

	// Give ongoing requests time to get their replies
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", zap.Error(err))
	}

	if err := sched.Stop(); err != nil {
		logger.Error("scheduler shutdown error", zap.Error(err))
	}

	if err := closeStore(); err != nil {
		logger.Error("store close error", zap.Error(err))
	}

	logger.Info("shutdown complete")
}

// newBackend picks the model backend. A missing credential yields no
// backend, which puts every gateway call on its fallback path.
func newBackend(cfg *config.Config, logger *zap.Logger) llm.Backend {
	switch cfg.LLMProvider {
	case config.ProviderMock:
		return llm.NewFakeBackend()
	case config.ProviderOllama:
		return llm.NewOllamaBackend(cfg.OllamaURL, cfg.OllamaModel)
	case config.ProviderOpenAI:
		b, err := llm.NewOpenAIBackend(llm.OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIURL,
		})
		if err != nil {
			logger.Warn("openai backend unavailable", zap.Error(err))
			return nil
		}
		return b
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b, err := llm.NewGeminiBackend(ctx, llm.GeminiConfig{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiURL,
		})
		if err != nil {
			logger.Warn("gemini backend unavailable", zap.Error(err))
			return nil
		}
		return b
	}
}

func newStore(cfg *config.Config) (journal.EntryStore, func() error, error) {
	if cfg.Store != config.StoreSQLite {
		return journal.NewMemoryCollection(), func() error { return nil }, nil
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", cfg.DBPath, err)
	}
	return database, database.Close, nil
}
