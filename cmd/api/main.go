// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richu337/codex-ai-assistant/internal/config"
	"github.com/richu337/codex-ai-assistant/internal/events"
	"github.com/richu337/codex-ai-assistant/internal/handler"
	"github.com/richu337/codex-ai-assistant/internal/llm"
	"github.com/richu337/codex-ai-assistant/internal/middleware"
	"github.com/richu337/codex-ai-assistant/internal/service"
	"github.com/richu337/codex-ai-assistant/internal/store"
	"github.com/richu337/codex-ai-assistant/pkg/logger"
	"github.com/richu337/codex-ai-assistant/pkg/tracing"
)

func main() {
	// .env is optional; real deployments get config from the environment.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "codex-ai-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to Postgres and migrate the schema.
	st, err := store.Open(store.Config{
		DatabaseURL:  cfg.DatabaseURL,
		MaxIdleConns: cfg.DBMaxIdleConns,
		MaxOpenConns: cfg.DBMaxOpenConns,
		ConnLifetime: cfg.DBConnLifetime,
	})
	if err != nil {
		log.Error("failed to open database", zap.Error(err))
		os.Exit(1)
	}

	// Event publication is best-effort; a missing NATS server degrades to
	// a no-op publisher rather than blocking startup.
	var publisher events.Publisher = events.NopPublisher{}
	var natsClient *events.Client
	if cfg.NATSURL != "" {
		natsClient, err = events.Connect(events.Config{
			URL:   cfg.NATSURL,
			Token: cfg.NATSToken,
		}, log)
		if err != nil {
			log.Warn("failed to connect to NATS, events disabled", zap.Error(err))
		} else {
			defer natsClient.Close()
			streamPub := events.NewStreamPublisher(natsClient, log)
			if err := streamPub.EnsureStream(ctx); err != nil {
				log.Warn("failed to ensure event stream", zap.Error(err))
			}
			publisher = streamPub
		}
	}

	llmClient, err := newLLMClient(cfg)
	if err != nil {
		log.Error("failed to create LLM client", zap.Error(err))
		os.Exit(1)
	}
	log.Info("completion provider configured", zap.String("provider", llmClient.Name()))

	// Services
	chatSvc := service.NewChatService(st, llmClient, publisher, log, cfg.HistoryWindow)
	conversationSvc := service.NewConversationService(st, publisher, log)
	userSvc := service.NewUserService(st, log)
	searchSvc := service.NewSearchService(st, llmClient, publisher, log)

	// Handlers
	var eventsCheck handler.ConnChecker
	if natsClient != nil {
		eventsCheck = natsClient
	}
	healthHandler := handler.NewHealthHandler(st, eventsCheck)
	chatHandler := handler.NewChatHandler(chatSvc, conversationSvc, log)
	userHandler := handler.NewUserHandler(userSvc, log)
	searchHandler := handler.NewSearchHandler(searchSvc, log)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Route("/chat", func(r chi.Router) {
			r.Post("/message", chatHandler.SendMessage)
			r.Get("/conversations", chatHandler.ListConversations)
			r.Route("/conversations/{id}", func(r chi.Router) {
				r.Get("/", chatHandler.GetConversation)
				r.Delete("/", chatHandler.DeleteConversation)
				r.Get("/messages", chatHandler.ListMessages)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Get("/profile", userHandler.GetProfile)
			r.Put("/profile", userHandler.UpdateProfile)
			r.Get("/preferences", userHandler.GetPreferences)
			r.Put("/preferences", userHandler.UpdatePreferences)
			r.Get("/stats", userHandler.GetStats)
		})

		r.Route("/search", func(r chi.Router) {
			r.Get("/", searchHandler.Search)
			r.Get("/history", searchHandler.History)
			r.Delete("/history/{id}", searchHandler.DeleteHistory)
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

func newLLMClient(cfg *config.Config) (llm.Client, error) {
	provider := llm.Provider(cfg.LLMProvider)
	opts := llm.Options{DefaultModel: cfg.DefaultModel}

	switch provider {
	case llm.ProviderAnthropic:
		opts.APIKey = cfg.AnthropicAPIKey
	case llm.ProviderOpenRouter:
		opts.APIKey = cfg.OpenRouterKey
		opts.BaseURL = cfg.OpenRouterURL
	default:
		opts.APIKey = cfg.OpenAIAPIKey
	}

	return llm.NewClient(provider, opts)
}
