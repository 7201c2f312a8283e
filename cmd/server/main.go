package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/common/llm"
	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/common/otel"
	"cerebrin.app/backend/core/config"
	"cerebrin.app/backend/core/db"
	"cerebrin.app/backend/internal/http/handler"
	"cerebrin.app/backend/internal/http/middleware"
	httprouter "cerebrin.app/backend/internal/http/router"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/search"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "cerebrin api starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Pipeline.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	taskProducer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())
	defer taskProducer.Close() // closes the shared redis client

	services := service.NewServices(service.ServicesConfig{
		Stores:   store.NewStores(database.Queries()),
		TxRunner: service.NewTxRunner(database),
		Config:   cfg,
		Redis:    redisClient,
		Producer: taskProducer,
		LLM:      newLLMClient(ctx, cfg.LLM),
		Search:   newSearchIndex(ctx, cfg.Search),
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, database, redisClient)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// No write timeout: the notification stream holds the response open.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// newLLMClient returns nil when no key is configured; scoring and chat then
// report the model as unavailable instead of failing startup.
func newLLMClient(ctx context.Context, cfg config.LLMConfig) llm.Client {
	if cfg.APIKey == "" {
		slog.WarnContext(ctx, "llm disabled (no api key configured)")
		return nil
	}
	client, err := llm.New(llm.Config{
		Provider:  cfg.Provider,
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm client", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "llm client ready", "provider", cfg.Provider, "model", cfg.Model)
	return client
}

// newSearchIndex returns nil without Typesense; document search then falls
// back to Postgres.
func newSearchIndex(ctx context.Context, cfg config.SearchConfig) search.Index {
	if cfg.TypesenseURL == "" {
		slog.InfoContext(ctx, "typesense disabled, document search uses postgres")
		return nil
	}
	index := search.New(cfg)
	if err := index.EnsureCollection(ctx); err != nil {
		slog.WarnContext(ctx, "typesense collection not ready", "error", err)
	}
	return index
}

func setupRouter(cfg config.Config, services *service.Services, database *db.DB, redisClient *redis.Client) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	if cfg.Metrics {
		router.Use(middleware.Metrics())
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.SessionIDHeader, middleware.RequestIDHeader, "Last-Event-ID"},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	httprouter.SetupRoutes(router, services, httprouter.RouterConfig{
		DashboardURL:       cfg.DashboardURL,
		IsProduction:       cfg.IsProduction(),
		AdminAPIKey:        cfg.AdminAPIKey,
		SessionTTL:         cfg.Auth.SessionTTL,
		Metrics:            cfg.Metrics,
		NotificationPrefix: cfg.Pipeline.NotificationPrefix,
		Redis:              redisClient,
		Health: map[string]handler.Pinger{
			"postgres": database,
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		},
	})

	return router
}

const banner = `
  ____ _____ ____  _____ ____  ____  ___ _   _
 / ___| ____|  _ \| ____| __ )|  _ \|_ _| \ | |
| |   |  _| | |_) |  _| |  _ \| |_) || ||  \| |
| |___| |___|  _ <| |___| |_) |  _ < | || |\  |
 \____|_____|_| \_\_____|____/|_| \_\___|_| \_|
`
