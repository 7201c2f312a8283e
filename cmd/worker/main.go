package main

import (
	"context"
	"fmt"
	"log/slog"
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
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/scheduler"
	"cerebrin.app/backend/internal/search"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
	"cerebrin.app/backend/internal/worker"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Setup(cfg)

	slog.InfoContext(ctx, "cerebrin worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Pipeline.RedisGroup,
		"consumer_name", cfg.Pipeline.RedisConsumer)

	// Use a different node ID than the server
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
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
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Pipeline.RedisStream)

	var llmClient llm.Client
	if cfg.LLM.APIKey != "" {
		llmClient, err = llm.New(llm.Config{
			Provider:  cfg.LLM.Provider,
			APIKey:    cfg.LLM.APIKey,
			BaseURL:   cfg.LLM.BaseURL,
			Model:     cfg.LLM.Model,
			MaxTokens: cfg.LLM.MaxTokens,
		})
		if err != nil {
			slog.ErrorContext(ctx, "failed to create llm client", "error", err)
			os.Exit(1)
		}
	} else {
		slog.WarnContext(ctx, "llm disabled, scoring and mirror tasks will be dropped")
	}

	var index search.Index
	if cfg.Search.TypesenseURL != "" {
		index = search.New(cfg.Search)
	}

	// The producer shares redisClient, so its Close is left to the defer above.
	taskProducer := queue.NewRedisProducer(redisClient, cfg.Pipeline.RedisStream, slog.Default())

	services := service.NewServices(service.ServicesConfig{
		Stores:   store.NewStores(database.Queries()),
		TxRunner: service.NewTxRunner(database),
		Config:   cfg,
		Redis:    redisClient,
		Producer: taskProducer,
		LLM:      llmClient,
		Search:   index,
	})

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Pipeline.RedisStream,
		Group:        cfg.Pipeline.RedisGroup,
		Consumer:     cfg.Pipeline.RedisConsumer,
		DLQStream:    cfg.Pipeline.RedisDLQStream,
		BatchSize:    1,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Pipeline.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	w := worker.New(consumer, worker.NewProcessor(services.Resonance(), services.Mirror()), worker.Config{
		MaxAttempts: cfg.Pipeline.MaxAttempts,
	})

	reclaimer := worker.NewReclaimer(redisClient, worker.ReclaimerConfig{
		Stream:        cfg.Pipeline.RedisStream,
		Group:         cfg.Pipeline.RedisGroup,
		Consumer:      cfg.Pipeline.RedisConsumer + "-reclaimer",
		MinIdle:       5 * time.Minute,
		Interval:      time.Minute,
		BatchSize:     10,
		MaxDeliveries: cfg.Pipeline.MaxDeliveries,
	}, consumer, w)

	cron := scheduler.New(time.Minute)
	if err := cron.RegisterMaintenance(scheduler.Maintenance{
		ExpireAgentRequests:   services.Architect().ExpireStale,
		ExpireInvitations:     services.Invitations().ExpireOld,
		DeleteExpiredSessions: services.Auth().DeleteExpiredSessions,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to schedule maintenance", "error", err)
		os.Exit(1)
	}
	cron.Start()

	errCh := make(chan error, 2)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go func() {
		reclaimer.Run(ctx)
		errCh <- nil
	}()

	slog.InfoContext(ctx, "worker initialized and running", "scheduled_jobs", cron.Entries())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Stop the quick loops first, then wait for the in-flight task.
	cron.Stop()
	reclaimer.Stop()
	w.Stop()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker error during shutdown", "error", err)
		}
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
  ____ _____ ____  _____ ____  ____  ___ _   _  __        _____  ____  _  _______ ____
 / ___| ____|  _ \| ____| __ )|  _ \|_ _| \ | | \ \      / / _ \|  _ \| |/ / ____|  _ \
| |   |  _| | |_) |  _| |  _ \| |_) || ||  \| |  \ \ /\ / / | | | |_) | ' /|  _| | |_) |
| |___| |___|  _ <| |___| |_) |  _ < | || |\  |   \ V  V /| |_| |  _ <| . \| |___|  _ <
 \____|_____|_| \_\_____|____/|_| \_\___|_| \_|    \_/\_/  \___/|_| \_\_|\_\_____|_| \_\
`
