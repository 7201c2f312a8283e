package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"cerebrin.app/backend/common/logger"
)

type Producer interface {
	Enqueue(ctx context.Context, task Task) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task Task) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TaskType:  logger.Ptr(string(task.TaskType)),
		Component: "cerebrin.queue.producer",
	})

	attempt := task.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	if task.TraceParent == "" {
		task.TraceParent = logger.TraceParent(ctx)
	}

	fields := map[string]any{
		"task_type": string(task.TaskType),
		"attempt":   attempt,
	}
	if task.IdeaID != nil {
		fields["idea_id"] = *task.IdeaID
	}
	if task.AgentID != nil {
		fields["agent_id"] = *task.AgentID
	}
	if task.WorkspaceID != nil {
		fields["workspace_id"] = *task.WorkspaceID
	}
	if task.TraceParent != "" {
		fields["traceparent"] = task.TraceParent
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued task", "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}
