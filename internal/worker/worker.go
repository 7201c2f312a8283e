package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/metrics"
	"cerebrin.app/backend/internal/queue"
)

type Config struct {
	MaxAttempts int
	// ErrorBackoff is the pause after a failed stream read.
	ErrorBackoff time.Duration
}

type Worker struct {
	consumer  Consumer
	processor TaskProcessor
	cfg       Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, processor TaskProcessor, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		processor: processor,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "cerebrin.worker"})
	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				time.Sleep(w.cfg.ErrorBackoff)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.Handle(ctx, msg)
	}

	return nil
}

// Handle processes one message and settles it on the stream: ack on success
// or permanent failure, requeue on a transient failure, DLQ once attempts
// run out. Exported so the reclaimer settles stale messages the same way.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	msgID := msg.ID
	taskType := string(msg.TaskType)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		MessageID:   &msgID,
		TaskType:    &taskType,
		WorkspaceID: msg.WorkspaceID,
		AgentID:     msg.AgentID,
	})

	span := logger.StartTaskSpan(ctx, msg.TraceParent, taskType, msg.Attempt)
	defer span.End()
	ctx = span.Context()

	slog.InfoContext(ctx, "processing message", "attempt", msg.Attempt)

	start := time.Now()
	err := w.processSafe(ctx, msg)
	switch {
	case err == nil:
		metrics.RecordQueueTask(taskType, "success")
		w.ack(ctx, msg)
		slog.InfoContext(ctx, "message processed", "duration_ms", time.Since(start).Milliseconds())
		return nil
	case errors.Is(err, ErrPermanent):
		metrics.RecordQueueTask(taskType, "dropped")
		span.Fail(err)
		slog.WarnContext(ctx, "dropping message after permanent failure", "error", err)
		w.ack(ctx, msg)
		return nil
	}

	span.Fail(err)
	slog.ErrorContext(ctx, "message processing failed", "error", err, "attempt", msg.Attempt)
	w.handleFailedMessage(ctx, msg, err)
	return err
}

func (w *Worker) processSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processor.Process(ctx, msg)
}

func (w *Worker) ack(ctx context.Context, msg queue.Message) {
	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The reclaimer picks it up again; both tasks are idempotent.
		slog.WarnContext(ctx, "failed to ACK message", "error", err)
	}
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		metrics.RecordQueueTask(string(msg.TaskType), "dlq")
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ", "attempts", msg.Attempt)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	metrics.RecordQueueTask(string(msg.TaskType), "retry")
	slog.WarnContext(ctx, "requeuing failed message", "attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}
