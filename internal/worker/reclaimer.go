package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/metrics"
	"cerebrin.app/backend/internal/queue"
)

type ReclaimerConfig struct {
	Stream    string
	Group     string
	Consumer  string
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
	// MaxDeliveries caps how often one entry is handed out. Past it the task
	// goes to the DLQ without another run: a score or mirror job that keeps
	// killing its worker never reaches Handle's attempt accounting.
	MaxDeliveries int64
}

// StreamClaimer is the part of *redis.Client the reclaimer needs.
type StreamClaimer interface {
	XPendingExt(ctx context.Context, a *redis.XPendingExtArgs) *redis.XPendingExtCmd
	XClaim(ctx context.Context, a *redis.XClaimArgs) *redis.XMessageSliceCmd
}

// Settler runs a claimed task and acks, requeues or dead-letters it.
// *Worker is the production Settler.
type Settler interface {
	Handle(ctx context.Context, msg queue.Message) error
}

// Reclaimer takes over score_idea and mirror_agent tasks left pending by a
// worker that died between XREADGROUP and XACK.
type Reclaimer struct {
	client   StreamClaimer
	cfg      ReclaimerConfig
	consumer Consumer
	settler  Settler

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewReclaimer(client StreamClaimer, cfg ReclaimerConfig, consumer Consumer, settler Settler) *Reclaimer {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Reclaimer{
		client:    client,
		cfg:       cfg,
		consumer:  consumer,
		settler:   settler,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run reclaims on every tick until Stop is called or ctx ends.
func (r *Reclaimer) Run(ctx context.Context) {
	defer close(r.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "cerebrin.worker.reclaimer"})
	slog.InfoContext(ctx, "reclaimer started",
		"interval", r.cfg.Interval,
		"min_idle", r.cfg.MinIdle,
		"max_deliveries", r.cfg.MaxDeliveries)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reclaimer stopping")
			return
		case <-ticker.C:
			if _, err := r.ReclaimOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "reclaim cycle failed", "error", err)
			}
		}
	}
}

func (r *Reclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReclaimOnce claims one batch of stale entries and settles each of them.
// It returns the number of entries this consumer ended up owning.
func (r *Reclaimer) ReclaimOnce(ctx context.Context) (int, error) {
	pending, err := r.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: r.cfg.Stream,
		Group:  r.cfg.Group,
		Idle:   r.cfg.MinIdle,
		Start:  "-",
		End:    "+",
		Count:  r.cfg.BatchSize,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("xpending: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(pending))
	deliveries := make(map[string]int64, len(pending))
	for _, p := range pending {
		ids = append(ids, p.ID)
		deliveries[p.ID] = p.RetryCount
	}

	// MinIdle again so entries another reclaimer took meanwhile are skipped.
	claimed, err := r.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   r.cfg.Stream,
		Group:    r.cfg.Group,
		Consumer: r.cfg.Consumer,
		MinIdle:  r.cfg.MinIdle,
		Messages: ids,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("xclaim: %w", err)
	}

	slog.InfoContext(ctx, "claimed stale tasks", "pending", len(pending), "claimed", len(claimed))

	settled := 0
	for _, raw := range claimed {
		// Entries trimmed from the stream come back without an id.
		if raw.ID == "" {
			continue
		}
		r.settle(ctx, raw, deliveries[raw.ID])
		settled++
	}
	return settled, nil
}

func (r *Reclaimer) settle(ctx context.Context, raw redis.XMessage, delivered int64) {
	msgID := raw.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &msgID})

	msg, err := queue.ParseMessage(raw)
	if err != nil {
		metrics.RecordQueueTask("unknown", "malformed")
		slog.ErrorContext(ctx, "acking malformed stale entry", "error", err)
		if ackErr := r.consumer.Ack(ctx, queue.Message{ID: raw.ID, Raw: raw}); ackErr != nil {
			slog.WarnContext(ctx, "failed to ack malformed entry", "error", ackErr)
		}
		return
	}

	taskType := string(msg.TaskType)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TaskType:    &taskType,
		WorkspaceID: msg.WorkspaceID,
		AgentID:     msg.AgentID,
	})

	if r.cfg.MaxDeliveries > 0 && delivered > r.cfg.MaxDeliveries {
		metrics.RecordQueueTask(taskType, "dlq")
		reason := fmt.Sprintf("abandoned after %d deliveries without an ack", delivered)
		slog.ErrorContext(ctx, "dead-lettering stale task", "deliveries", delivered, "attempt", msg.Attempt)
		if err := r.consumer.SendDLQ(ctx, msg, reason); err != nil {
			slog.ErrorContext(ctx, "failed to dead-letter stale task", "error", err)
		}
		return
	}

	metrics.RecordQueueTask(taskType, "reclaimed")
	slog.InfoContext(ctx, "retrying stale task", "deliveries", delivered, "attempt", msg.Attempt)
	_ = r.settler.Handle(ctx, msg)
}
