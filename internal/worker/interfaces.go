package worker

import (
	"context"

	"cerebrin.app/backend/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// TaskProcessor executes one queued task. Returning an error wrapped with
// ErrPermanent acknowledges the message without a retry.
type TaskProcessor interface {
	Process(ctx context.Context, msg queue.Message) error
}
