package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"cerebrin.app/backend/common/llm"
	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/metrics"
)

const llmAttempts = 3

var ErrLLMUnavailable = errors.New("llm not configured")

// llmBackoff is a var so tests can zero it.
var llmBackoff = func(attempt int) time.Duration {
	return time.Duration(1<<attempt) * time.Second
}

// chatWithRetry retries transient LLM failures with exponential backoff
// (1s, 2s) and records one metric per logical call.
func chatWithRetry(ctx context.Context, client llm.Client, operation string, req llm.Request, result any) (*llm.Response, error) {
	if client == nil {
		return nil, ErrLLMUnavailable
	}

	span := logger.StartSpan(ctx, "llm "+operation, attribute.String("cerebrin.llm.operation", operation))
	defer span.End()
	ctx = span.Context()

	var (
		resp *llm.Response
		err  error
	)
	for attempt := 0; attempt < llmAttempts; attempt++ {
		resp, err = client.Chat(ctx, req, result)
		if err == nil {
			break
		}
		if !llm.IsRetryable(ctx, err) || attempt == llmAttempts-1 {
			break
		}
		slog.WarnContext(ctx, "llm call retry",
			"operation", operation,
			"attempt", attempt+1,
			"error", err,
		)
		select {
		case <-ctx.Done():
			metrics.RecordLLMCall(operation, ctx.Err())
			span.Fail(ctx.Err())
			return nil, ctx.Err()
		case <-time.After(llmBackoff(attempt)):
		}
	}

	metrics.RecordLLMCall(operation, err)
	if err != nil {
		span.Fail(err)
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return resp, nil
}
