package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/common/logger"
)

var _ = Describe("WithLogFields", func() {
	It("merges newer values over older ones", func() {
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			WorkspaceID: logger.Ptr(int64(1)),
			Component:   "cerebrin.http",
		})
		ctx = logger.WithLogFields(ctx, logger.LogFields{
			AgentID:   logger.Ptr(int64(7)),
			Component: "cerebrin.architect",
		})

		fields := logger.GetLogFields(ctx)
		Expect(*fields.WorkspaceID).To(Equal(int64(1)))
		Expect(*fields.AgentID).To(Equal(int64(7)))
		Expect(fields.Component).To(Equal("cerebrin.architect"))
	})

	It("returns empty fields for a bare context", func() {
		Expect(logger.GetLogFields(context.Background())).To(Equal(logger.LogFields{}))
	})
})

var _ = Describe("TraceHandler", func() {
	It("adds context fields to every record", func() {
		var buf bytes.Buffer
		log := slog.New(logger.NewTraceHandler(slog.NewJSONHandler(&buf, nil)))
		ctx := logger.WithLogFields(context.Background(), logger.LogFields{
			UserID:    logger.Ptr(int64(42)),
			RequestID: logger.Ptr("req-1"),
			TaskType:  logger.Ptr("score_idea"),
		})

		log.InfoContext(ctx, "hello")

		var entry map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &entry)).To(Succeed())
		Expect(entry).To(HaveKeyWithValue("user_id", BeNumerically("==", 42)))
		Expect(entry).To(HaveKeyWithValue("request_id", "req-1"))
		Expect(entry).To(HaveKeyWithValue("task_type", "score_idea"))
		Expect(entry).NotTo(HaveKey("trace_id"))
	})
})

var _ = Describe("Truncate", func() {
	It("shortens long strings", func() {
		Expect(logger.Truncate("abcdef", 3)).To(Equal("abc..."))
		Expect(logger.Truncate("abc", 3)).To(Equal("abc"))
	})
})
