package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/worker"
)

type fakeConsumer struct {
	mu       sync.Mutex
	batches  [][]queue.Message
	acked    []string
	requeued []string
	dlq      []string
	readErr  error
}

func (c *fakeConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	if len(c.batches) == 0 {
		return nil, nil
	}
	batch := c.batches[0]
	c.batches = c.batches[1:]
	return batch, nil
}

func (c *fakeConsumer) Ack(_ context.Context, msg queue.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acked = append(c.acked, msg.ID)
	return nil
}

func (c *fakeConsumer) Requeue(_ context.Context, msg queue.Message, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requeued = append(c.requeued, msg.ID)
	return nil
}

func (c *fakeConsumer) SendDLQ(_ context.Context, msg queue.Message, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dlq = append(c.dlq, msg.ID)
	return nil
}

func (c *fakeConsumer) ackedIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.acked...)
}

type processorFunc func(ctx context.Context, msg queue.Message) error

func (f processorFunc) Process(ctx context.Context, msg queue.Message) error { return f(ctx, msg) }

type fakeResonance struct {
	scored []int64
	err    error
}

func (f *fakeResonance) ScoreIdea(_ context.Context, ideaID int64) (*model.Idea, error) {
	f.scored = append(f.scored, ideaID)
	if f.err != nil {
		return nil, f.err
	}
	score := int32(72)
	return &model.Idea{ID: ideaID, ResonanceScore: &score}, nil
}

type fakeMirror struct {
	mirrored []int64
	err      error
}

func (f *fakeMirror) Mirror(_ context.Context, agentID int64) (*service.MirrorResult, error) {
	f.mirrored = append(f.mirrored, agentID)
	if f.err != nil {
		return nil, f.err
	}
	return &service.MirrorResult{}, nil
}

func ptr(v int64) *int64 { return &v }

var _ = Describe("Worker", func() {
	var (
		ctx      context.Context
		consumer *fakeConsumer
	)

	BeforeEach(func() {
		ctx = context.Background()
		consumer = &fakeConsumer{}
	})

	newWorker := func(fn processorFunc) *worker.Worker {
		return worker.New(consumer, fn, worker.Config{MaxAttempts: 3})
	}

	Describe("Handle", func() {
		It("acks a processed message", func() {
			w := newWorker(func(context.Context, queue.Message) error { return nil })

			err := w.Handle(ctx, queue.Message{ID: "1-0", TaskType: queue.TaskTypeScoreIdea, Attempt: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(consumer.acked).To(ConsistOf("1-0"))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("requeues a transient failure below max attempts", func() {
			w := newWorker(func(context.Context, queue.Message) error { return errors.New("llm timeout") })

			err := w.Handle(ctx, queue.Message{ID: "1-0", TaskType: queue.TaskTypeScoreIdea, Attempt: 2})

			Expect(err).To(HaveOccurred())
			Expect(consumer.requeued).To(ConsistOf("1-0"))
			Expect(consumer.dlq).To(BeEmpty())
			Expect(consumer.acked).To(BeEmpty())
		})

		It("sends to the DLQ once attempts are exhausted", func() {
			w := newWorker(func(context.Context, queue.Message) error { return errors.New("llm timeout") })

			_ = w.Handle(ctx, queue.Message{ID: "1-0", TaskType: queue.TaskTypeMirrorAgent, Attempt: 3})

			Expect(consumer.dlq).To(ConsistOf("1-0"))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("acks a permanent failure without retrying", func() {
			w := newWorker(func(context.Context, queue.Message) error {
				return fmt.Errorf("%w: gone", worker.ErrPermanent)
			})

			err := w.Handle(ctx, queue.Message{ID: "1-0", TaskType: queue.TaskTypeScoreIdea, Attempt: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(consumer.acked).To(ConsistOf("1-0"))
			Expect(consumer.requeued).To(BeEmpty())
		})

		It("recovers a panicking processor and requeues", func() {
			w := newWorker(func(context.Context, queue.Message) error { panic("nil map") })

			err := w.Handle(ctx, queue.Message{ID: "1-0", TaskType: queue.TaskTypeScoreIdea, Attempt: 1})

			Expect(err).To(MatchError(ContainSubstring("panic: nil map")))
			Expect(consumer.requeued).To(ConsistOf("1-0"))
		})
	})

	Describe("Run", func() {
		It("drains batches until stopped", func() {
			consumer.batches = [][]queue.Message{
				{{ID: "1-0", TaskType: queue.TaskTypeScoreIdea, Attempt: 1}},
				{{ID: "2-0", TaskType: queue.TaskTypeMirrorAgent, Attempt: 1}},
			}
			w := newWorker(func(context.Context, queue.Message) error { return nil })

			done := make(chan error, 1)
			go func() { done <- w.Run(ctx) }()

			Eventually(consumer.ackedIDs).Should(ConsistOf("1-0", "2-0"))
			w.Stop()
			Eventually(done).Should(Receive(BeNil()))
		})

		It("returns when the context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			consumer.readErr = errors.New("redis down")
			w := worker.New(consumer, processorFunc(func(context.Context, queue.Message) error { return nil }),
				worker.Config{MaxAttempts: 3, ErrorBackoff: time.Millisecond})

			done := make(chan error, 1)
			go func() { done <- w.Run(runCtx) }()

			cancel()
			Eventually(done).Should(Receive(MatchError(context.Canceled)))
		})
	})
})

var _ = Describe("Processor", func() {
	var (
		ctx       context.Context
		resonance *fakeResonance
		mirror    *fakeMirror
		processor *worker.Processor
	)

	BeforeEach(func() {
		ctx = context.Background()
		resonance = &fakeResonance{}
		mirror = &fakeMirror{}
		processor = worker.NewProcessor(resonance, mirror)
	})

	It("dispatches score_idea to resonance scoring", func() {
		err := processor.Process(ctx, queue.Message{TaskType: queue.TaskTypeScoreIdea, IdeaID: ptr(42)})

		Expect(err).NotTo(HaveOccurred())
		Expect(resonance.scored).To(ConsistOf(int64(42)))
		Expect(mirror.mirrored).To(BeEmpty())
	})

	It("dispatches mirror_agent to the mirror service", func() {
		err := processor.Process(ctx, queue.Message{TaskType: queue.TaskTypeMirrorAgent, AgentID: ptr(7)})

		Expect(err).NotTo(HaveOccurred())
		Expect(mirror.mirrored).To(ConsistOf(int64(7)))
	})

	DescribeTable("permanent failures",
		func(msg queue.Message, resonanceErr, mirrorErr error) {
			resonance.err = resonanceErr
			mirror.err = mirrorErr

			err := processor.Process(ctx, msg)

			Expect(err).To(MatchError(worker.ErrPermanent))
		},
		Entry("missing idea id", queue.Message{TaskType: queue.TaskTypeScoreIdea}, nil, nil),
		Entry("missing agent id", queue.Message{TaskType: queue.TaskTypeMirrorAgent}, nil, nil),
		Entry("unknown task", queue.Message{TaskType: "reindex"}, nil, nil),
		Entry("idea deleted", queue.Message{TaskType: queue.TaskTypeScoreIdea, IdeaID: ptr(1)}, service.ErrIdeaNotFound, nil),
		Entry("agent deleted", queue.Message{TaskType: queue.TaskTypeMirrorAgent, AgentID: ptr(1)}, nil, service.ErrAgentNotFound),
		Entry("llm not configured", queue.Message{TaskType: queue.TaskTypeScoreIdea, IdeaID: ptr(1)}, service.ErrLLMUnavailable, nil),
	)

	It("keeps transient failures retryable", func() {
		resonance.err = errors.New("connection reset")

		err := processor.Process(ctx, queue.Message{TaskType: queue.TaskTypeScoreIdea, IdeaID: ptr(1)})

		Expect(err).To(MatchError(ContainSubstring("connection reset")))
		Expect(errors.Is(err, worker.ErrPermanent)).To(BeFalse())
	})
})
