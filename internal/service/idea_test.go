package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
)

var _ = Describe("IdeaService", func() {
	var (
		ctx      context.Context
		stores   *fakeStores
		tx       *fakeTxRunner
		producer *mockProducer
		svc      service.IdeaService
		idea     *model.Idea
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newFakeStores()
		tx = &fakeTxRunner{stores: stores}
		producer = &mockProducer{}
		svc = service.NewIdeaService(tx, stores.ideas, producer, nil)

		idea = &model.Idea{ID: 5, WorkspaceID: 1, Title: "Dark mode", Description: "Users keep asking.", Stage: model.IdeaStageReady}
		stores.ideas.getByIDFn = func(_ context.Context, id int64) (*model.Idea, error) {
			if id != idea.ID {
				return nil, store.ErrNotFound
			}
			return idea, nil
		}
	})

	Describe("Create", func() {
		It("starts in draft at the end of the column and queues scoring", func() {
			stores.ideas.nextPositionFn = func(_ context.Context, _ int64, stage model.IdeaStage) (int32, error) {
				Expect(stage).To(Equal(model.IdeaStageDraft))
				return 4, nil
			}

			created, err := svc.Create(ctx, service.CreateIdeaParams{WorkspaceID: 1, Title: " Offline sync "})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Title).To(Equal("Offline sync"))
			Expect(created.Stage).To(Equal(model.IdeaStageDraft))
			Expect(created.Position).To(Equal(int32(4)))
			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].TaskType).To(Equal(queue.TaskTypeScoreIdea))
			Expect(*producer.tasks[0].IdeaID).To(Equal(created.ID))
		})

		It("cannot create an idea directly in a terminal stage", func() {
			_, err := svc.Create(ctx, service.CreateIdeaParams{WorkspaceID: 1, Title: "x", Stage: model.IdeaStagePromoted})
			Expect(err).To(MatchError(service.ErrInvalidStage))
		})
	})

	DescribeTable("CanMoveIdea",
		func(from, to model.IdeaStage, allowed bool) {
			Expect(service.CanMoveIdea(from, to)).To(Equal(allowed))
		},
		Entry("draft to exploring", model.IdeaStageDraft, model.IdeaStageExploring, true),
		Entry("exploring to validating", model.IdeaStageExploring, model.IdeaStageValidating, true),
		Entry("validating to ready", model.IdeaStageValidating, model.IdeaStageReady, true),
		Entry("ready back to draft", model.IdeaStageReady, model.IdeaStageDraft, true),
		Entry("draft straight to ready", model.IdeaStageDraft, model.IdeaStageReady, true),
		Entry("reorder within a column", model.IdeaStageValidating, model.IdeaStageValidating, true),
		Entry("draft to archived", model.IdeaStageDraft, model.IdeaStageArchived, true),
		Entry("ready to archived", model.IdeaStageReady, model.IdeaStageArchived, true),
		Entry("archived to draft", model.IdeaStageArchived, model.IdeaStageDraft, true),
		Entry("archived to exploring", model.IdeaStageArchived, model.IdeaStageExploring, false),
		Entry("archived to ready", model.IdeaStageArchived, model.IdeaStageReady, false),
		Entry("reorder within archived", model.IdeaStageArchived, model.IdeaStageArchived, false),
		Entry("into promoted", model.IdeaStageReady, model.IdeaStagePromoted, false),
		Entry("out of promoted", model.IdeaStagePromoted, model.IdeaStageDraft, false),
		Entry("promoted in place", model.IdeaStagePromoted, model.IdeaStagePromoted, false),
		Entry("unknown stage", model.IdeaStage("parked"), model.IdeaStageDraft, false),
	)

	Describe("Move", func() {
		It("uses the stage guard and reports a lost race as a conflict", func() {
			stores.ideas.nextPositionFn = func(context.Context, int64, model.IdeaStage) (int32, error) {
				return 0, nil
			}
			stores.ideas.moveFn = func(_ context.Context, _ int64, expected, _ model.IdeaStage, _ int32) (*model.Idea, error) {
				Expect(expected).To(Equal(model.IdeaStageReady))
				return nil, store.ErrNotFound
			}

			_, err := svc.Move(ctx, 1, 5, service.MoveIdeaParams{Stage: model.IdeaStageDraft})
			Expect(err).To(MatchError(service.ErrStageConflict))
		})

		It("rejects moves into promoted", func() {
			_, err := svc.Move(ctx, 1, 5, service.MoveIdeaParams{Stage: model.IdeaStagePromoted})
			Expect(err).To(MatchError(service.ErrInvalidTransition))
		})

		It("hides ideas from other workspaces", func() {
			_, err := svc.Move(ctx, 2, 5, service.MoveIdeaParams{Stage: model.IdeaStageDraft})
			Expect(err).To(MatchError(service.ErrIdeaNotFound))
		})
	})

	Describe("Promote", func() {
		It("creates an active project document linked to the idea", func() {
			score := int32(81)
			rationale := "Strong demand signal."
			idea.ResonanceScore = &score
			idea.ResonanceRationale = &rationale
			idea.ScoredAt = &idea.CreatedAt

			stores.ideas.markPromotedFn = func(_ context.Context, id int64) (*model.Idea, error) {
				promoted := *idea
				promoted.Stage = model.IdeaStagePromoted
				return &promoted, nil
			}
			var created *model.Document
			stores.documents.createFn = func(_ context.Context, doc *model.Document) error {
				created = doc
				return nil
			}
			stores.ideas.setPromotedDocumentFn = func(_ context.Context, id, docID int64) (*model.Idea, error) {
				linked := *idea
				linked.Stage = model.IdeaStagePromoted
				linked.PromotedDocumentID = &docID
				return &linked, nil
			}
			user := int64(9)

			promoted, doc, err := svc.Promote(ctx, 1, 5, &user)

			Expect(err).NotTo(HaveOccurred())
			Expect(tx.calls).To(Equal(1))
			Expect(doc).To(BeIdenticalTo(created))
			Expect(doc.Kind).To(Equal(model.DocumentKindProject))
			Expect(doc.Status).To(Equal(model.DocumentStatusActive))
			Expect(doc.Title).To(Equal("Dark mode"))
			Expect(doc.Content).To(ContainSubstring("## Resonance (81/100)"))
			Expect(*doc.SourceIdeaID).To(Equal(int64(5)))
			Expect(*promoted.PromotedDocumentID).To(Equal(doc.ID))
			Expect(promoted.Stage).To(Equal(model.IdeaStagePromoted))
		})

		It("is not repeatable", func() {
			idea.Stage = model.IdeaStagePromoted

			_, _, err := svc.Promote(ctx, 1, 5, nil)
			Expect(err).To(MatchError(service.ErrIdeaAlreadyPromoted))
		})

		It("refuses archived ideas", func() {
			idea.Stage = model.IdeaStageArchived

			_, _, err := svc.Promote(ctx, 1, 5, nil)
			Expect(err).To(MatchError(service.ErrIdeaArchived))
		})

		It("treats a lost guard as already promoted", func() {
			stores.ideas.markPromotedFn = func(context.Context, int64) (*model.Idea, error) {
				idea.Stage = model.IdeaStagePromoted
				return nil, store.ErrNotFound
			}
			stores.documents.createFn = func(context.Context, *model.Document) error {
				Fail("document must not be created")
				return nil
			}

			_, _, err := svc.Promote(ctx, 1, 5, nil)
			Expect(err).To(MatchError(service.ErrIdeaAlreadyPromoted))
		})

		It("reports an idea archived after the read as archived", func() {
			stores.ideas.markPromotedFn = func(context.Context, int64) (*model.Idea, error) {
				idea.Stage = model.IdeaStageArchived
				return nil, store.ErrNotFound
			}
			stores.documents.createFn = func(context.Context, *model.Document) error {
				Fail("document must not be created")
				return nil
			}

			_, _, err := svc.Promote(ctx, 1, 5, nil)
			Expect(err).To(MatchError(service.ErrIdeaArchived))
		})
	})

	Describe("RequestScore", func() {
		It("fails without a queue", func() {
			svc = service.NewIdeaService(tx, stores.ideas, nil, nil)

			err := svc.RequestScore(ctx, 1, 5)
			Expect(err).To(MatchError(service.ErrQueueUnavailable))
		})
	})
})
