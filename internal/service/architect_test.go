package service_test

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
)

var _ = Describe("ArchitectService", func() {
	var (
		ctx           context.Context
		stores        *fakeStores
		tx            *fakeTxRunner
		producer      *mockProducer
		notifications *mockNotificationService
		svc           service.ArchitectService
		agent         *model.Agent
		requests      map[int64]*model.AgentRequest
		requester     int64
	)

	BeforeEach(func() {
		ctx = context.Background()
		stores = newFakeStores()
		tx = &fakeTxRunner{stores: stores}
		producer = &mockProducer{}
		notifications = &mockNotificationService{}
		svc = service.NewArchitectService(tx, stores, notifications, nil, producer, time.Hour)

		requester = 21
		agent = &model.Agent{
			ID:            7,
			WorkspaceID:   1,
			Name:          "Scout",
			AutonomyLevel: model.AutonomyAssistant,
			Permissions:   json.RawMessage(`{}`),
			IsActive:      true,
		}
		stores.agents.getByIDFn = func(context.Context, int64) (*model.Agent, error) { return agent, nil }

		requests = map[int64]*model.AgentRequest{}
		stores.agentRequests.createFn = func(_ context.Context, req *model.AgentRequest) error {
			cp := *req
			requests[req.ID] = &cp
			return nil
		}
		stores.agentRequests.getByIDFn = func(_ context.Context, id int64) (*model.AgentRequest, error) {
			req, ok := requests[id]
			if !ok {
				return nil, store.ErrNotFound
			}
			cp := *req
			return &cp, nil
		}
		stores.agentRequests.markFailedFn = func(_ context.Context, id int64, msg string) (*model.AgentRequest, error) {
			req := requests[id]
			req.Status = model.RequestStatusFailed
			req.Error = &msg
			cp := *req
			return &cp, nil
		}
		stores.members.listUserIDsByRolesFn = func(_ context.Context, _ int64, roles ...model.WorkspaceRole) ([]int64, error) {
			Expect(roles).To(ConsistOf(model.WorkspaceRoleOwner, model.WorkspaceRoleAdmin))
			return []int64{30, 31}, nil
		}
	})

	propose := func(action model.ActionKind, payload string) (*service.Outcome, error) {
		return svc.Propose(ctx, service.Proposal{
			Agent:       agent,
			Action:      action,
			Payload:     json.RawMessage(payload),
			RequestedBy: &requester,
		})
	}

	Describe("Propose", func() {
		It("refuses denied actions without recording anything", func() {
			agent.AutonomyLevel = model.AutonomyObserver

			_, err := propose(model.ActionDocumentCreate, `{"title":"x"}`)

			Expect(err).To(MatchError(service.ErrActionDenied))
			Expect(requests).To(BeEmpty())
		})

		It("refuses everything for inactive agents", func() {
			agent.AutonomyLevel = model.AutonomyAutopilot
			agent.IsActive = false

			_, err := propose(model.ActionMemoryWrite, `{"content":"x"}`)
			Expect(err).To(MatchError(service.ErrActionDenied))
		})

		It("applies allowed actions immediately with an audit row", func() {
			agent.AutonomyLevel = model.AutonomyAutopilot
			var created *model.Document
			stores.documents.createFn = func(_ context.Context, doc *model.Document) error {
				created = doc
				return nil
			}

			outcome, err := propose(model.ActionDocumentCreate, `{"kind":"brief","title":"Q3 brief","content":"..."}`)

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Decision).To(Equal(model.DecisionAllow))
			Expect(created.Kind).To(Equal(model.DocumentKindBrief))
			Expect(*created.CreatedByAgentID).To(Equal(agent.ID))
			Expect(*created.CreatedByUserID).To(Equal(requester))
			Expect(outcome.Result).To(MatchJSON(`{"document_id":"` + strconv.FormatInt(created.ID, 10) + `"}`))

			audit := requests[outcome.Request.ID]
			Expect(audit.Status).To(Equal(model.RequestStatusApplied))
			Expect(audit.Decision).To(Equal(model.DecisionAllow))
			Expect(audit.DecidedAt).NotTo(BeNil())
			Expect(tx.calls).To(Equal(1))
		})

		It("queues the score after an allowed idea is committed", func() {
			agent.AutonomyLevel = model.AutonomyAutopilot

			_, err := propose(model.ActionIdeaCreate, `{"title":"Offline sync"}`)

			Expect(err).NotTo(HaveOccurred())
			Expect(producer.tasks).To(HaveLen(1))
			Expect(producer.tasks[0].TaskType).To(Equal(queue.TaskTypeScoreIdea))
		})

		It("notifies ticket participants after an allowed transition commits", func() {
			agent.AutonomyLevel = model.AutonomyAutopilot
			reporter, assignee := int64(40), int64(41)
			ticket := &model.Ticket{
				ID:             12,
				WorkspaceID:    1,
				Subject:        "Login loop",
				Status:         model.TicketStatusOpen,
				ReporterUserID: &reporter,
				AssigneeUserID: &assignee,
			}
			stores.tickets.getByIDFn = func(context.Context, int64) (*model.Ticket, error) {
				cp := *ticket
				return &cp, nil
			}
			stores.tickets.transitionFn = func(_ context.Context, id int64, from, to model.TicketStatus) (*model.Ticket, error) {
				Expect(from).To(Equal(model.TicketStatusOpen))
				moved := *ticket
				moved.Status = to
				return &moved, nil
			}

			outcome, err := propose(model.ActionTicketTransition, `{"ticket_id":"12","status":"in_progress"}`)

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Decision).To(Equal(model.DecisionAllow))
			Expect(notifications.fanout).To(HaveLen(2))
			Expect(notifications.fanout[reporter].Kind).To(Equal(model.NotificationTicketUpdated))
			Expect(notifications.fanout[assignee].Title).To(Equal("Ticket in progress"))
			Expect(*notifications.fanout[assignee].Link).To(Equal("/workspaces/1/tickets/12"))
		})

		It("records a failed audit row when an allowed action rolls back", func() {
			agent.AutonomyLevel = model.AutonomyAutopilot
			stores.ideas.getByIDFn = func(_ context.Context, id int64) (*model.Idea, error) {
				return &model.Idea{ID: id, WorkspaceID: 1, Stage: model.IdeaStageArchived}, nil
			}

			_, err := propose(model.ActionIdeaPromote, `{"idea_id":"5"}`)

			Expect(err).To(MatchError(service.ErrApplyFailed))
			Expect(err).To(MatchError(service.ErrIdeaArchived))
			Expect(requests).To(HaveLen(1))
			for _, req := range requests {
				Expect(req.Status).To(Equal(model.RequestStatusFailed))
				Expect(*req.Error).To(ContainSubstring("archived"))
			}
		})

		It("parks approval-level actions and notifies approvers", func() {
			outcome, err := propose(model.ActionIdeaCreate, `{"title":"Offline sync"}`)

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome.Decision).To(Equal(model.DecisionApproval))
			Expect(outcome.Result).To(BeNil())

			pending := requests[outcome.Request.ID]
			Expect(pending.Status).To(Equal(model.RequestStatusPending))
			Expect(*pending.ExpiresAt).To(BeTemporally("~", time.Now().Add(time.Hour), time.Minute))
			Expect(pending.Payload).To(MatchJSON(`{"title":"Offline sync","description":""}`))
			Expect(tx.calls).To(BeZero())
			Expect(notifications.fanout).To(HaveKey(int64(30)))
			Expect(notifications.fanout).To(HaveKey(int64(31)))
			Expect(notifications.fanout[30].Kind).To(Equal(model.NotificationApprovalRequired))
		})

		It("rejects payloads that reference rows in another workspace", func() {
			stores.documents.getByIDFn = func(_ context.Context, id int64) (*model.Document, error) {
				return &model.Document{ID: id, WorkspaceID: 2}, nil
			}

			_, err := propose(model.ActionDocumentDelete, `{"document_id":"9"}`)

			Expect(err).To(MatchError(service.ErrInvalidPayload))
			Expect(requests).To(BeEmpty())
		})

		It("rejects unknown actions", func() {
			_, err := propose(model.ActionKind("workspace.delete"), `{}`)
			Expect(err).To(MatchError(service.ErrUnknownAction))
		})
	})

	Describe("Approve", func() {
		var pending *model.AgentRequest

		BeforeEach(func() {
			expires := time.Now().Add(time.Hour)
			pending = &model.AgentRequest{
				ID:          100,
				WorkspaceID: 1,
				AgentID:     agent.ID,
				Action:      model.ActionTicketCreate,
				Payload:     json.RawMessage(`{"subject":"Export fails","body":"","priority":"high"}`),
				Status:      model.RequestStatusPending,
				Decision:    model.DecisionApproval,
				RequestedBy: &requester,
				ExpiresAt:   &expires,
			}
			requests[pending.ID] = pending

			stores.agentRequests.decideFn = func(_ context.Context, id int64, status model.RequestStatus, by *int64, note *string) (*model.AgentRequest, error) {
				req := requests[id]
				req.Status = status
				req.DecidedBy = by
				req.DecisionNote = note
				cp := *req
				return &cp, nil
			}
			stores.agentRequests.markAppliedFn = func(_ context.Context, id int64, result json.RawMessage) (*model.AgentRequest, error) {
				req := requests[id]
				req.Status = model.RequestStatusApplied
				req.Result = result
				cp := *req
				return &cp, nil
			}
		})

		It("applies the stored payload and notifies the requester", func() {
			var created *model.Ticket
			stores.tickets.createFn = func(_ context.Context, t *model.Ticket) error {
				created = t
				return nil
			}

			applied, err := svc.Approve(ctx, 1, 100, 30, nil)

			Expect(err).NotTo(HaveOccurred())
			Expect(applied.Status).To(Equal(model.RequestStatusApplied))
			Expect(created.Priority).To(Equal(model.TicketPriorityHigh))
			Expect(applied.Result).To(MatchJSON(`{"ticket_id":"` + strconv.FormatInt(created.ID, 10) + `"}`))
			Expect(notifications.notified).To(HaveLen(1))
			Expect(notifications.notified[0].UserID).To(Equal(requester))
			Expect(notifications.notified[0].Kind).To(Equal(model.NotificationApprovalDecided))
		})

		It("conflicts on a request that was already decided", func() {
			pending.Status = model.RequestStatusRejected

			_, err := svc.Approve(ctx, 1, 100, 30, nil)
			Expect(err).To(MatchError(service.ErrRequestAlreadyDecided))
		})

		It("reports expired requests as gone", func() {
			past := time.Now().Add(-time.Minute)
			pending.ExpiresAt = &past

			_, err := svc.Approve(ctx, 1, 100, 30, nil)
			Expect(err).To(MatchError(service.ErrRequestExpired))
		})

		It("maps a lost decide race to already decided", func() {
			stores.agentRequests.decideFn = func(_ context.Context, id int64, _ model.RequestStatus, _ *int64, _ *string) (*model.AgentRequest, error) {
				requests[id].Status = model.RequestStatusApproved
				return nil, store.ErrNotFound
			}

			_, err := svc.Approve(ctx, 1, 100, 30, nil)
			Expect(err).To(MatchError(service.ErrRequestAlreadyDecided))
		})

		It("marks the request failed when applying no longer works", func() {
			pending.Action = model.ActionIdeaPromote
			pending.Payload = json.RawMessage(`{"idea_id":"5"}`)
			stores.ideas.getByIDFn = func(_ context.Context, id int64) (*model.Idea, error) {
				return &model.Idea{ID: id, WorkspaceID: 1, Stage: model.IdeaStagePromoted}, nil
			}

			failed, err := svc.Approve(ctx, 1, 100, 30, nil)

			Expect(err).To(MatchError(service.ErrApplyFailed))
			Expect(err).To(MatchError(service.ErrIdeaAlreadyPromoted))
			Expect(failed.Status).To(Equal(model.RequestStatusFailed))
		})

		It("hides requests from other workspaces", func() {
			_, err := svc.Approve(ctx, 2, 100, 30, nil)
			Expect(err).To(MatchError(service.ErrRequestNotFound))
		})
	})

	Describe("Reject", func() {
		It("records the decision without applying anything", func() {
			expires := time.Now().Add(time.Hour)
			requests[100] = &model.AgentRequest{
				ID: 100, WorkspaceID: 1, AgentID: agent.ID,
				Action: model.ActionDocumentDelete, Status: model.RequestStatusPending,
				RequestedBy: &requester, ExpiresAt: &expires,
			}
			stores.agentRequests.decideFn = func(_ context.Context, id int64, status model.RequestStatus, by *int64, note *string) (*model.AgentRequest, error) {
				req := requests[id]
				req.Status = status
				req.DecidedBy = by
				req.DecisionNote = note
				cp := *req
				return &cp, nil
			}
			note := "not now"

			rejected, err := svc.Reject(ctx, 1, 100, 30, &note)

			Expect(err).NotTo(HaveOccurred())
			Expect(rejected.Status).To(Equal(model.RequestStatusRejected))
			Expect(*rejected.DecisionNote).To(Equal("not now"))
			Expect(tx.calls).To(BeZero())
			Expect(notifications.notified[0].Body).To(Equal("not now"))
		})
	})
})
