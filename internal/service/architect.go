package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/ladder"
	"cerebrin.app/backend/internal/metrics"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/store"
)

const defaultApprovalTTL = 72 * time.Hour

var (
	ErrActionDenied          = errors.New("action denied by agent permissions")
	ErrRequestNotFound       = errors.New("agent request not found")
	ErrRequestAlreadyDecided = errors.New("agent request already decided")
	ErrRequestExpired        = errors.New("agent request expired")
	ErrApplyFailed           = errors.New("applying agent request failed")
)

type Proposal struct {
	Agent       *model.Agent
	Action      model.ActionKind
	Payload     json.RawMessage
	Rationale   *string
	RequestedBy *int64
}

// Outcome is the result of a proposal that was not denied. Request is the
// audit row for allowed actions and the pending row for approvals.
type Outcome struct {
	Decision model.Decision
	Request  *model.AgentRequest
	Result   json.RawMessage
}

type ArchitectService interface {
	Propose(ctx context.Context, proposal Proposal) (*Outcome, error)
	Approve(ctx context.Context, workspaceID, requestID, deciderID int64, note *string) (*model.AgentRequest, error)
	Reject(ctx context.Context, workspaceID, requestID, deciderID int64, note *string) (*model.AgentRequest, error)
	Get(ctx context.Context, workspaceID, requestID int64) (*model.AgentRequest, error)
	List(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error)
	ListPending(ctx context.Context, limit, offset int32) ([]model.AgentRequest, error)
	ExpireStale(ctx context.Context) (int64, error)
}

type architectService struct {
	txRunner      TxRunner
	stores        StoreProvider
	notifications NotificationService
	documents     DocumentService
	producer      queue.Producer
	approvalTTL   time.Duration
	now           func() time.Time
}

func NewArchitectService(
	txRunner TxRunner,
	stores StoreProvider,
	notifications NotificationService,
	documents DocumentService,
	producer queue.Producer,
	approvalTTL time.Duration,
) ArchitectService {
	if approvalTTL <= 0 {
		approvalTTL = defaultApprovalTTL
	}
	return &architectService{
		txRunner:      txRunner,
		stores:        stores,
		notifications: notifications,
		documents:     documents,
		producer:      producer,
		approvalTTL:   approvalTTL,
		now:           time.Now,
	}
}

func (s *architectService) Propose(ctx context.Context, p Proposal) (*Outcome, error) {
	if p.Agent == nil {
		return nil, ErrAgentNotFound
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: logger.Ptr(p.Agent.WorkspaceID),
		AgentID:     logger.Ptr(p.Agent.ID),
		Component:   "cerebrin.architect",
	})

	resource, action, ok := ladder.ForActionKind(p.Action)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, p.Action)
	}

	decision := ladder.Evaluate(p.Agent, resource, action)
	if decision == model.DecisionDeny {
		slog.WarnContext(ctx, "agent action denied", "action", p.Action)
		metrics.RecordHITLDecision("denied", string(p.Action))
		return nil, ErrActionDenied
	}

	parsed, err := ParsePayload(p.Action, p.Payload)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, p.Agent.WorkspaceID, parsed); err != nil {
		return nil, err
	}
	normalized, err := json.Marshal(parsed)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	req := &model.AgentRequest{
		ID:          id.New(),
		WorkspaceID: p.Agent.WorkspaceID,
		AgentID:     p.Agent.ID,
		Action:      p.Action,
		Payload:     normalized,
		Rationale:   p.Rationale,
		Decision:    decision,
		RequestedBy: p.RequestedBy,
	}

	if decision == model.DecisionAllow {
		return s.applyAllowed(ctx, p.Agent, req, parsed)
	}
	return s.queueForApproval(ctx, req)
}

func (s *architectService) applyAllowed(ctx context.Context, agent *model.Agent, req *model.AgentRequest, parsed any) (*Outcome, error) {
	var (
		result  json.RawMessage
		effects []effect
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		result, effects, err = applyAction(ctx, stores, agent, req, parsed)
		if err != nil {
			return err
		}

		now := s.now()
		req.Status = model.RequestStatusApplied
		req.Result = result
		req.DecidedAt = &now
		if err := stores.AgentRequests().Create(ctx, req); err != nil {
			return fmt.Errorf("recording applied request: %w", err)
		}
		return nil
	})
	if err != nil {
		s.recordFailedAudit(ctx, req, err)
		metrics.RecordHITLDecision("failed", string(req.Action))
		return nil, fmt.Errorf("%w: %w", ErrApplyFailed, err)
	}

	s.runEffects(ctx, effects)
	metrics.RecordHITLDecision("allowed", string(req.Action))
	slog.InfoContext(ctx, "agent action applied", "action", req.Action, "request_id", req.ID)

	return &Outcome{Decision: model.DecisionAllow, Request: req, Result: result}, nil
}

// recordFailedAudit keeps a trace of auto-applied actions that rolled back.
func (s *architectService) recordFailedAudit(ctx context.Context, req *model.AgentRequest, cause error) {
	now := s.now()
	req.Status = model.RequestStatusFailed
	req.Result = nil
	req.DecidedAt = &now
	if err := s.stores.AgentRequests().Create(ctx, req); err != nil {
		slog.ErrorContext(ctx, "failed to record failed agent request", "error", err, "request_id", req.ID)
		return
	}
	if failed, err := s.stores.AgentRequests().MarkFailed(ctx, req.ID, cause.Error()); err == nil {
		*req = *failed
	}
}

func (s *architectService) queueForApproval(ctx context.Context, req *model.AgentRequest) (*Outcome, error) {
	expiresAt := s.now().Add(s.approvalTTL)
	req.Status = model.RequestStatusPending
	req.ExpiresAt = &expiresAt

	if err := s.stores.AgentRequests().Create(ctx, req); err != nil {
		return nil, fmt.Errorf("creating agent request: %w", err)
	}

	metrics.RecordHITLDecision("pending", string(req.Action))
	slog.InfoContext(ctx, "agent action awaiting approval",
		"action", req.Action,
		"request_id", req.ID,
		"expires_at", expiresAt,
	)

	s.notifyApprovers(ctx, req)
	return &Outcome{Decision: model.DecisionApproval, Request: req}, nil
}

func (s *architectService) notifyApprovers(ctx context.Context, req *model.AgentRequest) {
	if s.notifications == nil {
		return
	}
	approvers, err := s.stores.Members().ListUserIDsByRoles(ctx, req.WorkspaceID, model.WorkspaceRoleOwner, model.WorkspaceRoleAdmin)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list approvers", "error", err, "request_id", req.ID)
		return
	}

	workspaceID := req.WorkspaceID
	link := requestLink(req)
	s.notifications.NotifyMany(ctx, approvers, NotifyParams{
		WorkspaceID: &workspaceID,
		Kind:        model.NotificationApprovalRequired,
		Title:       fmt.Sprintf("Approval required: %s", req.Action),
		Body:        derefOr(req.Rationale, "An agent is waiting for sign-off."),
		Link:        &link,
	})
}

func (s *architectService) Approve(ctx context.Context, workspaceID, requestID, deciderID int64, note *string) (*model.AgentRequest, error) {
	req, err := s.decide(ctx, workspaceID, requestID, model.RequestStatusApproved, deciderID, note)
	if err != nil {
		return nil, err
	}

	agent, err := s.stores.Agents().GetByID(ctx, req.AgentID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("getting agent: %w", err)
		}
		return s.markFailed(ctx, req, ErrAgentNotFound)
	}

	parsed, err := ParsePayload(req.Action, req.Payload)
	if err != nil {
		return s.markFailed(ctx, req, err)
	}

	var (
		applied *model.AgentRequest
		effects []effect
	)
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		result, fx, err := applyAction(ctx, stores, agent, req, parsed)
		if err != nil {
			return err
		}
		effects = fx

		applied, err = stores.AgentRequests().MarkApplied(ctx, req.ID, result)
		if err != nil {
			return fmt.Errorf("marking request applied: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.markFailed(ctx, req, err)
	}

	s.runEffects(ctx, effects)
	metrics.RecordHITLDecision("approved", string(req.Action))
	slog.InfoContext(ctx, "agent request approved and applied", "request_id", req.ID, "decided_by", deciderID)

	s.notifyRequester(ctx, applied, "approved")
	return applied, nil
}

func (s *architectService) Reject(ctx context.Context, workspaceID, requestID, deciderID int64, note *string) (*model.AgentRequest, error) {
	req, err := s.decide(ctx, workspaceID, requestID, model.RequestStatusRejected, deciderID, note)
	if err != nil {
		return nil, err
	}

	metrics.RecordHITLDecision("rejected", string(req.Action))
	slog.InfoContext(ctx, "agent request rejected", "request_id", req.ID, "decided_by", deciderID)

	s.notifyRequester(ctx, req, "rejected")
	return req, nil
}

// decide performs the guarded pending -> status flip and maps guard misses
// to 409 (already decided) or 410 (expired).
func (s *architectService) decide(ctx context.Context, workspaceID, requestID int64, status model.RequestStatus, deciderID int64, note *string) (*model.AgentRequest, error) {
	req, err := s.Get(ctx, workspaceID, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDecidable(req); err != nil {
		return nil, err
	}

	decided, err := s.stores.AgentRequests().Decide(ctx, requestID, status, &deciderID, note)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("deciding agent request: %w", err)
		}
		current, getErr := s.Get(ctx, workspaceID, requestID)
		if getErr != nil {
			return nil, getErr
		}
		if err := s.checkDecidable(current); err != nil {
			return nil, err
		}
		return nil, ErrRequestAlreadyDecided
	}
	return decided, nil
}

func (s *architectService) checkDecidable(req *model.AgentRequest) error {
	switch {
	case req.Status == model.RequestStatusExpired:
		return ErrRequestExpired
	case req.Status != model.RequestStatusPending:
		return ErrRequestAlreadyDecided
	case req.IsExpired(s.now()):
		return ErrRequestExpired
	}
	return nil
}

func (s *architectService) markFailed(ctx context.Context, req *model.AgentRequest, cause error) (*model.AgentRequest, error) {
	metrics.RecordHITLDecision("failed", string(req.Action))
	slog.WarnContext(ctx, "approved agent request failed to apply", "request_id", req.ID, "error", cause)

	failed, err := s.stores.AgentRequests().MarkFailed(ctx, req.ID, cause.Error())
	if err != nil {
		return nil, fmt.Errorf("marking request failed: %w", err)
	}
	s.notifyRequester(ctx, failed, "failed")
	return failed, fmt.Errorf("%w: %w", ErrApplyFailed, cause)
}

func (s *architectService) notifyRequester(ctx context.Context, req *model.AgentRequest, verb string) {
	if s.notifications == nil || req == nil || req.RequestedBy == nil {
		return
	}
	if req.DecidedBy != nil && *req.DecidedBy == *req.RequestedBy {
		return
	}
	workspaceID := req.WorkspaceID
	link := requestLink(req)
	if _, err := s.notifications.Notify(ctx, NotifyParams{
		UserID:      *req.RequestedBy,
		WorkspaceID: &workspaceID,
		Kind:        model.NotificationApprovalDecided,
		Title:       fmt.Sprintf("Agent request %s: %s", verb, req.Action),
		Body:        derefOr(req.DecisionNote, ""),
		Link:        &link,
	}); err != nil {
		slog.WarnContext(ctx, "failed to notify requester", "error", err, "request_id", req.ID)
	}
}

func (s *architectService) Get(ctx context.Context, workspaceID, requestID int64) (*model.AgentRequest, error) {
	req, err := s.stores.AgentRequests().GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("getting agent request: %w", err)
	}
	if req.WorkspaceID != workspaceID {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *architectService) List(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error) {
	if status != nil && !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *status)
	}
	list, err := s.stores.AgentRequests().List(ctx, workspaceID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing agent requests: %w", err)
	}
	return list, nil
}

func (s *architectService) ListPending(ctx context.Context, limit, offset int32) ([]model.AgentRequest, error) {
	list, err := s.stores.AgentRequests().ListPending(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing pending agent requests: %w", err)
	}
	return list, nil
}

func (s *architectService) ExpireStale(ctx context.Context) (int64, error) {
	n, err := s.stores.AgentRequests().ExpireStale(ctx)
	if err != nil {
		return 0, fmt.Errorf("expiring agent requests: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "stale agent requests expired", "count", n)
	}
	return n, nil
}

// checkReferences rejects payloads that point at rows outside the agent's workspace.
func (s *architectService) checkReferences(ctx context.Context, workspaceID int64, parsed any) error {
	var err error
	switch p := parsed.(type) {
	case DocumentUpdatePayload:
		_, err = getWorkspaceDocument(ctx, s.stores.Documents(), workspaceID, int64(p.DocumentID))
	case DocumentDeletePayload:
		_, err = getWorkspaceDocument(ctx, s.stores.Documents(), workspaceID, int64(p.DocumentID))
	case IdeaMovePayload:
		_, err = getWorkspaceIdea(ctx, s.stores.Ideas(), workspaceID, int64(p.IdeaID))
	case IdeaPromotePayload:
		_, err = getWorkspaceIdea(ctx, s.stores.Ideas(), workspaceID, int64(p.IdeaID))
	case TicketTransitionPayload:
		_, err = getScopedTicket(ctx, s.stores.Tickets(), &workspaceID, int64(p.TicketID))
	}
	if errors.Is(err, ErrDocumentNotFound) || errors.Is(err, ErrIdeaNotFound) || errors.Is(err, ErrTicketNotFound) {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return err
}

// effect is work that must only happen after the apply transaction commits.
type effect func(ctx context.Context, s *architectService)

func reindexEffect(doc *model.Document) effect {
	return func(ctx context.Context, s *architectService) {
		if s.documents != nil {
			s.documents.Reindex(ctx, doc)
		}
	}
}

func scoreEffect(idea *model.Idea) effect {
	return func(ctx context.Context, s *architectService) {
		enqueueScore(ctx, s.producer, idea)
	}
}

// ticketUpdatedEffect notifies the reporter and assignee. The agent made the
// change, so nobody is skipped.
func ticketUpdatedEffect(ticket *model.Ticket) effect {
	return func(ctx context.Context, s *architectService) {
		notifyTicketParticipants(ctx, s.notifications, ticket, nil, ticketStatusTitle(ticket.Status))
	}
}

func (s *architectService) runEffects(ctx context.Context, effects []effect) {
	for _, fx := range effects {
		fx(ctx, s)
	}
}

// applyAction performs one parsed action against transaction-bound stores
// and returns a small JSON result naming what changed.
func applyAction(ctx context.Context, stores StoreProvider, agent *model.Agent, req *model.AgentRequest, parsed any) (json.RawMessage, []effect, error) {
	workspaceID := agent.WorkspaceID
	agentID := agent.ID

	switch p := parsed.(type) {
	case DocumentCreatePayload:
		doc, err := buildDocument(CreateDocumentParams{
			WorkspaceID:      workspaceID,
			Kind:             p.Kind,
			Title:            p.Title,
			Content:          p.Content,
			CreatedByUserID:  req.RequestedBy,
			CreatedByAgentID: &agentID,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := stores.Documents().Create(ctx, doc); err != nil {
			return nil, nil, fmt.Errorf("creating document: %w", err)
		}
		return resultJSON("document_id", doc.ID), []effect{reindexEffect(doc)}, nil

	case DocumentUpdatePayload:
		doc, err := getWorkspaceDocument(ctx, stores.Documents(), workspaceID, int64(p.DocumentID))
		if err != nil {
			return nil, nil, err
		}
		if err := applyDocumentUpdate(doc, UpdateDocumentParams{Title: p.Title, Content: p.Content, Status: p.Status}); err != nil {
			return nil, nil, err
		}
		if err := stores.Documents().Update(ctx, doc); err != nil {
			return nil, nil, fmt.Errorf("updating document: %w", err)
		}
		return resultJSON("document_id", doc.ID), []effect{reindexEffect(doc)}, nil

	case DocumentDeletePayload:
		doc, err := getWorkspaceDocument(ctx, stores.Documents(), workspaceID, int64(p.DocumentID))
		if err != nil {
			return nil, nil, err
		}
		doc.Status = model.DocumentStatusArchived
		if err := stores.Documents().Update(ctx, doc); err != nil {
			return nil, nil, fmt.Errorf("archiving document: %w", err)
		}
		return resultJSON("document_id", doc.ID), []effect{reindexEffect(doc)}, nil

	case IdeaCreatePayload:
		idea, err := createIdea(ctx, stores.Ideas(), CreateIdeaParams{
			WorkspaceID:      workspaceID,
			Title:            p.Title,
			Description:      p.Description,
			CreatedByUserID:  req.RequestedBy,
			CreatedByAgentID: &agentID,
		})
		if err != nil {
			return nil, nil, err
		}
		return resultJSON("idea_id", idea.ID), []effect{scoreEffect(idea)}, nil

	case IdeaMovePayload:
		idea, err := getWorkspaceIdea(ctx, stores.Ideas(), workspaceID, int64(p.IdeaID))
		if err != nil {
			return nil, nil, err
		}
		moved, err := moveIdea(ctx, stores.Ideas(), idea, MoveIdeaParams{Stage: p.Stage})
		if err != nil {
			return nil, nil, err
		}
		return resultJSON("idea_id", moved.ID), nil, nil

	case IdeaPromotePayload:
		idea, doc, err := promoteIdea(ctx, stores, workspaceID, int64(p.IdeaID), req.RequestedBy, &agentID)
		if err != nil {
			return nil, nil, err
		}
		return resultJSON("idea_id", idea.ID, "document_id", doc.ID), []effect{reindexEffect(doc)}, nil

	case TicketCreatePayload:
		ticket, err := buildTicket(CreateTicketParams{
			WorkspaceID:    workspaceID,
			Subject:        p.Subject,
			Body:           p.Body,
			Priority:       p.Priority,
			ReporterUserID: req.RequestedBy,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := stores.Tickets().Create(ctx, ticket); err != nil {
			return nil, nil, fmt.Errorf("creating ticket: %w", err)
		}
		return resultJSON("ticket_id", ticket.ID), nil, nil

	case TicketTransitionPayload:
		ticket, err := getScopedTicket(ctx, stores.Tickets(), &workspaceID, int64(p.TicketID))
		if err != nil {
			return nil, nil, err
		}
		moved, err := transitionTicket(ctx, stores.Tickets(), ticket, p.Status)
		if err != nil {
			return nil, nil, err
		}
		return resultJSON("ticket_id", moved.ID, "status", string(moved.Status)), []effect{ticketUpdatedEffect(moved)}, nil

	case MemoryWritePayload:
		entry, err := writeMemory(ctx, stores.Memory(), agent, model.MemoryKindFact, "", p.Content)
		if err != nil {
			return nil, nil, err
		}
		return resultJSON("memory_id", entry.ID), nil, nil
	}

	return nil, nil, fmt.Errorf("%w: %T", ErrUnknownAction, parsed)
}

// resultJSON builds a flat object from key/value pairs; int64 values are
// written as strings.
func resultJSON(kv ...any) json.RawMessage {
	out := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		switch v := kv[i+1].(type) {
		case int64:
			out[key] = strconv.FormatInt(v, 10)
		case string:
			out[key] = v
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	b, _ := json.Marshal(out)
	return b
}

func requestLink(req *model.AgentRequest) string {
	return fmt.Sprintf("/workspaces/%d/agent-requests/%d", req.WorkspaceID, req.ID)
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
