package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

var (
	ErrTicketNotFound         = errors.New("ticket not found")
	ErrInvalidTicketStatus    = errors.New("invalid ticket status")
	ErrInvalidPriority        = errors.New("invalid ticket priority")
	ErrInvalidTicketMove      = errors.New("invalid ticket transition")
	ErrTicketStatusConflict   = errors.New("ticket status changed concurrently")
	ErrAssigneeNotInWorkspace = errors.New("assignee is not a workspace member")
)

type CreateTicketParams struct {
	WorkspaceID    int64
	Subject        string
	Body           string
	Priority       model.TicketPriority
	ReporterUserID *int64
}

type UpdateTicketParams struct {
	Subject        *string
	Body           *string
	Priority       *model.TicketPriority
	AssigneeUserID *int64
	ClearAssignee  bool
}

// TicketService methods that take a *int64 workspace scope treat nil as the
// admin console, which may reach tickets in any workspace.
type TicketService interface {
	Create(ctx context.Context, params CreateTicketParams) (*model.Ticket, error)
	Get(ctx context.Context, workspaceID *int64, ticketID int64) (*model.Ticket, error)
	List(ctx context.Context, filter store.TicketFilter) ([]model.Ticket, error)
	Update(ctx context.Context, workspaceID, ticketID int64, params UpdateTicketParams) (*model.Ticket, error)
	Transition(ctx context.Context, workspaceID *int64, ticketID int64, to model.TicketStatus, actorID *int64) (*model.Ticket, error)
	Assign(ctx context.Context, workspaceID *int64, ticketID int64, assignee *int64) (*model.Ticket, error)
}

type ticketService struct {
	ticketStore   store.TicketStore
	memberStore   store.MemberStore
	notifications NotificationService
}

func NewTicketService(ticketStore store.TicketStore, memberStore store.MemberStore, notifications NotificationService) TicketService {
	return &ticketService{
		ticketStore:   ticketStore,
		memberStore:   memberStore,
		notifications: notifications,
	}
}

var ticketTransitions = map[model.TicketStatus][]model.TicketStatus{
	model.TicketStatusOpen:       {model.TicketStatusInProgress, model.TicketStatusWaiting, model.TicketStatusResolved, model.TicketStatusClosed},
	model.TicketStatusInProgress: {model.TicketStatusOpen, model.TicketStatusWaiting, model.TicketStatusResolved},
	model.TicketStatusWaiting:    {model.TicketStatusInProgress, model.TicketStatusResolved, model.TicketStatusClosed},
	model.TicketStatusResolved:   {model.TicketStatusOpen, model.TicketStatusClosed},
	model.TicketStatusClosed:     {model.TicketStatusOpen},
}

func CanTransitionTicket(from, to model.TicketStatus) bool {
	for _, next := range ticketTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *ticketService) Create(ctx context.Context, params CreateTicketParams) (*model.Ticket, error) {
	ticket, err := buildTicket(params)
	if err != nil {
		return nil, err
	}
	if err := s.ticketStore.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("creating ticket: %w", err)
	}

	slog.InfoContext(ctx, "ticket created",
		"ticket_id", ticket.ID,
		"workspace_id", ticket.WorkspaceID,
		"priority", ticket.Priority,
	)
	return ticket, nil
}

func (s *ticketService) Get(ctx context.Context, workspaceID *int64, ticketID int64) (*model.Ticket, error) {
	return getScopedTicket(ctx, s.ticketStore, workspaceID, ticketID)
}

func (s *ticketService) List(ctx context.Context, filter store.TicketFilter) ([]model.Ticket, error) {
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrInvalidTicketStatus
	}
	if filter.Priority != nil && !filter.Priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	tickets, err := s.ticketStore.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	return tickets, nil
}

func (s *ticketService) Update(ctx context.Context, workspaceID, ticketID int64, params UpdateTicketParams) (*model.Ticket, error) {
	ticket, err := s.Get(ctx, &workspaceID, ticketID)
	if err != nil {
		return nil, err
	}

	if params.Subject != nil {
		subject := strings.TrimSpace(*params.Subject)
		if subject == "" {
			return nil, fmt.Errorf("%w: subject cannot be empty", ErrInvalidInput)
		}
		ticket.Subject = subject
	}
	if params.Body != nil {
		ticket.Body = *params.Body
	}
	if params.Priority != nil {
		if !params.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		ticket.Priority = *params.Priority
	}
	switch {
	case params.ClearAssignee:
		ticket.AssigneeUserID = nil
	case params.AssigneeUserID != nil:
		if err := s.requireAssignee(ctx, ticket.WorkspaceID, *params.AssigneeUserID); err != nil {
			return nil, err
		}
		ticket.AssigneeUserID = params.AssigneeUserID
	}

	if err := s.ticketStore.Update(ctx, ticket); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("updating ticket: %w", err)
	}
	return ticket, nil
}

func (s *ticketService) Transition(ctx context.Context, workspaceID *int64, ticketID int64, to model.TicketStatus, actorID *int64) (*model.Ticket, error) {
	ticket, err := s.Get(ctx, workspaceID, ticketID)
	if err != nil {
		return nil, err
	}

	moved, err := transitionTicket(ctx, s.ticketStore, ticket, to)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "ticket transitioned",
		"ticket_id", ticketID,
		"from", ticket.Status,
		"to", to,
	)

	s.notifyParticipants(ctx, moved, actorID, ticketStatusTitle(to))
	return moved, nil
}

func (s *ticketService) Assign(ctx context.Context, workspaceID *int64, ticketID int64, assignee *int64) (*model.Ticket, error) {
	ticket, err := s.Get(ctx, workspaceID, ticketID)
	if err != nil {
		return nil, err
	}
	if assignee != nil {
		if err := s.requireAssignee(ctx, ticket.WorkspaceID, *assignee); err != nil {
			return nil, err
		}
	}

	assigned, err := s.ticketStore.Assign(ctx, ticketID, assignee)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("assigning ticket: %w", err)
	}

	if assignee != nil {
		s.notifyParticipants(ctx, assigned, nil, "Ticket assigned")
	}
	return assigned, nil
}

func (s *ticketService) requireAssignee(ctx context.Context, workspaceID, userID int64) error {
	if _, err := s.memberStore.Get(ctx, workspaceID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAssigneeNotInWorkspace
		}
		return fmt.Errorf("checking assignee membership: %w", err)
	}
	return nil
}

// notifyParticipants tells the reporter and assignee, skipping whoever made the change.
func (s *ticketService) notifyParticipants(ctx context.Context, ticket *model.Ticket, actorID *int64, title string) {
	notifyTicketParticipants(ctx, s.notifications, ticket, actorID, title)
}

func notifyTicketParticipants(ctx context.Context, notifications NotificationService, ticket *model.Ticket, actorID *int64, title string) {
	if notifications == nil {
		return
	}
	var recipients []int64
	for _, uid := range []*int64{ticket.ReporterUserID, ticket.AssigneeUserID} {
		if uid == nil || (actorID != nil && *uid == *actorID) {
			continue
		}
		recipients = append(recipients, *uid)
	}
	if len(recipients) == 0 {
		return
	}

	workspaceID := ticket.WorkspaceID
	link := fmt.Sprintf("/workspaces/%d/tickets/%d", ticket.WorkspaceID, ticket.ID)
	notifications.NotifyMany(ctx, recipients, NotifyParams{
		WorkspaceID: &workspaceID,
		Kind:        model.NotificationTicketUpdated,
		Title:       title,
		Body:        ticket.Subject,
		Link:        &link,
	})
}

func ticketStatusTitle(status model.TicketStatus) string {
	return fmt.Sprintf("Ticket %s", strings.ReplaceAll(string(status), "_", " "))
}

func buildTicket(params CreateTicketParams) (*model.Ticket, error) {
	subject := strings.TrimSpace(params.Subject)
	if subject == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	priority := params.Priority
	if priority == "" {
		priority = model.TicketPriorityNormal
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}
	return &model.Ticket{
		ID:             id.New(),
		WorkspaceID:    params.WorkspaceID,
		Subject:        subject,
		Body:           params.Body,
		Status:         model.TicketStatusOpen,
		Priority:       priority,
		ReporterUserID: params.ReporterUserID,
	}, nil
}

func transitionTicket(ctx context.Context, tickets store.TicketStore, ticket *model.Ticket, to model.TicketStatus) (*model.Ticket, error) {
	if !to.IsValid() {
		return nil, ErrInvalidTicketStatus
	}
	if !CanTransitionTicket(ticket.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTicketMove, ticket.Status, to)
	}

	moved, err := tickets.Transition(ctx, ticket.ID, ticket.Status, to)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketStatusConflict
		}
		return nil, fmt.Errorf("transitioning ticket: %w", err)
	}
	return moved, nil
}

func getScopedTicket(ctx context.Context, tickets store.TicketStore, workspaceID *int64, ticketID int64) (*model.Ticket, error) {
	ticket, err := tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("getting ticket: %w", err)
	}
	if workspaceID != nil && ticket.WorkspaceID != *workspaceID {
		return nil, ErrTicketNotFound
	}
	return ticket, nil
}
