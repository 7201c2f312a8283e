package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type ticketStore struct {
	queries *sqlc.Queries
}

func newTicketStore(queries *sqlc.Queries) TicketStore {
	return &ticketStore{queries: queries}
}

func (s *ticketStore) Create(ctx context.Context, ticket *model.Ticket) error {
	row, err := s.queries.CreateTicket(ctx, sqlc.CreateTicketParams{
		ID:             ticket.ID,
		WorkspaceID:    ticket.WorkspaceID,
		Subject:        ticket.Subject,
		Body:           ticket.Body,
		Status:         string(ticket.Status),
		Priority:       string(ticket.Priority),
		ReporterUserID: ticket.ReporterUserID,
		AssigneeUserID: ticket.AssigneeUserID,
	})
	if err != nil {
		return translate(err)
	}
	*ticket = *toTicketModel(row)
	return nil
}

func (s *ticketStore) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	row, err := s.queries.GetTicket(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toTicketModel(row), nil
}

func (s *ticketStore) Update(ctx context.Context, ticket *model.Ticket) error {
	row, err := s.queries.UpdateTicket(ctx, sqlc.UpdateTicketParams{
		ID:             ticket.ID,
		Subject:        ticket.Subject,
		Body:           ticket.Body,
		Priority:       string(ticket.Priority),
		AssigneeUserID: ticket.AssigneeUserID,
	})
	if err != nil {
		return translate(err)
	}
	*ticket = *toTicketModel(row)
	return nil
}

func (s *ticketStore) Transition(ctx context.Context, id int64, from, to model.TicketStatus) (*model.Ticket, error) {
	row, err := s.queries.TransitionTicket(ctx, sqlc.TransitionTicketParams{
		ToStatus:   string(to),
		ID:         id,
		FromStatus: string(from),
	})
	if err != nil {
		return nil, translate(err)
	}
	return toTicketModel(row), nil
}

func (s *ticketStore) Assign(ctx context.Context, id int64, assignee *int64) (*model.Ticket, error) {
	row, err := s.queries.AssignTicket(ctx, sqlc.AssignTicketParams{
		ID:             id,
		AssigneeUserID: assignee,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toTicketModel(row), nil
}

func (s *ticketStore) List(ctx context.Context, filter TicketFilter) ([]model.Ticket, error) {
	rows, err := s.queries.ListTickets(ctx, sqlc.ListTicketsParams{
		WorkspaceID: filter.WorkspaceID,
		Status:      strPtr(filter.Status),
		Priority:    strPtr(filter.Priority),
		Lim:         filter.Limit,
		Off:         filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Ticket, len(rows))
	for i, row := range rows {
		result[i] = *toTicketModel(row)
	}
	return result, nil
}

func (s *ticketStore) CountOpen(ctx context.Context) (int64, error) {
	return s.queries.CountOpenTickets(ctx)
}

func toTicketModel(row sqlc.SupportTicket) *model.Ticket {
	return &model.Ticket{
		ID:             row.ID,
		WorkspaceID:    row.WorkspaceID,
		Subject:        row.Subject,
		Body:           row.Body,
		Status:         model.TicketStatus(row.Status),
		Priority:       model.TicketPriority(row.Priority),
		ReporterUserID: row.ReporterUserID,
		AssigneeUserID: row.AssigneeUserID,
		ResolvedAt:     timePtr(row.ResolvedAt),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
