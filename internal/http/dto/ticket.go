package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type CreateTicketRequest struct {
	Subject  string               `json:"subject" binding:"required,min=1,max=500"`
	Body     string               `json:"body"`
	Priority model.TicketPriority `json:"priority,omitempty"`
}

// UpdateTicketRequest carries assignee as a string id; an empty string
// clears the assignee.
type UpdateTicketRequest struct {
	Subject    *string               `json:"subject,omitempty" binding:"omitempty,min=1,max=500"`
	Body       *string               `json:"body,omitempty"`
	Priority   *model.TicketPriority `json:"priority,omitempty"`
	AssigneeID *string               `json:"assignee_user_id,omitempty"`
}

type TransitionTicketRequest struct {
	Status model.TicketStatus `json:"status" binding:"required"`
}

type AssignTicketRequest struct {
	AssigneeID *string `json:"assignee_user_id"`
}

type TicketResponse struct {
	ID             int64                `json:"id,string"`
	WorkspaceID    int64                `json:"workspace_id,string"`
	Subject        string               `json:"subject"`
	Body           string               `json:"body"`
	Status         model.TicketStatus   `json:"status"`
	Priority       model.TicketPriority `json:"priority"`
	ReporterUserID *int64               `json:"reporter_user_id,omitempty,string"`
	AssigneeUserID *int64               `json:"assignee_user_id,omitempty,string"`
	ResolvedAt     *time.Time           `json:"resolved_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func ToTicketResponse(t *model.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		WorkspaceID:    t.WorkspaceID,
		Subject:        t.Subject,
		Body:           t.Body,
		Status:         t.Status,
		Priority:       t.Priority,
		ReporterUserID: t.ReporterUserID,
		AssigneeUserID: t.AssigneeUserID,
		ResolvedAt:     t.ResolvedAt,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func ToTicketResponses(items []model.Ticket) []TicketResponse {
	out := make([]TicketResponse, len(items))
	for i := range items {
		out[i] = ToTicketResponse(&items[i])
	}
	return out
}
