package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type NotificationResponse struct {
	ID          int64                  `json:"id,string"`
	WorkspaceID *int64                 `json:"workspace_id,omitempty,string"`
	Kind        model.NotificationKind `json:"kind"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	Link        *string                `json:"link,omitempty"`
	ReadAt      *time.Time             `json:"read_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

func ToNotificationResponse(n *model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		WorkspaceID: n.WorkspaceID,
		Kind:        n.Kind,
		Title:       n.Title,
		Body:        n.Body,
		Link:        n.Link,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}

func ToNotificationResponses(items []model.Notification) []NotificationResponse {
	out := make([]NotificationResponse, len(items))
	for i := range items {
		out[i] = ToNotificationResponse(&items[i])
	}
	return out
}

type StreamTicketResponse struct {
	Ticket    string    `json:"ticket"`
	ExpiresAt time.Time `json:"expires_at"`
}
