package model

import "time"

type NotificationKind string

const (
	NotificationApprovalRequired NotificationKind = "approval_required"
	NotificationApprovalDecided  NotificationKind = "approval_decided"
	NotificationIdeaScored       NotificationKind = "idea_scored"
	NotificationTicketUpdated    NotificationKind = "ticket_updated"
	NotificationInviteAccepted   NotificationKind = "invite_accepted"
)

type Notification struct {
	ID          int64            `json:"id"`
	UserID      int64            `json:"user_id"`
	WorkspaceID *int64           `json:"workspace_id,omitempty"`
	Kind        NotificationKind `json:"kind"`
	Title       string           `json:"title"`
	Body        string           `json:"body"`
	Link        *string          `json:"link,omitempty"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}
