package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type CreateInvitationRequest struct {
	Email string              `json:"email" binding:"required,email,max=255"`
	Role  model.WorkspaceRole `json:"role,omitempty"`
}

type AcceptInvitationRequest struct {
	Token string `json:"token" binding:"required"`
}

type InvitationResponse struct {
	ID          int64                  `json:"id,string"`
	WorkspaceID int64                  `json:"workspace_id,string"`
	Email       string                 `json:"email"`
	Role        model.WorkspaceRole    `json:"role"`
	Status      model.InvitationStatus `json:"status"`
	InvitedBy   *int64                 `json:"invited_by,omitempty,string"`
	InviteURL   string                 `json:"invite_url,omitempty"`
	ExpiresAt   time.Time              `json:"expires_at"`
	CreatedAt   time.Time              `json:"created_at"`
	AcceptedAt  *time.Time             `json:"accepted_at,omitempty"`
}

func ToInvitationResponse(inv *model.Invitation) InvitationResponse {
	return InvitationResponse{
		ID:          inv.ID,
		WorkspaceID: inv.WorkspaceID,
		Email:       inv.Email,
		Role:        inv.Role,
		Status:      inv.Status,
		InvitedBy:   inv.InvitedBy,
		ExpiresAt:   inv.ExpiresAt,
		CreatedAt:   inv.CreatedAt,
		AcceptedAt:  inv.AcceptedAt,
	}
}

func ToInvitationResponses(items []model.Invitation) []InvitationResponse {
	out := make([]InvitationResponse, len(items))
	for i := range items {
		out[i] = ToInvitationResponse(&items[i])
	}
	return out
}

// InvitationPreview is what the public validate endpoint reveals.
type InvitationPreview struct {
	Email       string              `json:"email"`
	Role        model.WorkspaceRole `json:"role"`
	WorkspaceID int64               `json:"workspace_id,string"`
	ExpiresAt   time.Time           `json:"expires_at"`
}
