package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type CreateWorkspaceRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=255"`
	Slug        *string `json:"slug,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
}

type WorkspaceResponse struct {
	ID          int64               `json:"id,string"`
	OwnerUserID int64               `json:"owner_user_id,string"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description *string             `json:"description,omitempty"`
	Role        model.WorkspaceRole `json:"role,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func ToWorkspaceResponse(ws *model.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:          ws.ID,
		OwnerUserID: ws.OwnerUserID,
		Name:        ws.Name,
		Slug:        ws.Slug,
		Description: ws.Description,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}

func ToWorkspaceWithRoleResponses(items []model.WorkspaceWithRole) []WorkspaceResponse {
	out := make([]WorkspaceResponse, len(items))
	for i := range items {
		out[i] = ToWorkspaceResponse(&items[i].Workspace)
		out[i].Role = items[i].Role
	}
	return out
}

func ToWorkspaceResponses(items []model.Workspace) []WorkspaceResponse {
	out := make([]WorkspaceResponse, len(items))
	for i := range items {
		out[i] = ToWorkspaceResponse(&items[i])
	}
	return out
}

type UpdateMemberRequest struct {
	Role model.WorkspaceRole `json:"role" binding:"required"`
}

type MemberResponse struct {
	UserID    int64               `json:"user_id,string"`
	Role      model.WorkspaceRole `json:"role"`
	Name      string              `json:"name,omitempty"`
	Email     string              `json:"email,omitempty"`
	AvatarURL *string             `json:"avatar_url,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

func ToMemberResponse(m *model.WorkspaceMember) MemberResponse {
	return MemberResponse{
		UserID:    m.UserID,
		Role:      m.Role,
		Name:      m.Name,
		Email:     m.Email,
		AvatarURL: m.AvatarURL,
		CreatedAt: m.CreatedAt,
	}
}

func ToMemberResponses(items []model.WorkspaceMember) []MemberResponse {
	out := make([]MemberResponse, len(items))
	for i := range items {
		out[i] = ToMemberResponse(&items[i])
	}
	return out
}
