package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type UserResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToUserResponse(u *model.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

type MeResponse struct {
	User       *UserResponse       `json:"user"`
	Workspaces []WorkspaceResponse `json:"workspaces"`
	// Set when the caller authenticated with an access token.
	TokenWorkspaceID *int64             `json:"token_workspace_id,omitempty,string"`
	TokenScopes      []model.TokenScope `json:"token_scopes,omitempty"`
}
