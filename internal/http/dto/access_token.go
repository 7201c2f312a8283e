package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type CreateAccessTokenRequest struct {
	Name          string             `json:"name" binding:"required,min=1,max=255"`
	Scopes        []model.TokenScope `json:"scopes" binding:"required,min=1"`
	ExpiresInDays *int               `json:"expires_in_days,omitempty" binding:"omitempty,min=1,max=365"`
}

type AccessTokenResponse struct {
	ID          int64              `json:"id,string"`
	WorkspaceID int64              `json:"workspace_id,string"`
	UserID      int64              `json:"user_id,string"`
	Name        string             `json:"name"`
	TokenPrefix string             `json:"token_prefix"`
	Scopes      []model.TokenScope `json:"scopes"`
	LastUsedAt  *time.Time         `json:"last_used_at,omitempty"`
	ExpiresAt   *time.Time         `json:"expires_at,omitempty"`
	RevokedAt   *time.Time         `json:"revoked_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func ToAccessTokenResponse(t *model.AccessToken) AccessTokenResponse {
	return AccessTokenResponse{
		ID:          t.ID,
		WorkspaceID: t.WorkspaceID,
		UserID:      t.UserID,
		Name:        t.Name,
		TokenPrefix: t.TokenPrefix,
		Scopes:      t.Scopes,
		LastUsedAt:  t.LastUsedAt,
		ExpiresAt:   t.ExpiresAt,
		RevokedAt:   t.RevokedAt,
		CreatedAt:   t.CreatedAt,
	}
}

func ToAccessTokenResponses(items []model.AccessToken) []AccessTokenResponse {
	out := make([]AccessTokenResponse, len(items))
	for i := range items {
		out[i] = ToAccessTokenResponse(&items[i])
	}
	return out
}

// CreatedAccessTokenResponse is the only response that carries the plaintext.
type CreatedAccessTokenResponse struct {
	AccessTokenResponse
	Token string `json:"token"`
}
