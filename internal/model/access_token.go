package model

import (
	"slices"
	"time"
)

type TokenScope string

const (
	ScopeRead   TokenScope = "read"
	ScopeWrite  TokenScope = "write"
	ScopeAgents TokenScope = "agents"
	ScopeAdmin  TokenScope = "admin"
)

func (s TokenScope) IsValid() bool {
	switch s {
	case ScopeRead, ScopeWrite, ScopeAgents, ScopeAdmin:
		return true
	}
	return false
}

type AccessToken struct {
	ID          int64        `json:"id"`
	WorkspaceID int64        `json:"workspace_id"`
	UserID      int64        `json:"user_id"`
	Name        string       `json:"name"`
	TokenPrefix string       `json:"token_prefix"`
	TokenHash   string       `json:"-"`
	Scopes      []TokenScope `json:"scopes"`
	LastUsedAt  *time.Time   `json:"last_used_at,omitempty"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
	RevokedAt   *time.Time   `json:"revoked_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// HasScope treats admin as a superset of every other scope.
func (t *AccessToken) HasScope(scope TokenScope) bool {
	return slices.Contains(t.Scopes, scope) || slices.Contains(t.Scopes, ScopeAdmin)
}

func (t *AccessToken) IsUsable(now time.Time) bool {
	if t.RevokedAt != nil {
		return false
	}
	return t.ExpiresAt == nil || now.Before(*t.ExpiresAt)
}
