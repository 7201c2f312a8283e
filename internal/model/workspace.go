package model

import "time"

type Workspace struct {
	ID          int64     `json:"id"`
	OwnerUserID int64     `json:"owner_user_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	IsDeleted   bool      `json:"-"` // internal, not exposed in API
}

type WorkspaceRole string

const (
	WorkspaceRoleViewer WorkspaceRole = "viewer"
	WorkspaceRoleMember WorkspaceRole = "member"
	WorkspaceRoleAdmin  WorkspaceRole = "admin"
	WorkspaceRoleOwner  WorkspaceRole = "owner"
)

var roleRank = map[WorkspaceRole]int{
	WorkspaceRoleViewer: 1,
	WorkspaceRoleMember: 2,
	WorkspaceRoleAdmin:  3,
	WorkspaceRoleOwner:  4,
}

func (r WorkspaceRole) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r is ranked at or above min on the
// viewer < member < admin < owner ladder. Unknown roles rank below viewer.
func (r WorkspaceRole) AtLeast(min WorkspaceRole) bool {
	return roleRank[r] >= roleRank[min] && roleRank[r] > 0
}

type WorkspaceMember struct {
	WorkspaceID int64         `json:"workspace_id"`
	UserID      int64         `json:"user_id"`
	Role        WorkspaceRole `json:"role"`
	Name        string        `json:"name,omitempty"`
	Email       string        `json:"email,omitempty"`
	AvatarURL   *string       `json:"avatar_url,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type WorkspaceWithRole struct {
	Workspace
	Role WorkspaceRole `json:"role"`
}
