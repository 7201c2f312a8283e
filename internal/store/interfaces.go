package store

import (
	"context"
	"encoding/json"
	"errors"

	"cerebrin.app/backend/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique constraint
var ErrConflict = errors.New("conflict")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	GetByID(ctx context.Context, id int64) (*model.Session, error)
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, ws *model.Workspace) error
	Update(ctx context.Context, ws *model.Workspace) error
	Delete(ctx context.Context, id int64) error // soft delete
	ListByUser(ctx context.Context, userID int64) ([]model.WorkspaceWithRole, error)
	List(ctx context.Context, limit, offset int32) ([]model.Workspace, error)
	Count(ctx context.Context) (int64, error)
}

// MemberStore defines the contract for workspace membership data access
type MemberStore interface {
	Add(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error)
	Get(ctx context.Context, workspaceID, userID int64) (*model.WorkspaceMember, error)
	List(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error)
	ListUserIDsByRoles(ctx context.Context, workspaceID int64, roles ...model.WorkspaceRole) ([]int64, error)
	UpdateRole(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error)
	Remove(ctx context.Context, workspaceID, userID int64) error
	CountOwners(ctx context.Context, workspaceID int64) (int64, error)
}

// InvitationStore defines the contract for invitation data access
type InvitationStore interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByID(ctx context.Context, id int64) (*model.Invitation, error)
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	GetValidByToken(ctx context.Context, token string) (*model.Invitation, error)
	GetPendingByEmail(ctx context.Context, workspaceID int64, email string) (*model.Invitation, error)
	Accept(ctx context.Context, id int64, userID int64) (*model.Invitation, error)
	Revoke(ctx context.Context, workspaceID, id int64) (*model.Invitation, error)
	ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int32) ([]model.Invitation, error)
	ExpireOld(ctx context.Context) (int64, error)
}

type DocumentFilter struct {
	Kind   *model.DocumentKind
	Status *model.DocumentStatus
	Limit  int32
	Offset int32
}

// DocumentStore defines the contract for document data access
type DocumentStore interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id int64) (*model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	List(ctx context.Context, workspaceID int64, filter DocumentFilter) ([]model.Document, error)
	Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Document, error)
	ListRecentActive(ctx context.Context, workspaceID int64, limit int32) ([]model.Document, error)
}

type ResonanceResult struct {
	Score     int32
	Rationale string
	Signals   []string
}

// IdeaStore defines the contract for idea pipeline data access
type IdeaStore interface {
	Create(ctx context.Context, idea *model.Idea) error
	GetByID(ctx context.Context, id int64) (*model.Idea, error)
	UpdateContent(ctx context.Context, id int64, title, description string) (*model.Idea, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, workspaceID int64, stage *model.IdeaStage) ([]model.Idea, error)
	// Move returns ErrNotFound when the idea is no longer in expected.
	Move(ctx context.Context, id int64, expected, stage model.IdeaStage, position int32) (*model.Idea, error)
	// MarkPromoted returns ErrNotFound when the idea is already promoted or archived.
	MarkPromoted(ctx context.Context, id int64) (*model.Idea, error)
	SetPromotedDocument(ctx context.Context, id, documentID int64) (*model.Idea, error)
	SetResonance(ctx context.Context, id int64, result ResonanceResult) (*model.Idea, error)
	NextPosition(ctx context.Context, workspaceID int64, stage model.IdeaStage) (int32, error)
}

// AgentStore defines the contract for agent data access
type AgentStore interface {
	Create(ctx context.Context, agent *model.Agent) error
	GetByID(ctx context.Context, id int64) (*model.Agent, error)
	GetBySlug(ctx context.Context, workspaceID int64, slug string) (*model.Agent, error)
	SlugExists(ctx context.Context, workspaceID int64, slug string) (bool, error)
	Update(ctx context.Context, agent *model.Agent) error
	UpdatePermissions(ctx context.Context, id int64, permissions json.RawMessage) (*model.Agent, error)
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Agent, error)
	Count(ctx context.Context) (int64, error)
}

// MemoryStore defines the contract for agent memory data access
type MemoryStore interface {
	Create(ctx context.Context, entry *model.MemoryEntry) error
	List(ctx context.Context, agentID int64, kind *model.MemoryKind, limit, offset int32) ([]model.MemoryEntry, error)
	CountByKind(ctx context.Context, agentID int64, kind model.MemoryKind) (int64, error)
	Delete(ctx context.Context, agentID, id int64) error
	Clear(ctx context.Context, agentID int64) (int64, error)
	// PruneMessages deletes message entries older than the newest keep.
	PruneMessages(ctx context.Context, agentID int64, keep int32) (int64, error)
}

// AgentRequestStore defines the contract for HITL request data access
type AgentRequestStore interface {
	Create(ctx context.Context, req *model.AgentRequest) error
	GetByID(ctx context.Context, id int64) (*model.AgentRequest, error)
	List(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error)
	ListPending(ctx context.Context, limit, offset int32) ([]model.AgentRequest, error)
	// Decide flips a pending, unexpired request. ErrNotFound means the guard did not match.
	Decide(ctx context.Context, id int64, status model.RequestStatus, decidedBy *int64, note *string) (*model.AgentRequest, error)
	MarkApplied(ctx context.Context, id int64, result json.RawMessage) (*model.AgentRequest, error)
	MarkFailed(ctx context.Context, id int64, errMsg string) (*model.AgentRequest, error)
	ExpireStale(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

type TicketFilter struct {
	WorkspaceID *int64
	Status      *model.TicketStatus
	Priority    *model.TicketPriority
	Limit       int32
	Offset      int32
}

// TicketStore defines the contract for support ticket data access
type TicketStore interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	GetByID(ctx context.Context, id int64) (*model.Ticket, error)
	Update(ctx context.Context, ticket *model.Ticket) error
	// Transition returns ErrNotFound when the ticket is no longer in from.
	Transition(ctx context.Context, id int64, from, to model.TicketStatus) (*model.Ticket, error)
	Assign(ctx context.Context, id int64, assignee *int64) (*model.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]model.Ticket, error)
	CountOpen(ctx context.Context) (int64, error)
}

// NotificationStore defines the contract for notification data access
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, id int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// AccessTokenStore defines the contract for access token data access
type AccessTokenStore interface {
	Create(ctx context.Context, token *model.AccessToken) error
	GetByHash(ctx context.Context, hash string) (*model.AccessToken, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.AccessToken, error)
	Revoke(ctx context.Context, workspaceID, id int64) (*model.AccessToken, error)
	Touch(ctx context.Context, id int64) error
}
