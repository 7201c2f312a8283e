package store

import (
	"cerebrin.app/backend/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) Workspaces() WorkspaceStore {
	return newWorkspaceStore(s.queries)
}

func (s *Stores) Members() MemberStore {
	return newMemberStore(s.queries)
}

func (s *Stores) Invitations() InvitationStore {
	return newInvitationStore(s.queries)
}

func (s *Stores) Documents() DocumentStore {
	return newDocumentStore(s.queries)
}

func (s *Stores) Ideas() IdeaStore {
	return newIdeaStore(s.queries)
}

func (s *Stores) Agents() AgentStore {
	return newAgentStore(s.queries)
}

func (s *Stores) Memory() MemoryStore {
	return newMemoryStore(s.queries)
}

func (s *Stores) AgentRequests() AgentRequestStore {
	return newAgentRequestStore(s.queries)
}

func (s *Stores) Tickets() TicketStore {
	return newTicketStore(s.queries)
}

func (s *Stores) Notifications() NotificationStore {
	return newNotificationStore(s.queries)
}

func (s *Stores) AccessTokens() AccessTokenStore {
	return newAccessTokenStore(s.queries)
}
