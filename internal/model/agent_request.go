package model

import (
	"encoding/json"
	"time"
)

// Decision is the permission ladder outcome, ordered deny < approval < allow.
type Decision string

const (
	DecisionDeny     Decision = "deny"
	DecisionApproval Decision = "approval"
	DecisionAllow    Decision = "allow"
)

func (d Decision) IsValid() bool {
	switch d {
	case DecisionDeny, DecisionApproval, DecisionAllow:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	RequestStatusApplied  RequestStatus = "applied"
	RequestStatusFailed   RequestStatus = "failed"
	RequestStatusExpired  RequestStatus = "expired"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected,
		RequestStatusApplied, RequestStatusFailed, RequestStatusExpired:
		return true
	}
	return false
}

type ActionKind string

const (
	ActionDocumentCreate   ActionKind = "document.create"
	ActionDocumentUpdate   ActionKind = "document.update"
	ActionDocumentDelete   ActionKind = "document.delete"
	ActionIdeaCreate       ActionKind = "idea.create"
	ActionIdeaMove         ActionKind = "idea.move"
	ActionIdeaPromote      ActionKind = "idea.promote"
	ActionTicketCreate     ActionKind = "ticket.create"
	ActionTicketTransition ActionKind = "ticket.transition"
	ActionMemoryWrite      ActionKind = "memory.write"
)

type AgentRequest struct {
	ID           int64           `json:"id"`
	WorkspaceID  int64           `json:"workspace_id"`
	AgentID      int64           `json:"agent_id"`
	Action       ActionKind      `json:"action"`
	Payload      json.RawMessage `json:"payload"`
	Rationale    *string         `json:"rationale,omitempty"`
	Status       RequestStatus   `json:"status"`
	Decision     Decision        `json:"decision"`
	RequestedBy  *int64          `json:"requested_by,omitempty"`
	DecidedBy    *int64          `json:"decided_by,omitempty"`
	DecisionNote *string         `json:"decision_note,omitempty"`
	Result       json.RawMessage `json:"result,omitempty"`
	Error        *string         `json:"error,omitempty"`
	ExpiresAt    *time.Time      `json:"expires_at,omitempty"`
	DecidedAt    *time.Time      `json:"decided_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (r *AgentRequest) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}
