package dto

import (
	"encoding/json"
	"time"

	"cerebrin.app/backend/internal/model"
)

type DecideRequest struct {
	Note *string `json:"note,omitempty" binding:"omitempty,max=2000"`
}

type AgentRequestResponse struct {
	ID           int64               `json:"id,string"`
	WorkspaceID  int64               `json:"workspace_id,string"`
	AgentID      int64               `json:"agent_id,string"`
	Action       model.ActionKind    `json:"action"`
	Payload      json.RawMessage     `json:"payload"`
	Rationale    *string             `json:"rationale,omitempty"`
	Status       model.RequestStatus `json:"status"`
	Decision     model.Decision      `json:"decision"`
	RequestedBy  *int64              `json:"requested_by,omitempty,string"`
	DecidedBy    *int64              `json:"decided_by,omitempty,string"`
	DecisionNote *string             `json:"decision_note,omitempty"`
	Result       json.RawMessage     `json:"result,omitempty"`
	Error        *string             `json:"error,omitempty"`
	ExpiresAt    *time.Time          `json:"expires_at,omitempty"`
	DecidedAt    *time.Time          `json:"decided_at,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

func ToAgentRequestResponse(r *model.AgentRequest) AgentRequestResponse {
	return AgentRequestResponse{
		ID:           r.ID,
		WorkspaceID:  r.WorkspaceID,
		AgentID:      r.AgentID,
		Action:       r.Action,
		Payload:      r.Payload,
		Rationale:    r.Rationale,
		Status:       r.Status,
		Decision:     r.Decision,
		RequestedBy:  r.RequestedBy,
		DecidedBy:    r.DecidedBy,
		DecisionNote: r.DecisionNote,
		Result:       r.Result,
		Error:        r.Error,
		ExpiresAt:    r.ExpiresAt,
		DecidedAt:    r.DecidedAt,
		CreatedAt:    r.CreatedAt,
	}
}

func ToAgentRequestResponses(items []model.AgentRequest) []AgentRequestResponse {
	out := make([]AgentRequestResponse, len(items))
	for i := range items {
		out[i] = ToAgentRequestResponse(&items[i])
	}
	return out
}

// ProposeActionRequest lets API clients route an action through the
// architect on behalf of an agent, the same way chat does.
type ProposeActionRequest struct {
	Action    model.ActionKind `json:"action" binding:"required"`
	Payload   json.RawMessage  `json:"payload" binding:"required"`
	Rationale *string          `json:"rationale,omitempty"`
}

type OutcomeResponse struct {
	Decision model.Decision        `json:"decision"`
	Request  *AgentRequestResponse `json:"request,omitempty"`
	Result   json.RawMessage       `json:"result,omitempty"`
}
