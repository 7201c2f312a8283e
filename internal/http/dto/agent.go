package dto

import (
	"encoding/json"
	"time"

	"cerebrin.app/backend/internal/model"
)

type CreateAgentRequest struct {
	Name          string              `json:"name" binding:"required,min=1,max=255"`
	Slug          *string             `json:"slug,omitempty" binding:"omitempty,min=1,max=255"`
	Persona       string              `json:"persona" binding:"max=8000"`
	Model         *string             `json:"model,omitempty"`
	AutonomyLevel model.AutonomyLevel `json:"autonomy_level,omitempty"`
	Permissions   json.RawMessage     `json:"permissions,omitempty"`
}

type UpdateAgentRequest struct {
	Name          *string              `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Persona       *string              `json:"persona,omitempty" binding:"omitempty,max=8000"`
	Model         *string              `json:"model,omitempty"`
	AutonomyLevel *model.AutonomyLevel `json:"autonomy_level,omitempty"`
	IsActive      *bool                `json:"is_active,omitempty"`
}

// SetPermissionRequest edits one rule, e.g. {"path":"ideas.promote","level":"approval"}.
type SetPermissionRequest struct {
	Path  string         `json:"path" binding:"required"`
	Level model.Decision `json:"level" binding:"required"`
}

type AgentResponse struct {
	ID            int64               `json:"id,string"`
	WorkspaceID   int64               `json:"workspace_id,string"`
	Name          string              `json:"name"`
	Slug          string              `json:"slug"`
	Persona       string              `json:"persona"`
	Model         string              `json:"model"`
	AutonomyLevel model.AutonomyLevel `json:"autonomy_level"`
	Permissions   json.RawMessage     `json:"permissions"`
	IsActive      bool                `json:"is_active"`
	CreatedBy     *int64              `json:"created_by,omitempty,string"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func ToAgentResponse(a *model.Agent) AgentResponse {
	perms := a.Permissions
	if len(perms) == 0 {
		perms = json.RawMessage(`{}`)
	}
	return AgentResponse{
		ID:            a.ID,
		WorkspaceID:   a.WorkspaceID,
		Name:          a.Name,
		Slug:          a.Slug,
		Persona:       a.Persona,
		Model:         a.Model,
		AutonomyLevel: a.AutonomyLevel,
		Permissions:   perms,
		IsActive:      a.IsActive,
		CreatedBy:     a.CreatedBy,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func ToAgentResponses(items []model.Agent) []AgentResponse {
	out := make([]AgentResponse, len(items))
	for i := range items {
		out[i] = ToAgentResponse(&items[i])
	}
	return out
}

// EffectivePermissionsResponse shows the ladder's verdict for every known rule.
type EffectivePermissionsResponse struct {
	AgentID       int64                     `json:"agent_id,string"`
	AutonomyLevel model.AutonomyLevel       `json:"autonomy_level"`
	Decisions     map[string]model.Decision `json:"decisions"`
}
