package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type CreateIdeaRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=500"`
	Description string          `json:"description"`
	Stage       model.IdeaStage `json:"stage,omitempty"`
}

type UpdateIdeaRequest struct {
	Title       *string `json:"title,omitempty" binding:"omitempty,min=1,max=500"`
	Description *string `json:"description,omitempty"`
}

type MoveIdeaRequest struct {
	Stage    model.IdeaStage `json:"stage" binding:"required"`
	Position *int32          `json:"position,omitempty"`
}

type IdeaResponse struct {
	ID                 int64           `json:"id,string"`
	WorkspaceID        int64           `json:"workspace_id,string"`
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	Stage              model.IdeaStage `json:"stage"`
	Position           int32           `json:"position"`
	ResonanceScore     *int32          `json:"resonance_score,omitempty"`
	ResonanceRationale *string         `json:"resonance_rationale,omitempty"`
	ResonanceSignals   []string        `json:"resonance_signals"`
	ScoredAt           *time.Time      `json:"scored_at,omitempty"`
	PromotedDocumentID *int64          `json:"promoted_document_id,omitempty,string"`
	CreatedByUserID    *int64          `json:"created_by_user_id,omitempty,string"`
	CreatedByAgentID   *int64          `json:"created_by_agent_id,omitempty,string"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

func ToIdeaResponse(i *model.Idea) IdeaResponse {
	signals := i.ResonanceSignals
	if signals == nil {
		signals = []string{}
	}
	return IdeaResponse{
		ID:                 i.ID,
		WorkspaceID:        i.WorkspaceID,
		Title:              i.Title,
		Description:        i.Description,
		Stage:              i.Stage,
		Position:           i.Position,
		ResonanceScore:     i.ResonanceScore,
		ResonanceRationale: i.ResonanceRationale,
		ResonanceSignals:   signals,
		ScoredAt:           i.ScoredAt,
		PromotedDocumentID: i.PromotedDocumentID,
		CreatedByUserID:    i.CreatedByUserID,
		CreatedByAgentID:   i.CreatedByAgentID,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func ToIdeaResponses(items []model.Idea) []IdeaResponse {
	out := make([]IdeaResponse, len(items))
	for i := range items {
		out[i] = ToIdeaResponse(&items[i])
	}
	return out
}

type PromoteIdeaResponse struct {
	Idea     IdeaResponse     `json:"idea"`
	Document DocumentResponse `json:"document"`
}
