package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type CreateDocumentRequest struct {
	Kind    model.DocumentKind   `json:"kind" binding:"required"`
	Title   string               `json:"title" binding:"required,min=1,max=500"`
	Content string               `json:"content"`
	Status  model.DocumentStatus `json:"status,omitempty"`
}

type UpdateDocumentRequest struct {
	Title   *string               `json:"title,omitempty" binding:"omitempty,min=1,max=500"`
	Content *string               `json:"content,omitempty"`
	Status  *model.DocumentStatus `json:"status,omitempty"`
}

type DocumentResponse struct {
	ID               int64                `json:"id,string"`
	WorkspaceID      int64                `json:"workspace_id,string"`
	Kind             model.DocumentKind   `json:"kind"`
	Title            string               `json:"title"`
	Content          string               `json:"content"`
	Status           model.DocumentStatus `json:"status"`
	SourceIdeaID     *int64               `json:"source_idea_id,omitempty,string"`
	CreatedByUserID  *int64               `json:"created_by_user_id,omitempty,string"`
	CreatedByAgentID *int64               `json:"created_by_agent_id,omitempty,string"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

func ToDocumentResponse(d *model.Document) DocumentResponse {
	return DocumentResponse{
		ID:               d.ID,
		WorkspaceID:      d.WorkspaceID,
		Kind:             d.Kind,
		Title:            d.Title,
		Content:          d.Content,
		Status:           d.Status,
		SourceIdeaID:     d.SourceIdeaID,
		CreatedByUserID:  d.CreatedByUserID,
		CreatedByAgentID: d.CreatedByAgentID,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func ToDocumentResponses(items []model.Document) []DocumentResponse {
	out := make([]DocumentResponse, len(items))
	for i := range items {
		out[i] = ToDocumentResponse(&items[i])
	}
	return out
}
