package dto

import (
	"time"

	"cerebrin.app/backend/internal/model"
)

type AddFactRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type MemoryEntryResponse struct {
	ID        int64            `json:"id,string"`
	AgentID   int64            `json:"agent_id,string"`
	Kind      model.MemoryKind `json:"kind"`
	Role      string           `json:"role,omitempty"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

func ToMemoryEntryResponse(m *model.MemoryEntry) MemoryEntryResponse {
	return MemoryEntryResponse{
		ID:        m.ID,
		AgentID:   m.AgentID,
		Kind:      m.Kind,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func ToMemoryEntryResponses(items []model.MemoryEntry) []MemoryEntryResponse {
	out := make([]MemoryEntryResponse, len(items))
	for i := range items {
		out[i] = ToMemoryEntryResponse(&items[i])
	}
	return out
}
