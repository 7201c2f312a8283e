package model

import "time"

type IdeaStage string

const (
	IdeaStageDraft      IdeaStage = "draft"
	IdeaStageExploring  IdeaStage = "exploring"
	IdeaStageValidating IdeaStage = "validating"
	IdeaStageReady      IdeaStage = "ready"
	IdeaStagePromoted   IdeaStage = "promoted"
	IdeaStageArchived   IdeaStage = "archived"
)

func (s IdeaStage) IsValid() bool {
	switch s {
	case IdeaStageDraft, IdeaStageExploring, IdeaStageValidating, IdeaStageReady, IdeaStagePromoted, IdeaStageArchived:
		return true
	}
	return false
}

// IsWorking reports whether the stage is one of the open board columns.
func (s IdeaStage) IsWorking() bool {
	switch s {
	case IdeaStageDraft, IdeaStageExploring, IdeaStageValidating, IdeaStageReady:
		return true
	}
	return false
}

type Idea struct {
	ID                 int64      `json:"id"`
	WorkspaceID        int64      `json:"workspace_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Stage              IdeaStage  `json:"stage"`
	Position           int32      `json:"position"`
	ResonanceScore     *int32     `json:"resonance_score,omitempty"`
	ResonanceRationale *string    `json:"resonance_rationale,omitempty"`
	ResonanceSignals   []string   `json:"resonance_signals"`
	ScoredAt           *time.Time `json:"scored_at,omitempty"`
	PromotedDocumentID *int64     `json:"promoted_document_id,omitempty"`
	CreatedByUserID    *int64     `json:"created_by_user_id,omitempty"`
	CreatedByAgentID   *int64     `json:"created_by_agent_id,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func (i *Idea) IsScored() bool {
	return i.ScoredAt != nil && i.ResonanceScore != nil
}
