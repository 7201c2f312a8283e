package model

import "time"

type DocumentKind string

const (
	DocumentKindNote    DocumentKind = "note"
	DocumentKindProject DocumentKind = "project"
	DocumentKindSpec    DocumentKind = "spec"
	DocumentKindBrief   DocumentKind = "brief"
)

func (k DocumentKind) IsValid() bool {
	switch k {
	case DocumentKindNote, DocumentKindProject, DocumentKindSpec, DocumentKindBrief:
		return true
	}
	return false
}

type DocumentStatus string

const (
	DocumentStatusDraft    DocumentStatus = "draft"
	DocumentStatusActive   DocumentStatus = "active"
	DocumentStatusArchived DocumentStatus = "archived"
)

func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusDraft, DocumentStatusActive, DocumentStatusArchived:
		return true
	}
	return false
}

type Document struct {
	ID               int64          `json:"id"`
	WorkspaceID      int64          `json:"workspace_id"`
	Kind             DocumentKind   `json:"kind"`
	Title            string         `json:"title"`
	Content          string         `json:"content"`
	Status           DocumentStatus `json:"status"`
	SourceIdeaID     *int64         `json:"source_idea_id,omitempty"`
	CreatedByUserID  *int64         `json:"created_by_user_id,omitempty"`
	CreatedByAgentID *int64         `json:"created_by_agent_id,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
