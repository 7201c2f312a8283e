package model

import (
	"encoding/json"
	"time"
)

type AutonomyLevel string

const (
	AutonomyObserver  AutonomyLevel = "observer"
	AutonomyAssistant AutonomyLevel = "assistant"
	AutonomyCopilot   AutonomyLevel = "copilot"
	AutonomyAutopilot AutonomyLevel = "autopilot"
)

func (a AutonomyLevel) IsValid() bool {
	switch a {
	case AutonomyObserver, AutonomyAssistant, AutonomyCopilot, AutonomyAutopilot:
		return true
	}
	return false
}

type Agent struct {
	ID            int64           `json:"id"`
	WorkspaceID   int64           `json:"workspace_id"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Persona       string          `json:"persona"`
	Model         string          `json:"model"`
	AutonomyLevel AutonomyLevel   `json:"autonomy_level"`
	Permissions   json.RawMessage `json:"permissions"`
	IsActive      bool            `json:"is_active"`
	CreatedBy     *int64          `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type MemoryKind string

const (
	MemoryKindMessage MemoryKind = "message"
	MemoryKindFact    MemoryKind = "fact"
	MemoryKindSummary MemoryKind = "summary"
)

func (k MemoryKind) IsValid() bool {
	switch k {
	case MemoryKindMessage, MemoryKindFact, MemoryKindSummary:
		return true
	}
	return false
}

type MemoryEntry struct {
	ID          int64      `json:"id"`
	AgentID     int64      `json:"agent_id"`
	WorkspaceID int64      `json:"workspace_id"`
	Kind        MemoryKind `json:"kind"`
	Role        string     `json:"role"` // "user" or "assistant" for messages
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"created_at"`
}
