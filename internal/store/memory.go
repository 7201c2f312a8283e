package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type memoryStore struct {
	queries *sqlc.Queries
}

func newMemoryStore(queries *sqlc.Queries) MemoryStore {
	return &memoryStore{queries: queries}
}

func (s *memoryStore) Create(ctx context.Context, entry *model.MemoryEntry) error {
	row, err := s.queries.CreateAgentMemory(ctx, sqlc.CreateAgentMemoryParams{
		ID:          entry.ID,
		AgentID:     entry.AgentID,
		WorkspaceID: entry.WorkspaceID,
		Kind:        string(entry.Kind),
		Role:        entry.Role,
		Content:     entry.Content,
	})
	if err != nil {
		return translate(err)
	}
	*entry = *toMemoryModel(row)
	return nil
}

// List returns entries newest first.
func (s *memoryStore) List(ctx context.Context, agentID int64, kind *model.MemoryKind, limit, offset int32) ([]model.MemoryEntry, error) {
	rows, err := s.queries.ListAgentMemory(ctx, sqlc.ListAgentMemoryParams{
		AgentID: agentID,
		Kind:    strPtr(kind),
		Lim:     limit,
		Off:     offset,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.MemoryEntry, len(rows))
	for i, row := range rows {
		result[i] = *toMemoryModel(row)
	}
	return result, nil
}

func (s *memoryStore) CountByKind(ctx context.Context, agentID int64, kind model.MemoryKind) (int64, error) {
	return s.queries.CountAgentMemoryByKind(ctx, sqlc.CountAgentMemoryByKindParams{
		AgentID: agentID,
		Kind:    string(kind),
	})
}

func (s *memoryStore) Delete(ctx context.Context, agentID, id int64) error {
	return rowsAffected(s.queries.DeleteAgentMemory(ctx, sqlc.DeleteAgentMemoryParams{
		ID:      id,
		AgentID: agentID,
	}))
}

func (s *memoryStore) Clear(ctx context.Context, agentID int64) (int64, error) {
	return s.queries.ClearAgentMemory(ctx, agentID)
}

func (s *memoryStore) PruneMessages(ctx context.Context, agentID int64, keep int32) (int64, error) {
	return s.queries.PruneAgentMessages(ctx, sqlc.PruneAgentMessagesParams{
		AgentID: agentID,
		Keep:    keep,
	})
}

func toMemoryModel(row sqlc.AgentMemory) *model.MemoryEntry {
	return &model.MemoryEntry{
		ID:          row.ID,
		AgentID:     row.AgentID,
		WorkspaceID: row.WorkspaceID,
		Kind:        model.MemoryKind(row.Kind),
		Role:        row.Role,
		Content:     row.Content,
		CreatedAt:   row.CreatedAt.Time,
	}
}
