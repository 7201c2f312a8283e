package store

import (
	"context"
	"encoding/json"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type agentStore struct {
	queries *sqlc.Queries
}

func newAgentStore(queries *sqlc.Queries) AgentStore {
	return &agentStore{queries: queries}
}

func (s *agentStore) Create(ctx context.Context, agent *model.Agent) error {
	row, err := s.queries.CreateAgent(ctx, sqlc.CreateAgentParams{
		ID:            agent.ID,
		WorkspaceID:   agent.WorkspaceID,
		Name:          agent.Name,
		Slug:          agent.Slug,
		Persona:       agent.Persona,
		Model:         agent.Model,
		AutonomyLevel: string(agent.AutonomyLevel),
		Permissions:   permissionsBytes(agent.Permissions),
		IsActive:      agent.IsActive,
		CreatedBy:     agent.CreatedBy,
	})
	if err != nil {
		return translate(err)
	}
	*agent = *toAgentModel(row)
	return nil
}

func (s *agentStore) GetByID(ctx context.Context, id int64) (*model.Agent, error) {
	row, err := s.queries.GetAgent(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toAgentModel(row), nil
}

func (s *agentStore) GetBySlug(ctx context.Context, workspaceID int64, slug string) (*model.Agent, error) {
	row, err := s.queries.GetAgentBySlug(ctx, sqlc.GetAgentBySlugParams{
		WorkspaceID: workspaceID,
		Slug:        slug,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toAgentModel(row), nil
}

func (s *agentStore) SlugExists(ctx context.Context, workspaceID int64, slug string) (bool, error) {
	return s.queries.AgentSlugExists(ctx, sqlc.AgentSlugExistsParams{
		WorkspaceID: workspaceID,
		Slug:        slug,
	})
}

func (s *agentStore) Update(ctx context.Context, agent *model.Agent) error {
	row, err := s.queries.UpdateAgent(ctx, sqlc.UpdateAgentParams{
		ID:            agent.ID,
		Name:          agent.Name,
		Persona:       agent.Persona,
		Model:         agent.Model,
		AutonomyLevel: string(agent.AutonomyLevel),
		IsActive:      agent.IsActive,
	})
	if err != nil {
		return translate(err)
	}
	*agent = *toAgentModel(row)
	return nil
}

func (s *agentStore) UpdatePermissions(ctx context.Context, id int64, permissions json.RawMessage) (*model.Agent, error) {
	row, err := s.queries.UpdateAgentPermissions(ctx, sqlc.UpdateAgentPermissionsParams{
		ID:          id,
		Permissions: permissionsBytes(permissions),
	})
	if err != nil {
		return nil, translate(err)
	}
	return toAgentModel(row), nil
}

func (s *agentStore) Delete(ctx context.Context, id int64) error {
	return rowsAffected(s.queries.DeleteAgent(ctx, id))
}

func (s *agentStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Agent, error) {
	rows, err := s.queries.ListAgentsByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	result := make([]model.Agent, len(rows))
	for i, row := range rows {
		result[i] = *toAgentModel(row)
	}
	return result, nil
}

func (s *agentStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountAgents(ctx)
}

func permissionsBytes(p json.RawMessage) []byte {
	if len(p) == 0 {
		return []byte("{}")
	}
	return p
}

func toAgentModel(row sqlc.Agent) *model.Agent {
	return &model.Agent{
		ID:            row.ID,
		WorkspaceID:   row.WorkspaceID,
		Name:          row.Name,
		Slug:          row.Slug,
		Persona:       row.Persona,
		Model:         row.Model,
		AutonomyLevel: model.AutonomyLevel(row.AutonomyLevel),
		Permissions:   permissionsBytes(row.Permissions),
		IsActive:      row.IsActive,
		CreatedBy:     row.CreatedBy,
		CreatedAt:     row.CreatedAt.Time,
		UpdatedAt:     row.UpdatedAt.Time,
	}
}
