package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type workspaceStore struct {
	queries *sqlc.Queries
}

func newWorkspaceStore(queries *sqlc.Queries) WorkspaceStore {
	return &workspaceStore{queries: queries}
}

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	row, err := s.queries.GetWorkspace(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toWorkspaceModel(row), nil
}

func (s *workspaceStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	return s.queries.WorkspaceSlugExists(ctx, slug)
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row, err := s.queries.CreateWorkspace(ctx, sqlc.CreateWorkspaceParams{
		ID:          ws.ID,
		OwnerUserID: ws.OwnerUserID,
		Name:        ws.Name,
		Slug:        ws.Slug,
		Description: ws.Description,
	})
	if err != nil {
		return translate(err)
	}
	*ws = *toWorkspaceModel(row)
	return nil
}

func (s *workspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	row, err := s.queries.UpdateWorkspace(ctx, sqlc.UpdateWorkspaceParams{
		ID:          ws.ID,
		Name:        ws.Name,
		Description: ws.Description,
	})
	if err != nil {
		return translate(err)
	}
	*ws = *toWorkspaceModel(row)
	return nil
}

func (s *workspaceStore) Delete(ctx context.Context, id int64) error {
	return rowsAffected(s.queries.SoftDeleteWorkspace(ctx, id))
}

func (s *workspaceStore) ListByUser(ctx context.Context, userID int64) ([]model.WorkspaceWithRole, error) {
	rows, err := s.queries.ListWorkspacesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := make([]model.WorkspaceWithRole, len(rows))
	for i, row := range rows {
		result[i] = model.WorkspaceWithRole{
			Workspace: *toWorkspaceModel(sqlc.Workspace{
				ID:          row.ID,
				OwnerUserID: row.OwnerUserID,
				Name:        row.Name,
				Slug:        row.Slug,
				Description: row.Description,
				CreatedAt:   row.CreatedAt,
				UpdatedAt:   row.UpdatedAt,
				IsDeleted:   row.IsDeleted,
			}),
			Role: model.WorkspaceRole(row.Role),
		}
	}
	return result, nil
}

func (s *workspaceStore) List(ctx context.Context, limit, offset int32) ([]model.Workspace, error) {
	rows, err := s.queries.ListWorkspaces(ctx, sqlc.ListWorkspacesParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Workspace, len(rows))
	for i, row := range rows {
		result[i] = *toWorkspaceModel(row)
	}
	return result, nil
}

func (s *workspaceStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountWorkspaces(ctx)
}

func toWorkspaceModel(row sqlc.Workspace) *model.Workspace {
	return &model.Workspace{
		ID:          row.ID,
		OwnerUserID: row.OwnerUserID,
		Name:        row.Name,
		Slug:        row.Slug,
		Description: row.Description,
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
		IsDeleted:   row.IsDeleted,
	}
}
