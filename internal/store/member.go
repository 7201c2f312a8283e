package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type memberStore struct {
	queries *sqlc.Queries
}

func newMemberStore(queries *sqlc.Queries) MemberStore {
	return &memberStore{queries: queries}
}

func (s *memberStore) Add(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error) {
	row, err := s.queries.AddWorkspaceMember(ctx, sqlc.AddWorkspaceMemberParams{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        string(role),
	})
	if err != nil {
		return nil, translate(err)
	}
	return toMemberModel(row), nil
}

func (s *memberStore) Get(ctx context.Context, workspaceID, userID int64) (*model.WorkspaceMember, error) {
	row, err := s.queries.GetWorkspaceMember(ctx, sqlc.GetWorkspaceMemberParams{
		WorkspaceID: workspaceID,
		UserID:      userID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toMemberModel(row), nil
}

func (s *memberStore) List(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error) {
	rows, err := s.queries.ListWorkspaceMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	result := make([]model.WorkspaceMember, len(rows))
	for i, row := range rows {
		result[i] = model.WorkspaceMember{
			WorkspaceID: row.WorkspaceID,
			UserID:      row.UserID,
			Role:        model.WorkspaceRole(row.Role),
			Name:        row.Name,
			Email:       row.Email,
			AvatarURL:   row.AvatarUrl,
			CreatedAt:   row.CreatedAt.Time,
		}
	}
	return result, nil
}

func (s *memberStore) ListUserIDsByRoles(ctx context.Context, workspaceID int64, roles ...model.WorkspaceRole) ([]int64, error) {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return s.queries.ListWorkspaceMemberIDsByRoles(ctx, sqlc.ListWorkspaceMemberIDsByRolesParams{
		WorkspaceID: workspaceID,
		Roles:       names,
	})
}

func (s *memberStore) UpdateRole(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error) {
	row, err := s.queries.UpdateWorkspaceMemberRole(ctx, sqlc.UpdateWorkspaceMemberRoleParams{
		WorkspaceID: workspaceID,
		UserID:      userID,
		Role:        string(role),
	})
	if err != nil {
		return nil, translate(err)
	}
	return toMemberModel(row), nil
}

func (s *memberStore) Remove(ctx context.Context, workspaceID, userID int64) error {
	return rowsAffected(s.queries.RemoveWorkspaceMember(ctx, sqlc.RemoveWorkspaceMemberParams{
		WorkspaceID: workspaceID,
		UserID:      userID,
	}))
}

func (s *memberStore) CountOwners(ctx context.Context, workspaceID int64) (int64, error) {
	return s.queries.CountWorkspaceOwners(ctx, workspaceID)
}

func toMemberModel(row sqlc.WorkspaceMember) *model.WorkspaceMember {
	return &model.WorkspaceMember{
		WorkspaceID: row.WorkspaceID,
		UserID:      row.UserID,
		Role:        model.WorkspaceRole(row.Role),
		CreatedAt:   row.CreatedAt.Time,
	}
}
