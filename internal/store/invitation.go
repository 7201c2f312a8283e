package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
)

type invitationStore struct {
	queries *sqlc.Queries
}

func newInvitationStore(queries *sqlc.Queries) InvitationStore {
	return &invitationStore{queries: queries}
}

func (s *invitationStore) Create(ctx context.Context, inv *model.Invitation) error {
	row, err := s.queries.CreateInvitation(ctx, sqlc.CreateInvitationParams{
		ID:          inv.ID,
		WorkspaceID: inv.WorkspaceID,
		Email:       inv.Email,
		Role:        string(inv.Role),
		Token:       inv.Token,
		Status:      string(inv.Status),
		InvitedBy:   inv.InvitedBy,
		ExpiresAt:   pgtype.Timestamptz{Time: inv.ExpiresAt, Valid: true},
	})
	if err != nil {
		return translate(err)
	}
	*inv = *toInvitationModel(row)
	return nil
}

func (s *invitationStore) GetByID(ctx context.Context, id int64) (*model.Invitation, error) {
	row, err := s.queries.GetInvitationByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	row, err := s.queries.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, translate(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) GetValidByToken(ctx context.Context, token string) (*model.Invitation, error) {
	row, err := s.queries.GetValidInvitationByToken(ctx, token)
	if err != nil {
		return nil, translate(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) GetPendingByEmail(ctx context.Context, workspaceID int64, email string) (*model.Invitation, error) {
	row, err := s.queries.GetPendingInvitationByEmail(ctx, sqlc.GetPendingInvitationByEmailParams{
		WorkspaceID: workspaceID,
		Email:       email,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) Accept(ctx context.Context, id int64, userID int64) (*model.Invitation, error) {
	row, err := s.queries.AcceptInvitation(ctx, sqlc.AcceptInvitationParams{
		ID:         id,
		AcceptedBy: &userID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) Revoke(ctx context.Context, workspaceID, id int64) (*model.Invitation, error) {
	row, err := s.queries.RevokeInvitation(ctx, sqlc.RevokeInvitationParams{
		ID:          id,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toInvitationModel(row), nil
}

func (s *invitationStore) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int32) ([]model.Invitation, error) {
	rows, err := s.queries.ListInvitationsByWorkspace(ctx, sqlc.ListInvitationsByWorkspaceParams{
		WorkspaceID: workspaceID,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, err
	}
	return toInvitationModels(rows), nil
}

func (s *invitationStore) ExpireOld(ctx context.Context) (int64, error) {
	return s.queries.ExpireOldInvitations(ctx)
}

func toInvitationModel(row sqlc.Invitation) *model.Invitation {
	inv := &model.Invitation{
		ID:          row.ID,
		WorkspaceID: row.WorkspaceID,
		Email:       row.Email,
		Role:        model.WorkspaceRole(row.Role),
		Token:       row.Token,
		Status:      model.InvitationStatus(row.Status),
		InvitedBy:   row.InvitedBy,
		AcceptedBy:  row.AcceptedBy,
		ExpiresAt:   row.ExpiresAt.Time,
		CreatedAt:   row.CreatedAt.Time,
	}
	if row.AcceptedAt.Valid {
		inv.AcceptedAt = &row.AcceptedAt.Time
	}
	return inv
}

func toInvitationModels(rows []sqlc.Invitation) []model.Invitation {
	result := make([]model.Invitation, len(rows))
	for i, row := range rows {
		result[i] = *toInvitationModel(row)
	}
	return result
}
