package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type accessTokenStore struct {
	queries *sqlc.Queries
}

func newAccessTokenStore(queries *sqlc.Queries) AccessTokenStore {
	return &accessTokenStore{queries: queries}
}

func (s *accessTokenStore) Create(ctx context.Context, token *model.AccessToken) error {
	scopes := make([]string, len(token.Scopes))
	for i, sc := range token.Scopes {
		scopes[i] = string(sc)
	}
	row, err := s.queries.CreateAccessToken(ctx, sqlc.CreateAccessTokenParams{
		ID:          token.ID,
		WorkspaceID: token.WorkspaceID,
		UserID:      token.UserID,
		Name:        token.Name,
		TokenPrefix: token.TokenPrefix,
		TokenHash:   token.TokenHash,
		Scopes:      scopes,
		ExpiresAt:   timestamptz(token.ExpiresAt),
	})
	if err != nil {
		return translate(err)
	}
	*token = *toAccessTokenModel(row)
	return nil
}

func (s *accessTokenStore) GetByHash(ctx context.Context, hash string) (*model.AccessToken, error) {
	row, err := s.queries.GetAccessTokenByHash(ctx, hash)
	if err != nil {
		return nil, translate(err)
	}
	return toAccessTokenModel(row), nil
}

func (s *accessTokenStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.AccessToken, error) {
	rows, err := s.queries.ListAccessTokens(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	result := make([]model.AccessToken, len(rows))
	for i, row := range rows {
		result[i] = *toAccessTokenModel(row)
	}
	return result, nil
}

func (s *accessTokenStore) Revoke(ctx context.Context, workspaceID, id int64) (*model.AccessToken, error) {
	row, err := s.queries.RevokeAccessToken(ctx, sqlc.RevokeAccessTokenParams{
		ID:          id,
		WorkspaceID: workspaceID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toAccessTokenModel(row), nil
}

func (s *accessTokenStore) Touch(ctx context.Context, id int64) error {
	return s.queries.TouchAccessToken(ctx, id)
}

func toAccessTokenModel(row sqlc.AccessToken) *model.AccessToken {
	scopes := make([]model.TokenScope, len(row.Scopes))
	for i, sc := range row.Scopes {
		scopes[i] = model.TokenScope(sc)
	}
	return &model.AccessToken{
		ID:          row.ID,
		WorkspaceID: row.WorkspaceID,
		UserID:      row.UserID,
		Name:        row.Name,
		TokenPrefix: row.TokenPrefix,
		TokenHash:   row.TokenHash,
		Scopes:      scopes,
		LastUsedAt:  timePtr(row.LastUsedAt),
		ExpiresAt:   timePtr(row.ExpiresAt),
		RevokedAt:   timePtr(row.RevokedAt),
		CreatedAt:   row.CreatedAt.Time,
	}
}
