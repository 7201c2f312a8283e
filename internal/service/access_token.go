package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

const (
	AccessTokenPrefix   = "cbr_"
	accessTokenBytes    = 32
	accessTokenShownLen = 12
	maxTokenLifetime    = 365
)

var (
	ErrInvalidAccessToken = errors.New("invalid access token")
	ErrAccessTokenRevoked = errors.New("access token revoked or expired")
	ErrTokenNotFound      = errors.New("access token not found")
	ErrInvalidScopes      = errors.New("invalid token scopes")
)

type CreateAccessTokenParams struct {
	WorkspaceID   int64
	UserID        int64
	Name          string
	Scopes        []model.TokenScope
	ExpiresInDays *int
}

type AccessTokenService interface {
	// Create returns the stored token and its plaintext, which is never persisted.
	Create(ctx context.Context, params CreateAccessTokenParams) (*model.AccessToken, string, error)
	List(ctx context.Context, workspaceID int64) ([]model.AccessToken, error)
	Revoke(ctx context.Context, workspaceID, tokenID int64) (*model.AccessToken, error)
	Authenticate(ctx context.Context, plaintext string) (*model.AccessToken, error)
}

type accessTokenService struct {
	tokenStore store.AccessTokenStore
	now        func() time.Time
}

func NewAccessTokenService(tokenStore store.AccessTokenStore) AccessTokenService {
	return &accessTokenService{tokenStore: tokenStore, now: time.Now}
}

func (s *accessTokenService) Create(ctx context.Context, params CreateAccessTokenParams) (*model.AccessToken, string, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, "", ErrInvalidName
	}
	scopes, err := normalizeScopes(params.Scopes)
	if err != nil {
		return nil, "", err
	}

	var expiresAt *time.Time
	if params.ExpiresInDays != nil {
		days := *params.ExpiresInDays
		if days <= 0 || days > maxTokenLifetime {
			return nil, "", fmt.Errorf("%w: expires_in_days must be between 1 and %d", ErrInvalidInput, maxTokenLifetime)
		}
		t := s.now().Add(time.Duration(days) * 24 * time.Hour)
		expiresAt = &t
	}

	plaintext, err := newAccessTokenString()
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	token := &model.AccessToken{
		ID:          id.New(),
		WorkspaceID: params.WorkspaceID,
		UserID:      params.UserID,
		Name:        name,
		TokenPrefix: plaintext[:accessTokenShownLen],
		TokenHash:   HashAccessToken(plaintext),
		Scopes:      scopes,
		ExpiresAt:   expiresAt,
	}
	if err := s.tokenStore.Create(ctx, token); err != nil {
		return nil, "", fmt.Errorf("creating access token: %w", err)
	}

	slog.InfoContext(ctx, "access token created",
		"token_id", token.ID,
		"workspace_id", token.WorkspaceID,
		"user_id", token.UserID,
		"scopes", scopes,
	)

	return token, plaintext, nil
}

func (s *accessTokenService) List(ctx context.Context, workspaceID int64) ([]model.AccessToken, error) {
	tokens, err := s.tokenStore.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing access tokens: %w", err)
	}
	return tokens, nil
}

func (s *accessTokenService) Revoke(ctx context.Context, workspaceID, tokenID int64) (*model.AccessToken, error) {
	token, err := s.tokenStore.Revoke(ctx, workspaceID, tokenID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("revoking access token: %w", err)
	}
	slog.InfoContext(ctx, "access token revoked", "token_id", tokenID, "workspace_id", workspaceID)
	return token, nil
}

func (s *accessTokenService) Authenticate(ctx context.Context, plaintext string) (*model.AccessToken, error) {
	if !strings.HasPrefix(plaintext, AccessTokenPrefix) || len(plaintext) <= accessTokenShownLen {
		return nil, ErrInvalidAccessToken
	}

	token, err := s.tokenStore.GetByHash(ctx, HashAccessToken(plaintext))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidAccessToken
		}
		return nil, fmt.Errorf("looking up access token: %w", err)
	}

	if !token.IsUsable(s.now()) {
		return nil, ErrAccessTokenRevoked
	}

	if err := s.tokenStore.Touch(ctx, token.ID); err != nil {
		slog.WarnContext(ctx, "failed to touch access token", "error", err, "token_id", token.ID)
	}

	return token, nil
}

// HashAccessToken is the lookup key stored in place of the plaintext.
func HashAccessToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func newAccessTokenString() (string, error) {
	b := make([]byte, accessTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return AccessTokenPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

func normalizeScopes(scopes []model.TokenScope) ([]model.TokenScope, error) {
	if len(scopes) == 0 {
		return []model.TokenScope{model.ScopeRead}, nil
	}
	seen := make(map[model.TokenScope]struct{}, len(scopes))
	out := make([]model.TokenScope, 0, len(scopes))
	for _, sc := range scopes {
		if !sc.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidScopes, sc)
		}
		if _, dup := seen[sc]; dup {
			continue
		}
		seen[sc] = struct{}{}
		out = append(out, sc)
	}
	return out, nil
}
