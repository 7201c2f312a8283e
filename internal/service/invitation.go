package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

const (
	InviteTokenLength = 32
	InviteExpiryDays  = 7
)

var (
	ErrInviteNotFound      = errors.New("invitation not found")
	ErrInviteExpired       = errors.New("invitation has expired")
	ErrInviteAlreadyUsed   = errors.New("invitation has already been used")
	ErrInviteRevoked       = errors.New("invitation has been revoked")
	ErrEmailMismatch       = errors.New("authenticated email does not match invitation")
	ErrInvitePendingExists = errors.New("a pending invitation already exists for this email")
	ErrInvalidEmail        = errors.New("invalid email address")
)

type InvitationService interface {
	Create(ctx context.Context, workspaceID int64, email string, role model.WorkspaceRole, invitedBy int64) (*model.Invitation, string, error)
	ValidateToken(ctx context.Context, token string) (*model.Invitation, error)
	Accept(ctx context.Context, token string, user *model.User) (*model.Invitation, error)
	Revoke(ctx context.Context, workspaceID, invitationID int64) (*model.Invitation, error)
	List(ctx context.Context, workspaceID int64, limit, offset int32) ([]model.Invitation, error)
	ExpireOld(ctx context.Context) (int64, error)
}

type invitationService struct {
	txRunner      TxRunner
	invStore      store.InvitationStore
	notifications NotificationService
	dashboardURL  string
}

func NewInvitationService(txRunner TxRunner, invStore store.InvitationStore, notifications NotificationService, dashboardURL string) InvitationService {
	return &invitationService{
		txRunner:      txRunner,
		invStore:      invStore,
		notifications: notifications,
		dashboardURL:  dashboardURL,
	}
}

func (s *invitationService) Create(ctx context.Context, workspaceID int64, email string, role model.WorkspaceRole, invitedBy int64) (*model.Invitation, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", ErrInvalidEmail
	}
	if role == "" {
		role = model.WorkspaceRoleMember
	}
	// Ownership is never granted by invitation.
	if !role.IsValid() || role == model.WorkspaceRoleOwner {
		return nil, "", ErrInvalidRole
	}

	existing, err := s.invStore.GetPendingByEmail(ctx, workspaceID, email)
	if err == nil && existing != nil && existing.IsValid() {
		return nil, "", ErrInvitePendingExists
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, "", fmt.Errorf("checking pending invitations: %w", err)
	}

	token, err := generateSecureToken(InviteTokenLength)
	if err != nil {
		return nil, "", fmt.Errorf("generating token: %w", err)
	}

	inv := &model.Invitation{
		ID:          id.New(),
		WorkspaceID: workspaceID,
		Email:       email,
		Role:        role,
		Token:       token,
		Status:      model.InvitationStatusPending,
		InvitedBy:   &invitedBy,
		ExpiresAt:   time.Now().Add(InviteExpiryDays * 24 * time.Hour),
	}

	if err := s.invStore.Create(ctx, inv); err != nil {
		return nil, "", fmt.Errorf("creating invitation: %w", err)
	}

	inviteURL := fmt.Sprintf("%s/invite?token=%s", s.dashboardURL, url.QueryEscape(token))

	slog.InfoContext(ctx, "invitation created",
		"invitation_id", inv.ID,
		"workspace_id", workspaceID,
		"email", email,
		"expires_at", inv.ExpiresAt,
	)

	return inv, inviteURL, nil
}

func (s *invitationService) ValidateToken(ctx context.Context, token string) (*model.Invitation, error) {
	inv, err := s.invStore.GetValidByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Try to get by token to determine if expired/used/revoked
			inv, err := s.invStore.GetByToken(ctx, token)
			if err != nil {
				return nil, ErrInviteNotFound
			}
			switch inv.Status {
			case model.InvitationStatusAccepted:
				return nil, ErrInviteAlreadyUsed
			case model.InvitationStatusRevoked:
				return nil, ErrInviteRevoked
			case model.InvitationStatusExpired:
				return nil, ErrInviteExpired
			default:
				if time.Now().After(inv.ExpiresAt) {
					return nil, ErrInviteExpired
				}
				return nil, ErrInviteNotFound
			}
		}
		return nil, fmt.Errorf("getting invitation: %w", err)
	}

	return inv, nil
}

func (s *invitationService) Accept(ctx context.Context, token string, user *model.User) (*model.Invitation, error) {
	inv, err := s.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(inv.Email, user.Email) {
		slog.WarnContext(ctx, "email mismatch on invitation acceptance",
			"invitation_email", inv.Email,
			"user_email", user.Email,
			"invitation_id", inv.ID,
		)
		return nil, ErrEmailMismatch
	}

	var accepted *model.Invitation
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		accepted, err = stores.Invitations().Accept(ctx, inv.ID, user.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInviteAlreadyUsed
			}
			return fmt.Errorf("accepting invitation: %w", err)
		}

		// Existing members keep their role when it already outranks the invite.
		current, err := stores.Members().Get(ctx, inv.WorkspaceID, user.ID)
		switch {
		case err == nil && current.Role.AtLeast(inv.Role):
			return nil
		case err != nil && !errors.Is(err, store.ErrNotFound):
			return fmt.Errorf("getting membership: %w", err)
		}

		if _, err := stores.Members().Add(ctx, inv.WorkspaceID, user.ID, inv.Role); err != nil {
			return fmt.Errorf("adding member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "invitation accepted",
		"invitation_id", inv.ID,
		"workspace_id", inv.WorkspaceID,
		"user_id", user.ID,
	)

	if inv.InvitedBy != nil && s.notifications != nil {
		workspaceID := inv.WorkspaceID
		if _, err := s.notifications.Notify(ctx, NotifyParams{
			UserID:      *inv.InvitedBy,
			WorkspaceID: &workspaceID,
			Kind:        model.NotificationInviteAccepted,
			Title:       "Invitation accepted",
			Body:        fmt.Sprintf("%s joined the workspace", user.Name),
		}); err != nil {
			slog.WarnContext(ctx, "failed to notify inviter", "error", err, "invitation_id", inv.ID)
		}
	}

	return accepted, nil
}

func (s *invitationService) Revoke(ctx context.Context, workspaceID, invitationID int64) (*model.Invitation, error) {
	inv, err := s.invStore.Revoke(ctx, workspaceID, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("revoking invitation: %w", err)
	}

	slog.InfoContext(ctx, "invitation revoked",
		"invitation_id", invitationID,
		"workspace_id", workspaceID,
	)

	return inv, nil
}

func (s *invitationService) List(ctx context.Context, workspaceID int64, limit, offset int32) ([]model.Invitation, error) {
	list, err := s.invStore.ListByWorkspace(ctx, workspaceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing invitations: %w", err)
	}
	return list, nil
}

func (s *invitationService) ExpireOld(ctx context.Context) (int64, error) {
	n, err := s.invStore.ExpireOld(ctx)
	if err != nil {
		return 0, fmt.Errorf("expiring invitations: %w", err)
	}
	if n > 0 {
		slog.InfoContext(ctx, "invitations expired", "count", n)
	}
	return n, nil
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
