package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cerebrin.app/backend/common"
	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

const maxSlugAttempts = 20

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrForbidden         = errors.New("forbidden")
	ErrMemberNotFound    = errors.New("member not found")
	ErrLastOwner         = errors.New("cannot demote the last owner")
	ErrCannotRemoveOwner = errors.New("cannot remove the workspace owner")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidName       = errors.New("name is required")
	ErrInvalidInput      = errors.New("invalid input")
)

type CreateWorkspaceParams struct {
	Name        string
	Slug        *string
	Description *string
}

type UpdateWorkspaceParams struct {
	Name        *string
	Description *string
}

type WorkspaceService interface {
	Create(ctx context.Context, ownerID int64, params CreateWorkspaceParams) (*model.Workspace, error)
	ListMine(ctx context.Context, userID int64) ([]model.WorkspaceWithRole, error)
	Get(ctx context.Context, workspaceID int64) (*model.Workspace, error)
	Update(ctx context.Context, workspaceID int64, params UpdateWorkspaceParams) (*model.Workspace, error)
	Delete(ctx context.Context, workspaceID int64) error
	List(ctx context.Context, limit, offset int32) ([]model.Workspace, error)

	// RequireMember resolves the caller's membership and enforces the
	// viewer < member < admin < owner ladder. Non-members get
	// ErrWorkspaceNotFound so workspace ids do not leak.
	RequireMember(ctx context.Context, workspaceID, userID int64, minRole model.WorkspaceRole) (*model.WorkspaceMember, error)
	ListMembers(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error)
	// UpdateMemberRole changes userID's role. actorRole is the caller's own
	// role: only owners may grant ownership or change an owner's role.
	UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role, actorRole model.WorkspaceRole) (*model.WorkspaceMember, error)
	RemoveMember(ctx context.Context, workspaceID, userID int64) error
}

type workspaceService struct {
	txRunner    TxRunner
	wsStore     store.WorkspaceStore
	memberStore store.MemberStore
}

func NewWorkspaceService(txRunner TxRunner, wsStore store.WorkspaceStore, memberStore store.MemberStore) WorkspaceService {
	return &workspaceService{
		txRunner:    txRunner,
		wsStore:     wsStore,
		memberStore: memberStore,
	}
}

func (s *workspaceService) Create(ctx context.Context, ownerID int64, params CreateWorkspaceParams) (*model.Workspace, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	var ws *model.Workspace
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		slug, err := ensureSlug(ctx, name, params.Slug, "workspace", stores.Workspaces().SlugExists)
		if err != nil {
			return err
		}

		ws = &model.Workspace{
			ID:          id.New(),
			OwnerUserID: ownerID,
			Name:        name,
			Slug:        slug,
			Description: params.Description,
		}
		if err := stores.Workspaces().Create(ctx, ws); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}

		if _, err := stores.Members().Add(ctx, ws.ID, ownerID, model.WorkspaceRoleOwner); err != nil {
			return fmt.Errorf("adding owner membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"slug", ws.Slug,
		"owner_user_id", ownerID,
	)

	return ws, nil
}

func (s *workspaceService) ListMine(ctx context.Context, userID int64) ([]model.WorkspaceWithRole, error) {
	list, err := s.wsStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	return list, nil
}

func (s *workspaceService) Get(ctx context.Context, workspaceID int64) (*model.Workspace, error) {
	ws, err := s.wsStore.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}
	if ws.IsDeleted {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

func (s *workspaceService) Update(ctx context.Context, workspaceID int64, params UpdateWorkspaceParams) (*model.Workspace, error) {
	ws, err := s.Get(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		ws.Name = name
	}
	if params.Description != nil {
		ws.Description = params.Description
	}

	if err := s.wsStore.Update(ctx, ws); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("updating workspace: %w", err)
	}
	return ws, nil
}

func (s *workspaceService) Delete(ctx context.Context, workspaceID int64) error {
	if err := s.wsStore.Delete(ctx, workspaceID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrWorkspaceNotFound
		}
		return fmt.Errorf("deleting workspace: %w", err)
	}
	slog.InfoContext(ctx, "workspace deleted", "workspace_id", workspaceID)
	return nil
}

func (s *workspaceService) List(ctx context.Context, limit, offset int32) ([]model.Workspace, error) {
	list, err := s.wsStore.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	return list, nil
}

func (s *workspaceService) RequireMember(ctx context.Context, workspaceID, userID int64, minRole model.WorkspaceRole) (*model.WorkspaceMember, error) {
	if _, err := s.Get(ctx, workspaceID); err != nil {
		return nil, err
	}

	member, err := s.memberStore.Get(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting membership: %w", err)
	}

	if !member.Role.AtLeast(minRole) {
		slog.WarnContext(ctx, "workspace role too low",
			"workspace_id", workspaceID,
			"user_id", userID,
			"role", member.Role,
			"required", minRole,
		)
		return nil, ErrForbidden
	}
	return member, nil
}

func (s *workspaceService) ListMembers(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error) {
	members, err := s.memberStore.List(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

func (s *workspaceService) UpdateMemberRole(ctx context.Context, workspaceID, userID int64, role, actorRole model.WorkspaceRole) (*model.WorkspaceMember, error) {
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}
	if role == model.WorkspaceRoleOwner && actorRole != model.WorkspaceRoleOwner {
		return nil, ErrForbidden
	}

	var updated *model.WorkspaceMember
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		current, err := stores.Members().Get(ctx, workspaceID, userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("getting member: %w", err)
		}

		if current.Role == model.WorkspaceRoleOwner && actorRole != model.WorkspaceRoleOwner {
			return ErrForbidden
		}
		if current.Role == model.WorkspaceRoleOwner && role != model.WorkspaceRoleOwner {
			owners, err := stores.Members().CountOwners(ctx, workspaceID)
			if err != nil {
				return fmt.Errorf("counting owners: %w", err)
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}

		updated, err = stores.Members().UpdateRole(ctx, workspaceID, userID, role)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrMemberNotFound
			}
			return fmt.Errorf("updating member role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "member role updated",
		"workspace_id", workspaceID,
		"user_id", userID,
		"role", role,
	)
	return updated, nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, workspaceID, userID int64) error {
	member, err := s.memberStore.Get(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("getting member: %w", err)
	}
	if member.Role == model.WorkspaceRoleOwner {
		return ErrCannotRemoveOwner
	}

	if err := s.memberStore.Remove(ctx, workspaceID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("removing member: %w", err)
	}

	slog.InfoContext(ctx, "member removed", "workspace_id", workspaceID, "user_id", userID)
	return nil
}

// ensureSlug derives a slug from the explicit slug or the name and appends
// numeric suffixes until exists reports it free.
func ensureSlug(ctx context.Context, name string, slug *string, fallback string, exists func(context.Context, string) (bool, error)) (string, error) {
	input := name
	if slug != nil && *slug != "" {
		input = *slug
	}

	base, err := common.Slugify(input, fallback)
	if err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}

	for i := 1; i <= maxSlugAttempts; i++ {
		candidate := common.WithSuffix(base, i)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("checking slug availability: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("unable to find available slug for %q", base)
}
