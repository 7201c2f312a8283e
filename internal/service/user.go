package service

import (
	"context"
	"errors"
	"fmt"

	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

type UserService interface {
	Get(ctx context.Context, userID int64) (*model.User, error)
	// Me returns the user together with every workspace they belong to.
	Me(ctx context.Context, userID int64) (*model.User, []model.WorkspaceWithRole, error)
}

type userService struct {
	userStore store.UserStore
	wsStore   store.WorkspaceStore
}

func NewUserService(userStore store.UserStore, wsStore store.WorkspaceStore) UserService {
	return &userService{
		userStore: userStore,
		wsStore:   wsStore,
	}
}

func (s *userService) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return user, nil
}

func (s *userService) Me(ctx context.Context, userID int64) (*model.User, []model.WorkspaceWithRole, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	workspaces, err := s.wsStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing workspaces: %w", err)
	}
	if workspaces == nil {
		workspaces = []model.WorkspaceWithRole{}
	}
	return user, workspaces, nil
}
