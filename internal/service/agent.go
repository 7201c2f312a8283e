package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/ladder"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

var (
	ErrAgentNotFound   = errors.New("agent not found")
	ErrAgentInactive   = errors.New("agent is inactive")
	ErrInvalidAutonomy = errors.New("invalid autonomy level")
)

type CreateAgentParams struct {
	WorkspaceID   int64
	Name          string
	Slug          *string
	Persona       string
	Model         *string
	AutonomyLevel model.AutonomyLevel
	Permissions   json.RawMessage
	CreatedBy     *int64
}

type UpdateAgentParams struct {
	Name          *string
	Persona       *string
	Model         *string
	AutonomyLevel *model.AutonomyLevel
	IsActive      *bool
}

type AgentService interface {
	Create(ctx context.Context, params CreateAgentParams) (*model.Agent, error)
	// Resolve accepts either a numeric id or a slug.
	Resolve(ctx context.Context, workspaceID int64, ref string) (*model.Agent, error)
	Get(ctx context.Context, workspaceID, agentID int64) (*model.Agent, error)
	List(ctx context.Context, workspaceID int64) ([]model.Agent, error)
	Update(ctx context.Context, workspaceID, agentID int64, params UpdateAgentParams) (*model.Agent, error)
	Delete(ctx context.Context, workspaceID, agentID int64) error
	ReplacePermissions(ctx context.Context, workspaceID, agentID int64, permissions json.RawMessage) (*model.Agent, error)
	SetPermission(ctx context.Context, workspaceID, agentID int64, path string, level model.Decision) (*model.Agent, error)
}

type agentService struct {
	txRunner     TxRunner
	agentStore   store.AgentStore
	defaultModel string
}

func NewAgentService(txRunner TxRunner, agentStore store.AgentStore, defaultModel string) AgentService {
	return &agentService{
		txRunner:     txRunner,
		agentStore:   agentStore,
		defaultModel: defaultModel,
	}
}

func (s *agentService) Create(ctx context.Context, params CreateAgentParams) (*model.Agent, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	autonomy := params.AutonomyLevel
	if autonomy == "" {
		autonomy = model.AutonomyAssistant
	}
	if !autonomy.IsValid() {
		return nil, ErrInvalidAutonomy
	}

	permissions := params.Permissions
	if len(permissions) == 0 {
		permissions = json.RawMessage(`{}`)
	}
	if err := ladder.Validate(permissions); err != nil {
		return nil, err
	}

	agentModel := s.defaultModel
	if params.Model != nil && strings.TrimSpace(*params.Model) != "" {
		agentModel = strings.TrimSpace(*params.Model)
	}

	var agent *model.Agent
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		exists := func(ctx context.Context, slug string) (bool, error) {
			return stores.Agents().SlugExists(ctx, params.WorkspaceID, slug)
		}
		slug, err := ensureSlug(ctx, name, params.Slug, "agent", exists)
		if err != nil {
			return err
		}

		agent = &model.Agent{
			ID:            id.New(),
			WorkspaceID:   params.WorkspaceID,
			Name:          name,
			Slug:          slug,
			Persona:       params.Persona,
			Model:         agentModel,
			AutonomyLevel: autonomy,
			Permissions:   permissions,
			IsActive:      true,
			CreatedBy:     params.CreatedBy,
		}
		if err := stores.Agents().Create(ctx, agent); err != nil {
			return fmt.Errorf("creating agent: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "agent created",
		"agent_id", agent.ID,
		"workspace_id", agent.WorkspaceID,
		"slug", agent.Slug,
		"autonomy_level", agent.AutonomyLevel,
	)
	return agent, nil
}

func (s *agentService) Resolve(ctx context.Context, workspaceID int64, ref string) (*model.Agent, error) {
	if agentID, err := strconv.ParseInt(ref, 10, 64); err == nil {
		agent, err := s.Get(ctx, workspaceID, agentID)
		if !errors.Is(err, ErrAgentNotFound) {
			return agent, err
		}
		// Numeric slugs are legal; fall through to a slug lookup.
	}

	agent, err := s.agentStore.GetBySlug(ctx, workspaceID, ref)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("getting agent by slug: %w", err)
	}
	return agent, nil
}

func (s *agentService) Get(ctx context.Context, workspaceID, agentID int64) (*model.Agent, error) {
	return getWorkspaceAgent(ctx, s.agentStore, workspaceID, agentID)
}

func (s *agentService) List(ctx context.Context, workspaceID int64) ([]model.Agent, error) {
	agents, err := s.agentStore.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	return agents, nil
}

func (s *agentService) Update(ctx context.Context, workspaceID, agentID int64, params UpdateAgentParams) (*model.Agent, error) {
	agent, err := s.Get(ctx, workspaceID, agentID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		agent.Name = name
	}
	if params.Persona != nil {
		agent.Persona = *params.Persona
	}
	if params.Model != nil && strings.TrimSpace(*params.Model) != "" {
		agent.Model = strings.TrimSpace(*params.Model)
	}
	if params.AutonomyLevel != nil {
		if !params.AutonomyLevel.IsValid() {
			return nil, ErrInvalidAutonomy
		}
		agent.AutonomyLevel = *params.AutonomyLevel
	}
	if params.IsActive != nil {
		agent.IsActive = *params.IsActive
	}

	if err := s.agentStore.Update(ctx, agent); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("updating agent: %w", err)
	}

	slog.InfoContext(ctx, "agent updated",
		"agent_id", agent.ID,
		"autonomy_level", agent.AutonomyLevel,
		"is_active", agent.IsActive,
	)
	return agent, nil
}

func (s *agentService) Delete(ctx context.Context, workspaceID, agentID int64) error {
	if _, err := s.Get(ctx, workspaceID, agentID); err != nil {
		return err
	}
	if err := s.agentStore.Delete(ctx, agentID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAgentNotFound
		}
		return fmt.Errorf("deleting agent: %w", err)
	}
	slog.InfoContext(ctx, "agent deleted", "agent_id", agentID, "workspace_id", workspaceID)
	return nil
}

func (s *agentService) ReplacePermissions(ctx context.Context, workspaceID, agentID int64, permissions json.RawMessage) (*model.Agent, error) {
	if err := ladder.Validate(permissions); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, workspaceID, agentID); err != nil {
		return nil, err
	}
	return s.savePermissions(ctx, s.agentStore, agentID, permissions)
}

func (s *agentService) SetPermission(ctx context.Context, workspaceID, agentID int64, path string, level model.Decision) (*model.Agent, error) {
	var updated *model.Agent
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		agent, err := getWorkspaceAgent(ctx, stores.Agents(), workspaceID, agentID)
		if err != nil {
			return err
		}

		permissions, err := ladder.SetRule(agent.Permissions, path, level)
		if err != nil {
			return err
		}
		if err := ladder.Validate(permissions); err != nil {
			return err
		}

		updated, err = s.savePermissions(ctx, stores.Agents(), agentID, permissions)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *agentService) savePermissions(ctx context.Context, agents store.AgentStore, agentID int64, permissions json.RawMessage) (*model.Agent, error) {
	agent, err := agents.UpdatePermissions(ctx, agentID, permissions)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("updating agent permissions: %w", err)
	}
	slog.InfoContext(ctx, "agent permissions updated", "agent_id", agentID)
	return agent, nil
}

func getWorkspaceAgent(ctx context.Context, agents store.AgentStore, workspaceID, agentID int64) (*model.Agent, error) {
	agent, err := agents.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("getting agent: %w", err)
	}
	if agent.WorkspaceID != workspaceID {
		return nil, ErrAgentNotFound
	}
	return agent, nil
}
