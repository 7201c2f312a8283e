package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/store"
)

const maxMemoryContent = 8000

var (
	ErrMemoryNotFound    = errors.New("memory entry not found")
	ErrInvalidMemoryKind = errors.New("invalid memory kind")
)

type MemoryService interface {
	List(ctx context.Context, agent *model.Agent, kind *model.MemoryKind, limit, offset int32) ([]model.MemoryEntry, error)
	AddFact(ctx context.Context, agent *model.Agent, content string) (*model.MemoryEntry, error)
	Delete(ctx context.Context, agent *model.Agent, entryID int64) error
	Clear(ctx context.Context, agent *model.Agent) (int64, error)
	// RequestMirror queues a mirror job for the worker.
	RequestMirror(ctx context.Context, agent *model.Agent) error
}

type memoryService struct {
	memStore store.MemoryStore
	producer queue.Producer
}

func NewMemoryService(memStore store.MemoryStore, producer queue.Producer) MemoryService {
	return &memoryService{memStore: memStore, producer: producer}
}

func (s *memoryService) List(ctx context.Context, agent *model.Agent, kind *model.MemoryKind, limit, offset int32) ([]model.MemoryEntry, error) {
	if kind != nil && !kind.IsValid() {
		return nil, ErrInvalidMemoryKind
	}
	entries, err := s.memStore.List(ctx, agent.ID, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing memory: %w", err)
	}
	return entries, nil
}

func (s *memoryService) AddFact(ctx context.Context, agent *model.Agent, content string) (*model.MemoryEntry, error) {
	return writeMemory(ctx, s.memStore, agent, model.MemoryKindFact, "", content)
}

func (s *memoryService) Delete(ctx context.Context, agent *model.Agent, entryID int64) error {
	if err := s.memStore.Delete(ctx, agent.ID, entryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrMemoryNotFound
		}
		return fmt.Errorf("deleting memory entry: %w", err)
	}
	return nil
}

func (s *memoryService) Clear(ctx context.Context, agent *model.Agent) (int64, error) {
	n, err := s.memStore.Clear(ctx, agent.ID)
	if err != nil {
		return 0, fmt.Errorf("clearing memory: %w", err)
	}
	slog.InfoContext(ctx, "agent memory cleared", "agent_id", agent.ID, "count", n)
	return n, nil
}

func (s *memoryService) RequestMirror(ctx context.Context, agent *model.Agent) error {
	if s.producer == nil {
		return ErrQueueUnavailable
	}
	if err := s.producer.Enqueue(ctx, queue.MirrorAgentTask(agent.WorkspaceID, agent.ID)); err != nil {
		return fmt.Errorf("enqueueing mirror task: %w", err)
	}
	return nil
}

func writeMemory(ctx context.Context, memStore store.MemoryStore, agent *model.Agent, kind model.MemoryKind, role, content string) (*model.MemoryEntry, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if len(content) > maxMemoryContent {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", ErrInvalidInput, maxMemoryContent)
	}

	entry := &model.MemoryEntry{
		ID:          id.New(),
		AgentID:     agent.ID,
		WorkspaceID: agent.WorkspaceID,
		Kind:        kind,
		Role:        role,
		Content:     content,
	}
	if err := memStore.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("writing memory: %w", err)
	}
	return entry, nil
}
