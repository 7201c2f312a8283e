package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"cerebrin.app/backend/common/llm"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

const (
	mirrorMessageWindow = 60
	mirrorKeepMessages  = 20
	mirrorFactWindow    = 100
	maxMirrorFacts      = 10
)

type MirrorResponse struct {
	Summary string   `json:"summary" jsonschema_description:"Condensed account of the conversation so far, written in third person"`
	Facts   []string `json:"facts" jsonschema_description:"Durable facts about the workspace or user worth remembering, one sentence each"`
}

var mirrorSchema = llm.GenerateSchema[MirrorResponse]()

type MirrorResult struct {
	Summary *model.MemoryEntry
	Facts   []model.MemoryEntry
	Pruned  int64
}

type MirrorService interface {
	// Mirror condenses recent conversation into a summary plus facts and
	// prunes message entries older than the newest 20.
	Mirror(ctx context.Context, agentID int64) (*MirrorResult, error)
}

type mirrorService struct {
	txRunner   TxRunner
	agentStore store.AgentStore
	memStore   store.MemoryStore
	llm        llm.Client
}

func NewMirrorService(txRunner TxRunner, agentStore store.AgentStore, memStore store.MemoryStore, client llm.Client) MirrorService {
	return &mirrorService{
		txRunner:   txRunner,
		agentStore: agentStore,
		memStore:   memStore,
		llm:        client,
	}
}

func (s *mirrorService) Mirror(ctx context.Context, agentID int64) (*MirrorResult, error) {
	agent, err := s.agentStore.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, fmt.Errorf("getting agent: %w", err)
	}

	messageKind := model.MemoryKindMessage
	messages, err := s.memStore.List(ctx, agentID, &messageKind, mirrorMessageWindow, 0)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	if len(messages) == 0 {
		slog.InfoContext(ctx, "nothing to mirror", "agent_id", agentID)
		return &MirrorResult{}, nil
	}

	factKind := model.MemoryKindFact
	facts, err := s.memStore.List(ctx, agentID, &factKind, mirrorFactWindow, 0)
	if err != nil {
		return nil, fmt.Errorf("listing facts: %w", err)
	}

	var response MirrorResponse
	if _, err := chatWithRetry(ctx, s.llm, "mirror", llm.Request{
		SystemPrompt: mirrorSystemPrompt,
		UserPrompt:   buildMirrorPrompt(agent, messages, facts),
		SchemaName:   "mirror_response",
		Schema:       mirrorSchema,
		Temperature:  llm.Temp(0.2),
	}, &response); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(facts))
	for _, f := range facts {
		known[normalizeFact(f.Content)] = struct{}{}
	}

	result := &MirrorResult{}
	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if summary := strings.TrimSpace(response.Summary); summary != "" {
			entry, err := writeMemory(ctx, stores.Memory(), agent, model.MemoryKindSummary, "", summary)
			if err != nil {
				return err
			}
			result.Summary = entry
		}

		for _, fact := range response.Facts {
			key := normalizeFact(fact)
			if key == "" {
				continue
			}
			if _, dup := known[key]; dup {
				continue
			}
			known[key] = struct{}{}

			entry, err := writeMemory(ctx, stores.Memory(), agent, model.MemoryKindFact, "", fact)
			if err != nil {
				return err
			}
			result.Facts = append(result.Facts, *entry)
			if len(result.Facts) == maxMirrorFacts {
				break
			}
		}

		pruned, err := stores.Memory().PruneMessages(ctx, agentID, mirrorKeepMessages)
		if err != nil {
			return fmt.Errorf("pruning messages: %w", err)
		}
		result.Pruned = pruned
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "agent memory mirrored",
		"agent_id", agentID,
		"facts_added", len(result.Facts),
		"messages_pruned", result.Pruned,
	)
	return result, nil
}

func normalizeFact(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func buildMirrorPrompt(agent *model.Agent, messages, facts []model.MemoryEntry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "## Agent\n%s\n\n", agent.Name)

	if len(facts) > 0 {
		sb.WriteString("## Known facts\n")
		for _, f := range facts {
			fmt.Fprintf(&sb, "- %s\n", f.Content)
		}
		sb.WriteString("\n")
	}

	// Stored newest first; the transcript reads oldest first.
	ordered := slices.Clone(messages)
	slices.Reverse(ordered)

	sb.WriteString("## Conversation\n")
	for _, m := range ordered {
		fmt.Fprintf(&sb, "[%s]: %s\n", m.Role, m.Content)
	}

	return sb.String()
}

const mirrorSystemPrompt = `You maintain the long-term memory of an AI agent working inside a team workspace.

Given the recent conversation and the facts already on file, produce:

- summary: what has been discussed and decided, in under 200 words
- facts: new durable facts only. Preferences, constraints, names, decisions.

## Rules

- Never repeat a known fact, even reworded
- Skip small talk, greetings and one-off requests
- Facts are single sentences that stay true beyond this conversation
- Return an empty facts list when nothing new is durable`
