package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cerebrin.app/backend/common/llm"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/store"
)

const (
	resonanceDocumentLimit = 20
	maxResonanceSignals    = 8
)

type ResonanceResponse struct {
	Score     int      `json:"score" jsonschema_description:"How strongly the idea resonates with the workspace, 0-100"`
	Rationale string   `json:"rationale" jsonschema_description:"Two to four sentences explaining the score"`
	Signals   []string `json:"signals" jsonschema_description:"Short phrases naming the evidence behind the score"`
}

var resonanceSchema = llm.GenerateSchema[ResonanceResponse]()

type ResonanceService interface {
	// ScoreIdea runs one scoring pass and persists the result. Archived and
	// promoted ideas are skipped without error.
	ScoreIdea(ctx context.Context, ideaID int64) (*model.Idea, error)
}

type resonanceService struct {
	ideaStore     store.IdeaStore
	wsStore       store.WorkspaceStore
	docStore      store.DocumentStore
	llm           llm.Client
	notifications NotificationService
}

func NewResonanceService(
	ideaStore store.IdeaStore,
	wsStore store.WorkspaceStore,
	docStore store.DocumentStore,
	client llm.Client,
	notifications NotificationService,
) ResonanceService {
	return &resonanceService{
		ideaStore:     ideaStore,
		wsStore:       wsStore,
		docStore:      docStore,
		llm:           client,
		notifications: notifications,
	}
}

func (s *resonanceService) ScoreIdea(ctx context.Context, ideaID int64) (*model.Idea, error) {
	idea, err := s.ideaStore.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("getting idea: %w", err)
	}
	if !idea.Stage.IsWorking() {
		slog.InfoContext(ctx, "skipping resonance for closed idea", "idea_id", ideaID, "stage", idea.Stage)
		return idea, nil
	}

	ws, err := s.wsStore.GetByID(ctx, idea.WorkspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("getting workspace: %w", err)
	}

	docs, err := s.docStore.ListRecentActive(ctx, idea.WorkspaceID, resonanceDocumentLimit)
	if err != nil {
		return nil, fmt.Errorf("listing workspace documents: %w", err)
	}

	var response ResonanceResponse
	start := time.Now()
	llmResp, err := chatWithRetry(ctx, s.llm, "resonance", llm.Request{
		SystemPrompt: resonanceSystemPrompt,
		UserPrompt:   buildResonancePrompt(ws, idea, docs),
		SchemaName:   "resonance_response",
		Schema:       resonanceSchema,
		Temperature:  llm.Temp(0.2),
	}, &response)
	if err != nil {
		return nil, err
	}

	result := store.ResonanceResult{
		Score:     ClampScore(response.Score),
		Rationale: strings.TrimSpace(response.Rationale),
		Signals:   cleanSignals(response.Signals),
	}

	scored, err := s.ideaStore.SetResonance(ctx, ideaID, result)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("saving resonance: %w", err)
	}

	attrs := []any{
		"idea_id", ideaID,
		"score", result.Score,
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if llmResp != nil {
		attrs = append(attrs, "prompt_tokens", llmResp.PromptTokens, "completion_tokens", llmResp.CompletionTokens)
	}
	slog.InfoContext(ctx, "idea scored", attrs...)

	if scored.CreatedByUserID != nil && s.notifications != nil {
		workspaceID := scored.WorkspaceID
		if _, err := s.notifications.Notify(ctx, NotifyParams{
			UserID:      *scored.CreatedByUserID,
			WorkspaceID: &workspaceID,
			Kind:        model.NotificationIdeaScored,
			Title:       fmt.Sprintf("%q scored %d", scored.Title, result.Score),
			Body:        result.Rationale,
		}); err != nil {
			slog.WarnContext(ctx, "failed to notify idea creator", "error", err, "idea_id", ideaID)
		}
	}

	return scored, nil
}

// ClampScore pins model output to the 0..100 range.
func ClampScore(score int) int32 {
	return int32(max(0, min(100, score)))
}

func cleanSignals(signals []string) []string {
	out := make([]string, 0, len(signals))
	for _, sig := range signals {
		sig = strings.TrimSpace(sig)
		if sig == "" {
			continue
		}
		out = append(out, sig)
		if len(out) == maxResonanceSignals {
			break
		}
	}
	return out
}

func buildResonancePrompt(ws *model.Workspace, idea *model.Idea, docs []model.Document) string {
	var sb strings.Builder

	sb.WriteString("## Workspace\n")
	sb.WriteString(ws.Name)
	sb.WriteString("\n")
	if ws.Description != nil && *ws.Description != "" {
		sb.WriteString(*ws.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(docs) > 0 {
		sb.WriteString("## Active documents\n")
		for _, d := range docs {
			fmt.Fprintf(&sb, "- [%s] %s\n", d.Kind, d.Title)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Idea\n")
	sb.WriteString(idea.Title)
	sb.WriteString("\n")
	if idea.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(idea.Description)
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "\nCurrent stage: %s\n", idea.Stage)

	return sb.String()
}

const resonanceSystemPrompt = `You score how well a new idea resonates with the workspace it was proposed in.

Resonance is fit, not quality. A brilliant idea that ignores everything the
workspace is doing scores low; a modest idea that extends active work scores high.

## Scale

- 80-100: directly advances active documents or the workspace's stated purpose
- 50-79: related to current work, needs framing or scoping
- 20-49: tangential, shares vocabulary but not goals
- 0-19: unrelated or conflicts with current direction

## Rules

- Ground every signal in the workspace description or a listed document title
- Signals are short noun phrases, at most 8
- Rationale is plain prose, no lists, no markdown
- Do not reward length or enthusiasm in the idea text`
