package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/service"
)

// ErrPermanent marks failures a retry cannot fix.
var ErrPermanent = errors.New("permanent task failure")

type Processor struct {
	resonance service.ResonanceService
	mirror    service.MirrorService
}

func NewProcessor(resonance service.ResonanceService, mirror service.MirrorService) *Processor {
	return &Processor{
		resonance: resonance,
		mirror:    mirror,
	}
}

func (p *Processor) Process(ctx context.Context, msg queue.Message) error {
	switch msg.TaskType {
	case queue.TaskTypeScoreIdea:
		if msg.IdeaID == nil {
			return fmt.Errorf("%w: score_idea without idea_id", ErrPermanent)
		}
		idea, err := p.resonance.ScoreIdea(ctx, *msg.IdeaID)
		if err != nil {
			return classify("scoring idea", err)
		}
		if idea.ResonanceScore != nil {
			slog.DebugContext(ctx, "resonance stored", "idea_id", idea.ID, "score", *idea.ResonanceScore)
		}
		return nil

	case queue.TaskTypeMirrorAgent:
		if msg.AgentID == nil {
			return fmt.Errorf("%w: mirror_agent without agent_id", ErrPermanent)
		}
		if _, err := p.mirror.Mirror(ctx, *msg.AgentID); err != nil {
			return classify("mirroring agent", err)
		}
		return nil
	}

	return fmt.Errorf("%w: unknown task type %q", ErrPermanent, msg.TaskType)
}

// classify wraps err, tagging failures that will not change on a retry.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrIdeaNotFound),
		errors.Is(err, service.ErrAgentNotFound),
		errors.Is(err, service.ErrWorkspaceNotFound),
		errors.Is(err, service.ErrLLMUnavailable):
		return fmt.Errorf("%w: %s: %w", ErrPermanent, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
