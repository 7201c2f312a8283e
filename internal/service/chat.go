package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"cerebrin.app/backend/common/llm"
	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/ladder"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/store"
)

const (
	chatHistoryMessages = 20
	chatFactLimit       = 30
	chatDocumentLimit   = 10
	maxChatActions      = 5
	maxChatMessage      = 4000
)

var ErrEmptyMessage = errors.New("message is required")

type ChatAction struct {
	Kind      string `json:"kind" jsonschema_description:"Action kind such as document.create or idea.move"`
	Payload   string `json:"payload" jsonschema_description:"JSON object encoded as a string, matching the payload shape for the kind"`
	Rationale string `json:"rationale" jsonschema_description:"One sentence on why this action helps the user"`
}

type ChatResponse struct {
	Reply   string       `json:"reply" jsonschema_description:"Message shown to the user"`
	Actions []ChatAction `json:"actions" jsonschema_description:"Workspace changes to propose. Empty when none are needed"`
}

var chatSchema = llm.GenerateSchema[ChatResponse]()

type ChatParams struct {
	Agent   *model.Agent
	UserID  *int64
	Message string
}

// ActionOutcome reports what happened to one proposed action. Denied or
// invalid actions carry Error and never fail the chat turn.
type ActionOutcome struct {
	Action    model.ActionKind     `json:"action"`
	Decision  model.Decision       `json:"decision"`
	RequestID *int64               `json:"request_id,omitempty"`
	Status    *model.RequestStatus `json:"status,omitempty"`
	Result    json.RawMessage      `json:"result,omitempty"`
	Error     *string              `json:"error,omitempty"`
}

type ChatResult struct {
	Reply          string          `json:"reply"`
	Outcomes       []ActionOutcome `json:"outcomes"`
	MirrorEnqueued bool            `json:"mirror_enqueued"`
}

type ChatService interface {
	Chat(ctx context.Context, params ChatParams) (*ChatResult, error)
}

type chatService struct {
	wsStore         store.WorkspaceStore
	docStore        store.DocumentStore
	memStore        store.MemoryStore
	architect       ArchitectService
	producer        queue.Producer
	llm             llm.Client
	mirrorThreshold int64
}

func NewChatService(
	wsStore store.WorkspaceStore,
	docStore store.DocumentStore,
	memStore store.MemoryStore,
	architect ArchitectService,
	producer queue.Producer,
	client llm.Client,
	mirrorThreshold int,
) ChatService {
	return &chatService{
		wsStore:         wsStore,
		docStore:        docStore,
		memStore:        memStore,
		architect:       architect,
		producer:        producer,
		llm:             client,
		mirrorThreshold: int64(mirrorThreshold),
	}
}

func (s *chatService) Chat(ctx context.Context, params ChatParams) (*ChatResult, error) {
	agent := params.Agent
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if len(message) > maxChatMessage {
		return nil, fmt.Errorf("%w: message exceeds %d bytes", ErrInvalidInput, maxChatMessage)
	}
	if !agent.IsActive {
		return nil, ErrAgentInactive
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		WorkspaceID: logger.Ptr(agent.WorkspaceID),
		AgentID:     logger.Ptr(agent.ID),
		UserID:      params.UserID,
		Component:   "cerebrin.chat",
	})

	systemPrompt, history, err := s.buildContext(ctx, agent)
	if err != nil {
		return nil, err
	}

	var response ChatResponse
	if _, err := chatWithRetry(ctx, s.llm, "chat", llm.Request{
		SystemPrompt: systemPrompt,
		History:      history,
		UserPrompt:   message,
		SchemaName:   "chat_response",
		Schema:       chatSchema,
		Temperature:  llm.Temp(0.4),
	}, &response); err != nil {
		return nil, err
	}

	reply := strings.TrimSpace(response.Reply)
	if _, err := writeMemory(ctx, s.memStore, agent, model.MemoryKindMessage, "user", message); err != nil {
		return nil, err
	}
	if reply != "" {
		if _, err := writeMemory(ctx, s.memStore, agent, model.MemoryKindMessage, "assistant", logger.Truncate(reply, maxMemoryContent)); err != nil {
			return nil, err
		}
	}

	result := &ChatResult{Reply: reply, Outcomes: []ActionOutcome{}}
	for i, action := range response.Actions {
		if i == maxChatActions {
			slog.WarnContext(ctx, "dropping extra chat actions", "proposed", len(response.Actions))
			break
		}
		result.Outcomes = append(result.Outcomes, s.propose(ctx, agent, params.UserID, action))
	}

	result.MirrorEnqueued = s.maybeMirror(ctx, agent)

	slog.InfoContext(ctx, "chat turn completed",
		"actions", len(result.Outcomes),
		"mirror_enqueued", result.MirrorEnqueued,
	)
	return result, nil
}

func (s *chatService) propose(ctx context.Context, agent *model.Agent, userID *int64, action ChatAction) ActionOutcome {
	kind := model.ActionKind(strings.TrimSpace(action.Kind))
	outcome := ActionOutcome{Action: kind, Decision: model.DecisionDeny}

	var rationale *string
	if r := strings.TrimSpace(action.Rationale); r != "" {
		rationale = &r
	}

	payload := json.RawMessage(action.Payload)
	if !json.Valid(payload) {
		msg := "payload is not valid JSON"
		outcome.Error = &msg
		return outcome
	}

	res, err := s.architect.Propose(ctx, Proposal{
		Agent:       agent,
		Action:      kind,
		Payload:     payload,
		Rationale:   rationale,
		RequestedBy: userID,
	})
	if err != nil {
		msg := err.Error()
		outcome.Error = &msg
		if !errors.Is(err, ErrActionDenied) {
			if r, a, ok := ladder.ForActionKind(kind); ok {
				outcome.Decision = ladder.Evaluate(agent, r, a)
			}
		}
		return outcome
	}

	outcome.Decision = res.Decision
	outcome.Result = res.Result
	if res.Request != nil {
		outcome.RequestID = &res.Request.ID
		outcome.Status = &res.Request.Status
	}
	return outcome
}

func (s *chatService) maybeMirror(ctx context.Context, agent *model.Agent) bool {
	if s.producer == nil || s.mirrorThreshold <= 0 {
		return false
	}
	count, err := s.memStore.CountByKind(ctx, agent.ID, model.MemoryKindMessage)
	if err != nil {
		slog.WarnContext(ctx, "failed to count agent messages", "error", err)
		return false
	}
	if count <= s.mirrorThreshold {
		return false
	}
	if err := s.producer.Enqueue(ctx, queue.MirrorAgentTask(agent.WorkspaceID, agent.ID)); err != nil {
		slog.WarnContext(ctx, "failed to enqueue mirror", "error", err)
		return false
	}
	return true
}

func (s *chatService) buildContext(ctx context.Context, agent *model.Agent) (string, []llm.Message, error) {
	ws, err := s.wsStore.GetByID(ctx, agent.WorkspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrWorkspaceNotFound
		}
		return "", nil, fmt.Errorf("getting workspace: %w", err)
	}

	docs, err := s.docStore.ListRecentActive(ctx, agent.WorkspaceID, chatDocumentLimit)
	if err != nil {
		return "", nil, fmt.Errorf("listing documents: %w", err)
	}

	summaryKind := model.MemoryKindSummary
	summaries, err := s.memStore.List(ctx, agent.ID, &summaryKind, 1, 0)
	if err != nil {
		return "", nil, fmt.Errorf("listing summaries: %w", err)
	}

	factKind := model.MemoryKindFact
	facts, err := s.memStore.List(ctx, agent.ID, &factKind, chatFactLimit, 0)
	if err != nil {
		return "", nil, fmt.Errorf("listing facts: %w", err)
	}

	messageKind := model.MemoryKindMessage
	messages, err := s.memStore.List(ctx, agent.ID, &messageKind, chatHistoryMessages, 0)
	if err != nil {
		return "", nil, fmt.Errorf("listing messages: %w", err)
	}

	var summary *model.MemoryEntry
	if len(summaries) > 0 {
		summary = &summaries[0]
	}

	return BuildChatSystemPrompt(agent, ws, docs, summary, facts), chatHistory(messages), nil
}

// chatHistory turns newest-first memory rows into oldest-first turns.
func chatHistory(messages []model.MemoryEntry) []llm.Message {
	ordered := slices.Clone(messages)
	slices.Reverse(ordered)

	history := make([]llm.Message, 0, len(ordered))
	for _, m := range ordered {
		role := m.Role
		if role != "assistant" {
			role = "user"
		}
		history = append(history, llm.Message{Role: role, Content: m.Content})
	}
	return history
}

func BuildChatSystemPrompt(agent *model.Agent, ws *model.Workspace, docs []model.Document, summary *model.MemoryEntry, facts []model.MemoryEntry) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s, an AI agent in the %q workspace.\n\n", agent.Name, ws.Name)
	if p := strings.TrimSpace(agent.Persona); p != "" {
		sb.WriteString("## Persona\n")
		sb.WriteString(p)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Workspace\n")
	if ws.Description != nil && *ws.Description != "" {
		sb.WriteString(*ws.Description)
		sb.WriteString("\n")
	}
	if len(docs) > 0 {
		sb.WriteString("Active documents:\n")
		for _, d := range docs {
			fmt.Fprintf(&sb, "- %s [%s] (id %s)\n", d.Title, d.Kind, strconv.FormatInt(d.ID, 10))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("## Your permissions\n")
	fmt.Fprintf(&sb, "Autonomy: %s\n", agent.AutonomyLevel)
	sb.WriteString(ladder.Summary(agent))
	sb.WriteString("\nActions at \"approval\" wait for a human. Actions at \"deny\" will be refused; do not propose them.\n\n")

	if summary != nil {
		sb.WriteString("## Conversation so far\n")
		sb.WriteString(summary.Content)
		sb.WriteString("\n\n")
	}
	if len(facts) > 0 {
		sb.WriteString("## Things you remember\n")
		for _, f := range facts {
			fmt.Fprintf(&sb, "- %s\n", f.Content)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(chatActionGuide)
	return sb.String()
}

const chatActionGuide = `## Proposing actions

Reply conversationally. When the user asks for a change, add an entry to actions
with kind and a payload JSON string:

- document.create {"kind":"note|project|spec|brief","title":"...","content":"..."}
- document.update {"document_id":"...","title":"...","content":"...","status":"draft|active|archived"}
- document.delete {"document_id":"..."}
- idea.create {"title":"...","description":"..."}
- idea.move {"idea_id":"...","stage":"draft|exploring|validating|ready|archived"}
- idea.promote {"idea_id":"..."}
- ticket.create {"subject":"...","body":"...","priority":"low|normal|high|urgent"}
- ticket.transition {"ticket_id":"...","status":"open|in_progress|waiting|resolved|closed"}
- memory.write {"content":"..."}

Only reference ids that appear above or that the user gave you. Propose at most 5 actions.`
