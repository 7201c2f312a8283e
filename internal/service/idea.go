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

var (
	ErrIdeaNotFound        = errors.New("idea not found")
	ErrInvalidStage        = errors.New("invalid idea stage")
	ErrInvalidTransition   = errors.New("invalid stage transition")
	ErrStageConflict       = errors.New("idea stage changed concurrently")
	ErrIdeaAlreadyPromoted = errors.New("idea already promoted")
	ErrIdeaArchived        = errors.New("archived ideas cannot be promoted")
	ErrQueueUnavailable    = errors.New("task queue unavailable")
)

type CreateIdeaParams struct {
	WorkspaceID      int64
	Title            string
	Description      string
	Stage            model.IdeaStage
	CreatedByUserID  *int64
	CreatedByAgentID *int64
}

type UpdateIdeaParams struct {
	Title       *string
	Description *string
}

type MoveIdeaParams struct {
	Stage    model.IdeaStage
	Position *int32
}

type IdeaService interface {
	Create(ctx context.Context, params CreateIdeaParams) (*model.Idea, error)
	Get(ctx context.Context, workspaceID, ideaID int64) (*model.Idea, error)
	Update(ctx context.Context, workspaceID, ideaID int64, params UpdateIdeaParams) (*model.Idea, error)
	Delete(ctx context.Context, workspaceID, ideaID int64) error
	List(ctx context.Context, workspaceID int64, stage *model.IdeaStage) ([]model.Idea, error)
	Move(ctx context.Context, workspaceID, ideaID int64, params MoveIdeaParams) (*model.Idea, error)
	// Promote turns the idea into a project document in one transaction.
	Promote(ctx context.Context, workspaceID, ideaID int64, userID *int64) (*model.Idea, *model.Document, error)
	RequestScore(ctx context.Context, workspaceID, ideaID int64) error
}

type ideaService struct {
	txRunner  TxRunner
	ideaStore store.IdeaStore
	producer  queue.Producer
	documents DocumentService
}

func NewIdeaService(txRunner TxRunner, ideaStore store.IdeaStore, producer queue.Producer, documents DocumentService) IdeaService {
	return &ideaService{
		txRunner:  txRunner,
		ideaStore: ideaStore,
		producer:  producer,
		documents: documents,
	}
}

func (s *ideaService) Create(ctx context.Context, params CreateIdeaParams) (*model.Idea, error) {
	idea, err := createIdea(ctx, s.ideaStore, params)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "idea created", "idea_id", idea.ID, "workspace_id", idea.WorkspaceID, "stage", idea.Stage)

	enqueueScore(ctx, s.producer, idea)
	return idea, nil
}

func (s *ideaService) Get(ctx context.Context, workspaceID, ideaID int64) (*model.Idea, error) {
	return getWorkspaceIdea(ctx, s.ideaStore, workspaceID, ideaID)
}

func (s *ideaService) Update(ctx context.Context, workspaceID, ideaID int64, params UpdateIdeaParams) (*model.Idea, error) {
	idea, err := s.Get(ctx, workspaceID, ideaID)
	if err != nil {
		return nil, err
	}

	title, description := idea.Title, idea.Description
	if params.Title != nil {
		title = strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
	}
	if params.Description != nil {
		description = *params.Description
	}
	if title == idea.Title && description == idea.Description {
		return idea, nil
	}

	updated, err := s.ideaStore.UpdateContent(ctx, ideaID, title, description)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("updating idea: %w", err)
	}

	enqueueScore(ctx, s.producer, updated)
	return updated, nil
}

func (s *ideaService) Delete(ctx context.Context, workspaceID, ideaID int64) error {
	if _, err := s.Get(ctx, workspaceID, ideaID); err != nil {
		return err
	}
	if err := s.ideaStore.Delete(ctx, ideaID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrIdeaNotFound
		}
		return fmt.Errorf("deleting idea: %w", err)
	}
	slog.InfoContext(ctx, "idea deleted", "idea_id", ideaID, "workspace_id", workspaceID)
	return nil
}

func (s *ideaService) List(ctx context.Context, workspaceID int64, stage *model.IdeaStage) ([]model.Idea, error) {
	if stage != nil && !stage.IsValid() {
		return nil, ErrInvalidStage
	}
	ideas, err := s.ideaStore.List(ctx, workspaceID, stage)
	if err != nil {
		return nil, fmt.Errorf("listing ideas: %w", err)
	}
	return ideas, nil
}

func (s *ideaService) Move(ctx context.Context, workspaceID, ideaID int64, params MoveIdeaParams) (*model.Idea, error) {
	idea, err := s.Get(ctx, workspaceID, ideaID)
	if err != nil {
		return nil, err
	}
	moved, err := moveIdea(ctx, s.ideaStore, idea, params)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "idea moved",
		"idea_id", ideaID,
		"from", idea.Stage,
		"to", moved.Stage,
		"position", moved.Position,
	)
	return moved, nil
}

func (s *ideaService) Promote(ctx context.Context, workspaceID, ideaID int64, userID *int64) (*model.Idea, *model.Document, error) {
	var (
		idea *model.Idea
		doc  *model.Document
	)
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		var err error
		idea, doc, err = promoteIdea(ctx, stores, workspaceID, ideaID, userID, nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if s.documents != nil {
		s.documents.Reindex(ctx, doc)
	}

	slog.InfoContext(ctx, "idea promoted",
		"idea_id", ideaID,
		"document_id", doc.ID,
		"workspace_id", workspaceID,
	)
	return idea, doc, nil
}

func (s *ideaService) RequestScore(ctx context.Context, workspaceID, ideaID int64) error {
	idea, err := s.Get(ctx, workspaceID, ideaID)
	if err != nil {
		return err
	}
	if s.producer == nil {
		return ErrQueueUnavailable
	}
	if err := s.producer.Enqueue(ctx, queue.ScoreIdeaTask(idea.WorkspaceID, idea.ID)); err != nil {
		return fmt.Errorf("enqueueing score task: %w", err)
	}
	return nil
}

// ideaTransitions lists the moves allowed through Move. Promoted is only
// reachable through Promote and never left.
var ideaTransitions = map[model.IdeaStage][]model.IdeaStage{
	model.IdeaStageDraft:      {model.IdeaStageExploring, model.IdeaStageValidating, model.IdeaStageReady, model.IdeaStageArchived},
	model.IdeaStageExploring:  {model.IdeaStageDraft, model.IdeaStageValidating, model.IdeaStageReady, model.IdeaStageArchived},
	model.IdeaStageValidating: {model.IdeaStageDraft, model.IdeaStageExploring, model.IdeaStageReady, model.IdeaStageArchived},
	model.IdeaStageReady:      {model.IdeaStageDraft, model.IdeaStageExploring, model.IdeaStageValidating, model.IdeaStageArchived},
	model.IdeaStageArchived:   {model.IdeaStageDraft},
}

// CanMoveIdea reports whether Move accepts from -> to. Reordering within a
// column is allowed for the four working stages only; archived ideas leave
// solely through draft.
func CanMoveIdea(from, to model.IdeaStage) bool {
	if from == model.IdeaStagePromoted || to == model.IdeaStagePromoted {
		return false
	}
	if from == to {
		return from.IsValid() && from != model.IdeaStageArchived
	}
	for _, next := range ideaTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func createIdea(ctx context.Context, ideas store.IdeaStore, params CreateIdeaParams) (*model.Idea, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	stage := params.Stage
	if stage == "" {
		stage = model.IdeaStageDraft
	}
	if !stage.IsWorking() {
		return nil, ErrInvalidStage
	}

	position, err := ideas.NextPosition(ctx, params.WorkspaceID, stage)
	if err != nil {
		return nil, fmt.Errorf("computing idea position: %w", err)
	}

	idea := &model.Idea{
		ID:               id.New(),
		WorkspaceID:      params.WorkspaceID,
		Title:            title,
		Description:      params.Description,
		Stage:            stage,
		Position:         position,
		CreatedByUserID:  params.CreatedByUserID,
		CreatedByAgentID: params.CreatedByAgentID,
	}
	if err := ideas.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("creating idea: %w", err)
	}
	return idea, nil
}

func moveIdea(ctx context.Context, ideas store.IdeaStore, idea *model.Idea, params MoveIdeaParams) (*model.Idea, error) {
	if !params.Stage.IsValid() {
		return nil, ErrInvalidStage
	}
	if !CanMoveIdea(idea.Stage, params.Stage) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, idea.Stage, params.Stage)
	}

	var position int32
	if params.Position != nil {
		if *params.Position < 0 {
			return nil, fmt.Errorf("%w: position cannot be negative", ErrInvalidInput)
		}
		position = *params.Position
	} else {
		next, err := ideas.NextPosition(ctx, idea.WorkspaceID, params.Stage)
		if err != nil {
			return nil, fmt.Errorf("computing idea position: %w", err)
		}
		position = next
	}

	moved, err := ideas.Move(ctx, idea.ID, idea.Stage, params.Stage, position)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrStageConflict
		}
		return nil, fmt.Errorf("moving idea: %w", err)
	}
	return moved, nil
}

func promoteIdea(ctx context.Context, stores StoreProvider, workspaceID, ideaID int64, userID, agentID *int64) (*model.Idea, *model.Document, error) {
	idea, err := getWorkspaceIdea(ctx, stores.Ideas(), workspaceID, ideaID)
	if err != nil {
		return nil, nil, err
	}
	switch idea.Stage {
	case model.IdeaStagePromoted:
		return nil, nil, ErrIdeaAlreadyPromoted
	case model.IdeaStageArchived:
		return nil, nil, ErrIdeaArchived
	}

	if _, err := stores.Ideas().MarkPromoted(ctx, ideaID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Another request promoted or archived it after our read.
			return nil, nil, lostPromoteGuard(ctx, stores.Ideas(), ideaID)
		}
		return nil, nil, fmt.Errorf("marking idea promoted: %w", err)
	}

	doc, err := buildDocument(CreateDocumentParams{
		WorkspaceID:      workspaceID,
		Kind:             model.DocumentKindProject,
		Title:            idea.Title,
		Content:          ProjectContent(idea),
		Status:           model.DocumentStatusActive,
		SourceIdeaID:     &idea.ID,
		CreatedByUserID:  userID,
		CreatedByAgentID: agentID,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := stores.Documents().Create(ctx, doc); err != nil {
		return nil, nil, fmt.Errorf("creating project document: %w", err)
	}

	promoted, err := stores.Ideas().SetPromotedDocument(ctx, ideaID, doc.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("linking promoted document: %w", err)
	}
	return promoted, doc, nil
}

// ProjectContent is the body of the project document created on promotion.
func ProjectContent(idea *model.Idea) string {
	var b strings.Builder
	b.WriteString(idea.Description)
	if idea.IsScored() && idea.ResonanceRationale != nil && *idea.ResonanceRationale != "" {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## Resonance (%d/100)\n\n%s", *idea.ResonanceScore, *idea.ResonanceRationale)
	}
	return b.String()
}

// lostPromoteGuard re-reads the idea to report why MarkPromoted matched no row.
func lostPromoteGuard(ctx context.Context, ideas store.IdeaStore, ideaID int64) error {
	current, err := ideas.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrIdeaNotFound
		}
		return fmt.Errorf("re-reading idea: %w", err)
	}
	if current.Stage == model.IdeaStageArchived {
		return ErrIdeaArchived
	}
	return ErrIdeaAlreadyPromoted
}

func getWorkspaceIdea(ctx context.Context, ideas store.IdeaStore, workspaceID, ideaID int64) (*model.Idea, error) {
	idea, err := ideas.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("getting idea: %w", err)
	}
	if idea.WorkspaceID != workspaceID {
		return nil, ErrIdeaNotFound
	}
	return idea, nil
}

// enqueueScore is best effort; a missed job only delays the score.
func enqueueScore(ctx context.Context, producer queue.Producer, idea *model.Idea) {
	if producer == nil || idea == nil {
		return
	}
	if err := producer.Enqueue(ctx, queue.ScoreIdeaTask(idea.WorkspaceID, idea.ID)); err != nil {
		slog.WarnContext(ctx, "failed to enqueue resonance scoring", "error", err, "idea_id", idea.ID)
	}
}
