package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type ideaStore struct {
	queries *sqlc.Queries
}

func newIdeaStore(queries *sqlc.Queries) IdeaStore {
	return &ideaStore{queries: queries}
}

func (s *ideaStore) Create(ctx context.Context, idea *model.Idea) error {
	row, err := s.queries.CreateIdea(ctx, sqlc.CreateIdeaParams{
		ID:               idea.ID,
		WorkspaceID:      idea.WorkspaceID,
		Title:            idea.Title,
		Description:      idea.Description,
		Stage:            string(idea.Stage),
		Position:         idea.Position,
		CreatedByUserID:  idea.CreatedByUserID,
		CreatedByAgentID: idea.CreatedByAgentID,
	})
	if err != nil {
		return translate(err)
	}
	*idea = *toIdeaModel(row)
	return nil
}

func (s *ideaStore) GetByID(ctx context.Context, id int64) (*model.Idea, error) {
	row, err := s.queries.GetIdea(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toIdeaModel(row), nil
}

func (s *ideaStore) UpdateContent(ctx context.Context, id int64, title, description string) (*model.Idea, error) {
	row, err := s.queries.UpdateIdeaContent(ctx, sqlc.UpdateIdeaContentParams{
		ID:          id,
		Title:       title,
		Description: description,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toIdeaModel(row), nil
}

func (s *ideaStore) Delete(ctx context.Context, id int64) error {
	return rowsAffected(s.queries.DeleteIdea(ctx, id))
}

func (s *ideaStore) List(ctx context.Context, workspaceID int64, stage *model.IdeaStage) ([]model.Idea, error) {
	rows, err := s.queries.ListIdeas(ctx, sqlc.ListIdeasParams{
		WorkspaceID: workspaceID,
		Stage:       strPtr(stage),
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Idea, len(rows))
	for i, row := range rows {
		result[i] = *toIdeaModel(row)
	}
	return result, nil
}

func (s *ideaStore) Move(ctx context.Context, id int64, expected, stage model.IdeaStage, position int32) (*model.Idea, error) {
	row, err := s.queries.MoveIdea(ctx, sqlc.MoveIdeaParams{
		Stage:         string(stage),
		Position:      position,
		ID:            id,
		ExpectedStage: string(expected),
	})
	if err != nil {
		return nil, translate(err)
	}
	return toIdeaModel(row), nil
}

func (s *ideaStore) MarkPromoted(ctx context.Context, id int64) (*model.Idea, error) {
	row, err := s.queries.MarkIdeaPromoted(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toIdeaModel(row), nil
}

func (s *ideaStore) SetPromotedDocument(ctx context.Context, id, documentID int64) (*model.Idea, error) {
	row, err := s.queries.SetIdeaPromotedDocument(ctx, sqlc.SetIdeaPromotedDocumentParams{
		ID:                 id,
		PromotedDocumentID: &documentID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toIdeaModel(row), nil
}

func (s *ideaStore) SetResonance(ctx context.Context, id int64, result ResonanceResult) (*model.Idea, error) {
	row, err := s.queries.SetIdeaResonance(ctx, sqlc.SetIdeaResonanceParams{
		ID:                 id,
		ResonanceScore:     &result.Score,
		ResonanceRationale: &result.Rationale,
		ResonanceSignals:   result.Signals,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toIdeaModel(row), nil
}

// NextPosition returns the slot after the last idea in the stage column.
func (s *ideaStore) NextPosition(ctx context.Context, workspaceID int64, stage model.IdeaStage) (int32, error) {
	max, err := s.queries.MaxIdeaPosition(ctx, sqlc.MaxIdeaPositionParams{
		WorkspaceID: workspaceID,
		Stage:       string(stage),
	})
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func toIdeaModel(row sqlc.IdeaPipeline) *model.Idea {
	signals := row.ResonanceSignals
	if signals == nil {
		signals = []string{}
	}
	return &model.Idea{
		ID:                 row.ID,
		WorkspaceID:        row.WorkspaceID,
		Title:              row.Title,
		Description:        row.Description,
		Stage:              model.IdeaStage(row.Stage),
		Position:           row.Position,
		ResonanceScore:     row.ResonanceScore,
		ResonanceRationale: row.ResonanceRationale,
		ResonanceSignals:   signals,
		ScoredAt:           timePtr(row.ScoredAt),
		PromotedDocumentID: row.PromotedDocumentID,
		CreatedByUserID:    row.CreatedByUserID,
		CreatedByAgentID:   row.CreatedByAgentID,
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
	}
}
