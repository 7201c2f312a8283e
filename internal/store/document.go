package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type documentStore struct {
	queries *sqlc.Queries
}

func newDocumentStore(queries *sqlc.Queries) DocumentStore {
	return &documentStore{queries: queries}
}

func (s *documentStore) Create(ctx context.Context, doc *model.Document) error {
	row, err := s.queries.CreateDocument(ctx, sqlc.CreateDocumentParams{
		ID:               doc.ID,
		WorkspaceID:      doc.WorkspaceID,
		Kind:             string(doc.Kind),
		Title:            doc.Title,
		Content:          doc.Content,
		Status:           string(doc.Status),
		SourceIdeaID:     doc.SourceIdeaID,
		CreatedByUserID:  doc.CreatedByUserID,
		CreatedByAgentID: doc.CreatedByAgentID,
	})
	if err != nil {
		return translate(err)
	}
	*doc = *toDocumentModel(row)
	return nil
}

func (s *documentStore) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	row, err := s.queries.GetDocument(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toDocumentModel(row), nil
}

func (s *documentStore) Update(ctx context.Context, doc *model.Document) error {
	row, err := s.queries.UpdateDocument(ctx, sqlc.UpdateDocumentParams{
		ID:      doc.ID,
		Title:   doc.Title,
		Content: doc.Content,
		Status:  string(doc.Status),
	})
	if err != nil {
		return translate(err)
	}
	*doc = *toDocumentModel(row)
	return nil
}

func (s *documentStore) List(ctx context.Context, workspaceID int64, filter DocumentFilter) ([]model.Document, error) {
	rows, err := s.queries.ListDocuments(ctx, sqlc.ListDocumentsParams{
		WorkspaceID: workspaceID,
		Kind:        strPtr(filter.Kind),
		Status:      strPtr(filter.Status),
		Lim:         filter.Limit,
		Off:         filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	return toDocumentModels(rows), nil
}

func (s *documentStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Document, error) {
	rows, err := s.queries.SearchDocuments(ctx, sqlc.SearchDocumentsParams{
		WorkspaceID: workspaceID,
		Query:       query,
		Lim:         limit,
	})
	if err != nil {
		return nil, err
	}
	return toDocumentModels(rows), nil
}

func (s *documentStore) ListRecentActive(ctx context.Context, workspaceID int64, limit int32) ([]model.Document, error) {
	rows, err := s.queries.ListRecentActiveDocuments(ctx, sqlc.ListRecentActiveDocumentsParams{
		WorkspaceID: workspaceID,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	return toDocumentModels(rows), nil
}

func toDocumentModel(row sqlc.Document) *model.Document {
	return &model.Document{
		ID:               row.ID,
		WorkspaceID:      row.WorkspaceID,
		Kind:             model.DocumentKind(row.Kind),
		Title:            row.Title,
		Content:          row.Content,
		Status:           model.DocumentStatus(row.Status),
		SourceIdeaID:     row.SourceIdeaID,
		CreatedByUserID:  row.CreatedByUserID,
		CreatedByAgentID: row.CreatedByAgentID,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}

func toDocumentModels(rows []sqlc.Document) []model.Document {
	result := make([]model.Document, len(rows))
	for i, row := range rows {
		result[i] = *toDocumentModel(row)
	}
	return result
}
