package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/search"
	"cerebrin.app/backend/internal/store"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidKind      = errors.New("invalid document kind")
	ErrInvalidStatus    = errors.New("invalid document status")
	ErrEmptyQuery       = errors.New("search query is required")
)

type CreateDocumentParams struct {
	WorkspaceID      int64
	Kind             model.DocumentKind
	Title            string
	Content          string
	Status           model.DocumentStatus
	SourceIdeaID     *int64
	CreatedByUserID  *int64
	CreatedByAgentID *int64
}

type UpdateDocumentParams struct {
	Title   *string
	Content *string
	Status  *model.DocumentStatus
}

type DocumentService interface {
	Create(ctx context.Context, params CreateDocumentParams) (*model.Document, error)
	Get(ctx context.Context, workspaceID, documentID int64) (*model.Document, error)
	Update(ctx context.Context, workspaceID, documentID int64, params UpdateDocumentParams) (*model.Document, error)
	// Archive is the DELETE path; documents are never hard deleted.
	Archive(ctx context.Context, workspaceID, documentID int64) (*model.Document, error)
	List(ctx context.Context, workspaceID int64, filter store.DocumentFilter) ([]model.Document, error)
	Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Document, error)
	// Reindex brings the search index in line with doc after a write that
	// happened elsewhere, such as inside an agent request transaction.
	Reindex(ctx context.Context, doc *model.Document)
}

type documentService struct {
	docStore store.DocumentStore
	index    search.Index
}

// NewDocumentService accepts a nil index, in which case search falls back to Postgres.
func NewDocumentService(docStore store.DocumentStore, index search.Index) DocumentService {
	return &documentService{
		docStore: docStore,
		index:    index,
	}
}

func (s *documentService) Create(ctx context.Context, params CreateDocumentParams) (*model.Document, error) {
	doc, err := buildDocument(params)
	if err != nil {
		return nil, err
	}

	if err := s.docStore.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	slog.InfoContext(ctx, "document created",
		"document_id", doc.ID,
		"workspace_id", doc.WorkspaceID,
		"kind", doc.Kind,
	)

	s.Reindex(ctx, doc)
	return doc, nil
}

func (s *documentService) Get(ctx context.Context, workspaceID, documentID int64) (*model.Document, error) {
	return getWorkspaceDocument(ctx, s.docStore, workspaceID, documentID)
}

func (s *documentService) Update(ctx context.Context, workspaceID, documentID int64, params UpdateDocumentParams) (*model.Document, error) {
	doc, err := s.Get(ctx, workspaceID, documentID)
	if err != nil {
		return nil, err
	}
	if err := applyDocumentUpdate(doc, params); err != nil {
		return nil, err
	}

	if err := s.docStore.Update(ctx, doc); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("updating document: %w", err)
	}

	s.Reindex(ctx, doc)
	return doc, nil
}

func (s *documentService) Archive(ctx context.Context, workspaceID, documentID int64) (*model.Document, error) {
	archived := model.DocumentStatusArchived
	return s.Update(ctx, workspaceID, documentID, UpdateDocumentParams{Status: &archived})
}

func (s *documentService) List(ctx context.Context, workspaceID int64, filter store.DocumentFilter) ([]model.Document, error) {
	if filter.Kind != nil && !filter.Kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	docs, err := s.docStore.List(ctx, workspaceID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	if s.index != nil {
		docs, err := s.searchIndex(ctx, workspaceID, query, limit)
		if err == nil {
			return docs, nil
		}
		slog.WarnContext(ctx, "typesense search failed, falling back to postgres",
			"error", err,
			"workspace_id", workspaceID,
		)
	}

	docs, err := s.docStore.Search(ctx, workspaceID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) searchIndex(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Document, error) {
	ids, err := s.index.Search(ctx, workspaceID, query, int(limit))
	if err != nil {
		return nil, err
	}

	docs := make([]model.Document, 0, len(ids))
	for _, docID := range ids {
		doc, err := s.docStore.GetByID(ctx, docID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Index is ahead of a rollback or behind a delete; skip the stale hit.
				continue
			}
			return nil, fmt.Errorf("loading search hit %d: %w", docID, err)
		}
		if doc.WorkspaceID != workspaceID || doc.Status == model.DocumentStatusArchived {
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

func (s *documentService) Reindex(ctx context.Context, doc *model.Document) {
	if s.index == nil || doc == nil {
		return
	}

	var err error
	if doc.Status == model.DocumentStatusArchived {
		err = s.index.Remove(ctx, doc.ID)
	} else {
		err = s.index.Upsert(ctx, doc)
	}
	if err != nil {
		slog.WarnContext(ctx, "failed to update search index",
			"error", err,
			"document_id", doc.ID,
		)
	}
}

func buildDocument(params CreateDocumentParams) (*model.Document, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	kind := params.Kind
	if kind == "" {
		kind = model.DocumentKindNote
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	status := params.Status
	if status == "" {
		status = model.DocumentStatusDraft
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	return &model.Document{
		ID:               id.New(),
		WorkspaceID:      params.WorkspaceID,
		Kind:             kind,
		Title:            title,
		Content:          params.Content,
		Status:           status,
		SourceIdeaID:     params.SourceIdeaID,
		CreatedByUserID:  params.CreatedByUserID,
		CreatedByAgentID: params.CreatedByAgentID,
	}, nil
}

func applyDocumentUpdate(doc *model.Document, params UpdateDocumentParams) error {
	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		doc.Title = title
	}
	if params.Content != nil {
		doc.Content = *params.Content
	}
	if params.Status != nil {
		if !params.Status.IsValid() {
			return ErrInvalidStatus
		}
		doc.Status = *params.Status
	}
	return nil
}

func getWorkspaceDocument(ctx context.Context, docStore store.DocumentStore, workspaceID, documentID int64) (*model.Document, error) {
	doc, err := docStore.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if doc.WorkspaceID != workspaceID {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}
