// Package search keeps workspace documents in a Typesense collection so the
// documents API can offer ranked full-text search.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"

	"cerebrin.app/backend/core/config"
	"cerebrin.app/backend/internal/model"
)

// Index is the subset of document search the services depend on.
type Index interface {
	EnsureCollection(ctx context.Context) error
	Upsert(ctx context.Context, doc *model.Document) error
	Remove(ctx context.Context, documentID int64) error
	// Search returns matching document ids ordered by relevance.
	Search(ctx context.Context, workspaceID int64, query string, limit int) ([]int64, error)
}

// Record is the indexed shape of a document.
type Record struct {
	ID          string `json:"id"`
	WorkspaceID int64  `json:"workspace_id"`
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	UpdatedAt   int64  `json:"updated_at"`
}

func NewRecord(doc *model.Document) Record {
	return Record{
		ID:          strconv.FormatInt(doc.ID, 10),
		WorkspaceID: doc.WorkspaceID,
		Kind:        string(doc.Kind),
		Status:      string(doc.Status),
		Title:       doc.Title,
		Content:     doc.Content,
		UpdatedAt:   doc.UpdatedAt.Unix(),
	}
}

type typesenseIndex struct {
	client     *typesense.Client
	collection string
}

func New(cfg config.SearchConfig) Index {
	client := typesense.NewClient(
		typesense.WithServer(cfg.TypesenseURL),
		typesense.WithAPIKey(cfg.TypesenseAPIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)
	return &typesenseIndex{client: client, collection: cfg.Collection}
}

func (i *typesenseIndex) EnsureCollection(ctx context.Context) error {
	_, err := i.client.Collection(i.collection).Retrieve(ctx)
	if err == nil {
		return nil
	}
	if !isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("retrieving collection %s: %w", i.collection, err)
	}

	schema := &api.CollectionSchema{
		Name: i.collection,
		Fields: []api.Field{
			{Name: "workspace_id", Type: "int64", Facet: pointer.True()},
			{Name: "kind", Type: "string", Facet: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "title", Type: "string"},
			{Name: "content", Type: "string"},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}
	if _, err := i.client.Collections().Create(ctx, schema); err != nil && !isStatus(err, http.StatusConflict) {
		return fmt.Errorf("creating collection %s: %w", i.collection, err)
	}

	slog.InfoContext(ctx, "typesense collection created", "collection", i.collection)
	return nil
}

func (i *typesenseIndex) Upsert(ctx context.Context, doc *model.Document) error {
	if _, err := i.client.Collection(i.collection).Documents().Upsert(ctx, NewRecord(doc), &api.DocumentIndexParameters{}); err != nil {
		return fmt.Errorf("upserting document %d: %w", doc.ID, err)
	}
	return nil
}

func (i *typesenseIndex) Remove(ctx context.Context, documentID int64) error {
	_, err := i.client.Collection(i.collection).Document(strconv.FormatInt(documentID, 10)).Delete(ctx)
	if err != nil && !isStatus(err, http.StatusNotFound) {
		return fmt.Errorf("removing document %d: %w", documentID, err)
	}
	return nil
}

func (i *typesenseIndex) Search(ctx context.Context, workspaceID int64, query string, limit int) ([]int64, error) {
	params := &api.SearchCollectionParams{
		Q:        pointer.String(query),
		QueryBy:  pointer.String("title,content"),
		FilterBy: pointer.String(FilterFor(workspaceID)),
		PerPage:  pointer.Int(limit),
	}

	res, err := i.client.Collection(i.collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	if res.Hits == nil {
		return []int64{}, nil
	}

	ids := make([]int64, 0, len(*res.Hits))
	for _, hit := range *res.Hits {
		if hit.Document == nil {
			continue
		}
		if id, ok := recordID(*hit.Document); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FilterFor scopes a search to a workspace's non-archived documents.
func FilterFor(workspaceID int64) string {
	return fmt.Sprintf("workspace_id:=%d && status:!=%s", workspaceID, model.DocumentStatusArchived)
}

func recordID(doc map[string]any) (int64, bool) {
	raw, ok := doc["id"].(string)
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isStatus(err error, status int) bool {
	var httpErr *typesense.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == status
}
