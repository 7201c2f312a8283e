package service

import (
	"context"

	"cerebrin.app/backend/core/db"
	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/store"
)

// StoreProvider exposes only the stores needed by a transactional operation.
type StoreProvider interface {
	Workspaces() store.WorkspaceStore
	Members() store.MemberStore
	Invitations() store.InvitationStore
	Documents() store.DocumentStore
	Ideas() store.IdeaStore
	Agents() store.AgentStore
	Memory() store.MemoryStore
	AgentRequests() store.AgentRequestStore
	Tickets() store.TicketStore
}

// TxRunner runs functions within a transaction and provides stores bound to that transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(stores StoreProvider) error) error
}

type dbTxRunner struct {
	db *db.DB
}

// NewTxRunner builds a TxRunner backed by the core DB.
func NewTxRunner(db *db.DB) TxRunner {
	return &dbTxRunner{db: db}
}

func (r *dbTxRunner) WithTx(ctx context.Context, fn func(stores StoreProvider) error) error {
	return r.db.WithTx(ctx, func(q *sqlc.Queries) error {
		stores := store.NewStores(q)
		return fn(stores)
	})
}
