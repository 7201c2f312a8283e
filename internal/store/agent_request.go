package store

import (
	"context"
	"encoding/json"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type agentRequestStore struct {
	queries *sqlc.Queries
}

func newAgentRequestStore(queries *sqlc.Queries) AgentRequestStore {
	return &agentRequestStore{queries: queries}
}

func (s *agentRequestStore) Create(ctx context.Context, req *model.AgentRequest) error {
	row, err := s.queries.CreateAgentRequest(ctx, sqlc.CreateAgentRequestParams{
		ID:          req.ID,
		WorkspaceID: req.WorkspaceID,
		AgentID:     req.AgentID,
		Action:      string(req.Action),
		Payload:     req.Payload,
		Rationale:   req.Rationale,
		Status:      string(req.Status),
		Decision:    string(req.Decision),
		RequestedBy: req.RequestedBy,
		Result:      req.Result,
		ExpiresAt:   timestamptz(req.ExpiresAt),
		DecidedAt:   timestamptz(req.DecidedAt),
	})
	if err != nil {
		return translate(err)
	}
	*req = *toAgentRequestModel(row)
	return nil
}

func (s *agentRequestStore) GetByID(ctx context.Context, id int64) (*model.AgentRequest, error) {
	row, err := s.queries.GetAgentRequest(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return toAgentRequestModel(row), nil
}

func (s *agentRequestStore) List(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error) {
	rows, err := s.queries.ListAgentRequests(ctx, sqlc.ListAgentRequestsParams{
		WorkspaceID: workspaceID,
		Status:      strPtr(status),
		Lim:         limit,
		Off:         offset,
	})
	if err != nil {
		return nil, err
	}
	return toAgentRequestModels(rows), nil
}

func (s *agentRequestStore) ListPending(ctx context.Context, limit, offset int32) ([]model.AgentRequest, error) {
	rows, err := s.queries.ListPendingAgentRequests(ctx, sqlc.ListPendingAgentRequestsParams{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return toAgentRequestModels(rows), nil
}

func (s *agentRequestStore) Decide(ctx context.Context, id int64, status model.RequestStatus, decidedBy *int64, note *string) (*model.AgentRequest, error) {
	row, err := s.queries.DecideAgentRequest(ctx, sqlc.DecideAgentRequestParams{
		Status:       string(status),
		DecidedBy:    decidedBy,
		DecisionNote: note,
		ID:           id,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toAgentRequestModel(row), nil
}

func (s *agentRequestStore) MarkApplied(ctx context.Context, id int64, result json.RawMessage) (*model.AgentRequest, error) {
	row, err := s.queries.MarkAgentRequestApplied(ctx, sqlc.MarkAgentRequestAppliedParams{
		ID:     id,
		Result: result,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toAgentRequestModel(row), nil
}

func (s *agentRequestStore) MarkFailed(ctx context.Context, id int64, errMsg string) (*model.AgentRequest, error) {
	row, err := s.queries.MarkAgentRequestFailed(ctx, sqlc.MarkAgentRequestFailedParams{
		ID:    id,
		Error: &errMsg,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toAgentRequestModel(row), nil
}

func (s *agentRequestStore) ExpireStale(ctx context.Context) (int64, error) {
	return s.queries.ExpireStaleAgentRequests(ctx)
}

func (s *agentRequestStore) CountPending(ctx context.Context) (int64, error) {
	return s.queries.CountPendingAgentRequests(ctx)
}

func toAgentRequestModel(row sqlc.AgentRequest) *model.AgentRequest {
	return &model.AgentRequest{
		ID:           row.ID,
		WorkspaceID:  row.WorkspaceID,
		AgentID:      row.AgentID,
		Action:       model.ActionKind(row.Action),
		Payload:      row.Payload,
		Rationale:    row.Rationale,
		Status:       model.RequestStatus(row.Status),
		Decision:     model.Decision(row.Decision),
		RequestedBy:  row.RequestedBy,
		DecidedBy:    row.DecidedBy,
		DecisionNote: row.DecisionNote,
		Result:       row.Result,
		Error:        row.Error,
		ExpiresAt:    timePtr(row.ExpiresAt),
		DecidedAt:    timePtr(row.DecidedAt),
		CreatedAt:    row.CreatedAt.Time,
	}
}

func toAgentRequestModels(rows []sqlc.AgentRequest) []model.AgentRequest {
	result := make([]model.AgentRequest, len(rows))
	for i, row := range rows {
		result[i] = *toAgentRequestModel(row)
	}
	return result
}
