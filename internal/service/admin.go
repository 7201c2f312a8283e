package service

import (
	"context"
	"fmt"
)

type Overview struct {
	Workspaces      int64 `json:"workspaces"`
	Agents          int64 `json:"agents"`
	PendingRequests int64 `json:"pending_requests"`
	OpenTickets     int64 `json:"open_tickets"`
}

// AdminService backs the operator console. Callers are authenticated by
// the admin API key, never by workspace membership.
type AdminService interface {
	Overview(ctx context.Context) (*Overview, error)
}

type adminService struct {
	stores StoreProvider
}

func NewAdminService(stores StoreProvider) AdminService {
	return &adminService{stores: stores}
}

func (s *adminService) Overview(ctx context.Context) (*Overview, error) {
	workspaces, err := s.stores.Workspaces().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting workspaces: %w", err)
	}
	agents, err := s.stores.Agents().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting agents: %w", err)
	}
	pending, err := s.stores.AgentRequests().CountPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting pending requests: %w", err)
	}
	open, err := s.stores.Tickets().CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting open tickets: %w", err)
	}

	return &Overview{
		Workspaces:      workspaces,
		Agents:          agents,
		PendingRequests: pending,
		OpenTickets:     open,
	}, nil
}
