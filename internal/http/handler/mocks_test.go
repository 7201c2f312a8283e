package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"cerebrin.app/backend/internal/http/middleware"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
)

// withPrincipal stands in for RequireAuth.
func withPrincipal(p *middleware.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			middleware.SetPrincipal(c, p)
		}
		c.Next()
	}
}

func sessionPrincipal(userID int64) *middleware.Principal {
	return &middleware.Principal{User: &model.User{ID: userID, Email: "user@example.com"}, SessionID: 1}
}

func tokenPrincipal(userID, workspaceID int64, scopes ...model.TokenScope) *middleware.Principal {
	return &middleware.Principal{
		User:  &model.User{ID: userID, Email: "user@example.com"},
		Token: &model.AccessToken{ID: 9, WorkspaceID: workspaceID, UserID: userID, Scopes: scopes},
	}
}

func doJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]any {
	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// mockWorkspaceService grants roles from a member table keyed by user id.
type mockWorkspaceService struct {
	service.WorkspaceService
	roles map[int64]model.WorkspaceRole
}

func (m *mockWorkspaceService) RequireMember(_ context.Context, workspaceID, userID int64, minRole model.WorkspaceRole) (*model.WorkspaceMember, error) {
	role, ok := m.roles[userID]
	if !ok {
		return nil, service.ErrWorkspaceNotFound
	}
	if !role.AtLeast(minRole) {
		return nil, service.ErrForbidden
	}
	return &model.WorkspaceMember{WorkspaceID: workspaceID, UserID: userID, Role: role}, nil
}

type mockIdeaService struct {
	service.IdeaService
	createFn       func(ctx context.Context, params service.CreateIdeaParams) (*model.Idea, error)
	moveFn         func(ctx context.Context, workspaceID, ideaID int64, params service.MoveIdeaParams) (*model.Idea, error)
	requestScoreFn func(ctx context.Context, workspaceID, ideaID int64) error
}

func (m *mockIdeaService) Create(ctx context.Context, params service.CreateIdeaParams) (*model.Idea, error) {
	return m.createFn(ctx, params)
}

func (m *mockIdeaService) Move(ctx context.Context, workspaceID, ideaID int64, params service.MoveIdeaParams) (*model.Idea, error) {
	return m.moveFn(ctx, workspaceID, ideaID, params)
}

func (m *mockIdeaService) RequestScore(ctx context.Context, workspaceID, ideaID int64) error {
	return m.requestScoreFn(ctx, workspaceID, ideaID)
}

type mockAgentService struct {
	service.AgentService
	agents map[string]*model.Agent
}

func (m *mockAgentService) Resolve(_ context.Context, _ int64, ref string) (*model.Agent, error) {
	if a, ok := m.agents[ref]; ok {
		return a, nil
	}
	return nil, service.ErrAgentNotFound
}

type mockChatService struct {
	chatFn func(ctx context.Context, params service.ChatParams) (*service.ChatResult, error)
}

func (m *mockChatService) Chat(ctx context.Context, params service.ChatParams) (*service.ChatResult, error) {
	return m.chatFn(ctx, params)
}

type mockMemoryService struct {
	service.MemoryService
	mirrorRequested bool
}

func (m *mockMemoryService) RequestMirror(_ context.Context, _ *model.Agent) error {
	m.mirrorRequested = true
	return nil
}

type mockArchitectService struct {
	service.ArchitectService
	approveFn func(ctx context.Context, workspaceID, requestID, deciderID int64, note *string) (*model.AgentRequest, error)
	proposeFn func(ctx context.Context, proposal service.Proposal) (*service.Outcome, error)
	listFn    func(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error)
}

func (m *mockArchitectService) Approve(ctx context.Context, workspaceID, requestID, deciderID int64, note *string) (*model.AgentRequest, error) {
	return m.approveFn(ctx, workspaceID, requestID, deciderID, note)
}

func (m *mockArchitectService) Propose(ctx context.Context, proposal service.Proposal) (*service.Outcome, error) {
	return m.proposeFn(ctx, proposal)
}

func (m *mockArchitectService) List(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error) {
	return m.listFn(ctx, workspaceID, status, limit, offset)
}

type mockTicketService struct {
	service.TicketService
	updateFn     func(ctx context.Context, workspaceID, ticketID int64, params service.UpdateTicketParams) (*model.Ticket, error)
	transitionFn func(ctx context.Context, workspaceID *int64, ticketID int64, to model.TicketStatus, actorID *int64) (*model.Ticket, error)
	listFn       func(ctx context.Context, filter store.TicketFilter) ([]model.Ticket, error)
}

func (m *mockTicketService) Update(ctx context.Context, workspaceID, ticketID int64, params service.UpdateTicketParams) (*model.Ticket, error) {
	return m.updateFn(ctx, workspaceID, ticketID, params)
}

func (m *mockTicketService) Transition(ctx context.Context, workspaceID *int64, ticketID int64, to model.TicketStatus, actorID *int64) (*model.Ticket, error) {
	return m.transitionFn(ctx, workspaceID, ticketID, to, actorID)
}

func (m *mockTicketService) List(ctx context.Context, filter store.TicketFilter) ([]model.Ticket, error) {
	return m.listFn(ctx, filter)
}

type mockNotificationService struct {
	service.NotificationService
	listFn func(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error)
}

func (m *mockNotificationService) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error) {
	return m.listFn(ctx, userID, unreadOnly, limit, offset)
}

type mockStreamTickets struct {
	userID int64
}

func (m *mockStreamTickets) Issue(userID int64) (string, time.Time, error) {
	return "ticket-for-user", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func (m *mockStreamTickets) Verify(ticket string) (int64, error) {
	if ticket != "ticket-for-user" {
		return 0, service.ErrInvalidStreamTicket
	}
	return m.userID, nil
}


// callerFromPath sets a session principal for the user id in :caller.
func callerFromPath(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("caller"), 10, 64)
	if err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}
	middleware.SetPrincipal(c, sessionPrincipal(id))
	c.Next()
}

// redisForTests points at an address nothing listens on. Handlers under test
// must fail before issuing a command.
func redisForTests() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}
