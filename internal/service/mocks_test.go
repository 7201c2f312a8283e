package service_test

import (
	"context"
	"encoding/json"
	"sync"

	"cerebrin.app/backend/common/llm"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/service"
	"cerebrin.app/backend/internal/store"
)

// fakeStores satisfies service.StoreProvider with per-store mocks. The
// same instance is handed to transactions by fakeTxRunner.
type fakeStores struct {
	workspaces    *mockWorkspaceStore
	members       *mockMemberStore
	invitations   *mockInvitationStore
	documents     *mockDocumentStore
	ideas         *mockIdeaStore
	agents        *mockAgentStore
	memory        *mockMemoryStore
	agentRequests *mockAgentRequestStore
	tickets       *mockTicketStore
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		workspaces:    &mockWorkspaceStore{},
		members:       &mockMemberStore{},
		invitations:   &mockInvitationStore{},
		documents:     &mockDocumentStore{},
		ideas:         &mockIdeaStore{},
		agents:        &mockAgentStore{},
		memory:        &mockMemoryStore{},
		agentRequests: &mockAgentRequestStore{},
		tickets:       &mockTicketStore{},
	}
}

func (f *fakeStores) Workspaces() store.WorkspaceStore { return f.workspaces }
func (f *fakeStores) Members() store.MemberStore { return f.members }
func (f *fakeStores) Invitations() store.InvitationStore { return f.invitations }
func (f *fakeStores) Documents() store.DocumentStore { return f.documents }
func (f *fakeStores) Ideas() store.IdeaStore { return f.ideas }
func (f *fakeStores) Agents() store.AgentStore { return f.agents }
func (f *fakeStores) Memory() store.MemoryStore { return f.memory }
func (f *fakeStores) AgentRequests() store.AgentRequestStore { return f.agentRequests }
func (f *fakeStores) Tickets() store.TicketStore { return f.tickets }

type fakeTxRunner struct {
	stores service.StoreProvider
	calls  int
}

func (r *fakeTxRunner) WithTx(_ context.Context, fn func(stores service.StoreProvider) error) error {
	r.calls++
	return fn(r.stores)
}

type mockProducer struct {
	mu        sync.Mutex
	tasks     []queue.Task
	enqueueFn func(ctx context.Context, task queue.Task) error
}

func (m *mockProducer) Enqueue(ctx context.Context, task queue.Task) error {
	m.mu.Lock()
	m.tasks = append(m.tasks, task)
	m.mu.Unlock()
	if m.enqueueFn != nil {
		return m.enqueueFn(ctx, task)
	}
	return nil
}

func (m *mockProducer) Close() error { return nil }

type mockPublisher struct {
	published []*model.Notification
	publishFn func(ctx context.Context, n *model.Notification) error
}

func (m *mockPublisher) Publish(ctx context.Context, n *model.Notification) error {
	m.published = append(m.published, n)
	if m.publishFn != nil {
		return m.publishFn(ctx, n)
	}
	return nil
}

// mockLLMClient decodes the next canned response into result.
type mockLLMClient struct {
	requests  []llm.Request
	responses []string
	errs      []error
}

func (m *mockLLMClient) Chat(_ context.Context, req llm.Request, result any) (*llm.Response, error) {
	call := len(m.requests)
	m.requests = append(m.requests, req)
	if call < len(m.errs) && m.errs[call] != nil {
		return nil, m.errs[call]
	}
	if call < len(m.responses) {
		if err := json.Unmarshal([]byte(m.responses[call]), result); err != nil {
			return nil, err
		}
	}
	return &llm.Response{}, nil
}

func (m *mockLLMClient) Model() string {
	return "mock"
}

type mockNotificationService struct {
	notified []service.NotifyParams
	fanout   map[int64]service.NotifyParams
}

func (m *mockNotificationService) Notify(_ context.Context, params service.NotifyParams) (*model.Notification, error) {
	m.notified = append(m.notified, params)
	return &model.Notification{UserID: params.UserID, Kind: params.Kind, Title: params.Title}, nil
}

func (m *mockNotificationService) NotifyMany(_ context.Context, userIDs []int64, params service.NotifyParams) {
	if m.fanout == nil {
		m.fanout = map[int64]service.NotifyParams{}
	}
	for _, id := range userIDs {
		m.fanout[id] = params
	}
}

func (m *mockNotificationService) List(context.Context, int64, bool, int32, int32) ([]model.Notification, error) {
	return nil, nil
}

func (m *mockNotificationService) UnreadCount(context.Context, int64) (int64, error) {
	return 0, nil
}

func (m *mockNotificationService) MarkRead(context.Context, int64, int64) (*model.Notification, error) {
	return nil, nil
}

func (m *mockNotificationService) MarkAllRead(context.Context, int64) (int64, error) {
	return 0, nil
}

type mockUserStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn       func(ctx context.Context, email string) (*model.User, error)
	upsertByWorkOSIDFn func(ctx context.Context, user *model.User) error
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserStore) UpsertByWorkOSID(ctx context.Context, user *model.User) error {
	if m.upsertByWorkOSIDFn != nil {
		return m.upsertByWorkOSIDFn(ctx, user)
	}
	return nil
}

type mockSessionStore struct {
	getByIDFn       func(ctx context.Context, id int64) (*model.Session, error)
	getValidFn      func(ctx context.Context, id int64) (*model.Session, error)
	createFn        func(ctx context.Context, session *model.Session) error
	deleteFn        func(ctx context.Context, id int64) error
	deleteExpiredFn func(ctx context.Context) (int64, error)
}

func (m *mockSessionStore) GetByID(ctx context.Context, id int64) (*model.Session, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionStore) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

type mockWorkspaceStore struct {
	getByIDFn    func(ctx context.Context, id int64) (*model.Workspace, error)
	slugExistsFn func(ctx context.Context, slug string) (bool, error)
	createFn     func(ctx context.Context, ws *model.Workspace) error
	updateFn     func(ctx context.Context, ws *model.Workspace) error
	deleteFn     func(ctx context.Context, id int64) error
	listByUserFn func(ctx context.Context, userID int64) ([]model.WorkspaceWithRole, error)
	listFn       func(ctx context.Context, limit, offset int32) ([]model.Workspace, error)
	countFn      func(ctx context.Context) (int64, error)
}

func (m *mockWorkspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkspaceStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug)
	}
	return false, nil
}

func (m *mockWorkspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	if m.createFn != nil {
		return m.createFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ws)
	}
	return nil
}

func (m *mockWorkspaceStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockWorkspaceStore) ListByUser(ctx context.Context, userID int64) ([]model.WorkspaceWithRole, error) {
	if m.listByUserFn != nil {
		return m.listByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockWorkspaceStore) List(ctx context.Context, limit, offset int32) ([]model.Workspace, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockWorkspaceStore) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockMemberStore struct {
	addFn                func(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error)
	getFn                func(ctx context.Context, workspaceID, userID int64) (*model.WorkspaceMember, error)
	listFn               func(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error)
	listUserIDsByRolesFn func(ctx context.Context, workspaceID int64, roles ...model.WorkspaceRole) ([]int64, error)
	updateRoleFn         func(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error)
	removeFn             func(ctx context.Context, workspaceID, userID int64) error
	countOwnersFn        func(ctx context.Context, workspaceID int64) (int64, error)
}

func (m *mockMemberStore) Add(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error) {
	if m.addFn != nil {
		return m.addFn(ctx, workspaceID, userID, role)
	}
	return nil, nil
}

func (m *mockMemberStore) Get(ctx context.Context, workspaceID, userID int64) (*model.WorkspaceMember, error) {
	if m.getFn != nil {
		return m.getFn(ctx, workspaceID, userID)
	}
	return nil, nil
}

func (m *mockMemberStore) List(ctx context.Context, workspaceID int64) ([]model.WorkspaceMember, error) {
	if m.listFn != nil {
		return m.listFn(ctx, workspaceID)
	}
	return nil, nil
}

func (m *mockMemberStore) ListUserIDsByRoles(ctx context.Context, workspaceID int64, roles ...model.WorkspaceRole) ([]int64, error) {
	if m.listUserIDsByRolesFn != nil {
		return m.listUserIDsByRolesFn(ctx, workspaceID, roles...)
	}
	return nil, nil
}

func (m *mockMemberStore) UpdateRole(ctx context.Context, workspaceID, userID int64, role model.WorkspaceRole) (*model.WorkspaceMember, error) {
	if m.updateRoleFn != nil {
		return m.updateRoleFn(ctx, workspaceID, userID, role)
	}
	return nil, nil
}

func (m *mockMemberStore) Remove(ctx context.Context, workspaceID, userID int64) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, workspaceID, userID)
	}
	return nil
}

func (m *mockMemberStore) CountOwners(ctx context.Context, workspaceID int64) (int64, error) {
	if m.countOwnersFn != nil {
		return m.countOwnersFn(ctx, workspaceID)
	}
	return 0, nil
}

type mockInvitationStore struct {
	createFn            func(ctx context.Context, inv *model.Invitation) error
	getByIDFn           func(ctx context.Context, id int64) (*model.Invitation, error)
	getByTokenFn        func(ctx context.Context, token string) (*model.Invitation, error)
	getValidByTokenFn   func(ctx context.Context, token string) (*model.Invitation, error)
	getPendingByEmailFn func(ctx context.Context, workspaceID int64, email string) (*model.Invitation, error)
	acceptFn            func(ctx context.Context, id int64, userID int64) (*model.Invitation, error)
	revokeFn            func(ctx context.Context, workspaceID, id int64) (*model.Invitation, error)
	listByWorkspaceFn   func(ctx context.Context, workspaceID int64, limit, offset int32) ([]model.Invitation, error)
	expireOldFn         func(ctx context.Context) (int64, error)
}

func (m *mockInvitationStore) Create(ctx context.Context, inv *model.Invitation) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}

func (m *mockInvitationStore) GetByID(ctx context.Context, id int64) (*model.Invitation, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockInvitationStore) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockInvitationStore) GetValidByToken(ctx context.Context, token string) (*model.Invitation, error) {
	if m.getValidByTokenFn != nil {
		return m.getValidByTokenFn(ctx, token)
	}
	return nil, nil
}

func (m *mockInvitationStore) GetPendingByEmail(ctx context.Context, workspaceID int64, email string) (*model.Invitation, error) {
	if m.getPendingByEmailFn != nil {
		return m.getPendingByEmailFn(ctx, workspaceID, email)
	}
	return nil, nil
}

func (m *mockInvitationStore) Accept(ctx context.Context, id int64, userID int64) (*model.Invitation, error) {
	if m.acceptFn != nil {
		return m.acceptFn(ctx, id, userID)
	}
	return nil, nil
}

func (m *mockInvitationStore) Revoke(ctx context.Context, workspaceID, id int64) (*model.Invitation, error) {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, workspaceID, id)
	}
	return nil, nil
}

func (m *mockInvitationStore) ListByWorkspace(ctx context.Context, workspaceID int64, limit, offset int32) ([]model.Invitation, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID, limit, offset)
	}
	return nil, nil
}

func (m *mockInvitationStore) ExpireOld(ctx context.Context) (int64, error) {
	if m.expireOldFn != nil {
		return m.expireOldFn(ctx)
	}
	return 0, nil
}

type mockDocumentStore struct {
	createFn           func(ctx context.Context, doc *model.Document) error
	getByIDFn          func(ctx context.Context, id int64) (*model.Document, error)
	updateFn           func(ctx context.Context, doc *model.Document) error
	listFn             func(ctx context.Context, workspaceID int64, filter store.DocumentFilter) ([]model.Document, error)
	searchFn           func(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Document, error)
	listRecentActiveFn func(ctx context.Context, workspaceID int64, limit int32) ([]model.Document, error)
}

func (m *mockDocumentStore) Create(ctx context.Context, doc *model.Document) error {
	if m.createFn != nil {
		return m.createFn(ctx, doc)
	}
	return nil
}

func (m *mockDocumentStore) GetByID(ctx context.Context, id int64) (*model.Document, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDocumentStore) Update(ctx context.Context, doc *model.Document) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, doc)
	}
	return nil
}

func (m *mockDocumentStore) List(ctx context.Context, workspaceID int64, filter store.DocumentFilter) ([]model.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, workspaceID, filter)
	}
	return nil, nil
}

func (m *mockDocumentStore) Search(ctx context.Context, workspaceID int64, query string, limit int32) ([]model.Document, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, workspaceID, query, limit)
	}
	return nil, nil
}

func (m *mockDocumentStore) ListRecentActive(ctx context.Context, workspaceID int64, limit int32) ([]model.Document, error) {
	if m.listRecentActiveFn != nil {
		return m.listRecentActiveFn(ctx, workspaceID, limit)
	}
	return nil, nil
}

type mockIdeaStore struct {
	createFn              func(ctx context.Context, idea *model.Idea) error
	getByIDFn             func(ctx context.Context, id int64) (*model.Idea, error)
	updateContentFn       func(ctx context.Context, id int64, title, description string) (*model.Idea, error)
	deleteFn              func(ctx context.Context, id int64) error
	listFn                func(ctx context.Context, workspaceID int64, stage *model.IdeaStage) ([]model.Idea, error)
	moveFn                func(ctx context.Context, id int64, expected, stage model.IdeaStage, position int32) (*model.Idea, error)
	markPromotedFn        func(ctx context.Context, id int64) (*model.Idea, error)
	setPromotedDocumentFn func(ctx context.Context, id, documentID int64) (*model.Idea, error)
	setResonanceFn        func(ctx context.Context, id int64, result store.ResonanceResult) (*model.Idea, error)
	nextPositionFn        func(ctx context.Context, workspaceID int64, stage model.IdeaStage) (int32, error)
}

func (m *mockIdeaStore) Create(ctx context.Context, idea *model.Idea) error {
	if m.createFn != nil {
		return m.createFn(ctx, idea)
	}
	return nil
}

func (m *mockIdeaStore) GetByID(ctx context.Context, id int64) (*model.Idea, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockIdeaStore) UpdateContent(ctx context.Context, id int64, title, description string) (*model.Idea, error) {
	if m.updateContentFn != nil {
		return m.updateContentFn(ctx, id, title, description)
	}
	return nil, nil
}

func (m *mockIdeaStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockIdeaStore) List(ctx context.Context, workspaceID int64, stage *model.IdeaStage) ([]model.Idea, error) {
	if m.listFn != nil {
		return m.listFn(ctx, workspaceID, stage)
	}
	return nil, nil
}

func (m *mockIdeaStore) Move(ctx context.Context, id int64, expected, stage model.IdeaStage, position int32) (*model.Idea, error) {
	if m.moveFn != nil {
		return m.moveFn(ctx, id, expected, stage, position)
	}
	return nil, nil
}

func (m *mockIdeaStore) MarkPromoted(ctx context.Context, id int64) (*model.Idea, error) {
	if m.markPromotedFn != nil {
		return m.markPromotedFn(ctx, id)
	}
	return nil, nil
}

func (m *mockIdeaStore) SetPromotedDocument(ctx context.Context, id, documentID int64) (*model.Idea, error) {
	if m.setPromotedDocumentFn != nil {
		return m.setPromotedDocumentFn(ctx, id, documentID)
	}
	return nil, nil
}

func (m *mockIdeaStore) SetResonance(ctx context.Context, id int64, result store.ResonanceResult) (*model.Idea, error) {
	if m.setResonanceFn != nil {
		return m.setResonanceFn(ctx, id, result)
	}
	return nil, nil
}

func (m *mockIdeaStore) NextPosition(ctx context.Context, workspaceID int64, stage model.IdeaStage) (int32, error) {
	if m.nextPositionFn != nil {
		return m.nextPositionFn(ctx, workspaceID, stage)
	}
	return 0, nil
}

type mockAgentStore struct {
	createFn            func(ctx context.Context, agent *model.Agent) error
	getByIDFn           func(ctx context.Context, id int64) (*model.Agent, error)
	getBySlugFn         func(ctx context.Context, workspaceID int64, slug string) (*model.Agent, error)
	slugExistsFn        func(ctx context.Context, workspaceID int64, slug string) (bool, error)
	updateFn            func(ctx context.Context, agent *model.Agent) error
	updatePermissionsFn func(ctx context.Context, id int64, permissions json.RawMessage) (*model.Agent, error)
	deleteFn            func(ctx context.Context, id int64) error
	listByWorkspaceFn   func(ctx context.Context, workspaceID int64) ([]model.Agent, error)
	countFn             func(ctx context.Context) (int64, error)
}

func (m *mockAgentStore) Create(ctx context.Context, agent *model.Agent) error {
	if m.createFn != nil {
		return m.createFn(ctx, agent)
	}
	return nil
}

func (m *mockAgentStore) GetByID(ctx context.Context, id int64) (*model.Agent, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAgentStore) GetBySlug(ctx context.Context, workspaceID int64, slug string) (*model.Agent, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, workspaceID, slug)
	}
	return nil, nil
}

func (m *mockAgentStore) SlugExists(ctx context.Context, workspaceID int64, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, workspaceID, slug)
	}
	return false, nil
}

func (m *mockAgentStore) Update(ctx context.Context, agent *model.Agent) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, agent)
	}
	return nil
}

func (m *mockAgentStore) UpdatePermissions(ctx context.Context, id int64, permissions json.RawMessage) (*model.Agent, error) {
	if m.updatePermissionsFn != nil {
		return m.updatePermissionsFn(ctx, id, permissions)
	}
	return nil, nil
}

func (m *mockAgentStore) Delete(ctx context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockAgentStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Agent, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID)
	}
	return nil, nil
}

func (m *mockAgentStore) Count(ctx context.Context) (int64, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockMemoryStore struct {
	createFn        func(ctx context.Context, entry *model.MemoryEntry) error
	listFn          func(ctx context.Context, agentID int64, kind *model.MemoryKind, limit, offset int32) ([]model.MemoryEntry, error)
	countByKindFn   func(ctx context.Context, agentID int64, kind model.MemoryKind) (int64, error)
	deleteFn        func(ctx context.Context, agentID, id int64) error
	clearFn         func(ctx context.Context, agentID int64) (int64, error)
	pruneMessagesFn func(ctx context.Context, agentID int64, keep int32) (int64, error)
}

func (m *mockMemoryStore) Create(ctx context.Context, entry *model.MemoryEntry) error {
	if m.createFn != nil {
		return m.createFn(ctx, entry)
	}
	return nil
}

func (m *mockMemoryStore) List(ctx context.Context, agentID int64, kind *model.MemoryKind, limit, offset int32) ([]model.MemoryEntry, error) {
	if m.listFn != nil {
		return m.listFn(ctx, agentID, kind, limit, offset)
	}
	return nil, nil
}

func (m *mockMemoryStore) CountByKind(ctx context.Context, agentID int64, kind model.MemoryKind) (int64, error) {
	if m.countByKindFn != nil {
		return m.countByKindFn(ctx, agentID, kind)
	}
	return 0, nil
}

func (m *mockMemoryStore) Delete(ctx context.Context, agentID, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, agentID, id)
	}
	return nil
}

func (m *mockMemoryStore) Clear(ctx context.Context, agentID int64) (int64, error) {
	if m.clearFn != nil {
		return m.clearFn(ctx, agentID)
	}
	return 0, nil
}

func (m *mockMemoryStore) PruneMessages(ctx context.Context, agentID int64, keep int32) (int64, error) {
	if m.pruneMessagesFn != nil {
		return m.pruneMessagesFn(ctx, agentID, keep)
	}
	return 0, nil
}

type mockAgentRequestStore struct {
	createFn       func(ctx context.Context, req *model.AgentRequest) error
	getByIDFn      func(ctx context.Context, id int64) (*model.AgentRequest, error)
	listFn         func(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error)
	listPendingFn  func(ctx context.Context, limit, offset int32) ([]model.AgentRequest, error)
	decideFn       func(ctx context.Context, id int64, status model.RequestStatus, decidedBy *int64, note *string) (*model.AgentRequest, error)
	markAppliedFn  func(ctx context.Context, id int64, result json.RawMessage) (*model.AgentRequest, error)
	markFailedFn   func(ctx context.Context, id int64, errMsg string) (*model.AgentRequest, error)
	expireStaleFn  func(ctx context.Context) (int64, error)
	countPendingFn func(ctx context.Context) (int64, error)
}

func (m *mockAgentRequestStore) Create(ctx context.Context, req *model.AgentRequest) error {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil
}

func (m *mockAgentRequestStore) GetByID(ctx context.Context, id int64) (*model.AgentRequest, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockAgentRequestStore) List(ctx context.Context, workspaceID int64, status *model.RequestStatus, limit, offset int32) ([]model.AgentRequest, error) {
	if m.listFn != nil {
		return m.listFn(ctx, workspaceID, status, limit, offset)
	}
	return nil, nil
}

func (m *mockAgentRequestStore) ListPending(ctx context.Context, limit, offset int32) ([]model.AgentRequest, error) {
	if m.listPendingFn != nil {
		return m.listPendingFn(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockAgentRequestStore) Decide(ctx context.Context, id int64, status model.RequestStatus, decidedBy *int64, note *string) (*model.AgentRequest, error) {
	if m.decideFn != nil {
		return m.decideFn(ctx, id, status, decidedBy, note)
	}
	return nil, nil
}

func (m *mockAgentRequestStore) MarkApplied(ctx context.Context, id int64, result json.RawMessage) (*model.AgentRequest, error) {
	if m.markAppliedFn != nil {
		return m.markAppliedFn(ctx, id, result)
	}
	return nil, nil
}

func (m *mockAgentRequestStore) MarkFailed(ctx context.Context, id int64, errMsg string) (*model.AgentRequest, error) {
	if m.markFailedFn != nil {
		return m.markFailedFn(ctx, id, errMsg)
	}
	return nil, nil
}

func (m *mockAgentRequestStore) ExpireStale(ctx context.Context) (int64, error) {
	if m.expireStaleFn != nil {
		return m.expireStaleFn(ctx)
	}
	return 0, nil
}

func (m *mockAgentRequestStore) CountPending(ctx context.Context) (int64, error) {
	if m.countPendingFn != nil {
		return m.countPendingFn(ctx)
	}
	return 0, nil
}

type mockTicketStore struct {
	createFn     func(ctx context.Context, ticket *model.Ticket) error
	getByIDFn    func(ctx context.Context, id int64) (*model.Ticket, error)
	updateFn     func(ctx context.Context, ticket *model.Ticket) error
	transitionFn func(ctx context.Context, id int64, from, to model.TicketStatus) (*model.Ticket, error)
	assignFn     func(ctx context.Context, id int64, assignee *int64) (*model.Ticket, error)
	listFn       func(ctx context.Context, filter store.TicketFilter) ([]model.Ticket, error)
	countOpenFn  func(ctx context.Context) (int64, error)
}

func (m *mockTicketStore) Create(ctx context.Context, ticket *model.Ticket) error {
	if m.createFn != nil {
		return m.createFn(ctx, ticket)
	}
	return nil
}

func (m *mockTicketStore) GetByID(ctx context.Context, id int64) (*model.Ticket, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockTicketStore) Update(ctx context.Context, ticket *model.Ticket) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, ticket)
	}
	return nil
}

func (m *mockTicketStore) Transition(ctx context.Context, id int64, from, to model.TicketStatus) (*model.Ticket, error) {
	if m.transitionFn != nil {
		return m.transitionFn(ctx, id, from, to)
	}
	return nil, nil
}

func (m *mockTicketStore) Assign(ctx context.Context, id int64, assignee *int64) (*model.Ticket, error) {
	if m.assignFn != nil {
		return m.assignFn(ctx, id, assignee)
	}
	return nil, nil
}

func (m *mockTicketStore) List(ctx context.Context, filter store.TicketFilter) ([]model.Ticket, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockTicketStore) CountOpen(ctx context.Context) (int64, error) {
	if m.countOpenFn != nil {
		return m.countOpenFn(ctx)
	}
	return 0, nil
}

type mockNotificationStore struct {
	createFn      func(ctx context.Context, n *model.Notification) error
	listFn        func(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error)
	countUnreadFn func(ctx context.Context, userID int64) (int64, error)
	markReadFn    func(ctx context.Context, userID, id int64) (*model.Notification, error)
	markAllReadFn func(ctx context.Context, userID int64) (int64, error)
}

func (m *mockNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	if m.createFn != nil {
		return m.createFn(ctx, n)
	}
	return nil
}

func (m *mockNotificationStore) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, unreadOnly, limit, offset)
	}
	return nil, nil
}

func (m *mockNotificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	if m.countUnreadFn != nil {
		return m.countUnreadFn(ctx, userID)
	}
	return 0, nil
}

func (m *mockNotificationStore) MarkRead(ctx context.Context, userID, id int64) (*model.Notification, error) {
	if m.markReadFn != nil {
		return m.markReadFn(ctx, userID, id)
	}
	return nil, nil
}

func (m *mockNotificationStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	if m.markAllReadFn != nil {
		return m.markAllReadFn(ctx, userID)
	}
	return 0, nil
}

type mockAccessTokenStore struct {
	createFn          func(ctx context.Context, token *model.AccessToken) error
	getByHashFn       func(ctx context.Context, hash string) (*model.AccessToken, error)
	listByWorkspaceFn func(ctx context.Context, workspaceID int64) ([]model.AccessToken, error)
	revokeFn          func(ctx context.Context, workspaceID, id int64) (*model.AccessToken, error)
	touchFn           func(ctx context.Context, id int64) error
}

func (m *mockAccessTokenStore) Create(ctx context.Context, token *model.AccessToken) error {
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	return nil
}

func (m *mockAccessTokenStore) GetByHash(ctx context.Context, hash string) (*model.AccessToken, error) {
	if m.getByHashFn != nil {
		return m.getByHashFn(ctx, hash)
	}
	return nil, nil
}

func (m *mockAccessTokenStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.AccessToken, error) {
	if m.listByWorkspaceFn != nil {
		return m.listByWorkspaceFn(ctx, workspaceID)
	}
	return nil, nil
}

func (m *mockAccessTokenStore) Revoke(ctx context.Context, workspaceID, id int64) (*model.AccessToken, error) {
	if m.revokeFn != nil {
		return m.revokeFn(ctx, workspaceID, id)
	}
	return nil, nil
}

func (m *mockAccessTokenStore) Touch(ctx context.Context, id int64) error {
	if m.touchFn != nil {
		return m.touchFn(ctx, id)
	}
	return nil
}
