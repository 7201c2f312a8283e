package service

import (
	"github.com/redis/go-redis/v9"

	"cerebrin.app/backend/common/llm"
	"cerebrin.app/backend/core/config"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/search"
	"cerebrin.app/backend/internal/store"
)

// ServicesConfig carries the shared dependencies. Redis, Producer, LLM and
// Search are optional; services degrade when they are nil.
type ServicesConfig struct {
	Stores   *store.Stores
	TxRunner TxRunner
	Config   config.Config
	Redis    *redis.Client
	Producer queue.Producer
	LLM      llm.Client
	Search   search.Index
}

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	cfg      config.Config
	producer queue.Producer
	llm      llm.Client
	search   search.Index

	publisher NotificationPublisher
}

func NewServices(cfg ServicesConfig) *Services {
	s := &Services{
		stores:   cfg.Stores,
		txRunner: cfg.TxRunner,
		cfg:      cfg.Config,
		producer: cfg.Producer,
		llm:      cfg.LLM,
		search:   cfg.Search,
	}
	if cfg.Redis != nil {
		s.publisher = NewRedisPublisher(cfg.Redis, cfg.Config.Pipeline.NotificationPrefix)
	}
	return s
}

func (s *Services) Auth() AuthService {
	return NewAuthService(
		s.stores.Users(),
		s.stores.Sessions(),
		s.cfg.WorkOS,
		s.cfg.Auth.SessionTTL,
	)
}

func (s *Services) Users() UserService {
	return NewUserService(s.stores.Users(), s.stores.Workspaces())
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(s.txRunner, s.stores.Workspaces(), s.stores.Members())
}

func (s *Services) Invitations() InvitationService {
	return NewInvitationService(s.txRunner, s.stores.Invitations(), s.Notifications(), s.cfg.DashboardURL)
}

func (s *Services) Documents() DocumentService {
	return NewDocumentService(s.stores.Documents(), s.search)
}

func (s *Services) Ideas() IdeaService {
	return NewIdeaService(s.txRunner, s.stores.Ideas(), s.producer, s.Documents())
}

func (s *Services) Resonance() ResonanceService {
	return NewResonanceService(
		s.stores.Ideas(),
		s.stores.Workspaces(),
		s.stores.Documents(),
		s.llm,
		s.Notifications(),
	)
}

func (s *Services) Agents() AgentService {
	return NewAgentService(s.txRunner, s.stores.Agents(), s.cfg.LLM.Model)
}

func (s *Services) Architect() ArchitectService {
	return NewArchitectService(
		s.txRunner,
		s.stores,
		s.Notifications(),
		s.Documents(),
		s.producer,
		s.cfg.HITL.ApprovalTTL,
	)
}

func (s *Services) Chat() ChatService {
	return NewChatService(
		s.stores.Workspaces(),
		s.stores.Documents(),
		s.stores.Memory(),
		s.Architect(),
		s.producer,
		s.llm,
		s.cfg.LLM.MirrorThreshold,
	)
}

func (s *Services) Memory() MemoryService {
	return NewMemoryService(s.stores.Memory(), s.producer)
}

func (s *Services) Mirror() MirrorService {
	return NewMirrorService(s.txRunner, s.stores.Agents(), s.stores.Memory(), s.llm)
}

func (s *Services) Tickets() TicketService {
	return NewTicketService(s.stores.Tickets(), s.stores.Members(), s.Notifications())
}

func (s *Services) Notifications() NotificationService {
	return NewNotificationService(s.stores.Notifications(), s.publisher)
}

func (s *Services) StreamTickets() StreamTicketService {
	return NewStreamTicketService(s.cfg.Auth.StreamTicketSecret, s.cfg.Auth.StreamTicketTTL)
}

func (s *Services) AccessTokens() AccessTokenService {
	return NewAccessTokenService(s.stores.AccessTokens())
}

func (s *Services) Admin() AdminService {
	return NewAdminService(s.stores)
}
