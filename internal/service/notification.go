package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"

	"cerebrin.app/backend/common/id"
	"cerebrin.app/backend/internal/model"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/store"
)

// NotificationStreamMaxLen bounds each per-user stream; trimming is approximate.
const NotificationStreamMaxLen = 1000

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidStreamTicket  = errors.New("invalid stream ticket")
)

type NotifyParams struct {
	UserID      int64
	WorkspaceID *int64
	Kind        model.NotificationKind
	Title       string
	Body        string
	Link        *string
}

type NotificationService interface {
	Notify(ctx context.Context, params NotifyParams) (*model.Notification, error)
	// NotifyMany fans out one notification per user. Failures are logged, not returned.
	NotifyMany(ctx context.Context, userIDs []int64, params NotifyParams)
	List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// NotificationPublisher pushes a stored notification to the live relay.
type NotificationPublisher interface {
	Publish(ctx context.Context, n *model.Notification) error
}

type notificationService struct {
	notifStore store.NotificationStore
	publisher  NotificationPublisher
}

func NewNotificationService(notifStore store.NotificationStore, publisher NotificationPublisher) NotificationService {
	return &notificationService{
		notifStore: notifStore,
		publisher:  publisher,
	}
}

func (s *notificationService) Notify(ctx context.Context, params NotifyParams) (*model.Notification, error) {
	n := &model.Notification{
		ID:          id.New(),
		UserID:      params.UserID,
		WorkspaceID: params.WorkspaceID,
		Kind:        params.Kind,
		Title:       params.Title,
		Body:        params.Body,
		Link:        params.Link,
	}

	if err := s.notifStore.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("creating notification: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, n); err != nil {
			slog.WarnContext(ctx, "failed to publish notification",
				"error", err,
				"notification_id", n.ID,
				"user_id", n.UserID,
			)
		}
	}

	return n, nil
}

func (s *notificationService) NotifyMany(ctx context.Context, userIDs []int64, params NotifyParams) {
	seen := make(map[int64]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, dup := seen[userID]; dup {
			continue
		}
		seen[userID] = struct{}{}

		p := params
		p.UserID = userID
		if _, err := s.Notify(ctx, p); err != nil {
			slog.ErrorContext(ctx, "failed to notify user",
				"error", err,
				"user_id", userID,
				"kind", params.Kind,
			)
		}
	}
}

func (s *notificationService) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error) {
	list, err := s.notifStore.List(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return list, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	n, err := s.notifStore.CountUnread(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("counting unread notifications: %w", err)
	}
	return n, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int64) (*model.Notification, error) {
	n, err := s.notifStore.MarkRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("marking notification read: %w", err)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.notifStore.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	return n, nil
}

type redisPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisPublisher appends notifications to notifications:user-<id> style streams.
func NewRedisPublisher(client *redis.Client, prefix string) NotificationPublisher {
	return &redisPublisher{client: client, prefix: prefix}
}

func (p *redisPublisher) Publish(ctx context.Context, n *model.Notification) error {
	payload, err := json.Marshal(NotificationEvent(n))
	if err != nil {
		return fmt.Errorf("marshaling notification: %w", err)
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: queue.NotificationStreamName(p.prefix, n.UserID),
		MaxLen: NotificationStreamMaxLen,
		Approx: true,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
}

// NotificationEvent is the JSON body relayed over SSE. Ids are strings so
// browsers do not lose snowflake precision.
func NotificationEvent(n *model.Notification) map[string]any {
	event := map[string]any{
		"id":         strconv.FormatInt(n.ID, 10),
		"kind":       n.Kind,
		"title":      n.Title,
		"body":       n.Body,
		"created_at": n.CreatedAt,
	}
	if n.WorkspaceID != nil {
		event["workspace_id"] = strconv.FormatInt(*n.WorkspaceID, 10)
	}
	if n.Link != nil {
		event["link"] = *n.Link
	}
	return event
}

// StreamTicketService issues short-lived tokens that let EventSource
// clients, which cannot set headers, open the notification stream.
type StreamTicketService interface {
	Issue(userID int64) (string, time.Time, error)
	Verify(ticket string) (int64, error)
}

type streamTicketService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

const streamTicketIssuer = "cerebrin"

func NewStreamTicketService(secret string, ttl time.Duration) StreamTicketService {
	return &streamTicketService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *streamTicketService) Issue(userID int64) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    streamTicketIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing stream ticket: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *streamTicketService) Verify(ticket string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(ticket, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(streamTicketIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, ErrInvalidStreamTicket
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidStreamTicket
	}
	return userID, nil
}
