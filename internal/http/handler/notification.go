package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"cerebrin.app/backend/common/logger"
	"cerebrin.app/backend/internal/http/dto"
	"cerebrin.app/backend/internal/queue"
	"cerebrin.app/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const (
	streamBlock     = 25 * time.Second
	streamBatchSize = 100
)

type NotificationHandler struct {
	notifications service.NotificationService
	tickets       service.StreamTicketService
	redis         *redis.Client
	streamPrefix  string
}

func NewNotificationHandler(
	notifications service.NotificationService,
	tickets service.StreamTicketService,
	redisClient *redis.Client,
	streamPrefix string,
) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		tickets:       tickets,
		redis:         redisClient,
		streamPrefix:  streamPrefix,
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user := currentUser(c)
	limit, offset := pagination(c)
	unreadOnly := c.Query("unread") == "true"

	items, err := h.notifications.List(c.Request.Context(), user.ID, unreadOnly, limit, offset)
	if err != nil {
		respondError(c, err, "failed to list notifications")
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponses(items))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	user := currentUser(c)

	n, err := h.notifications.UnreadCount(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := currentUser(c)
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), user.ID, id)
	if err != nil {
		respondError(c, err, "failed to mark notification read")
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponse(n))
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := currentUser(c)

	n, err := h.notifications.MarkAllRead(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "failed to mark notifications read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// IssueStreamTicket hands out the short-lived JWT an EventSource passes as
// ?ticket= when opening the stream.
func (h *NotificationHandler) IssueStreamTicket(c *gin.Context) {
	user := currentUser(c)

	ticket, expiresAt, err := h.tickets.Issue(user.ID)
	if err != nil {
		respondError(c, err, "failed to issue stream ticket")
		return
	}

	c.JSON(http.StatusOK, dto.StreamTicketResponse{Ticket: ticket, ExpiresAt: expiresAt})
}

// Stream tails the caller's notification stream as server-sent events.
// The caller is the session principal when one is set, otherwise the user
// named by the ?ticket= stream ticket.
func (h *NotificationHandler) Stream(c *gin.Context) {
	if h.redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "redis not configured"})
		return
	}

	userID, err := h.streamUser(c)
	if err != nil {
		respondError(c, err, "")
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{UserID: &userID})
	stream := queue.NotificationStreamName(h.streamPrefix, userID)

	lastID := c.GetHeader("Last-Event-ID")
	if lastID == "" {
		lastID = c.Query("last_id")
	}
	if lastID == "" {
		lastID = "$"
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	setSSEHeaders(c.Writer)
	c.Status(http.StatusOK)
	sseWrite(c.Writer, "", "ping", "ready")
	flusher.Flush()

	slog.DebugContext(ctx, "notification stream opened", "stream", stream, "last_id", lastID)

	for {
		if ctx.Err() != nil {
			return
		}

		res, err := h.redis.XRead(ctx, &redis.XReadArgs{
			Streams: []string{stream, lastID},
			Block:   streamBlock,
			Count:   streamBatchSize,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				sseWrite(c.Writer, "", "ping", time.Now().UTC().Format(time.RFC3339Nano))
				flusher.Flush()
				continue
			}
			if ctx.Err() != nil {
				return
			}
			slog.WarnContext(ctx, "notification stream read failed", "error", err)
			sseWrite(c.Writer, "", "error", map[string]string{"error": "stream read failed"})
			flusher.Flush()
			time.Sleep(time.Second)
			continue
		}

		for _, streamRes := range res {
			for _, msg := range streamRes.Messages {
				lastID = msg.ID
				payload, ok := msg.Values["payload"]
				if !ok {
					continue
				}
				sseWrite(c.Writer, msg.ID, "notification", payload)
			}
		}
		flusher.Flush()
	}
}

func (h *NotificationHandler) streamUser(c *gin.Context) (int64, error) {
	if user := currentUser(c); user != nil {
		return user.ID, nil
	}
	if ticket := c.Query("ticket"); ticket != "" {
		return h.tickets.Verify(ticket)
	}
	return 0, service.ErrInvalidStreamTicket
}

func setSSEHeaders(w http.ResponseWriter) {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
}

func sseWrite(w http.ResponseWriter, id, event string, data any) {
	if id != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", id)
	}
	if event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event)
	}
	for _, line := range strings.Split(marshalPayload(data), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
}

func marshalPayload(data any) string {
	switch payload := data.(type) {
	case string:
		return payload
	case []byte:
		return string(payload)
	default:
		bytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Sprintf("%v", data)
		}
		return string(bytes)
	}
}
