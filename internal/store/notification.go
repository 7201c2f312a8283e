package store

import (
	"context"

	"cerebrin.app/backend/core/db/sqlc"
	"cerebrin.app/backend/internal/model"
)

type notificationStore struct {
	queries *sqlc.Queries
}

func newNotificationStore(queries *sqlc.Queries) NotificationStore {
	return &notificationStore{queries: queries}
}

func (s *notificationStore) Create(ctx context.Context, n *model.Notification) error {
	row, err := s.queries.CreateNotification(ctx, sqlc.CreateNotificationParams{
		ID:          n.ID,
		UserID:      n.UserID,
		WorkspaceID: n.WorkspaceID,
		Kind:        string(n.Kind),
		Title:       n.Title,
		Body:        n.Body,
		Link:        n.Link,
	})
	if err != nil {
		return translate(err)
	}
	*n = *toNotificationModel(row)
	return nil
}

func (s *notificationStore) List(ctx context.Context, userID int64, unreadOnly bool, limit, offset int32) ([]model.Notification, error) {
	rows, err := s.queries.ListNotifications(ctx, sqlc.ListNotificationsParams{
		UserID:     userID,
		UnreadOnly: unreadOnly,
		Lim:        limit,
		Off:        offset,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Notification, len(rows))
	for i, row := range rows {
		result[i] = *toNotificationModel(row)
	}
	return result, nil
}

func (s *notificationStore) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.queries.CountUnreadNotifications(ctx, userID)
}

func (s *notificationStore) MarkRead(ctx context.Context, userID, id int64) (*model.Notification, error) {
	row, err := s.queries.MarkNotificationRead(ctx, sqlc.MarkNotificationReadParams{
		ID:     id,
		UserID: userID,
	})
	if err != nil {
		return nil, translate(err)
	}
	return toNotificationModel(row), nil
}

func (s *notificationStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.queries.MarkAllNotificationsRead(ctx, userID)
}

func toNotificationModel(row sqlc.Notification) *model.Notification {
	return &model.Notification{
		ID:          row.ID,
		UserID:      row.UserID,
		WorkspaceID: row.WorkspaceID,
		Kind:        model.NotificationKind(row.Kind),
		Title:       row.Title,
		Body:        row.Body,
		Link:        row.Link,
		ReadAt:      timePtr(row.ReadAt),
		CreatedAt:   row.CreatedAt.Time,
	}
}
