package postgres

import (
	"context"

	"laborpay/internal/domain/notifications"
)

func (s *Store) CreateNotification(ctx context.Context, n notifications.Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (id, profile_id, type, title, body, created_at)
    VALUES ($1,$2,$3,$4,$5,$6)
  `, n.ID, n.ProfileID, n.Type, n.Title, n.Body, n.CreatedAt)
	return err
}

func (s *Store) CreateNotificationOnce(ctx context.Context, n notifications.Notification) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (id, profile_id, type, title, body, created_at, dedupe_key)
    VALUES ($1,$2,$3,$4,$5,$6,NULLIF($7, ''))
    ON CONFLICT DO NOTHING
  `, n.ID, n.ProfileID, n.Type, n.Title, n.Body, n.CreatedAt, n.DedupeKey)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListNotifications(ctx context.Context, profileID string, unreadOnly bool, limit, offset int) ([]notifications.Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, profile_id, type, title, body, read_at, created_at
    FROM notifications
    WHERE profile_id = $1 AND ($2 = false OR read_at IS NULL)
    ORDER BY created_at DESC, id
    LIMIT $3 OFFSET $4
  `, profileID, unreadOnly, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []notifications.Notification{}
	for rows.Next() {
		var n notifications.Notification
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.Type, &n.Title, &n.Body, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, profileID string) (int, error) {
	var total int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM notifications WHERE profile_id = $1 AND read_at IS NULL", profileID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, profileID, notificationID string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = COALESCE(read_at, now())
    WHERE id = $1 AND profile_id = $2
  `, notificationID, profileID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotFound
	}
	return nil
}
