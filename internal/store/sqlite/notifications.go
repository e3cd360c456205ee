package sqlite

import (
	"context"
	"database/sql"

	"laborpay/internal/domain/notifications"
)

func (s *Store) CreateNotification(ctx context.Context, n notifications.Notification) error {
	_, err := s.db.ExecContext(ctx, `
    INSERT INTO notifications (id, profile_id, type, title, body, created_at)
    VALUES (?,?,?,?,?,?)
  `, n.ID, n.ProfileID, n.Type, n.Title, n.Body, utc(n.CreatedAt))
	return err
}

func (s *Store) CreateNotificationOnce(ctx context.Context, n notifications.Notification) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
    INSERT INTO notifications (id, profile_id, type, title, body, created_at, dedupe_key)
    VALUES (?,?,?,?,?,?,?)
    ON CONFLICT DO NOTHING
  `, n.ID, n.ProfileID, n.Type, n.Title, n.Body, utc(n.CreatedAt), nullString([]byte(n.DedupeKey)))
	if err != nil {
		return false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return inserted == 1, nil
}

func (s *Store) ListNotifications(ctx context.Context, profileID string, unreadOnly bool, limit, offset int) ([]notifications.Notification, error) {
	query := "SELECT id, profile_id, type, title, body, read_at, created_at FROM notifications WHERE profile_id = ?"
	if unreadOnly {
		query += " AND read_at IS NULL"
	}
	query += " ORDER BY created_at DESC, id LIMIT ? OFFSET ?"

	rows, err := s.db.QueryContext(ctx, query, profileID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []notifications.Notification{}
	for rows.Next() {
		var n notifications.Notification
		var readAt sql.NullTime
		if err := rows.Scan(&n.ID, &n.ProfileID, &n.Type, &n.Title, &n.Body, &readAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.ReadAt = timePtr(readAt)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, profileID string) (int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM notifications WHERE profile_id = ? AND read_at IS NULL", profileID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) MarkRead(ctx context.Context, profileID, notificationID string) error {
	res, err := s.db.ExecContext(ctx, `
    UPDATE notifications SET read_at = COALESCE(read_at, ?)
    WHERE id = ? AND profile_id = ?
  `, s.now().UTC(), notificationID, profileID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notifications.ErrNotFound
	}
	return nil
}
