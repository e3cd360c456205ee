package sqlite

import (
	"context"
	"database/sql"

	"laborpay/internal/domain/audit"
)

func (s *Store) InsertAuditEvent(ctx context.Context, evt audit.Event) error {
	_, err := s.db.ExecContext(ctx, `
    INSERT INTO audit_events (id, actor_id, action, entity_type, entity_id, request_id, before_json, after_json, created_at)
    VALUES (?,?,?,?,?,?,?,?,?)
  `, evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, nullString(evt.Before), nullString(evt.After), utc(evt.CreatedAt))
	return err
}

func (s *Store) ListAuditEvents(ctx context.Context, entityType, entityID string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
    SELECT id, actor_id, action, entity_type, entity_id, request_id, before_json, after_json, created_at
    FROM audit_events
    WHERE entity_type = ? AND entity_id = ?
    ORDER BY created_at, id
  `, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []audit.Event{}
	for rows.Next() {
		var evt audit.Event
		var before, after sql.NullString
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &before, &after, &evt.CreatedAt); err != nil {
			return nil, err
		}
		evt.Before, evt.After = bytesOf(before), bytesOf(after)
		out = append(out, evt)
	}
	return out, rows.Err()
}
