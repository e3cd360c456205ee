package postgres

import (
	"context"
	"encoding/json"

	"laborpay/internal/domain/audit"
)

func (s *Store) InsertAuditEvent(ctx context.Context, evt audit.Event) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (id, actor_id, action, entity_type, entity_id, request_id, before_json, after_json, created_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
  `, evt.ID, evt.ActorID, evt.Action, evt.EntityType, evt.EntityID, evt.RequestID, rawOrNil(evt.Before), rawOrNil(evt.After), evt.CreatedAt)
	return err
}

func (s *Store) ListAuditEvents(ctx context.Context, entityType, entityID string) ([]audit.Event, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, actor_id, action, entity_type, entity_id, request_id, before_json, after_json, created_at
    FROM audit_events
    WHERE entity_type = $1 AND entity_id = $2
    ORDER BY created_at, id
  `, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []audit.Event{}
	for rows.Next() {
		var evt audit.Event
		var before, after []byte
		if err := rows.Scan(&evt.ID, &evt.ActorID, &evt.Action, &evt.EntityType, &evt.EntityID, &evt.RequestID, &before, &after, &evt.CreatedAt); err != nil {
			return nil, err
		}
		evt.Before, evt.After = before, after
		out = append(out, evt)
	}
	return out, rows.Err()
}

func rawOrNil(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
