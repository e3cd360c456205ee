package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"laborpay/internal/requestctx"
)

type Event struct {
	ID         string          `json:"id"`
	ActorID    string          `json:"actorId"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	RequestID  string          `json:"requestId"`
	CreatedAt  time.Time       `json:"createdAt"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
}

type StoreAPI interface {
	InsertAuditEvent(ctx context.Context, evt Event) error
	ListAuditEvents(ctx context.Context, entityType, entityID string) ([]Event, error)
}

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Record(ctx context.Context, actorID, action, entityType, entityID string, before, after any) error {
	evt := Event{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		RequestID:  requestctx.GetRequestID(ctx),
		CreatedAt:  s.now().UTC(),
	}
	if before != nil {
		payload, err := json.Marshal(before)
		if err != nil {
			return err
		}
		evt.Before = payload
	}
	if after != nil {
		payload, err := json.Marshal(after)
		if err != nil {
			return err
		}
		evt.After = payload
	}
	return s.store.InsertAuditEvent(ctx, evt)
}

// History returns the events for one entity, oldest first.
func (s *Service) History(ctx context.Context, entityType, entityID string) ([]Event, error) {
	return s.store.ListAuditEvents(ctx, entityType, entityID)
}
