package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	store StoreAPI
	now   func() time.Time
}

func New(store StoreAPI) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context, profileID, ntype, title, body string) error {
	if strings.TrimSpace(profileID) == "" {
		return nil
	}
	return s.store.CreateNotification(ctx, Notification{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Type:      ntype,
		Title:     title,
		Body:      body,
		CreatedAt: s.now().UTC(),
	})
}

// CreateOnce stores the notification only the first time key is seen for the
// profile. A false result with a nil error means it was already sent.
func (s *Service) CreateOnce(ctx context.Context, profileID, ntype, key, title, body string) (bool, error) {
	if strings.TrimSpace(profileID) == "" {
		return false, nil
	}
	if key == "" {
		return false, ErrMissingKey
	}
	return s.store.CreateNotificationOnce(ctx, Notification{
		ID:        uuid.NewString(),
		ProfileID: profileID,
		Type:      ntype,
		Title:     title,
		Body:      body,
		CreatedAt: s.now().UTC(),
		DedupeKey: key,
	})
}

func (s *Service) List(ctx context.Context, profileID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListNotifications(ctx, profileID, unreadOnly, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, profileID string) (int, error) {
	return s.store.CountUnread(ctx, profileID)
}

func (s *Service) MarkRead(ctx context.Context, profileID, notificationID string) error {
	return s.store.MarkRead(ctx, profileID, notificationID)
}
