package notifications

import "context"

type StoreAPI interface {
	CreateNotification(ctx context.Context, n Notification) error
	// CreateNotificationOnce inserts n unless the profile already holds a
	// notification with the same DedupeKey, and reports whether it did.
	CreateNotificationOnce(ctx context.Context, n Notification) (bool, error)
	ListNotifications(ctx context.Context, profileID string, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, profileID string) (int, error)
	// MarkRead returns ErrNotFound when the notification does not belong to
	// the profile.
	MarkRead(ctx context.Context, profileID, notificationID string) error
}
