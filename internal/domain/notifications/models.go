package notifications

import (
	"errors"
	"time"
)

var (
	ErrNotFound   = errors.New("notification not found")
	ErrMissingKey = errors.New("dedupe key is required")
)

type Notification struct {
	ID        string     `json:"id"`
	ProfileID string     `json:"profileId"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	// DedupeKey is unique per profile when set.
	DedupeKey string `json:"-"`
}

func (n Notification) Read() bool {
	return n.ReadAt != nil
}
