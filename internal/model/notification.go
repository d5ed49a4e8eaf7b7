package model

import (
	"errors"
	"time"
)

// Notification types
const (
	NotificationTypeLike          = "like"
	NotificationTypeComment       = "comment"
	NotificationTypeEventReminder = "event_reminder"
	NotificationTypeSystem        = "system"
)

// Notification is a fan-out record addressed to a content owner, created as
// a side effect of likes and comments on their posts or profile.
type Notification struct {
	ID             int64     `db:"id" json:"id"`
	UserID         int64     `db:"user_id" json:"-"` // Recipient
	Type           string    `db:"type" json:"type"`
	Title          string    `db:"title" json:"title"`
	Message        *string   `db:"message" json:"message"`
	Link           *string   `db:"link" json:"link"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	RelatedUserID  *int64    `db:"related_user_id" json:"related_user_id,omitempty"`
	RelatedPostID  *int64    `db:"related_post_id" json:"related_post_id,omitempty"`
	RelatedEventID *int64    `db:"related_event_id" json:"related_event_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`

	// Joined field for display
	RelatedUser *ProfileSummary `json:"related_user,omitempty"`
}

// NotificationListResponse is the notification list plus the badge count.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}

// MarkReadRequest is the request body for marking notifications as read.
type MarkReadRequest struct {
	NotificationIDs []int64 `json:"notification_ids"`
}

var ErrNotificationNotFound = errors.New("notification not found")
