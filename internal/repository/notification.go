package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ca27people/backend/internal/model"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a notification row. Called by the engagement workers, not
// by request handlers.
func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, title, message, link, is_read, related_user_id, related_post_id, related_event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		n.UserID, n.Type, n.Title, n.Message, n.Link,
		n.RelatedUserID, n.RelatedPostID, n.RelatedEventID,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// GetByUserID returns the recipient's notifications, newest first.
func (r *notificationRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, link, is_read,
		       related_user_id, related_post_id, related_event_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	var notifications []model.Notification
	err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	return notifications, nil
}

// MarkAsRead flips is_read on the given notifications. The user_id filter
// keeps members from touching other members' rows.
func (r *notificationRepository) MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}

	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND id = ANY($2)`
	_, err := r.db.ExecContext(ctx, query, userID, pq.Array(notificationIDs))
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return nil
}

// MarkAllAsRead flips is_read on everything the recipient has.
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// GetUnreadCount counts the recipient's unread notifications. The cache in
// front of this keeps the badge poll off the database.
func (r *notificationRepository) GetUnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// DeleteByUser removes the member's notifications inside the deletion
// transaction, both as recipient and as related actor.
func (r *notificationRepository) DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM notifications WHERE user_id = $1 OR related_user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete notifications by user: %w", err)
	}
	return nil
}
