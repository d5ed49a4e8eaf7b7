package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ca27people/backend/internal/cache"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/queue"
)

// NotificationStore is the slice of the notification repository the worker
// needs. Workers write rows; reads stay in the service layer.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Handler turns engagement events into notification rows for content owners
// and drops the owner's cached unread count so the badge updates.
type Handler struct {
	notifications NotificationStore
	unreadCache   cache.UnreadCache
}

// NewHandler creates a new event handler.
func NewHandler(notifications NotificationStore, unreadCache cache.UnreadCache) *Handler {
	return &Handler{
		notifications: notifications,
		unreadCache:   unreadCache,
	}
}

// HandleEvent routes an event to the appropriate handler based on type.
func (h *Handler) HandleEvent(ctx context.Context, event queue.EngagementEvent) error {
	startTime := time.Now()

	// Self-engagement never notifies. The services also skip publishing in
	// this case, but the guard here keeps the invariant local.
	if event.ActorID == event.OwnerID {
		return nil
	}

	var err error
	switch event.Type {
	case queue.EventPostLiked:
		err = h.handlePostLiked(ctx, event)
	case queue.EventPostCommented:
		err = h.handlePostCommented(ctx, event)
	case queue.EventProfileCommented:
		err = h.handleProfileCommented(ctx, event)
	case queue.EventProfileCommentLike:
		err = h.handleProfileCommentLiked(ctx, event)
	default:
		log.Printf("[Worker] Unknown event type: %s", event.Type)
		return fmt.Errorf("unknown event type: %s", event.Type)
	}

	if err != nil {
		log.Printf("[Worker] HandleEvent FAILED: type=%s duration=%v err=%v",
			event.Type, time.Since(startTime), err)
		return err
	}

	log.Printf("[Worker] HandleEvent OK: type=%s duration=%v", event.Type, time.Since(startTime))
	return nil
}

// handlePostLiked notifies the post author that someone liked their post.
func (h *Handler) handlePostLiked(ctx context.Context, event queue.EngagementEvent) error {
	message := fmt.Sprintf("あなたの投稿「%s」にいいねがつきました", event.PostTitle)
	link := fmt.Sprintf("/posts/%d", derefID(event.PostID))

	return h.createNotification(ctx, &model.Notification{
		UserID:        event.OwnerID,
		Type:          model.NotificationTypeLike,
		Title:         "いいねされました",
		Message:       &message,
		Link:          &link,
		RelatedUserID: &event.ActorID,
		RelatedPostID: event.PostID,
	})
}

// handlePostCommented notifies the post author that someone commented.
func (h *Handler) handlePostCommented(ctx context.Context, event queue.EngagementEvent) error {
	message := fmt.Sprintf("あなたの投稿「%s」にコメントがつきました", event.PostTitle)
	link := fmt.Sprintf("/posts/%d", derefID(event.PostID))

	return h.createNotification(ctx, &model.Notification{
		UserID:        event.OwnerID,
		Type:          model.NotificationTypeComment,
		Title:         "コメントがつきました",
		Message:       &message,
		Link:          &link,
		RelatedUserID: &event.ActorID,
		RelatedPostID: event.PostID,
	})
}

// handleProfileCommented notifies a member that someone wrote on their page.
func (h *Handler) handleProfileCommented(ctx context.Context, event queue.EngagementEvent) error {
	message := "あなたのページにコメントがつきました"
	link := fmt.Sprintf("/profile/%d", derefID(event.ProfileUserID))

	return h.createNotification(ctx, &model.Notification{
		UserID:        event.OwnerID,
		Type:          model.NotificationTypeComment,
		Title:         "コメントがつきました",
		Message:       &message,
		Link:          &link,
		RelatedUserID: &event.ActorID,
	})
}

// handleProfileCommentLiked notifies a comment author that their comment
// was liked. The link points at the page the comment lives on.
func (h *Handler) handleProfileCommentLiked(ctx context.Context, event queue.EngagementEvent) error {
	message := "あなたのコメントにいいねがつきました"
	link := fmt.Sprintf("/profile/%d", derefID(event.ProfileUserID))

	return h.createNotification(ctx, &model.Notification{
		UserID:        event.OwnerID,
		Type:          model.NotificationTypeLike,
		Title:         "いいねされました",
		Message:       &message,
		Link:          &link,
		RelatedUserID: &event.ActorID,
	})
}

// createNotification inserts the row and invalidates the recipient's badge
// count. A failed invalidation is logged but not fatal; the TTL bounds the
// staleness.
func (h *Handler) createNotification(ctx context.Context, n *model.Notification) error {
	if err := h.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if err := h.unreadCache.Invalidate(ctx, n.UserID); err != nil {
		log.Printf("[Worker] Unread invalidation failed: user=%d err=%v", n.UserID, err)
	}

	return nil
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
