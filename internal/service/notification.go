package service

import (
	"context"
	"log"

	"github.com/ca27people/backend/internal/cache"
	"github.com/ca27people/backend/internal/join"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/repository"
)

// DefaultNotificationLimit caps the list endpoint; the panel shows recent
// activity, not an archive.
const DefaultNotificationLimit = 50

// NotificationService reads the notification panel and maintains read
// state. Writes come from the engagement workers, not from here.
type NotificationService struct {
	repo        repository.NotificationRepository
	profileRepo repository.ProfileRepository
	unreadCache cache.UnreadCache
}

func NewNotificationService(
	repo repository.NotificationRepository,
	profileRepo repository.ProfileRepository,
	unreadCache cache.UnreadCache,
) *NotificationService {
	return &NotificationService{
		repo:        repo,
		profileRepo: profileRepo,
		unreadCache: unreadCache,
	}
}

// List returns the member's notifications with actor summaries attached,
// plus the unread count for the badge.
func (s *NotificationService) List(ctx context.Context, userID int64) (*model.NotificationListResponse, error) {
	notifications, err := s.repo.GetByUserID(ctx, userID, DefaultNotificationLimit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}

	actorIDs := join.Keys(notifications, func(n model.Notification) (int64, bool) {
		if n.RelatedUserID == nil {
			return 0, false
		}
		return *n.RelatedUserID, true
	})

	if len(actorIDs) > 0 {
		summaries, err := s.profileRepo.GetSummariesByUserIDs(ctx, actorIDs)
		if err != nil {
			return nil, err
		}
		join.Attach(notifications, summaries,
			func(n model.Notification) (int64, bool) {
				if n.RelatedUserID == nil {
					return 0, false
				}
				return *n.RelatedUserID, true
			},
			func(p model.ProfileSummary) int64 { return p.UserID },
			func(n *model.Notification, p *model.ProfileSummary) { n.RelatedUser = p },
		)
	}

	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

// UnreadCount returns the badge count, read through the cache. A cache
// failure falls back to the database; the badge must not take the page down.
func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	if s.unreadCache != nil {
		count, found, err := s.unreadCache.Get(ctx, userID)
		if err != nil {
			log.Printf("[NotificationService] Unread cache read failed: user=%d err=%v", userID, err)
		} else if found {
			return count, nil
		}
	}

	count, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.unreadCache != nil {
		if err := s.unreadCache.Set(ctx, userID, count); err != nil {
			log.Printf("[NotificationService] Unread cache write failed: user=%d err=%v", userID, err)
		}
	}

	return count, nil
}

// MarkRead flips the given notifications to read and drops the cached badge.
func (s *NotificationService) MarkRead(ctx context.Context, userID int64, notificationIDs []int64) error {
	if err := s.repo.MarkAsRead(ctx, userID, notificationIDs); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// MarkAllRead flips everything to read and drops the cached badge.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

func (s *NotificationService) invalidateUnread(ctx context.Context, userID int64) {
	if s.unreadCache == nil {
		return
	}
	if err := s.unreadCache.Invalidate(ctx, userID); err != nil {
		log.Printf("[NotificationService] Unread cache invalidation failed: user=%d err=%v", userID, err)
	}
}
