package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/ca27people/backend/internal/join"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/repository"
)

// AdminStats is the dashboard summary.
type AdminStats struct {
	MemberCount int `json:"member_count"`
	PostCount   int `json:"post_count"`
	EventCount  int `json:"event_count"`
}

// AdminMember is a directory row on the admin screen: credential record
// plus the profile summary.
type AdminMember struct {
	model.User
	Profile *model.ProfileSummary `json:"profile"`
}

// AdminService backs the admin dashboard. Every method assumes the caller
// already passed the admin middleware.
type AdminService struct {
	db               *sqlx.DB
	userRepo         repository.UserRepository
	profileRepo      repository.ProfileRepository
	profileComments  repository.ProfileCommentRepository
	postRepo         repository.PostRepository
	postComments     repository.PostCommentRepository
	eventRepo        repository.EventRepository
	notificationRepo repository.NotificationRepository
	refreshTokenRepo repository.RefreshTokenRepository
}

func NewAdminService(
	db *sqlx.DB,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	profileComments repository.ProfileCommentRepository,
	postRepo repository.PostRepository,
	postComments repository.PostCommentRepository,
	eventRepo repository.EventRepository,
	notificationRepo repository.NotificationRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
) *AdminService {
	return &AdminService{
		db:               db,
		userRepo:         userRepo,
		profileRepo:      profileRepo,
		profileComments:  profileComments,
		postRepo:         postRepo,
		postComments:     postComments,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		refreshTokenRepo: refreshTokenRepo,
	}
}

// Stats returns the dashboard counters.
func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	members, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	posts, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		MemberCount: members,
		PostCount:   posts,
		EventCount:  events,
	}, nil
}

// ListMembers returns every account with its profile summary attached.
func (s *AdminService) ListMembers(ctx context.Context) ([]AdminMember, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	members := make([]AdminMember, len(users))
	for i, u := range users {
		members[i] = AdminMember{User: u}
	}

	userIDs := join.Keys(members, func(m AdminMember) (int64, bool) {
		return m.ID, true
	})

	summaries, err := s.profileRepo.GetSummariesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	join.Attach(members, summaries,
		func(m AdminMember) (int64, bool) { return m.ID, true },
		func(p model.ProfileSummary) int64 { return p.UserID },
		func(m *AdminMember, p *model.ProfileSummary) { m.Profile = p },
	)

	return members, nil
}

// DeleteMember removes an account and everything it owns in one
// transaction: profile, participations, likes, comments and notifications
// go; the member's posts survive with authorship detached. Either the whole
// cascade commits or none of it does.
func (s *AdminService) DeleteMember(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return fmt.Errorf("admins cannot delete their own account")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin member deletion: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.DeleteParticipationsByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.postRepo.DeleteLikesByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.postComments.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.profileComments.DeleteLikesByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.profileComments.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.notificationRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.postRepo.DetachUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.profileRepo.DeleteByUserID(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.refreshTokenRepo.DeleteByUser(ctx, tx, userID); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, tx, userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit member deletion: %w", err)
	}

	log.Printf("[AdminService] Member deleted: user=%d by admin=%d", userID, actorID)
	return nil
}
