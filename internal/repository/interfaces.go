package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ca27people/backend/internal/model"
)

type UserRepository interface {
	// Create inserts a new user. Duplicate email maps to model.ErrEmailExists.
	Create(ctx context.Context, tx *sqlx.Tx, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context, olderThan time.Duration) (int64, error)
	DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type ProfileRepository interface {
	Create(ctx context.Context, tx *sqlx.Tx, profile *model.Profile) error
	GetByUserID(ctx context.Context, userID int64) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
	// GetSummariesByUserIDs is the batched secondary lookup behind every
	// author/participant join: one call regardless of collection size.
	GetSummariesByUserIDs(ctx context.Context, userIDs []int64) ([]model.ProfileSummary, error)
	Update(ctx context.Context, profile *model.Profile) error
	UpdatePhoto(ctx context.Context, userID int64, photoURL, photoKey string) error
	DeleteByUserID(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type ProfileCommentRepository interface {
	Create(ctx context.Context, comment *model.ProfileComment) (*model.ProfileComment, error)
	GetByProfileUserID(ctx context.Context, profileUserID int64) ([]model.ProfileComment, error)
	GetByID(ctx context.Context, commentID int64) (*model.ProfileComment, error)
	Delete(ctx context.Context, commentID int64) error
	DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
	// Like maps a duplicate pair to model.ErrAlreadyLiked.
	Like(ctx context.Context, commentID, userID int64) error
	Unlike(ctx context.Context, commentID, userID int64) error
	CountLikes(ctx context.Context, commentIDs []int64) (map[int64]int, error)
	CheckLikes(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
	DeleteLikesByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, postID int64) (*model.Post, error)
	List(ctx context.Context, postType *string) ([]model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, postID int64) error
	Count(ctx context.Context) (int, error)
	// DetachUser nulls user_id on the member's posts so official/legacy
	// content survives member deletion.
	DetachUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
	// Like maps a duplicate pair to model.ErrAlreadyLiked.
	Like(ctx context.Context, postID, userID int64) error
	Unlike(ctx context.Context, postID, userID int64) error
	CountLikes(ctx context.Context, postIDs []int64) (map[int64]int, error)
	CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
	DeleteLikesByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type PostCommentRepository interface {
	Create(ctx context.Context, comment *model.PostComment) (*model.PostComment, error)
	GetByPostID(ctx context.Context, postID int64) ([]model.PostComment, error)
	GetByID(ctx context.Context, commentID int64) (*model.PostComment, error)
	Delete(ctx context.Context, commentID int64) error
	DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
	CountByPostIDs(ctx context.Context, postIDs []int64) (map[int64]int, error)
}

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, eventID int64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Delete(ctx context.Context, eventID int64) error
	Count(ctx context.Context) (int, error)
	// Join maps a duplicate pair to model.ErrAlreadyJoined.
	Join(ctx context.Context, eventID, userID int64) error
	Leave(ctx context.Context, eventID, userID int64) error
	GetParticipants(ctx context.Context, eventID int64) ([]model.Participant, error)
	CountParticipants(ctx context.Context, eventIDs []int64) (map[int64]int, error)
	CheckJoined(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error)
	DeleteParticipationsByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]model.Notification, error)
	MarkAsRead(ctx context.Context, userID int64, notificationIDs []int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	GetUnreadCount(ctx context.Context, userID int64) (int, error)
	DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error
}
