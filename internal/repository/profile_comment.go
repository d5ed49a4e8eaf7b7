package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ca27people/backend/internal/model"
)

type profileCommentRepository struct {
	db *sqlx.DB
}

func NewProfileCommentRepository(db *sqlx.DB) ProfileCommentRepository {
	return &profileCommentRepository{db: db}
}

// Create inserts a comment on a member's profile page.
func (r *profileCommentRepository) Create(ctx context.Context, c *model.ProfileComment) (*model.ProfileComment, error) {
	query := `
		INSERT INTO profile_comments (profile_user_id, author_user_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, profile_user_id, author_user_id, content, created_at
	`
	var comment model.ProfileComment
	err := r.db.GetContext(ctx, &comment, query, c.ProfileUserID, c.AuthorUserID, c.Content)
	if err != nil {
		return nil, fmt.Errorf("insert profile comment: %w", err)
	}
	return &comment, nil
}

// GetByProfileUserID returns the comments on a member's page, oldest first.
// Authors and like state are attached by the service from batched lookups.
func (r *profileCommentRepository) GetByProfileUserID(ctx context.Context, profileUserID int64) ([]model.ProfileComment, error) {
	query := `
		SELECT id, profile_user_id, author_user_id, content, created_at
		FROM profile_comments
		WHERE profile_user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	var comments []model.ProfileComment
	err := r.db.SelectContext(ctx, &comments, query, profileUserID)
	if err != nil {
		return nil, fmt.Errorf("get profile comments: %w", err)
	}
	return comments, nil
}

// GetByID retrieves a single profile comment.
func (r *profileCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.ProfileComment, error) {
	query := `
		SELECT id, profile_user_id, author_user_id, content, created_at
		FROM profile_comments
		WHERE id = $1
	`
	var comment model.ProfileComment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile comment: %w", err)
	}
	return &comment, nil
}

// Delete removes a profile comment. Its likes cascade in the database.
func (r *profileCommentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM profile_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete profile comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrProfileCommentNotFound
	}
	return nil
}

// DeleteByUser removes every comment the member wrote and every comment on
// their page, inside the deletion transaction.
func (r *profileCommentRepository) DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx,
		`DELETE FROM profile_comments WHERE author_user_id = $1 OR profile_user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile comments by user: %w", err)
	}
	return nil
}

// Like inserts a like on a profile comment. The (comment_id, user_id) pair
// is unique; a duplicate surfaces as model.ErrAlreadyLiked.
func (r *profileCommentRepository) Like(ctx context.Context, commentID, userID int64) error {
	query := `INSERT INTO profile_comment_likes (comment_id, user_id, created_at) VALUES ($1, $2, NOW())`
	_, err := r.db.ExecContext(ctx, query, commentID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert profile comment like: %w", err)
	}
	return nil
}

// Unlike deletes a like. Returns ErrNotLiked if there was none.
func (r *profileCommentRepository) Unlike(ctx context.Context, commentID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM profile_comment_likes WHERE comment_id = $1 AND user_id = $2`, commentID, userID)
	if err != nil {
		return fmt.Errorf("delete profile comment like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotLiked
	}
	return nil
}

// DeleteLikesByUser removes the member's profile comment likes inside the
// deletion transaction.
func (r *profileCommentRepository) DeleteLikesByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM profile_comment_likes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile comment likes by user: %w", err)
	}
	return nil
}

// CountLikes returns like counts for a set of comments in one query.
func (r *profileCommentRepository) CountLikes(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(commentIDs))
	for _, id := range commentIDs {
		result[id] = 0
	}
	if len(commentIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT comment_id, COUNT(*) AS like_count
		FROM profile_comment_likes
		WHERE comment_id = ANY($1)
		GROUP BY comment_id
	`
	rows := []struct {
		CommentID int64 `db:"comment_id"`
		LikeCount int   `db:"like_count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(commentIDs)); err != nil {
		return nil, fmt.Errorf("count profile comment likes: %w", err)
	}

	for _, row := range rows {
		result[row.CommentID] = row.LikeCount
	}
	return result, nil
}

// CheckLikes checks which comments the user has liked, one query for all.
func (r *profileCommentRepository) CheckLikes(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(commentIDs))
	for _, id := range commentIDs {
		result[id] = false
	}
	if len(commentIDs) == 0 {
		return result, nil
	}

	query := `SELECT comment_id FROM profile_comment_likes WHERE user_id = $1 AND comment_id = ANY($2)`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(commentIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check profile comment likes: %w", err)
	}

	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}
