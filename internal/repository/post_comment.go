package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ca27people/backend/internal/model"
)

type postCommentRepository struct {
	db *sqlx.DB
}

func NewPostCommentRepository(db *sqlx.DB) PostCommentRepository {
	return &postCommentRepository{db: db}
}

// Create inserts a new comment.
func (r *postCommentRepository) Create(ctx context.Context, c *model.PostComment) (*model.PostComment, error) {
	query := `
		INSERT INTO post_comments (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, post_id, user_id, content, created_at
	`
	var comment model.PostComment
	err := r.db.GetContext(ctx, &comment, query, c.PostID, c.UserID, c.Content)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &comment, nil
}

// GetByPostID returns a post's comments, oldest first, without authors.
// The service attaches authors from one batched profile lookup.
func (r *postCommentRepository) GetByPostID(ctx context.Context, postID int64) ([]model.PostComment, error) {
	query := `
		SELECT id, post_id, user_id, content, created_at
		FROM post_comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`
	var comments []model.PostComment
	err := r.db.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}
	return comments, nil
}

// GetByID retrieves a single comment.
func (r *postCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.PostComment, error) {
	query := `
		SELECT id, post_id, user_id, content, created_at
		FROM post_comments
		WHERE id = $1
	`
	var comment model.PostComment
	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err == sql.ErrNoRows {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &comment, nil
}

// Delete removes a comment. Ownership is checked in the service layer since
// admins may also delete.
func (r *postCommentRepository) Delete(ctx context.Context, commentID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}

// DeleteByUser removes the member's comments inside the deletion transaction.
func (r *postCommentRepository) DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM post_comments WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete comments by user: %w", err)
	}
	return nil
}

// CountByPostIDs returns comment counts for a set of posts in one query.
func (r *postCommentRepository) CountByPostIDs(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(postIDs))
	for _, id := range postIDs {
		result[id] = 0
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT post_id, COUNT(*) AS comment_count
		FROM post_comments
		WHERE post_id = ANY($1)
		GROUP BY post_id
	`
	rows := []struct {
		PostID       int64 `db:"post_id"`
		CommentCount int   `db:"comment_count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = row.CommentCount
	}
	return result, nil
}
