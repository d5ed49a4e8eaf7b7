package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ca27people/backend/internal/model"
)

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `
	id, user_id, title, content, thumbnail_url, external_url,
	post_type, is_official, created_at, updated_at
`

// Create inserts a new post.
func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	query := `
		INSERT INTO posts (user_id, title, content, thumbnail_url, external_url, post_type, is_official, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.UserID, p.Title, p.Content, p.ThumbnailURL, p.ExternalURL, p.PostType, p.IsOfficial,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a single post.
func (r *postRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post model.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err == sql.ErrNoRows {
		return nil, model.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}

	return &post, nil
}

// List returns posts newest first, optionally filtered by type.
func (r *postRepository) List(ctx context.Context, postType *string) ([]model.Post, error) {
	var posts []model.Post
	var err error

	if postType == nil {
		query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &posts, query)
	} else {
		query := `SELECT ` + postColumns + ` FROM posts WHERE post_type = $1 ORDER BY created_at DESC`
		err = r.db.SelectContext(ctx, &posts, query, *postType)
	}
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

// Update writes the editable field set.
func (r *postRepository) Update(ctx context.Context, p *model.Post) error {
	query := `
		UPDATE posts
		SET title = $1, content = $2, thumbnail_url = $3, external_url = $4,
		    post_type = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.Title, p.Content, p.ThumbnailURL, p.ExternalURL, p.PostType, p.ID,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.ErrPostNotFound
	}
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	return nil
}

// Delete removes a post. Likes and comments go with it via ON DELETE CASCADE.
func (r *postRepository) Delete(ctx context.Context, postID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrPostNotFound
	}
	return nil
}

// Count returns the total number of posts.
func (r *postRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts`)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// DetachUser nulls out authorship on a deleted member's posts. The posts
// themselves stay: official and legacy content outlives its author.
func (r *postRepository) DetachUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE posts SET user_id = NULL WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("detach user from posts: %w", err)
	}
	return nil
}

// Like inserts a like row. The (post_id, user_id) pair is unique; a
// duplicate surfaces as model.ErrAlreadyLiked.
func (r *postRepository) Like(ctx context.Context, postID, userID int64) error {
	query := `INSERT INTO post_likes (post_id, user_id, created_at) VALUES ($1, $2, NOW())`
	_, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// Unlike deletes a like row. Returns ErrNotLiked if there was none.
func (r *postRepository) Unlike(ctx context.Context, postID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
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

// CountLikes returns like counts for a set of posts in one query.
// Posts with no likes are present in the result with a zero count.
func (r *postRepository) CountLikes(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(postIDs))
	for _, id := range postIDs {
		result[id] = 0
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT post_id, COUNT(*) AS like_count
		FROM post_likes
		WHERE post_id = ANY($1)
		GROUP BY post_id
	`
	rows := []struct {
		PostID    int64 `db:"post_id"`
		LikeCount int   `db:"like_count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(postIDs)); err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	for _, row := range rows {
		result[row.PostID] = row.LikeCount
	}
	return result, nil
}

// CheckLikes checks which posts the user has liked.
func (r *postRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		result[id] = false
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)`
	var likedIDs []int64
	err := r.db.SelectContext(ctx, &likedIDs, query, userID, pq.Array(postIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check likes: %w", err)
	}

	for _, id := range likedIDs {
		result[id] = true
	}
	return result, nil
}

// DeleteLikesByUser removes the member's likes inside the deletion transaction.
func (r *postRepository) DeleteLikesByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete likes by user: %w", err)
	}
	return nil
}
