package model

import (
	"errors"
	"time"
)

// Post types
const (
	PostTypeBlog  = "blog"
	PostTypeEvent = "event"
	PostTypeNews  = "news"
)

// Post is a member- or system-authored content item. UserID is nullable:
// official and legacy posts may have no owning member.
type Post struct {
	ID           int64     `db:"id" json:"id"`
	UserID       *int64    `db:"user_id" json:"user_id"`
	Title        string    `db:"title" json:"title"`
	Content      *string   `db:"content" json:"content"`
	ThumbnailURL *string   `db:"thumbnail_url" json:"thumbnail_url"`
	ExternalURL  *string   `db:"external_url" json:"external_url"`
	PostType     string    `db:"post_type" json:"post_type"` // blog, event, news
	IsOfficial   bool      `db:"is_official" json:"is_official"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`

	// Joined fields (not in posts table)
	Author       *ProfileSummary `json:"author,omitempty"`
	LikeCount    int             `json:"like_count"`
	CommentCount int             `json:"comment_count"`
	IsLiked      bool            `json:"is_liked"`
	ContentHTML  string          `json:"content_html,omitempty"` // Rendered on detail fetch
}

// PostComment is a comment on a post.
type PostComment struct {
	ID        int64     `db:"id" json:"id"`
	PostID    int64     `db:"post_id" json:"post_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Author *ProfileSummary `json:"author,omitempty"` // Joined field
}

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	Title        string  `json:"title"`
	Content      *string `json:"content"`
	ThumbnailURL *string `json:"thumbnail_url"`
	ExternalURL  *string `json:"external_url"`
	PostType     string  `json:"post_type"`
	IsOfficial   bool    `json:"is_official"`
}

// UpdatePostRequest is the request body for editing a post.
type UpdatePostRequest struct {
	Title        *string `json:"title"`
	Content      *string `json:"content"`
	ThumbnailURL *string `json:"thumbnail_url"`
	ExternalURL  *string `json:"external_url"`
	PostType     *string `json:"post_type"`
}

// CreateCommentRequest is the request body for creating a comment.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// LikeResponse returns the post-mutation aggregate so clients patch local
// state from the response instead of refetching.
type LikeResponse struct {
	LikeCount int  `json:"like_count"`
	IsLiked   bool `json:"is_liked"`
}

// Post constraints
const (
	MaxPostTitleLength   = 200
	MaxPostContentLength = 20000
	MaxCommentLength     = 1000
)

// Post errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrNotPostOwner    = errors.New("not the owner of this post")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotCommentOwner = errors.New("not the owner of this comment")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleTooLong    = errors.New("title too long")
	ErrContentTooLong  = errors.New("content too long")
	ErrContentRequired = errors.New("comment content is required")
	ErrInvalidPostType = errors.New("invalid post type")
	ErrAlreadyLiked    = errors.New("already liked")
	ErrNotLiked        = errors.New("not liked")
)

// API error codes for engagement endpoints.
const (
	CodeAlreadyLiked = "ALREADY_LIKED"
)

// IsValidPostType reports whether the post type is one of the known types.
func IsValidPostType(t string) bool {
	switch t {
	case PostTypeBlog, PostTypeEvent, PostTypeNews:
		return true
	}
	return false
}
