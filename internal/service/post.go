package service

import (
	"context"
	"log"
	"strings"

	"github.com/ca27people/backend/internal/join"
	"github.com/ca27people/backend/internal/markdown"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/queue"
	"github.com/ca27people/backend/internal/repository"
)

// PostService handles posts, their comments and likes. List views carry
// aggregates from batched queries; the detail view additionally renders the
// content to HTML and loads the comment thread.
type PostService struct {
	repo        repository.PostRepository
	commentRepo repository.PostCommentRepository
	profileRepo repository.ProfileRepository
	publisher   queue.Publisher
}

func NewPostService(
	repo repository.PostRepository,
	commentRepo repository.PostCommentRepository,
	profileRepo repository.ProfileRepository,
	publisher queue.Publisher,
) *PostService {
	return &PostService{
		repo:        repo,
		commentRepo: commentRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
	}
}

// List returns posts newest first with authors and aggregates attached.
// postType filters when non-nil; viewerID drives is_liked.
func (s *PostService) List(ctx context.Context, postType *string, viewerID *int64) ([]model.Post, error) {
	if postType != nil && !model.IsValidPostType(*postType) {
		return nil, model.ErrInvalidPostType
	}

	posts, err := s.repo.List(ctx, postType)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []model.Post{}, nil
	}

	if err := s.attachAuthors(ctx, posts); err != nil {
		return nil, err
	}
	if err := s.attachAggregates(ctx, posts, viewerID); err != nil {
		return nil, err
	}

	return posts, nil
}

// Get retrieves one post with rendered content, author, aggregates and the
// full comment thread.
func (s *PostService) Get(ctx context.Context, postID int64, viewerID *int64) (*model.Post, []model.PostComment, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}

	if post.Content != nil {
		post.ContentHTML = markdown.Render(*post.Content)
	}

	posts := []model.Post{*post}
	if err := s.attachAuthors(ctx, posts); err != nil {
		return nil, nil, err
	}
	if err := s.attachAggregates(ctx, posts, viewerID); err != nil {
		return nil, nil, err
	}
	*post = posts[0]

	comments, err := s.Comments(ctx, postID)
	if err != nil {
		return nil, nil, err
	}

	return post, comments, nil
}

// Comments returns a post's comment thread with authors attached.
func (s *PostService) Comments(ctx context.Context, postID int64) ([]model.PostComment, error) {
	comments, err := s.commentRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []model.PostComment{}, nil
	}

	authorIDs := join.Keys(comments, func(c model.PostComment) (int64, bool) {
		return c.UserID, true
	})

	summaries, err := s.profileRepo.GetSummariesByUserIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	join.Attach(comments, summaries,
		func(c model.PostComment) (int64, bool) { return c.UserID, true },
		func(p model.ProfileSummary) int64 { return p.UserID },
		func(c *model.PostComment, p *model.ProfileSummary) { c.Author = p },
	)

	return comments, nil
}

// attachAuthors joins author summaries onto posts. System posts with no
// owning member keep a nil author.
func (s *PostService) attachAuthors(ctx context.Context, posts []model.Post) error {
	authorIDs := join.Keys(posts, func(p model.Post) (int64, bool) {
		if p.UserID == nil {
			return 0, false
		}
		return *p.UserID, true
	})

	summaries, err := s.profileRepo.GetSummariesByUserIDs(ctx, authorIDs)
	if err != nil {
		return err
	}

	join.Attach(posts, summaries,
		func(p model.Post) (int64, bool) {
			if p.UserID == nil {
				return 0, false
			}
			return *p.UserID, true
		},
		func(ps model.ProfileSummary) int64 { return ps.UserID },
		func(p *model.Post, ps *model.ProfileSummary) { p.Author = ps },
	)
	return nil
}

// attachAggregates joins like counts, comment counts and the viewer's like
// state onto posts, one batched query per aggregate.
func (s *PostService) attachAggregates(ctx context.Context, posts []model.Post, viewerID *int64) error {
	postIDs := join.Keys(posts, func(p model.Post) (int64, bool) {
		return p.ID, true
	})

	likeCounts, err := s.repo.CountLikes(ctx, postIDs)
	if err != nil {
		return err
	}
	commentCounts, err := s.commentRepo.CountByPostIDs(ctx, postIDs)
	if err != nil {
		return err
	}

	var liked map[int64]bool
	if viewerID != nil {
		liked, err = s.repo.CheckLikes(ctx, *viewerID, postIDs)
		if err != nil {
			return err
		}
	}

	for i := range posts {
		posts[i].LikeCount = likeCounts[posts[i].ID]
		posts[i].CommentCount = commentCounts[posts[i].ID]
		if liked != nil {
			posts[i].IsLiked = liked[posts[i].ID]
		}
	}
	return nil
}

// Create validates and stores a new post.
func (s *PostService) Create(ctx context.Context, actorID int64, req *model.CreatePostRequest) (*model.Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrTitleRequired
	}
	if len(title) > model.MaxPostTitleLength {
		return nil, model.ErrTitleTooLong
	}
	if req.Content != nil && len(*req.Content) > model.MaxPostContentLength {
		return nil, model.ErrContentTooLong
	}
	if !model.IsValidPostType(req.PostType) {
		return nil, model.ErrInvalidPostType
	}

	post := &model.Post{
		UserID:       &actorID,
		Title:        title,
		Content:      req.Content,
		ThumbnailURL: req.ThumbnailURL,
		ExternalURL:  req.ExternalURL,
		PostType:     req.PostType,
		IsOfficial:   req.IsOfficial,
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Update edits a post. Only the owner or an admin may edit.
func (s *PostService) Update(ctx context.Context, actorID int64, isAdmin bool, postID int64, req *model.UpdatePostRequest) (*model.Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !canModifyPost(post, actorID, isAdmin) {
		return nil, model.ErrNotPostOwner
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, model.ErrTitleRequired
		}
		if len(title) > model.MaxPostTitleLength {
			return nil, model.ErrTitleTooLong
		}
		post.Title = title
	}
	if req.Content != nil {
		if len(*req.Content) > model.MaxPostContentLength {
			return nil, model.ErrContentTooLong
		}
		post.Content = req.Content
	}
	if req.ThumbnailURL != nil {
		post.ThumbnailURL = req.ThumbnailURL
	}
	if req.ExternalURL != nil {
		post.ExternalURL = req.ExternalURL
	}
	if req.PostType != nil {
		if !model.IsValidPostType(*req.PostType) {
			return nil, model.ErrInvalidPostType
		}
		post.PostType = *req.PostType
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// Delete removes a post. Only the owner or an admin may delete.
func (s *PostService) Delete(ctx context.Context, actorID int64, isAdmin bool, postID int64) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if !canModifyPost(post, actorID, isAdmin) {
		return model.ErrNotPostOwner
	}

	return s.repo.Delete(ctx, postID)
}

// canModifyPost reports whether the actor may edit or delete the post.
// Ownerless posts are admin-only.
func canModifyPost(post *model.Post, actorID int64, isAdmin bool) bool {
	if isAdmin {
		return true
	}
	return post.UserID != nil && *post.UserID == actorID
}

// Like likes a post and returns the new aggregate so the client patches
// local state from the response instead of refetching.
func (s *PostService) Like(ctx context.Context, postID, actorID int64) (*model.LikeResponse, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Like(ctx, postID, actorID); err != nil {
		return nil, err
	}

	// Notification fan-out is best effort; the like is already committed.
	if s.publisher != nil && post.UserID != nil && *post.UserID != actorID {
		event := queue.NewPostLikedEvent(postID, actorID, *post.UserID, post.Title)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[PostService] Publish post_liked failed: post=%d err=%v", postID, err)
		}
	}

	return s.likeResponse(ctx, postID, true)
}

// Unlike removes a like and returns the new aggregate.
func (s *PostService) Unlike(ctx context.Context, postID, actorID int64) (*model.LikeResponse, error) {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.repo.Unlike(ctx, postID, actorID); err != nil {
		return nil, err
	}

	return s.likeResponse(ctx, postID, false)
}

func (s *PostService) likeResponse(ctx context.Context, postID int64, isLiked bool) (*model.LikeResponse, error) {
	counts, err := s.repo.CountLikes(ctx, []int64{postID})
	if err != nil {
		return nil, err
	}
	return &model.LikeResponse{
		LikeCount: counts[postID],
		IsLiked:   isLiked,
	}, nil
}

// AddComment writes a comment on a post and notifies the post author.
func (s *PostService) AddComment(ctx context.Context, postID, actorID int64, content string) (*model.PostComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return nil, model.ErrContentTooLong
	}

	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.Create(ctx, &model.PostComment{
		PostID:  postID,
		UserID:  actorID,
		Content: content,
	})
	if err != nil {
		return nil, err
	}

	if summaries, err := s.profileRepo.GetSummariesByUserIDs(ctx, []int64{actorID}); err == nil && len(summaries) > 0 {
		comment.Author = &summaries[0]
	}

	if s.publisher != nil && post.UserID != nil && *post.UserID != actorID {
		event := queue.NewPostCommentedEvent(postID, comment.ID, actorID, *post.UserID, post.Title)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[PostService] Publish post_commented failed: comment=%d err=%v", comment.ID, err)
		}
	}

	return comment, nil
}

// DeleteComment removes a comment. The author, the post owner and admins
// may delete.
func (s *PostService) DeleteComment(ctx context.Context, actorID int64, isAdmin bool, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if actorID != comment.UserID && !isAdmin {
		post, err := s.repo.GetByID(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.UserID == nil || *post.UserID != actorID {
			return model.ErrNotCommentOwner
		}
	}

	return s.commentRepo.Delete(ctx, commentID)
}
