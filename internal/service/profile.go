package service

import (
	"context"
	"log"
	"strings"

	"github.com/lib/pq"

	"github.com/ca27people/backend/internal/join"
	"github.com/ca27people/backend/internal/markdown"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/queue"
	"github.com/ca27people/backend/internal/repository"
)

// ProfileService handles the member directory, profile pages and the
// comments on them.
type ProfileService struct {
	repo        repository.ProfileRepository
	commentRepo repository.ProfileCommentRepository
	publisher   queue.Publisher
}

func NewProfileService(
	repo repository.ProfileRepository,
	commentRepo repository.ProfileCommentRepository,
	publisher queue.Publisher,
) *ProfileService {
	return &ProfileService{
		repo:        repo,
		commentRepo: commentRepo,
		publisher:   publisher,
	}
}

// List returns the whole member directory.
func (s *ProfileService) List(ctx context.Context) ([]model.Profile, error) {
	return s.repo.List(ctx)
}

// Get retrieves a member's profile with the free-text sections rendered to
// HTML fragments for the detail page.
func (s *ProfileService) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile.SectionsHTML = renderSections(profile)
	return profile, nil
}

// renderSections renders each filled free-text section. Empty sections are
// omitted so the client can skip them without checking for "".
func renderSections(p *model.Profile) map[string]string {
	sections := map[string]*string{
		"career":        p.Career,
		"effort":        p.Effort,
		"goals":         p.Goals,
		"hobbies":       p.Hobbies,
		"reason_for_ca": p.ReasonForCA,
	}

	rendered := make(map[string]string)
	for name, text := range sections {
		if text == nil || *text == "" {
			continue
		}
		rendered[name] = markdown.RenderProfile(*text)
	}
	return rendered
}

// Update edits a member's profile. Only the owner or an admin may edit.
// Request fields left null keep their stored value; empty strings clear.
func (s *ProfileService) Update(ctx context.Context, actorID int64, isAdmin bool, userID int64, req *model.UpdateProfileRequest) (*model.Profile, error) {
	if actorID != userID && !isAdmin {
		return nil, model.ErrNotProfileOwner
	}

	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && *req.Role != "" && !model.IsValidRole(*req.Role) {
		return nil, model.ErrInvalidRole
	}

	applyProfileUpdate(profile, req)

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	profile.SectionsHTML = renderSections(profile)
	return profile, nil
}

func applyProfileUpdate(p *model.Profile, req *model.UpdateProfileRequest) {
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Career != nil {
		p.Career = req.Career
	}
	if req.Effort != nil {
		p.Effort = req.Effort
	}
	if req.Goals != nil {
		p.Goals = req.Goals
	}
	if req.InterestedDepartments != nil {
		p.InterestedDepartments = pq.StringArray(req.InterestedDepartments)
	}
	if req.Hobbies != nil {
		p.Hobbies = req.Hobbies
	}
	if req.ReasonForCA != nil {
		p.ReasonForCA = req.ReasonForCA
	}
	if req.SNSLinks != nil {
		p.SNSLinks = *req.SNSLinks
	}
	if req.Tags != nil {
		p.Tags = pq.StringArray(req.Tags)
	}
	if req.Role != nil {
		p.Role = req.Role
	}
	if req.MBTI != nil {
		p.MBTI = req.MBTI
	}
	if req.Birthday != nil {
		p.Birthday = req.Birthday
	}
	if req.NameRomaji != nil {
		p.NameRomaji = req.NameRomaji
	}
	if req.Nickname != nil {
		p.Nickname = req.Nickname
	}
}

// SetPhoto stores the new photo location and returns the previous key so
// the caller can clean up the old object.
func (s *ProfileService) SetPhoto(ctx context.Context, userID int64, photoURL, photoKey string) (oldKey *string, err error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdatePhoto(ctx, userID, photoURL, photoKey); err != nil {
		return nil, err
	}

	return profile.PhotoKey, nil
}

// Comments returns the comments on a member's page with authors and like
// state attached. viewerID may be nil for is_liked=false throughout.
func (s *ProfileService) Comments(ctx context.Context, profileUserID int64, viewerID *int64) ([]model.ProfileComment, error) {
	// The page must exist even when it has no comments yet.
	if _, err := s.repo.GetByUserID(ctx, profileUserID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.GetByProfileUserID(ctx, profileUserID)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return []model.ProfileComment{}, nil
	}

	if err := s.attachAuthors(ctx, comments); err != nil {
		return nil, err
	}

	commentIDs := join.Keys(comments, func(c model.ProfileComment) (int64, bool) {
		return c.ID, true
	})

	likeCounts, err := s.commentRepo.CountLikes(ctx, commentIDs)
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].LikeCount = likeCounts[comments[i].ID]
	}

	if viewerID != nil {
		liked, err := s.commentRepo.CheckLikes(ctx, *viewerID, commentIDs)
		if err != nil {
			return nil, err
		}
		for i := range comments {
			comments[i].IsLiked = liked[comments[i].ID]
		}
	}

	return comments, nil
}

func (s *ProfileService) attachAuthors(ctx context.Context, comments []model.ProfileComment) error {
	authorIDs := join.Keys(comments, func(c model.ProfileComment) (int64, bool) {
		return c.AuthorUserID, true
	})

	summaries, err := s.repo.GetSummariesByUserIDs(ctx, authorIDs)
	if err != nil {
		return err
	}

	join.Attach(comments, summaries,
		func(c model.ProfileComment) (int64, bool) { return c.AuthorUserID, true },
		func(p model.ProfileSummary) int64 { return p.UserID },
		func(c *model.ProfileComment, p *model.ProfileSummary) { c.Author = p },
	)
	return nil
}

// AddComment writes a comment on a member's page and notifies the owner.
func (s *ProfileService) AddComment(ctx context.Context, profileUserID, actorID int64, content string) (*model.ProfileComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.ErrContentRequired
	}
	if len(content) > model.MaxProfileCommentLength {
		return nil, model.ErrContentTooLong
	}

	if _, err := s.repo.GetByUserID(ctx, profileUserID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.Create(ctx, &model.ProfileComment{
		ProfileUserID: profileUserID,
		AuthorUserID:  actorID,
		Content:       content,
	})
	if err != nil {
		return nil, err
	}

	if summaries, err := s.repo.GetSummariesByUserIDs(ctx, []int64{actorID}); err == nil && len(summaries) > 0 {
		comment.Author = &summaries[0]
	}

	// Notification fan-out is best effort; the comment is already committed.
	if s.publisher != nil && actorID != profileUserID {
		event := queue.NewProfileCommentedEvent(comment.ID, actorID, profileUserID)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[ProfileService] Publish profile_commented failed: comment=%d err=%v", comment.ID, err)
		}
	}

	return comment, nil
}

// DeleteComment removes a comment. The author, the page owner and admins
// may delete.
func (s *ProfileService) DeleteComment(ctx context.Context, actorID int64, isAdmin bool, commentID int64) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if actorID != comment.AuthorUserID && actorID != comment.ProfileUserID && !isAdmin {
		return model.ErrNotCommentOwner
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// LikeComment likes a profile comment and returns the new aggregate so the
// client patches its local state from the response.
func (s *ProfileService) LikeComment(ctx context.Context, commentID, actorID int64) (*model.LikeResponse, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.Like(ctx, commentID, actorID); err != nil {
		return nil, err
	}

	if s.publisher != nil && actorID != comment.AuthorUserID {
		event := queue.NewProfileCommentLikedEvent(commentID, actorID, comment.AuthorUserID, comment.ProfileUserID)
		if _, err := s.publisher.Publish(ctx, queue.StreamEngagement, event); err != nil {
			log.Printf("[ProfileService] Publish profile_comment_liked failed: comment=%d err=%v", commentID, err)
		}
	}

	return s.likeResponse(ctx, commentID, true)
}

// UnlikeComment removes a like and returns the new aggregate.
func (s *ProfileService) UnlikeComment(ctx context.Context, commentID, actorID int64) (*model.LikeResponse, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Unlike(ctx, commentID, actorID); err != nil {
		return nil, err
	}

	return s.likeResponse(ctx, commentID, false)
}

func (s *ProfileService) likeResponse(ctx context.Context, commentID int64, isLiked bool) (*model.LikeResponse, error) {
	counts, err := s.commentRepo.CountLikes(ctx, []int64{commentID})
	if err != nil {
		return nil, err
	}
	return &model.LikeResponse{
		LikeCount: counts[commentID],
		IsLiked:   isLiked,
	}, nil
}
