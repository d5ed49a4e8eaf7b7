package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/queue"
)

type mockProfileCommentRepository struct {
	createFn             func(ctx context.Context, comment *model.ProfileComment) (*model.ProfileComment, error)
	getByProfileUserIDFn func(ctx context.Context, profileUserID int64) ([]model.ProfileComment, error)
	getByIDFn            func(ctx context.Context, commentID int64) (*model.ProfileComment, error)
	deleteFn             func(ctx context.Context, commentID int64) error
	likeFn               func(ctx context.Context, commentID, userID int64) error
	unlikeFn             func(ctx context.Context, commentID, userID int64) error
	countLikesFn         func(ctx context.Context, commentIDs []int64) (map[int64]int, error)
	checkLikesFn         func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error)
}

func (m *mockProfileCommentRepository) Create(ctx context.Context, comment *model.ProfileComment) (*model.ProfileComment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	c := *comment
	c.ID = 1
	return &c, nil
}

func (m *mockProfileCommentRepository) GetByProfileUserID(ctx context.Context, profileUserID int64) ([]model.ProfileComment, error) {
	if m.getByProfileUserIDFn != nil {
		return m.getByProfileUserIDFn(ctx, profileUserID)
	}
	return nil, nil
}

func (m *mockProfileCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.ProfileComment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrProfileCommentNotFound
}

func (m *mockProfileCommentRepository) Delete(ctx context.Context, commentID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return nil
}

func (m *mockProfileCommentRepository) DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

func (m *mockProfileCommentRepository) Like(ctx context.Context, commentID, userID int64) error {
	if m.likeFn != nil {
		return m.likeFn(ctx, commentID, userID)
	}
	return nil
}

func (m *mockProfileCommentRepository) Unlike(ctx context.Context, commentID, userID int64) error {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, commentID, userID)
	}
	return nil
}

func (m *mockProfileCommentRepository) CountLikes(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
	if m.countLikesFn != nil {
		return m.countLikesFn(ctx, commentIDs)
	}
	counts := make(map[int64]int, len(commentIDs))
	for _, id := range commentIDs {
		counts[id] = 0
	}
	return counts, nil
}

func (m *mockProfileCommentRepository) CheckLikes(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, commentIDs)
	}
	liked := make(map[int64]bool, len(commentIDs))
	for _, id := range commentIDs {
		liked[id] = false
	}
	return liked, nil
}

func (m *mockProfileCommentRepository) DeleteLikesByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

func strPtr(s string) *string { return &s }

func testProfile(userID int64) *model.Profile {
	return &model.Profile{
		ID:     userID * 100,
		UserID: userID,
		Name:   "山田",
	}
}

// =============================================================================
// GET / UPDATE
// =============================================================================

func TestProfileService_Get_RendersFilledSections(t *testing.T) {
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			p := testProfile(userID)
			p.Career = strPtr("## 経歴\n- エンジニア")
			return p, nil
		},
	}
	svc := NewProfileService(repo, &mockProfileCommentRepository{}, nil)

	profile, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)

	require.Contains(t, profile.SectionsHTML, "career")
	assert.Contains(t, profile.SectionsHTML["career"], "<h2")
	assert.Contains(t, profile.SectionsHTML["career"], "<li")

	// Empty sections are omitted entirely.
	assert.NotContains(t, profile.SectionsHTML, "goals")
}

func TestProfileService_Update_OwnershipChecks(t *testing.T) {
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return testProfile(userID), nil
		},
	}
	svc := NewProfileService(repo, &mockProfileCommentRepository{}, nil)
	ctx := context.Background()

	name := "新しい名前"

	_, err := svc.Update(ctx, 99, false, 3, &model.UpdateProfileRequest{Name: &name})
	assert.ErrorIs(t, err, model.ErrNotProfileOwner)

	profile, err := svc.Update(ctx, 3, false, 3, &model.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "新しい名前", profile.Name)

	_, err = svc.Update(ctx, 99, true, 3, &model.UpdateProfileRequest{Name: &name})
	assert.NoError(t, err)
}

func TestProfileService_Update_RejectsUnknownRole(t *testing.T) {
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return testProfile(userID), nil
		},
	}
	svc := NewProfileService(repo, &mockProfileCommentRepository{}, nil)

	role := "manager"
	_, err := svc.Update(context.Background(), 3, false, 3, &model.UpdateProfileRequest{Role: &role})
	assert.ErrorIs(t, err, model.ErrInvalidRole)
}

func TestProfileService_Update_NullFieldsKeepStoredValues(t *testing.T) {
	career := "エンジニア"
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			p := testProfile(userID)
			p.Career = &career
			return p, nil
		},
	}
	svc := NewProfileService(repo, &mockProfileCommentRepository{}, nil)

	mbti := "INTJ"
	profile, err := svc.Update(context.Background(), 3, false, 3, &model.UpdateProfileRequest{MBTI: &mbti})
	require.NoError(t, err)

	require.NotNil(t, profile.Career)
	assert.Equal(t, "エンジニア", *profile.Career)
	require.NotNil(t, profile.MBTI)
	assert.Equal(t, "INTJ", *profile.MBTI)
}

// =============================================================================
// COMMENTS
// =============================================================================

func TestProfileService_Comments_AttachesAuthorsAndLikes(t *testing.T) {
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return testProfile(userID), nil
		},
		getSummariesByUserIDsFn: func(ctx context.Context, userIDs []int64) ([]model.ProfileSummary, error) {
			return []model.ProfileSummary{{ID: 700, UserID: 7, Name: "佐藤"}}, nil
		},
	}
	commentRepo := &mockProfileCommentRepository{
		getByProfileUserIDFn: func(ctx context.Context, profileUserID int64) ([]model.ProfileComment, error) {
			return []model.ProfileComment{
				{ID: 1, ProfileUserID: 3, AuthorUserID: 7, Content: "よろしく"},
				{ID: 2, ProfileUserID: 3, AuthorUserID: 8, Content: "はじめまして"},
			}, nil
		},
		countLikesFn: func(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
			return map[int64]int{1: 2, 2: 0}, nil
		},
		checkLikesFn: func(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{1: true, 2: false}, nil
		},
	}
	svc := NewProfileService(repo, commentRepo, nil)

	viewerID := int64(7)
	comments, err := svc.Comments(context.Background(), 3, &viewerID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "佐藤", comments[0].Author.Name)
	assert.Equal(t, 2, comments[0].LikeCount)
	assert.True(t, comments[0].IsLiked)

	// The author with no profile summary stays in the list with nil author.
	assert.Nil(t, comments[1].Author)
	assert.False(t, comments[1].IsLiked)
}

func TestProfileService_AddComment_PublishesToPageOwner(t *testing.T) {
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return testProfile(userID), nil
		},
	}
	commentRepo := &mockProfileCommentRepository{
		createFn: func(ctx context.Context, comment *model.ProfileComment) (*model.ProfileComment, error) {
			c := *comment
			c.ID = 33
			return &c, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewProfileService(repo, commentRepo, pub)

	comment, err := svc.AddComment(context.Background(), 3, 7, "よろしく")
	require.NoError(t, err)
	assert.Equal(t, int64(33), comment.ID)

	require.Len(t, pub.published, 1)
	event := pub.published[0]
	assert.Equal(t, queue.EventProfileCommented, event.Type)
	assert.Equal(t, int64(7), event.ActorID)
	assert.Equal(t, int64(3), event.OwnerID)
}

func TestProfileService_AddComment_OwnPageDoesNotPublish(t *testing.T) {
	repo := &mockProfileRepository{
		getByUserIDFn: func(ctx context.Context, userID int64) (*model.Profile, error) {
			return testProfile(userID), nil
		},
	}
	pub := &mockPublisher{}
	svc := NewProfileService(repo, &mockProfileCommentRepository{}, pub)

	_, err := svc.AddComment(context.Background(), 3, 3, "自分のページ")
	require.NoError(t, err)
	assert.Empty(t, pub.published)
}

func TestProfileService_DeleteComment_Permissions(t *testing.T) {
	commentRepo := &mockProfileCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.ProfileComment, error) {
			return &model.ProfileComment{ID: 33, ProfileUserID: 3, AuthorUserID: 7}, nil
		},
	}
	svc := NewProfileService(&mockProfileRepository{}, commentRepo, nil)
	ctx := context.Background()

	// Comment author
	assert.NoError(t, svc.DeleteComment(ctx, 7, false, 33))

	// Page owner
	assert.NoError(t, svc.DeleteComment(ctx, 3, false, 33))

	// Admin
	assert.NoError(t, svc.DeleteComment(ctx, 99, true, 33))

	// Anyone else
	assert.ErrorIs(t, svc.DeleteComment(ctx, 42, false, 33), model.ErrNotCommentOwner)
}

func TestProfileService_LikeComment_ReturnsAggregateAndPublishes(t *testing.T) {
	commentRepo := &mockProfileCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.ProfileComment, error) {
			return &model.ProfileComment{ID: 33, ProfileUserID: 5, AuthorUserID: 3}, nil
		},
		countLikesFn: func(ctx context.Context, commentIDs []int64) (map[int64]int, error) {
			return map[int64]int{33: 1}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewProfileService(&mockProfileRepository{}, commentRepo, pub)

	resp, err := svc.LikeComment(context.Background(), 33, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LikeCount)
	assert.True(t, resp.IsLiked)

	require.Len(t, pub.published, 1)
	event := pub.published[0]
	assert.Equal(t, queue.EventProfileCommentLike, event.Type)
	assert.Equal(t, int64(3), event.OwnerID)
	require.NotNil(t, event.ProfileUserID)
	assert.Equal(t, int64(5), *event.ProfileUserID)
}
