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

// Mocks use function fields so each test defines only the behavior it needs.

type mockPostRepository struct {
	createFn     func(ctx context.Context, post *model.Post) error
	getByIDFn    func(ctx context.Context, postID int64) (*model.Post, error)
	listFn       func(ctx context.Context, postType *string) ([]model.Post, error)
	updateFn     func(ctx context.Context, post *model.Post) error
	deleteFn     func(ctx context.Context, postID int64) error
	likeFn       func(ctx context.Context, postID, userID int64) error
	unlikeFn     func(ctx context.Context, postID, userID int64) error
	countLikesFn func(ctx context.Context, postIDs []int64) (map[int64]int, error)
	checkLikesFn func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error)
}

func (m *mockPostRepository) Create(ctx context.Context, post *model.Post) error {
	if m.createFn != nil {
		return m.createFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) GetByID(ctx context.Context, postID int64) (*model.Post, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, postID)
	}
	return nil, model.ErrPostNotFound
}

func (m *mockPostRepository) List(ctx context.Context, postType *string) ([]model.Post, error) {
	if m.listFn != nil {
		return m.listFn(ctx, postType)
	}
	return nil, nil
}

func (m *mockPostRepository) Update(ctx context.Context, post *model.Post) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, post)
	}
	return nil
}

func (m *mockPostRepository) Delete(ctx context.Context, postID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, postID)
	}
	return nil
}

func (m *mockPostRepository) Count(ctx context.Context) (int, error) { return 0, nil }

func (m *mockPostRepository) DetachUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

func (m *mockPostRepository) Like(ctx context.Context, postID, userID int64) error {
	if m.likeFn != nil {
		return m.likeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) Unlike(ctx context.Context, postID, userID int64) error {
	if m.unlikeFn != nil {
		return m.unlikeFn(ctx, postID, userID)
	}
	return nil
}

func (m *mockPostRepository) CountLikes(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	if m.countLikesFn != nil {
		return m.countLikesFn(ctx, postIDs)
	}
	counts := make(map[int64]int, len(postIDs))
	for _, id := range postIDs {
		counts[id] = 0
	}
	return counts, nil
}

func (m *mockPostRepository) CheckLikes(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
	if m.checkLikesFn != nil {
		return m.checkLikesFn(ctx, userID, postIDs)
	}
	liked := make(map[int64]bool, len(postIDs))
	for _, id := range postIDs {
		liked[id] = false
	}
	return liked, nil
}

func (m *mockPostRepository) DeleteLikesByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

type mockPostCommentRepository struct {
	createFn         func(ctx context.Context, comment *model.PostComment) (*model.PostComment, error)
	getByPostIDFn    func(ctx context.Context, postID int64) ([]model.PostComment, error)
	getByIDFn        func(ctx context.Context, commentID int64) (*model.PostComment, error)
	deleteFn         func(ctx context.Context, commentID int64) error
	countByPostIDsFn func(ctx context.Context, postIDs []int64) (map[int64]int, error)
}

func (m *mockPostCommentRepository) Create(ctx context.Context, comment *model.PostComment) (*model.PostComment, error) {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	c := *comment
	c.ID = 1
	return &c, nil
}

func (m *mockPostCommentRepository) GetByPostID(ctx context.Context, postID int64) ([]model.PostComment, error) {
	if m.getByPostIDFn != nil {
		return m.getByPostIDFn(ctx, postID)
	}
	return nil, nil
}

func (m *mockPostCommentRepository) GetByID(ctx context.Context, commentID int64) (*model.PostComment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, commentID)
	}
	return nil, model.ErrCommentNotFound
}

func (m *mockPostCommentRepository) Delete(ctx context.Context, commentID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, commentID)
	}
	return nil
}

func (m *mockPostCommentRepository) DeleteByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

func (m *mockPostCommentRepository) CountByPostIDs(ctx context.Context, postIDs []int64) (map[int64]int, error) {
	if m.countByPostIDsFn != nil {
		return m.countByPostIDsFn(ctx, postIDs)
	}
	counts := make(map[int64]int, len(postIDs))
	for _, id := range postIDs {
		counts[id] = 0
	}
	return counts, nil
}

type mockProfileRepository struct {
	getByUserIDFn           func(ctx context.Context, userID int64) (*model.Profile, error)
	listFn                  func(ctx context.Context) ([]model.Profile, error)
	getSummariesByUserIDsFn func(ctx context.Context, userIDs []int64) ([]model.ProfileSummary, error)
	updateFn                func(ctx context.Context, profile *model.Profile) error
	updatePhotoFn           func(ctx context.Context, userID int64, photoURL, photoKey string) error
}

func (m *mockProfileRepository) Create(ctx context.Context, tx *sqlx.Tx, profile *model.Profile) error {
	return nil
}

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return nil, model.ErrProfileNotFound
}

func (m *mockProfileRepository) List(ctx context.Context) ([]model.Profile, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockProfileRepository) GetSummariesByUserIDs(ctx context.Context, userIDs []int64) ([]model.ProfileSummary, error) {
	if m.getSummariesByUserIDsFn != nil {
		return m.getSummariesByUserIDsFn(ctx, userIDs)
	}
	return []model.ProfileSummary{}, nil
}

func (m *mockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, profile)
	}
	return nil
}

func (m *mockProfileRepository) UpdatePhoto(ctx context.Context, userID int64, photoURL, photoKey string) error {
	if m.updatePhotoFn != nil {
		return m.updatePhotoFn(ctx, userID, photoURL, photoKey)
	}
	return nil
}

func (m *mockProfileRepository) DeleteByUserID(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

type mockPublisher struct {
	published []queue.EngagementEvent
}

func (m *mockPublisher) Publish(ctx context.Context, stream string, event queue.EngagementEvent) (string, error) {
	m.published = append(m.published, event)
	return "1-0", nil
}

func int64Ptr(v int64) *int64 { return &v }

// =============================================================================
// LIST / GET
// =============================================================================

func TestPostService_List_AttachesAuthorsAndAggregates(t *testing.T) {
	repo := &mockPostRepository{
		listFn: func(ctx context.Context, postType *string) ([]model.Post, error) {
			return []model.Post{
				{ID: 1, UserID: int64Ptr(10), Title: "first"},
				{ID: 2, UserID: nil, Title: "official"},
			}, nil
		},
		countLikesFn: func(ctx context.Context, postIDs []int64) (map[int64]int, error) {
			return map[int64]int{1: 3, 2: 0}, nil
		},
		checkLikesFn: func(ctx context.Context, userID int64, postIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{1: true, 2: false}, nil
		},
	}
	commentRepo := &mockPostCommentRepository{
		countByPostIDsFn: func(ctx context.Context, postIDs []int64) (map[int64]int, error) {
			return map[int64]int{1: 2, 2: 0}, nil
		},
	}
	profileRepo := &mockProfileRepository{
		getSummariesByUserIDsFn: func(ctx context.Context, userIDs []int64) ([]model.ProfileSummary, error) {
			assert.Equal(t, []int64{10}, userIDs)
			return []model.ProfileSummary{{ID: 100, UserID: 10, Name: "田中"}}, nil
		},
	}

	svc := NewPostService(repo, commentRepo, profileRepo, nil)

	viewerID := int64(7)
	posts, err := svc.List(context.Background(), nil, &viewerID)
	require.NoError(t, err)
	require.Len(t, posts, 2)

	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "田中", posts[0].Author.Name)
	assert.Equal(t, 3, posts[0].LikeCount)
	assert.Equal(t, 2, posts[0].CommentCount)
	assert.True(t, posts[0].IsLiked)

	// The ownerless post keeps a nil author and is never dropped.
	assert.Nil(t, posts[1].Author)
	assert.Equal(t, 0, posts[1].LikeCount)
	assert.False(t, posts[1].IsLiked)
}

func TestPostService_List_RejectsUnknownType(t *testing.T) {
	svc := NewPostService(&mockPostRepository{}, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)

	bad := "podcast"
	_, err := svc.List(context.Background(), &bad, nil)
	assert.ErrorIs(t, err, model.ErrInvalidPostType)
}

func TestPostService_Get_RendersContent(t *testing.T) {
	content := "# 見出し\n本文"
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(10), Title: "t", Content: &content}, nil
		},
	}
	svc := NewPostService(repo, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)

	post, comments, err := svc.Get(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Contains(t, post.ContentHTML, "<h1")
	assert.Contains(t, post.ContentHTML, "見出し")
	assert.Empty(t, comments)
}

// =============================================================================
// CREATE / UPDATE / DELETE
// =============================================================================

func TestPostService_Create_Validation(t *testing.T) {
	svc := NewPostService(&mockPostRepository{}, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &model.CreatePostRequest{Title: "  ", PostType: model.PostTypeBlog})
	assert.ErrorIs(t, err, model.ErrTitleRequired)

	long := make([]byte, model.MaxPostTitleLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Create(ctx, 1, &model.CreatePostRequest{Title: string(long), PostType: model.PostTypeBlog})
	assert.ErrorIs(t, err, model.ErrTitleTooLong)

	_, err = svc.Create(ctx, 1, &model.CreatePostRequest{Title: "ok", PostType: "podcast"})
	assert.ErrorIs(t, err, model.ErrInvalidPostType)
}

func TestPostService_Update_OwnershipChecks(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(10), Title: "t", PostType: model.PostTypeBlog}, nil
		},
	}
	svc := NewPostService(repo, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)
	ctx := context.Background()

	newTitle := "updated"

	// Stranger is rejected
	_, err := svc.Update(ctx, 99, false, 1, &model.UpdatePostRequest{Title: &newTitle})
	assert.ErrorIs(t, err, model.ErrNotPostOwner)

	// Owner may edit
	post, err := svc.Update(ctx, 10, false, 1, &model.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "updated", post.Title)

	// Admin may edit anyone's post
	_, err = svc.Update(ctx, 99, true, 1, &model.UpdatePostRequest{Title: &newTitle})
	assert.NoError(t, err)
}

func TestPostService_Delete_OwnerlessPostIsAdminOnly(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: nil, Title: "official"}, nil
		},
	}
	svc := NewPostService(repo, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)
	ctx := context.Background()

	err := svc.Delete(ctx, 10, false, 1)
	assert.ErrorIs(t, err, model.ErrNotPostOwner)

	err = svc.Delete(ctx, 10, true, 1)
	assert.NoError(t, err)
}

// =============================================================================
// LIKES
// =============================================================================

func TestPostService_Like_ReturnsAggregateAndPublishes(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(10), Title: "合宿"}, nil
		},
		countLikesFn: func(ctx context.Context, postIDs []int64) (map[int64]int, error) {
			return map[int64]int{1: 4}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewPostService(repo, &mockPostCommentRepository{}, &mockProfileRepository{}, pub)

	resp, err := svc.Like(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 4, resp.LikeCount)
	assert.True(t, resp.IsLiked)

	require.Len(t, pub.published, 1)
	event := pub.published[0]
	assert.Equal(t, queue.EventPostLiked, event.Type)
	assert.Equal(t, int64(7), event.ActorID)
	assert.Equal(t, int64(10), event.OwnerID)
	assert.Equal(t, "合宿", event.PostTitle)
}

func TestPostService_Like_SelfLikeDoesNotPublish(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(7), Title: "自分の投稿"}, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewPostService(repo, &mockPostCommentRepository{}, &mockProfileRepository{}, pub)

	_, err := svc.Like(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Empty(t, pub.published)
}

func TestPostService_Like_Duplicate(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(10)}, nil
		},
		likeFn: func(ctx context.Context, postID, userID int64) error {
			return model.ErrAlreadyLiked
		},
	}
	svc := NewPostService(repo, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)

	_, err := svc.Like(context.Background(), 1, 7)
	assert.ErrorIs(t, err, model.ErrAlreadyLiked)
}

func TestPostService_Unlike_ReturnsAggregate(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(10)}, nil
		},
		countLikesFn: func(ctx context.Context, postIDs []int64) (map[int64]int, error) {
			return map[int64]int{1: 0}, nil
		},
	}
	svc := NewPostService(repo, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)

	resp, err := svc.Unlike(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.LikeCount)
	assert.False(t, resp.IsLiked)
}

// =============================================================================
// COMMENTS
// =============================================================================

func TestPostService_AddComment_PublishesToPostOwner(t *testing.T) {
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(10), Title: "合宿"}, nil
		},
	}
	commentRepo := &mockPostCommentRepository{
		createFn: func(ctx context.Context, comment *model.PostComment) (*model.PostComment, error) {
			c := *comment
			c.ID = 55
			return &c, nil
		},
	}
	pub := &mockPublisher{}
	svc := NewPostService(repo, commentRepo, &mockProfileRepository{}, pub)

	comment, err := svc.AddComment(context.Background(), 1, 7, "いいですね")
	require.NoError(t, err)
	assert.Equal(t, int64(55), comment.ID)

	require.Len(t, pub.published, 1)
	assert.Equal(t, queue.EventPostCommented, pub.published[0].Type)
	require.NotNil(t, pub.published[0].CommentID)
	assert.Equal(t, int64(55), *pub.published[0].CommentID)
}

func TestPostService_AddComment_Validation(t *testing.T) {
	svc := NewPostService(&mockPostRepository{}, &mockPostCommentRepository{}, &mockProfileRepository{}, nil)
	ctx := context.Background()

	_, err := svc.AddComment(ctx, 1, 7, "   ")
	assert.ErrorIs(t, err, model.ErrContentRequired)
}

func TestPostService_DeleteComment_Permissions(t *testing.T) {
	commentRepo := &mockPostCommentRepository{
		getByIDFn: func(ctx context.Context, commentID int64) (*model.PostComment, error) {
			return &model.PostComment{ID: 55, PostID: 1, UserID: 7}, nil
		},
	}
	repo := &mockPostRepository{
		getByIDFn: func(ctx context.Context, postID int64) (*model.Post, error) {
			return &model.Post{ID: 1, UserID: int64Ptr(10)}, nil
		},
	}
	svc := NewPostService(repo, commentRepo, &mockProfileRepository{}, nil)
	ctx := context.Background()

	// Comment author
	assert.NoError(t, svc.DeleteComment(ctx, 7, false, 55))

	// Post owner
	assert.NoError(t, svc.DeleteComment(ctx, 10, false, 55))

	// Admin
	assert.NoError(t, svc.DeleteComment(ctx, 99, true, 55))

	// Anyone else
	assert.ErrorIs(t, svc.DeleteComment(ctx, 42, false, 55), model.ErrNotCommentOwner)
}
