package worker

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/queue"
)

type mockNotificationStore struct {
	created []model.Notification
	err     error
}

func (m *mockNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, *n)
	return nil
}

type mockUnreadCache struct {
	invalidated []int64
}

func (m *mockUnreadCache) Get(ctx context.Context, userID int64) (int, bool, error) {
	return 0, false, nil
}

func (m *mockUnreadCache) Set(ctx context.Context, userID int64, count int) error {
	return nil
}

func (m *mockUnreadCache) Invalidate(ctx context.Context, userID int64) error {
	m.invalidated = append(m.invalidated, userID)
	return nil
}

func TestHandlePostLiked(t *testing.T) {
	store := &mockNotificationStore{}
	unread := &mockUnreadCache{}
	h := NewHandler(store, unread)

	event := queue.NewPostLikedEvent(42, 7, 3, "春合宿の報告")
	err := h.HandleEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	n := store.created[0]
	assert.Equal(t, int64(3), n.UserID)
	assert.Equal(t, model.NotificationTypeLike, n.Type)
	assert.Equal(t, "いいねされました", n.Title)
	require.NotNil(t, n.Message)
	assert.Contains(t, *n.Message, "春合宿の報告")
	require.NotNil(t, n.Link)
	assert.Equal(t, "/posts/42", *n.Link)
	require.NotNil(t, n.RelatedUserID)
	assert.Equal(t, int64(7), *n.RelatedUserID)
	require.NotNil(t, n.RelatedPostID)
	assert.Equal(t, int64(42), *n.RelatedPostID)

	assert.Equal(t, []int64{3}, unread.invalidated)
}

func TestHandlePostCommented(t *testing.T) {
	store := &mockNotificationStore{}
	unread := &mockUnreadCache{}
	h := NewHandler(store, unread)

	event := queue.NewPostCommentedEvent(42, 100, 7, 3, "春合宿の報告")
	err := h.HandleEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	n := store.created[0]
	assert.Equal(t, model.NotificationTypeComment, n.Type)
	assert.Equal(t, "コメントがつきました", n.Title)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/posts/42", *n.Link)
}

func TestHandleProfileCommented(t *testing.T) {
	store := &mockNotificationStore{}
	unread := &mockUnreadCache{}
	h := NewHandler(store, unread)

	event := queue.NewProfileCommentedEvent(100, 7, 3)
	err := h.HandleEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	n := store.created[0]
	assert.Equal(t, int64(3), n.UserID)
	assert.Equal(t, model.NotificationTypeComment, n.Type)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/profile/3", *n.Link)
	assert.Nil(t, n.RelatedPostID)
}

func TestHandleProfileCommentLiked(t *testing.T) {
	store := &mockNotificationStore{}
	unread := &mockUnreadCache{}
	h := NewHandler(store, unread)

	// Actor 7 likes comment 100 written by member 3 on member 5's page.
	event := queue.NewProfileCommentLikedEvent(100, 7, 3, 5)
	err := h.HandleEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	n := store.created[0]
	assert.Equal(t, int64(3), n.UserID)
	assert.Equal(t, model.NotificationTypeLike, n.Type)
	require.NotNil(t, n.Link)
	assert.Equal(t, "/profile/5", *n.Link)
}

func TestHandleEventSkipsSelfEngagement(t *testing.T) {
	store := &mockNotificationStore{}
	unread := &mockUnreadCache{}
	h := NewHandler(store, unread)

	event := queue.NewPostLikedEvent(42, 3, 3, "自分の投稿")
	err := h.HandleEvent(context.Background(), event)
	require.NoError(t, err)

	assert.Empty(t, store.created)
	assert.Empty(t, unread.invalidated)
}

func TestHandleEventUnknownType(t *testing.T) {
	h := NewHandler(&mockNotificationStore{}, &mockUnreadCache{})

	err := h.HandleEvent(context.Background(), queue.EngagementEvent{Type: "bogus", ActorID: 1, OwnerID: 2})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown event type"))
}

func TestEngagementEventRoundTrip(t *testing.T) {
	event := queue.NewPostCommentedEvent(42, 100, 7, 3, "タイトル")

	values, err := event.ToMap()
	require.NoError(t, err)

	parsed, err := queue.ParseEngagementEvent(values)
	require.NoError(t, err)
	assert.Equal(t, event, parsed)
}
