package service

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ca27people/backend/internal/model"
)

type mockEventRepository struct {
	createFn            func(ctx context.Context, event *model.Event) error
	getByIDFn           func(ctx context.Context, eventID int64) (*model.Event, error)
	listFn              func(ctx context.Context) ([]model.Event, error)
	deleteFn            func(ctx context.Context, eventID int64) error
	joinFn              func(ctx context.Context, eventID, userID int64) error
	leaveFn             func(ctx context.Context, eventID, userID int64) error
	getParticipantsFn   func(ctx context.Context, eventID int64) ([]model.Participant, error)
	countParticipantsFn func(ctx context.Context, eventIDs []int64) (map[int64]int, error)
	checkJoinedFn       func(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error)
}

func (m *mockEventRepository) Create(ctx context.Context, event *model.Event) error {
	if m.createFn != nil {
		return m.createFn(ctx, event)
	}
	event.ID = 1
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, eventID int64) (*model.Event, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, eventID)
	}
	return nil, model.ErrEventNotFound
}

func (m *mockEventRepository) List(ctx context.Context) ([]model.Event, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockEventRepository) Delete(ctx context.Context, eventID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, eventID)
	}
	return nil
}

func (m *mockEventRepository) Count(ctx context.Context) (int, error) { return 0, nil }

func (m *mockEventRepository) Join(ctx context.Context, eventID, userID int64) error {
	if m.joinFn != nil {
		return m.joinFn(ctx, eventID, userID)
	}
	return nil
}

func (m *mockEventRepository) Leave(ctx context.Context, eventID, userID int64) error {
	if m.leaveFn != nil {
		return m.leaveFn(ctx, eventID, userID)
	}
	return nil
}

func (m *mockEventRepository) GetParticipants(ctx context.Context, eventID int64) ([]model.Participant, error) {
	if m.getParticipantsFn != nil {
		return m.getParticipantsFn(ctx, eventID)
	}
	return nil, nil
}

func (m *mockEventRepository) CountParticipants(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	if m.countParticipantsFn != nil {
		return m.countParticipantsFn(ctx, eventIDs)
	}
	counts := make(map[int64]int, len(eventIDs))
	for _, id := range eventIDs {
		counts[id] = 0
	}
	return counts, nil
}

func (m *mockEventRepository) CheckJoined(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error) {
	if m.checkJoinedFn != nil {
		return m.checkJoinedFn(ctx, userID, eventIDs)
	}
	joined := make(map[int64]bool, len(eventIDs))
	for _, id := range eventIDs {
		joined[id] = false
	}
	return joined, nil
}

func (m *mockEventRepository) DeleteParticipationsByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	return nil
}

func TestEventService_Create_DateValidation(t *testing.T) {
	svc := NewEventService(&mockEventRepository{}, &mockProfileRepository{})
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &model.CreateEventRequest{Title: "BBQ"})
	assert.ErrorIs(t, err, model.ErrEventDateNeeded)

	_, err = svc.Create(ctx, 1, &model.CreateEventRequest{Title: "BBQ", EventDate: "2026/09/01"})
	assert.ErrorIs(t, err, model.ErrBadEventDate)

	_, err = svc.Create(ctx, 1, &model.CreateEventRequest{Title: "BBQ", EventDate: "2026-02-30"})
	assert.ErrorIs(t, err, model.ErrBadEventDate)

	event, err := svc.Create(ctx, 1, &model.CreateEventRequest{Title: "BBQ", EventDate: "2026-09-01"})
	require.NoError(t, err)
	// The submitted date round-trips exactly as entered.
	assert.Equal(t, "2026-09-01", event.EventDate)
}

func TestEventService_List_AttachesCountsAndJoinedFlags(t *testing.T) {
	repo := &mockEventRepository{
		listFn: func(ctx context.Context) ([]model.Event, error) {
			return []model.Event{
				{ID: 1, Title: "BBQ", EventDate: "2026-09-01"},
				{ID: 2, Title: "LT会", EventDate: "2026-09-15"},
			}, nil
		},
		countParticipantsFn: func(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
			return map[int64]int{1: 5, 2: 0}, nil
		},
		checkJoinedFn: func(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error) {
			return map[int64]bool{1: true, 2: false}, nil
		},
	}
	svc := NewEventService(repo, &mockProfileRepository{})

	viewerID := int64(7)
	events, err := svc.List(context.Background(), &viewerID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, 5, events[0].ParticipantCount)
	assert.True(t, events[0].IsJoined)
	assert.Equal(t, 0, events[1].ParticipantCount)
	assert.False(t, events[1].IsJoined)
}

func TestEventService_Get_ParticipantWithoutProfileStillRenders(t *testing.T) {
	repo := &mockEventRepository{
		getByIDFn: func(ctx context.Context, eventID int64) (*model.Event, error) {
			return &model.Event{ID: 1, Title: "BBQ", EventDate: "2026-09-01"}, nil
		},
		getParticipantsFn: func(ctx context.Context, eventID int64) ([]model.Participant, error) {
			return []model.Participant{
				{ID: 1, EventID: 1, UserID: 7},
				{ID: 2, EventID: 1, UserID: 8},
			}, nil
		},
	}
	profileRepo := &mockProfileRepository{
		getSummariesByUserIDsFn: func(ctx context.Context, userIDs []int64) ([]model.ProfileSummary, error) {
			// Member 8 has no profile row anymore.
			return []model.ProfileSummary{{ID: 700, UserID: 7, Name: "佐藤"}}, nil
		},
	}
	svc := NewEventService(repo, profileRepo)

	viewerID := int64(7)
	event, err := svc.Get(context.Background(), 1, &viewerID)
	require.NoError(t, err)

	require.Len(t, event.Participants, 2)
	require.NotNil(t, event.Participants[0].Profile)
	assert.Equal(t, "佐藤", event.Participants[0].Profile.Name)
	assert.Nil(t, event.Participants[1].Profile)
	assert.Equal(t, 2, event.ParticipantCount)
	assert.True(t, event.IsJoined)
}

func TestEventService_Delete_OwnershipChecks(t *testing.T) {
	creator := int64(10)
	repo := &mockEventRepository{
		getByIDFn: func(ctx context.Context, eventID int64) (*model.Event, error) {
			return &model.Event{ID: 1, Title: "BBQ", CreatedBy: &creator}, nil
		},
	}
	svc := NewEventService(repo, &mockProfileRepository{})
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, 99, false, 1), model.ErrNotEventOwner)
	assert.NoError(t, svc.Delete(ctx, 10, false, 1))
	assert.NoError(t, svc.Delete(ctx, 99, true, 1))
}

func TestEventService_Join_DuplicateSurfaces(t *testing.T) {
	repo := &mockEventRepository{
		getByIDFn: func(ctx context.Context, eventID int64) (*model.Event, error) {
			return &model.Event{ID: 1, Title: "BBQ"}, nil
		},
		joinFn: func(ctx context.Context, eventID, userID int64) error {
			return model.ErrAlreadyJoined
		},
	}
	svc := NewEventService(repo, &mockProfileRepository{})

	assert.ErrorIs(t, svc.Join(context.Background(), 1, 7), model.ErrAlreadyJoined)
}
