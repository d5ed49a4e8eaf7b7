package service

import (
	"context"
	"strings"
	"time"

	"github.com/ca27people/backend/internal/join"
	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/repository"
)

// EventService handles scheduled gatherings and participation.
type EventService struct {
	repo        repository.EventRepository
	profileRepo repository.ProfileRepository
}

func NewEventService(repo repository.EventRepository, profileRepo repository.ProfileRepository) *EventService {
	return &EventService{
		repo:        repo,
		profileRepo: profileRepo,
	}
}

// List returns all events with participant counts and, for a signed-in
// viewer, whether they have joined each one.
func (s *EventService) List(ctx context.Context, viewerID *int64) ([]model.Event, error) {
	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []model.Event{}, nil
	}

	eventIDs := join.Keys(events, func(e model.Event) (int64, bool) {
		return e.ID, true
	})

	counts, err := s.repo.CountParticipants(ctx, eventIDs)
	if err != nil {
		return nil, err
	}

	var joined map[int64]bool
	if viewerID != nil {
		joined, err = s.repo.CheckJoined(ctx, *viewerID, eventIDs)
		if err != nil {
			return nil, err
		}
	}

	for i := range events {
		events[i].ParticipantCount = counts[events[i].ID]
		if joined != nil {
			events[i].IsJoined = joined[events[i].ID]
		}
	}

	return events, nil
}

// Get retrieves one event with the participant list, each participant
// carrying their profile summary. A participant whose profile is gone still
// appears, with a nil profile.
func (s *EventService) Get(ctx context.Context, eventID int64, viewerID *int64) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.GetParticipants(ctx, eventID)
	if err != nil {
		return nil, err
	}

	userIDs := join.Keys(participants, func(p model.Participant) (int64, bool) {
		return p.UserID, true
	})

	summaries, err := s.profileRepo.GetSummariesByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	join.Attach(participants, summaries,
		func(p model.Participant) (int64, bool) { return p.UserID, true },
		func(ps model.ProfileSummary) int64 { return ps.UserID },
		func(p *model.Participant, ps *model.ProfileSummary) { p.Profile = ps },
	)

	event.Participants = participants
	event.ParticipantCount = len(participants)

	if viewerID != nil {
		for _, p := range participants {
			if p.UserID == *viewerID {
				event.IsJoined = true
				break
			}
		}
	}

	return event, nil
}

// Create validates and stores a new event.
func (s *EventService) Create(ctx context.Context, actorID int64, req *model.CreateEventRequest) (*model.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.ErrTitleRequired
	}

	if req.EventDate == "" {
		return nil, model.ErrEventDateNeeded
	}
	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		return nil, model.ErrBadEventDate
	}

	event := &model.Event{
		Title:       title,
		Description: req.Description,
		EventDate:   req.EventDate,
		EventTime:   req.EventTime,
		Location:    req.Location,
		Organizer:   req.Organizer,
		CreatedBy:   &actorID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Delete removes an event. Only the creator or an admin may delete.
func (s *EventService) Delete(ctx context.Context, actorID int64, isAdmin bool, eventID int64) error {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if !isAdmin && (event.CreatedBy == nil || *event.CreatedBy != actorID) {
		return model.ErrNotEventOwner
	}

	return s.repo.Delete(ctx, eventID)
}

// Join registers the member for an event.
func (s *EventService) Join(ctx context.Context, eventID, actorID int64) error {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Join(ctx, eventID, actorID)
}

// Leave withdraws the member from an event.
func (s *EventService) Leave(ctx context.Context, eventID, actorID int64) error {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return err
	}
	return s.repo.Leave(ctx, eventID, actorID)
}
