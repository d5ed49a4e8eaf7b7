package model

import (
	"errors"
	"time"
)

// Event is a scheduled gathering. EventDate is kept as a plain YYYY-MM-DD
// string end to end so submitted values round-trip exactly.
type Event struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	EventDate   string    `db:"event_date" json:"event_date"`
	EventTime   *string   `db:"event_time" json:"event_time"`
	Location    *string   `db:"location" json:"location"`
	Organizer   *string   `db:"organizer" json:"organizer"`
	CreatedBy   *int64    `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// Joined fields
	Participants     []Participant `json:"participants,omitempty"`
	ParticipantCount int           `json:"participant_count"`
	IsJoined         bool          `json:"is_joined"`
}

// Participant is an event participation row with the member's profile
// attached. Profile is nil when the member deleted their profile; the row
// still renders.
type Participant struct {
	ID        int64     `db:"id" json:"id"`
	EventID   int64     `db:"event_id" json:"event_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`

	Profile *ProfileSummary `json:"profile"`
}

// CreateEventRequest is the request body for creating an event.
type CreateEventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventDate   string  `json:"event_date"`
	EventTime   *string `json:"event_time"`
	Location    *string `json:"location"`
	Organizer   *string `json:"organizer"`
}

var (
	ErrEventNotFound   = errors.New("event not found")
	ErrNotEventOwner   = errors.New("not the owner of this event")
	ErrAlreadyJoined   = errors.New("already joined this event")
	ErrNotJoined       = errors.New("not joined this event")
	ErrEventDateNeeded = errors.New("event date is required")
	ErrBadEventDate    = errors.New("event date must be YYYY-MM-DD")
)

// API error codes for event endpoints.
const (
	CodeAlreadyJoined = "ALREADY_JOINED"
)
