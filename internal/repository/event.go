package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ca27people/backend/internal/model"
)

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `
	id, title, description, to_char(event_date, 'YYYY-MM-DD') AS event_date,
	event_time, location, organizer, created_by, created_at
`

// Create inserts a new event. event_date arrives validated as YYYY-MM-DD.
func (r *eventRepository) Create(ctx context.Context, e *model.Event) error {
	query := `
		INSERT INTO events (title, description, event_date, event_time, location, organizer, created_by, created_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		e.Title, e.Description, e.EventDate, e.EventTime, e.Location, e.Organizer, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	return nil
}

// GetByID retrieves a single event.
func (r *eventRepository) GetByID(ctx context.Context, eventID int64) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event model.Event
	err := r.db.GetContext(ctx, &event, query, eventID)
	if err == sql.ErrNoRows {
		return nil, model.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &event, nil
}

// List returns all events, soonest date first.
func (r *eventRepository) List(ctx context.Context) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY event_date ASC, id ASC`

	var events []model.Event
	err := r.db.SelectContext(ctx, &events, query)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

// Delete removes an event. Participations cascade in the database.
func (r *eventRepository) Delete(ctx context.Context, eventID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrEventNotFound
	}
	return nil
}

// Count returns the total number of events.
func (r *eventRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM events`)
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return count, nil
}

// Join inserts a participation row. The (event_id, user_id) pair is unique;
// a duplicate surfaces as model.ErrAlreadyJoined.
func (r *eventRepository) Join(ctx context.Context, eventID, userID int64) error {
	query := `INSERT INTO event_participants (event_id, user_id, created_at) VALUES ($1, $2, NOW())`
	_, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return model.ErrAlreadyJoined
		}
		return fmt.Errorf("insert participation: %w", err)
	}
	return nil
}

// Leave deletes a participation row. Returns ErrNotJoined if there was none.
func (r *eventRepository) Leave(ctx context.Context, eventID, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM event_participants WHERE event_id = $1 AND user_id = $2`, eventID, userID)
	if err != nil {
		return fmt.Errorf("delete participation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrNotJoined
	}
	return nil
}

// GetParticipants returns the participation rows for an event, oldest first.
// Member profiles are attached by the service from one batched lookup.
func (r *eventRepository) GetParticipants(ctx context.Context, eventID int64) ([]model.Participant, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM event_participants
		WHERE event_id = $1
		ORDER BY created_at ASC, id ASC
	`
	var participants []model.Participant
	err := r.db.SelectContext(ctx, &participants, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("get participants: %w", err)
	}
	return participants, nil
}

// CountParticipants returns participant counts for a set of events in one
// query. Events with no participants come back with a zero count.
func (r *eventRepository) CountParticipants(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int, len(eventIDs))
	for _, id := range eventIDs {
		result[id] = 0
	}
	if len(eventIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT event_id, COUNT(*) AS participant_count
		FROM event_participants
		WHERE event_id = ANY($1)
		GROUP BY event_id
	`
	rows := []struct {
		EventID          int64 `db:"event_id"`
		ParticipantCount int   `db:"participant_count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(eventIDs)); err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}

	for _, row := range rows {
		result[row.EventID] = row.ParticipantCount
	}
	return result, nil
}

// CheckJoined checks which events the user has joined.
func (r *eventRepository) CheckJoined(ctx context.Context, userID int64, eventIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(eventIDs))
	for _, id := range eventIDs {
		result[id] = false
	}
	if len(eventIDs) == 0 {
		return result, nil
	}

	query := `SELECT event_id FROM event_participants WHERE user_id = $1 AND event_id = ANY($2)`
	var joinedIDs []int64
	err := r.db.SelectContext(ctx, &joinedIDs, query, userID, pq.Array(eventIDs))
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("check joined: %w", err)
	}

	for _, id := range joinedIDs {
		result[id] = true
	}
	return result, nil
}

// DeleteParticipationsByUser removes the member's participations inside the
// deletion transaction.
func (r *eventRepository) DeleteParticipationsByUser(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM event_participants WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete participations by user: %w", err)
	}
	return nil
}
