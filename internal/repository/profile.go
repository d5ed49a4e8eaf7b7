package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ca27people/backend/internal/model"
)

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `
	id, user_id, name, photo_url, photo_key, career, effort, goals,
	interested_departments, hobbies, reason_for_ca, sns_links, tags,
	role, mbti, birthday, name_romaji, nickname, created_at, updated_at
`

// Create inserts the seed profile for a new member. Runs inside the
// registration transaction together with the user insert.
func (r *profileRepository) Create(ctx context.Context, tx *sqlx.Tx, p *model.Profile) error {
	query := `
		INSERT INTO profiles (user_id, name, sns_links, tags, interested_departments, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	if p.Tags == nil {
		p.Tags = pq.StringArray{}
	}
	if p.InterestedDepartments == nil {
		p.InterestedDepartments = pq.StringArray{}
	}

	err := tx.QueryRowxContext(ctx, query, p.UserID, p.Name, p.SNSLinks, p.Tags, p.InterestedDepartments).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			// One profile per user; a second insert means the caller raced.
			return fmt.Errorf("profile already exists for user %d: %w", p.UserID, err)
		}
		return fmt.Errorf("insert profile: %w", err)
	}

	return nil
}

// GetByUserID retrieves a member's profile.
func (r *profileRepository) GetByUserID(ctx context.Context, userID int64) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	var p model.Profile
	err := r.db.GetContext(ctx, &p, query, userID)
	if err == sql.ErrNoRows {
		return nil, model.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

// List returns the whole member directory, newest first.
func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles ORDER BY created_at DESC`

	var profiles []model.Profile
	err := r.db.SelectContext(ctx, &profiles, query)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	return profiles, nil
}

// GetSummariesByUserIDs fetches the join-target summaries for a set of
// members in one query.
func (r *profileRepository) GetSummariesByUserIDs(ctx context.Context, userIDs []int64) ([]model.ProfileSummary, error) {
	if len(userIDs) == 0 {
		return []model.ProfileSummary{}, nil
	}

	query := `
		SELECT id, user_id, name, photo_url
		FROM profiles
		WHERE user_id = ANY($1)
	`

	var summaries []model.ProfileSummary
	err := r.db.SelectContext(ctx, &summaries, query, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("get profile summaries: %w", err)
	}

	return summaries, nil
}

// Update writes the full editable field set.
func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	query := `
		UPDATE profiles
		SET name = $1, career = $2, effort = $3, goals = $4,
		    interested_departments = $5, hobbies = $6, reason_for_ca = $7,
		    sns_links = $8, tags = $9, role = $10, mbti = $11,
		    birthday = $12, name_romaji = $13, nickname = $14,
		    updated_at = NOW()
		WHERE user_id = $15
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.Career, p.Effort, p.Goals,
		p.InterestedDepartments, p.Hobbies, p.ReasonForCA,
		p.SNSLinks, p.Tags, p.Role, p.MBTI,
		p.Birthday, p.NameRomaji, p.Nickname,
		p.UserID,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	return nil
}

// UpdatePhoto stores the uploaded photo location.
func (r *profileRepository) UpdatePhoto(ctx context.Context, userID int64, photoURL, photoKey string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET photo_url = $1, photo_key = $2, updated_at = NOW()
		WHERE user_id = $3
	`, photoURL, photoKey, userID)
	if err != nil {
		return fmt.Errorf("update profile photo: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rows == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// DeleteByUserID removes the member's profile inside the deletion transaction.
func (r *profileRepository) DeleteByUserID(ctx context.Context, tx *sqlx.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}
