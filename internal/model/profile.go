package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// Member roles
const (
	RoleBusiness = "business"
	RoleEngineer = "engineer"
	RoleDesigner = "designer"
)

// SNSLinks holds a member's social accounts, stored as JSONB.
type SNSLinks struct {
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Other     string `json:"other,omitempty"`
}

// Value implements driver.Valuer for JSONB storage.
func (l SNSLinks) Value() (driver.Value, error) {
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB retrieval.
func (l *SNSLinks) Scan(src interface{}) error {
	if src == nil {
		*l = SNSLinks{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("sns_links: expected []byte, got %T", src)
	}
	return json.Unmarshal(b, l)
}

// Profile is the public-facing identity record for a registered member,
// distinct from the User credential record. Exactly one per user.
type Profile struct {
	ID                    int64          `db:"id" json:"id"`
	UserID                int64          `db:"user_id" json:"user_id"`
	Name                  string         `db:"name" json:"name"`
	PhotoURL              *string        `db:"photo_url" json:"photo_url"`
	PhotoKey              *string        `db:"photo_key" json:"-"`
	Career                *string        `db:"career" json:"career"`
	Effort                *string        `db:"effort" json:"effort"`
	Goals                 *string        `db:"goals" json:"goals"`
	InterestedDepartments pq.StringArray `db:"interested_departments" json:"interested_departments"`
	Hobbies               *string        `db:"hobbies" json:"hobbies"`
	ReasonForCA           *string        `db:"reason_for_ca" json:"reason_for_ca"`
	SNSLinks              SNSLinks       `db:"sns_links" json:"sns_links"`
	Tags                  pq.StringArray `db:"tags" json:"tags"`
	Role                  *string        `db:"role" json:"role"` // business, engineer, designer
	MBTI                  *string        `db:"mbti" json:"mbti"`
	Birthday              *string        `db:"birthday" json:"birthday,omitempty"`
	NameRomaji            *string        `db:"name_romaji" json:"name_romaji,omitempty"`
	Nickname              *string        `db:"nickname" json:"nickname,omitempty"`
	CreatedAt             time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at" json:"updated_at"`

	// SectionsHTML carries the rendered free-text sections on detail fetch.
	SectionsHTML map[string]string `json:"sections_html,omitempty"`
}

// ProfileSummary is the lightweight joined representation attached to posts,
// comments, participants and notifications.
type ProfileSummary struct {
	ID       int64   `db:"id" json:"id"`
	UserID   int64   `db:"user_id" json:"user_id"`
	Name     string  `db:"name" json:"name"`
	PhotoURL *string `db:"photo_url" json:"photo_url"`
}

// UpdateProfileRequest carries a full profile edit. Fields not sent stay
// untouched; empty strings clear a field.
type UpdateProfileRequest struct {
	Name                  *string   `json:"name"`
	Career                *string   `json:"career"`
	Effort                *string   `json:"effort"`
	Goals                 *string   `json:"goals"`
	InterestedDepartments []string  `json:"interested_departments"`
	Hobbies               *string   `json:"hobbies"`
	ReasonForCA           *string   `json:"reason_for_ca"`
	SNSLinks              *SNSLinks `json:"sns_links"`
	Tags                  []string  `json:"tags"`
	Role                  *string   `json:"role"`
	MBTI                  *string   `json:"mbti"`
	Birthday              *string   `json:"birthday"`
	NameRomaji            *string   `json:"name_romaji"`
	Nickname              *string   `json:"nickname"`
}

// ProfileComment is a comment left on a member's profile page.
type ProfileComment struct {
	ID            int64     `db:"id" json:"id"`
	ProfileUserID int64     `db:"profile_user_id" json:"profile_user_id"`
	AuthorUserID  int64     `db:"author_user_id" json:"author_user_id"`
	Content       string    `db:"content" json:"content"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	// Joined fields
	Author    *ProfileSummary `json:"author,omitempty"`
	LikeCount int             `json:"like_count"`
	IsLiked   bool            `json:"is_liked"`
}

// DefaultProfileName seeds the profile created at registration, before the
// member fills in their page.
const DefaultProfileName = "New Member"

const MaxProfileCommentLength = 1000

var (
	ErrProfileNotFound        = errors.New("profile not found")
	ErrNotProfileOwner        = errors.New("not the owner of this profile")
	ErrProfileCommentNotFound = errors.New("profile comment not found")
	ErrInvalidRole            = errors.New("invalid role")
)

// IsValidRole reports whether the role value is one of the known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleBusiness, RoleEngineer, RoleDesigner:
		return true
	}
	return false
}
