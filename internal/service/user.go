package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/ca27people/backend/internal/model"
	"github.com/ca27people/backend/internal/repository"
)

// UserService handles registration and login. Registration seeds an empty
// profile in the same transaction as the credential row, so every member
// has a directory page from the first login.
type UserService struct {
	db          *sqlx.DB
	repo        repository.UserRepository
	profileRepo repository.ProfileRepository
}

func NewUserService(db *sqlx.DB, repo repository.UserRepository, profileRepo repository.ProfileRepository) *UserService {
	return &UserService{
		db:          db,
		repo:        repo,
		profileRepo: profileRepo,
	}
}

// Register creates a new member account plus their seed profile.
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if len(req.Password) < model.MinPasswordLength {
		return nil, model.ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin registration: %w", err)
	}
	defer tx.Rollback()

	if err := s.repo.Create(ctx, tx, user); err != nil {
		return nil, err
	}

	profile := &model.Profile{
		UserID: user.ID,
		Name:   model.DefaultProfileName,
	}
	if err := s.profileRepo.Create(ctx, tx, profile); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit registration: %w", err)
	}

	return user, nil
}

// Login authenticates a member with email and password.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Don't reveal whether the email is registered
		return nil, model.ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}

// GetByID retrieves a member by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.GetByID(ctx, id)
}
