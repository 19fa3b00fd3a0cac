// Package service provides business logic for registration, the topic
// catalog, day logging and scoring, reports and backups, delegating
// persistence to repository interfaces.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lifeceo/backend/internal/models"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// UserExists returns true if a user with the given username exists.
	UserExists(ctx context.Context, username string) (bool, error)
	// CreateUser inserts a new user record.
	CreateUser(ctx context.Context, user models.User) error
	// GetUserByUsername fetches a user, models.ErrNotFound if absent.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetProfile fetches a user's profile, models.ErrNotFound if absent.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	// SaveProfile inserts or replaces a profile.
	SaveProfile(ctx context.Context, p models.Profile) error
}

// TokenIssuer issues access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// AuthService implements registration, login and profile management.
type AuthService struct {
	repo   AuthRepository
	tokens TokenIssuer
}

// NewAuthService constructs an AuthService using the provided repository and
// token issuer.
func NewAuthService(repo AuthRepository, tokens TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

// Register creates a new user with a bcrypt-hashed password.
// Returns models.ErrConflict if the username is already taken, so the caller
// can show a retry prompt instead of treating it as a failure.
func (s *AuthService) Register(ctx context.Context, username, password, ceoName string) (*models.User, error) {
	exists, err := s.repo.UserExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrConflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CEOName:      ceoName,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and issues an access token.
// A missing user and a wrong password are both reported as
// models.ErrNotFound so the response does not reveal which one it was.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return nil, "", models.ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", models.ErrNotFound
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Profile returns the user's profile, models.ErrNotFound before onboarding.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// SaveProfile persists profile edits for the given user.
func (s *AuthService) SaveProfile(ctx context.Context, p models.Profile) error {
	return s.repo.SaveProfile(ctx, p)
}
