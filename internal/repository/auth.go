// Package repository provides PostgreSQL persistence for users, the topic
// catalog, day logs and full backups. Each repository wraps a *sql.DB and
// owns the SQL for one slice of the schema.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lifeceo/backend/internal/models"
)

// PostgresAuthRepository implements user persistence against PostgreSQL.
type PostgresAuthRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAuthRepository creates a new PostgresAuthRepository with the
// given database connection.
func NewPostgresAuthRepository(db *sql.DB) *PostgresAuthRepository {
	return &PostgresAuthRepository{DB: db}
}

// UserExists checks whether a user with the specified username exists.
func (r *PostgresAuthRepository) UserExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		username,
	).Scan(&exists)
	return exists, err
}

// CreateUser inserts a new user record. Username uniqueness is enforced by
// the schema; callers are expected to check UserExists first and treat a
// duplicate as models.ErrConflict.
func (r *PostgresAuthRepository) CreateUser(ctx context.Context, user models.User) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (id, username, password_hash, ceo_name) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.PasswordHash, user.CEOName,
	)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUserByUsername fetches a user by username.
// Returns models.ErrNotFound if no such user exists.
func (r *PostgresAuthRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, username, password_hash, ceo_name FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CEOName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &u, nil
}

// GetProfile fetches the profile of the given user.
// Returns models.ErrNotFound if the user has no profile yet (onboarding not
// started).
func (r *PostgresAuthRepository) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id, name, photo_url, onboarding_complete, daily_checkin_time, topics_count
		FROM profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.Name, &p.PhotoURL, &p.OnboardingComplete, &p.DailyCheckInTime, &p.TopicsCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// SaveProfile inserts or replaces the profile of a user.
func (r *PostgresAuthRepository) SaveProfile(ctx context.Context, p models.Profile) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO profiles (user_id, name, photo_url, onboarding_complete, daily_checkin_time, topics_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			photo_url = EXCLUDED.photo_url,
			onboarding_complete = EXCLUDED.onboarding_complete,
			daily_checkin_time = EXCLUDED.daily_checkin_time,
			topics_count = EXCLUDED.topics_count
	`, p.UserID, p.Name, p.PhotoURL, p.OnboardingComplete, p.DailyCheckInTime, p.TopicsCount)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
