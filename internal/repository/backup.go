package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/lifeceo/backend/internal/models"
)

// PostgresBackupRepository reads and writes full snapshots of all tables.
// Import runs in a single transaction so a failed restore leaves the store
// untouched.
type PostgresBackupRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresBackupRepository creates a new PostgresBackupRepository using
// the provided *sql.DB.
func NewPostgresBackupRepository(db *sql.DB) *PostgresBackupRepository {
	return &PostgresBackupRepository{DB: db}
}

// Snapshot reads every table into a Backup. Version and Timestamp are left
// for the service to stamp.
func (r *PostgresBackupRepository) Snapshot(ctx context.Context) (*models.Backup, error) {
	b := &models.Backup{
		Users:      []models.User{},
		Profiles:   []models.Profile{},
		Topics:     []models.Topic{},
		DayLogs:    []models.DayLog{},
		LogEntries: []models.LogEntry{},
	}

	if err := r.snapshotUsers(ctx, b); err != nil {
		return nil, err
	}
	if err := r.snapshotProfiles(ctx, b); err != nil {
		return nil, err
	}
	if err := r.snapshotTopics(ctx, b); err != nil {
		return nil, err
	}
	if err := r.snapshotDayLogs(ctx, b); err != nil {
		return nil, err
	}
	if err := r.snapshotLogEntries(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *PostgresBackupRepository) snapshotUsers(ctx context.Context, b *models.Backup) error {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, username, password_hash, ceo_name FROM users`)
	if err != nil {
		return fmt.Errorf("snapshot users: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CEOName); err != nil {
			return fmt.Errorf("scan user: %w", err)
		}
		b.Users = append(b.Users, u)
	}
	return rows.Err()
}

func (r *PostgresBackupRepository) snapshotProfiles(ctx context.Context, b *models.Backup) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, name, photo_url, onboarding_complete, daily_checkin_time, topics_count FROM profiles
	`)
	if err != nil {
		return fmt.Errorf("snapshot profiles: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.UserID, &p.Name, &p.PhotoURL, &p.OnboardingComplete, &p.DailyCheckInTime, &p.TopicsCount); err != nil {
			return fmt.Errorf("scan profile: %w", err)
		}
		b.Profiles = append(b.Profiles, p)
	}
	return rows.Err()
}

func (r *PostgresBackupRepository) snapshotTopics(ctx context.Context, b *models.Backup) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, goal, target_score FROM topics ORDER BY user_id, position
	`)
	if err != nil {
		return fmt.Errorf("snapshot topics: %w", err)
	}
	defer rows.Close()
	index := make(map[string]int)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Goal, &t.TargetScore); err != nil {
			return fmt.Errorf("scan topic: %w", err)
		}
		t.Actions = []models.SubAction{}
		index[t.ID] = len(b.Topics)
		b.Topics = append(b.Topics, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	actionRows, err := r.DB.QueryContext(ctx, `
		SELECT id, topic_id, name FROM actions ORDER BY topic_id, position
	`)
	if err != nil {
		return fmt.Errorf("snapshot actions: %w", err)
	}
	defer actionRows.Close()
	for actionRows.Next() {
		var a models.SubAction
		if err := actionRows.Scan(&a.ID, &a.TopicID, &a.Name); err != nil {
			return fmt.Errorf("scan action: %w", err)
		}
		if i, ok := index[a.TopicID]; ok {
			b.Topics[i].Actions = append(b.Topics[i].Actions, a)
		}
	}
	return actionRows.Err()
}

func (r *PostgresBackupRepository) snapshotDayLogs(ctx context.Context, b *models.Backup) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, date, score, topic_scores, completed_actions FROM day_logs ORDER BY date
	`)
	if err != nil {
		return fmt.Errorf("snapshot day logs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			log    models.DayLog
			scores []byte
		)
		if err := rows.Scan(&log.ID, &log.UserID, &log.Date, &log.Score, &scores, pq.Array(&log.CompletedActions)); err != nil {
			return fmt.Errorf("scan day log: %w", err)
		}
		if err := json.Unmarshal(scores, &log.TopicScores); err != nil {
			return fmt.Errorf("decode topic scores: %w", err)
		}
		if log.CompletedActions == nil {
			log.CompletedActions = []string{}
		}
		b.DayLogs = append(b.DayLogs, log)
	}
	return rows.Err()
}

func (r *PostgresBackupRepository) snapshotLogEntries(ctx context.Context, b *models.Backup) error {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, log_id, topic_id, action_id, name, is_completed, is_ad_hoc FROM log_entries
	`)
	if err != nil {
		return fmt.Errorf("snapshot log entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			e        models.LogEntry
			actionID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.LogID, &e.TopicID, &actionID, &e.Name, &e.IsCompleted, &e.IsAdHoc); err != nil {
			return fmt.Errorf("scan log entry: %w", err)
		}
		e.ActionID = actionID.String
		b.LogEntries = append(b.LogEntries, e)
	}
	return rows.Err()
}

// Restore replaces the entire store with the snapshot's contents inside one
// transaction. Any failure rolls everything back; there are no partial
// imports.
func (r *PostgresBackupRepository) Restore(ctx context.Context, b *models.Backup) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Deleting users cascades through profiles, topics, actions, day logs
	// and entries.
	if _, err := tx.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}

	for _, u := range b.Users {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, password_hash, ceo_name) VALUES ($1, $2, $3, $4)
		`, u.ID, u.Username, u.PasswordHash, u.CEOName)
		if err != nil {
			return fmt.Errorf("restore user: %w", err)
		}
	}

	for _, p := range b.Profiles {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, name, photo_url, onboarding_complete, daily_checkin_time, topics_count)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.UserID, p.Name, p.PhotoURL, p.OnboardingComplete, p.DailyCheckInTime, p.TopicsCount)
		if err != nil {
			return fmt.Errorf("restore profile: %w", err)
		}
	}

	for pos, t := range b.Topics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO topics (id, user_id, name, goal, target_score, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, t.ID, t.UserID, t.Name, t.Goal, t.TargetScore, pos)
		if err != nil {
			return fmt.Errorf("restore topic: %w", err)
		}
		for apos, a := range t.Actions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO actions (id, topic_id, name, position) VALUES ($1, $2, $3, $4)
			`, a.ID, t.ID, a.Name, apos)
			if err != nil {
				return fmt.Errorf("restore action: %w", err)
			}
		}
	}

	for _, log := range b.DayLogs {
		scores, err := json.Marshal(log.TopicScores)
		if err != nil {
			return fmt.Errorf("encode topic scores: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO day_logs (id, user_id, date, score, topic_scores, completed_actions)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, log.ID, log.UserID, log.Date, log.Score, scores, pq.Array(log.CompletedActions))
		if err != nil {
			return fmt.Errorf("restore day log: %w", err)
		}
	}

	for _, e := range b.LogEntries {
		var actionID sql.NullString
		if e.ActionID != "" {
			actionID = sql.NullString{String: e.ActionID, Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO log_entries (id, log_id, topic_id, action_id, name, is_completed, is_ad_hoc)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, e.ID, e.LogID, e.TopicID, actionID, e.Name, e.IsCompleted, e.IsAdHoc)
		if err != nil {
			return fmt.Errorf("restore log entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
