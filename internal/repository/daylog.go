package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lifeceo/backend/internal/models"
)

// PostgresDayLogRepository owns day-log headers and the entries scheduled
// under them. The header's score fields are a sink only: SaveHeader persists
// whatever the scoring engine derived and nothing in this repository
// computes or adjusts a score.
type PostgresDayLogRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresDayLogRepository creates a new PostgresDayLogRepository using
// the provided *sql.DB.
func NewPostgresDayLogRepository(db *sql.DB) *PostgresDayLogRepository {
	return &PostgresDayLogRepository{DB: db}
}

// GetOrCreateDayLog returns the header and entries for (userID, date),
// lazily creating a zero-score header if none exists. Creation is keyed on
// the (user_id, date) unique constraint, so concurrent or repeated calls
// never produce two headers: a lost insert race falls through to the
// follow-up select.
func (r *PostgresDayLogRepository) GetOrCreateDayLog(ctx context.Context, userID, date string) (models.DayLog, []models.LogEntry, error) {
	log, err := r.getHeader(ctx, userID, date)
	if err == models.ErrNotFound {
		_, err = r.DB.ExecContext(ctx, `
			INSERT INTO day_logs (id, user_id, date, score, topic_scores, completed_actions)
			VALUES ($1, $2, $3, 0, '{}', '{}')
			ON CONFLICT (user_id, date) DO NOTHING
		`, uuid.NewString(), userID, date)
		if err != nil {
			return models.DayLog{}, nil, fmt.Errorf("create day log: %w", err)
		}
		log, err = r.getHeader(ctx, userID, date)
	}
	if err != nil {
		return models.DayLog{}, nil, err
	}

	entries, err := r.GetEntries(ctx, log.ID)
	if err != nil {
		return models.DayLog{}, nil, err
	}
	return log, entries, nil
}

func (r *PostgresDayLogRepository) getHeader(ctx context.Context, userID, date string) (models.DayLog, error) {
	var (
		log    models.DayLog
		scores []byte
	)
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, date, score, topic_scores, completed_actions
		FROM day_logs WHERE user_id = $1 AND date = $2
	`, userID, date).Scan(&log.ID, &log.UserID, &log.Date, &log.Score, &scores, pq.Array(&log.CompletedActions))
	if err == sql.ErrNoRows {
		return models.DayLog{}, models.ErrNotFound
	}
	if err != nil {
		return models.DayLog{}, fmt.Errorf("get day log: %w", err)
	}
	if err := json.Unmarshal(scores, &log.TopicScores); err != nil {
		return models.DayLog{}, fmt.Errorf("decode topic scores: %w", err)
	}
	if log.CompletedActions == nil {
		log.CompletedActions = []string{}
	}
	return log, nil
}

// GetEntries fetches all entries of one log.
func (r *PostgresDayLogRepository) GetEntries(ctx context.Context, logID string) ([]models.LogEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, log_id, topic_id, action_id, name, is_completed, is_ad_hoc
		FROM log_entries WHERE log_id = $1
	`, logID)
	if err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	defer rows.Close()

	entries := make([]models.LogEntry, 0)
	for rows.Next() {
		var (
			e        models.LogEntry
			actionID sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.LogID, &e.TopicID, &actionID, &e.Name, &e.IsCompleted, &e.IsAdHoc); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.ActionID = actionID.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get entries: %w", err)
	}
	return entries, nil
}

// HasActionEntry reports whether the log already holds an entry for the
// given catalog action. Scheduling uses this to stay a silent no-op for
// actions already in the day.
func (r *PostgresDayLogRepository) HasActionEntry(ctx context.Context, logID, actionID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM log_entries WHERE log_id = $1 AND action_id = $2)`,
		logID, actionID,
	).Scan(&exists)
	return exists, err
}

// UpsertEntry inserts a new entry or replaces an existing one by id.
// No validation against the catalog happens here; an ad-hoc entry is always
// accepted.
func (r *PostgresDayLogRepository) UpsertEntry(ctx context.Context, e models.LogEntry) error {
	var actionID sql.NullString
	if e.ActionID != "" {
		actionID = sql.NullString{String: e.ActionID, Valid: true}
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO log_entries (id, log_id, topic_id, action_id, name, is_completed, is_ad_hoc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			topic_id = EXCLUDED.topic_id,
			action_id = EXCLUDED.action_id,
			name = EXCLUDED.name,
			is_completed = EXCLUDED.is_completed,
			is_ad_hoc = EXCLUDED.is_ad_hoc
	`, e.ID, e.LogID, e.TopicID, actionID, e.Name, e.IsCompleted, e.IsAdHoc)
	if err != nil {
		return fmt.Errorf("upsert entry: %w", err)
	}
	return nil
}

// DeleteEntry removes an entry. Deleting an absent entry is a no-op.
func (r *PostgresDayLogRepository) DeleteEntry(ctx context.Context, entryID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM log_entries WHERE id = $1`, entryID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// SaveHeader persists a recomputed header. Only the day-log service calls
// this, always with the output of a scoring recompute.
func (r *PostgresDayLogRepository) SaveHeader(ctx context.Context, log models.DayLog) error {
	scores, err := json.Marshal(log.TopicScores)
	if err != nil {
		return fmt.Errorf("encode topic scores: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		UPDATE day_logs SET score = $2, topic_scores = $3, completed_actions = $4 WHERE id = $1
	`, log.ID, log.Score, scores, pq.Array(log.CompletedActions))
	if err != nil {
		return fmt.Errorf("save header: %w", err)
	}
	return nil
}

// ListLogs returns all headers for a user ordered by date. The fixed-width
// date format makes the lexicographic order chronological.
func (r *PostgresDayLogRepository) ListLogs(ctx context.Context, userID string) ([]models.DayLog, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, date, score, topic_scores, completed_actions
		FROM day_logs WHERE user_id = $1 ORDER BY date
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.DayLog, 0)
	for rows.Next() {
		var (
			log    models.DayLog
			scores []byte
		)
		if err := rows.Scan(&log.ID, &log.UserID, &log.Date, &log.Score, &scores, pq.Array(&log.CompletedActions)); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		if err := json.Unmarshal(scores, &log.TopicScores); err != nil {
			return nil, fmt.Errorf("decode topic scores: %w", err)
		}
		if log.CompletedActions == nil {
			log.CompletedActions = []string{}
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}
