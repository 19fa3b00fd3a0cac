package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/lifeceo/backend/internal/models"
)

// PostgresCatalogRepository owns topics and their action banks.
// It never touches day logs or entries: restructuring replaces the catalog
// and deliberately leaves historical entries dangling, displayable through
// their stored name.
type PostgresCatalogRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCatalogRepository creates a new PostgresCatalogRepository using
// the provided *sql.DB.
func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{DB: db}
}

// ListTopics returns the user's topics in configured order, each with its
// full action bank. An empty slice is a valid result; models.ErrNotFound is
// returned only when the user itself does not exist.
func (r *PostgresCatalogRepository) ListTopics(ctx context.Context, userID string) ([]models.Topic, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, models.ErrNotFound
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, name, goal, target_score FROM topics
		WHERE user_id = $1 ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]models.Topic, 0)
	index := make(map[string]int)
	ids := make([]string, 0)
	for rows.Next() {
		var t models.Topic
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Goal, &t.TargetScore); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		t.Actions = []models.SubAction{}
		index[t.ID] = len(topics)
		ids = append(ids, t.ID)
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if len(topics) == 0 {
		return topics, nil
	}

	actionRows, err := r.DB.QueryContext(ctx, `
		SELECT id, topic_id, name FROM actions
		WHERE topic_id = ANY($1) ORDER BY topic_id, position
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer actionRows.Close()

	for actionRows.Next() {
		var a models.SubAction
		if err := actionRows.Scan(&a.ID, &a.TopicID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		if i, ok := index[a.TopicID]; ok {
			topics[i].Actions = append(topics[i].Actions, a)
		}
	}
	if err := actionRows.Err(); err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}

	return topics, nil
}

// ReplaceTopics atomically replaces the user's entire topic set. Used by
// onboarding completion and restructuring. Log entries referencing removed
// action ids are left untouched.
func (r *PostgresCatalogRepository) ReplaceTopics(ctx context.Context, userID string, topics []models.Topic) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Cascades into actions, not into log entries.
	if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete topics: %w", err)
	}

	for pos, t := range topics {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO topics (id, user_id, name, goal, target_score, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, t.ID, userID, t.Name, t.Goal, t.TargetScore, pos)
		if err != nil {
			return fmt.Errorf("insert topic: %w", err)
		}
		if err := insertActions(ctx, tx, t.ID, t.Actions); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// UpdateTopic edits name, goal, targetScore and the action bank of one topic
// in place, preserving its id and ownership.
func (r *PostgresCatalogRepository) UpdateTopic(ctx context.Context, topic models.Topic) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE topics SET name = $2, goal = $3, target_score = $4 WHERE id = $1
	`, topic.ID, topic.Name, topic.Goal, topic.TargetScore)
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM actions WHERE topic_id = $1`, topic.ID); err != nil {
		return fmt.Errorf("delete actions: %w", err)
	}
	if err := insertActions(ctx, tx, topic.ID, topic.Actions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertActions(ctx context.Context, tx *sql.Tx, topicID string, actions []models.SubAction) error {
	for pos, a := range actions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO actions (id, topic_id, name, position)
			VALUES ($1, $2, $3, $4)
		`, a.ID, topicID, a.Name, pos)
		if err != nil {
			return fmt.Errorf("insert action: %w", err)
		}
	}
	return nil
}
