package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Four logical tables plus profiles. Log entries deliberately carry no
// foreign keys on topic_id/action_id: restructuring replaces the catalog
// without cascading into historical entries, which stay displayable through
// their stored name.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    ceo_name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS profiles (
    user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL DEFAULT '',
    photo_url TEXT NOT NULL DEFAULT '',
    onboarding_complete BOOLEAN NOT NULL DEFAULT FALSE,
    daily_checkin_time TEXT NOT NULL DEFAULT '08:00',
    topics_count INT NOT NULL DEFAULT 10
);

CREATE TABLE IF NOT EXISTS topics (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    goal TEXT NOT NULL DEFAULT '',
    target_score INT NOT NULL DEFAULT 100,
    position INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS actions (
    id TEXT PRIMARY KEY,
    topic_id TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    position INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS day_logs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    score INT NOT NULL DEFAULT 0,
    topic_scores JSONB NOT NULL DEFAULT '{}',
    completed_actions TEXT[] NOT NULL DEFAULT '{}',
    UNIQUE (user_id, date)
);

CREATE TABLE IF NOT EXISTS log_entries (
    id TEXT PRIMARY KEY,
    log_id TEXT NOT NULL REFERENCES day_logs(id) ON DELETE CASCADE,
    topic_id TEXT NOT NULL,
    action_id TEXT,
    name TEXT NOT NULL,
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    is_ad_hoc BOOLEAN NOT NULL DEFAULT FALSE
);
`

// InitPostgres opens a PostgreSQL connection, verifies it and bootstraps
// the schema.
func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}
