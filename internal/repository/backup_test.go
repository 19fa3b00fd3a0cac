package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/lifeceo/backend/internal/models"
)

func setupBackupMock(t *testing.T) (*PostgresBackupRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresBackupRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestSnapshot_ReadsAllTables(t *testing.T) {
	repo, mock, cleanup := setupBackupMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, ceo_name FROM users`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "ceo_name"}).
			AddRow("u1", "user1", "hash", "Ana"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM profiles`)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "photo_url", "onboarding_complete", "daily_checkin_time", "topics_count"}).
			AddRow("u1", "Ana", "", true, "08:00", 10))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, name, goal, target_score FROM topics`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "goal", "target_score"}).
			AddRow("t1", "u1", "Health", "", 100))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, topic_id, name FROM actions`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "topic_id", "name"}).
			AddRow("a1", "t1", "Run"))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM day_logs`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "score", "topic_scores", "completed_actions"}).
			AddRow("log1", "u1", "2024-05-01", 100, []byte(`{"t1":100}`), []byte(`{2024-05-01-a1}`)))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM log_entries`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "log_id", "topic_id", "action_id", "name", "is_completed", "is_ad_hoc"}).
			AddRow("e1", "log1", "t1", "a1", "Run", true, false))

	b, err := repo.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Users) != 1 || len(b.Profiles) != 1 || len(b.DayLogs) != 1 || len(b.LogEntries) != 1 {
		t.Errorf("snapshot incomplete: %+v", b)
	}
	if len(b.Topics) != 1 || len(b.Topics[0].Actions) != 1 {
		t.Errorf("topic actions not nested: %+v", b.Topics)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRestore_RollsBackOnFailure(t *testing.T) {
	repo, mock, cleanup := setupBackupMock(t)
	defer cleanup()

	b := &models.Backup{
		Users:   []models.User{{ID: "u1", Username: "user1"}},
		Version: models.BackupVersion,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	if err := repo.Restore(context.Background(), b); err == nil {
		t.Errorf("expected error, got nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRestore_WritesEverythingInOneTx(t *testing.T) {
	repo, mock, cleanup := setupBackupMock(t)
	defer cleanup()

	b := &models.Backup{
		Users:    []models.User{{ID: "u1", Username: "user1", PasswordHash: "hash"}},
		Profiles: []models.Profile{{UserID: "u1", Name: "Ana", DailyCheckInTime: "08:00", TopicsCount: 10}},
		Topics: []models.Topic{{ID: "t1", UserID: "u1", Name: "Health",
			Actions: []models.SubAction{{ID: "a1", TopicID: "t1", Name: "Run"}}}},
		DayLogs: []models.DayLog{{ID: "log1", UserID: "u1", Date: "2024-05-01", Score: 100,
			TopicScores: map[string]float64{"t1": 100}, CompletedActions: []string{"2024-05-01-a1"}}},
		LogEntries: []models.LogEntry{{ID: "e1", LogID: "log1", TopicID: "t1", ActionID: "a1", Name: "Run", IsCompleted: true}},
		Version:    models.BackupVersion,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM users`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO profiles`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO topics`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO actions`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO day_logs`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO log_entries`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Restore(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
