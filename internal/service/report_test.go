package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifeceo/backend/internal/models"
	"github.com/lifeceo/backend/internal/service"
)

type mockLogSource struct {
	ListLogsFunc func(ctx context.Context, userID string) ([]models.DayLog, error)
}

func (m *mockLogSource) ListLogs(ctx context.Context, userID string) ([]models.DayLog, error) {
	return m.ListLogsFunc(ctx, userID)
}

func TestBuild_GeneralAndTopicSheets(t *testing.T) {
	// Two topics configured (topicsCount=2), so each contributes up to 50.
	logs := &mockLogSource{
		ListLogsFunc: func(context.Context, string) ([]models.DayLog, error) {
			return []models.DayLog{
				{
					ID: "log1", UserID: "u1", Date: "2024-05-01", Score: 75,
					TopicScores:      map[string]float64{"t1": 50, "t2": 25},
					CompletedActions: []string{"2024-05-01-a1", "2024-05-01-a3"},
				},
			}, nil
		},
	}
	catalog := &mockCatalog{
		ListTopicsFunc: func(context.Context, string) ([]models.Topic, error) {
			return []models.Topic{
				{ID: "t1", Name: "Health", Actions: []models.SubAction{
					{ID: "a1", TopicID: "t1", Name: "Run"},
					{ID: "a2", TopicID: "t1", Name: "Sleep 8h"},
				}},
				{ID: "t2", Name: "Work", Actions: []models.SubAction{
					{ID: "a3", TopicID: "t2", Name: "Inbox zero"},
				}},
			}, nil
		},
	}

	svc := service.NewReportService(logs, catalog, profileWithCount(2))
	report, err := svc.Build(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, report.General, 1)
	row := report.General[0]
	assert.Equal(t, "7.5", row.Grade)
	assert.Equal(t, 75, row.Score)
	// 50 of a possible 50 is a full 10, 25 of 50 is a 5.
	assert.InDelta(t, 10, row.TopicGrades["Health"], 1e-9)
	assert.InDelta(t, 5, row.TopicGrades["Work"], 1e-9)

	require.Len(t, report.Topics, 2)
	health := report.Topics[0]
	assert.Equal(t, "Health", health.TopicName)
	require.Len(t, health.Rows, 1)
	// Only a1 is in the ledger for Health; a2 was not completed.
	assert.Equal(t, []string{"Run"}, health.Rows[0].CompletedActions)
	assert.InDelta(t, 10, health.Rows[0].Grade, 1e-9)

	work := report.Topics[1]
	assert.Equal(t, []string{"Inbox zero"}, work.Rows[0].CompletedActions)
}

func TestBuild_EmptyHistory(t *testing.T) {
	logs := &mockLogSource{
		ListLogsFunc: func(context.Context, string) ([]models.DayLog, error) {
			return nil, nil
		},
	}
	catalog := &mockCatalog{
		ListTopicsFunc: func(context.Context, string) ([]models.Topic, error) {
			return []models.Topic{{ID: "t1", Name: "Health"}}, nil
		},
	}

	svc := service.NewReportService(logs, catalog, profileWithCount(1))
	report, err := svc.Build(context.Background(), "u1")
	require.NoError(t, err)

	assert.Empty(t, report.General)
	require.Len(t, report.Topics, 1)
	assert.Empty(t, report.Topics[0].Rows)
}

func TestBuild_RenamedActionKeepsLedgerMatch(t *testing.T) {
	// The ledger stores actionIds, not names, so a renamed action still shows
	// up in history under its current name.
	logs := &mockLogSource{
		ListLogsFunc: func(context.Context, string) ([]models.DayLog, error) {
			return []models.DayLog{{
				ID: "log1", UserID: "u1", Date: "2024-05-01", Score: 100,
				TopicScores:      map[string]float64{"t1": 100},
				CompletedActions: []string{"2024-05-01-a1"},
			}}, nil
		},
	}
	catalog := &mockCatalog{
		ListTopicsFunc: func(context.Context, string) ([]models.Topic, error) {
			return []models.Topic{{ID: "t1", Name: "Health", Actions: []models.SubAction{
				{ID: "a1", TopicID: "t1", Name: "Morning run"},
			}}}, nil
		},
	}

	svc := service.NewReportService(logs, catalog, profileWithCount(1))
	report, err := svc.Build(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, report.Topics, 1)
	require.Len(t, report.Topics[0].Rows, 1)
	assert.Equal(t, []string{"Morning run"}, report.Topics[0].Rows[0].CompletedActions)
}
