package service

import (
	"context"
	"fmt"

	"github.com/lifeceo/backend/internal/models"
	"github.com/lifeceo/backend/internal/scoring"
)

// GeneralRow is one line of the overview sheet: the day's grade on the
// familiar 0-10 scale next to the raw 0-100 score and the per-topic grades.
type GeneralRow struct {
	Date string `json:"date"`
	// Grade is score/10 with one decimal, e.g. "7.3".
	Grade string `json:"grade"`
	Score int    `json:"score"`
	// TopicGrades maps topic name to its 0-10 grade for that day.
	TopicGrades map[string]float64 `json:"topicGrades"`
}

// TopicRow is one line of a per-topic sheet.
type TopicRow struct {
	Date string `json:"date"`
	// Grade is the topic's 0-10 grade for that day.
	Grade float64 `json:"grade"`
	// CompletedActions are the names of the topic's catalog actions completed
	// that day, reconstructed through the "{date}-{actionId}" ledger.
	CompletedActions []string `json:"completedActions"`
}

// TopicSheet groups the rows of one topic.
type TopicSheet struct {
	TopicID   string     `json:"topicId"`
	TopicName string     `json:"topicName"`
	Rows      []TopicRow `json:"rows"`
}

// Report is the typed payload the spreadsheet collaborator renders.
type Report struct {
	General []GeneralRow `json:"general"`
	Topics  []TopicSheet `json:"topics"`
}

// LogSource supplies day headers for the report.
type LogSource interface {
	ListLogs(ctx context.Context, userID string) ([]models.DayLog, error)
}

// ReportService assembles export data from logs and the catalog. The stored
// topicScores sit on the 0-100 contribution scale; conversion to the 0-10
// display scale happens here, at the boundary, and nowhere else.
type ReportService struct {
	logs     LogSource
	catalog  CatalogSource
	profiles ProfileSource
}

// NewReportService constructs a ReportService.
func NewReportService(logs LogSource, catalog CatalogSource, profiles ProfileSource) *ReportService {
	return &ReportService{logs: logs, catalog: catalog, profiles: profiles}
}

// Build assembles the full report for a user, one general row per day plus
// one sheet per topic.
func (s *ReportService) Build(ctx context.Context, userID string) (*Report, error) {
	logs, err := s.logs.ListLogs(ctx, userID)
	if err != nil {
		return nil, err
	}
	topics, err := s.catalog.ListTopics(ctx, userID)
	if err != nil {
		return nil, err
	}

	topicsCount := len(topics)
	if profile, err := s.profiles.GetProfile(ctx, userID); err == nil && profile.TopicsCount > 0 {
		topicsCount = profile.TopicsCount
	}

	report := &Report{General: []GeneralRow{}, Topics: []TopicSheet{}}

	for _, log := range logs {
		row := GeneralRow{
			Date:        log.Date,
			Grade:       fmt.Sprintf("%.1f", float64(log.Score)/10),
			Score:       log.Score,
			TopicGrades: make(map[string]float64, len(topics)),
		}
		for _, t := range topics {
			row.TopicGrades[t.Name] = topicGrade(log.TopicScores[t.ID], topicsCount)
		}
		report.General = append(report.General, row)
	}

	for _, t := range topics {
		sheet := TopicSheet{TopicID: t.ID, TopicName: t.Name, Rows: []TopicRow{}}
		for _, log := range logs {
			ledger := make(map[string]bool, len(log.CompletedActions))
			for _, key := range log.CompletedActions {
				ledger[key] = true
			}

			row := TopicRow{
				Date:             log.Date,
				Grade:            topicGrade(log.TopicScores[t.ID], topicsCount),
				CompletedActions: []string{},
			}
			for _, a := range t.Actions {
				if ledger[scoring.LedgerKey(log.Date, a.ID)] {
					row.CompletedActions = append(row.CompletedActions, a.Name)
				}
			}
			sheet.Rows = append(sheet.Rows, row)
		}
		report.Topics = append(report.Topics, sheet)
	}

	return report, nil
}

// topicGrade converts a stored contribution (0..100/topicsCount) to the
// 0-10 display scale.
func topicGrade(contribution float64, topicsCount int) float64 {
	if topicsCount <= 0 {
		return 0
	}
	maxPerTopic := 100.0 / float64(topicsCount)
	return contribution / maxPerTopic * 10
}
