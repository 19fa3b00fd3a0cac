package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeceo/backend/internal/models"
	"github.com/lifeceo/backend/internal/scoring"
)

// DayLogRepository defines the persistence operations needed by the
// day-log service.
type DayLogRepository interface {
	// GetOrCreateDayLog returns the header and entries for (userID, date),
	// lazily creating a zero-score header. Idempotent on (userID, date).
	GetOrCreateDayLog(ctx context.Context, userID, date string) (models.DayLog, []models.LogEntry, error)
	// HasActionEntry reports whether the log already schedules the action.
	HasActionEntry(ctx context.Context, logID, actionID string) (bool, error)
	// UpsertEntry inserts a new entry or replaces an existing one by id.
	UpsertEntry(ctx context.Context, e models.LogEntry) error
	// DeleteEntry removes an entry, no-op if absent.
	DeleteEntry(ctx context.Context, entryID string) error
	// SaveHeader persists a recomputed header.
	SaveHeader(ctx context.Context, log models.DayLog) error
	// ListLogs returns all headers for a user ordered by date.
	ListLogs(ctx context.Context, userID string) ([]models.DayLog, error)
}

// CatalogSource is the read-only view of the catalog the day-log service
// needs for scoring and for scheduling from the bank. It never mutates the
// catalog.
type CatalogSource interface {
	ListTopics(ctx context.Context, userID string) ([]models.Topic, error)
}

// ProfileSource supplies the configured department cardinality for scoring.
type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

// DayLogService implements the daily check-in flow: every mutation persists
// the entry, recomputes the day's score from the full current entry set and
// persists the header, in that order. One logical writer per date is
// assumed, so no locking is involved.
type DayLogService struct {
	repo     DayLogRepository
	catalog  CatalogSource
	profiles ProfileSource
}

// NewDayLogService constructs a DayLogService.
func NewDayLogService(repo DayLogRepository, catalog CatalogSource, profiles ProfileSource) *DayLogService {
	return &DayLogService{repo: repo, catalog: catalog, profiles: profiles}
}

// Day returns the header and entries for the given date, creating the
// header lazily on first access.
func (s *DayLogService) Day(ctx context.Context, userID, date string) (models.DayLog, []models.LogEntry, error) {
	return s.repo.GetOrCreateDayLog(ctx, userID, date)
}

// ToggleEntry flips the completion flag of one entry and recomputes the
// day. Toggling is repeatable and reversible. Returns models.ErrNotFound if
// the entry is not part of the day's log.
func (s *DayLogService) ToggleEntry(ctx context.Context, userID, date, entryID string) (models.DayLog, []models.LogEntry, error) {
	log, entries, err := s.repo.GetOrCreateDayLog(ctx, userID, date)
	if err != nil {
		return models.DayLog{}, nil, err
	}

	found := false
	for i := range entries {
		if entries[i].ID == entryID {
			entries[i].IsCompleted = !entries[i].IsCompleted
			if err := s.repo.UpsertEntry(ctx, entries[i]); err != nil {
				return models.DayLog{}, nil, err
			}
			found = true
			break
		}
	}
	if !found {
		return models.DayLog{}, nil, models.ErrNotFound
	}

	log, err = s.recompute(ctx, log, entries)
	return log, entries, err
}

// AddAdHoc schedules a one-off task typed directly into the day. Ad-hoc
// entries carry no actionId and never appear in the completed-action ledger.
func (s *DayLogService) AddAdHoc(ctx context.Context, userID, date, topicID, name string) (models.DayLog, []models.LogEntry, error) {
	log, entries, err := s.repo.GetOrCreateDayLog(ctx, userID, date)
	if err != nil {
		return models.DayLog{}, nil, err
	}

	entry := models.LogEntry{
		ID:      uuid.NewString(),
		LogID:   log.ID,
		TopicID: topicID,
		Name:    name,
		IsAdHoc: true,
	}
	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		return models.DayLog{}, nil, err
	}
	entries = append(entries, entry)

	log, err = s.recompute(ctx, log, entries)
	return log, entries, err
}

// ScheduleAction schedules a catalog action into the day. If the action is
// already present in the log this is a silent no-op, not an error. Returns
// models.ErrNotFound if the action is not in the topic's bank.
func (s *DayLogService) ScheduleAction(ctx context.Context, userID, date, topicID, actionID string) (models.DayLog, []models.LogEntry, error) {
	log, entries, err := s.repo.GetOrCreateDayLog(ctx, userID, date)
	if err != nil {
		return models.DayLog{}, nil, err
	}

	scheduled, err := s.repo.HasActionEntry(ctx, log.ID, actionID)
	if err != nil {
		return models.DayLog{}, nil, err
	}
	if scheduled {
		return log, entries, nil
	}

	name, err := s.actionName(ctx, userID, topicID, actionID)
	if err != nil {
		return models.DayLog{}, nil, err
	}

	entry := models.LogEntry{
		ID:       uuid.NewString(),
		LogID:    log.ID,
		TopicID:  topicID,
		ActionID: actionID,
		Name:     name,
	}
	if err := s.repo.UpsertEntry(ctx, entry); err != nil {
		return models.DayLog{}, nil, err
	}
	entries = append(entries, entry)

	log, err = s.recompute(ctx, log, entries)
	return log, entries, err
}

// RemoveEntry removes one entry from the day and recomputes. Removal is
// terminal for the entry; removing an absent entry leaves the day unchanged
// beyond a recompute.
func (s *DayLogService) RemoveEntry(ctx context.Context, userID, date, entryID string) (models.DayLog, []models.LogEntry, error) {
	log, entries, err := s.repo.GetOrCreateDayLog(ctx, userID, date)
	if err != nil {
		return models.DayLog{}, nil, err
	}

	if err := s.repo.DeleteEntry(ctx, entryID); err != nil {
		return models.DayLog{}, nil, err
	}

	remaining := entries[:0]
	for _, e := range entries {
		if e.ID != entryID {
			remaining = append(remaining, e)
		}
	}

	log, err = s.recompute(ctx, log, remaining)
	return log, remaining, err
}

// Logs returns all of the user's day headers for dashboards and export.
func (s *DayLogService) Logs(ctx context.Context, userID string) ([]models.DayLog, error) {
	return s.repo.ListLogs(ctx, userID)
}

// recompute derives score, topicScores and the completed-action ledger from
// the full current entry set and persists the header. The header is never
// written through any other path.
func (s *DayLogService) recompute(ctx context.Context, log models.DayLog, entries []models.LogEntry) (models.DayLog, error) {
	topics, err := s.catalog.ListTopics(ctx, log.UserID)
	if err != nil {
		return models.DayLog{}, err
	}

	res := scoring.Compute(log.Date, topics, entries, s.topicsCount(ctx, log.UserID, len(topics)))
	log.Score = res.Score
	log.TopicScores = res.TopicScores
	log.CompletedActions = res.CompletedActions

	if err := s.repo.SaveHeader(ctx, log); err != nil {
		return models.DayLog{}, err
	}
	return log, nil
}

func (s *DayLogService) topicsCount(ctx context.Context, userID string, fallback int) int {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil || profile.TopicsCount <= 0 {
		return fallback
	}
	return profile.TopicsCount
}

func (s *DayLogService) actionName(ctx context.Context, userID, topicID, actionID string) (string, error) {
	topics, err := s.catalog.ListTopics(ctx, userID)
	if err != nil {
		return "", err
	}
	for _, t := range topics {
		if t.ID != topicID {
			continue
		}
		for _, a := range t.Actions {
			if a.ID == actionID {
				return a.Name, nil
			}
		}
	}
	return "", models.ErrNotFound
}
