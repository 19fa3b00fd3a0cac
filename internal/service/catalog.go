package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/lifeceo/backend/internal/models"
)

// CatalogRepository defines the persistence operations needed by the
// catalog service.
type CatalogRepository interface {
	// ListTopics returns the user's ordered topic set with action banks.
	ListTopics(ctx context.Context, userID string) ([]models.Topic, error)
	// ReplaceTopics atomically replaces the user's entire topic set.
	ReplaceTopics(ctx context.Context, userID string, topics []models.Topic) error
	// UpdateTopic edits one topic in place, preserving id and ownership.
	UpdateTopic(ctx context.Context, topic models.Topic) error
}

// CatalogService manages departments and their action banks.
type CatalogService struct {
	repo CatalogRepository
}

// NewCatalogService constructs a CatalogService with the provided repository.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// Topics returns the user's ordered topics.
func (s *CatalogService) Topics(ctx context.Context, userID string) ([]models.Topic, error) {
	return s.repo.ListTopics(ctx, userID)
}

// ReplaceTopics replaces the user's full topic set, assigning ids to topics
// and actions that arrive without one (onboarding wizard output). Entries in
// existing day logs that reference removed action ids are left in place;
// they keep rendering through their stored name.
func (s *CatalogService) ReplaceTopics(ctx context.Context, userID string, topics []models.Topic) ([]models.Topic, error) {
	for i := range topics {
		if topics[i].ID == "" {
			topics[i].ID = uuid.NewString()
		}
		topics[i].UserID = userID
		for j := range topics[i].Actions {
			if topics[i].Actions[j].ID == "" {
				topics[i].Actions[j].ID = uuid.NewString()
			}
			topics[i].Actions[j].TopicID = topics[i].ID
		}
	}
	if err := s.repo.ReplaceTopics(ctx, userID, topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// UpdateTopic edits name, goal, targetScore and actions of one topic.
// New actions get fresh ids; existing ones keep their identity so the
// completed-action ledger stays valid across renames.
func (s *CatalogService) UpdateTopic(ctx context.Context, topic models.Topic) (models.Topic, error) {
	for j := range topic.Actions {
		if topic.Actions[j].ID == "" {
			topic.Actions[j].ID = uuid.NewString()
		}
		topic.Actions[j].TopicID = topic.ID
	}
	if err := s.repo.UpdateTopic(ctx, topic); err != nil {
		return models.Topic{}, err
	}
	return topic, nil
}
