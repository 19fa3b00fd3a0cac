package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lifeceo/backend/internal/middleware"
	"github.com/lifeceo/backend/internal/models"
)

// CatalogService defines the catalog operations required by the HTTP
// handlers.
type CatalogService interface {
	// Topics returns the user's ordered topic set.
	Topics(ctx context.Context, userID string) ([]models.Topic, error)
	// ReplaceTopics replaces the user's entire topic set.
	ReplaceTopics(ctx context.Context, userID string, topics []models.Topic) ([]models.Topic, error)
	// UpdateTopic edits one topic in place.
	UpdateTopic(ctx context.Context, topic models.Topic) (models.Topic, error)
}

// CatalogHandler handles department and action-bank requests.
type CatalogHandler struct {
	CatalogService CatalogService
}

// Topics handles GET /api/topics.
func (h *CatalogHandler) Topics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	topics, err := h.CatalogService.Topics(r.Context(), userID)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, topics)
}

// ReplaceTopics handles PUT /api/topics: the restructuring flow replaces the
// whole department set at once.
func (h *CatalogHandler) ReplaceTopics(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var topics []models.Topic
	if err := json.NewDecoder(r.Body).Decode(&topics); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	replaced, err := h.CatalogService.ReplaceTopics(r.Context(), userID, topics)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, replaced)
}

// UpdateTopic handles PATCH /api/topics/{topicID}: edits one department's
// name, goal, target and action bank, preserving its identity.
func (h *CatalogHandler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	topicID := chi.URLParam(r, "topicID")

	var topic models.Topic
	if err := json.NewDecoder(r.Body).Decode(&topic); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	topic.ID = topicID
	topic.UserID = userID

	updated, err := h.CatalogService.UpdateTopic(r.Context(), topic)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "topic not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
