package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lifeceo/backend/internal/middleware"
	"github.com/lifeceo/backend/internal/models"
	"github.com/lifeceo/backend/internal/service"
)

// DayLogService defines the day-log operations required by the HTTP
// handlers.
type DayLogService interface {
	// Day returns the header and entries for a date, creating lazily.
	Day(ctx context.Context, userID, date string) (models.DayLog, []models.LogEntry, error)
	// ToggleEntry flips one entry's completion and recomputes.
	ToggleEntry(ctx context.Context, userID, date, entryID string) (models.DayLog, []models.LogEntry, error)
	// AddAdHoc adds a one-off entry and recomputes.
	AddAdHoc(ctx context.Context, userID, date, topicID, name string) (models.DayLog, []models.LogEntry, error)
	// ScheduleAction schedules a catalog action; no-op if already present.
	ScheduleAction(ctx context.Context, userID, date, topicID, actionID string) (models.DayLog, []models.LogEntry, error)
	// RemoveEntry deletes one entry and recomputes.
	RemoveEntry(ctx context.Context, userID, date, entryID string) (models.DayLog, []models.LogEntry, error)
	// Logs returns all headers for the user.
	Logs(ctx context.Context, userID string) ([]models.DayLog, error)
}

// ReportService defines the report assembly operation required by the HTTP
// handlers.
type ReportService interface {
	Build(ctx context.Context, userID string) (*service.Report, error)
}

// DayLogHandler handles the daily check-in endpoints.
type DayLogHandler struct {
	DayLogService DayLogService
	ReportService ReportService
}

// dayResponse pairs the recomputed header with the current entry set.
type dayResponse struct {
	Log     models.DayLog     `json:"log"`
	Entries []models.LogEntry `json:"entries"`
}

// Day handles GET /api/days/{date}.
func (h *DayLogHandler) Day(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	log, entries, err := h.DayLogService.Day(r.Context(), userID, date)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dayResponse{Log: log, Entries: entries})
}

// AdHocRequest is the payload for creating an ad-hoc entry.
type AdHocRequest struct {
	TopicID string `json:"topicId"`
	Name    string `json:"name"`
}

// AddAdHoc handles POST /api/days/{date}/adhoc.
func (h *DayLogHandler) AddAdHoc(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var req AdHocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TopicID == "" || req.Name == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	log, entries, err := h.DayLogService.AddAdHoc(r.Context(), userID, date, req.TopicID, req.Name)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dayResponse{Log: log, Entries: entries})
}

// ScheduleRequest is the payload for scheduling a catalog action.
type ScheduleRequest struct {
	TopicID  string `json:"topicId"`
	ActionID string `json:"actionId"`
}

// ScheduleAction handles POST /api/days/{date}/schedule. Scheduling an
// action already in the day returns the unchanged day, not an error.
func (h *DayLogHandler) ScheduleAction(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	date, ok := dateParam(w, r)
	if !ok {
		return
	}

	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TopicID == "" || req.ActionID == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	log, entries, err := h.DayLogService.ScheduleAction(r.Context(), userID, date, req.TopicID, req.ActionID)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "action not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dayResponse{Log: log, Entries: entries})
}

// ToggleEntry handles POST /api/days/{date}/entries/{entryID}/toggle.
func (h *DayLogHandler) ToggleEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	entryID := chi.URLParam(r, "entryID")

	log, entries, err := h.DayLogService.ToggleEntry(r.Context(), userID, date, entryID)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "entry not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dayResponse{Log: log, Entries: entries})
}

// RemoveEntry handles DELETE /api/days/{date}/entries/{entryID}.
func (h *DayLogHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	date, ok := dateParam(w, r)
	if !ok {
		return
	}
	entryID := chi.URLParam(r, "entryID")

	log, entries, err := h.DayLogService.RemoveEntry(r.Context(), userID, date, entryID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dayResponse{Log: log, Entries: entries})
}

// Logs handles GET /api/logs.
func (h *DayLogHandler) Logs(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	logs, err := h.DayLogService.Logs(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

// Report handles GET /api/report.
func (h *DayLogHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	report, err := h.ReportService.Build(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// dateParam extracts and validates the {date} URL parameter. Dates are
// fixed-width "YYYY-MM-DD" strings so lexicographic order matches calendar
// order everywhere downstream.
func dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "invalid date, want YYYY-MM-DD", http.StatusBadRequest)
		return "", false
	}
	return date, true
}
