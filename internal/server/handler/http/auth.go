// Package http provides the HTTP handlers and routing for the Life CEO API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lifeceo/backend/internal/middleware"
	"github.com/lifeceo/backend/internal/models"
)

// AuthService defines the authentication operations required by the HTTP
// handlers.
type AuthService interface {
	// Register creates a new user; models.ErrConflict on duplicate username.
	Register(ctx context.Context, username, password, ceoName string) (*models.User, error)
	// Login verifies credentials and issues a token; models.ErrNotFound on
	// bad credentials.
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	// Profile returns the user's profile, models.ErrNotFound before onboarding.
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	// SaveProfile persists profile edits.
	SaveProfile(ctx context.Context, p models.Profile) error
}

// TopicReplacer is the slice of the catalog service onboarding needs.
type TopicReplacer interface {
	ReplaceTopics(ctx context.Context, userID string, topics []models.Topic) ([]models.Topic, error)
}

// AuthHandler handles registration, login, profile and onboarding requests.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// Catalog replaces the topic set when onboarding completes.
	Catalog TopicReplacer
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	CEOName  string `json:"ceoName"`
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// userResponse is the public view of a user; the password hash never leaves
// the server.
type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	CEOName  string `json:"ceoName"`
}

// Register handles POST /api/register.
// A duplicate username is answered with 409 so the client can show a retry
// prompt.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Register(r.Context(), req.Username, req.Password, req.CEOName)
	if errors.Is(err, models.ErrConflict) {
		http.Error(w, "user already exists", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{ID: user.ID, Username: user.Username, CEOName: user.CEOName})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	user, token, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  userResponse{ID: user.ID, Username: user.Username, CEOName: user.CEOName},
	})
}

// Profile handles GET /api/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	profile, err := h.AuthService.Profile(r.Context(), userID)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// SaveProfile handles PUT /api/profile. Ownership comes from the token, not
// the body.
func (h *AuthHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var profile models.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	profile.UserID = userID

	if err := h.AuthService.SaveProfile(r.Context(), profile); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// OnboardingRequest carries the wizard's result: the profile settings and
// the initial topic set.
type OnboardingRequest struct {
	Profile models.Profile `json:"profile"`
	Topics  []models.Topic `json:"topics"`
}

// CompleteOnboarding handles POST /api/onboarding: it saves the profile with
// onboarding marked complete and replaces the user's topic set.
func (h *AuthHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	req.Profile.UserID = userID
	req.Profile.OnboardingComplete = true
	if err := h.AuthService.SaveProfile(r.Context(), req.Profile); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	topics, err := h.Catalog.ReplaceTopics(r.Context(), userID, req.Topics)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": req.Profile,
		"topics":  topics,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
