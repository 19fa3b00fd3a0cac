package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lifeceo/backend/internal/models"
)

// BackupService defines the snapshot operations required by the HTTP
// handlers.
type BackupService interface {
	// Export takes a stamped full snapshot.
	Export(ctx context.Context) (*models.Backup, error)
	// Import replaces the store; models.ErrVersionMismatch on a bad version.
	Import(ctx context.Context, b *models.Backup) error
}

// BackupHandler handles full-store export and import.
type BackupHandler struct {
	BackupService BackupService
}

// Export handles GET /api/backup.
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	backup, err := h.BackupService.Export(r.Context())
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, backup)
}

// Import handles POST /api/backup. A snapshot with the wrong version is
// rejected whole; nothing is written.
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	var backup models.Backup
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	err := h.BackupService.Import(r.Context(), &backup)
	if errors.Is(err, models.ErrVersionMismatch) {
		http.Error(w, "incompatible backup version", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
