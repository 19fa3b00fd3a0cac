package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lifeceo/backend/internal/models"
)

type mockBackupService struct {
	ExportFunc func(ctx context.Context) (*models.Backup, error)
	ImportFunc func(ctx context.Context, b *models.Backup) error
}

func (m *mockBackupService) Export(ctx context.Context) (*models.Backup, error) {
	return m.ExportFunc(ctx)
}
func (m *mockBackupService) Import(ctx context.Context, b *models.Backup) error {
	return m.ImportFunc(ctx, b)
}

func TestExport_ReturnsStampedSnapshot(t *testing.T) {
	h := &BackupHandler{BackupService: &mockBackupService{
		ExportFunc: func(context.Context) (*models.Backup, error) {
			return &models.Backup{
				Users:     []models.User{{ID: "u1", Username: "ana"}},
				Version:   models.BackupVersion,
				Timestamp: "2024-05-01T08:00:00Z",
			}, nil
		},
	}}

	rr := httptest.NewRecorder()
	h.Export(rr, authedRequest(http.MethodGet, "/api/backup", nil, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp models.Backup
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if resp.Version != models.BackupVersion || len(resp.Users) != 1 {
		t.Errorf("unexpected snapshot: %+v", resp)
	}
}

func TestImport_VersionMismatchIs422(t *testing.T) {
	h := &BackupHandler{BackupService: &mockBackupService{
		ImportFunc: func(context.Context, *models.Backup) error {
			return models.ErrVersionMismatch
		},
	}}

	body := []byte(`{"version":"1.0","users":[]}`)
	rr := httptest.NewRecorder()
	h.Import(rr, authedRequest(http.MethodPost, "/api/backup", body, "u1"))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rr.Code)
	}
}

func TestImport_MalformedBodyIs400(t *testing.T) {
	h := &BackupHandler{BackupService: &mockBackupService{
		ImportFunc: func(context.Context, *models.Backup) error {
			t.Fatal("service must not be called for a malformed body")
			return nil
		},
	}}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/backup", strings.NewReader("{not json"))
	h.Import(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rr.Code)
	}
}

func TestImport_OK(t *testing.T) {
	var imported *models.Backup
	h := &BackupHandler{BackupService: &mockBackupService{
		ImportFunc: func(_ context.Context, b *models.Backup) error {
			imported = b
			return nil
		},
	}}

	body := []byte(`{"version":"2.0","users":[{"id":"u1","username":"ana"}]}`)
	rr := httptest.NewRecorder()
	h.Import(rr, authedRequest(http.MethodPost, "/api/backup", body, "u1"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if imported == nil || len(imported.Users) != 1 {
		t.Errorf("snapshot not passed through: %+v", imported)
	}
}
