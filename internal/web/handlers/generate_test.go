package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/settings"
)

// newTestRouter wires the generate and settings handlers onto a chi router
// with an isolated settings file.
func newTestRouter(t *testing.T) (*chi.Mux, *JobManager) {
	t.Helper()

	cfg := &config.Config{}
	cfg.Engine.Workers = 2
	cfg.Settings.Path = filepath.Join(t.TempDir(), "grid_settings.json")

	jobManager := NewJobManager()
	generateHandler := NewGenerateHandler(cfg, jobManager)
	settingsHandler := NewSettingsHandler(cfg)

	r := chi.NewRouter()
	r.Post("/generate", generateHandler.Start)
	r.Get("/generate/{jobId}", generateHandler.Status)
	r.Get("/generate/{jobId}/download", generateHandler.Download)
	r.Delete("/generate/{jobId}", generateHandler.Cancel)
	r.Get("/settings", settingsHandler.Get)
	r.Put("/settings", settingsHandler.Update)

	return r, jobManager
}

// fastSettings returns a settings override producing a small grid quickly.
func fastSettings() *settings.GridSettings {
	s := settings.Default()
	s.ColWidthMM = 60
	s.RowHeightMM = 60
	s.OutputDPI = 72
	return &s
}

// startJob posts a generate request and returns the job ID.
func startJob(t *testing.T, r *chi.Mux, req StartRequest) string {
	t.Helper()

	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader(body)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp["job_id"] == "" {
		t.Fatal("missing job_id in response")
	}
	return resp["job_id"]
}

// waitForTerminal polls a job until it leaves the running states.
func waitForTerminal(t *testing.T, m *JobManager, jobID string) *GenerateJob {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := m.GetJob(jobID)
		if job == nil {
			t.Fatalf("job %s disappeared", jobID)
		}
		if isJobTerminal(job.GetStatus()) {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

func TestGenerate_InvalidBody(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader([]byte("{broken"))))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGenerate_UnknownPolicy(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	body, _ := json.Marshal(StartRequest{Policy: "spiral"})
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown policy, got %d", rec.Code)
	}
}

func TestGenerate_InvalidSettings(t *testing.T) {
	r, _ := newTestRouter(t)

	bad := settings.Default()
	bad.ColWidthMM = 0
	body, _ := json.Marshal(StartRequest{Settings: &bad})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/generate", bytes.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero cell width, got %d", rec.Code)
	}
}

func TestGenerate_EmptyRunCompletes(t *testing.T) {
	r, m := newTestRouter(t)

	jobID := startJob(t, r, StartRequest{Settings: fastSettings()})
	job := waitForTerminal(t, m, jobID)

	if job.GetStatus() != JobStatusCompleted {
		t.Fatalf("expected completed, got %s (%s)", job.GetStatus(), job.Error)
	}
	if job.Result == nil || job.Result.PageCount != 1 {
		t.Errorf("expected a single grid-only page, got %+v", job.Result)
	}
}

func TestGenerate_StatusAndDownload(t *testing.T) {
	r, m := newTestRouter(t)

	jobID := startJob(t, r, StartRequest{Settings: fastSettings()})
	waitForTerminal(t, m, jobID)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate/"+jobID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status endpoint returned %d", rec.Code)
	}

	var job GenerateJob
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("failed to parse status: %v", err)
	}
	if job.Progress != 100 {
		t.Errorf("expected progress 100, got %d", job.Progress)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate/"+jobID+"/download", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download returned %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("download payload is not a PDF")
	}
}

func TestGenerate_DownloadBeforeCompletion(t *testing.T) {
	r, m := newTestRouter(t)

	// A pending job with no result must not expose a document.
	job := m.CreateJob("pending-job", 0, GenerateJobOptions{})
	_ = job

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate/pending-job/download", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for unfinished job, got %d", rec.Code)
	}
}

func TestGenerate_UnknownJob(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/generate/nope"},
		{http.MethodGet, "/generate/nope/download"},
		{http.MethodDelete, "/generate/nope"},
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", tc.method, tc.path, rec.Code)
		}
	}
}

func TestGenerate_CancelledJobHasNoDownload(t *testing.T) {
	r, m := newTestRouter(t)

	job := m.CreateJob("to-cancel", 10, GenerateJobOptions{})
	job.Cancel()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/generate/to-cancel/download", nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for cancelled job, got %d", rec.Code)
	}
}

func TestSettings_GetReturnsDefaults(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var s settings.GridSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	if s != settings.Default() {
		t.Errorf("expected defaults, got %+v", s)
	}
}

func TestSettings_UpdateRoundtrip(t *testing.T) {
	r, _ := newTestRouter(t)

	s := settings.Default()
	s.PageSize = "A3"
	s.GridColor = "#336699"
	body, _ := json.Marshal(s)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))
	var loaded settings.GridSettings
	if err := json.Unmarshal(rec.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("failed to parse settings: %v", err)
	}
	if loaded != s {
		t.Errorf("settings did not roundtrip: got %+v, want %+v", loaded, s)
	}
}

func TestSettings_UpdateRejectsInvalid(t *testing.T) {
	r, _ := newTestRouter(t)

	s := settings.Default()
	s.PageSize = "B9"
	body, _ := json.Marshal(s)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(body)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown page size, got %d", rec.Code)
	}
}
