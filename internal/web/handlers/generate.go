package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/kozaktomas/photo-grid/internal/config"
	"github.com/kozaktomas/photo-grid/internal/constants"
	"github.com/kozaktomas/photo-grid/internal/generator"
	"github.com/kozaktomas/photo-grid/internal/pagination"
	"github.com/kozaktomas/photo-grid/internal/settings"
)

// GenerateHandler serves the document-generation job endpoints.
type GenerateHandler struct {
	config     *config.Config
	jobManager *JobManager
}

// NewGenerateHandler creates a generate handler.
func NewGenerateHandler(cfg *config.Config, jobManager *JobManager) *GenerateHandler {
	return &GenerateHandler{config: cfg, jobManager: jobManager}
}

// StartRequest is the POST /generate payload. Settings override the
// persisted settings file for this run only.
type StartRequest struct {
	Images   []string               `json:"images"`
	Settings *settings.GridSettings `json:"settings,omitempty"`
	Policy   string                 `json:"policy,omitempty"`
	Workers  int                    `json:"workers,omitempty"`
}

// Start starts a new generate job
func (h *GenerateHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	if len(req.Images) > constants.MaxGenerateImages {
		respondError(w, http.StatusBadRequest,
			fmt.Sprintf("too many images: %d (max %d)", len(req.Images), constants.MaxGenerateImages))
		return
	}

	s := settings.Load(h.config.Settings.Path)
	if req.Settings != nil {
		s = *req.Settings
	}

	policy := pagination.Policy("")
	if req.Policy != "" {
		parsed, err := pagination.ParsePolicy(req.Policy)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		policy = parsed
	}

	// Reject bad configuration before accepting the job.
	if err := s.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	workers := req.Workers
	if workers <= 0 {
		workers = h.config.Engine.Workers
	}

	jobID := uuid.New().String()
	options := GenerateJobOptions{Policy: string(policy), Workers: workers}
	job := h.jobManager.CreateJob(jobID, len(req.Images), options)

	// Start job in background
	go h.runGenerateJob(job, req.Images, s, policy, workers)

	respondJSON(w, http.StatusAccepted, map[string]string{
		"job_id": jobID,
		"status": string(JobStatusPending),
	})
}

// Status returns the status of a generate job
func (h *GenerateHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job)
}

// Events streams job events via SSE
func (h *GenerateHandler) Events(w http.ResponseWriter, r *http.Request) {
	streamSSEEvents(w, r,
		func(id string) SSEJob {
			job := h.jobManager.GetJob(id)
			if job == nil {
				return nil
			}
			return job
		},
		func(job SSEJob) any {
			return job
		},
	)
}

// Cancel cancels a generate job
func (h *GenerateHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	job.Cancel()
	respondJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

// Download serves the finished PDF document.
func (h *GenerateHandler) Download(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		respondError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	job := h.jobManager.GetJob(jobID)
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	pdf := job.PDF()
	if pdf == nil {
		respondError(w, http.StatusConflict,
			fmt.Sprintf("job is %s, no document available", job.GetStatus()))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="photo-grid.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// runGenerateJob runs the generation in the background
func (h *GenerateHandler) runGenerateJob(job *GenerateJob, images []string, s settings.GridSettings, policy pagination.Policy, workers int) {
	ctx, cancel := context.WithCancel(context.Background())
	job.cancel = cancel
	defer cancel()

	job.setStatus(JobStatusRunning)
	job.SendEvent(JobEvent{Type: "started", Message: "Generation started"})

	task := generator.New(images, s, generator.Options{
		Policy:  policy,
		Workers: workers,
		OnProgress: func(p generator.ProgressInfo) {
			job.setProgress(p.Percent)
			job.SendEvent(JobEvent{Type: "progress", Data: p})
		},
		OnCellSkipped: func(path string, err error) {
			log.Printf("web: job %s skipped %s: %v", job.ID, sanitizeForLog(path), err)
			job.SendEvent(JobEvent{
				Type:    "cell_skipped",
				Message: fmt.Sprintf("skipped %s", path),
			})
		},
		OnPageRendered: func(page, pages int) {
			job.SendEvent(JobEvent{Type: "page_rendered", Data: map[string]int{"page": page, "pages": pages}})
		},
	})

	result, err := task.Run(ctx)
	switch task.Status() {
	case generator.StatusCancelled:
		job.finish(JobStatusCancelled, nil, "")
		job.SendEvent(JobEvent{Type: "cancelled", Message: "Job was cancelled"})
	case generator.StatusFailed:
		h.failJob(job, err.Error())
	default:
		job.finish(JobStatusCompleted, result, "")
		job.SendEvent(JobEvent{Type: "completed", Data: job.Result})
	}
}

// failJob marks a job as failed and notifies listeners
func (h *GenerateHandler) failJob(job *GenerateJob, message string) {
	log.Printf("web: job %s failed: %s", job.ID, sanitizeForLog(message))
	job.finish(JobStatusFailed, nil, message)
	job.SendEvent(JobEvent{Type: "job_error", Message: message})
}
