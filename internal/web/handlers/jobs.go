package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/kozaktomas/photo-grid/internal/constants"
	"github.com/kozaktomas/photo-grid/internal/generator"
)

// JobStatus represents the status of an async job.
type JobStatus string

// JobStatus constants define the lifecycle states of an async job.
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// GenerateJob represents an async document generation job.
type GenerateJob struct {
	EventBroadcaster

	ID          string             `json:"id"`
	Status      JobStatus          `json:"status"`
	Progress    int                `json:"progress"`
	TotalImages int                `json:"total_images"`
	Error       string             `json:"error,omitempty"`
	StartedAt   time.Time          `json:"started_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
	Options     GenerateJobOptions `json:"options"`
	Result      *GenerateJobResult `json:"result,omitempty"`

	// pdf holds the finished document; populated only on completion and
	// never exposed through the status JSON.
	pdf []byte
}

// GenerateJobOptions represents generate job options.
type GenerateJobOptions struct {
	Policy  string `json:"policy,omitempty"`
	Workers int    `json:"workers,omitempty"`
}

// GenerateJobResult summarizes a finished generation.
type GenerateJobResult struct {
	PageCount     int `json:"page_count"`
	TotalCells    int `json:"total_cells"`
	AssignedCells int `json:"assigned_cells"`
	SkippedCells  int `json:"skipped_cells"`
	PDFBytes      int `json:"pdf_bytes"`
}

// GetStatus returns the current job status (implements SSEJob).
func (j *GenerateJob) GetStatus() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.Status
}

// setStatus updates the job status under lock.
func (j *GenerateJob) setStatus(s JobStatus) {
	j.mu.Lock()
	j.Status = s
	j.mu.Unlock()
}

// setProgress updates the progress percentage under lock.
func (j *GenerateJob) setProgress(percent int) {
	j.mu.Lock()
	if percent > j.Progress {
		j.Progress = percent
	}
	j.mu.Unlock()
}

// finish records a terminal state with completion time.
func (j *GenerateJob) finish(s JobStatus, result *generator.Result, errMsg string) {
	now := time.Now()
	j.mu.Lock()
	j.Status = s
	j.CompletedAt = &now
	j.Error = errMsg
	if result != nil {
		j.Progress = 100
		j.pdf = result.PDF
		j.Result = &GenerateJobResult{
			PageCount:     result.PageCount,
			TotalCells:    result.TotalCells,
			AssignedCells: result.AssignedCells,
			SkippedCells:  result.SkippedCells,
			PDFBytes:      len(result.PDF),
		}
	}
	j.mu.Unlock()
}

// PDF returns the finished document, or nil while the job is not completed.
func (j *GenerateJob) PDF() []byte {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.Status != JobStatusCompleted {
		return nil
	}
	return j.pdf
}

// Cancel cancels the generate job.
func (j *GenerateJob) Cancel() {
	j.EventBroadcaster.Cancel()
	j.setStatus(JobStatusCancelled)
}

// JobEvent represents an event from a job.
type JobEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting for async jobs.
// Embed this in job structs to get AddListener, RemoveListener, and SendEvent methods.
type EventBroadcaster struct {
	cancel    context.CancelFunc
	listeners []chan JobEvent
	mu        sync.RWMutex
}

// AddListener adds an event listener.
func (b *EventBroadcaster) AddListener() chan JobEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan JobEvent, constants.EventChannelBuffer)
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event JobEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Cancel cancels the job via context and sends a cancelled event.
func (b *EventBroadcaster) Cancel() {
	if b.cancel != nil {
		b.cancel()
	}
	b.SendEvent(JobEvent{Type: "cancelled", Message: "Job cancelled by user"})
}

// SSEJob is the interface required by streamSSEEvents to stream job events via SSE.
type SSEJob interface {
	AddListener() chan JobEvent
	RemoveListener(ch chan JobEvent)
	GetStatus() JobStatus
}

// JobManager manages async jobs.
type JobManager struct {
	jobs map[string]*GenerateJob
	mu   sync.RWMutex
}

// NewJobManager creates a new job manager.
func NewJobManager() *JobManager {
	return &JobManager{
		jobs: make(map[string]*GenerateJob),
	}
}

// CreateJob creates a new generate job.
func (m *JobManager) CreateJob(id string, totalImages int, options GenerateJobOptions) *GenerateJob {
	job := &GenerateJob{
		ID:          id,
		Status:      JobStatusPending,
		TotalImages: totalImages,
		StartedAt:   time.Now(),
		Options:     options,
	}

	m.mu.Lock()
	m.jobs[id] = job
	m.mu.Unlock()

	return job
}

// GetJob retrieves a job by ID.
func (m *JobManager) GetJob(id string) *GenerateJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[id]
}

// DeleteJob removes a job.
func (m *JobManager) DeleteJob(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, id)
}

// ListJobs returns all jobs.
func (m *JobManager) ListJobs() []*GenerateJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]*GenerateJob, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}
