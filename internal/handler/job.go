package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jobtrack/jobtrack/internal/handler/dto"
	"github.com/jobtrack/jobtrack/internal/model"
)

// JobService is the job application manager as seen by the HTTP layer.
type JobService interface {
	Create(ctx context.Context, caller model.Caller, patch *model.JobApplicationPatch) (*model.Job, error)
	List(ctx context.Context, caller model.Caller, filter model.JobFilter) ([]*model.Job, error)
	Get(ctx context.Context, caller model.Caller, id int64) (*model.Job, error)
	Update(ctx context.Context, caller model.Caller, patch *model.JobApplicationPatch, id int64) (*model.Job, error)
	UpdateStatus(ctx context.Context, caller model.Caller, id int64, status string) (*model.Job, error)
	Delete(ctx context.Context, caller model.Caller, id int64) error
}

// JobHandler handles HTTP requests for job applications.
type JobHandler struct {
	svc    JobService
	logger *slog.Logger
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(svc JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/jobs.
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	var req dto.JobPatchRequest
	if err := dto.Decode(r.Body, dto.JobPatchSchema, &req); err != nil {
		handleDecodeError(w, h.logger, err)
		return
	}

	job, err := h.svc.Create(r.Context(), caller, req.ToPatch())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("job_created",
		"job_id", job.ID,
		"user_id", job.UserID,
		"status", job.Status,
	)

	writeJSON(w, http.StatusCreated, dto.ToJobResponse(job))
}

// List handles GET /api/v1/jobs. The optional status query parameter takes
// a comma-separated set of statuses.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	filter, ok := parseJobFilter(w, r)
	if !ok {
		return
	}

	jobs, err := h.svc.List(r.Context(), caller, filter)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToJobListResponse(jobs))
}

// Get handles GET /api/v1/jobs/{id}.
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := parseJobID(w, r)
	if !ok {
		return
	}

	job, err := h.svc.Get(r.Context(), caller, id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToJobResponse(job))
}

// Update handles PATCH /api/v1/jobs/{id}.
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := parseJobID(w, r)
	if !ok {
		return
	}

	var req dto.JobPatchRequest
	if err := dto.Decode(r.Body, dto.JobPatchSchema, &req); err != nil {
		handleDecodeError(w, h.logger, err)
		return
	}

	job, err := h.svc.Update(r.Context(), caller, req.ToPatch(), id)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("job_updated", "job_id", job.ID, "user_id", job.UserID)

	writeJSON(w, http.StatusOK, dto.ToJobResponse(job))
}

// UpdateStatus handles PUT /api/v1/jobs/{id}/status.
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := parseJobID(w, r)
	if !ok {
		return
	}

	var req dto.JobStatusRequest
	if err := dto.Decode(r.Body, dto.JobStatusSchema, &req); err != nil {
		handleDecodeError(w, h.logger, err)
		return
	}

	job, err := h.svc.UpdateStatus(r.Context(), caller, id, req.Status)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("job_status_updated",
		"job_id", job.ID,
		"user_id", job.UserID,
		"status", job.Status,
	)

	writeJSON(w, http.StatusOK, dto.ToJobResponse(job))
}

// Delete handles DELETE /api/v1/jobs/{id}.
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}
	id, ok := parseJobID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), caller, id); err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("job_deleted", "job_id", id, "user_id", caller.UserID)

	w.WriteHeader(http.StatusNoContent)
}

func parseJobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Job ID must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseJobFilter(w http.ResponseWriter, r *http.Request) (model.JobFilter, bool) {
	var filter model.JobFilter

	raw := r.URL.Query().Get("status")
	if raw == "" {
		return filter, true
	}

	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		status, err := model.ParseJobStatus(part)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "Unknown status "+strconv.Quote(part))
			return filter, false
		}
		filter.Statuses = append(filter.Statuses, status)
	}

	return filter, true
}
