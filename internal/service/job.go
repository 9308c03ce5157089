package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jobtrack/jobtrack/internal/metrics"
	"github.com/jobtrack/jobtrack/internal/model"
	"github.com/jobtrack/jobtrack/internal/repository"
)

// JobStore persists job rows.
type JobStore interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, id int64) (*model.Job, error)
	ListJobsByUser(ctx context.Context, userID string, filter model.JobFilter) ([]*model.Job, error)
	UpdateJob(ctx context.Context, job *model.Job) (*model.Job, error)
	UpdateJobStatus(ctx context.Context, id int64, userID string, status model.JobStatus) (*model.Job, error)
	DeleteJob(ctx context.Context, id int64, userID string) error
}

// JobAppManager handles job application business logic for the calling user.
type JobAppManager struct {
	store   JobStore
	metrics metrics.Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// NewJobAppManager creates a new JobAppManager.
func NewJobAppManager(store JobStore, recorder metrics.Recorder, logger *slog.Logger) *JobAppManager {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &JobAppManager{
		store:   store,
		metrics: recorder,
		logger:  logger,
		now:     time.Now,
	}
}

// Create records a new job application owned by the caller.
func (m *JobAppManager) Create(ctx context.Context, caller model.Caller, patch *model.JobApplicationPatch) (*model.Job, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	if !patch.HasDetails() {
		return nil, ErrMissingData
	}

	status, err := parseStatus(patch.Status)
	if err != nil {
		return nil, err
	}

	job := &model.Job{
		CTime:  m.now().UTC(),
		UserID: caller.UserID,
		Status: model.JobStatusPending,
	}
	patch.Apply(job, status)
	if err := validateJob(job); err != nil {
		return nil, err
	}

	if err := m.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	m.metrics.IncCreated(metrics.EntityJob)

	return job, nil
}

// List returns the caller's jobs, newest first.
func (m *JobAppManager) List(ctx context.Context, caller model.Caller, filter model.JobFilter) ([]*model.Job, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	for _, s := range filter.Statuses {
		if !s.IsValid() {
			return nil, invalid("status", "unknown status "+string(s))
		}
	}

	return m.store.ListJobsByUser(ctx, caller.UserID, filter)
}

// Get returns one of the caller's jobs.
func (m *JobAppManager) Get(ctx context.Context, caller model.Caller, id int64) (*model.Job, error) {
	return m.fetchOwned(ctx, caller, id)
}

// Update merges the present patch fields into one of the caller's jobs.
// An absent status keeps the job's current status.
func (m *JobAppManager) Update(ctx context.Context, caller model.Caller, patch *model.JobApplicationPatch, id int64) (*model.Job, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	if patch.IsEmpty() {
		return nil, ErrMissingData
	}

	job, err := m.fetchOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	status, err := parseStatus(patch.Status)
	if err != nil {
		return nil, err
	}
	patch.Apply(job, status)
	if err := validateJob(job); err != nil {
		return nil, err
	}

	updated, err := m.store.UpdateJob(ctx, job)
	if err != nil {
		return nil, mapJobStoreError(err)
	}

	m.metrics.IncUpdated(metrics.EntityJob)

	return updated, nil
}

// UpdateStatus sets only the status of one of the caller's jobs.
func (m *JobAppManager) UpdateStatus(ctx context.Context, caller model.Caller, id int64, status string) (*model.Job, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}

	parsed, err := parseStatus(&status)
	if err != nil {
		return nil, err
	}

	if _, err := m.fetchOwned(ctx, caller, id); err != nil {
		return nil, err
	}

	updated, err := m.store.UpdateJobStatus(ctx, id, caller.UserID, *parsed)
	if err != nil {
		return nil, mapJobStoreError(err)
	}

	m.metrics.IncUpdated(metrics.EntityJob)

	return updated, nil
}

// Delete removes one of the caller's jobs.
func (m *JobAppManager) Delete(ctx context.Context, caller model.Caller, id int64) error {
	if _, err := m.fetchOwned(ctx, caller, id); err != nil {
		return err
	}

	if err := m.store.DeleteJob(ctx, id, caller.UserID); err != nil {
		return mapJobStoreError(err)
	}

	m.metrics.IncDeleted(metrics.EntityJob)

	return nil
}

// fetchOwned loads a job and checks that the caller owns it.
func (m *JobAppManager) fetchOwned(ctx context.Context, caller model.Caller, id int64) (*model.Job, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}

	job, err := m.store.GetJobByID(ctx, id)
	if err != nil {
		return nil, mapJobStoreError(err)
	}

	if !job.OwnedBy(caller) {
		m.metrics.IncOwnershipDenied(metrics.EntityJob)
		m.logger.Info("job ownership check failed", "job_id", id, "user_id", caller.UserID)
		return nil, ErrNotAuthorized
	}

	return job, nil
}

func mapJobStoreError(err error) error {
	if errors.Is(err, repository.ErrJobNotFound) {
		return ErrJobNotFound
	}
	return err
}
