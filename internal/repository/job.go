package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/jobtrack/jobtrack/internal/model"
)

// Common errors for job repository operations.
var (
	ErrJobNotFound = errors.New("job not found")
)

const jobColumns = `id, title, company, application_link, ctime, user_id, status::text`

// CreateJob inserts a new job and fills in its generated ID.
func (r *Repository) CreateJob(ctx context.Context, job *model.Job) error {
	query := `
		INSERT INTO jobs (title, company, application_link, ctime, user_id, status)
		VALUES ($1, $2, $3, $4, $5, $6::job_status)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		job.Title,
		job.Company,
		job.ApplicationLink,
		job.CTime,
		job.UserID,
		string(job.Status),
	).Scan(&job.ID)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetJobByID retrieves a job by its ID regardless of owner.
func (r *Repository) GetJobByID(ctx context.Context, id int64) (*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	job, err := scanJob(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}

	return job, nil
}

// ListJobsByUser returns the user's jobs, newest first.
func (r *Repository) ListJobsByUser(ctx context.Context, userID string, filter model.JobFilter) ([]*model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE user_id = $1`
	args := []any{userID}

	if len(filter.Statuses) > 0 {
		query += ` AND status::text = ANY($2)`
		args = append(args, pq.Array(filter.StatusStrings()))
	}

	query += ` ORDER BY ctime DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*model.Job, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}

	return jobs, nil
}

// UpdateJob overwrites the mutable columns of a job owned by job.UserID.
func (r *Repository) UpdateJob(ctx context.Context, job *model.Job) (*model.Job, error) {
	query := `
		UPDATE jobs
		SET title = $3, company = $4, application_link = $5, status = $6::job_status
		WHERE id = $1 AND user_id = $2
		RETURNING ` + jobColumns

	updated, err := scanJob(r.pool.QueryRow(ctx, query,
		job.ID,
		job.UserID,
		job.Title,
		job.Company,
		job.ApplicationLink,
		string(job.Status),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return updated, nil
}

// UpdateJobStatus sets only the status of a job owned by userID.
func (r *Repository) UpdateJobStatus(ctx context.Context, id int64, userID string, status model.JobStatus) (*model.Job, error) {
	query := `
		UPDATE jobs
		SET status = $3::job_status
		WHERE id = $1 AND user_id = $2
		RETURNING ` + jobColumns

	updated, err := scanJob(r.pool.QueryRow(ctx, query, id, userID, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	return updated, nil
}

// DeleteJob removes a job owned by userID.
func (r *Repository) DeleteJob(ctx context.Context, id int64, userID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrJobNotFound
	}

	return nil
}

// scanJob scans a single row into a Job model.
func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		job    model.Job
		status string
	)
	err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.ApplicationLink,
		&job.CTime,
		&job.UserID,
		&status,
	)
	if err != nil {
		return nil, err
	}
	job.Status = model.JobStatus(status)
	job.CTime = job.CTime.UTC()
	return &job, nil
}
