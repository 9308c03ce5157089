package dto

import (
	"time"

	"github.com/jobtrack/jobtrack/internal/model"
)

// JobPatchRequest is the body of POST /jobs and PATCH /jobs/{id}.
type JobPatchRequest struct {
	Title           *string `json:"title"`
	Company         *string `json:"company"`
	ApplicationLink *string `json:"application_link"`
	Status          *string `json:"status"`
}

// ToPatch converts the request into a model patch.
func (r *JobPatchRequest) ToPatch() *model.JobApplicationPatch {
	return &model.JobApplicationPatch{
		Title:           r.Title,
		Company:         r.Company,
		ApplicationLink: r.ApplicationLink,
		Status:          r.Status,
	}
}

// JobStatusRequest is the body of PUT /jobs/{id}/status.
type JobStatusRequest struct {
	Status string `json:"status"`
}

// JobResponse represents a job in API responses.
type JobResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	ApplicationLink string    `json:"application_link"`
	CTime           time.Time `json:"ctime"`
	UserID          string    `json:"user_id"`
	Status          string    `json:"status"`
}

// JobListResponse wraps a job listing.
type JobListResponse struct {
	Data  []JobResponse `json:"data"`
	Count int           `json:"count"`
}

// ToJobResponse converts a Job model to JobResponse DTO.
func ToJobResponse(job *model.Job) *JobResponse {
	return &JobResponse{
		ID:              job.ID,
		Title:           job.Title,
		Company:         job.Company,
		ApplicationLink: job.ApplicationLink,
		CTime:           job.CTime,
		UserID:          job.UserID,
		Status:          string(job.Status),
	}
}

// ToJobListResponse converts a slice of jobs.
func ToJobListResponse(jobs []*model.Job) *JobListResponse {
	data := make([]JobResponse, len(jobs))
	for i, job := range jobs {
		data[i] = *ToJobResponse(job)
	}
	return &JobListResponse{Data: data, Count: len(data)}
}
