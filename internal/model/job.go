package model

import (
	"errors"
	"strings"
	"time"
)

// JobStatus is the state of a job application.
// Values match the job_status enum in PostgreSQL.
type JobStatus string

const (
	JobStatusPending  JobStatus = "pending"
	JobStatusAccepted JobStatus = "accepted"
	JobStatusRejected JobStatus = "rejected"
)

// ValidJobStatuses contains all valid status values.
var ValidJobStatuses = []JobStatus{JobStatusPending, JobStatusAccepted, JobStatusRejected}

// ErrUnknownJobStatus is returned by ParseJobStatus for unrecognised input.
var ErrUnknownJobStatus = errors.New("unknown job status")

// IsValid checks if the status is one of the known values.
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusPending, JobStatusAccepted, JobStatusRejected:
		return true
	}
	return false
}

// ParseJobStatus parses a status name, ignoring case and surrounding space.
func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", ErrUnknownJobStatus
	}
	return status, nil
}

// Job represents a tracked job application.
type Job struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Company         string    `json:"company"`
	ApplicationLink string    `json:"application_link"`
	CTime           time.Time `json:"ctime"`
	UserID          string    `json:"user_id"`
	Status          JobStatus `json:"status"`
}

// OwnedBy reports whether the job belongs to the caller.
func (j *Job) OwnedBy(c Caller) bool {
	return !c.IsAnonymous() && j.UserID == c.UserID
}

// JobApplicationPatch carries optional job fields. Nil fields are left untouched.
// Status is kept as raw text so that parsing errors surface at validation time.
type JobApplicationPatch struct {
	Title           *string `json:"title,omitempty"`
	Company         *string `json:"company,omitempty"`
	ApplicationLink *string `json:"application_link,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// IsEmpty reports whether no field is present.
func (p *JobApplicationPatch) IsEmpty() bool {
	return p == nil || (p.Title == nil && p.Company == nil && p.ApplicationLink == nil && p.Status == nil)
}

// HasDetails reports whether any of title, company or application link is present.
func (p *JobApplicationPatch) HasDetails() bool {
	return p != nil && (p.Title != nil || p.Company != nil || p.ApplicationLink != nil)
}

// Apply copies the present fields onto j. The status must already be parsed.
func (p *JobApplicationPatch) Apply(j *Job, status *JobStatus) {
	if p == nil {
		return
	}
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Company != nil {
		j.Company = *p.Company
	}
	if p.ApplicationLink != nil {
		j.ApplicationLink = *p.ApplicationLink
	}
	if status != nil {
		j.Status = *status
	}
}

// JobFilter narrows a job listing.
type JobFilter struct {
	Statuses []JobStatus
}

// StatusStrings returns the filter statuses as plain strings.
func (f JobFilter) StatusStrings() []string {
	out := make([]string, len(f.Statuses))
	for i, s := range f.Statuses {
		out[i] = string(s)
	}
	return out
}
