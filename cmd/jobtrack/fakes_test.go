package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/jobtrack/jobtrack/internal/cache"
	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/metrics"
	"github.com/jobtrack/jobtrack/internal/model"
	"github.com/jobtrack/jobtrack/internal/service"
)

var fixedCTime = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// Callers with special meaning to the fakes below.
const (
	ghostCaller     = "ghost"
	throttledCaller = "throttled"
	takenEmail      = "taken@example.com"
)

type fakeUsers struct{}

func (fakeUsers) user(c model.Caller) *model.User {
	return &model.User{ID: c.UserID, Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}
}

func (f fakeUsers) Create(_ context.Context, c model.Caller, p *model.UserPatch) (*model.User, error) {
	if p.Email != nil && *p.Email == takenEmail {
		return nil, &service.EmailTakenError{Email: takenEmail}
	}
	return f.user(c), nil
}

func (f fakeUsers) Get(_ context.Context, c model.Caller) (*model.User, error) {
	if c.UserID == ghostCaller {
		return nil, service.ErrUserNotFound
	}
	return f.user(c), nil
}

func (f fakeUsers) Update(_ context.Context, c model.Caller, p *model.UserPatch) (*model.User, error) {
	if p.IsEmpty() {
		return nil, service.ErrMissingData
	}
	return f.user(c), nil
}

func (f fakeUsers) UpdateEmail(_ context.Context, c model.Caller, v string) (*model.User, error) {
	u := f.user(c)
	u.Email = v
	return u, nil
}

func (f fakeUsers) UpdateFirstName(_ context.Context, c model.Caller, v string) (*model.User, error) {
	u := f.user(c)
	u.FirstName = v
	return u, nil
}

func (f fakeUsers) UpdateLastName(_ context.Context, c model.Caller, v string) (*model.User, error) {
	u := f.user(c)
	u.LastName = v
	return u, nil
}

func (f fakeUsers) Delete(_ context.Context, c model.Caller) (*model.User, error) {
	return f.user(c), nil
}

// fakeJobs owns job 1, denies job 2 and knows no other job.
type fakeJobs struct{}

func (fakeJobs) job(c model.Caller, id int64) *model.Job {
	return &model.Job{
		ID:              id,
		Title:           "Engineer",
		Company:         "Acme",
		ApplicationLink: "https://acme.example/jobs/1",
		CTime:           fixedCTime,
		UserID:          c.UserID,
		Status:          model.JobStatusPending,
	}
}

func (f fakeJobs) lookup(c model.Caller, id int64) (*model.Job, error) {
	switch id {
	case 1:
		return f.job(c, id), nil
	case 2:
		return nil, service.ErrNotAuthorized
	default:
		return nil, service.ErrJobNotFound
	}
}

func (f fakeJobs) Create(_ context.Context, c model.Caller, p *model.JobApplicationPatch) (*model.Job, error) {
	if !p.HasDetails() {
		return nil, service.ErrMissingData
	}
	return f.job(c, 1), nil
}

func (f fakeJobs) List(_ context.Context, c model.Caller, _ model.JobFilter) ([]*model.Job, error) {
	return []*model.Job{f.job(c, 1)}, nil
}

func (f fakeJobs) Get(_ context.Context, c model.Caller, id int64) (*model.Job, error) {
	return f.lookup(c, id)
}

func (f fakeJobs) Update(_ context.Context, c model.Caller, _ *model.JobApplicationPatch, id int64) (*model.Job, error) {
	return f.lookup(c, id)
}

func (f fakeJobs) UpdateStatus(_ context.Context, c model.Caller, id int64, status string) (*model.Job, error) {
	parsed, err := model.ParseJobStatus(status)
	if err != nil {
		return nil, &service.ValidationError{Field: "status", Reason: err.Error()}
	}
	j, err := f.lookup(c, id)
	if err != nil {
		return nil, err
	}
	j.Status = parsed
	return j, nil
}

func (f fakeJobs) Delete(_ context.Context, c model.Caller, id int64) error {
	_, err := f.lookup(c, id)
	return err
}

type fakeChecker struct {
	err error
}

func (f fakeChecker) Ping(context.Context) error {
	return f.err
}

// fakeLimiter rejects the throttled caller and admits everyone else.
type fakeLimiter struct{}

func (fakeLimiter) CheckCallerRateLimit(_ context.Context, userID string, _, burst int) (*cache.RateLimitResult, error) {
	if userID == throttledCaller {
		return &cache.RateLimitResult{ResetAt: time.Now().Add(time.Minute), RetryAfter: 30 * time.Second}, nil
	}
	return &cache.RateLimitResult{Allowed: true, Remaining: int64(burst - 1), ResetAt: time.Now().Add(time.Minute)}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		Port:               8080,
		IdentityHeader:     "X-User-ID",
		RateLimitEnabled:   true,
		RateLimitRPM:       60,
		RateLimitBurst:     10,
		MaxRequestBodySize: 4096,
	}
}

func testDeps(cfg *config.Config) routerDeps {
	return routerDeps{
		Config:   cfg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:  "test",
		Database: fakeChecker{},
		Cache:    fakeChecker{},
		Limiter:  fakeLimiter{},
		Metrics:  metrics.NewInMemory(),
		Users:    fakeUsers{},
		Jobs:     fakeJobs{},
	}
}
