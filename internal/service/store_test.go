package service

import (
	"context"
	"sort"
	"sync"

	"github.com/jobtrack/jobtrack/internal/cache"
	"github.com/jobtrack/jobtrack/internal/model"
	"github.com/jobtrack/jobtrack/internal/repository"
)

// memStore is an in-memory UserStore and JobStore with repository semantics.
type memStore struct {
	mu     sync.Mutex
	users  map[string]model.User
	jobs   map[int64]model.Job
	nextID int64
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]model.User),
		jobs:  make(map[int64]model.Job),
	}
}

func (s *memStore) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return repository.ErrUserExists
	}
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	s.users[user.ID] = *user
	return nil
}

func (s *memStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *memStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memStore) UpdateUser(_ context.Context, user *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return nil, repository.ErrUserNotFound
	}
	for id, u := range s.users {
		if id != user.ID && u.Email == user.Email {
			return nil, repository.ErrEmailExists
		}
	}
	s.users[user.ID] = *user
	stored := *user
	return &stored, nil
}

func (s *memStore) updateUser(id string, apply func(*model.User)) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	apply(&u)
	for otherID, other := range s.users {
		if otherID != id && other.Email == u.Email {
			return nil, repository.ErrEmailExists
		}
	}
	s.users[id] = u
	return &u, nil
}

func (s *memStore) UpdateUserEmail(_ context.Context, id, email string) (*model.User, error) {
	return s.updateUser(id, func(u *model.User) { u.Email = email })
}

func (s *memStore) UpdateUserFirstName(_ context.Context, id, firstName string) (*model.User, error) {
	return s.updateUser(id, func(u *model.User) { u.FirstName = firstName })
}

func (s *memStore) UpdateUserLastName(_ context.Context, id, lastName string) (*model.User, error) {
	return s.updateUser(id, func(u *model.User) { u.LastName = lastName })
}

func (s *memStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memStore) CreateJob(_ context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	job.ID = s.nextID
	s.jobs[job.ID] = *job
	return nil
}

func (s *memStore) GetJobByID(_ context.Context, id int64) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrJobNotFound
	}
	return &j, nil
}

func (s *memStore) ListJobsByUser(_ context.Context, userID string, filter model.JobFilter) ([]*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]*model.Job, 0)
	for _, j := range s.jobs {
		if j.UserID != userID || !statusMatches(filter, j.Status) {
			continue
		}
		j := j
		jobs = append(jobs, &j)
	}
	sort.Slice(jobs, func(a, b int) bool {
		if !jobs[a].CTime.Equal(jobs[b].CTime) {
			return jobs[a].CTime.After(jobs[b].CTime)
		}
		return jobs[a].ID > jobs[b].ID
	})
	return jobs, nil
}

func statusMatches(filter model.JobFilter, status model.JobStatus) bool {
	if len(filter.Statuses) == 0 {
		return true
	}
	for _, s := range filter.Statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s *memStore) UpdateJob(_ context.Context, job *model.Job) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[job.ID]
	if !ok || current.UserID != job.UserID {
		return nil, repository.ErrJobNotFound
	}
	current.Title = job.Title
	current.Company = job.Company
	current.ApplicationLink = job.ApplicationLink
	current.Status = job.Status
	s.jobs[job.ID] = current
	return &current, nil
}

func (s *memStore) UpdateJobStatus(_ context.Context, id int64, userID string, status model.JobStatus) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[id]
	if !ok || current.UserID != userID {
		return nil, repository.ErrJobNotFound
	}
	current.Status = status
	s.jobs[id] = current
	return &current, nil
}

func (s *memStore) DeleteJob(_ context.Context, id int64, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[id]
	if !ok || current.UserID != userID {
		return repository.ErrJobNotFound
	}
	delete(s.jobs, id)
	return nil
}

// memCache is an in-memory UserCache.
type memCache struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemCache() *memCache {
	return &memCache{users: make(map[string]model.User)}
}

func (c *memCache) GetUser(_ context.Context, id string) (*model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, ok := c.users[id]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return &u, nil
}

func (c *memCache) SetUser(_ context.Context, user *model.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.users[user.ID] = *user
	return nil
}

func (c *memCache) DeleteUser(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.users, id)
	return nil
}

func (c *memCache) has(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.users[id]
	return ok
}
