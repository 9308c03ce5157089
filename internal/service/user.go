package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jobtrack/jobtrack/internal/cache"
	"github.com/jobtrack/jobtrack/internal/metrics"
	"github.com/jobtrack/jobtrack/internal/model"
	"github.com/jobtrack/jobtrack/internal/repository"
)

// UserStore persists user rows.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateUserEmail(ctx context.Context, id, email string) (*model.User, error)
	UpdateUserFirstName(ctx context.Context, id, firstName string) (*model.User, error)
	UpdateUserLastName(ctx context.Context, id, lastName string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserCache holds user profiles in front of the store.
// GetUser must return cache.ErrCacheMiss when the entry is absent.
type UserCache interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	SetUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error
}

// UserManager handles user business logic for the calling user.
type UserManager struct {
	store   UserStore
	cache   UserCache
	metrics metrics.Recorder
	logger  *slog.Logger

	// writes counts evictions. A backfill is dropped when it changed
	// during the store read.
	mu     sync.Mutex
	writes uint64
}

// NewUserManager creates a new UserManager. userCache may be nil.
func NewUserManager(store UserStore, userCache UserCache, recorder metrics.Recorder, logger *slog.Logger) *UserManager {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserManager{
		store:   store,
		cache:   userCache,
		metrics: recorder,
		logger:  logger,
	}
}

// Create inserts the caller's user row from the patch.
func (m *UserManager) Create(ctx context.Context, caller model.Caller, patch *model.UserPatch) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	if patch.IsEmpty() {
		return nil, ErrMissingData
	}
	if patch.Email == nil {
		return nil, invalid("email", "is required")
	}

	user := &model.User{ID: caller.UserID}
	patch.Apply(user)
	if err := validateUser(user); err != nil {
		return nil, err
	}

	existing, err := m.store.GetUserByEmail(ctx, user.Email)
	switch {
	case err == nil && existing.ID == caller.UserID:
		return nil, ErrUserExists
	case err == nil:
		return nil, &EmailTakenError{Email: user.Email}
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("check email: %w", err)
	}

	if err := m.store.CreateUser(ctx, user); err != nil {
		return nil, m.mapStoreError(err, user.Email)
	}

	m.metrics.IncCreated(metrics.EntityUser)

	return user, nil
}

// Get returns the caller's user row, consulting the cache first.
// A miss is backfilled only when no write went through this manager while
// the row was being read. Writes made by other processes are not seen, so
// a stale entry can survive until USER_CACHE_TTL in that case.
func (m *UserManager) Get(ctx context.Context, caller model.Caller) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}

	if m.cache != nil {
		cached, err := m.cache.GetUser(ctx, caller.UserID)
		if err == nil {
			m.metrics.IncUserCacheHit()
			return cached, nil
		}
		if errors.Is(err, cache.ErrCacheMiss) {
			m.metrics.IncUserCacheMiss()
		} else {
			m.logger.Warn("user cache read failed", "user_id", caller.UserID, "error", err)
		}
	}

	seen := m.writeCount()
	user, err := m.store.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, m.mapStoreError(err, "")
	}

	m.backfill(ctx, user, seen)

	return user, nil
}

// Update merges the present patch fields into the caller's user row.
func (m *UserManager) Update(ctx context.Context, caller model.Caller, patch *model.UserPatch) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	if patch.IsEmpty() {
		return nil, ErrMissingData
	}

	user, err := m.store.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, m.mapStoreError(err, "")
	}

	previousEmail := user.Email
	patch.Apply(user)
	if err := validateUser(user); err != nil {
		return nil, err
	}

	if user.Email != previousEmail {
		if err := m.ensureEmailFree(ctx, caller, user.Email); err != nil {
			return nil, err
		}
	}

	updated, err := m.store.UpdateUser(ctx, user)
	if err != nil {
		return nil, m.mapStoreError(err, user.Email)
	}

	m.metrics.IncUpdated(metrics.EntityUser)
	m.invalidate(ctx, caller.UserID)

	return updated, nil
}

// UpdateEmail sets only the caller's email.
func (m *UserManager) UpdateEmail(ctx context.Context, caller model.Caller, email string) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if _, err := m.store.GetUserByID(ctx, caller.UserID); err != nil {
		return nil, m.mapStoreError(err, "")
	}
	if err := m.ensureEmailFree(ctx, caller, email); err != nil {
		return nil, err
	}

	return m.updateColumn(ctx, caller, email, m.store.UpdateUserEmail)
}

// UpdateFirstName sets only the caller's first name.
func (m *UserManager) UpdateFirstName(ctx context.Context, caller model.Caller, firstName string) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	if err := validateName("first_name", firstName); err != nil {
		return nil, err
	}

	return m.updateColumn(ctx, caller, firstName, m.store.UpdateUserFirstName)
}

// UpdateLastName sets only the caller's last name.
func (m *UserManager) UpdateLastName(ctx context.Context, caller model.Caller, lastName string) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}
	if err := validateName("last_name", lastName); err != nil {
		return nil, err
	}

	return m.updateColumn(ctx, caller, lastName, m.store.UpdateUserLastName)
}

// Delete removes the caller's user row and returns it. Jobs are kept.
func (m *UserManager) Delete(ctx context.Context, caller model.Caller) (*model.User, error) {
	if caller.IsAnonymous() {
		return nil, ErrNotAuthorized
	}

	user, err := m.store.GetUserByID(ctx, caller.UserID)
	if err != nil {
		return nil, m.mapStoreError(err, "")
	}

	if err := m.store.DeleteUser(ctx, caller.UserID); err != nil {
		return nil, m.mapStoreError(err, "")
	}

	m.metrics.IncDeleted(metrics.EntityUser)
	m.invalidate(ctx, caller.UserID)

	return user, nil
}

type columnUpdate func(ctx context.Context, id, value string) (*model.User, error)

func (m *UserManager) updateColumn(ctx context.Context, caller model.Caller, value string, update columnUpdate) (*model.User, error) {
	updated, err := update(ctx, caller.UserID, value)
	if err != nil {
		return nil, m.mapStoreError(err, value)
	}

	m.metrics.IncUpdated(metrics.EntityUser)
	m.invalidate(ctx, caller.UserID)

	return updated, nil
}

// ensureEmailFree fails when another user already holds email.
func (m *UserManager) ensureEmailFree(ctx context.Context, caller model.Caller, email string) error {
	existing, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("check email: %w", err)
	}
	if existing.ID != caller.UserID {
		return &EmailTakenError{Email: email}
	}
	return nil
}

func (m *UserManager) writeCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *UserManager) backfill(ctx context.Context, user *model.User, seen uint64) {
	if m.cache == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writes != seen {
		m.logger.Debug("user cache backfill skipped after concurrent write", "user_id", user.ID)
		return
	}
	if err := m.cache.SetUser(ctx, user); err != nil {
		m.logger.Warn("user cache backfill failed", "user_id", user.ID, "error", err)
	}
}

func (m *UserManager) invalidate(ctx context.Context, id string) {
	if m.cache == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if err := m.cache.DeleteUser(ctx, id); err != nil {
		m.logger.Warn("user cache eviction failed", "user_id", id, "error", err)
	}
}

// mapStoreError translates repository errors into service errors.
// email is only used for the EmailTakenError payload.
func (m *UserManager) mapStoreError(err error, email string) error {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrUserExists):
		return ErrUserExists
	case errors.Is(err, repository.ErrEmailExists):
		return &EmailTakenError{Email: email}
	}
	return err
}
