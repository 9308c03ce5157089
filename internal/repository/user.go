package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jobtrack/jobtrack/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrEmailExists  = errors.New("email already exists")
)

const (
	usersEmailConstraint = "users_email_key"
	usersPKeyConstraint  = "users_pkey"
)

// userColumn names a single mutable user column.
type userColumn string

const (
	columnEmail     userColumn = "email"
	columnFirstName userColumn = "first_name"
	columnLastName  userColumn = "last_name"
)

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
	)
	if err != nil {
		return mapUserWriteError("create user", err)
	}

	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `
		SELECT id, email, first_name, last_name
		FROM users
		WHERE id = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `
		SELECT id, email, first_name, last_name
		FROM users
		WHERE email = $1
	`

	user, err := scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpdateUser overwrites all mutable columns and returns the stored row.
func (r *Repository) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4
		WHERE id = $1
		RETURNING id, email, first_name, last_name
	`

	updated, err := scanUser(r.pool.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.FirstName,
		user.LastName,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, mapUserWriteError("update user", err)
	}

	return updated, nil
}

// UpdateUserEmail sets only the email column.
func (r *Repository) UpdateUserEmail(ctx context.Context, id, email string) (*model.User, error) {
	return r.updateUserColumn(ctx, id, columnEmail, email)
}

// UpdateUserFirstName sets only the first_name column.
func (r *Repository) UpdateUserFirstName(ctx context.Context, id, firstName string) (*model.User, error) {
	return r.updateUserColumn(ctx, id, columnFirstName, firstName)
}

// UpdateUserLastName sets only the last_name column.
func (r *Repository) UpdateUserLastName(ctx context.Context, id, lastName string) (*model.User, error) {
	return r.updateUserColumn(ctx, id, columnLastName, lastName)
}

// updateUserColumn updates one column. column is never caller-controlled.
func (r *Repository) updateUserColumn(ctx context.Context, id string, column userColumn, value string) (*model.User, error) {
	query := fmt.Sprintf(`
		UPDATE users
		SET %s = $2
		WHERE id = $1
		RETURNING id, email, first_name, last_name
	`, column)

	updated, err := scanUser(r.pool.QueryRow(ctx, query, id, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, mapUserWriteError("update user "+string(column), err)
	}

	return updated, nil
}

// DeleteUser removes a user row. Jobs owned by the user are not touched.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// mapUserWriteError translates constraint violations into repository errors.
func mapUserWriteError(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		switch constraint {
		case usersPKeyConstraint:
			return ErrUserExists
		case usersEmailConstraint:
			return ErrEmailExists
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
