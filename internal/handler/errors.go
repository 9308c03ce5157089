package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jobtrack/jobtrack/internal/auth"
	"github.com/jobtrack/jobtrack/internal/handler/dto"
	"github.com/jobtrack/jobtrack/internal/model"
	"github.com/jobtrack/jobtrack/internal/service"
)

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// callerOrReject returns the request's caller, writing a 401 when there is none.
func callerOrReject(w http.ResponseWriter, r *http.Request) (model.Caller, bool) {
	caller, ok := auth.CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Caller identity is required")
	}
	return caller, ok
}

// handleDecodeError maps request body decoding errors to HTTP responses.
func handleDecodeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var schemaErr *dto.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "Request body does not match the expected shape",
			Code:    "INVALID_DATA",
			Details: schemaErr.Details,
		})
	case errors.Is(err, dto.ErrBodyTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
	case errors.Is(err, dto.ErrInvalidJSON):
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr *service.ValidationError
		emailErr      *service.EmailTakenError
	)
	switch {
	case errors.Is(err, service.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "NOT_AUTHORIZED", "Not authorized to access this resource")
	case errors.As(err, &emailErr):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email "+emailErr.Email+" is already taken")
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, http.StatusConflict, "EMAIL_TAKEN", "Email is already taken")
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusConflict, "USER_EXISTS", "User already exists")
	case errors.Is(err, service.ErrMissingData):
		writeError(w, http.StatusBadRequest, "MISSING_DATA", "Request carries no data")
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   validationErr.Error(),
			Code:    "INVALID_DATA",
			Details: []string{validationErr.Field},
		})
	case errors.Is(err, service.ErrInvalidApplicationData):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_DATA", "Invalid data")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "JOB_NOT_FOUND", "Job not found")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
