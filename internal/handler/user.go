package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jobtrack/jobtrack/internal/handler/dto"
	"github.com/jobtrack/jobtrack/internal/model"
)

// UserService is the user manager as seen by the HTTP layer.
type UserService interface {
	Create(ctx context.Context, caller model.Caller, patch *model.UserPatch) (*model.User, error)
	Get(ctx context.Context, caller model.Caller) (*model.User, error)
	Update(ctx context.Context, caller model.Caller, patch *model.UserPatch) (*model.User, error)
	UpdateEmail(ctx context.Context, caller model.Caller, email string) (*model.User, error)
	UpdateFirstName(ctx context.Context, caller model.Caller, firstName string) (*model.User, error)
	UpdateLastName(ctx context.Context, caller model.Caller, lastName string) (*model.User, error)
	Delete(ctx context.Context, caller model.Caller) (*model.User, error)
}

// UserHandler handles HTTP requests for the caller's user record.
type UserHandler struct {
	svc    UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	var req dto.UserPatchRequest
	if err := dto.Decode(r.Body, dto.UserPatchSchema, &req); err != nil {
		handleDecodeError(w, h.logger, err)
		return
	}

	user, err := h.svc.Create(r.Context(), caller, req.ToPatch())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// Get handles GET /api/v1/users/me.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Get(r.Context(), caller)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// Update handles PATCH /api/v1/users/me.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	var req dto.UserPatchRequest
	if err := dto.Decode(r.Body, dto.UserPatchSchema, &req); err != nil {
		handleDecodeError(w, h.logger, err)
		return
	}

	user, err := h.svc.Update(r.Context(), caller, req.ToPatch())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_updated", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// UpdateEmail handles PUT /api/v1/users/me/email.
func (h *UserHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	h.updateField(w, r, "email", h.svc.UpdateEmail)
}

// UpdateFirstName handles PUT /api/v1/users/me/first-name.
func (h *UserHandler) UpdateFirstName(w http.ResponseWriter, r *http.Request) {
	h.updateField(w, r, "first_name", h.svc.UpdateFirstName)
}

// UpdateLastName handles PUT /api/v1/users/me/last-name.
func (h *UserHandler) UpdateLastName(w http.ResponseWriter, r *http.Request) {
	h.updateField(w, r, "last_name", h.svc.UpdateLastName)
}

// Delete handles DELETE /api/v1/users/me and returns the removed user.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Delete(r.Context(), caller)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", user.ID)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

type fieldUpdate func(ctx context.Context, caller model.Caller, value string) (*model.User, error)

func (h *UserHandler) updateField(w http.ResponseWriter, r *http.Request, field string, update fieldUpdate) {
	caller, ok := callerOrReject(w, r)
	if !ok {
		return
	}

	var req dto.FieldValueRequest
	if err := dto.Decode(r.Body, dto.FieldValueSchema, &req); err != nil {
		handleDecodeError(w, h.logger, err)
		return
	}

	user, err := update(r.Context(), caller, req.Value)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_updated", "user_id", user.ID, "field", field)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}
