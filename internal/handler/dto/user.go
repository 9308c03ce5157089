package dto

import "github.com/jobtrack/jobtrack/internal/model"

// UserPatchRequest is the body of POST /users and PATCH /users/me.
type UserPatchRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ToPatch converts the request into a model patch.
func (r *UserPatchRequest) ToPatch() *model.UserPatch {
	return &model.UserPatch{
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
	}
}

// FieldValueRequest is the body of the single-column user updates.
type FieldValueRequest struct {
	Value string `json:"value"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
