// Package model defines domain entities for the application.
package model

// User is an account keyed by the identity issued by the external auth provider.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// UserPatch carries optional user fields. Nil fields are left untouched.
type UserPatch struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// IsEmpty reports whether no field is present.
func (p *UserPatch) IsEmpty() bool {
	return p == nil || (p.Email == nil && p.FirstName == nil && p.LastName == nil)
}

// Apply copies the present fields onto u.
func (p *UserPatch) Apply(u *User) {
	if p == nil {
		return
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
}

// Caller identifies the authenticated user acting on a request.
// The identity is issued and validated upstream and trusted as-is.
type Caller struct {
	UserID string
}

// IsAnonymous reports whether the caller carries no identity.
func (c Caller) IsAnonymous() bool {
	return c.UserID == ""
}
