// Package models defines client-side data models used by the homelights CLI.
package models

// UserProfile is the authenticated user's profile as returned by the backend.
// Username is immutable on the client side.
type UserProfile struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	LifxToken string `json:"lifxToken"`
}

// Credentials is the login payload.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the registration payload.
type SignupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	LifxToken string `json:"lifxToken"`
}

// ProfileUpdate carries the editable profile fields. Username is deliberately
// absent: it is part of the request path, never of the body.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	LifxToken string `json:"lifxToken,omitempty"`
}
