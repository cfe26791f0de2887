// Package identity defines the boundary to the external identity service.
//
// The Client interface carries exactly the five operations the auth workflow
// needs; the HTTP implementation talks to a remote deployment while the local
// subpackage provides an in-process one for development and tests. Callers
// never retry here: a failed attempt surfaces immediately and the UI decides
// whether to resubmit.
package identity

import (
	"context"

	"versenest/models"
)

// Client is the contract every identity backend satisfies.
type Client interface {
	// Login exchanges credentials for a user and token material. It fails
	// with an invalid-credentials error on a bad email/password pair.
	Login(ctx context.Context, input LoginInput) (*Grant, error)

	// Register enrolls a new account. It fails with a duplicate-account
	// error when the email is taken and a validation-rejected error when
	// the backend refuses the payload.
	Register(ctx context.Context, input RegisterInput) (*Grant, error)

	// ValidateToken reports whether the bearer token is still accepted.
	ValidateToken(ctx context.Context, token string) (bool, error)

	// Logout notifies the backend that the token's session ended. Callers
	// treat this as best effort; local state is cleared regardless.
	Logout(ctx context.Context, token string) error

	// UpdateProfile applies a partial update to the authenticated user and
	// returns the confirmed record.
	UpdateProfile(ctx context.Context, token string, update ProfileUpdate) (*models.User, error)
}

// LoginInput carries one authentication attempt.
type LoginInput struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// RegisterInput carries one enrollment attempt. Role-specific fields outside
// the chosen role are left zero and never serialized.
type RegisterInput struct {
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	Name            string      `json:"name"`
	Role            models.Role `json:"role"`
	PenName         string      `json:"penName,omitempty"`
	Bio             string      `json:"bio,omitempty"`
	Genres          []string    `json:"genres,omitempty"`
	PreferredGenres []string    `json:"preferredGenres,omitempty"`
	MoodPreferences []string    `json:"moodPreferences,omitempty"`
}

// ProfileUpdate is a partial user mutation. Nil fields are left untouched.
type ProfileUpdate struct {
	Name            *string  `json:"name,omitempty"`
	PenName         *string  `json:"penName,omitempty"`
	Bio             *string  `json:"bio,omitempty"`
	Genres          []string `json:"genres,omitempty"`
	PreferredGenres []string `json:"preferredGenres,omitempty"`
	MoodPreferences []string `json:"moodPreferences,omitempty"`
}

// Grant is the result of a successful login or registration.
type Grant struct {
	User        *models.User
	Credentials models.Credentials
}
