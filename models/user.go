package models

import (
	"strings"
	"time"
)

// Role is the fixed account category assigned at registration. It never
// changes afterwards and drives which form fields, panels, and landing
// routes apply.
type Role string

const (
	RoleReader Role = "reader"
	RoleWriter Role = "writer"
)

// ParseRole normalises a raw role value. It returns the empty Role when the
// value names neither known role.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleReader:
		return RoleReader
	case RoleWriter:
		return RoleWriter
	default:
		return ""
	}
}

// Valid reports whether the role names one of the two known categories.
func (r Role) Valid() bool {
	return r == RoleReader || r == RoleWriter
}

// User is the identity record as known to the client. Exactly one of Writer
// or Reader is set, matching Role; the opposite profile is nil, never
// zero-filled.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	Role      Role           `json:"role"`
	Writer    *WriterProfile `json:"writer,omitempty"`
	Reader    *ReaderProfile `json:"reader,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// WriterProfile carries the attributes only writers have.
type WriterProfile struct {
	PenName string   `json:"penName,omitempty"`
	Bio     string   `json:"bio,omitempty"`
	Genres  []string `json:"genres"`
}

// ReaderProfile carries the attributes only readers have.
type ReaderProfile struct {
	PreferredGenres []string `json:"preferredGenres"`
	MoodPreferences []string `json:"moodPreferences,omitempty"`
}

// Credentials is the opaque token material issued alongside a user.
type Credentials struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// Present reports whether any token material is held.
func (c Credentials) Present() bool {
	return c.Token != ""
}

// DisplayName picks the name shown in the UI: a writer's pen name wins, then
// the account name, then the email local part, and "Guest" for no user at all.
func DisplayName(user *User) string {
	if user == nil {
		return "Guest"
	}
	if user.Role == RoleWriter && user.Writer != nil && strings.TrimSpace(user.Writer.PenName) != "" {
		return user.Writer.PenName
	}
	if strings.TrimSpace(user.Name) != "" {
		return user.Name
	}
	if at := strings.IndexByte(user.Email, '@'); at > 0 {
		return user.Email[:at]
	}
	return "User"
}
