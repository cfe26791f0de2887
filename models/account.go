package models

import "time"

// Account is the persisted record behind the embedded identity service. It
// carries the credential hash and the role-specific profile columns; the
// slices are stored as JSON so the schema works on both postgres and sqlite.
type Account struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	Name         string `gorm:"size:255"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:16;not null"`

	PenName string   `gorm:"size:100"`
	Bio     string   `gorm:"size:1000"`
	Genres  []string `gorm:"serializer:json"`

	PreferredGenres []string `gorm:"serializer:json"`
	MoodPreferences []string `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// User converts the stored account into the transport-facing user shape,
// attaching only the profile that matches the account's role.
func (a Account) User() User {
	u := User{
		ID:        a.ID,
		Email:     a.Email,
		Name:      a.Name,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
	}

	switch a.Role {
	case RoleWriter:
		u.Writer = &WriterProfile{
			PenName: a.PenName,
			Bio:     a.Bio,
			Genres:  append([]string(nil), a.Genres...),
		}
	case RoleReader:
		u.Reader = &ReaderProfile{
			PreferredGenres: append([]string(nil), a.PreferredGenres...),
			MoodPreferences: append([]string(nil), a.MoodPreferences...),
		}
	}

	return u
}
