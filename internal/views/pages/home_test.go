package pages

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"versenest/models"
)

func TestWriterHomeRendersProfile(t *testing.T) {
	t.Parallel()

	user := &models.User{
		Email: "wren@versenest.app",
		Name:  "Wren Alder",
		Role:  models.RoleWriter,
		Writer: &models.WriterProfile{
			PenName: "Nightingale",
			Bio:     "Coastlines and weather.",
			Genres:  []string{"lyrical", "free-verse"},
		},
	}

	var buf bytes.Buffer
	if err := WriterHome(user, "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render writer home: %v", err)
	}

	output := buf.String()
	for _, token := range []string{"Welcome back, Nightingale", "Coastlines and weather.", "lyrical", `action="/logout"`, `action="/profile"`, `value="Nightingale"`} {
		if !strings.Contains(output, token) {
			t.Fatalf("expected writer home to contain %q", token)
		}
	}
}

func TestWriterHomeRendersMessageBanner(t *testing.T) {
	t.Parallel()

	user := &models.User{
		Role:   models.RoleWriter,
		Writer: &models.WriterProfile{PenName: "Nightingale"},
	}

	var buf bytes.Buffer
	if err := WriterHome(user, "Something went wrong. Please try again.").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render writer home: %v", err)
	}
	if !strings.Contains(buf.String(), "Something went wrong. Please try again.") {
		t.Fatal("expected the submission outcome banner")
	}
}

func TestReaderHomeRendersPreferences(t *testing.T) {
	t.Parallel()

	user := &models.User{
		Email: "sage@versenest.app",
		Name:  "Sage Mori",
		Role:  models.RoleReader,
		Reader: &models.ReaderProfile{
			PreferredGenres: []string{"haiku"},
			MoodPreferences: []string{"reflective"},
		},
	}

	var buf bytes.Buffer
	if err := ReaderHome(user, "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render reader home: %v", err)
	}

	output := buf.String()
	for _, token := range []string{"Welcome back, Sage Mori", "haiku", "reflective", `action="/profile"`} {
		if !strings.Contains(output, token) {
			t.Fatalf("expected reader home to contain %q", token)
		}
	}
}

func TestHomePagesHandleMissingProfiles(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriterHome(nil, "").Render(context.Background(), &buf); err != nil {
		t.Fatalf("render writer home without a user: %v", err)
	}
	if !strings.Contains(buf.String(), "Welcome back, Guest") {
		t.Fatal("expected the guest greeting without a user")
	}
}
