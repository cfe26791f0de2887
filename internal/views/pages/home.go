package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"versenest/internal/validation"
	"versenest/internal/views/layout"
	"versenest/internal/views/theme"
	"versenest/models"
)

// WriterHome renders the signed-in writer surface. A non-empty message is the
// outcome banner from the last profile submission.
func WriterHome(user *models.User, message string) templ.Component {
	return layout.Base("Writer home", theme.ForRole(models.RoleWriter), templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		writeHomeHeader(&b, "Welcome back, "+models.DisplayName(user))
		b.WriteString(`<p class="nest-muted">Your nest is ready. Draft a poem or revisit your collection.</p>`)
		writeHomeBanner(&b, message)

		if user != nil && user.Writer != nil {
			if user.Writer.Bio != "" {
				fmt.Fprintf(&b, `<p class="nest-bio">%s</p>`, templ.EscapeString(user.Writer.Bio))
			}
			writeTagList(&b, "Your genres", user.Writer.Genres)
			writeWriterProfileForm(&b, user.Writer)
		}

		writeHomeFooter(&b)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

// ReaderHome renders the signed-in reader surface.
func ReaderHome(user *models.User, message string) templ.Component {
	return layout.Base("Reader home", theme.ForRole(models.RoleReader), templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		writeHomeHeader(&b, "Welcome back, "+models.DisplayName(user))
		b.WriteString(`<p class="nest-muted">Fresh verses are waiting for you.</p>`)
		writeHomeBanner(&b, message)

		if user != nil && user.Reader != nil {
			writeTagList(&b, "Genres you follow", user.Reader.PreferredGenres)
			writeTagList(&b, "Moods you look for", user.Reader.MoodPreferences)
			writeReaderProfileForm(&b, user.Reader)
		}

		writeHomeFooter(&b)
		_, err := io.WriteString(w, b.String())
		return err
	}))
}

func writeHomeHeader(b *strings.Builder, heading string) {
	fmt.Fprintf(b, `<header class="nest-hero"><h1>%s</h1></header>`, templ.EscapeString(heading))
}

func writeHomeBanner(b *strings.Builder, message string) {
	if message == "" {
		return
	}
	fmt.Fprintf(b, `<div class="nest-banner" role="alert">%s</div>`, templ.EscapeString(message))
}

func writeWriterProfileForm(b *strings.Builder, profile *models.WriterProfile) {
	scope := fieldScope{mode: validation.ModeSignup, role: models.RoleWriter}
	b.WriteString(`<section class="nest-profile"><h2>Your profile</h2>`)
	b.WriteString(`<form method="post" action="/profile" novalidate>`)
	writeInput(b, scope, validation.FieldPenName, "text", "Pen name", profile.PenName, nil)
	writeTextarea(b, scope, validation.FieldBio, "Bio", profile.Bio, nil)
	writeCheckboxGroup(b, validation.FieldGenres, "Genres you write", models.GenreOptions, profile.Genres, nil)
	b.WriteString(`<button type="submit" class="nest-button">Save profile</button></form></section>`)
}

func writeReaderProfileForm(b *strings.Builder, profile *models.ReaderProfile) {
	b.WriteString(`<section class="nest-profile"><h2>Your preferences</h2>`)
	b.WriteString(`<form method="post" action="/profile" novalidate>`)
	writeCheckboxGroup(b, validation.FieldPreferredGenres, "Genres you enjoy", models.GenreOptions, profile.PreferredGenres, nil)
	writeCheckboxGroup(b, validation.FieldMoodPreferences, "Moods you look for", models.MoodOptions, profile.MoodPreferences, nil)
	b.WriteString(`<button type="submit" class="nest-button">Save preferences</button></form></section>`)
}

func writeHomeFooter(b *strings.Builder) {
	b.WriteString(`<form method="post" action="/logout"><button type="submit" class="nest-link">Sign out</button></form>`)
}

func writeTagList(b *strings.Builder, label string, tags []string) {
	if len(tags) == 0 {
		return
	}
	fmt.Fprintf(b, `<section class="nest-tags"><h2>%s</h2><ul>`, templ.EscapeString(label))
	for _, tag := range tags {
		fmt.Fprintf(b, `<li>%s</li>`, templ.EscapeString(tag))
	}
	b.WriteString(`</ul></section>`)
}
