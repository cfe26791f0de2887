// Package pages holds the server-rendered views. The authentication surface
// is a single landing page with one collapsible panel per audience; HTMX
// swaps the panel region in place so opening a role, switching tabs, and
// failed submissions never reload the document.
package pages

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"versenest/internal/roleselect"
	"versenest/internal/validation"
	"versenest/internal/views/layout"
	"versenest/internal/views/theme"
	"versenest/models"
)

// AuthView carries everything the landing page needs: which panel is open,
// the preserved form values, per-field errors, and the submission banner.
type AuthView struct {
	State   roleselect.State
	Form    validation.Form
	Errors  map[string]string
	Message string
}

// StartJourney renders the full landing page.
func StartJourney(view AuthView) templ.Component {
	return layout.Base("Start your journey", theme.ByKey(theme.DefaultKey), startContent(view))
}

func startContent(view AuthView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w,
			`<header class="nest-hero"><h1>Start your journey</h1>`+
				`<p class="nest-muted">Share your poetry with the world, or find verses that speak to you.</p></header>`,
		); err != nil {
			return err
		}
		return RolePanels(view).Render(ctx, w)
	})
}

// RolePanels renders the swap target holding both role cards. Exactly one
// panel can be expanded at a time.
func RolePanels(view AuthView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="role-panels" class="nest-roles">`)
		writeRoleCard(&b, models.RoleWriter, "Join as a Writer", "Publish poems, build a readership, and grow your craft.", view)
		writeRoleCard(&b, models.RoleReader, "Join as a Reader", "Discover poets and collect the verses you love.", view)
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeRoleCard(b *strings.Builder, role models.Role, title, blurb string, view AuthView) {
	open := view.State.ActiveRole == role

	fmt.Fprintf(b, `<article class="nest-panel%s" data-role="%s">`, cardState(open), role)
	fmt.Fprintf(b, `<h2>%s</h2><p class="nest-muted">%s</p>`, templ.EscapeString(title), templ.EscapeString(blurb))

	if !open {
		fmt.Fprintf(b,
			`<button type="button" class="nest-button" hx-post="/panel/%s/open" hx-target="#role-panels" hx-swap="outerHTML">Get started</button>`,
			role,
		)
		b.WriteString(`</article>`)
		return
	}

	writeTabs(b, role, view.State.ActiveTab)

	if view.Message != "" {
		fmt.Fprintf(b, `<div class="nest-banner" role="alert">%s</div>`, templ.EscapeString(view.Message))
	}

	if view.State.ActiveTab == roleselect.TabLogin {
		writeLoginForm(b, role, view)
	} else {
		writeSignupForm(b, role, view)
	}

	b.WriteString(
		`<button type="button" class="nest-link" hx-post="/panel/close" hx-target="#role-panels" hx-swap="outerHTML">Close</button>`,
	)
	b.WriteString(`</article>`)
}

func cardState(open bool) string {
	if open {
		return " is-open"
	}
	return ""
}

func writeTabs(b *strings.Builder, role models.Role, active roleselect.Tab) {
	b.WriteString(`<nav class="nest-tabs" role="tablist">`)
	writeTab(b, role, roleselect.TabSignup, "Sign Up", active)
	writeTab(b, role, roleselect.TabLogin, "Sign In", active)
	b.WriteString(`</nav>`)
}

func writeTab(b *strings.Builder, role models.Role, tab roleselect.Tab, label string, active roleselect.Tab) {
	state := "inactive"
	if tab == active {
		state = "active"
	}
	fmt.Fprintf(b,
		`<button type="button" role="tab" class="nest-tab %s" hx-post="/panel/%s/tab/%s" hx-target="#role-panels" hx-swap="outerHTML">%s</button>`,
		state, role, tab, templ.EscapeString(label),
	)
}

// fieldScope tells the live-validation endpoint which rule set applies to
// the field being edited.
type fieldScope struct {
	mode validation.Mode
	role models.Role
}

func writeLoginForm(b *strings.Builder, role models.Role, view AuthView) {
	scope := fieldScope{mode: validation.ModeLogin, role: role}
	fmt.Fprintf(b, `<form method="post" action="/auth/%s/login" hx-post="/auth/%s/login" hx-target="#role-panels" hx-swap="outerHTML" novalidate>`, role, role)
	writeInput(b, scope, validation.FieldEmail, "email", "Email", view.Form.Email, view.Errors)
	writeInput(b, scope, validation.FieldPassword, "password", "Password", view.Form.Password, view.Errors)
	b.WriteString(`<button type="submit" class="nest-button">Sign In</button></form>`)
	b.WriteString(`<a class="nest-link" href="/auth/reset">Forgot password?</a>`)
}

func writeSignupForm(b *strings.Builder, role models.Role, view AuthView) {
	scope := fieldScope{mode: validation.ModeSignup, role: role}
	fmt.Fprintf(b, `<form method="post" action="/auth/%s/signup" hx-post="/auth/%s/signup" hx-target="#role-panels" hx-swap="outerHTML" novalidate>`, role, role)
	writeInput(b, scope, validation.FieldName, "text", "Full name", view.Form.Name, view.Errors)
	writeInput(b, scope, validation.FieldEmail, "email", "Email", view.Form.Email, view.Errors)
	writeInput(b, scope, validation.FieldPassword, "password", "Password", view.Form.Password, view.Errors)
	writeStrengthMeter(b, view.Form.Password)
	writeInput(b, scope, validation.FieldConfirmPassword, "password", "Confirm password", view.Form.ConfirmPassword, view.Errors)

	if role == models.RoleWriter {
		writeInput(b, scope, validation.FieldPenName, "text", "Pen name", view.Form.PenName, view.Errors)
		writeTextarea(b, scope, validation.FieldBio, "Bio", view.Form.Bio, view.Errors)
		writeCheckboxGroup(b, validation.FieldGenres, "Genres you write", models.GenreOptions, view.Form.Genres, view.Errors)
	} else {
		writeCheckboxGroup(b, validation.FieldPreferredGenres, "Genres you enjoy", models.GenreOptions, view.Form.PreferredGenres, view.Errors)
		writeCheckboxGroup(b, validation.FieldMoodPreferences, "Moods you look for", models.MoodOptions, view.Form.MoodPreferences, view.Errors)
	}

	writeTermsCheckbox(b, view.Form.AcceptTerms, view.Errors)
	b.WriteString(`<button type="submit" class="nest-button">Create account</button></form>`)
}

func writeInput(b *strings.Builder, scope fieldScope, field, inputType, label, value string, errors map[string]string) {
	message := errors[field]
	fmt.Fprintf(b, `<div class="nest-field%s"><label for="%s">%s</label>`, fieldState(message), field, templ.EscapeString(label))
	fmt.Fprintf(b, `<input id="%s" name="%s" type="%s" value="%s"%s/>`, field, field, inputType, templ.EscapeString(value), liveValidationAttrs(scope, field))
	writeFieldError(b, field, message)
	b.WriteString(`</div>`)
}

func writeTextarea(b *strings.Builder, scope fieldScope, field, label, value string, errors map[string]string) {
	message := errors[field]
	fmt.Fprintf(b, `<div class="nest-field%s"><label for="%s">%s</label>`, fieldState(message), field, templ.EscapeString(label))
	fmt.Fprintf(b, `<textarea id="%s" name="%s" rows="3"%s>%s</textarea>`, field, field, liveValidationAttrs(scope, field), templ.EscapeString(value))
	writeFieldError(b, field, message)
	b.WriteString(`</div>`)
}

// liveValidationAttrs makes an input re-check itself as the user types,
// swapping only its own error slot. The whole form is included so rules that
// read sibling fields, like the confirm-password match, see current values.
func liveValidationAttrs(scope fieldScope, field string) string {
	return fmt.Sprintf(
		` hx-post="/auth/field" hx-trigger="input changed delay:300ms" hx-target="#error-%s" hx-swap="outerHTML" hx-include="closest form" hx-vals='{"field":"%s","mode":"%s","role":"%s"}'`,
		field, field, scope.mode, scope.role,
	)
}

func writeCheckboxGroup(b *strings.Builder, field, legend string, options []models.Option, selected []string, errors map[string]string) {
	message := errors[field]
	fmt.Fprintf(b, `<fieldset class="nest-field%s"><legend>%s</legend>`, fieldState(message), templ.EscapeString(legend))
	for _, option := range options {
		fmt.Fprintf(b,
			`<label class="nest-check"><input type="checkbox" name="%s" value="%s"%s/> %s</label>`,
			field, option.Value, checkedState(selected, option.Value), templ.EscapeString(option.Label),
		)
	}
	writeFieldError(b, field, message)
	b.WriteString(`</fieldset>`)
}

func writeTermsCheckbox(b *strings.Builder, accepted bool, errors map[string]string) {
	message := errors[validation.FieldAcceptTerms]
	checked := ""
	if accepted {
		checked = ` checked`
	}
	fmt.Fprintf(b,
		`<div class="nest-field%s"><label class="nest-check"><input type="checkbox" name="%s" value="true"%s/> I accept the terms and conditions</label>`,
		fieldState(message), validation.FieldAcceptTerms, checked,
	)
	writeFieldError(b, validation.FieldAcceptTerms, message)
	b.WriteString(`</div>`)
}

// FieldError is the fragment swapped in next to an input after a live
// validation check. An empty message renders the hidden slot, clearing any
// earlier error for that field.
func FieldError(field, message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		writeFieldError(&b, field, message)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// writeFieldError always emits the slot, hidden when empty, so a live check
// has a stable swap target to fill or clear.
func writeFieldError(b *strings.Builder, field, message string) {
	if message == "" {
		fmt.Fprintf(b, `<p id="error-%s" class="nest-error" hidden></p>`, field)
		return
	}
	fmt.Fprintf(b, `<p id="error-%s" class="nest-error">%s</p>`, field, templ.EscapeString(message))
}

func fieldState(message string) string {
	if message != "" {
		return " has-error"
	}
	return ""
}

func checkedState(selected []string, value string) string {
	for _, s := range selected {
		if s == value {
			return ` checked`
		}
	}
	return ""
}

func writeStrengthMeter(b *strings.Builder, password string) {
	if password == "" {
		return
	}
	strength := validation.PasswordStrength(password)
	fmt.Fprintf(b, `<div class="nest-strength nest-strength-%s" data-score="%d">`, strength.Level, strength.Score)
	fmt.Fprintf(b, `<span>Password strength: %s</span>`, strength.Level)
	if len(strength.Feedback) > 0 {
		b.WriteString(`<ul>`)
		for _, hint := range strength.Feedback {
			fmt.Fprintf(b, `<li>%s</li>`, templ.EscapeString(hint))
		}
		b.WriteString(`</ul>`)
	}
	b.WriteString(`</div>`)
}
