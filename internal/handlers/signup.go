package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"versenest/internal/identity"
	applog "versenest/internal/log"
	"versenest/internal/roleselect"
	"versenest/internal/validation"
	"versenest/internal/views/pages"
	"versenest/models"
)

// Signup processes an account creation submission for the role panel named in
// the URL. Validation failures re-render the panel with every error and the
// submitted values; identity failures surface as a banner message.
func Signup(w http.ResponseWriter, r *http.Request) {
	role := models.ParseRole(chi.URLParam(r, "role"))
	if !role.Valid() {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse signup form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := parseAuthForm(r)
	state := roleselect.State{ActiveRole: role, ActiveTab: roleselect.TabSignup}
	savePanelState(r, state)

	applog.Debug(r.Context(), "signup form parsed", "email", form.Email, "role", role)

	if valid, fieldErrors := validation.ValidateForm(form, validation.ModeSignup, role); !valid {
		applog.Debug(r.Context(), "signup form rejected", "fields", len(fieldErrors))
		renderHTML(w, r, pages.RolePanels(pages.AuthView{State: state, Form: form, Errors: fieldErrors}))
		return
	}

	store := sessionStore(r)
	user, err := store.Signup(r.Context(), registerInput(form, role))
	if err != nil {
		applog.Debug(r.Context(), "signup failed", "email", form.Email)
		renderHTML(w, r, pages.RolePanels(pages.AuthView{State: state, Form: form, Message: store.Message()}))
		return
	}

	applog.Debug(r.Context(), "signup succeeded", "email", form.Email)
	savePanelState(r, roleselect.State{})
	redirectForRole(w, r, user)
}

// registerInput narrows the submission to the chosen role's fields so the
// identity service never sees values from the other panel.
func registerInput(form validation.Form, role models.Role) identity.RegisterInput {
	input := identity.RegisterInput{
		Email:    form.Email,
		Password: form.Password,
		Name:     form.Name,
		Role:     role,
	}

	switch role {
	case models.RoleWriter:
		input.PenName = form.PenName
		input.Bio = form.Bio
		input.Genres = form.Genres
	case models.RoleReader:
		input.PreferredGenres = form.PreferredGenres
		input.MoodPreferences = form.MoodPreferences
	}

	return input
}
