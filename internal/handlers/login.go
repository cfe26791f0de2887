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

// Login processes a sign-in submission for the role panel named in the URL.
// Failures re-render the panel with the form values preserved; success
// redirects to the role's home surface.
func Login(w http.ResponseWriter, r *http.Request) {
	role := models.ParseRole(chi.URLParam(r, "role"))
	if !role.Valid() {
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	if err := r.ParseForm(); err != nil {
		applog.Debug(r.Context(), "failed to parse login form", "error", err)
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	form := parseAuthForm(r)
	state := roleselect.State{ActiveRole: role, ActiveTab: roleselect.TabLogin}
	savePanelState(r, state)

	applog.Debug(r.Context(), "login form parsed", "email", form.Email, "role", role)

	if valid, fieldErrors := validation.ValidateForm(form, validation.ModeLogin, role); !valid {
		applog.Debug(r.Context(), "login form rejected", "fields", len(fieldErrors))
		renderHTML(w, r, pages.RolePanels(pages.AuthView{State: state, Form: form, Errors: fieldErrors}))
		return
	}

	store := sessionStore(r)
	user, err := store.Login(r.Context(), identity.LoginInput{
		Email:    form.Email,
		Password: form.Password,
		Role:     role,
	})
	if err != nil {
		applog.Debug(r.Context(), "authentication failed", "email", form.Email)
		renderHTML(w, r, pages.RolePanels(pages.AuthView{State: state, Form: form, Message: store.Message()}))
		return
	}

	applog.Debug(r.Context(), "authentication succeeded", "email", form.Email)
	savePanelState(r, roleselect.State{})
	redirectForRole(w, r, user)
}
