package handlers

import (
	"net/http"

	"github.com/alexedwards/scs/v2"

	"versenest/internal/identity"
	applog "versenest/internal/log"
	"versenest/internal/roleselect"
	"versenest/internal/routes"
	"versenest/internal/session"
	"versenest/models"
)

const (
	sessionPanelRoleKey = "panel:role"
	sessionPanelTabKey  = "panel:tab"
)

var (
	sessionManager *scs.SessionManager
	identityClient identity.Client
	revalidateMode session.RevalidateMode
)

// Configure installs the shared dependencies used by the HTTP handlers.
func Configure(sm *scs.SessionManager, client identity.Client, mode session.RevalidateMode) {
	sessionManager = sm
	identityClient = client
	revalidateMode = mode
}

// sessionStore builds the per-request auth state over the cookie session.
// Initialize rehydrates optimistically and never fails the request.
func sessionStore(r *http.Request) *session.Store {
	store := session.New(identityClient, &session.CookieStorage{Manager: sessionManager}, session.Config{
		Revalidate: revalidateMode,
	})
	if err := store.Initialize(r.Context()); err != nil {
		applog.Error(r.Context(), "failed to initialize session store", "error", err)
	}
	return store
}

// panelState restores which role panel is open and which tab it shows.
func panelState(r *http.Request) roleselect.State {
	if sessionManager == nil {
		return roleselect.State{}
	}
	state := roleselect.State{
		ActiveRole: models.ParseRole(sessionManager.GetString(r.Context(), sessionPanelRoleKey)),
		ActiveTab:  roleselect.ParseTab(sessionManager.GetString(r.Context(), sessionPanelTabKey)),
	}
	return roleselect.Restore(state).Snapshot()
}

func savePanelState(r *http.Request, state roleselect.State) {
	if sessionManager == nil {
		return
	}
	if !state.Open() {
		sessionManager.Remove(r.Context(), sessionPanelRoleKey)
		sessionManager.Remove(r.Context(), sessionPanelTabKey)
		return
	}
	sessionManager.Put(r.Context(), sessionPanelRoleKey, string(state.ActiveRole))
	sessionManager.Put(r.Context(), sessionPanelTabKey, string(state.ActiveTab))
}

// RequireAuthentication sends visitors without a session back to the landing
// page before the wrapped handler runs.
func RequireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store := sessionStore(r)
		if !store.IsAuthenticated() {
			redirectTo(w, r, routes.Root)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logout clears the session locally and notifies the identity service on a
// best-effort basis.
func Logout(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	store := sessionStore(r)
	store.Logout(r.Context())
	savePanelState(r, roleselect.State{})

	redirectTo(w, r, routes.Root)
}

// redirectTo issues a browser redirect, or an HX-Redirect header when the
// request came from HTMX so the client swaps the whole document.
func redirectTo(w http.ResponseWriter, r *http.Request, destination string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", destination)
		w.WriteHeader(http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, destination, http.StatusSeeOther)
}

// redirectForRole sends an authenticated user to their home surface.
func redirectForRole(w http.ResponseWriter, r *http.Request, user *models.User) {
	role := models.Role("")
	if user != nil {
		role = user.Role
	}
	redirectTo(w, r, routes.Resolve(role))
}
