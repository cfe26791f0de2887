package handlers

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	applog "versenest/internal/log"
	"versenest/internal/roleselect"
	"versenest/internal/views/pages"
	"versenest/models"
)

// StartJourney renders the landing page. Visitors with a live session skip it
// and land on their role's home surface.
func StartJourney(w http.ResponseWriter, r *http.Request) {
	store := sessionStore(r)
	if store.IsAuthenticated() {
		applog.Debug(r.Context(), "active session detected, redirecting home")
		redirectForRole(w, r, store.User())
		return
	}

	renderHTML(w, r, pages.StartJourney(pages.AuthView{State: panelState(r)}))
}

// OpenPanel expands a role card. Opening one panel collapses the other and
// resets the expanded panel to the signup tab.
func OpenPanel(w http.ResponseWriter, r *http.Request) {
	role := models.ParseRole(chi.URLParam(r, "role"))

	controller := roleselect.Restore(panelState(r))
	if err := controller.OpenRole(role, roleselect.DefaultTab); err != nil {
		applog.Debug(r.Context(), "rejecting unknown role", "role", chi.URLParam(r, "role"))
		http.Error(w, "unknown role", http.StatusBadRequest)
		return
	}

	savePanelState(r, controller.Snapshot())
	renderHTML(w, r, pages.RolePanels(pages.AuthView{State: controller.Snapshot()}))
}

// ChangePanelTab switches the open panel between sign-in and sign-up.
func ChangePanelTab(w http.ResponseWriter, r *http.Request) {
	role := models.ParseRole(chi.URLParam(r, "role"))
	tab := roleselect.ParseTab(chi.URLParam(r, "tab"))

	controller := roleselect.Restore(panelState(r))
	if controller.Snapshot().ActiveRole != role {
		http.Error(w, "panel is not open", http.StatusConflict)
		return
	}
	if err := controller.ChangeTab(tab); err != nil {
		http.Error(w, "no panel is open", http.StatusConflict)
		return
	}

	savePanelState(r, controller.Snapshot())
	renderHTML(w, r, pages.RolePanels(pages.AuthView{State: controller.Snapshot()}))
}

// ClosePanel collapses whichever panel is open.
func ClosePanel(w http.ResponseWriter, r *http.Request) {
	controller := roleselect.Restore(panelState(r))
	controller.CloseRole()

	savePanelState(r, controller.Snapshot())
	renderHTML(w, r, pages.RolePanels(pages.AuthView{State: controller.Snapshot()}))
}

func renderHTML(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		applog.Error(r.Context(), "failed to render component", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
