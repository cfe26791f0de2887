package handlers

import (
	"net/http"

	"versenest/internal/routes"
	"versenest/internal/views/pages"
	"versenest/models"
)

// WriterHome renders the writer surface. Readers who land here are sent to
// their own home instead.
func WriterHome(w http.ResponseWriter, r *http.Request) {
	store := sessionStore(r)
	user := store.User()
	if user == nil || user.Role != models.RoleWriter {
		redirectForRole(w, r, user)
		return
	}

	renderHTML(w, r, pages.WriterHome(user, ""))
}

// ReaderHome renders the reader surface, bouncing writers to theirs.
func ReaderHome(w http.ResponseWriter, r *http.Request) {
	store := sessionStore(r)
	user := store.User()
	if user == nil || user.Role != models.RoleReader {
		redirectForRole(w, r, user)
		return
	}

	renderHTML(w, r, pages.ReaderHome(user, ""))
}

// Home sends the root path to the right place for the current visitor.
func Home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routes.Root {
		http.NotFound(w, r)
		return
	}
	StartJourney(w, r)
}
