package handlers

import (
	"net/http"

	"versenest/internal/identity"
	applog "versenest/internal/log"
	"versenest/internal/validation"
	"versenest/internal/views/pages"
	"versenest/models"
)

// UpdateProfile applies a partial profile edit for the signed-in user. On
// success it returns to their home surface; a failure re-renders that surface
// with the error message so the outcome is never silent. Fields absent from
// the submission stay untouched.
func UpdateProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	store := sessionStore(r)
	if !store.IsAuthenticated() {
		redirectTo(w, r, "/")
		return
	}

	update := identity.ProfileUpdate{}
	if r.PostForm.Has(validation.FieldName) {
		name := validation.Sanitize(r.PostFormValue(validation.FieldName))
		update.Name = &name
	}
	if r.PostForm.Has(validation.FieldPenName) {
		penName := validation.Sanitize(r.PostFormValue(validation.FieldPenName))
		update.PenName = &penName
	}
	if r.PostForm.Has(validation.FieldBio) {
		bio := validation.Sanitize(r.PostFormValue(validation.FieldBio))
		update.Bio = &bio
	}
	if values, ok := r.PostForm[validation.FieldGenres]; ok {
		update.Genres = values
	}
	if values, ok := r.PostForm[validation.FieldPreferredGenres]; ok {
		update.PreferredGenres = values
	}
	if values, ok := r.PostForm[validation.FieldMoodPreferences]; ok {
		update.MoodPreferences = values
	}

	user, err := store.UpdateProfile(r.Context(), update)
	if err != nil {
		applog.Error(r.Context(), "profile update failed", "error", err)
		user = store.User()
		if user != nil && user.Role == models.RoleWriter {
			renderHTML(w, r, pages.WriterHome(user, store.Message()))
		} else {
			renderHTML(w, r, pages.ReaderHome(user, store.Message()))
		}
		return
	}

	redirectForRole(w, r, user)
}
