package handlers

import (
	"net/http"
	"strings"

	applog "versenest/internal/log"
	"versenest/internal/validation"
	"versenest/internal/views/pages"
	"versenest/models"
)

// parseAuthForm lifts a submission into the validation form shape. Free-text
// fields are sanitized and the email is lowercased before anything downstream
// sees it; passwords pass through untouched so hashing sees exactly what the
// user typed.
func parseAuthForm(r *http.Request) validation.Form {
	return validation.Form{
		Email:           strings.ToLower(validation.Sanitize(r.PostFormValue(validation.FieldEmail))),
		Password:        r.PostFormValue(validation.FieldPassword),
		ConfirmPassword: r.PostFormValue(validation.FieldConfirmPassword),
		Name:            validation.Sanitize(r.PostFormValue(validation.FieldName)),
		PenName:         validation.Sanitize(r.PostFormValue(validation.FieldPenName)),
		Bio:             validation.Sanitize(r.PostFormValue(validation.FieldBio)),
		Genres:          r.PostForm[validation.FieldGenres],
		PreferredGenres: r.PostForm[validation.FieldPreferredGenres],
		MoodPreferences: r.PostForm[validation.FieldMoodPreferences],
		AcceptTerms:     r.PostFormValue(validation.FieldAcceptTerms) == "true",
	}
}

// ValidateField re-checks a single field as the user types and swaps its
// error slot. Other fields' errors are untouched.
func ValidateField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	field := r.PostFormValue("field")
	mode := validation.Mode(r.PostFormValue("mode"))
	role := models.ParseRole(r.PostFormValue("role"))
	if mode != validation.ModeLogin && mode != validation.ModeSignup {
		mode = validation.ModeSignup
	}

	result := validation.ValidateField(parseAuthForm(r), field, mode, role)
	applog.Debug(r.Context(), "live field validation", "field", field, "valid", result.Valid)

	renderHTML(w, r, pages.FieldError(field, result.Message))
}
