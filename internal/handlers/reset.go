package handlers

import (
	"net/http"

	applog "versenest/internal/log"
	"versenest/internal/validation"
	"versenest/internal/views/pages"
)

// PasswordResetForm shows the reset-request page.
func PasswordResetForm(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, r, pages.PasswordReset(pages.PasswordResetView{}))
}

// RequestPasswordReset accepts a reset request. Delivery is not wired up yet;
// the acknowledgement is rendered regardless so the form never discloses
// whether an account exists for the address.
func RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	email := validation.Sanitize(r.PostFormValue(validation.FieldEmail))
	if result := validation.ValidateEmail(email); !result.Valid {
		renderHTML(w, r, pages.PasswordReset(pages.PasswordResetView{
			Email:  email,
			Errors: map[string]string{validation.FieldEmail: result.Message},
		}))
		return
	}

	applog.Info(r.Context(), "password reset requested", "email", email)
	renderHTML(w, r, pages.PasswordReset(pages.PasswordResetView{Sent: true}))
}
