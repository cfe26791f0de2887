package pages

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"versenest/internal/validation"
	"versenest/internal/views/layout"
	"versenest/internal/views/theme"
)

// PasswordResetView carries the reset-request form state. Sent means the
// request was accepted and only the acknowledgement should render.
type PasswordResetView struct {
	Email  string
	Errors map[string]string
	Sent   bool
}

// PasswordReset renders the reset-request page. The acknowledgement never
// reveals whether an account exists for the address.
func PasswordReset(view PasswordResetView) templ.Component {
	return layout.Base("Reset your password", theme.ByKey(theme.DefaultKey), resetContent(view))
}

func resetContent(view PasswordResetView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="nest-panel is-open">`)
		b.WriteString(`<h1>Reset your password</h1>`)

		if view.Sent {
			b.WriteString(`<p class="nest-muted">If an account exists for that address, reset instructions are on their way.</p>`)
			b.WriteString(`<a class="nest-link" href="/">Back to sign in</a>`)
		} else {
			b.WriteString(`<p class="nest-muted">Enter your email and we will send you a link to reset your password.</p>`)
			b.WriteString(`<form method="post" action="/auth/reset" novalidate>`)
			writeInput(&b, fieldScope{mode: validation.ModeLogin}, validation.FieldEmail, "email", "Email", view.Email, view.Errors)
			b.WriteString(`<button type="submit" class="nest-button">Send reset link</button></form>`)
			b.WriteString(`<a class="nest-link" href="/">Back to sign in</a>`)
		}

		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
