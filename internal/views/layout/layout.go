// Package layout renders the HTML shell shared by every page. Components are
// plain templ.ComponentFunc values writing escaped markup, so handlers treat
// them exactly like generated templates.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"versenest/internal/views/theme"
)

// Base wraps page content in the document shell using the given palette.
func Base(title string, palette theme.Palette, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"/>`+
				`<meta name="viewport" content="width=device-width, initial-scale=1"/>`+
				`<title>%s · VerseNest</title>`+
				`<script src="https://unpkg.com/htmx.org@1.9.12" defer></script>`+
				`<script src="https://cdn.tailwindcss.com"></script>`+
				`<link rel="stylesheet" href="/static/app.css"/>`+
				`</head><body class="%s"><div class="%s">`,
			templ.EscapeString(title), palette.BodyClass, palette.ShellClass,
		); err != nil {
			return err
		}

		if err := content.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</div></body></html>`)
		return err
	})
}
