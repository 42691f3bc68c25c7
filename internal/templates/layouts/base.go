package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

// baseStyles covers layout only; the look comes from /static/css/main.css.
// Scroll is locked while any modal is active.
const baseStyles = `body:has(.modal.active){overflow:hidden}` +
	`.modal{display:none}.modal.active{display:flex;position:fixed;inset:0;align-items:center;justify-content:center;z-index:50}` +
	`.modal-overlay{position:absolute;inset:0;background:rgba(0,0,0,.55)}` +
	`.modal-content{position:relative;background:var(--theme-surface);border-radius:12px;padding:24px;max-width:480px;width:100%}` +
	`.day-card.active{background:var(--theme-primary);color:#fff}` +
	`.spots-left.full{color:#c0392b}` +
	`.form-group input.error{border-color:#c0392b}.error-message{color:#c0392b;font-size:.85em}` +
	`.toasts{position:fixed;right:16px;bottom:16px;display:flex;flex-direction:column;gap:8px;z-index:60}` +
	`.toast{padding:12px 16px;border-radius:8px;color:#fff}.toast-success{background:var(--theme-primary)}.toast-error{background:#c0392b}`

// Base renders the full HTML page around body.
func Base(title string, theme Theme, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		write := func(s string) error {
			_, err := io.WriteString(w, s)
			return err
		}
		head := `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">` +
			`<meta name="viewport" content="width=device-width, initial-scale=1">` +
			`<title>` + templ.EscapeString(title) + `</title>` +
			`<link rel="stylesheet" href="/static/css/main.css">` +
			`<style>` + getThemeCssVars(theme) + baseStyles + `</style>` +
			`<script src="` + htmxScript + `"></script>` +
			`</head><body><header class="site-header"><h1>` + templ.EscapeString(title) + `</h1></header>`
		if err := write(head); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		return write(`</body></html>`)
	})
}
