package games

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTMLWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

func (hw *htmlWriter) oob(enabled bool) {
	if enabled {
		hw.attr("hx-swap-oob", "true")
	}
}

func (hw *htmlWriter) render(c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

func classes(names ...string) string {
	out := ""
	for _, name := range names {
		if name == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += name
	}
	return out
}

func when(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}
