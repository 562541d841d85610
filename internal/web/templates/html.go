// Package templates renders the HTML pages of the web UI as templ
// components.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// html writes markup and escaped text, keeping the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) rawf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with value escaped.
func (h *html) attr(name, value string) {
	h.rawf(` %s="%s"`, name, templ.EscapeString(value))
}

func (h *html) render(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

// component adapts a render function that writes through html.
func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}
