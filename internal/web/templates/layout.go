package templates

import (
	"context"

	"github.com/a-h/templ"
)

const styles = `
body { font-family: sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
fieldset { margin-bottom: 1rem; }
label { display: block; margin: .4rem 0 .2rem; }
textarea { width: 100%; min-height: 4rem; font-family: monospace; }
table { border-collapse: collapse; margin: 1rem 0; }
th, td { border: 1px solid #bbb; padding: .2rem .5rem; }
th { background: #eee; }
.warnings li { color: #8a5a00; }
.alert { border: 1px solid #c33; background: #fee; padding: 1rem; }
.muted { color: #777; }
`

// Page wraps body in the shared document layout.
func Page(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="ja"><head><meta charset="utf-8">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(` - csvlayout</title><style>`)
		h.raw(styles)
		h.raw(`</style></head><body><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.render(ctx, body)
		h.raw(`</body></html>`)
	})
}

// ErrorAlert shows a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, h *html) {
		h.raw(`<div class="alert" role="alert"><p><strong>`)
		h.text(message)
		h.raw(`</strong>`)
		if code != "" {
			h.raw(` <span class="muted">(`)
			h.text(code)
			h.raw(`)</span>`)
		}
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		h.raw(`<p><a href="/">戻る</a></p></div>`)
	})
}
