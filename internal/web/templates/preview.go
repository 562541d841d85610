package templates

import (
	"context"
	"fmt"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/csvlayout/internal/core"
	"github.com/JonMunkholm/csvlayout/internal/csvio"
)

// PreviewData is what the preview page shows.
type PreviewData struct {
	FileName      string
	Profile       string
	InputEncoding csvio.Encoding
	FellBack      bool
	Preview       core.Preview
}

// PreviewPage renders the converted table's leading rows and the warnings.
func PreviewPage(d PreviewData) templ.Component {
	return Page("プレビュー", component(func(ctx context.Context, h *html) {
		h.raw(`<p>`)
		h.text(d.FileName)
		if d.Profile != "" {
			h.text(" / " + d.Profile)
		}
		h.raw(` <span class="muted">`)
		h.text(fmt.Sprintf("%d 行, 入力文字コード %s", d.Preview.TotalRows, d.InputEncoding))
		if d.FellBack {
			h.text(" (自動切替)")
		}
		h.raw(`</span></p>`)

		h.render(ctx, Warnings(d.Preview.Warnings))
		h.render(ctx, PreviewTable(d.Preview))
		h.raw(`<p><a href="/">戻る</a></p>`)
	}))
}

// PreviewTable renders the preview grid. A truncated preview ends with an
// ellipsis row.
func PreviewTable(p core.Preview) templ.Component {
	return component(func(_ context.Context, h *html) {
		if len(p.Headers) == 0 {
			h.raw(`<p class="muted">出力する列がありません</p>`)
			return
		}
		h.raw(`<table><thead><tr>`)
		for _, c := range p.Headers {
			h.raw(`<th>`)
			h.text(c)
			h.raw(`</th>`)
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range p.Rows {
			h.raw(`<tr>`)
			for _, v := range row {
				h.raw(`<td>`)
				h.text(v)
				h.raw(`</td>`)
			}
			h.raw(`</tr>`)
		}
		if p.Truncated {
			h.raw(`<tr class="muted">`)
			for range p.Headers {
				h.raw(`<td>...</td>`)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
	})
}

// Warnings lists rule warnings; nothing is rendered when there are none.
func Warnings(ws []core.Warning) templ.Component {
	return component(func(_ context.Context, h *html) {
		if len(ws) == 0 {
			return
		}
		h.raw(`<ul class="warnings">`)
		for _, w := range ws {
			h.raw(`<li>`)
			h.text(w.String())
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	})
}
