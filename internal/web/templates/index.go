package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/csvlayout/internal/core"
	"github.com/JonMunkholm/csvlayout/internal/csvio"
	"github.com/JonMunkholm/csvlayout/internal/profile"
)

// Form field names shared by the page and the handlers that parse it.
const (
	FieldFile           = "file"
	FieldProfile        = "profile"
	FieldProfileID      = "profile_id"
	FieldRules          = "rules"
	FieldUseRules       = "use_rules"
	FieldInputEncoding  = "input_encoding"
	FieldOutputEncoding = "output_encoding"
	FieldRemoveHeader   = "remove_header"
	FieldRows           = "rows"

	FieldRemovePrefEnabled = "remove_prefecture_enabled"
	FieldRemovePrefColumns = "remove_prefecture_column"
	FieldPrefCodeEnabled   = "get_pref_code_enabled"
	FieldPrefCodeSource    = "get_pref_code_source"
	FieldPrefCodeNew       = "get_pref_code_new"
)

// RuleTextFields lists the textarea names for the text-driven kinds in
// display order.
var RuleTextFields = []core.Kind{
	core.KindReorder,
	core.KindMerge,
	core.KindExtract,
	core.KindRemoveChars,
	core.KindAddChars,
	core.KindReplace,
}

var ruleHints = map[core.Kind]string{
	core.KindReorder:     "項目名をカンマ区切りで出力順に。空欄で空の列を挿入",
	core.KindMerge:       "新項目名:結合元項目1,結合元項目2,区切り文字",
	core.KindExtract:     "新項目名:抽出元項目:開始位置:文字数",
	core.KindRemoveChars: "項目名:除去する文字1,除去する文字2",
	core.KindAddChars:    "項目名:前または後:追加する文字",
	core.KindReplace:     "項目名:置換前:置換後",
}

// IndexData is the state of the conversion form.
type IndexData struct {
	Profiles       []profile.Profile
	Selected       string
	Rules          core.RuleSet
	InputEncoding  string
	OutputEncoding string
	PreviewRows    int
}

// IndexPage renders the conversion form.
func IndexPage(d IndexData) templ.Component {
	return Page("CSV レイアウト変換", component(func(ctx context.Context, h *html) {
		h.raw(`<form method="post" action="/preview" enctype="multipart/form-data">`)

		h.raw(`<fieldset><legend>ファイル</legend>`)
		h.raw(`<label for="file">CSV ファイル</label>`)
		h.raw(`<input type="file" id="file" accept=".csv,text/csv" required`)
		h.attr("name", FieldFile)
		h.raw(`>`)
		h.raw(`<label for="profile">プロファイル</label><select id="profile"`)
		h.attr("name", FieldProfile)
		h.raw(`><option value="">(なし)</option>`)
		for _, p := range d.Profiles {
			h.raw(`<option`)
			h.attr("value", p.Name)
			if p.Name == d.Selected {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(p.Name)
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		encodingSelect(h, FieldInputEncoding, "入力文字コード", d.InputEncoding)
		encodingSelect(h, FieldOutputEncoding, "出力文字コード", d.OutputEncoding)
		h.raw(`<label for="remove_header">ヘッダー行</label><select id="remove_header"`)
		h.attr("name", FieldRemoveHeader)
		h.raw(`><option value="">プロファイルに従う</option><option value="false">出力する</option><option value="true">出力しない</option></select>`)
		h.raw(`<label for="rows">プレビュー行数</label><input type="number" id="rows" min="1"`)
		h.attr("name", FieldRows)
		h.attr("value", strconv.Itoa(d.PreviewRows))
		h.raw(`></fieldset>`)

		h.raw(`<fieldset><legend>ルール</legend><label><input type="checkbox" value="1"`)
		h.attr("name", FieldUseRules)
		h.raw(`> 下記のルールを使う (プロファイルのルールより優先)</label>`)
		for _, k := range RuleTextFields {
			h.raw(`<label`)
			h.attr("for", string(k))
			h.raw(`>`)
			h.text(k.Label())
			h.raw(` <span class="muted">`)
			h.text(ruleHints[k])
			h.raw(`</span></label><textarea`)
			h.attr("id", string(k))
			h.attr("name", string(k))
			h.raw(`>`)
			h.text(d.Rules.Text(k))
			h.raw(`</textarea>`)
		}

		h.raw(`<label>`)
		checkbox(h, FieldRemovePrefEnabled, d.Rules.RemovePrefecture.Enabled)
		h.text(" " + core.KindRemovePrefecture.Label())
		h.raw(`</label><input type="text" placeholder="対象項目 (カンマ区切り)"`)
		h.attr("name", FieldRemovePrefColumns)
		h.attr("value", d.Rules.RemovePrefecture.Columns)
		h.raw(`>`)

		h.raw(`<label>`)
		checkbox(h, FieldPrefCodeEnabled, d.Rules.PrefectureCode.Enabled)
		h.text(" " + core.KindPrefectureCode.Label())
		h.raw(`</label><input type="text" placeholder="住所の項目"`)
		h.attr("name", FieldPrefCodeSource)
		h.attr("value", d.Rules.PrefectureCode.SourceColumn)
		h.raw(`><input type="text" placeholder="新項目名"`)
		h.attr("name", FieldPrefCodeNew)
		newCol := d.Rules.PrefectureCode.NewColumn
		if newCol == "" {
			newCol = core.DefaultPrefectureCodeColumn
		}
		h.attr("value", newCol)
		h.raw(`></fieldset>`)

		h.raw(`<button type="submit">プレビュー</button> `)
		h.raw(`<button type="submit" formaction="/api/convert">変換してダウンロード</button>`)
		h.raw(`</form>`)
	}))
}

func encodingSelect(h *html, name, label, selected string) {
	h.raw(`<label`)
	h.attr("for", name)
	h.raw(`>`)
	h.text(label)
	h.raw(`</label><select`)
	h.attr("id", name)
	h.attr("name", name)
	h.raw(`>`)
	for _, e := range csvio.Encodings {
		h.raw(`<option`)
		h.attr("value", string(e))
		if string(e) == selected {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(string(e))
		h.raw(`</option>`)
	}
	h.raw(`</select>`)
}

func checkbox(h *html, name string, checked bool) {
	h.raw(`<input type="checkbox" value="1"`)
	h.attr("name", name)
	if checked {
		h.raw(` checked`)
	}
	h.raw(`>`)
}
