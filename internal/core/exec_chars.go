package core

import "strings"

func applyRemoveChars(t *Table, rules []RemoveCharsRule) (*Table, []Warning) {
	if len(rules) == 0 {
		return t, nil
	}

	var warnings []Warning
	out := t.Clone()
	for _, r := range rules {
		if !out.Has(r.Column) {
			warnings = append(warnings, newWarning(KindRemoveChars, r.LineNo, CodeMissing, "column %q not found", r.Column))
			continue
		}
		for _, lit := range r.Literals {
			out.mapColumn(r.Column, func(v string) string {
				return strings.ReplaceAll(v, lit, "")
			})
		}
	}
	return out, warnings
}

func applyAddChars(t *Table, rules []AddCharsRule) (*Table, []Warning) {
	if len(rules) == 0 {
		return t, nil
	}

	var warnings []Warning
	out := t.Clone()
	for _, r := range rules {
		if !out.Has(r.Column) {
			warnings = append(warnings, newWarning(KindAddChars, r.LineNo, CodeMissing, "column %q not found", r.Column))
			continue
		}
		text, pos := r.Text, r.Position
		out.mapColumn(r.Column, func(v string) string {
			if pos == Before {
				return text + v
			}
			return v + text
		})
	}
	return out, warnings
}
