package core

// extract returns count characters of s starting at 1-based start. Positions
// count runes, not bytes. A start past the end yields "".
func extract(s string, start, count int) string {
	r := []rune(s)
	from := start - 1
	if from < 0 || from >= len(r) {
		return ""
	}
	if count > len(r)-from {
		count = len(r) - from
	}
	return string(r[from : from+count])
}

func applyExtract(t *Table, rules []ExtractRule) (*Table, []Warning) {
	if len(rules) == 0 {
		return t, nil
	}

	var warnings []Warning
	out := t.Clone()
	for _, r := range rules {
		if !out.Has(r.Source) {
			warnings = append(warnings, newWarning(KindExtract, r.LineNo, CodeMissing, "source column %q not found", r.Source))
			continue
		}
		if out.Has(r.NewColumn) {
			warnings = append(warnings, newWarning(KindExtract, r.LineNo, CodeConflict, "column %q already exists and was overwritten", r.NewColumn))
		}

		values := out.Column(r.Source)
		for i, v := range values {
			values[i] = extract(v, r.Start, r.Count)
		}
		out.setColumn(r.NewColumn, values)
	}
	return out, warnings
}
