package core

// applyReplace swaps cells exactly equal to Old for New. Substrings are left
// alone.
func applyReplace(t *Table, rules []ReplaceRule) (*Table, []Warning) {
	if len(rules) == 0 {
		return t, nil
	}

	var warnings []Warning
	out := t.Clone()
	for _, r := range rules {
		if !out.Has(r.Column) {
			warnings = append(warnings, newWarning(KindReplace, r.LineNo, CodeMissing, "column %q not found", r.Column))
			continue
		}
		old, repl := r.Old, r.New
		out.mapColumn(r.Column, func(v string) string {
			if v == old {
				return repl
			}
			return v
		})
	}
	return out, warnings
}
