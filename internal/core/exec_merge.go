package core

import "strings"

func applyMerge(t *Table, rules []MergeRule) (*Table, []Warning) {
	if len(rules) == 0 {
		return t, nil
	}

	var warnings []Warning
	out := t.Clone()
	for _, r := range rules {
		var missing []string
		for _, src := range r.Sources {
			if !out.Has(src) {
				missing = append(missing, src)
			}
		}
		if len(missing) > 0 {
			warnings = append(warnings, newWarning(KindMerge, r.LineNo, CodeMissing,
				"source columns not found: %s", strings.Join(missing, ", ")))
			continue
		}
		if out.Has(r.NewColumn) {
			warnings = append(warnings, newWarning(KindMerge, r.LineNo, CodeConflict, "column %q already exists and was overwritten", r.NewColumn))
		}

		values := make([]string, out.Len())
		parts := make([]string, len(r.Sources))
		for i := range values {
			for j, src := range r.Sources {
				parts[j] = out.Value(i, src)
			}
			values[i] = strings.Join(parts, r.Separator)
		}
		out.setColumn(r.NewColumn, values)
	}
	return out, warnings
}
