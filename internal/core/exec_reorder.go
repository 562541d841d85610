package core

// applyReorder builds the output column layout in one walk over the tokens.
//
// Existing names are kept in token order, unknown names are dropped, repeated
// names keep their first position, and each empty token becomes a fresh
// placeholder column. The returned registry lists exactly the placeholders
// created by this call. A nil rule passes the table through.
func applyReorder(t *Table, r *ReorderRule) (*Table, EmptyColumns, []Warning) {
	if r == nil {
		return t, EmptyColumns{}, nil
	}

	var (
		warnings []Warning
		layout   []string
		counter  = 1
		seen     = make(map[string]bool, len(r.Tokens))
		empties  = EmptyColumns{}
		work     = t.Clone()
	)

	for i, tok := range r.Tokens {
		line := 0
		if i < len(r.TokenLines) {
			line = r.TokenLines[i]
		}

		switch {
		case tok == "":
			name := nextPlaceholder(&counter, func(s string) bool {
				return work.Has(s) || empties.Contains(s)
			})
			work.setColumn(name, make([]string, work.Len()))
			empties[name] = ""
			layout = append(layout, name)
			seen[name] = true
		case !work.Has(tok):
			warnings = append(warnings, newWarning(KindReorder, line, CodeMissing, "column %q not found", tok))
		case seen[tok]:
			warnings = append(warnings, newWarning(KindReorder, line, CodeConflict, "column %q listed more than once, later position ignored", tok))
		default:
			layout = append(layout, tok)
			seen[tok] = true
		}
	}

	if len(layout) == 0 {
		warnings = append(warnings, newWarning(KindReorder, 0, CodeEmptyOrder, "no valid columns listed, output has no columns"))
	}
	return work.project(layout), empties, warnings
}
