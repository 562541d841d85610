package core

// applyPrefectureCode writes the prefecture code of each source cell into a
// new column. It never overwrites: an existing target column skips the stage.
func applyPrefectureCode(t *Table, r *PrefectureCodeRule) (*Table, []Warning) {
	if r == nil {
		return t, nil
	}
	if !t.Has(r.Source) {
		return t, []Warning{newWarning(KindPrefectureCode, 0, CodeMissing, "source column %q not found", r.Source)}
	}
	if t.Has(r.NewColumn) {
		return t, []Warning{newWarning(KindPrefectureCode, 0, CodeConflict, "column %q already exists, not overwritten", r.NewColumn)}
	}

	codes := make([]string, t.Len())
	for i, v := range t.Column(r.Source) {
		codes[i] = PrefectureCode(v)
	}

	out := t.Clone()
	out.setColumn(r.NewColumn, codes)
	return out, nil
}

// applyRemovePrefecture strips a leading prefecture name from every cell of
// each target column. Missing columns are skipped individually.
func applyRemovePrefecture(t *Table, r *RemovePrefectureRule) (*Table, []Warning) {
	if r == nil {
		return t, nil
	}

	var warnings []Warning
	out := t.Clone()
	for _, col := range r.Columns {
		if !out.Has(col) {
			warnings = append(warnings, newWarning(KindRemovePrefecture, 0, CodeMissing, "column %q not found", col))
			continue
		}
		out.mapColumn(col, StripPrefecture)
	}
	return out, warnings
}
