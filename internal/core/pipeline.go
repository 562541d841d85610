package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/csvlayout/internal/logging"
)

// Plan is a compiled RuleSet: every block parsed once, parse warnings kept.
// A Plan is immutable and may be applied to any number of tables, including
// concurrently.
type Plan struct {
	prefectureCode   *PrefectureCodeRule
	removePrefecture *RemovePrefectureRule
	extract          []ExtractRule
	removeChars      []RemoveCharsRule
	addChars         []AddCharsRule
	replace          []ReplaceRule
	merge            []MergeRule
	reorder          *ReorderRule

	warnings []Warning
}

// Result is the outcome of one pipeline run.
type Result struct {
	Table *Table
	// Warnings are ordered by execution stage, then line number.
	Warnings     []Warning
	EmptyColumns EmptyColumns
}

// Compile parses every block of rs.
func Compile(rs RuleSet) *Plan {
	p := &Plan{}

	var ws []Warning
	p.prefectureCode, ws = ParsePrefectureCode(rs.PrefectureCode)
	p.warnings = append(p.warnings, ws...)
	p.removePrefecture, ws = ParseRemovePrefecture(rs.RemovePrefecture)
	p.warnings = append(p.warnings, ws...)

	if r, ok := ParseReorder(rs.Reorder); ok {
		p.reorder = &r
	}

	for _, k := range []Kind{KindExtract, KindRemoveChars, KindAddChars, KindReplace, KindMerge} {
		rules, ws := ParseRules(k, rs.Text(k))
		p.warnings = append(p.warnings, ws...)
		for _, r := range rules {
			switch r := r.(type) {
			case ExtractRule:
				p.extract = append(p.extract, r)
			case RemoveCharsRule:
				p.removeChars = append(p.removeChars, r)
			case AddCharsRule:
				p.addChars = append(p.addChars, r)
			case ReplaceRule:
				p.replace = append(p.replace, r)
			case MergeRule:
				p.merge = append(p.merge, r)
			}
		}
	}
	return p
}

// Warnings returns the parse warnings collected by Compile.
func (p *Plan) Warnings() []Warning {
	return append([]Warning(nil), p.warnings...)
}

// Rules returns the number of rules that will run, including the
// settings-driven ones.
func (p *Plan) Rules() int {
	n := len(p.extract) + len(p.removeChars) + len(p.addChars) + len(p.replace) + len(p.merge)
	if p.prefectureCode != nil {
		n++
	}
	if p.removePrefecture != nil {
		n++
	}
	if p.reorder != nil {
		n++
	}
	return n
}

// Apply runs the eight stages over t in their fixed order. t is not modified.
//
// Rule problems only produce warnings. The returned error is reserved for a
// broken table invariant, which means a bug rather than bad input.
func (p *Plan) Apply(ctx context.Context, t *Table) (*Result, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("input table: %w", err)
	}

	logger := logging.WithFields(ctx, "rows", t.Len())
	warnings := p.Warnings()
	cur := t

	steps := []struct {
		kind Kind
		run  func(*Table) (*Table, []Warning)
	}{
		{KindPrefectureCode, func(t *Table) (*Table, []Warning) { return applyPrefectureCode(t, p.prefectureCode) }},
		{KindRemovePrefecture, func(t *Table) (*Table, []Warning) { return applyRemovePrefecture(t, p.removePrefecture) }},
		{KindExtract, func(t *Table) (*Table, []Warning) { return applyExtract(t, p.extract) }},
		{KindRemoveChars, func(t *Table) (*Table, []Warning) { return applyRemoveChars(t, p.removeChars) }},
		{KindAddChars, func(t *Table) (*Table, []Warning) { return applyAddChars(t, p.addChars) }},
		{KindReplace, func(t *Table) (*Table, []Warning) { return applyReplace(t, p.replace) }},
		{KindMerge, func(t *Table) (*Table, []Warning) { return applyMerge(t, p.merge) }},
	}

	for _, s := range steps {
		next, ws := s.run(cur)
		if next.Len() != t.Len() {
			return nil, fmt.Errorf("%s stage changed row count from %d to %d", s.kind, t.Len(), next.Len())
		}
		logger.Debug("stage applied", "stage", string(s.kind), "columns", next.Width(), "warnings", len(ws))
		cur = next
		warnings = append(warnings, ws...)
	}

	final, empties, ws := applyReorder(cur, p.reorder)
	logger.Debug("stage applied", "stage", string(KindReorder), "columns", final.Width(), "placeholders", len(empties))
	warnings = append(warnings, ws...)

	if err := final.Validate(); err != nil {
		return nil, fmt.Errorf("output table: %w", err)
	}
	if final.Len() != t.Len() {
		return nil, fmt.Errorf("reorder stage changed row count from %d to %d", t.Len(), final.Len())
	}

	sortWarnings(warnings)
	for _, w := range warnings {
		logger.Warn("rule skipped", "kind", string(w.Kind), "line", w.Line, "code", w.Code, "detail", w.Message)
	}

	return &Result{Table: final, Warnings: warnings, EmptyColumns: empties}, nil
}

// Run compiles rs and applies it to t.
func Run(ctx context.Context, t *Table, rs RuleSet) (*Result, error) {
	return Compile(rs).Apply(ctx, t)
}

// InputColumns lists the columns the plan reads from its input table, in
// stage order. Columns that an earlier stage creates are not included.
func (p *Plan) InputColumns() []string {
	var (
		out     []string
		seen    = map[string]bool{}
		created = map[string]bool{}
	)
	use := func(cols ...string) {
		for _, c := range cols {
			if c != "" && !created[c] && !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}

	if r := p.prefectureCode; r != nil {
		use(r.Source)
		created[r.NewColumn] = true
	}
	if r := p.removePrefecture; r != nil {
		use(r.Columns...)
	}
	for _, r := range p.extract {
		use(r.Source)
		created[r.NewColumn] = true
	}
	for _, r := range p.removeChars {
		use(r.Column)
	}
	for _, r := range p.addChars {
		use(r.Column)
	}
	for _, r := range p.replace {
		use(r.Column)
	}
	for _, r := range p.merge {
		use(r.Sources...)
		created[r.NewColumn] = true
	}
	if r := p.reorder; r != nil {
		use(r.Tokens...)
	}
	return out
}
