package core

// parser.go turns raw rule text into validated rules.
//
// Each operation kind has its own small line parser returning either a rule or
// a parse error. ParseRules drives them over a text block, skipping blank
// lines and turning every rejected line into a Warning carrying its 1-based
// line number. Column existence is not checked here: earlier stages may create
// columns that later rules refer to, so executors re-check at run time.

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// lineParser parses one non-blank line of a rule block.
type lineParser func(line string, lineNo int) (Rule, error)

var lineParsers = map[Kind]lineParser{
	KindMerge:       parseMergeLine,
	KindExtract:     parseExtractLine,
	KindRemoveChars: parseRemoveCharsLine,
	KindAddChars:    parseAddCharsLine,
	KindReplace:     parseReplaceLine,
}

// ParseRules parses a text block for the given kind. It returns every valid
// rule in line order plus one warning per rejected line.
//
// Reorder is parsed as a single comma-separated list spanning the whole
// block; the settings-driven kinds are parsed with ParsePrefectureCode and
// ParseRemovePrefecture instead.
func ParseRules(kind Kind, text string) ([]Rule, []Warning) {
	if kind == KindReorder {
		r, ok := ParseReorder(text)
		if !ok {
			return nil, nil
		}
		return []Rule{r}, nil
	}

	parse, ok := lineParsers[kind]
	if !ok {
		return nil, []Warning{newWarning(kind, 0, CodeParse, "operation is not configured by rule text")}
	}

	var (
		rules    []Rule
		warnings []Warning
	)
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1
		r, err := parse(line, lineNo)
		if err != nil {
			warnings = append(warnings, newWarning(kind, lineNo, CodeParse, "%v: %q", err, strings.TrimSpace(line)))
			continue
		}
		rules = append(rules, r)
	}
	return rules, warnings
}

var (
	errFieldCount = errors.New("wrong number of fields")
	errEmptyField = errors.New("required field is empty")
)

// parseMergeLine parses "new:src1,src2,...,separator".
//
// The remainder after the first ':' is split on its last comma. Everything
// before it is the source list; everything after it, spaces included, is the
// separator. A trailing comma with nothing after it means a comma separator.
// Without any comma the remainder is a single source joined with "".
func parseMergeLine(line string, lineNo int) (Rule, error) {
	name, rest, ok := strings.Cut(strings.TrimLeftFunc(line, unicode.IsSpace), ":")
	if !ok {
		return nil, fmt.Errorf("%w: expected 新項目名:結合元項目,...,区切り文字", errFieldCount)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: new column name", errEmptyField)
	}

	sourcesPart, sep := rest, ""
	if i := strings.LastIndex(rest, ","); i >= 0 {
		sourcesPart, sep = rest[:i], rest[i+1:]
		if sep == "" {
			sep = ","
		}
	}

	sources := splitList(sourcesPart)
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: source columns", errEmptyField)
	}

	return MergeRule{LineNo: lineNo, NewColumn: name, Sources: sources, Separator: sep}, nil
}

// parseExtractLine parses "new:source:start:count".
func parseExtractLine(line string, lineNo int) (Rule, error) {
	parts := splitFields(line, 4)
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: expected 新項目名:抽出元項目:開始位置:文字数", errFieldCount)
	}
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: new column name", errEmptyField)
	}
	if parts[1] == "" {
		return nil, fmt.Errorf("%w: source column", errEmptyField)
	}

	start, err := strconv.Atoi(parts[2])
	if err != nil {
		return nil, fmt.Errorf("start position %q is not an integer", parts[2])
	}
	count, err := strconv.Atoi(parts[3])
	if err != nil {
		return nil, fmt.Errorf("character count %q is not an integer", parts[3])
	}
	if start < 1 {
		return nil, fmt.Errorf("start position must be 1 or greater, got %d", start)
	}
	if count < 0 {
		return nil, fmt.Errorf("character count must be 0 or greater, got %d", count)
	}

	return ExtractRule{LineNo: lineNo, NewColumn: parts[0], Source: parts[1], Start: start, Count: count}, nil
}

// parseRemoveCharsLine parses "column:lit1,lit2,...".
func parseRemoveCharsLine(line string, lineNo int) (Rule, error) {
	column, rest, ok := strings.Cut(strings.TrimSpace(line), ":")
	if !ok {
		return nil, fmt.Errorf("%w: expected 項目名:除去する文字", errFieldCount)
	}
	column = strings.TrimSpace(column)
	if column == "" {
		return nil, fmt.Errorf("%w: column name", errEmptyField)
	}
	literals := splitList(rest)
	if len(literals) == 0 {
		return nil, fmt.Errorf("%w: characters to remove", errEmptyField)
	}
	return RemoveCharsRule{LineNo: lineNo, Column: column, Literals: literals}, nil
}

// parseAddCharsLine parses "column:前|後:text". Text may be empty. Fields are
// trimmed, so unlike the Merge separator the text cannot start or end with a
// space.
func parseAddCharsLine(line string, lineNo int) (Rule, error) {
	parts := splitFields(line, 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 項目名:位置:追加文字", errFieldCount)
	}
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: column name", errEmptyField)
	}

	var pos Position
	switch parts[1] {
	case BeforeMarker:
		pos = Before
	case AfterMarker:
		pos = After
	default:
		return nil, fmt.Errorf("position must be %q or %q, got %q", BeforeMarker, AfterMarker, parts[1])
	}

	return AddCharsRule{LineNo: lineNo, Column: parts[0], Position: pos, Text: parts[2]}, nil
}

// parseReplaceLine parses "column:old:new". New may be empty, old may not.
// Both literals are trimmed of surrounding spaces.
func parseReplaceLine(line string, lineNo int) (Rule, error) {
	parts := splitFields(line, 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 項目名:置換前:置換後", errFieldCount)
	}
	if parts[0] == "" {
		return nil, fmt.Errorf("%w: column name", errEmptyField)
	}
	if parts[1] == "" {
		return nil, fmt.Errorf("%w: value to replace", errEmptyField)
	}
	return ReplaceRule{LineNo: lineNo, Column: parts[0], Old: parts[1], New: parts[2]}, nil
}

// ParseReorder parses the reorder block: one comma-separated list that may
// span several lines. Returns false when the block is blank, meaning the
// table passes through unchanged.
func ParseReorder(text string) (ReorderRule, bool) {
	body := strings.TrimSpace(text)
	if body == "" {
		return ReorderRule{}, false
	}

	lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	line := 1 + strings.Count(text[:lead], "\n")

	var r ReorderRule
	for _, raw := range strings.Split(body, ",") {
		indent := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		r.Tokens = append(r.Tokens, strings.TrimSpace(raw))
		r.TokenLines = append(r.TokenLines, line+strings.Count(raw[:indent], "\n"))
		line += strings.Count(raw, "\n")
	}
	return r, true
}

// ParsePrefectureCode builds the GetPrefectureCode rule from settings.
// Returns nil when disabled or incomplete; incomplete settings also warn.
func ParsePrefectureCode(s PrefectureCodeSettings) (*PrefectureCodeRule, []Warning) {
	if !s.Enabled {
		return nil, nil
	}
	source := strings.TrimSpace(s.SourceColumn)
	newCol := strings.TrimSpace(s.NewColumn)
	if source == "" || newCol == "" {
		return nil, []Warning{newWarning(KindPrefectureCode, 0, CodeSettings,
			"source column and new column are both required (source=%q, new=%q)", source, newCol)}
	}
	return &PrefectureCodeRule{Source: source, NewColumn: newCol}, nil
}

// ParseRemovePrefecture builds the RemovePrefecture rule from settings.
func ParseRemovePrefecture(s RemovePrefectureSettings) (*RemovePrefectureRule, []Warning) {
	if !s.Enabled {
		return nil, nil
	}
	cols := splitList(s.Columns)
	if len(cols) == 0 {
		return nil, []Warning{newWarning(KindRemovePrefecture, 0, CodeSettings, "no target columns configured")}
	}
	return &RemovePrefectureRule{Columns: cols}, nil
}

// splitFields splits on ':' into at most n trimmed fields.
func splitFields(line string, n int) []string {
	parts := strings.SplitN(strings.TrimSpace(line), ":", n)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// splitList splits a comma-separated list, trimming entries and dropping
// empty ones.
func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
