package core

// Kind identifies one of the eight fixed operation kinds.
type Kind string

const (
	KindPrefectureCode   Kind = "get_pref_code"
	KindRemovePrefecture Kind = "remove_prefecture"
	KindExtract          Kind = "extract"
	KindRemoveChars      Kind = "remove"
	KindAddChars         Kind = "add"
	KindReplace          Kind = "replace"
	KindMerge            Kind = "merge"
	KindReorder          Kind = "reorder"
)

// Stages lists the operation kinds in execution order.
var Stages = []Kind{
	KindPrefectureCode,
	KindRemovePrefecture,
	KindExtract,
	KindRemoveChars,
	KindAddChars,
	KindReplace,
	KindMerge,
	KindReorder,
}

// Label returns the operator-facing name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindPrefectureCode:
		return "都道府県コード"
	case KindRemovePrefecture:
		return "都道府県削除"
	case KindExtract:
		return "文字列抽出"
	case KindRemoveChars:
		return "文字除去"
	case KindAddChars:
		return "文字追加"
	case KindReplace:
		return "置換"
	case KindMerge:
		return "結合"
	case KindReorder:
		return "並べ替え"
	default:
		return string(k)
	}
}

// stageIndex returns the execution position of k, or len(Stages) if unknown.
func stageIndex(k Kind) int {
	for i, s := range Stages {
		if s == k {
			return i
		}
	}
	return len(Stages)
}

// Rule is one validated, parsed instruction for a specific operation kind.
type Rule interface {
	Kind() Kind
	// Line is the 1-based line of the rule text it came from, or 0 for
	// rules built from settings.
	Line() int
}

// Position selects where AddChars inserts its text.
type Position int

const (
	Before Position = iota
	After
)

// Position markers accepted in AddChars rule text.
const (
	BeforeMarker = "前"
	AfterMarker  = "後"
)

func (p Position) String() string {
	if p == After {
		return AfterMarker
	}
	return BeforeMarker
}

// ReorderRule lists the output columns in order. An empty token inserts one
// blank placeholder column at that position.
type ReorderRule struct {
	Tokens []string
	// TokenLines holds the 1-based source line of each token.
	TokenLines []int
}

// MergeRule joins Sources with Separator into NewColumn.
type MergeRule struct {
	LineNo    int
	NewColumn string
	Sources   []string
	Separator string
}

// ExtractRule copies Count characters starting at 1-based Start from Source
// into NewColumn.
type ExtractRule struct {
	LineNo    int
	NewColumn string
	Source    string
	Start     int
	Count     int
}

// RemoveCharsRule deletes every occurrence of each literal from Column.
type RemoveCharsRule struct {
	LineNo   int
	Column   string
	Literals []string
}

// AddCharsRule prepends or appends Text to every cell of Column.
type AddCharsRule struct {
	LineNo   int
	Column   string
	Position Position
	Text     string
}

// ReplaceRule replaces cells exactly equal to Old with New.
type ReplaceRule struct {
	LineNo int
	Column string
	Old    string
	New    string
}

// RemovePrefectureRule strips a leading prefecture name from each column.
type RemovePrefectureRule struct {
	Columns []string
}

// PrefectureCodeRule writes the 2-digit prefecture code of Source into
// NewColumn.
type PrefectureCodeRule struct {
	Source    string
	NewColumn string
}

func (ReorderRule) Kind() Kind          { return KindReorder }
func (MergeRule) Kind() Kind            { return KindMerge }
func (ExtractRule) Kind() Kind          { return KindExtract }
func (RemoveCharsRule) Kind() Kind      { return KindRemoveChars }
func (AddCharsRule) Kind() Kind         { return KindAddChars }
func (ReplaceRule) Kind() Kind          { return KindReplace }
func (RemovePrefectureRule) Kind() Kind { return KindRemovePrefecture }
func (PrefectureCodeRule) Kind() Kind   { return KindPrefectureCode }

func (r ReorderRule) Line() int {
	if len(r.TokenLines) > 0 {
		return r.TokenLines[0]
	}
	return 0
}
func (r MergeRule) Line() int          { return r.LineNo }
func (r ExtractRule) Line() int        { return r.LineNo }
func (r RemoveCharsRule) Line() int    { return r.LineNo }
func (r AddCharsRule) Line() int       { return r.LineNo }
func (r ReplaceRule) Line() int        { return r.LineNo }
func (RemovePrefectureRule) Line() int { return 0 }
func (PrefectureCodeRule) Line() int   { return 0 }

// DefaultPrefectureCodeColumn is the default name of the column created by
// GetPrefectureCode.
const DefaultPrefectureCodeColumn = "都道府県コード"

// PrefectureCodeSettings configures the GetPrefectureCode stage.
type PrefectureCodeSettings struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	SourceColumn string `json:"source_column" yaml:"source_column"`
	NewColumn    string `json:"new_column" yaml:"new_column"`
}

// RemovePrefectureSettings configures the RemovePrefecture stage. Columns is
// a comma-joined list.
type RemovePrefectureSettings struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Columns string `json:"column" yaml:"column"`
}

// RuleSet is the raw, unparsed rule input: six multi-line text blocks plus
// the two settings-driven kinds.
type RuleSet struct {
	Reorder     string `json:"reorder" yaml:"reorder"`
	Merge       string `json:"merge" yaml:"merge"`
	Extract     string `json:"extract" yaml:"extract"`
	RemoveChars string `json:"remove" yaml:"remove"`
	AddChars    string `json:"add" yaml:"add"`
	Replace     string `json:"replace" yaml:"replace"`

	RemovePrefecture RemovePrefectureSettings `json:"remove_prefecture" yaml:"remove_prefecture"`
	PrefectureCode   PrefectureCodeSettings   `json:"get_pref_code" yaml:"get_pref_code"`
}

// Text returns the rule-text block for a text-driven kind.
func (rs RuleSet) Text(k Kind) string {
	switch k {
	case KindReorder:
		return rs.Reorder
	case KindMerge:
		return rs.Merge
	case KindExtract:
		return rs.Extract
	case KindRemoveChars:
		return rs.RemoveChars
	case KindAddChars:
		return rs.AddChars
	case KindReplace:
		return rs.Replace
	default:
		return ""
	}
}
