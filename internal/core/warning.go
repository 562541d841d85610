package core

import (
	"fmt"
	"sort"
)

// Warning codes. Operators can quote the code when asking for help.
const (
	CodeParse      = "RUL001" // rule line does not match its grammar
	CodeMissing    = "RUL002" // rule names a column absent at execution time
	CodeConflict   = "RUL003" // rule would create a column that already exists
	CodeSettings   = "RUL004" // settings-driven kind enabled but incomplete
	CodeEmptyOrder = "RUL005" // reorder produced no columns
)

// Warning is a non-fatal diagnostic describing a skipped rule or line.
type Warning struct {
	Kind    Kind   `json:"kind"`
	Line    int    `json:"line,omitempty"` // 1-based; 0 when not tied to a line
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("[%s] %s line %d: %s", w.Code, w.Kind.Label(), w.Line, w.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Kind.Label(), w.Message)
}

func newWarning(k Kind, line int, code, format string, args ...any) Warning {
	return Warning{
		Kind:    k,
		Line:    line,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// sortWarnings orders warnings by execution stage, then line number.
// Warnings without a line sort first within their stage.
func sortWarnings(ws []Warning) {
	sort.SliceStable(ws, func(i, j int) bool {
		si, sj := stageIndex(ws[i].Kind), stageIndex(ws[j].Kind)
		if si != sj {
			return si < sj
		}
		return ws[i].Line < ws[j].Line
	})
}
