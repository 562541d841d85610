package core

// DefaultPreviewRows is the number of rows shown when no limit is given.
const DefaultPreviewRows = 10

// Preview is the display form of a Result: blanked placeholder headers and
// at most MaxRows rows. Renderers show an ellipsis row when Truncated is set.
type Preview struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	TotalRows int        `json:"total_rows"`
	Truncated bool       `json:"truncated"`
	Warnings  []Warning  `json:"warnings"`
}

// NewPreview builds a preview of res limited to maxRows rows. A maxRows of 0
// or less uses DefaultPreviewRows.
func NewPreview(res *Result, maxRows int) Preview {
	if maxRows <= 0 {
		maxRows = DefaultPreviewRows
	}

	t := res.Table
	n := min(t.Len(), maxRows)

	p := Preview{
		Headers:   res.EmptyColumns.Headers(t.Columns()),
		Rows:      make([][]string, n),
		TotalRows: t.Len(),
		Truncated: t.Len() > maxRows,
		Warnings:  append([]Warning{}, res.Warnings...),
	}
	for i := range n {
		p.Rows[i] = t.Record(i)
	}
	return p
}
