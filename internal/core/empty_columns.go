package core

import "fmt"

// placeholderFormat names the blank columns inserted by Reorder.
const placeholderFormat = "__EMPTY_COLUMN_%d__"

// EmptyColumns records the placeholder columns created by one Reorder run.
// Each key maps to "", the header text written in their place.
type EmptyColumns map[string]string

// Contains reports whether column is a placeholder.
func (e EmptyColumns) Contains(column string) bool {
	_, ok := e[column]
	return ok
}

// Header returns the header label to export for column.
func (e EmptyColumns) Header(column string) string {
	if label, ok := e[column]; ok {
		return label
	}
	return column
}

// Headers maps Header over columns.
func (e EmptyColumns) Headers(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = e.Header(c)
	}
	return out
}

// nextPlaceholder returns the first free placeholder name at or after *n and
// advances *n past it.
func nextPlaceholder(n *int, taken func(string) bool) string {
	for {
		name := fmt.Sprintf(placeholderFormat, *n)
		*n++
		if !taken(name) {
			return name
		}
	}
}
