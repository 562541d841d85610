package csvio

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"

	"github.com/JonMunkholm/csvlayout/internal/core"
)

// WriteOptions controls Write.
type WriteOptions struct {
	OmitHeader bool
	// Encoding of the output. Empty means DefaultEncoding.
	Encoding Encoding
	CRLF     bool
}

// Write serializes t with every field double-quoted. Headers of columns in
// empties are written as "". Characters that cannot be represented in the
// output encoding fail with ErrEncoding.
func Write(w io.Writer, t *core.Table, empties core.EmptyColumns, opts WriteOptions) error {
	enc := opts.Encoding
	if enc == "" {
		enc = DefaultEncoding
	}

	var encoder *encoding.Encoder
	switch enc {
	case UTF8:
	case ShiftJIS:
		encoder = japanese.ShiftJIS.NewEncoder()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEncoding, string(enc))
	}

	cw := &quotedWriter{
		w:       bufio.NewWriter(w),
		encoder: encoder,
		eol:     "\n",
	}
	if opts.CRLF {
		cw.eol = "\r\n"
	}

	if !opts.OmitHeader {
		if err := cw.writeRecord(0, empties.Headers(t.Columns())); err != nil {
			return err
		}
	}
	for i := range t.Len() {
		if err := cw.writeRecord(i+1, t.Record(i)); err != nil {
			return err
		}
	}
	return cw.w.Flush()
}

// quotedWriter writes CSV records with every field quoted.
type quotedWriter struct {
	w       *bufio.Writer
	encoder *encoding.Encoder
	eol     string
}

// writeRecord writes one record. row is 0 for the header.
func (q *quotedWriter) writeRecord(row int, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			q.w.WriteByte(',')
		}
		f = strings.ReplaceAll(f, `"`, `""`)
		if q.encoder != nil {
			encoded, err := q.encoder.String(f)
			if err != nil {
				return fmt.Errorf("%w: row %d, field %d: %q cannot be encoded", ErrEncoding, row, i+1, fields[i])
			}
			f = encoded
		}
		q.w.WriteByte('"')
		q.w.WriteString(f)
		q.w.WriteByte('"')
	}
	_, err := q.w.WriteString(q.eol)
	return err
}

// OutputName returns the default output file name for input:
// "<base>_converted<ext>".
func OutputName(input string) string {
	base := filepath.Base(input)
	if base == "." || base == string(filepath.Separator) {
		base = "output"
	}
	ext := filepath.Ext(base)
	if ext == "" {
		ext = ".csv"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_converted" + ext
}
