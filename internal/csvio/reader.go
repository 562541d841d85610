package csvio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/JonMunkholm/csvlayout/internal/core"
)

// Options controls Read.
type Options struct {
	// Encoding is tried first. Empty means DefaultEncoding.
	Encoding Encoding
	// MaxSize rejects larger inputs with ErrFileTooLarge. 0 disables it.
	MaxSize int64
}

// Input is a decoded CSV file.
type Input struct {
	Table *core.Table
	// Encoding is the encoding the data was actually decoded with.
	Encoding Encoding
	// FellBack is set when the data was decoded with an encoding other than
	// Options.Encoding, either after a decode failure or because of a BOM.
	FellBack bool
	// Renamed maps generated header names back to the raw header text for
	// blank or repeated headers.
	Renamed map[string]string
}

// Read decodes r and parses it into a table. The first record is the header.
// Cells are kept as raw text; blank cells are "". Rows shorter than the
// header are padded, longer rows are rejected.
func Read(r io.Reader, opts Options) (*Input, error) {
	enc := opts.Encoding
	if enc == "" {
		enc = DefaultEncoding
	}

	bom := newBOMSkippingReader(r)
	src := io.Reader(bom)
	if opts.MaxSize > 0 {
		src = io.LimitReader(bom, opts.MaxSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if opts.MaxSize > 0 && int64(len(data)) > opts.MaxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, opts.MaxSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	in := &Input{Encoding: enc}
	if bom.found {
		in.Encoding = UTF8
	}

	text, err := decode(data, in.Encoding)
	if err != nil {
		alt := in.Encoding.Alternative()
		text, err = decode(data, alt)
		if err != nil {
			return nil, fmt.Errorf("%w: input is neither %s nor %s", ErrEncoding, enc, alt)
		}
		in.Encoding = alt
	}
	in.FellBack = in.Encoding != enc

	records, err := parseCSV(text)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header, renamed := uniqueHeader(records[0])
	rows := records[1:]
	for i, row := range rows {
		switch {
		case len(row) > len(header):
			return nil, fmt.Errorf("%w: line %d has %d fields, header has %d", ErrInvalidCSV, i+2, len(row), len(header))
		case len(row) < len(header):
			padded := make([]string, len(header))
			copy(padded, row)
			rows[i] = padded
		}
	}

	in.Table, err = core.NewTable(header, rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}
	in.Renamed = renamed
	return in, nil
}

func parseCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidCSV, perr.Line, perr.Err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}
	return records, nil
}

// uniqueHeader makes every header name distinct. A blank name at 0-based
// position i becomes "Unnamed: i"; a repeated name gets ".1", ".2", ...
// appended, skipping names already taken.
func uniqueHeader(raw []string) ([]string, map[string]string) {
	taken := make(map[string]bool, len(raw))
	for _, h := range raw {
		if h != "" {
			taken[h] = true
		}
	}

	var (
		out     = make([]string, len(raw))
		used    = make(map[string]bool, len(raw))
		renamed map[string]string
	)
	for i, h := range raw {
		name := h
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			for n := 1; ; n++ {
				candidate := name + "." + strconv.Itoa(n)
				if !used[candidate] && !taken[candidate] {
					name = candidate
					break
				}
			}
		}
		if name != h {
			if renamed == nil {
				renamed = map[string]string{}
			}
			renamed[name] = h
		}
		used[name] = true
		out[i] = name
	}
	return out, renamed
}
