package csvio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// Encoding names a supported file encoding.
type Encoding string

const (
	UTF8     Encoding = "utf-8"
	ShiftJIS Encoding = "shift_jis"
)

// DefaultEncoding matches what spreadsheet software on Japanese Windows
// produces.
const DefaultEncoding = ShiftJIS

// Encodings lists the supported encodings in display order.
var Encodings = []Encoding{UTF8, ShiftJIS}

// ParseEncoding accepts the common spellings of the supported encodings.
// An empty string yields DefaultEncoding.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultEncoding, nil
	case "utf-8", "utf8":
		return UTF8, nil
	case "shift_jis", "shift-jis", "sjis", "cp932", "windows-31j":
		return ShiftJIS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
	}
}

// Alternative returns the encoding tried when e fails to decode.
func (e Encoding) Alternative() Encoding {
	if e == UTF8 {
		return ShiftJIS
	}
	return UTF8
}

var errUndecodable = errors.New("undecodable input")

// decode converts data in encoding e to UTF-8.
func decode(data []byte, e Encoding) ([]byte, error) {
	switch e {
	case UTF8:
		if !utf8.Valid(data) {
			return nil, errUndecodable
		}
		return data, nil
	case ShiftJIS:
		// Shift_JIS text with multibyte characters is practically never
		// valid UTF-8, while UTF-8 often decodes as Shift_JIS mojibake
		// without error.
		if !isASCII(data) && utf8.Valid(data) {
			return nil, errUndecodable
		}
		out, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errUndecodable, err)
		}
		if bytes.ContainsRune(out, utf8.RuneError) {
			return nil, errUndecodable
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, string(e))
	}
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
