package csvio

import (
	"bytes"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomSkippingReader drops a leading UTF-8 BOM, which Excel adds to UTF-8
// exports, and records whether it saw one.
type bomSkippingReader struct {
	reader  io.Reader
	checked bool
	found   bool
	pending []byte
}

func newBOMSkippingReader(r io.Reader) *bomSkippingReader {
	return &bomSkippingReader{reader: r}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *bomSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true

		var buf [3]byte
		n, err := io.ReadFull(r.reader, buf[:])
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return 0, err
		}
		if n == 3 && bytes.Equal(buf[:], utf8BOM) {
			r.found = true
		} else {
			r.pending = append(r.pending, buf[:n]...)
		}
	}

	if len(r.pending) > 0 {
		n := copy(p, r.pending)
		r.pending = r.pending[n:]
		return n, nil
	}

	return r.reader.Read(p)
}
