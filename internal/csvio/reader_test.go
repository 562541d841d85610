package csvio

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

func sjis(t *testing.T, s string) []byte {
	t.Helper()
	b, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestRead_Encodings(t *testing.T) {
	const text = "姓,名\n山田,太郎\n"

	tests := []struct {
		name         string
		data         []byte
		selected     Encoding
		wantEncoding Encoding
		wantFellBack bool
	}{
		{name: "shift_jis as selected", data: sjis(t, text), selected: ShiftJIS, wantEncoding: ShiftJIS},
		{name: "utf-8 as selected", data: []byte(text), selected: UTF8, wantEncoding: UTF8},
		{name: "shift_jis falls back to utf-8", data: []byte(text), selected: ShiftJIS, wantEncoding: UTF8, wantFellBack: true},
		{name: "utf-8 falls back to shift_jis", data: sjis(t, text), selected: UTF8, wantEncoding: ShiftJIS, wantFellBack: true},
		{name: "bom forces utf-8", data: append([]byte{0xEF, 0xBB, 0xBF}, text...), selected: ShiftJIS, wantEncoding: UTF8, wantFellBack: true},
		{name: "default is shift_jis", data: sjis(t, text), wantEncoding: ShiftJIS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := Read(bytes.NewReader(tt.data), Options{Encoding: tt.selected})
			require.NoError(t, err)

			assert.Equal(t, tt.wantEncoding, in.Encoding)
			assert.Equal(t, tt.wantFellBack, in.FellBack)
			assert.Equal(t, []string{"姓", "名"}, in.Table.Columns())
			assert.Equal(t, []string{"山田", "太郎"}, in.Table.Record(0))
		})
	}
}

func TestRead_ASCIIStaysOnSelected(t *testing.T) {
	in, err := Read(strings.NewReader("a,b\n1,2\n"), Options{Encoding: ShiftJIS})
	require.NoError(t, err)
	assert.Equal(t, ShiftJIS, in.Encoding)
	assert.False(t, in.FellBack)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		opts    Options
		wantErr error
	}{
		{name: "empty", data: "", wantErr: ErrEmptyFile},
		{name: "whitespace only", data: "\n\r\n  \n", wantErr: ErrEmptyFile},
		{name: "bom only", data: "\xEF\xBB\xBF", wantErr: ErrEmptyFile},
		{name: "undecodable", data: "a,b\n\xff\xfe,c\n", opts: Options{Encoding: UTF8}, wantErr: ErrEncoding},
		{name: "row longer than header", data: "a,b\n1,2,3\n", wantErr: ErrInvalidCSV},
		{name: "too large", data: "a,b\n1,2\n", opts: Options{MaxSize: 4}, wantErr: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.data), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRead_MaxSizeBoundary(t *testing.T) {
	data := "a,b\n1,2\n"
	_, err := Read(strings.NewReader(data), Options{MaxSize: int64(len(data))})
	assert.NoError(t, err)
}

func TestRead_CellsKeptAsText(t *testing.T) {
	data := "コード,金額,備考\n\"007\",1e3,\n\"a,b\",\" 空白 \",\"改\n行\"\n9\n"

	in, err := Read(strings.NewReader(data), Options{Encoding: UTF8})
	require.NoError(t, err)

	assert.Equal(t, 3, in.Table.Len())
	assert.Equal(t, []string{"007", "1e3", ""}, in.Table.Record(0))
	assert.Equal(t, []string{"a,b", " 空白 ", "改\n行"}, in.Table.Record(1))
	assert.Equal(t, []string{"9", "", ""}, in.Table.Record(2))
}

func TestRead_OneByteReader(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, "a,b\n1,2\n"...)

	in, err := Read(iotest.OneByteReader(bytes.NewReader(data)), Options{Encoding: UTF8})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, in.Table.Columns())
	assert.False(t, in.FellBack)
}

func TestUniqueHeader(t *testing.T) {
	tests := []struct {
		name        string
		raw         []string
		want        []string
		wantRenamed map[string]string
	}{
		{name: "unique", raw: []string{"a", "b"}, want: []string{"a", "b"}},
		{
			name:        "repeats",
			raw:         []string{"a", "a", "a"},
			want:        []string{"a", "a.1", "a.2"},
			wantRenamed: map[string]string{"a.1": "a", "a.2": "a"},
		},
		{
			name:        "repeat skips existing suffix",
			raw:         []string{"a", "a", "a.1"},
			want:        []string{"a", "a.2", "a.1"},
			wantRenamed: map[string]string{"a.2": "a"},
		},
		{
			name:        "blanks",
			raw:         []string{"", "b", ""},
			want:        []string{"Unnamed: 0", "b", "Unnamed: 2"},
			wantRenamed: map[string]string{"Unnamed: 0": "", "Unnamed: 2": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, renamed := uniqueHeader(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantRenamed, renamed)
		})
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", ShiftJIS, false},
		{"UTF-8", UTF8, false},
		{"utf8", UTF8, false},
		{"Shift_JIS", ShiftJIS, false},
		{"sjis", ShiftJIS, false},
		{"cp932", ShiftJIS, false},
		{"latin1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEncoding(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownEncoding)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
