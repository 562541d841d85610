package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// records returns every row of t in column order.
func records(t *Table) [][]string {
	out := make([][]string, t.Len())
	for i := range out {
		out[i] = t.Record(i)
	}
	return out
}

func TestNewTable(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]string
		wantErr string
	}{
		{name: "valid", columns: []string{"a", "b"}, rows: [][]string{{"1", "2"}, {"", ""}}},
		{name: "no rows", columns: []string{"a"}},
		{name: "no columns", rows: [][]string{{}, {}}},
		{name: "duplicate column", columns: []string{"a", "a"}, wantErr: `duplicate column "a"`},
		{name: "short row", columns: []string{"a", "b"}, rows: [][]string{{"1"}}, wantErr: "row 1 has 1 cells, expected 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewTable(tt.columns, tt.rows)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), tbl.Len())
			assert.Equal(t, len(tt.columns), tbl.Width())
			assert.NoError(t, tbl.Validate())
		})
	}
}

func TestTable_Accessors(t *testing.T) {
	tbl := MustTable([]string{"姓", "名"}, [][]string{{"山田", "太郎"}, {"佐藤", ""}})

	assert.True(t, tbl.Has("姓"))
	assert.False(t, tbl.Has("氏名"))
	assert.Equal(t, "太郎", tbl.Value(0, "名"))
	assert.Equal(t, "", tbl.Value(0, "氏名"))
	assert.Equal(t, map[string]string{"姓": "佐藤", "名": ""}, tbl.Row(1))
	assert.Equal(t, []string{"山田", "佐藤"}, tbl.Column("姓"))
	assert.Nil(t, tbl.Column("missing"))
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tbl := MustTable([]string{"a"}, [][]string{{"1"}})
	c := tbl.Clone()
	c.mapColumn("a", func(string) string { return "x" })
	c.setColumn("b", []string{"y"})

	assert.Equal(t, []string{"a"}, tbl.Columns())
	assert.Equal(t, "1", tbl.Value(0, "a"))
	assert.Equal(t, []string{"a", "b"}, c.Columns())
	assert.NoError(t, c.Validate())
}

func TestTable_ColumnsReturnsCopy(t *testing.T) {
	tbl := MustTable([]string{"a", "b"}, nil)
	cols := tbl.Columns()
	cols[0] = "z"
	assert.Equal(t, []string{"a", "b"}, tbl.Columns())
}

func TestTable_Project(t *testing.T) {
	tbl := MustTable([]string{"a", "b", "c"}, [][]string{{"1", "2", "3"}})

	p := tbl.project([]string{"c", "a"})
	assert.Equal(t, []string{"c", "a"}, p.Columns())
	assert.Equal(t, [][]string{{"3", "1"}}, records(p))

	empty := tbl.project(nil)
	assert.Equal(t, 0, empty.Width())
	assert.Equal(t, 1, empty.Len())
	assert.NoError(t, empty.Validate())
}
