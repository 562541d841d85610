package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchProfiles(t *testing.T) {
	full := New("full")
	full.Rules.Merge = "氏名:姓,名,"
	full.Rules.Reorder = "氏名,住所"

	partial := New("partial")
	partial.Rules.Replace = "状態:中:済"
	partial.Rules.AddChars = "姓:後:様"

	none := New("none")
	none.Rules.Replace = "区分:a:b"

	empty := New("empty")

	matches := MatchProfiles([]Profile{none, partial, empty, full}, []string{" 姓 ", "名", "住所"})

	require.Len(t, matches, 2)
	assert.Equal(t, "full", matches[0].Profile.Name)
	assert.Equal(t, 1.0, matches[0].Score)
	assert.Empty(t, matches[0].Missing)

	assert.Equal(t, "partial", matches[1].Profile.Name)
	assert.Equal(t, 0.5, matches[1].Score)
	assert.Equal(t, []string{"状態"}, matches[1].Missing)
}
