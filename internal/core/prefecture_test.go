package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefectures_Table(t *testing.T) {
	assert.Equal(t, Prefecture{"北海道", "01"}, Prefectures[0])
	assert.Equal(t, Prefecture{"沖縄県", "47"}, Prefectures[46])

	names := map[string]bool{}
	for i, p := range Prefectures {
		assert.Equal(t, fmt.Sprintf("%02d", i+1), p.Code, p.Name)
		assert.False(t, names[p.Name], "duplicate %s", p.Name)
		names[p.Name] = true
	}

	for _, a := range Prefectures {
		for _, b := range Prefectures {
			if a != b {
				assert.False(t, strings.HasPrefix(a.Name, b.Name), "%s starts with %s", a.Name, b.Name)
			}
		}
	}
}

func TestPrefectureCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"東京都千代田区1-1", "13"},
		{"北海道札幌市", "01"},
		{"京都府京都市", "26"},
		{"沖縄県", "47"},
		{"千代田区1-1", ""},
		{" 東京都", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PrefectureCode(tt.in))
		})
	}
}

func TestStripPrefecture(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"大阪府大阪市", "大阪市"},
		{"神奈川県横浜市", "横浜市"},
		{"大阪市", "大阪市"},
		{"東京都", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripPrefecture(tt.in))
		})
	}
}
