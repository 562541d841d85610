package profile

import (
	"sort"
	"strings"

	"github.com/JonMunkholm/csvlayout/internal/core"
)

// MatchThreshold is the minimum score for a profile to be suggested.
const MatchThreshold = 0.5

// Match is a profile suggested for a file, with the share of its input
// columns found in the file header.
type Match struct {
	Profile Profile  `json:"profile"`
	Score   float64  `json:"score"`
	Missing []string `json:"missing,omitempty"`
}

// MatchProfiles ranks profiles by how many of the columns their rules read
// are present in headers. Comparison ignores case and surrounding spaces.
// Profiles scoring below MatchThreshold are left out.
func MatchProfiles(profiles []Profile, headers []string) []Match {
	have := make(map[string]bool, len(headers))
	for _, h := range headers {
		have[normalizeHeader(h)] = true
	}

	var matches []Match
	for _, p := range profiles {
		cols := core.Compile(p.Rules).InputColumns()
		if len(cols) == 0 {
			continue
		}

		var missing []string
		for _, c := range cols {
			if !have[normalizeHeader(c)] {
				missing = append(missing, c)
			}
		}

		score := float64(len(cols)-len(missing)) / float64(len(cols))
		if score >= MatchThreshold {
			matches = append(matches, Match{Profile: p, Score: score, Missing: missing})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
