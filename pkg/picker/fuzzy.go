package picker

import (
	"sort"
	"strings"
)

// matchScore reports whether query is a case-insensitive subsequence of
// label, and how good the match is. Prefix and consecutive-character
// matches score higher; an exact match beats everything.
func matchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	positions := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		idx := strings.IndexByte(labelLower[searchFrom:], queryLower[i])
		if idx < 0 {
			return false, 0
		}
		positions = append(positions, searchFrom+idx)
		searchFrom += idx + 1
	}

	score := len(queryLower)
	if positions[0] == 0 {
		score += 10
	}
	for i := 1; i < len(positions); i++ {
		if positions[i] == positions[i-1]+1 {
			score += 3
		}
	}
	if labelLower == queryLower {
		score += 20
	}
	return true, score
}

// rank returns the options matching query, best score first. Equal
// scores keep catalog order, so duplicate names stay distinct rows.
func rank(options []string, query string) []string {
	type scored struct {
		label string
		score int
		index int
	}
	matches := make([]scored, 0, len(options))
	for i, opt := range options {
		ok, score := matchScore(opt, query)
		if !ok {
			continue
		}
		matches = append(matches, scored{label: opt, score: score, index: i})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].index < matches[j].index
	})

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.label
	}
	return out
}
