package main

import (
	"sort"
	"strings"
)

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	if la < lb {
		a, b = b, a
		la, lb = lb, la
	}

	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr := make([]int, lb+1)
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev = curr
	}
	return prev[lb]
}

// suggestIDs returns up to 3 rule IDs closest to the input by edit distance.
// Ids containing the input as a substring are treated as close matches.
func suggestIDs(input string, ids []string) []string {
	type candidate struct {
		id   string
		dist int
	}

	maxDist := max(len(input)/2, 3)

	var candidates []candidate
	for _, id := range ids {
		d := levenshtein(input, id)
		if d == 0 {
			continue
		}
		if d <= maxDist || (len(input) >= 3 && containsFold(id, input)) {
			candidates = append(candidates, candidate{id: id, dist: d})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].id < candidates[j].id
	})

	result := make([]string, 0, 3)
	for _, c := range candidates {
		if len(result) == 3 {
			break
		}
		result = append(result, c.id)
	}
	return result
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
