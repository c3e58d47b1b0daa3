package resolver

import "strings"

// suggestSimilar finds the closest declared field name
func suggestSimilar(unknown string, candidates []string) string {
	unknown = strings.ToLower(unknown)

	var bestMatch string
	bestDistance := 999
	maxDistance := 3 // Only suggest if within 3 edits

	for _, candidate := range candidates {
		dist := levenshtein(unknown, strings.ToLower(candidate))
		if dist < bestDistance && dist <= maxDistance {
			bestDistance = dist
			bestMatch = candidate
		}
	}

	return bestMatch
}

// levenshtein calculates edit distance between two strings
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
