// Package fuzzy provides edit-distance matching for "did you mean"
// suggestions. It is shared by the query analyzer and the CSV importer.
package fuzzy

// Distance calculates the Levenshtein edit distance between two strings.
func Distance(a, b string) int {
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
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}

// Closest returns the candidate within maxDist edits of target with the
// smallest distance, or "" when none qualifies. Earlier candidates win ties.
func Closest(target string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1
	for _, c := range candidates {
		if d := Distance(target, c); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}
