package match

// Threshold is the minimum Similarity for a suggestion.
const Threshold = 0.6

// Suggest returns the candidate most similar to name. Ties go to the
// earlier candidate. It returns false when no candidate reaches Threshold
// or name itself is a candidate.
func Suggest(name string, candidates []string) (string, bool) {
	best, bestScore := "", 0.0

	for _, c := range candidates {
		if c == name {
			return "", false
		}

		score := Similarity(name, c)
		if score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore < Threshold {
		return "", false
	}

	return best, true
}

// Hint formats a suggestion for an error hint, or returns "" when there is
// none.
func Hint(name string, candidates []string) string {
	s, ok := Suggest(name, candidates)
	if !ok {
		return ""
	}

	return "did you mean " + s + "?"
}
