package textutil

import "strings"

// JaccardSimilarity computes the Jaccard similarity of the word sets of two
// normalized titles. Returns 0 when either set is empty.
func JaccardSimilarity(a, b string) float64 {
	setA := wordSet(NormalizeTitle(a))
	setB := wordSet(NormalizeTitle(b))
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func wordSet(value string) map[string]struct{} {
	words := strings.Fields(value)
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}
