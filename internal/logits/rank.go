package logits

import (
	"cmp"
	"slices"
)

// RankDescending returns the indices of probs ordered from most to least
// probable. Equal probabilities keep their original index order.
func RankDescending(probs []float64) []int {
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		return cmp.Compare(probs[b], probs[a])
	})
	return idx
}
