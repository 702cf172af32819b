package logits

// NucleusCandidates restricts ranked to at most topK ids and then to the
// shortest prefix whose mass reaches topP. The mass is checked before each id
// is added, so the id that crosses topP is still included.
//
// The weights are the original probabilities of the returned ids, not
// renormalized. If nothing qualifies, the single top ranked id is returned
// with weight 1. ranked must not be empty.
func NucleusCandidates(probs []float64, ranked []int, topK int, topP float64) ([]int, []float64) {
	k := min(topK, len(ranked))
	if k <= 0 {
		return []int{ranked[0]}, []float64{1}
	}

	ids := make([]int, 0, k)
	weights := make([]float64, 0, k)
	var cum float64
	for _, id := range ranked[:k] {
		if cum >= topP {
			break
		}
		cum += probs[id]
		ids = append(ids, id)
		weights = append(weights, probs[id])
	}

	if len(ids) == 0 {
		return []int{ranked[0]}, []float64{1}
	}
	return ids, weights
}

// SampleNucleus draws one token id from the top-k/top-p candidate set.
func (s *Sampler) SampleNucleus(probs []float64, ranked []int) int {
	ids, weights := NucleusCandidates(probs, ranked, s.cfg.TopK, s.cfg.TopP)
	return ids[s.drawWeighted(weights)]
}

// drawWeighted returns an index into weights chosen with probability
// proportional to its weight. Zero weights are never chosen unless every
// weight is zero, in which case index 0 is returned.
func (s *Sampler) drawWeighted(weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	if !(total > 0) {
		return 0
	}

	r := s.rng.Float64() * total
	var c float64
	last := 0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		c += w
		if r < c {
			return i
		}
		last = i
	}
	// r can land on total through rounding.
	return last
}
