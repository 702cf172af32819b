package logits

import "math"

// Softmax converts raw scores into a probability distribution. The maximum
// score is subtracted before exponentiating so large scores cannot overflow.
// When the exponentials sum to zero, or the scores are not finite, the result
// is the uniform distribution.
//
// The returned slice is always freshly allocated.
func Softmax(scores []float32) ([]float64, error) {
	if len(scores) == 0 {
		return nil, ErrEmptyInput
	}

	maxv := float64(scores[0])
	for _, v := range scores[1:] {
		if float64(v) > maxv {
			maxv = float64(v)
		}
	}

	probs := make([]float64, len(scores))
	var sum float64
	for i, v := range scores {
		e := math.Exp(float64(v) - maxv)
		probs[i] = e
		sum += e
	}

	if !(sum > 0) || math.IsInf(sum, 0) {
		u := 1.0 / float64(len(probs))
		for i := range probs {
			probs[i] = u
		}
		return probs, nil
	}

	invSum := 1.0 / sum
	for i := range probs {
		probs[i] *= invSum
	}
	return probs, nil
}
