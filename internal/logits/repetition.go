package logits

import "math"

// RepetitionCount counts how often id occurs in the last window entries of
// history.
func RepetitionCount(history []int, id, window int) int {
	if window <= 0 {
		return 0
	}
	start := max(len(history)-window, 0)
	n := 0
	for _, h := range history[start:] {
		if h == id {
			n++
		}
	}
	return n
}

// RepetitionThreshold is floor(window * fraction).
func RepetitionThreshold(window int, fraction float64) int {
	return int(math.Floor(float64(window) * fraction))
}

// GuardRepetition keeps candidate unless it already occurs at least
// RepetitionThreshold times in the trailing window of history. A repeated
// candidate is replaced by a draw from the full distribution probs, which may
// yield the same id again.
//
// A threshold of zero (empty window or zero fraction) redraws every time.
func (s *Sampler) GuardRepetition(candidate int, history []int, probs []float64) int {
	count := RepetitionCount(history, candidate, s.cfg.WindowSize)
	threshold := RepetitionThreshold(s.cfg.WindowSize, s.cfg.RepetitionThreshold)
	if count < threshold {
		return candidate
	}
	id := s.drawWeighted(probs)
	s.log.Debug("repetition fallback", "candidate", candidate, "count", count, "threshold", threshold, "redrawn", id)
	return id
}
