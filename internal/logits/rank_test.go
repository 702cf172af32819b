package logits

import (
	"math/rand"
	"slices"
	"testing"
)

func isPermutation(idx []int) bool {
	seen := make([]bool, len(idx))
	for _, i := range idx {
		if i < 0 || i >= len(idx) || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func TestRankDescending(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		probs []float64
		want  []int
	}{
		{"strictly decreasing", []float64{0.4, 0.3, 0.2, 0.1}, []int{0, 1, 2, 3}},
		{"all equal", []float64{0.25, 0.25, 0.25, 0.25}, []int{0, 1, 2, 3}},
		{"ties keep index order", []float64{0.1, 0.3, 0.3, 0.2, 0.1}, []int{1, 2, 3, 0, 4}},
		{"increasing", []float64{0.1, 0.2, 0.3, 0.4}, []int{3, 2, 1, 0}},
		{"single", []float64{1}, []int{0}},
	}

	for _, tc := range tests {
		got := RankDescending(tc.probs)
		if !slices.Equal(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRankDescendingIsPermutation(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(3))
	for n := 1; n < 64; n++ {
		probs := make([]float64, n)
		for i := range probs {
			// Coarse buckets force plenty of ties.
			probs[i] = float64(rng.Intn(4))
		}
		ranked := RankDescending(probs)
		if !isPermutation(ranked) {
			t.Fatalf("n=%d: %v is not a permutation", n, ranked)
		}
		for i := 1; i < n; i++ {
			a, b := ranked[i-1], ranked[i]
			if probs[a] < probs[b] {
				t.Fatalf("n=%d: order not descending at %d", n, i)
			}
			if probs[a] == probs[b] && a > b {
				t.Fatalf("n=%d: tie at %d not stable (%d before %d)", n, i, a, b)
			}
		}
	}
}

func TestScenarioRanking(t *testing.T) {
	t.Parallel()
	probs, err := Softmax([]float32{1.2, 3.4, 0.5, 5.6, 2.1, 4.0, 1.8, 0.9, 2.7, 3.3})
	if err != nil {
		t.Fatal(err)
	}
	ranked := RankDescending(probs)
	if ranked[0] != 3 {
		t.Fatalf("expected index 3 ranked first, got %v", ranked)
	}
	if ranked[len(ranked)-1] != 2 {
		t.Fatalf("expected index 2 ranked last, got %v", ranked)
	}
}
