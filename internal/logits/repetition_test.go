package logits

import (
	"testing"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var scenarioHistory = []int{1, 5, 2, 8, 1, 3, 7, 1, 4, 9, 6, 1, 0, 2, 5}

func TestRepetitionCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		history []int
		id      int
		window  int
		want    int
	}{
		{"scenario window", scenarioHistory, 1, 10, 2},
		{"outside window ignored", scenarioHistory, 8, 10, 0},
		{"whole history", scenarioHistory, 1, 15, 4},
		{"window larger than history", []int{2, 2, 3}, 2, 10, 2},
		{"zero window", scenarioHistory, 1, 0, 0},
		{"empty history", nil, 1, 10, 0},
	}

	for _, tc := range tests {
		if got := RepetitionCount(tc.history, tc.id, tc.window); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestRepetitionThreshold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		window   int
		fraction float64
		want     int
	}{
		{10, 0.1, 1},
		{10, 0.25, 2},
		{7, 0.3, 2},
		{8, 0.15, 1},
		{5, 0.1, 0},
		{0, 0.5, 0},
		{10, 1, 10},
	}

	for _, tc := range tests {
		if got := RepetitionThreshold(tc.window, tc.fraction); got != tc.want {
			t.Errorf("RepetitionThreshold(%d, %v): got %d, want %d", tc.window, tc.fraction, got, tc.want)
		}
	}
}

func TestGuardRepetitionScenario(t *testing.T) {
	t.Parallel()
	s := newTestSampler(t, DefaultConfig(), 1)

	// All mass on 7 so any redraw is recognisable.
	probs := make([]float64, 10)
	probs[7] = 1

	if got := s.GuardRepetition(1, scenarioHistory, probs); got != 7 {
		t.Fatalf("candidate 1 repeats twice in the window, expected fallback draw 7, got %d", got)
	}
	if got := s.GuardRepetition(8, scenarioHistory, probs); got != 8 {
		t.Fatalf("candidate 8 is outside the window, expected it kept, got %d", got)
	}
}

func TestGuardRepetitionZeroThresholdAlwaysRedraws(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.WindowSize = 0
	s := newTestSampler(t, cfg, 1)

	probs := []float64{0, 0, 1}
	if got := s.GuardRepetition(0, nil, probs); got != 2 {
		t.Fatalf("expected redraw from full distribution, got %d", got)
	}
}

// With every id present in the window each nucleus draw is discarded, so the
// output should follow the full softmax rather than the truncated one.
func TestGuardRepetitionFollowsFullDistribution(t *testing.T) {
	t.Parallel()

	scores := []float32{1.2, 3.4, 0.5, 5.6, 2.1, 4.0, 1.8, 0.9, 2.7, 3.3}
	history := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	probs, err := Softmax(scores)
	if err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.IgnoreEOS = false
	s := newTestSampler(t, cfg, 2024)

	const n = 50000
	obs := make([]float64, len(scores))
	for range n {
		id, err := s.SelectNextToken(scores, history, NoEOS)
		if err != nil {
			t.Fatal(err)
		}
		obs[id]++
	}

	exp := make([]float64, len(probs))
	for i, p := range probs {
		exp[i] = p * n
	}
	chi := stat.ChiSquare(obs, exp)
	p := 1 - distuv.ChiSquared{K: float64(len(probs) - 1)}.CDF(chi)
	if p <= 0.01 {
		t.Fatalf("output does not match the full distribution: chi2=%.2f p=%.4f obs=%v", chi, p, obs)
	}

	// The nucleus is {3, 5, 1}; anything else proves the fallback ran.
	for _, id := range []int{0, 2, 4, 6, 7, 8, 9} {
		if obs[id] == 0 {
			t.Fatalf("id %d outside the nucleus was never drawn", id)
		}
	}
}
