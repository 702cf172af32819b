// Package cases runs the sampler over fixed decoding scenarios and compares
// the resulting token distributions between runs or implementations.
package cases

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/goccy/go-json"

	"github.com/samcharles93/rasampler/internal/logits"
)

// Case is one decoding step: a score vector, the tokens decoded so far and
// the sampling parameters to apply.
type Case struct {
	Name                string    `json:"name"`
	Scores              []float32 `json:"scores"`
	History             []int     `json:"history"`
	EOS                 int       `json:"eos_id"`
	TopP                float64   `json:"top_p"`
	TopK                int       `json:"top_k"`
	WindowSize          int       `json:"window_size"`
	RepetitionThreshold float64   `json:"repetition_threshold_fraction"`
	IgnoreEOS           bool      `json:"ignore_eos"`
	MaxRetries          int       `json:"max_retries"`
}

// UnmarshalJSON decodes a case, leaving EOS at logits.NoEOS when the
// document has no eos_id.
func (c *Case) UnmarshalJSON(data []byte) error {
	type plain Case
	v := plain{EOS: logits.NoEOS}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Case(v)
	return nil
}

// Config returns the sampling parameters of the case.
func (c Case) Config() logits.Config {
	return logits.Config{
		TopP:                c.TopP,
		TopK:                c.TopK,
		WindowSize:          c.WindowSize,
		RepetitionThreshold: c.RepetitionThreshold,
		IgnoreEOS:           c.IgnoreEOS,
		MaxRetries:          c.MaxRetries,
	}
}

// Builtin returns the reference scenarios. Random score vectors and
// histories are derived from seed.
func Builtin(seed int64) []Case {
	rng := rand.New(rand.NewSource(seed))
	randn := func(n int, scale float64) []float32 {
		out := make([]float32, n)
		for i := range out {
			out[i] = float32(rng.NormFloat64() * scale)
		}
		return out
	}

	largeHistory := make([]int, 20)
	for i := range largeHistory {
		largeHistory[i] = rng.Intn(50)
	}

	return []Case{
		{
			Name:                "basic_case",
			Scores:              []float32{1.2, 3.4, 0.5, 5.6, 2.1, 4.0, 1.8, 0.9, 2.7, 3.3},
			History:             []int{1, 5, 2, 8, 1, 3, 7, 1, 4, 9, 6, 1, 0, 2, 5},
			EOS:                 9,
			TopP:                0.8,
			TopK:                25,
			WindowSize:          10,
			RepetitionThreshold: 0.1,
			IgnoreEOS:           true,
			MaxRetries:          100,
		},
		{
			Name:                "large_vocab",
			Scores:              randn(50, 2),
			History:             largeHistory,
			EOS:                 49,
			TopP:                0.9,
			TopK:                40,
			WindowSize:          15,
			RepetitionThreshold: 0.2,
			IgnoreEOS:           false,
			MaxRetries:          100,
		},
		{
			Name:                "high_repetition",
			Scores:              randn(20, 1),
			History:             []int{5, 3, 5, 7, 5, 1, 5, 9, 5, 2, 5, 8, 5, 4, 5},
			EOS:                 19,
			TopP:                0.7,
			TopK:                15,
			WindowSize:          8,
			RepetitionThreshold: 0.15,
			IgnoreEOS:           true,
			MaxRetries:          100,
		},
		{
			Name:                "small_vocab",
			Scores:              []float32{2.0, -1.0, 3.5},
			History:             []int{0, 1, 0, 2, 0},
			EOS:                 2,
			TopP:                0.6,
			TopK:                3,
			WindowSize:          5,
			RepetitionThreshold: 0.1,
			IgnoreEOS:           false,
			MaxRetries:          100,
		},
	}
}

// Load reads a JSON array of cases.
func Load(path string) ([]Case, error) {
	var out []Case
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	for i, c := range out {
		if c.Name == "" {
			return nil, fmt.Errorf("case %d in %s has no name", i, path)
		}
	}
	return out, nil
}

// Save writes cases as indented JSON.
func Save(path string, cases []Case) error {
	return writeJSON(path, cases)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
