package cases

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/samcharles93/rasampler/internal/logger"
	"github.com/samcharles93/rasampler/internal/logits"
)

// keptSamples is how many raw draws a Result records.
const keptSamples = 100

// Result is the outcome of sampling one case repeatedly.
type Result struct {
	Case         string `json:"test_case"`
	Parameters   Case   `json:"parameters"`
	Samples      []int  `json:"samples"`
	Distribution []int  `json:"distribution"`
	Total        int    `json:"total_samples"`
	Error        string `json:"error,omitempty"`
}

// Runner samples every case a fixed number of times from one shared source.
type Runner struct {
	Samples int
	Seed    int64
	Log     logger.Logger
}

// Run samples each case r.Samples times. A case whose sampler fails stops at
// the failing draw; its error is recorded and the remaining cases still run.
// Cancelling ctx aborts the whole run.
func (r Runner) Run(ctx context.Context, cs []Case) ([]Result, error) {
	log := r.Log
	if log == nil {
		log = logger.Discard()
	}
	rng := rand.New(rand.NewSource(r.Seed))

	results := make([]Result, 0, len(cs))
	for _, c := range cs {
		res, err := r.runCase(ctx, rng, c, log.With("case", c.Name))
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (r Runner) runCase(ctx context.Context, rng *rand.Rand, c Case, log logger.Logger) (Result, error) {
	res := Result{
		Case:         c.Name,
		Parameters:   c,
		Samples:      make([]int, 0, max(min(r.Samples, keptSamples), 0)),
		Distribution: make([]int, len(c.Scores)),
	}

	s, err := logits.NewSampler(c.Config(), rng)
	if err != nil {
		return Result{}, fmt.Errorf("case %s: %w", c.Name, err)
	}
	s.WithLogger(log)

	for i := 0; i < r.Samples; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		id, err := s.SelectNextToken(c.Scores, c.History, c.EOS)
		if err != nil {
			log.Warn("sampling failed", "sample", i, "error", err)
			res.Error = err.Error()
			break
		}
		if len(res.Samples) < keptSamples {
			res.Samples = append(res.Samples, id)
		}
		res.Distribution[id]++
		res.Total++
	}

	log.Info("case done", "samples", res.Total)
	return res, nil
}

// LoadResults reads a result file written by SaveResults, or a plain-text
// report when path ends in .txt.
func LoadResults(path string) ([]Result, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		return LoadTextResults(path)
	}
	var out []Result
	if err := readJSON(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SaveResults writes results as indented JSON.
func SaveResults(path string, results []Result) error {
	return writeJSON(path, results)
}
