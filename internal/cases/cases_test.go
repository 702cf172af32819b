package cases

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/samcharles93/rasampler/internal/logits"
)

func TestBuiltinDeterministic(t *testing.T) {
	t.Parallel()
	a := Builtin(42)
	b := Builtin(42)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Builtin with the same seed produced different cases")
	}
	if len(a) != 4 {
		t.Fatalf("expected 4 cases, got %d", len(a))
	}
	for _, c := range a {
		if err := c.Config().Validate(); err != nil {
			t.Errorf("%s: %v", c.Name, err)
		}
		if c.EOS >= len(c.Scores) {
			t.Errorf("%s: eos %d outside vocab of %d", c.Name, c.EOS, len(c.Scores))
		}
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cases.json")
	want := Builtin(1)
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("loaded cases differ:\n got %+v\nwant %+v", got, want)
	}
}

func TestLoadEOSDefault(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cases.json")
	body := `[
  {"name": "no_eos", "scores": [1, 2, 3], "top_p": 0.9, "top_k": 3, "repetition_threshold_fraction": 0.25, "ignore_eos": true},
  {"name": "eos_zero", "scores": [1, 2, 3], "eos_id": 0}
]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got[0].EOS != logits.NoEOS {
		t.Errorf("absent eos_id: got %d, want %d", got[0].EOS, logits.NoEOS)
	}
	if got[0].RepetitionThreshold != 0.25 {
		t.Errorf("repetition_threshold_fraction: got %v", got[0].RepetitionThreshold)
	}
	if got[1].EOS != 0 {
		t.Errorf("explicit eos_id 0: got %d", got[1].EOS)
	}
}

func TestLoadRejectsUnnamed(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "cases.json")
	if err := Save(path, []Case{{Scores: []float32{1}}}); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "no name") {
		t.Fatalf("expected missing name error, got %v", err)
	}
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()
	cs := Builtin(42)
	results, err := Runner{Samples: 500, Seed: 7}.Run(context.Background(), cs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != len(cs) {
		t.Fatalf("expected %d results, got %d", len(cs), len(results))
	}
	for i, r := range results {
		c := cs[i]
		if r.Error != "" {
			t.Fatalf("%s: unexpected error %s", c.Name, r.Error)
		}
		if r.Total != 500 || len(r.Samples) != keptSamples {
			t.Fatalf("%s: total %d, kept %d", c.Name, r.Total, len(r.Samples))
		}
		sum := 0
		for _, n := range r.Distribution {
			sum += n
		}
		if sum != r.Total {
			t.Fatalf("%s: histogram holds %d draws, want %d", c.Name, sum, r.Total)
		}
		if c.IgnoreEOS && r.Distribution[c.EOS] != 0 {
			t.Fatalf("%s: eos drawn %d times while ignore_eos is set", c.Name, r.Distribution[c.EOS])
		}
	}
}

func TestRunnerRecordsExhaustion(t *testing.T) {
	t.Parallel()
	c := Case{
		Name:       "eos_dominant",
		Scores:     []float32{-50, -50, 50},
		EOS:        2,
		TopP:       0.8,
		TopK:       25,
		WindowSize: 10,
		IgnoreEOS:  true,
		MaxRetries: 5,
	}
	results, err := Runner{Samples: 10, Seed: 1}.Run(context.Background(), []Case{c})
	if err != nil {
		t.Fatal(err)
	}
	r := results[0]
	if r.Total != 0 || !strings.Contains(r.Error, "max retries 5") {
		t.Fatalf("expected exhaustion on the first draw, got total=%d error=%q", r.Total, r.Error)
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := Runner{Samples: 1}.Run(context.Background(), []Case{{Name: "bad", Scores: []float32{1}}})
	if err == nil || !strings.Contains(err.Error(), "case bad") {
		t.Fatalf("expected config error naming the case, got %v", err)
	}
}

func TestRunnerCancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Runner{Samples: 10}.Run(ctx, Builtin(1))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResultsSaveLoad(t *testing.T) {
	t.Parallel()
	results, err := Runner{Samples: 50, Seed: 3}.Run(context.Background(), Builtin(3))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "results.json")
	if err := SaveResults(path, results); err != nil {
		t.Fatal(err)
	}
	got, err := LoadResults(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, results) {
		t.Fatal("loaded results differ from saved results")
	}
}
