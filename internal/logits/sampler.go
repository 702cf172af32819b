package logits

import (
	"math/rand"
	"time"

	"github.com/samcharles93/rasampler/internal/logger"
)

// Sampler selects the next token for a decoding session. It owns its random
// source and is not safe for concurrent use; run one Sampler per session or
// guard a shared one with a mutex.
type Sampler struct {
	rng *rand.Rand
	cfg Config
	log logger.Logger
}

// NewSampler returns a sampler drawing from rng. A nil rng is replaced by a
// time seeded source.
func NewSampler(cfg Config, rng *rand.Rand) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{
		rng: rng,
		cfg: cfg,
		log: logger.Discard(),
	}, nil
}

// NewSeededSampler is NewSampler with a source seeded from seed. A negative
// seed picks a time based one.
func NewSeededSampler(cfg Config, seed int64) (*Sampler, error) {
	if seed < 0 {
		return NewSampler(cfg, nil)
	}
	return NewSampler(cfg, rand.New(rand.NewSource(seed)))
}

// WithLogger sets the logger used for debug records about fallbacks.
func (s *Sampler) WithLogger(l logger.Logger) *Sampler {
	if l == nil {
		l = logger.Discard()
	}
	s.log = l.WithGroup("sampler")
	return s
}

func (s *Sampler) Config() Config {
	return s.cfg
}

// SelectNextToken picks the next token id from scores.
//
// The scores are normalized and ranked once. Each attempt then draws from the
// top-k/top-p nucleus and passes the draw through the repetition guard. When
// IgnoreEOS is set and eos is a valid id, a draw equal to eos is rejected and
// the attempt repeated; once more than MaxRetries draws have been rejected an
// *ExhaustedError is returned. With IgnoreEOS unset the first draw is always
// accepted, eos included.
func (s *Sampler) SelectNextToken(scores []float32, history []int, eos int) (int, error) {
	probs, err := Softmax(scores)
	if err != nil {
		return 0, err
	}
	ranked := RankDescending(probs)

	trials := 0
	for {
		id := s.SampleNucleus(probs, ranked)
		id = s.GuardRepetition(id, history, probs)

		if !s.cfg.IgnoreEOS || eos < 0 || id != eos {
			return id, nil
		}

		trials++
		s.log.Debug("rejected eos", "eos", eos, "trial", trials)
		if trials > s.cfg.MaxRetries {
			return 0, &ExhaustedError{MaxRetries: s.cfg.MaxRetries, EOS: eos}
		}
	}
}

// SelectNextToken is the one-shot form of (*Sampler).SelectNextToken.
func SelectNextToken(rng *rand.Rand, scores []float32, history []int, eos int, cfg Config) (int, error) {
	s, err := NewSampler(cfg, rng)
	if err != nil {
		return 0, err
	}
	return s.SelectNextToken(scores, history, eos)
}
