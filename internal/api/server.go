package api

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/rasampler/internal/logger"
	"github.com/samcharles93/rasampler/internal/logits"
)

const (
	// maxCount bounds the draws a single request may ask for.
	maxCount = 1024
	// maxRetriesLimit bounds the EOS redraws per token a request may ask for.
	maxRetriesLimit = 10000
)

type Server struct {
	defaults logits.Config
	log      logger.Logger
	clock    func() time.Time

	// mu guards rng, which is shared by requests without their own seed.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewServer returns a server sampling with defaults unless a request
// overrides them. A negative seed seeds the shared source from the clock.
func NewServer(defaults logits.Config, seed int64, log logger.Logger) (*Server, error) {
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		defaults: defaults,
		log:      log,
		clock:    time.Now,
		rng:      rand.New(rand.NewSource(seed)),
	}, nil
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/sample", s.handleSample)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSample(c *echo.Context) error {
	req, err := decodeJSON[SampleRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	cfg, err := s.resolveConfig(req.Config)
	if err != nil {
		return writeSamplingError(c, err)
	}
	count, err := resolveCount(req.Count)
	if err != nil {
		return writeSamplingError(c, err)
	}
	eos := logits.NoEOS
	if req.EOSID != nil {
		eos = *req.EOSID
	}

	tokens, err := s.sample(c.Request().Context(), req, cfg, eos, count)
	if err != nil {
		s.log.Debug("sample failed", "error", err)
		return writeSamplingError(c, err)
	}

	resp := SampleResponse{
		ID:        newSampleID(),
		Object:    "sample",
		CreatedAt: s.clock().Unix(),
		Tokens:    tokens,
	}
	s.log.Debug("sampled", "id", resp.ID, "vocab", len(req.Scores), "tokens", len(tokens))
	return c.JSON(http.StatusOK, resp)
}

// sample draws count tokens. Requests carrying a seed get a private source;
// the rest share the server source under mu. ctx is checked between draws
// so a gone client releases mu.
func (s *Server) sample(ctx context.Context, req SampleRequest, cfg logits.Config, eos, count int) ([]int, error) {
	rng := s.rng
	if req.Seed != nil {
		rng = rand.New(rand.NewSource(*req.Seed))
	} else {
		s.mu.Lock()
		defer s.mu.Unlock()
	}

	sampler, err := logits.NewSampler(cfg, rng)
	if err != nil {
		return nil, err
	}
	sampler.WithLogger(s.log)

	tokens := make([]int, 0, count)
	for range count {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := sampler.SelectNextToken(req.Scores, req.History, eos)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, id)
	}
	return tokens, nil
}

func (s *Server) resolveConfig(p *SamplingParams) (logits.Config, error) {
	cfg := s.defaults
	if p == nil {
		return cfg, nil
	}
	if p.TopP != nil {
		cfg.TopP = *p.TopP
	}
	if p.TopK != nil {
		cfg.TopK = *p.TopK
	}
	if p.WindowSize != nil {
		cfg.WindowSize = *p.WindowSize
	}
	if p.RepetitionThreshold != nil {
		cfg.RepetitionThreshold = *p.RepetitionThreshold
	}
	if p.IgnoreEOS != nil {
		cfg.IgnoreEOS = *p.IgnoreEOS
	}
	if p.MaxRetries != nil {
		if *p.MaxRetries < 0 || *p.MaxRetries > maxRetriesLimit {
			return cfg, newInvalidRequest("config.max_retries",
				fmt.Sprintf("max_retries must be between 0 and %d", maxRetriesLimit))
		}
		cfg.MaxRetries = *p.MaxRetries
	}
	return cfg, nil
}

func resolveCount(n int) (int, error) {
	switch {
	case n == 0:
		return 1, nil
	case n < 0 || n > maxCount:
		return 0, newInvalidRequest("count", fmt.Sprintf("count must be between 1 and %d", maxCount))
	}
	return n, nil
}
