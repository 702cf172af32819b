package logits

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyInput        = errors.New("empty score vector")
	ErrSamplingExhausted = errors.New("sampling exhausted")
	ErrInvalidConfig     = errors.New("invalid sampling config")
)

// ExhaustedError is returned when every draw within the retry budget produced
// the suppressed EOS id.
type ExhaustedError struct {
	MaxRetries int
	EOS        int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("sampling reached max retries %d and still drew eos %d while ignore_eos is set", e.MaxRetries, e.EOS)
}

func (e *ExhaustedError) Unwrap() error {
	return ErrSamplingExhausted
}
