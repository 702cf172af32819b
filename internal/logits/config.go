package logits

import "fmt"

// NoEOS marks the absence of an end-of-sequence sentinel. Any negative id is
// treated the same way.
const NoEOS = -1

// Config configures a single token selection. It carries no state and may be
// shared freely between samplers.
type Config struct {
	TopP                float64
	TopK                int
	WindowSize          int
	RepetitionThreshold float64
	IgnoreEOS           bool
	MaxRetries          int
}

// DefaultConfig returns the parameters used by the speech token decoder:
// top_p 0.8, top_k 25, a 10 token window with a 0.1 repetition fraction,
// EOS suppression on and 100 retries.
func DefaultConfig() Config {
	return Config{
		TopP:                0.8,
		TopK:                25,
		WindowSize:          10,
		RepetitionThreshold: 0.1,
		IgnoreEOS:           true,
		MaxRetries:          100,
	}
}

// Validate reports the first out of range parameter.
func (c Config) Validate() error {
	switch {
	case !(c.TopP > 0 && c.TopP <= 1):
		return invalidConfig("top_p must be in (0,1], got %v", c.TopP)
	case c.TopK < 1:
		return invalidConfig("top_k must be >= 1, got %d", c.TopK)
	case c.WindowSize < 0:
		return invalidConfig("window_size must be >= 0, got %d", c.WindowSize)
	case !(c.RepetitionThreshold >= 0 && c.RepetitionThreshold <= 1):
		return invalidConfig("repetition threshold must be in [0,1], got %v", c.RepetitionThreshold)
	case c.MaxRetries < 0:
		return invalidConfig("max_retries must be >= 0, got %d", c.MaxRetries)
	}
	return nil
}

func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
