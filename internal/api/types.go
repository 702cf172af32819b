package api

// SampleRequest asks for one or more independent draws of the next token.
// Unset sampling parameters take the server defaults.
type SampleRequest struct {
	Scores  []float32       `json:"scores"`
	History []int           `json:"history,omitempty"`
	EOSID   *int            `json:"eos_id,omitempty"`
	Config  *SamplingParams `json:"config,omitempty"`
	Seed    *int64          `json:"seed,omitempty"`
	Count   int             `json:"count,omitempty"`
}

type SamplingParams struct {
	TopP                *float64 `json:"top_p,omitempty"`
	TopK                *int     `json:"top_k,omitempty"`
	WindowSize          *int     `json:"window_size,omitempty"`
	RepetitionThreshold *float64 `json:"repetition_threshold_fraction,omitempty"`
	IgnoreEOS           *bool    `json:"ignore_eos,omitempty"`
	MaxRetries          *int     `json:"max_retries,omitempty"`
}

type SampleResponse struct {
	ID        string `json:"id"`
	Object    string `json:"object"`
	CreatedAt int64  `json:"created_at"`
	Tokens    []int  `json:"tokens"`
}

type ResponseError struct {
	Message    string `json:"message,omitempty"`
	Type       string `json:"type,omitempty"`
	Code       string `json:"code,omitempty"`
	Param      string `json:"param,omitempty"`
	MaxRetries *int   `json:"max_retries,omitempty"`
}
