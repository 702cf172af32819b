package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/rasampler/internal/logits"
)

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, ResponseError{Message: msg, Type: "invalid_request_error"})
}

func writeError(c *echo.Context, status int, e ResponseError) error {
	return c.JSON(status, map[string]any{"error": e})
}

// writeSamplingError maps sampler errors onto HTTP responses.
func writeSamplingError(c *echo.Context, err error) error {
	var exhausted *logits.ExhaustedError
	switch {
	case errors.Is(err, logits.ErrEmptyInput):
		return writeError(c, http.StatusBadRequest, ResponseError{
			Message: err.Error(),
			Type:    "invalid_request_error",
			Code:    "empty_input",
			Param:   "scores",
		})
	case errors.Is(err, ErrInvalidRequest):
		return writeError(c, http.StatusBadRequest, ResponseError{
			Message: err.Error(),
			Type:    "invalid_request_error",
			Param:   requestParam(err),
		})
	case errors.Is(err, logits.ErrInvalidConfig):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return writeError(c, http.StatusServiceUnavailable, ResponseError{
			Message: err.Error(),
			Type:    "server_error",
			Code:    "request_cancelled",
		})
	case errors.As(err, &exhausted):
		limit := exhausted.MaxRetries
		return writeError(c, http.StatusUnprocessableEntity, ResponseError{
			Message:    err.Error(),
			Type:       "sampling_error",
			Code:       "sampling_exhausted",
			MaxRetries: &limit,
		})
	default:
		return writeError(c, http.StatusInternalServerError, ResponseError{Message: err.Error(), Type: "server_error"})
	}
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func newSampleID() string {
	return "smp_" + uuid.NewString()
}
