package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/rasampler/internal/logger"
	"github.com/samcharles93/rasampler/internal/logits"
)

func sampleCmd() *cli.Command {
	var (
		scores  string
		history string
		eos     int64
		count   int64
	)

	return &cli.Command{
		Name:  "sample",
		Usage: "Select next token ids from a score vector",
		Flags: append(samplingFlags(),
			&cli.StringFlag{
				Name:        "scores",
				Aliases:     []string{"s"},
				Usage:       "comma separated scores, one per token id",
				Required:    true,
				Destination: &scores,
			},
			&cli.StringFlag{
				Name:        "history",
				Usage:       "comma separated ids decoded so far",
				Destination: &history,
			},
			&cli.Int64Flag{
				Name:        "eos",
				Usage:       "end-of-sequence id (default -1 = none)",
				Value:       logits.NoEOS,
				Destination: &eos,
			},
			&cli.Int64Flag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of independent draws",
				Value:       1,
				Destination: &count,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			applySamplingConfig(cmd, fileConfig)
			log := logger.FromContext(ctx)

			sc, err := parseFloatList(scores)
			if err != nil {
				return fmt.Errorf("--scores: %w", err)
			}
			hist, err := parseIntList(history)
			if err != nil {
				return fmt.Errorf("--history: %w", err)
			}

			s, err := logits.NewSeededSampler(samplingConfig(), samplingSeed)
			if err != nil {
				return err
			}
			s.WithLogger(log)

			ids, err := drawTokens(s, sc, hist, int(eos), int(count))
			if err != nil {
				return err
			}
			log.Debug("sampled", "vocab", len(sc), "history", len(hist), "count", len(ids))
			return printIDs(cmd.Root().Writer, ids)
		},
	}
}

func drawTokens(s *logits.Sampler, scores []float32, history []int, eos, count int) ([]int, error) {
	ids := make([]int, 0, count)
	for range count {
		id, err := s.SelectNextToken(scores, history, eos)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func printIDs(w io.Writer, ids []int) error {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, " "))
	return err
}

func parseFloatList(s string) ([]float32, error) {
	fields := splitList(s)
	out := make([]float32, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, float32(v))
	}
	return out, nil
}

func parseIntList(s string) ([]int, error) {
	fields := splitList(s)
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
