package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/rasampler/internal/cases"
	"github.com/samcharles93/rasampler/internal/logger"
)

func casesCmd() *cli.Command {
	return &cli.Command{
		Name:  "cases",
		Usage: "Generate, run and compare sampling scenarios",
		Commands: []*cli.Command{
			casesGenerateCmd(),
			casesRunCmd(),
			casesCompareCmd(),
		},
	}
}

func casesGenerateCmd() *cli.Command {
	var (
		out  string
		seed int64
	)
	return &cli.Command{
		Name:  "generate",
		Usage: "Write the built-in scenarios to a JSON file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (default: <out dir>/cases.json)",
				Destination: &out,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "seed for the random score vectors",
				Value:       42,
				Destination: &seed,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			path, err := resolveOutPath(out, fileConfig.OutDir, "cases.json")
			if err != nil {
				return err
			}
			cs := cases.Builtin(seed)
			if err := cases.Save(path, cs); err != nil {
				return err
			}
			log.Info("wrote cases", "path", path, "count", len(cs))
			return nil
		},
	}
}

func casesRunCmd() *cli.Command {
	var (
		in      string
		out     string
		samples int64
		seed    int64
	)
	return &cli.Command{
		Name:  "run",
		Usage: "Sample every scenario and write the distributions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "in",
				Aliases:     []string{"i"},
				Usage:       "cases file (default: built-in scenarios)",
				Destination: &in,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (default: <out dir>/results.json)",
				Destination: &out,
			},
			&cli.Int64Flag{
				Name:        "samples",
				Usage:       "draws per case",
				Value:       1000,
				Destination: &samples,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "sampling RNG seed",
				Value:       42,
				Destination: &seed,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)

			cs := cases.Builtin(42)
			if in != "" {
				loaded, err := cases.Load(in)
				if err != nil {
					return err
				}
				cs = loaded
			}

			path, err := resolveOutPath(out, fileConfig.OutDir, "results.json")
			if err != nil {
				return err
			}

			runner := cases.Runner{Samples: int(samples), Seed: seed, Log: log}
			results, err := runner.Run(ctx, cs)
			if err != nil {
				return err
			}
			if err := cases.SaveResults(path, results); err != nil {
				return err
			}
			log.Info("wrote results", "path", path, "cases", len(results))
			return nil
		},
	}
}

func casesCompareCmd() *cli.Command {
	return &cli.Command{
		Name:      "compare",
		Usage:     "Compare two result files case by case",
		ArgsUsage: "<want.json|.txt> <got.json|.txt>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("compare needs two result files, got %d", cmd.Args().Len())
			}
			want, err := cases.LoadResults(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			got, err := cases.LoadResults(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			return reportComparisons(cmd.Root().Writer, cases.Compare(want, got))
		},
	}
}

// reportComparisons prints one line per case and fails if any differ.
func reportComparisons(w io.Writer, cmps []cases.Comparison) error {
	failed := 0
	for _, c := range cmps {
		mark := "ok  "
		if !c.Similar {
			mark = "FAIL"
			failed++
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", mark, c); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d cases differ", failed, len(cmps))
	}
	return nil
}
