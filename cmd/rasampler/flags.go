package main

import (
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/rasampler/internal/logits"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	topP         float64
	topK         int64
	windowSize   int64
	repThreshold float64
	ignoreEOS    bool
	maxRetries   int64
	samplingSeed int64
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Usage:       "path to config.yaml (default: user config dir)",
		Destination: &configFile,
	}
}

func samplingFlags() []cli.Flag {
	def := logits.DefaultConfig()
	return []cli.Flag{
		&cli.Float64Flag{
			Name:        "top-p",
			Aliases:     []string{"top_p", "topp"},
			Usage:       "nucleus mass in (0,1]",
			Value:       def.TopP,
			Destination: &topP,
		},
		&cli.Int64Flag{
			Name:        "top-k",
			Aliases:     []string{"top_k", "topk"},
			Usage:       "max candidates before top-p",
			Value:       int64(def.TopK),
			Destination: &topK,
		},
		&cli.Int64Flag{
			Name:        "window",
			Aliases:     []string{"win-size", "win_size"},
			Usage:       "repetition window in tokens",
			Value:       int64(def.WindowSize),
			Destination: &windowSize,
		},
		&cli.Float64Flag{
			Name:        "threshold",
			Aliases:     []string{"tau-r", "tau_r"},
			Usage:       "repetition threshold as a fraction of the window",
			Value:       def.RepetitionThreshold,
			Destination: &repThreshold,
		},
		&cli.BoolFlag{
			Name:        "ignore-eos",
			Usage:       "reject the eos id and redraw",
			Value:       def.IgnoreEOS,
			Destination: &ignoreEOS,
		},
		&cli.Int64Flag{
			Name:        "max-retries",
			Usage:       "eos rejections allowed before failing",
			Value:       int64(def.MaxRetries),
			Destination: &maxRetries,
		},
		&cli.Int64Flag{
			Name:        "seed",
			Usage:       "sampling RNG seed (default -1 = random)",
			Value:       -1,
			Destination: &samplingSeed,
		},
	}
}

// samplingConfig collects the sampling flags after config file defaults have
// been applied.
func samplingConfig() logits.Config {
	return logits.Config{
		TopP:                topP,
		TopK:                int(topK),
		WindowSize:          int(windowSize),
		RepetitionThreshold: repThreshold,
		IgnoreEOS:           ignoreEOS,
		MaxRetries:          int(maxRetries),
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}
