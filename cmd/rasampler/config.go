package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/samcharles93/rasampler/internal/logger"
)

// Config represents the rasampler configuration file
// (~/.config/rasampler/config.yaml). Pointer fields distinguish "not set"
// from zero values.
type Config struct {
	// Sampling defaults
	TopP                *float64 `yaml:"top_p"`
	TopK                *int64   `yaml:"top_k"`
	WindowSize          *int64   `yaml:"window_size"`
	RepetitionThreshold *float64 `yaml:"repetition_threshold_fraction"`
	IgnoreEOS           *bool    `yaml:"ignore_eos"`
	MaxRetries          *int64   `yaml:"max_retries"`
	Seed                *int64   `yaml:"seed"`

	// Output
	OutDir    string `yaml:"out_dir"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

// fileConfig holds the config file loaded by setup.
var fileConfig Config

func configPath() string {
	if configFile != "" {
		return configFile
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rasampler", "config.yaml")
}

// LoadConfig reads the config file. A missing file yields a zero Config.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// setup loads the config file and installs the logger in the context before
// any subcommand runs.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := LoadConfig(configPath())
	if err != nil {
		return ctx, err
	}
	fileConfig = cfg

	if cfg.LogLevel != "" && !cmd.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !cmd.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	log := logger.ForFormat(os.Stderr, logFormat, level)
	return logger.WithContext(ctx, log), nil
}

// applySamplingConfig applies config file defaults to the sampling flags
// when the corresponding CLI flag was not explicitly set.
func applySamplingConfig(c *cli.Command, cfg Config) {
	if cfg.TopP != nil && !c.IsSet("top-p") {
		topP = *cfg.TopP
	}
	if cfg.TopK != nil && !c.IsSet("top-k") {
		topK = *cfg.TopK
	}
	if cfg.WindowSize != nil && !c.IsSet("window") {
		windowSize = *cfg.WindowSize
	}
	if cfg.RepetitionThreshold != nil && !c.IsSet("threshold") {
		repThreshold = *cfg.RepetitionThreshold
	}
	if cfg.IgnoreEOS != nil && !c.IsSet("ignore-eos") {
		ignoreEOS = *cfg.IgnoreEOS
	}
	if cfg.MaxRetries != nil && !c.IsSet("max-retries") {
		maxRetries = *cfg.MaxRetries
	}
	if cfg.Seed != nil && !c.IsSet("seed") {
		samplingSeed = *cfg.Seed
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	applySamplingConfig(c, cfg)
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}
