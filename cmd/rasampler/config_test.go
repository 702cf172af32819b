package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.TopP != nil || cfg.ServerAddress != "" {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "top_p: 0.9\ntop_k: 40\nrepetition_threshold_fraction: 0.3\nignore_eos: false\nmax_retries: 3\nserver_address: 0.0.0.0:9000\nlog_format: json\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TopP == nil || *cfg.TopP != 0.9 {
		t.Fatalf("top_p: got %v", cfg.TopP)
	}
	if cfg.TopK == nil || *cfg.TopK != 40 {
		t.Fatalf("top_k: got %v", cfg.TopK)
	}
	if cfg.RepetitionThreshold == nil || *cfg.RepetitionThreshold != 0.3 {
		t.Fatalf("repetition_threshold_fraction: got %v", cfg.RepetitionThreshold)
	}
	if cfg.IgnoreEOS == nil || *cfg.IgnoreEOS {
		t.Fatalf("ignore_eos: got %v", cfg.IgnoreEOS)
	}
	if cfg.MaxRetries == nil || *cfg.MaxRetries != 3 {
		t.Fatalf("max_retries: got %v", cfg.MaxRetries)
	}
	if cfg.WindowSize != nil {
		t.Fatalf("window_size should be unset, got %v", *cfg.WindowSize)
	}
	if cfg.ServerAddress != "0.0.0.0:9000" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected strings: %+v", cfg)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("top_k: [1, 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
