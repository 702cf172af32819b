package main

import (
	"os"
	"path/filepath"
	"strings"
)

const envOutDir = "RASAMPLER_OUT_DIR"

// resolveOutPath picks where a generated file goes. An explicit flag wins;
// otherwise the file lands in $RASAMPLER_OUT_DIR, the configured out_dir or
// ./out, in that order. The parent directory is created.
func resolveOutPath(outFlag, cfgDir, name string) (string, error) {
	outFlag = strings.TrimSpace(outFlag)
	if outFlag != "" {
		outPath := filepath.Clean(outFlag)
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			return "", err
		}
		return outPath, nil
	}

	outDir := strings.TrimSpace(os.Getenv(envOutDir))
	if outDir == "" {
		outDir = strings.TrimSpace(cfgDir)
	}
	if outDir == "" {
		outDir = filepath.Join(".", "out")
	}

	outPath := filepath.Join(outDir, name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	return outPath, nil
}
