package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/config"
	"github.com/thoreinstein/canon/internal/logging"
)

const cursorRule = `---
description: Go error handling
globs: "**/*.go"
---
# Go errors

## Rules

- Wrap errors with context
- Never ignore returned errors

## Tools

- Read: read source files
`

// testCmd returns a command whose context carries a test logger.
func testCmd(t *testing.T) *cobra.Command {
	t.Helper()
	c := &cobra.Command{}
	c.SetContext(logging.NewContext(context.Background(), logging.ForTest(t)))
	return c
}

// useTestConfig installs a deterministic config with the store under a
// temp dir, restoring globals afterwards.
func useTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Version: 1,
		Store:   config.StoreConfig{Path: filepath.Join(dir, "canon.db")},
		Batch:   config.BatchConfig{Workers: 2, MetricsPath: filepath.Join(dir, "canon.prom")},
		Evaluator: config.EvaluatorConfig{
			Provider:         config.ProviderHeuristic,
			Timeout:          time.Second,
			MinContentLength: 200,
		},
	}
	origCfg, origStore, origQuiet := loadedConfig, storePath, quiet
	loadedConfig, storePath, quiet = cfg, "", false
	t.Cleanup(func() { loadedConfig, storePath, quiet = origCfg, origStore, origQuiet })
	return cfg
}

// writeFile writes content under dir, creating parents.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
