package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/logging"
	"github.com/thoreinstein/canon/internal/platform"
	"github.com/thoreinstein/canon/internal/platform/builtin"
	"github.com/thoreinstein/canon/internal/store"
)

const cursorRule = "---\nglobs: \"**/*.go\"\n---\n# Go\n\n## Rules\n\n- Wrap errors\n- Check errors\n\n## Tools\n\n- Read\n"

const agentsFile = "# Repo guide\n\n## Overview\n\nRun make before committing.\n"

func setup(t *testing.T) (*store.Store, *convert.Converter) {
	t.Helper()
	logger := logging.ForTest(t)
	s, err := store.Open(filepath.Join(t.TempDir(), "canon.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	c := convert.New(builtin.New(), convert.WithLogger(logger))
	for _, in := range []struct {
		raw  string
		from format.Format
	}{{cursorRule, format.Cursor}, {agentsFile, format.Generic}} {
		res, err := c.Run(convert.Request{Raw: []byte(in.raw), From: in.from, To: format.Generic})
		require.NoError(t, err)
		_, err = s.Put(context.Background(), res.Package)
		require.NoError(t, err)
	}
	return s, c
}

func TestRunner_Run(t *testing.T) {
	s, c := setup(t)
	reportPath := filepath.Join(t.TempDir(), "report.json")

	report, err := NewRunner(s, c, logging.ForTest(t)).Run(context.Background(), Request{
		To:         format.Kiro,
		Options:    platform.Options{Inclusion: "always"},
		Workers:    4,
		ReportPath: reportPath,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Converted)
	assert.Zero(t, report.Failed)
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Items, 2)

	scores := map[string]int{}
	for _, item := range report.Items {
		scores[item.Name] = item.QualityScore

		res, err := s.Rendering(context.Background(), item.ID, format.Kiro)
		require.NoError(t, err)
		assert.Contains(t, res.Content, "inclusion: always")

		pkg, err := s.Get(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.QualityScore, pkg.Compatibility[format.Kiro])
	}
	assert.Equal(t, 75, scores["go"])

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var onDisk Report
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, report.RunID, onDisk.RunID)
	assert.Len(t, onDisk.Items, 2)
}

func TestRunner_PerPackageFailures(t *testing.T) {
	s, c := setup(t)

	report, err := NewRunner(s, c, logging.ForTest(t)).Run(context.Background(), Request{To: format.Copilot})
	require.NoError(t, err)

	assert.Zero(t, report.Converted)
	assert.Equal(t, 2, report.Failed)
	for _, item := range report.Items {
		assert.Contains(t, item.Error, "applyTo")
	}
}

func TestRunner_Canceled(t *testing.T) {
	s, c := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(s, c, nil).Run(ctx, Request{To: format.Generic, Workers: 1})
	// Listing itself observes the canceled context.
	assert.Error(t, err)
}

func TestRunner_EmptyStore(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "canon.db"), logging.ForTest(t))
	require.NoError(t, err)
	defer s.Close()

	report, err := NewRunner(s, convert.New(builtin.New()), logging.ForTest(t)).Run(context.Background(), Request{To: format.Generic})
	require.NoError(t, err)
	assert.Empty(t, report.Items)
	assert.NotNil(t, report.Items)
}
