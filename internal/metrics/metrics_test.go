package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/canon/internal/convert"
	"github.com/thoreinstein/canon/internal/format"
)

func TestObserveConversion(t *testing.T) {
	m := New()

	m.ObserveConversion(convert.Event{From: format.Cursor, To: format.Kiro, State: convert.Done, Score: 75, Lossy: true, Warnings: 1, Duration: time.Millisecond})
	m.ObserveConversion(convert.Event{From: format.Cursor, To: format.Kiro, State: convert.Done, Score: 100, Warnings: 0})
	m.ObserveConversion(convert.Event{From: format.Cursor, To: format.Copilot, State: convert.Failed, FailedIn: convert.Encoding})

	assert.InDelta(t, 2, testutil.ToFloat64(m.conversions.WithLabelValues("cursor", "kiro", "done")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.conversions.WithLabelValues("cursor", "copilot", "failed")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.lossy.WithLabelValues("kiro")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.warnings.WithLabelValues("kiro")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.score))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.ObserveConversion(convert.Event{From: format.Generic, To: format.Cursor, State: convert.Done, Score: 90})

	path := filepath.Join(t.TempDir(), "textfile", "canon.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `canon_conversions_total{from="generic",state="done",to="cursor"} 1`), text)
	assert.Contains(t, text, "# TYPE canon_conversion_quality_score histogram")
}
