package validator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	r := &Result{Subject: "go.mdc"}
	r.Add(SeverityError, "sections[1]", "section is empty").Context = map[string]string{"kind": "rules", "dialect": "cursor"}
	r.Add(SeverityWarning, "description", "missing").Value = strings.Repeat("x", 80)
	r.Add(SeverityInfo, "subtype", "detected rule")
	return r
}

func TestReporter_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "go.mdc: Validation failed")
	assert.Contains(t, out, "1 error(s)")
	assert.Contains(t, out, "1 warning(s)")
	assert.Contains(t, out, "sections[1]: section is empty")
	assert.Contains(t, out, "(dialect=cursor, kind=rules)")
	assert.Contains(t, out, "["+strings.Repeat("x", 47)+"...]")
	assert.NotContains(t, out, "Notes:")
}

func TestReporter_ShowInfo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).ShowInfo().Report(sampleResult()))
	assert.Contains(t, buf.String(), "Notes:")
	assert.Contains(t, buf.String(), "subtype: detected rule")
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatJSON).Report(sampleResult()))

	var decoded Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded.Issues, 3)
	assert.Equal(t, "go.mdc", decoded.Subject)
	assert.Equal(t, SeverityError, decoded.Issues[0].Severity)
	assert.Equal(t, "cursor", decoded.Issues[0].Context["dialect"])
}

func TestReporter_Passed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, FormatText).Report(&Result{}))
	assert.Contains(t, buf.String(), "Validation passed")

	assert.NoError(t, NewReporter(&buf, FormatText).Report(nil))
}
