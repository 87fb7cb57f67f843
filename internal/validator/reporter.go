package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/canon/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// maxValueWidth bounds how much of an offending value is echoed back.
const maxValueWidth = 50

// Reporter formats and writes validation results.
type Reporter struct {
	out      io.Writer
	format   Format
	showInfo bool
}

// NewReporter creates a new Reporter. Info issues are hidden from text
// output until ShowInfo is called.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// ShowInfo includes info issues in text output.
func (r *Reporter) ShowInfo() *Reporter {
	r.showInfo = true
	return r
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(result), "encoding JSON report")
	}
	return r.reportText(result)
}

type section struct {
	sev     Severity
	heading string
	attr    color.Attribute
}

var textSections = []section{
	{SeverityError, "Errors:", color.FgRed},
	{SeverityWarning, "Warnings:", color.FgYellow},
	{SeverityInfo, "Notes:", color.FgCyan},
}

func (r *Reporter) reportText(result *Result) error {
	prefix := ""
	if result.Subject != "" {
		prefix = result.Subject + ": "
	}

	nErr, nWarn := result.Count(SeverityError), result.Count(SeverityWarning)
	switch {
	case nErr > 0:
		summary := color.RedString("%d error(s)", nErr)
		if nWarn > 0 {
			summary += ", " + color.YellowString("%d warning(s)", nWarn)
		}
		fmt.Fprintf(r.out, "%sValidation failed: %s\n", prefix, summary)
	case nWarn > 0:
		fmt.Fprintf(r.out, "%sValidation passed with warnings: %s\n", prefix, color.YellowString("%d warning(s)", nWarn))
	default:
		fmt.Fprintln(r.out, prefix+color.GreenString("✓ Validation passed"))
	}

	for _, s := range textSections {
		if s.sev == SeverityInfo && !r.showInfo {
			continue
		}
		issues := result.Filter(s.sev)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, s.heading)
		for _, i := range issues {
			fmt.Fprintln(r.out, formatIssue(i, s.attr))
		}
	}
	return nil
}

// formatIssue renders "  • field: message (k=v) [value]".
func formatIssue(i Issue, attr color.Attribute) string {
	dim := color.New(color.FgHiBlack)

	var sb strings.Builder
	sb.WriteString("  • ")
	if i.Field != "" {
		sb.WriteString(color.New(attr).Sprint(i.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		parts := make([]string, 0, len(i.Context))
		for _, k := range slices.Sorted(maps.Keys(i.Context)) {
			parts = append(parts, k+"="+i.Context[k])
		}
		sb.WriteString(" ")
		sb.WriteString(dim.Sprintf("(%s)", strings.Join(parts, ", ")))
	}

	if i.Value != nil {
		val := []rune(fmt.Sprint(i.Value))
		if len(val) > maxValueWidth {
			val = append(val[:maxValueWidth-3], '.', '.', '.')
		}
		sb.WriteString(dim.Sprintf(" [%s]", string(val)))
	}
	return sb.String()
}
