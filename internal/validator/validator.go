package validator

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError marks a package that cannot be encoded safely.
	SeverityError Severity = iota
	// SeverityWarning marks content a decoder had to keep verbatim or guess at.
	SeverityWarning
	// SeverityInfo is context for the reader, never a failure.
	SeverityInfo
)

var severityNames = [...]string{"error", "warning", "info"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalJSON writes the severity name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON reads a severity name.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for i, n := range severityNames {
		if n == name {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", name)
}

// Issue is one problem found in a package.
type Issue struct {
	Severity Severity `json:"severity"`

	// Field is a path into the package, such as "sections[2].items".
	Field string `json:"field,omitempty"`

	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`

	// Context carries extra key/value detail, such as the source dialect.
	Context map[string]string `json:"context,omitempty"`
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if i.Field != "" {
		fmt.Fprintf(&sb, "field %q: ", i.Field)
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates the issues found in one package.
type Result struct {
	// Subject names what was checked, usually a file path.
	Subject string  `json:"subject,omitempty"`
	Issues  []Issue `json:"issues"`
}

// Add appends an issue and returns it for further decoration.
func (r *Result) Add(sev Severity, field, message string) *Issue {
	r.Issues = append(r.Issues, Issue{Severity: sev, Field: field, Message: message})
	return &r.Issues[len(r.Issues)-1]
}

// Count returns the number of issues with the given severity. A nil result
// has none.
func (r *Result) Count(sev Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// Filter returns the issues with the given severity, or nil.
func (r *Result) Filter(sev Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			res = append(res, i)
		}
	}
	return res
}

// HasErrors reports whether any issue has SeverityError.
func (r *Result) HasErrors() bool { return r.Count(SeverityError) > 0 }

// HasWarnings reports whether any issue has SeverityWarning.
func (r *Result) HasWarnings() bool { return r.Count(SeverityWarning) > 0 }
