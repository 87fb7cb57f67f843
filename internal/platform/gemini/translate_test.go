package gemini

import (
	"strings"
	"testing"

	"github.com/thoreinstein/canon/internal/errors"
)

func TestTranslateVariables(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Arguments",
			input: "Review $ARGUMENTS carefully",
			want:  "Review {{args}} carefully",
		},
		{
			name:  "Repeated",
			input: "$ARGUMENTS then $ARGUMENTS",
			want:  "{{args}} then {{args}}",
		},
		{
			name:  "Unsupported left alone",
			input: "Process $SELECTION now",
			want:  "Process $SELECTION now",
		},
		{
			name:  "No variables",
			input: "Just plain text",
			want:  "Just plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateVariables(tt.input)
			if got != tt.want {
				t.Errorf("TranslateVariables(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTranslateToCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Args",
			input: "Run command with {{args}}",
			want:  "Run command with $ARGUMENTS",
		},
		{
			name:  "Argument (older spelling)",
			input: "Run command with {{argument}}",
			want:  "Run command with $ARGUMENTS",
		},
		{
			name:  "No variables",
			input: "Just plain text",
			want:  "Just plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TranslateToCanonical(tt.input)
			if got != tt.want {
				t.Errorf("TranslateToCanonical(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateVariables(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantMsg string
	}{
		{name: "supported", input: "Use $ARGUMENTS"},
		{name: "none", input: "plain"},
		{name: "unsupported", input: "Use $SELECTION and $FILE_PATH and $SELECTION", wantErr: true, wantMsg: "$SELECTION, $FILE_PATH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariables(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateVariables() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrUnsupportedVariable) {
				t.Errorf("error %v is not ErrUnsupportedVariable", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestListVariables(t *testing.T) {
	got := ListVariables("$ARGUMENTS, $SELECTION, $ARGUMENTS")
	if len(got) != 2 || got[0] != "$ARGUMENTS" || got[1] != "$SELECTION" {
		t.Errorf("ListVariables() = %v", got)
	}
	if got := ListVariables("none"); got == nil || len(got) != 0 {
		t.Errorf("ListVariables(none) = %#v, want empty slice", got)
	}
}

func TestHasShellInjection(t *testing.T) {
	if !HasShellInjection("Diff: !{git diff --staged}") {
		t.Error("expected shell injection")
	}
	if HasShellInjection("Use {{args}} and @{README.md}") {
		t.Error("file injection is not shell injection")
	}
}
