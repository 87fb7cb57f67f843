// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
)

// Sentinel errors for format selection.
var (
	ErrNoFormats          = errors.New("no formats to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector handles interactive format selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
}

// NewSelector creates a new Selector using stdin and stdout.
func NewSelector() *Selector {
	return &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// SelectFormat prompts the user to choose one of formats with a numbered list.
//
// Returns:
//   - ErrNoFormats if the list is empty
//   - The format if only one exists (auto-selects without prompting)
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D)
func (s *Selector) SelectFormat(label string, formats []format.Format) (format.Format, error) {
	if len(formats) == 0 {
		return "", ErrNoFormats
	}
	if len(formats) == 1 {
		return formats[0], nil
	}

	fmt.Fprintf(s.writer, "Select %s format:\n", label)
	for i, f := range formats {
		fmt.Fprintf(s.writer, "  [%d] %s (%s)\n", i+1, f, f.DisplayName())
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return formats[0], nil
	}

	// Accept a format name as well as its number.
	if f, err := format.Parse(input); err == nil {
		for _, candidate := range formats {
			if candidate == f {
				return f, nil
			}
		}
		return "", errors.Wrapf(ErrInvalidSelection, "%s is not offered", f)
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(formats) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(formats))
	}

	return formats[selection-1], nil
}

// FindFormat opens a fuzzy finder over formats on the terminal. Aborting the
// finder returns ErrSelectionCancelled.
func FindFormat(label string, formats []format.Format) (format.Format, error) {
	if len(formats) == 0 {
		return "", ErrNoFormats
	}

	idx, err := fuzzyfinder.Find(
		formats,
		func(i int) string { return formats[i].String() },
		fuzzyfinder.WithPromptString(label+"> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 {
				return ""
			}
			return formatPreview(formats[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "fuzzy finder")
	}
	return formats[idx], nil
}

func formatPreview(f format.Format) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", f.DisplayName())
	fmt.Fprintf(&b, "Extension: %s\n", f.Extension())
	switch {
	case f.Markdown():
		b.WriteString("Layout:    markdown with YAML frontmatter\n")
	case f == format.Gemini:
		b.WriteString("Layout:    TOML document\n")
	default:
		b.WriteString("Layout:    JSON document\n")
	}
	return b.String()
}
