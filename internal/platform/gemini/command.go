package gemini

import (
	"bytes"
	"maps"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/markdown"
	"github.com/thoreinstein/canon/internal/platform"
)

// WarnShellInjection is reported when a decoded prompt runs shell commands.
const WarnShellInjection = "prompt contains shell injection (!{...}); it is kept as text and never run"

// Command is the TOML shape of a slash command.
type Command struct {
	Description string `toml:"description,omitempty"`
	Prompt      string `toml:"prompt,multiline"`
}

// Codec converts slash commands.
type Codec struct{}

// New returns the gemini codec.
func New() *Codec {
	return &Codec{}
}

func (*Codec) Format() format.Format { return format.Gemini }

func (*Codec) Capabilities() platform.Capabilities {
	return platform.MarkdownCapabilities()
}

// Decode maps a command file. Invalid TOML is kept verbatim; keys other
// than description and prompt are kept in a custom section.
func (*Codec) Decode(raw []byte, hints platform.Hints) (*canonical.Package, []string) {
	pkg := platform.NewPackage(format.Gemini, canonical.SubtypeSlashCommand, hints)
	meta := pkg.EnsureMetadata()

	var doc map[string]any
	if err := toml.Unmarshal(raw, &doc); err != nil {
		content := string(raw)
		pkg.Sections = append(pkg.Sections, &canonical.CustomSection{
			Dialect: format.Gemini,
			Content: content,
			Slot:    canonical.SlotBody,
		})
		platform.FinishPackage(pkg)
		return pkg, []string{canonical.GapWarning(utf8.RuneCountInString(content))}
	}

	var warnings []string
	prompt := ""
	unknown := maps.Clone(doc)
	if v, ok := doc["description"].(string); ok {
		meta.Description = v
		delete(unknown, "description")
	}
	if v, ok := doc["prompt"].(string); ok {
		prompt = v
		delete(unknown, "prompt")
	}

	if len(unknown) > 0 {
		if data, err := toml.Marshal(unknown); err == nil {
			pkg.Sections = append(pkg.Sections, &canonical.CustomSection{
				Dialect: format.Gemini,
				Title:   "command fields",
				Content: string(data),
				Slot:    canonical.SlotFrontmatter,
			})
			warnings = append(warnings, canonical.GapWarning(utf8.RuneCountInString(string(data))))
		}
	}

	if HasShellInjection(prompt) {
		warnings = append(warnings, WarnShellInjection)
	}
	body := markdown.Parse(TranslateToCanonical(prompt), format.Gemini)
	meta.Title = body.Title
	pkg.Sections = append(pkg.Sections, body.Sections...)
	warnings = append(warnings, body.Warnings...)

	platform.FinishPackage(pkg)
	return pkg, warnings
}

// Encode renders a command file. Canonical variables Gemini cannot expand
// are reported and left as written.
func (c *Codec) Encode(pkg *canonical.Package, _ platform.Options) (*platform.Rendering, error) {
	meta, err := platform.CheckEncodable(pkg)
	if err != nil {
		return nil, err
	}

	body := platform.RenderBody(pkg, format.Gemini, c.Capabilities())
	var warnings []string
	if err := ValidateVariables(body); err != nil {
		warnings = append(warnings, err.Error())
	}

	data, err := toml.Marshal(Command{
		Description: meta.Description,
		Prompt:      TranslateVariables(body),
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding command")
	}

	if extra := platform.RestoredFrontmatter(pkg, format.Gemini); len(extra) > 0 {
		var check map[string]any
		if err := toml.Unmarshal(extra, &check); err != nil {
			return nil, errors.Wrap(err, "restoring command fields")
		}
		delete(check, "description")
		delete(check, "prompt")
		if len(check) > 0 {
			more, err := toml.Marshal(check)
			if err != nil {
				return nil, errors.Wrap(err, "restoring command fields")
			}
			data = append(bytes.TrimRight(data, "\n"), '\n', '\n')
			data = append(data, more...)
		}
	}

	return &platform.Rendering{Format: format.Gemini, Content: string(data), Warnings: warnings}, nil
}
