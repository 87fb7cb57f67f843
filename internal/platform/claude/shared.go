package claude

import (
	"fmt"

	"github.com/thoreinstein/canon/internal/canonical"
	"github.com/thoreinstein/canon/pkg/frontmatter"
)

// WarnNoFrontmatter is reported for a skill or agent without frontmatter.
const WarnNoFrontmatter = "no frontmatter block; name and description must be supplied when encoding"

func claudeConfig(pkg *canonical.Package) *canonical.ClaudeConfig {
	if pkg.Configs.Claude == nil {
		pkg.Configs.Claude = &canonical.ClaudeConfig{}
	}
	return pkg.Configs.Claude
}

// decodeName records the name field.
func decodeName(e frontmatter.Entry, pkg *canonical.Package) {
	name := e.String()
	claudeConfig(pkg).Name = name
	if pkg.Name == "" {
		pkg.Name = name
	}
}

// decodeTools turns a tool list entry into a tools section.
func decodeTools(e frontmatter.Entry, pkg *canonical.Package) bool {
	var tools ToolList
	if err := e.Value.Decode(&tools); err != nil {
		return false
	}
	if len(tools) == 0 {
		return true
	}
	section := &canonical.ToolsSection{Title: "Tools"}
	for _, name := range tools {
		section.Tools = append(section.Tools, canonical.Tool{Name: name})
	}
	pkg.Sections = append(pkg.Sections, section)
	return true
}

// configuredName returns the name carried in the package's claude config.
func configuredName(pkg *canonical.Package) string {
	if pkg.Configs.Claude == nil {
		return ""
	}
	return pkg.Configs.Claude.Name
}

// toolWarnings flags names another dialect produced that Claude will not
// recognize.
func toolWarnings(names []string) []string {
	var out []string
	for _, n := range foreignTools(names) {
		out = append(out, fmt.Sprintf("tool %q is not Claude permission syntax; kept as written", n))
	}
	return out
}

// allowedTools prefers the package's tools sections over its config.
func allowedTools(pkg *canonical.Package, names []string) ToolList {
	if len(names) > 0 {
		return names
	}
	if pkg.Configs.Claude != nil {
		return pkg.Configs.Claude.AllowedTools
	}
	return nil
}
