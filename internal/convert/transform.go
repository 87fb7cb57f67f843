package convert

import (
	"fmt"
	"slices"

	"github.com/thoreinstein/canon/internal/assess"
	"github.com/thoreinstein/canon/internal/canonical"
)

// Transform applies section filters to pkg in place and returns a warning
// for everything removed. Kinds in drop are removed, except metadata; that
// removal was asked for and is not reported as a loss. Executable tool
// definitions and executable custom sections are always removed, since no
// dialect may run a tool body that came from another file, and are
// returned for assessment.
func Transform(pkg *canonical.Package, drop []canonical.Kind) ([]string, assess.Removed) {
	var warnings []string
	var removed assess.Removed
	dropped := make(map[canonical.Kind]int)

	kept := pkg.Sections[:0]
	for _, s := range pkg.Sections {
		if s.Kind() != canonical.KindMetadata && slices.Contains(drop, s.Kind()) {
			dropped[s.Kind()]++
			continue
		}

		switch s := s.(type) {
		case *canonical.ToolsSection:
			var safe []canonical.Tool
			for _, t := range s.Tools {
				if t.Executable() {
					warnings = append(warnings, fmt.Sprintf("removed executable tool %q: tool definitions are not carried between dialects", t.Name))
					continue
				}
				safe = append(safe, t)
			}
			if len(safe) < len(s.Tools) {
				removed.Tools = append(removed.Tools, assess.RemovedTools{Title: s.Title, Partial: len(safe) > 0})
			}
			if len(safe) == 0 {
				continue
			}
			s.Tools = safe
		case *canonical.CustomSection:
			if s.Executable {
				warnings = append(warnings, fmt.Sprintf("removed executable %s content%s: tool definitions are not carried between dialects",
					s.Dialect, titleSuffix(s.Title)))
				removed.Custom = append(removed.Custom, s)
				continue
			}
		}
		kept = append(kept, s)
	}
	pkg.Sections = kept

	for _, k := range canonical.Kinds() {
		if n := dropped[k]; n > 0 {
			warnings = append(warnings, fmt.Sprintf("dropped %d %s section(s) as requested", n, k))
		}
	}
	return warnings, removed
}

func titleSuffix(title string) string {
	if title == "" {
		return ""
	}
	return fmt.Sprintf(" %q", title)
}
