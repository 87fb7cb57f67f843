package platform

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/thoreinstein/canon/internal/format"
	"github.com/thoreinstein/canon/internal/paths"
)

// ArtifactStatus indicates whether a project holds artifacts of a dialect.
type ArtifactStatus string

const (
	// StatusPresent indicates at least one artifact was found.
	StatusPresent ArtifactStatus = "present"

	// StatusAbsent indicates the dialect's directory is missing or empty.
	StatusAbsent ArtifactStatus = "absent"
)

// DetectionResult lists the artifacts of one dialect under a project root.
type DetectionResult struct {
	Format format.Format

	// Dir is where the dialect keeps its artifacts. It is always set for
	// valid formats, even if the directory does not exist.
	Dir string

	// Artifacts are file paths in lexical order.
	Artifacts []string

	Status ArtifactStatus
}

// DetectFormat scans root for artifacts of f. Returns nil for unknown
// formats or an empty root.
func DetectFormat(f format.Format, root string) *DetectionResult {
	dir := paths.ArtifactDir(f, root)
	if dir == "" {
		return nil
	}

	result := &DetectionResult{Format: f, Dir: dir, Status: StatusAbsent}
	if !dirExists(dir) {
		return result
	}

	if f == format.ClaudeSkill {
		matches, _ := filepath.Glob(filepath.Join(dir, "*", "SKILL.md"))
		result.Artifacts = matches
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return result
		}
		for _, e := range entries {
			if e.IsDir() || !matchesFormat(f, e.Name()) {
				continue
			}
			result.Artifacts = append(result.Artifacts, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(result.Artifacts)
	if len(result.Artifacts) > 0 {
		result.Status = StatusPresent
	}
	return result
}

// matchesFormat reports whether a file name in a dialect directory is one
// of its artifacts.
func matchesFormat(f format.Format, name string) bool {
	if f == format.Generic {
		// The project root also holds copilot's repository-wide file and
		// READMEs; only agent instruction files count.
		switch strings.ToUpper(name) {
		case "AGENTS.MD", "CLAUDE.MD", "GEMINI.MD":
			return true
		}
		return false
	}
	return strings.HasSuffix(name, f.Extension())
}

// DetectAll returns detection results for every format in declaration
// order.
func DetectAll(root string) []*DetectionResult {
	all := format.All()
	results := make([]*DetectionResult, 0, len(all))
	for _, f := range all {
		if r := DetectFormat(f, root); r != nil {
			results = append(results, r)
		}
	}
	return results
}

// DetectPresent returns only the formats with artifacts under root.
func DetectPresent(root string) []*DetectionResult {
	all := DetectAll(root)
	present := make([]*DetectionResult, 0, len(all))
	for _, r := range all {
		if r.Status == StatusPresent {
			present = append(present, r)
		}
	}
	return present
}

// dirExists returns true if the path exists and is a directory.
func dirExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
