package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/canon/internal/format"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "canon"

// artifactLayouts maps each dialect to the project-relative directory its
// artifacts conventionally live in. Empty means the project root.
var artifactLayouts = map[format.Format]string{
	format.Cursor:      ".cursor/rules",
	format.ClaudeSkill: ".claude/skills",
	format.ClaudeAgent: ".claude/agents",
	format.Kiro:        ".kiro/steering",
	format.KiroAgent:   ".kiro/agents",
	format.Copilot:     ".github/instructions",
	format.Gemini:      ".gemini/commands",
	format.Generic:     "",
}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the directory holding canon's config.yaml.
// CANON_CONFIG_DIR overrides the XDG location.
func ConfigDir() string {
	if dir := os.Getenv("CANON_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(ConfigHome(), AppName)
}

// DataDir returns <DataHome>/canon.
func DataDir() string {
	return filepath.Join(DataHome(), AppName)
}

// StorePath returns the default package store location: <DataHome>/canon/canon.db.
func StorePath() string {
	return filepath.Join(DataDir(), "canon.db")
}

// MetricsPath returns the default textfile-collector output for batch runs.
func MetricsPath() string {
	return filepath.Join(DataDir(), "canon.prom")
}

// ArtifactDir returns the project-relative directory for a dialect.
//
// Layouts:
//   - cursor: <projectRoot>/.cursor/rules/
//   - claude-skill: <projectRoot>/.claude/skills/
//   - claude-agent: <projectRoot>/.claude/agents/
//   - kiro: <projectRoot>/.kiro/steering/
//   - kiro-agent: <projectRoot>/.kiro/agents/
//   - copilot: <projectRoot>/.github/instructions/
//   - gemini: <projectRoot>/.gemini/commands/
//   - generic: <projectRoot>/
//
// Returns an empty string for unknown formats or empty projectRoot.
func ArtifactDir(f format.Format, projectRoot string) string {
	if projectRoot == "" {
		return ""
	}
	rel, ok := artifactLayouts[f]
	if !ok {
		return ""
	}
	if rel == "" {
		return projectRoot
	}
	return filepath.Join(projectRoot, filepath.FromSlash(rel))
}

// ArtifactPath returns where an artifact named name is written for a dialect.
// Skills are directories holding SKILL.md; everything else is one file.
func ArtifactPath(f format.Format, projectRoot, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", errors.Wrapf(ErrInvalidPath, "artifact name %q", name)
	}
	dir := ArtifactDir(f, projectRoot)
	if dir == "" {
		return "", errors.Wrapf(ErrInvalidPath, "no layout for %s under %q", f, projectRoot)
	}
	if f == format.ClaudeSkill {
		return filepath.Join(dir, name, "SKILL.md"), nil
	}
	return filepath.Join(dir, name+f.Extension()), nil
}
