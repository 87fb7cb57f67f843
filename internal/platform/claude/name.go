package claude

import (
	"regexp"

	"github.com/thoreinstein/canon/internal/errors"
	"github.com/thoreinstein/canon/internal/format"
)

// maxNameLength is the maximum allowed length for skill and agent names.
const maxNameLength = 64

// nameRegex validates names: lowercase alphanumeric, single hyphens allowed
// between segments, no start/end hyphen, no consecutive hyphens.
var nameRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateName checks a skill or agent name.
func ValidateName(f format.Format, name string) error {
	reason := ""
	switch {
	case len(name) > maxNameLength:
		reason = "name exceeds maximum length of 64 characters"
	case !nameRegex.MatchString(name):
		reason = "name must be lowercase alphanumeric with single hyphens"
	default:
		return nil
	}
	return &errors.InvalidOptionError{Format: f.String(), Field: "name", Value: name, Reason: reason}
}
