package errors

import "fmt"

// MissingOptionError reports a dialect option that an encoder requires and
// refuses to default.
type MissingOptionError struct {
	// Format is the target dialect that requires the option.
	Format string

	// Field is the option name, exactly as the dialect spells it.
	Field string

	// Reason optionally explains when the field is required.
	Reason string
}

// NewMissingOption creates a MissingOptionError for the given dialect and field.
func NewMissingOption(format, field string) *MissingOptionError {
	return &MissingOptionError{Format: format, Field: field}
}

func (e *MissingOptionError) Error() string {
	msg := fmt.Sprintf("%s: %s requires option %q", ErrMissingRequiredOption, e.Format, e.Field)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is reports whether target is ErrMissingRequiredOption.
func (e *MissingOptionError) Is(target error) bool {
	return target == ErrMissingRequiredOption
}

// UnsupportedPairError reports a conversion whose source or target format
// has no registered codec.
type UnsupportedPairError struct {
	From string
	To   string

	// Unknown is the side that failed to resolve.
	Unknown string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("%s: %s -> %s (no codec for %q)", ErrUnsupportedDialectPair, e.From, e.To, e.Unknown)
}

// Is reports whether target is ErrUnsupportedDialectPair.
func (e *UnsupportedPairError) Is(target error) bool {
	return target == ErrUnsupportedDialectPair
}

// InvalidOptionError reports a supplied dialect option the encoder rejects.
type InvalidOptionError struct {
	Format string
	Field  string
	Value  string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("%s: %s option %q = %q: %s", ErrInvalidOption, e.Format, e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidOption.
func (e *InvalidOptionError) Is(target error) bool {
	return target == ErrInvalidOption
}
