// Package errors provides error handling conventions for canon.
//
// It re-exports the cockroachdb/errors helpers used across the module so
// callers import a single errors package, and it defines the sentinel
// errors and typed errors that make up the conversion failure taxonomy.
//
// # Conversion Failures
//
// Only two conditions abort a conversion and reach the caller:
//
//   - [MissingOptionError] (matches [ErrMissingRequiredOption]): a target
//     dialect needs a scoping option that has no safe default.
//   - [UnsupportedPairError] (matches [ErrUnsupportedDialectPair]): no codec
//     is registered for the requested source or target format.
//
// Both can be checked with [Is] or extracted with [As]:
//
//	var missing *errors.MissingOptionError
//	if errors.As(err, &missing) {
//	    fmt.Printf("%s requires --%s\n", missing.Format, missing.Field)
//	}
//
// Parse gaps and evaluator failures are never returned as errors; they
// degrade to warnings or to the heuristic score.
//
// # Exit Codes
//
// The CLI maps errors to exit codes through [ExitError]:
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, missing option, etc.)
//   - ExitSystem (2): System-related error (I/O, database, network, etc.)
package errors
