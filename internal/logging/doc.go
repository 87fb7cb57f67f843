// Package logging provides structured logging for canon using slog.
//
// The package supports both text and JSON output formats, configurable log
// levels, a logger carried on context.Context, and helpers for testing.
// All loggers are based on the standard library's [log/slog] package.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("converted", "from", "cursor", "to", "kiro")
//
// # Context
//
// Commands attach their logger to the context so library code can log
// without a global:
//
//	ctx = logging.NewContext(ctx, logger)
//	logging.FromContext(ctx).Debug("decoding")
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging
