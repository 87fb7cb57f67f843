// Package validator collects and reports problems found in canonical
// packages.
//
// A [Result] holds [Issue] values of three severities. Errors are canonical
// invariant violations that make a package unsafe to encode; warnings are
// the recoverable gaps a decoder reported; info carries context such as
// the detected subtype.
//
//	result := validator.Check(pkg, warnings)
//	result.Subject = "rules/go.mdc"
//	_ = validator.NewReporter(os.Stdout, validator.FormatText).Report(result)
package validator
