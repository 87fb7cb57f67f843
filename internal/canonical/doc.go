// Package canonical defines the dialect-independent document model every
// conversion passes through.
//
// A [Package] is an envelope (identity, provenance, per-dialect
// configuration) around an ordered list of [Section] values. Section is a
// closed sum type: only the eight section structs in this package implement
// it, and code that must handle every variant does so through
// [SectionVisitor], so adding a variant breaks every visitor at compile time.
//
// Packages are plain values. Nothing in them refers to a database row,
// request, or cache entry, and a package is owned by the call that built it.
// Use [Package.Clone] before handing one to code that may modify it.
package canonical
