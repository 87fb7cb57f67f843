// Package platform defines the codec contracts every assistant dialect
// implements and the registry the converter resolves them through.
//
// A dialect contributes exactly one [Codec]: a [Decoder] that maps raw
// artifact bytes onto a [canonical.Package] and an [Encoder] that renders a
// package back out. Decoders are total; they never fail and instead keep
// anything they cannot map in a custom section with a warning. Encoders
// declare what they can carry through [Capabilities] and fail only for
// invalid packages or missing required options.
//
// # Registry
//
// [Registry] is keyed by [format.Format]:
//
//	reg := platform.NewRegistry()
//	if err := reg.Register(cursor.New()); err != nil {
//	    return err
//	}
//	codec, ok := reg.Lookup(format.Cursor)
//
// The builtin subpackage returns a registry with every supported dialect.
//
// # Shared helpers
//
// Markdown-bodied dialects share [DecodeMarkdown] and [RenderBody], which
// handle frontmatter splitting, unknown keys and body heuristics the same
// way for every dialect.
//
// # Thread Safety
//
// Codecs hold no mutable state. The registry is safe for concurrent use and
// is read-only once populated.
package platform
