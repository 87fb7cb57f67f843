// Package frontmatter splits and formats the YAML frontmatter carried by
// markdown dialects.
//
// Frontmatter is delimited by lines containing only "---" at the start and
// end. Splitting never fails: callers that must tolerate malformed input
// inspect [Document.Present] and [Document.Closed] and decide for
// themselves what an unterminated block means.
//
// # Basic Usage
//
//	doc := frontmatter.Split(raw)
//	entries, err := frontmatter.Entries(doc.Header)
//	if err != nil {
//		// keep doc.Header verbatim
//	}
//	for _, e := range entries {
//		switch e.Key {
//		case "description":
//			desc = e.String()
//		case "globs":
//			globs = e.Strings()
//		}
//	}
//
// Entries preserve source order so unknown keys can be written back with
// [Marshal] in the order they were read.
//
// Both Unix (LF) and Windows (CRLF) line endings are handled.
package frontmatter
