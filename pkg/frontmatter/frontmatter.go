// Package frontmatter provides utilities for splitting, reading and
// formatting YAML frontmatter in markdown files.
package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/canon/internal/errors"
)

// ErrNotMapping is returned by Entries when the header is valid YAML but not
// a key/value mapping.
var ErrNotMapping = errors.New("frontmatter is not a mapping")

// Document is a markdown file split at its frontmatter delimiters.
type Document struct {
	// Header holds the raw YAML between the delimiters.
	Header []byte

	// Body is everything after the closing delimiter, or the whole input
	// when no complete frontmatter block is present.
	Body []byte

	// Present reports an opening "---" line.
	Present bool

	// Closed reports a matching closing "---" line.
	Closed bool
}

// Split separates frontmatter from body. It never fails: a missing opening
// delimiter yields Present=false, and a missing closing delimiter yields
// Present=true, Closed=false with the entire input as Body.
// Both LF and CRLF line endings are accepted.
func Split(content []byte) Document {
	var start int
	switch {
	case bytes.HasPrefix(content, []byte("---\n")):
		start = 4
	case bytes.HasPrefix(content, []byte("---\r\n")):
		start = 5
	default:
		return Document{Body: content}
	}

	rest := content[start:]
	// An empty header closes immediately.
	if bytes.HasPrefix(rest, []byte("---")) && isDelimiterEnd(rest[3:]) {
		return Document{Body: trimDelimiterEnd(rest[3:]), Present: true, Closed: true}
	}

	// "\n---" also matches the tail of "\r\n---".
	sep := []byte("\n---")
	idx := 0
	for {
		i := bytes.Index(rest[idx:], sep)
		if i < 0 {
			break
		}
		pos := idx + i
		after := rest[pos+len(sep):]
		if isDelimiterEnd(after) {
			return Document{
				Header:  rest[:pos+1],
				Body:    trimDelimiterEnd(after),
				Present: true,
				Closed:  true,
			}
		}
		idx = pos + len(sep)
	}

	return Document{Body: content, Present: true}
}

func isDelimiterEnd(b []byte) bool {
	return len(b) == 0 || b[0] == '\n' || bytes.HasPrefix(b, []byte("\r\n"))
}

func trimDelimiterEnd(b []byte) []byte {
	if bytes.HasPrefix(b, []byte("\r\n")) {
		return b[2:]
	}
	if len(b) > 0 && b[0] == '\n' {
		return b[1:]
	}
	return b
}

// Entry is one top-level key of a frontmatter mapping, in source order.
type Entry struct {
	Key   string
	Value *yaml.Node
}

// Entries parses header into its top-level keys in source order.
// An empty header yields no entries and no error.
func Entries(header []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(header)) == 0 {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(header, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing frontmatter")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	m := doc.Content[0]
	if m.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	out := make([]Entry, 0, len(m.Content)/2)
	for i := 0; i+1 < len(m.Content); i += 2 {
		out = append(out, Entry{Key: m.Content[i].Value, Value: m.Content[i+1]})
	}
	return out, nil
}

// String returns a scalar value, or "" for non-scalars.
func (e Entry) String() string {
	if e.Value == nil || e.Value.Kind != yaml.ScalarNode {
		return ""
	}
	return e.Value.Value
}

// Bool returns a boolean scalar and whether the value was a boolean.
func (e Entry) Bool() (bool, bool) {
	var b bool
	if e.Value == nil || e.Value.Kind != yaml.ScalarNode {
		return false, false
	}
	if err := e.Value.Decode(&b); err != nil {
		return false, false
	}
	return b, true
}

// Strings returns a sequence of scalars, or a scalar split on commas.
func (e Entry) Strings() []string {
	if e.Value == nil {
		return nil
	}
	switch e.Value.Kind {
	case yaml.SequenceNode:
		out := make([]string, 0, len(e.Value.Content))
		for _, n := range e.Value.Content {
			if n.Kind == yaml.ScalarNode && strings.TrimSpace(n.Value) != "" {
				out = append(out, strings.TrimSpace(n.Value))
			}
		}
		return out
	case yaml.ScalarNode:
		var out []string
		for _, p := range strings.Split(e.Value.Value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// Marshal renders entries back to YAML in the given order.
func Marshal(entries []Entry) ([]byte, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	m := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.Key}, e.Value)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}
	return buf.Bytes(), nil
}

// Keys returns the top-level keys matter encodes to, in order. Fields left
// out by omitempty are not listed.
func Keys(matter any) ([]string, error) {
	var n yaml.Node
	if err := n.Encode(matter); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}
	if n.Kind != yaml.MappingNode {
		return nil, nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys, nil
}

// Format formats content with YAML frontmatter.
// The matter struct is serialized to YAML and wrapped in "---" delimiters,
// followed by extra (already-rendered YAML appended verbatim) and the body.
func Format(matter any, extra []byte, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(matter); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encoding frontmatter")
	}
	if bytes.Equal(buf.Bytes(), []byte("---\n{}\n")) {
		buf.Truncate(4)
	}

	if len(extra) > 0 {
		buf.Write(extra)
		if extra[len(extra)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}

	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			buf.WriteString("\n")
		}
	}

	return buf.Bytes(), nil
}
