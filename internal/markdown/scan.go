package markdown

import (
	"regexp"
	"strings"
)

// headerPattern matches ATX headings. Trailing closing hashes are dropped.
var headerPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)

// fencePattern matches an opening or closing fence with 0-3 spaces of
// indentation and captures the fence run and the info string.
var fencePattern = regexp.MustCompile("^[ ]{0,3}(`{3,}|~{3,})[ \t]*([^`]*)$")

// itemPattern matches a bullet or ordered list marker.
var itemPattern = regexp.MustCompile(`^([ ]{0,3})([-*+]|\d{1,9}[.)])([ \t]+(.*))?$`)

// htmlPattern matches the start of a raw HTML block.
var htmlPattern = regexp.MustCompile(`^[ ]{0,3}<(?:[A-Za-z][A-Za-z0-9-]*[\s/>]|[A-Za-z][A-Za-z0-9-]*$|/[A-Za-z]|!--)`)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockList
	blockCode
	blockHTML
)

type block struct {
	kind blockKind
	raw  string

	// heading
	level int
	text  string

	// code
	lang string
	code string

	// list
	ordered bool
	items   []listItem
}

type listItem struct {
	// lines holds the item text with the marker removed and continuation
	// lines dedented to the item's content column.
	lines []string
}

// scan splits a markdown body into top-level blocks.
func scan(body string) []block {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")

	var blocks []block
	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "":
			i++
		case fencePattern.MatchString(line):
			b, next := scanFence(lines, i)
			blocks = append(blocks, b)
			i = next
		case headerPattern.MatchString(line):
			m := headerPattern.FindStringSubmatch(line)
			blocks = append(blocks, block{kind: blockHeading, raw: line, level: len(m[1]), text: strings.TrimSpace(m[2])})
			i++
		case htmlPattern.MatchString(line):
			start := i
			for i < len(lines) && strings.TrimSpace(lines[i]) != "" {
				i++
			}
			blocks = append(blocks, block{kind: blockHTML, raw: strings.Join(lines[start:i], "\n")})
		case isItem(line):
			b, next := scanList(lines, i)
			blocks = append(blocks, b)
			i = next
		default:
			start := i
			i++
			for i < len(lines) && !startsBlock(lines[i]) {
				i++
			}
			raw := strings.Join(lines[start:i], "\n")
			blocks = append(blocks, block{kind: blockParagraph, raw: raw, text: strings.TrimSpace(raw)})
		}
	}
	return blocks
}

func isItem(line string) bool {
	m := itemPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	// "---" and "***" are thematic breaks, not items.
	return m[3] != "" || strings.TrimSpace(line) == m[2]
}

func startsBlock(line string) bool {
	return strings.TrimSpace(line) == "" ||
		fencePattern.MatchString(line) ||
		headerPattern.MatchString(line) ||
		htmlPattern.MatchString(line) ||
		isItem(line)
}

// scanFence reads a fenced code block starting at lines[i]. An unterminated
// fence runs to the end of input.
func scanFence(lines []string, i int) (block, int) {
	m := fencePattern.FindStringSubmatch(lines[i])
	fence := m[1]
	lang := strings.Fields(m[2] + " ")
	b := block{kind: blockCode}
	if len(lang) > 0 {
		b.lang = lang[0]
	}

	indent := len(lines[i]) - len(strings.TrimLeft(lines[i], " "))
	start := i
	i++
	var code []string
	closed := false
	for ; i < len(lines); i++ {
		if isClosingFence(lines[i], fence) {
			i++
			closed = true
			break
		}
		code = append(code, trimIndent(lines[i], indent))
	}
	if !closed {
		for len(code) > 0 && strings.TrimSpace(code[len(code)-1]) == "" {
			code = code[:len(code)-1]
		}
	}
	b.code = strings.Join(code, "\n")
	b.raw = strings.Join(lines[start:min(i, len(lines))], "\n")
	return b, i
}

func isClosingFence(line, open string) bool {
	m := fencePattern.FindStringSubmatch(line)
	if m == nil || strings.TrimSpace(m[2]) != "" {
		return false
	}
	return m[1][0] == open[0] && len(m[1]) >= len(open)
}

func trimIndent(line string, n int) string {
	for n > 0 && strings.HasPrefix(line, " ") {
		line = line[1:]
		n--
	}
	return line
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

// scanList reads consecutive items of one list. Continuation lines must be
// indented past the marker's column, except for lazy paragraph lines that
// directly follow item text.
func scanList(lines []string, i int) (block, int) {
	b := block{kind: blockList}
	start := i
	baseIndent := -1
	var cur *listItem
	var contentCol int
	inFence := ""
	prevBlank := false

	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if inFence != "" {
			if isClosingFence(trimIndent(line, contentCol), inFence) {
				inFence = ""
			}
			cur.lines = append(cur.lines, trimIndent(line, contentCol))
			i++
			continue
		}

		if trimmed == "" {
			// The list continues only if the next non-blank line belongs to it.
			j := i + 1
			for j < len(lines) && strings.TrimSpace(lines[j]) == "" {
				j++
			}
			if j >= len(lines) {
				break
			}
			if !(indentOf(lines[j]) >= contentCol || (isItem(lines[j]) && indentOf(lines[j]) <= baseIndent+1)) {
				break
			}
			cur.lines = append(cur.lines, "")
			prevBlank = true
			i++
			continue
		}

		if m := itemPattern.FindStringSubmatch(line); m != nil && isItem(line) && (baseIndent < 0 || len(m[1]) <= baseIndent+1) {
			if baseIndent < 0 {
				baseIndent = len(m[1])
				b.ordered = m[2][0] >= '0' && m[2][0] <= '9'
			}
			b.items = append(b.items, listItem{lines: []string{m[4]}})
			cur = &b.items[len(b.items)-1]
			contentCol = len(m[1]) + len(m[2]) + 1
			prevBlank = false
			i++
			continue
		}

		if indentOf(line) >= contentCol || indentOf(line) > baseIndent+1 {
			dedented := trimIndent(line, contentCol)
			if m := fencePattern.FindStringSubmatch(dedented); m != nil {
				inFence = m[1]
			}
			cur.lines = append(cur.lines, dedented)
			prevBlank = false
			i++
			continue
		}

		// Lazy continuation of the item's paragraph.
		if !prevBlank && !startsBlock(line) {
			cur.lines = append(cur.lines, trimmed)
			i++
			continue
		}
		break
	}

	// Drop trailing blank continuation lines.
	for k := range b.items {
		it := &b.items[k]
		for len(it.lines) > 1 && strings.TrimSpace(it.lines[len(it.lines)-1]) == "" {
			it.lines = it.lines[:len(it.lines)-1]
		}
	}
	end := i
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	b.raw = strings.Join(lines[start:end], "\n")
	return b, i
}
