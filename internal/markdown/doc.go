// Package markdown maps markdown document bodies onto canonical sections
// and renders them back.
//
// Parsing is a line scanner over ATX headings, fenced code, lists, raw HTML
// and paragraphs. Headings are section boundaries and are classified by
// keyword: rules, guidelines, conventions and best practices become rules;
// examples, tools, persona/role and context/background map to their
// sections; instructions and overview are explicit instructions. Any other
// heading is treated as instructions titled with the heading text.
//
// A heading whose content lacks the structure its kind needs (a rules
// heading without a list, an examples heading without code) falls back to
// instructions so decoded packages always validate.
//
// Raw HTML has no canonical home and is kept verbatim in a custom section.
package markdown
