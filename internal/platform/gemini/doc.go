// Package gemini converts Gemini CLI custom slash commands, which are TOML
// files with a description and a markdown prompt.
//
// Argument placeholders are translated between Gemini's {{args}} and the
// canonical $ARGUMENTS. Shell injections (!{...}) are kept as prompt text;
// nothing in a decoded command is ever run.
package gemini
