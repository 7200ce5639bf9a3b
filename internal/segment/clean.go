// Package segment turns raw, possibly Markdown, text into display tokens.
package segment

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

type rewriteRule struct {
	name    string
	pattern *regexp.Regexp
	repl    string
}

// cleanRules run in order; each rule sees the output of the previous one.
var cleanRules = []rewriteRule{
	{"fenced code", regexp.MustCompile("(?s)```.*?```"), " "},
	{"headings", regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`), ""},
	{"images", regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`), ""},
	{"links", regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`), "$1"},
	{"inline code", regexp.MustCompile("`([^`]*)`"), "$1"},
	{"bold", regexp.MustCompile(`\*\*(.+?)\*\*`), "$1"},
	{"bold underscore", regexp.MustCompile(`__(.+?)__`), "$1"},
	{"italic", regexp.MustCompile(`\*([^*\n]+)\*`), "$1"},
	{"italic underscore", regexp.MustCompile(`\b_([^_\n]+)_\b`), "$1"},
	{"strikethrough", regexp.MustCompile(`~~(.+?)~~`), "$1"},
	{"blockquotes", regexp.MustCompile(`(?m)^[ \t]*(?:>[ \t]?)+`), ""},
	{"list markers", regexp.MustCompile(`(?m)^(?:[ \t]*(?:[-*+]|\d+[.)])[ \t]+)+`), ""},
	{"horizontal rules", regexp.MustCompile(`(?m)^[ \t]*(?:[-*_][ \t]*){3,}$`), ""},
	{"table separators", regexp.MustCompile(`(?m)^[ \t]*\|?(?:[ \t]*:?-+:?[ \t]*\|)+[ \t]*(?::?-+:?)?[ \t]*$`), ""},
	{"table pipes", regexp.MustCompile(`[ \t]*\|[ \t]*`), " "},
	{"html tags", regexp.MustCompile(`<[^>]*>`), ""},
	{"symbols", regexp.MustCompile("[#*_~`<>\\[\\]{}\\\\^]"), ""},
	{"blank lines", regexp.MustCompile(`\n\s*\n`), "\n"},
	{"whitespace", regexp.MustCompile(`\s+`), " "},
}

// maxCleanPasses bounds the rerun of cleanRules. Stripping symbols can expose
// a new list marker or rule at the start of the text, so the chain repeats
// until the output stops changing.
const maxCleanPasses = 8

// CleanText strips Markdown syntax and collapses whitespace. It never fails;
// malformed Markdown is stripped on a best-effort basis.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	text := norm.NFC.String(raw)
	for pass := 0; pass < maxCleanPasses; pass++ {
		next := cleanOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func cleanOnce(text string) string {
	for _, rule := range cleanRules {
		text = rule.pattern.ReplaceAllString(text, rule.repl)
	}
	return strings.TrimSpace(text)
}
