package export

import (
	"regexp"
	"strings"
)

// normalizeStep is one literalizing rewrite; steps run in order.
type normalizeStep struct {
	pattern *regexp.Regexp
	replace string
}

var normalizeSteps = []normalizeStep{
	{regexp.MustCompile("(?s)```.*?```"), ""},
	{regexp.MustCompile("`([^`]+)`"), "$1"},
	{regexp.MustCompile(`(?m)^#{1,6}[ \t]+`), ""},
	{regexp.MustCompile(`\*\*(.+?)\*\*`), "$1"},
	{regexp.MustCompile(`__(.+?)__`), "$1"},
	{regexp.MustCompile(`\*(.+?)\*`), "$1"},
	{regexp.MustCompile(`\b_([^_\n]+)_\b`), "$1"},
	{regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`), "$1"},
	{regexp.MustCompile(`<[^>]+>`), ""},
	{regexp.MustCompile(`\n{3,}`), "\n\n"},
}

// Normalize strips markdown and HTML markup from guideline prose.
//
// The rewrite pipeline is applied until the text stops changing. Every step
// only ever shortens its input, so the loop terminates, and the result is a
// fixed point: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	current := strings.TrimSpace(text)
	for {
		next := normalizeOnce(current)
		if next == current {
			return next
		}
		current = next
	}
}

func normalizeOnce(text string) string {
	if text == "" {
		return ""
	}
	for _, step := range normalizeSteps {
		text = step.pattern.ReplaceAllString(text, step.replace)
	}
	return strings.TrimSpace(text)
}

var (
	newlineRuns    = regexp.MustCompile(`\n+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// flattenLines folds multi-line text into a single line, marking line breaks
// with " | ".
func flattenLines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = newlineRuns.ReplaceAllString(text, " | ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
