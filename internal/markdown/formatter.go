// Package markdown renders the small authoring dialect used across profile
// and post pages into HTML fragments. It is an ordered regular-expression
// pipeline, not a full markdown parser: anything a pass does not match
// passes through as literal text.
package markdown

import (
	"regexp"
	"strings"
)

var (
	boldRe      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	alertRe     = regexp.MustCompile(`==(.+?)==`)
	underlineRe = regexp.MustCompile(`__(.+?)__`)
)

// FormatText applies the inline dialect: **bold**, ==alert==, __underline__,
// then newlines to <br>. Pure and total; empty input yields an empty string.
// Input is not HTML-escaped; callers own that trust decision.
func FormatText(text string) string {
	if text == "" {
		return ""
	}

	formatted := boldRe.ReplaceAllString(text, `<strong class="font-bold">$1</strong>`)
	formatted = alertRe.ReplaceAllString(formatted, `<span class="text-red-500 font-medium">$1</span>`)
	formatted = underlineRe.ReplaceAllString(formatted, `<u>$1</u>`)
	formatted = strings.ReplaceAll(formatted, "\n", "<br>")

	return formatted
}

// formatInline is FormatText without the newline pass, for callers that still
// need line anchors to hold afterwards.
func formatInline(text string) string {
	formatted := boldRe.ReplaceAllString(text, `<strong class="font-bold">$1</strong>`)
	formatted = alertRe.ReplaceAllString(formatted, `<span class="text-red-500 font-medium">$1</span>`)
	formatted = underlineRe.ReplaceAllString(formatted, `<u>$1</u>`)
	return formatted
}
