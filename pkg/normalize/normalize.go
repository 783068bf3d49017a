// Package normalize canonicalizes raw legal-document text before extraction.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// horizontalWhitespacePattern matches runs of spaces and tabs.
	horizontalWhitespacePattern = regexp.MustCompile(`[ \t]+`)

	// lineBreakPattern matches a line break with any surrounding whitespace.
	lineBreakPattern = regexp.MustCompile(`\s*\n\s*`)

	// dashReplacer maps non-breaking spaces and typographic dash variants
	// (en dash, em dash, figure dash) to their ASCII equivalents.
	dashReplacer = strings.NewReplacer(
		" ", " ", // no-break space
		"–", "-", // en dash
		"—", "-", // em dash
		"‒", "-", // figure dash
	)
)

// Normalize canonicalizes text extracted from a document: non-breaking
// spaces become plain spaces, dash variants become hyphen-minus, runs of
// horizontal whitespace collapse to a single space, whitespace around line
// breaks collapses so each break is a bare "\n", and the result is trimmed.
// Total over all input; empty input returns the empty string. Idempotent.
func Normalize(text string) string {
	clean := dashReplacer.Replace(text)
	clean = horizontalWhitespacePattern.ReplaceAllString(clean, " ")
	clean = lineBreakPattern.ReplaceAllString(clean, "\n")
	return strings.TrimSpace(clean)
}
