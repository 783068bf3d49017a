package citation

import (
	"regexp"
	"strings"
)

// NamedCodeParser extracts named-code references: a capitalized multi-word
// phrase ending in "Code" or "Act" followed immediately by a digit-led
// reference token, e.g. "Franklin Penal Code 312(b)", "Evidence Code 128",
// "Digital Security Act 44". The label is the phrase and token verbatim.
type NamedCodeParser struct {
	codePattern *regexp.Regexp
}

// NewNamedCodeParser creates a named-code parser with compiled patterns.
func NewNamedCodeParser() *NamedCodeParser {
	return &NamedCodeParser{
		// Captures: (1) code/act title, (2) reference token. The token
		// must start with a digit so trailing prose after a bare act
		// name ("Companies Act provisions") is not mistaken for one.
		codePattern: regexp.MustCompile(
			`\b([A-Z][A-Za-z]*(?:\s+[A-Z][A-Za-z]*)*\s+(?:Code|Act))\s+([0-9][0-9A-Za-z()-]*)`),
	}
}

// Name returns the parser name.
func (parser *NamedCodeParser) Name() string {
	return "Named Code Parser"
}

// Parse extracts all named-code references from the text.
func (parser *NamedCodeParser) Parse(text string) []*Citation {
	var citations []*Citation

	for _, matchIndices := range parser.codePattern.FindAllStringSubmatchIndex(text, -1) {
		title := strings.TrimSpace(text[matchIndices[2]:matchIndices[3]])
		refToken := strings.TrimSpace(text[matchIndices[4]:matchIndices[5]])

		citations = append(citations, &Citation{
			RawText:    text[matchIndices[0]:matchIndices[1]],
			Label:      title + " " + refToken,
			Family:     FamilyNamedCode,
			TextOffset: matchIndices[0],
			TextLength: matchIndices[1] - matchIndices[0],
		})
	}

	return citations
}
