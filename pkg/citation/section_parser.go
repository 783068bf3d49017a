package citation

import (
	"regexp"
	"strings"
)

// DefaultRecognizedActs is the built-in statute-name list for the
// keyword-section family. A reference token followed by one of these names
// carries it as a suffix ("Section 138 NI Act").
var DefaultRecognizedActs = []string{
	"IPC", "CrPC", "CPC", "NI Act", "IT Act", "Evidence Act", "PMLA",
	"NDPS", "Arms Act", "PC Act", "POCSO", "Companies Act",
	"Motor Vehicles Act", "Contract Act",
}

// SectionParser extracts keyword-prefixed section references:
//   - "Section 420 IPC", "Sec. 65 IT Act", "u/s 138 NI Act"
//   - token lists: "Sections 420/467 IPC", "Sections 302 and 307"
//   - qualified tokens: "Section 65A", "Section 420(b)"
type SectionParser struct {
	refPattern        *regexp.Regexp
	tokenSplitPattern *regexp.Regexp
	tokenValidPattern *regexp.Regexp
}

// NewSectionParser creates a parser recognizing the given statute names.
// An empty list falls back to DefaultRecognizedActs.
func NewSectionParser(recognizedActs []string) *SectionParser {
	if len(recognizedActs) == 0 {
		recognizedActs = DefaultRecognizedActs
	}

	// Whitespace inside an act name is flexible ("NI Act" also matches
	// "NI  Act" and "NIAct" in sloppy source text).
	actAlternatives := make([]string, 0, len(recognizedActs))
	for _, act := range recognizedActs {
		actAlternatives = append(actAlternatives,
			strings.ReplaceAll(regexp.QuoteMeta(act), ` `, `\s*`))
	}
	actsPattern := `(?:` + strings.Join(actAlternatives, "|") + `)`

	// Captures: (1) reference token list, (2) optional statute name.
	refPattern := regexp.MustCompile(
		`(?i)(?:u/s\s*|(?:under\s+)?sec(?:tions?|\.)?\s*)` +
			`([0-9A-Za-z()/-]+(?:\s*(?:,|and)\s*[0-9A-Za-z()/-]+)*)` +
			`(?:\s*(?:of\s+the\s+)?\s*(` + actsPattern + `))?`)

	return &SectionParser{
		refPattern:        refPattern,
		tokenSplitPattern: regexp.MustCompile(`[/,]|\s*-\s*|\s+and\s+`),
		tokenValidPattern: regexp.MustCompile(`^[0-9]+[A-Za-z()\-]*$`),
	}
}

// Name returns the parser name.
func (parser *SectionParser) Name() string {
	return "Keyword Section Parser"
}

// Parse extracts keyword-prefixed section references. A token list separated
// by slash, comma, hyphen, or "and" expands into one citation per token, each
// labeled "Section <token>" with the statute name appended when present.
// Tokens that are not digit-led alphanumeric references are dropped.
func (parser *SectionParser) Parse(text string) []*Citation {
	var citations []*Citation

	for _, matchIndices := range parser.refPattern.FindAllStringSubmatchIndex(text, -1) {
		rawText := text[matchIndices[0]:matchIndices[1]]
		tokenList := text[matchIndices[2]:matchIndices[3]]

		var actName string
		if matchIndices[4] != -1 {
			actName = strings.TrimSpace(text[matchIndices[4]:matchIndices[5]])
		}

		for _, token := range parser.tokenSplitPattern.Split(tokenList, -1) {
			token = strings.TrimSpace(token)
			if token == "" || !parser.tokenValidPattern.MatchString(token) {
				continue
			}

			label := "Section " + token
			if actName != "" {
				label += " " + actName
			}

			citations = append(citations, &Citation{
				RawText:    rawText,
				Label:      label,
				Family:     FamilyKeywordSection,
				TextOffset: matchIndices[0],
				TextLength: matchIndices[1] - matchIndices[0],
			})
		}
	}

	return citations
}
