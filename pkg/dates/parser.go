// Package dates extracts calendar dates from legal-document text, classifies
// them against a reference date, and builds the chronological case timeline.
package dates

import (
	"regexp"
	"strings"
	"time"

	"github.com/coolbeans/casemind/pkg/types"
)

// NumericOrder selects how ambiguous delimited numeric dates such as
// "03/04/2025" resolve. The layout list tries the preferred order first, so
// an input valid under both conventions silently takes the preferred reading.
type NumericOrder string

const (
	// DayFirst reads "03/04/2025" as 3 April 2025.
	DayFirst NumericOrder = "day-first"

	// MonthFirst reads "03/04/2025" as March 4, 2025.
	MonthFirst NumericOrder = "month-first"
)

// textualLayouts are the non-numeric formats, tried before any numeric form:
// full and abbreviated month names in both orders, month-year only, and ISO.
var textualLayouts = []string{
	"2 January 2006",
	"January 2 2006",
	"2 Jan 2006",
	"Jan 2 2006",
	"January 2006",
	"Jan 2006",
	"2006-01-02",
}

// numericLayoutPairs holds (day-first, month-first) layouts per delimiter.
var numericLayoutPairs = [][2]string{
	{"2/1/2006", "1/2/2006"},
	{"2-1-2006", "1-2-2006"},
	{"2.1.2006", "1.2.2006"},
}

var fragmentWhitespacePattern = regexp.MustCompile(`\s+`)

// Parser resolves a single date fragment against an ordered list of layouts.
// The first layout that parses wins; order therefore decides ambiguous
// numeric input. Safe for concurrent use.
type Parser struct {
	layouts []string
}

// NewParser creates a Parser whose numeric layouts follow the given order.
// An empty order defaults to DayFirst.
func NewParser(order NumericOrder) *Parser {
	layouts := make([]string, 0, len(textualLayouts)+2*len(numericLayoutPairs))
	layouts = append(layouts, textualLayouts...)
	for _, pair := range numericLayoutPairs {
		if order == MonthFirst {
			layouts = append(layouts, pair[1], pair[0])
		} else {
			layouts = append(layouts, pair[0], pair[1])
		}
	}
	return &Parser{layouts: layouts}
}

// Parse resolves one date fragment. Commas become spaces, whitespace runs
// collapse, and month-name tokens are folded to title case before the layout
// list is tried in order. Returns false on total parse failure; never errors.
// Numeric layouts carry 4-digit years only, so 2-digit-year fragments fail
// here and are dropped by the extractor.
func (p *Parser) Parse(fragment string) (types.Date, bool) {
	cleaned := strings.ReplaceAll(fragment, ",", " ")
	cleaned = fragmentWhitespacePattern.ReplaceAllString(cleaned, " ")
	cleaned = titleCaseWords(strings.TrimSpace(cleaned))
	if cleaned == "" {
		return types.Date{}, false
	}

	for _, layout := range p.layouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return types.FromTime(parsed), true
		}
	}
	return types.Date{}, false
}

// titleCaseWords uppercases the first letter of each space-separated word and
// lowercases the rest, so month names scanned case-insensitively ("NOVEMBER",
// "nov") match Go's case-sensitive reference layouts. Numeric tokens pass
// through unchanged.
func titleCaseWords(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
