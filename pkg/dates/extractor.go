package dates

import (
	"regexp"
	"sort"
	"strings"

	"github.com/coolbeans/casemind/pkg/normalize"
	"github.com/coolbeans/casemind/pkg/types"
)

// monthNamesPattern matches full and common abbreviated English month names.
const monthNamesPattern = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)`

var ordinalSuffixPattern = regexp.MustCompile(`(?i)(\d+)(?:st|nd|rd|th)`)

// matchKind tags a raw pattern match with how it must be resolved.
type matchKind int

const (
	matchRange matchKind = iota
	matchSingle
)

// dateMatch is one span of date-shaped text found during the scan.
type dateMatch struct {
	kind matchKind

	// raw is the full matched text (single matches only need this).
	raw string

	// Range components: "February 5-12, 2026" carries month "February",
	// dayStart "5", dayEnd "12", year "2026".
	month    string
	dayStart string
	dayEnd   string
	year     string
}

// Extractor scans normalized text for date-shaped substrings, expands ranges
// to their boundary dates, deduplicates, sorts, and classifies each unique
// date against a reference date. Safe for concurrent use.
type Extractor struct {
	parser *Parser

	// Pattern families in scan precedence order. Earlier families claim
	// their text positions; later families skip overlapping spans.
	rangePattern        *regexp.Regexp // February 5-12, 2026
	dayMonthYearPattern *regexp.Regexp // 15 November 2025
	monthDayYearPattern *regexp.Regexp // November 15, 2025
	monthYearPattern    *regexp.Regexp // March 2026
	isoPattern          *regexp.Regexp // 2025-11-30
	numericPattern      *regexp.Regexp // 30/11/2025, 11-30-25, 30.11.2025
}

// NewExtractor creates an Extractor backed by the given parser. A nil parser
// defaults to day-first numeric resolution.
func NewExtractor(parser *Parser) *Extractor {
	if parser == nil {
		parser = NewParser(DayFirst)
	}
	return &Extractor{
		parser: parser,

		rangePattern:        regexp.MustCompile(`(?i)\b(` + monthNamesPattern + `)\s+(\d{1,2})\s*-\s*(\d{1,2}),\s*(\d{4})\b`),
		dayMonthYearPattern: regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthNamesPattern + `\s+\d{4}\b`),
		monthDayYearPattern: regexp.MustCompile(`(?i)\b` + monthNamesPattern + `\s+\d{1,2}(?:st|nd|rd|th)?,\s*\d{4}\b`),
		monthYearPattern:    regexp.MustCompile(`(?i)\b` + monthNamesPattern + `\s+\d{4}\b`),
		isoPattern:          regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		numericPattern:      regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`),
	}
}

// Extract returns the unique extracted dates in ascending order. The text is
// normalized first; empty or whitespace-only input yields an empty slice.
func (e *Extractor) Extract(text string) []types.Date {
	return e.extractFromNormalized(normalize.Normalize(text))
}

// ExtractAndClassify extracts the unique sorted dates and partitions them
// into past and upcoming against the reference date. A date equal to the
// reference counts as upcoming. A zero reference defaults to today.
func (e *Extractor) ExtractAndClassify(text string, reference types.Date) *types.DateSummary {
	if reference.IsZero() {
		reference = types.Today()
	}

	uniqueDates := e.Extract(text)
	summary := &types.DateSummary{
		AllSorted:   []string{},
		Past:        types.DateBucket{List: []string{}},
		Upcoming:    types.DateBucket{List: []string{}},
		TotalUnique: len(uniqueDates),
	}

	for _, date := range uniqueDates {
		display := date.Display()
		summary.AllSorted = append(summary.AllSorted, display)
		if date.Before(reference) {
			summary.Past.List = append(summary.Past.List, display)
		} else {
			summary.Upcoming.List = append(summary.Upcoming.List, display)
		}
	}
	summary.Past.Count = len(summary.Past.List)
	summary.Upcoming.Count = len(summary.Upcoming.List)

	return summary
}

// extractFromNormalized runs the scan and resolution over already-normalized
// text. Shared with the timeline builder so both see identical results for
// the same input.
func (e *Extractor) extractFromNormalized(clean string) []types.Date {
	seen := make(map[types.Date]bool)
	var uniqueDates []types.Date

	for _, match := range e.scan(clean) {
		for _, date := range e.resolve(match) {
			if !seen[date] {
				seen[date] = true
				uniqueDates = append(uniqueDates, date)
			}
		}
	}

	sort.Slice(uniqueDates, func(i, j int) bool {
		return uniqueDates[i].Before(uniqueDates[j])
	})
	return uniqueDates
}

// scan runs the six pattern families in precedence order, excluding any match
// that overlaps a span already claimed by an earlier family.
func (e *Extractor) scan(clean string) []dateMatch {
	matchedPositions := make(map[int]bool)
	var matches []dateMatch

	for _, matchIndices := range e.rangePattern.FindAllStringSubmatchIndex(clean, -1) {
		if isPositionMatched(matchedPositions, matchIndices[0], matchIndices[1]) {
			continue
		}
		markRange(matchedPositions, matchIndices[0], matchIndices[1])
		matches = append(matches, dateMatch{
			kind:     matchRange,
			raw:      clean[matchIndices[0]:matchIndices[1]],
			month:    clean[matchIndices[2]:matchIndices[3]],
			dayStart: clean[matchIndices[4]:matchIndices[5]],
			dayEnd:   clean[matchIndices[6]:matchIndices[7]],
			year:     clean[matchIndices[8]:matchIndices[9]],
		})
	}

	singlePatterns := []*regexp.Regexp{
		e.dayMonthYearPattern,
		e.monthDayYearPattern,
		e.monthYearPattern,
		e.isoPattern,
		e.numericPattern,
	}
	for _, pattern := range singlePatterns {
		for _, matchIndices := range pattern.FindAllStringIndex(clean, -1) {
			if isPositionMatched(matchedPositions, matchIndices[0], matchIndices[1]) {
				continue
			}
			markRange(matchedPositions, matchIndices[0], matchIndices[1])
			matches = append(matches, dateMatch{
				kind: matchSingle,
				raw:  clean[matchIndices[0]:matchIndices[1]],
			})
		}
	}

	return matches
}

// resolve converts a scan match into zero or more calendar dates. A range
// expands to exactly its two boundary dates; a boundary that fails to parse
// is dropped, leaving a partial expansion. Unparsable single matches are
// dropped silently.
func (e *Extractor) resolve(match dateMatch) []types.Date {
	switch match.kind {
	case matchRange:
		var boundaryDates []types.Date
		if startDate, ok := e.parser.Parse(match.month + " " + match.dayStart + " " + match.year); ok {
			boundaryDates = append(boundaryDates, startDate)
		}
		if endDate, ok := e.parser.Parse(match.month + " " + match.dayEnd + " " + match.year); ok {
			boundaryDates = append(boundaryDates, endDate)
		}
		return boundaryDates

	default:
		fragment := ordinalSuffixPattern.ReplaceAllString(match.raw, "${1}")
		fragment = strings.ReplaceAll(fragment, ",", " ")
		if date, ok := e.parser.Parse(fragment); ok {
			return []types.Date{date}
		}
		return nil
	}
}

// markRange marks all positions in the range as matched.
func markRange(positions map[int]bool, start, end int) {
	for i := start; i < end; i++ {
		positions[i] = true
	}
}

// isPositionMatched checks if any position in the given range is already matched.
func isPositionMatched(positions map[int]bool, start, end int) bool {
	for i := start; i < end; i++ {
		if positions[i] {
			return true
		}
	}
	return false
}
