package dates

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coolbeans/casemind/pkg/normalize"
	"github.com/coolbeans/casemind/pkg/types"
)

// WindowConfig bounds the context snippet recovered around a date's likely
// source location.
type WindowConfig struct {
	// Before and After are the character counts taken around the first
	// occurrence of the event's year in the normalized text.
	Before int
	After  int

	// Fallback is the window taken from the start of the text when the
	// year cannot be located.
	Fallback int
}

// DefaultWindowConfig returns the standard snippet bounds.
func DefaultWindowConfig() WindowConfig {
	return WindowConfig{Before: 120, After: 160, Fallback: 200}
}

var (
	yearPattern              = regexp.MustCompile(`\b\d{4}\b`)
	snippetWhitespacePattern = regexp.MustCompile(`\s+`)
)

// TimelineBuilder produces the chronologically ordered case timeline. It
// reuses the extractor's unique sorted date list so event counts always agree
// with the date-classification summary for the same input.
type TimelineBuilder struct {
	extractor *Extractor
	window    WindowConfig
}

// NewTimelineBuilder creates a builder over the given extractor. Non-positive
// window fields fall back to their defaults; a nil extractor gets a default
// day-first extractor.
func NewTimelineBuilder(extractor *Extractor, window WindowConfig) *TimelineBuilder {
	if extractor == nil {
		extractor = NewExtractor(nil)
	}
	defaults := DefaultWindowConfig()
	if window.Before <= 0 {
		window.Before = defaults.Before
	}
	if window.After <= 0 {
		window.After = defaults.After
	}
	if window.Fallback <= 0 {
		window.Fallback = defaults.Fallback
	}
	return &TimelineBuilder{extractor: extractor, window: window}
}

// Build extracts the unique dates from text and attaches a context snippet
// and a Completed/Upcoming status to each (a date equal to the reference is
// Upcoming, matching ExtractAndClassify). Events come back ascending by date;
// a zero reference defaults to today.
//
// Snippet recovery is a heuristic: it anchors on the first occurrence of the
// event's 4-digit year, so a repeated year elsewhere in the text can claim
// the window.
func (b *TimelineBuilder) Build(text string, reference types.Date) []types.TimelineEvent {
	if reference.IsZero() {
		reference = types.Today()
	}

	clean := normalize.Normalize(text)
	uniqueDates := b.extractor.extractFromNormalized(clean)

	// First occurrence of each 4-digit year, computed in one pass.
	firstYearOffset := make(map[string]int)
	for _, loc := range yearPattern.FindAllStringIndex(clean, -1) {
		year := clean[loc[0]:loc[1]]
		if _, ok := firstYearOffset[year]; !ok {
			firstYearOffset[year] = loc[0]
		}
	}

	events := make([]types.TimelineEvent, 0, len(uniqueDates))
	for _, date := range uniqueDates {
		start, end := b.windowBounds(clean, firstYearOffset, date)
		context := snippetWhitespacePattern.ReplaceAllString(clean[start:end], " ")

		status := types.EventCompleted
		if date.AfterOrEqual(reference) {
			status = types.EventUpcoming
		}

		events = append(events, types.TimelineEvent{
			Date:        date,
			DisplayDate: date.Display(),
			Context:     strings.TrimSpace(context),
			Status:      status,
		})
	}

	// uniqueDates is already ascending and deduplicated, so the event list
	// is chronological without a further sort.
	return events
}

// windowBounds clamps the context window around the first occurrence of the
// event's year, or falls back to a fixed window at the start of the text.
func (b *TimelineBuilder) windowBounds(clean string, firstYearOffset map[string]int, date types.Date) (int, int) {
	year := fmt.Sprintf("%04d", date.Year)
	offset, found := firstYearOffset[year]
	if !found {
		return 0, min(len(clean), b.window.Fallback)
	}
	return max(0, offset-b.window.Before), min(len(clean), offset+b.window.After)
}
