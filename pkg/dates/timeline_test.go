package dates

import (
	"strings"
	"testing"

	"github.com/coolbeans/casemind/pkg/types"
)

func TestBuild_SingleUpcomingEvent(t *testing.T) {
	builder := NewTimelineBuilder(nil, WindowConfig{})
	reference := types.Date{Year: 2025, Month: 1, Day: 1}

	text := "The hearing is scheduled for 15 November 2025 under Section 138 NI Act."
	events := builder.Build(text, reference)

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	event := events[0]
	if event.DisplayDate != "15 November 2025" {
		t.Errorf("DisplayDate = %q, want %q", event.DisplayDate, "15 November 2025")
	}
	if event.Status != types.EventUpcoming {
		t.Errorf("Status = %q, want %q", event.Status, types.EventUpcoming)
	}
	if !strings.Contains(event.Context, "hearing is scheduled") {
		t.Errorf("Context = %q, want it to contain the surrounding sentence", event.Context)
	}
}

func TestBuild_StatusBoundaryInclusive(t *testing.T) {
	builder := NewTimelineBuilder(nil, WindowConfig{})

	events := builder.Build("Order pronounced on 15 November 2025.", types.Date{Year: 2025, Month: 11, Day: 15})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Status != types.EventUpcoming {
		t.Errorf("date equal to reference must be Upcoming, got %q", events[0].Status)
	}
}

func TestBuild_ChronologicalOrder(t *testing.T) {
	builder := NewTimelineBuilder(nil, WindowConfig{})
	reference := types.Date{Year: 2025, Month: 12, Day: 1}

	text := "Judgment reserved on 2026-01-10 after final arguments on 15 November 2025 and evidence during February 5-12, 2026."
	events := builder.Build(text, reference)

	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Errorf("events out of order at %d: %s before %s",
				i, events[i].DisplayDate, events[i-1].DisplayDate)
		}
	}
	if events[0].Status != types.EventCompleted {
		t.Errorf("15 November 2025 should be Completed, got %q", events[0].Status)
	}
	for _, event := range events[1:] {
		if event.Status != types.EventUpcoming {
			t.Errorf("%s should be Upcoming, got %q", event.DisplayDate, event.Status)
		}
	}
}

func TestBuild_AgreesWithClassification(t *testing.T) {
	extractor := NewExtractor(nil)
	builder := NewTimelineBuilder(extractor, WindowConfig{})
	reference := types.Date{Year: 2025, Month: 6, Day: 1}

	text := "Arrested on 10 January 2025. Next hearing 15 November 2025. Review in March 2026."
	summary := extractor.ExtractAndClassify(text, reference)
	events := builder.Build(text, reference)

	if len(events) != summary.TotalUnique {
		t.Fatalf("timeline has %d events, classification found %d dates", len(events), summary.TotalUnique)
	}

	upcoming := make(map[string]bool)
	for _, display := range summary.Upcoming.List {
		upcoming[display] = true
	}
	for _, event := range events {
		wantUpcoming := upcoming[event.DisplayDate]
		gotUpcoming := event.Status == types.EventUpcoming
		if wantUpcoming != gotUpcoming {
			t.Errorf("status disagreement for %s: timeline upcoming=%v, classification upcoming=%v",
				event.DisplayDate, gotUpcoming, wantUpcoming)
		}
	}
}

func TestBuild_ShortTextClampedToBounds(t *testing.T) {
	builder := NewTimelineBuilder(nil, WindowConfig{})
	reference := types.Date{Year: 2025, Month: 1, Day: 1}

	text := "Due 2025-03-04."
	events := builder.Build(text, reference)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Context != "Due 2025-03-04." {
		t.Errorf("Context = %q, want full short text", events[0].Context)
	}
}

func TestBuild_ContextWindowBounds(t *testing.T) {
	window := WindowConfig{Before: 10, After: 12, Fallback: 20}
	builder := NewTimelineBuilder(nil, window)
	reference := types.Date{Year: 2025, Month: 1, Day: 1}

	prefix := strings.Repeat("a", 50)
	text := prefix + " on 15 November 2025 the matter was heard with a long trailing clause"
	events := builder.Build(text, reference)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	// Window is 10 before + 12 after the first "2025" occurrence.
	if len(events[0].Context) > 22 {
		t.Errorf("Context length = %d, want <= 22 (%q)", len(events[0].Context), events[0].Context)
	}
}

func TestBuild_EmptyText(t *testing.T) {
	builder := NewTimelineBuilder(nil, WindowConfig{})
	events := builder.Build("", types.Date{Year: 2025, Month: 1, Day: 1})
	if len(events) != 0 {
		t.Errorf("got %d events for empty text, want 0", len(events))
	}
}
