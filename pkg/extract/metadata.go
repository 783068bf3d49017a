// Package extract composes the date, citation, and timeline extractors into a
// single per-document aggregation pass and derives the case status from the
// combined results.
package extract

import (
	"github.com/coolbeans/casemind/pkg/citation"
	"github.com/coolbeans/casemind/pkg/dates"
	"github.com/coolbeans/casemind/pkg/types"
)

// Aggregator runs every extractor over a document and assembles the combined
// metadata. Safe for concurrent use.
type Aggregator struct {
	dateExtractor   *dates.Extractor
	citations       *citation.Registry
	timelineBuilder *dates.TimelineBuilder
	status          *StatusClassifier
}

// NewAggregator creates an aggregator from the given components. Nil
// components fall back to defaults.
func NewAggregator(
	dateExtractor *dates.Extractor,
	citations *citation.Registry,
	timelineBuilder *dates.TimelineBuilder,
	status *StatusClassifier,
) *Aggregator {
	if dateExtractor == nil {
		dateExtractor = dates.NewExtractor(nil)
	}
	if citations == nil {
		citations = citation.DefaultRegistry()
	}
	if timelineBuilder == nil {
		timelineBuilder = dates.NewTimelineBuilder(dateExtractor, dates.DefaultWindowConfig())
	}
	if status == nil {
		status = NewStatusClassifier(nil)
	}
	return &Aggregator{
		dateExtractor:   dateExtractor,
		citations:       citations,
		timelineBuilder: timelineBuilder,
		status:          status,
	}
}

// DefaultAggregator creates an aggregator with all default components.
func DefaultAggregator() *Aggregator {
	return NewAggregator(nil, nil, nil, nil)
}

// Aggregate extracts dates, citations, and the timeline from the raw document
// text, classified against the reference date. A zero reference date means
// today. The result is fully populated: empty inputs yield empty lists, never
// nil fields.
func (a *Aggregator) Aggregate(rawText string, reference types.Date) *types.CaseMetadata {
	summary := a.dateExtractor.ExtractAndClassify(rawText, reference)
	labels, count := a.citations.ExtractLabels(rawText)
	timeline := a.timelineBuilder.Build(rawText, reference)
	if timeline == nil {
		timeline = []types.TimelineEvent{}
	}

	return &types.CaseMetadata{
		Dates: *summary,
		Citations: types.CitationSummary{
			Count: count,
			List:  labels,
		},
		Timeline: timeline,
	}
}

// Status classifies the case from the raw text and the already-aggregated
// metadata.
func (a *Aggregator) Status(rawText string, meta *types.CaseMetadata) types.CaseStatus {
	upcoming := 0
	if meta != nil {
		upcoming = meta.Dates.Upcoming.Count
	}
	return a.status.Classify(rawText, upcoming)
}

// Report runs the full aggregation and status classification, attaching the
// externally produced narrative. Status rules read the narrative when one is
// supplied; without a narrative the raw document text stands in for it.
// Recommendations are left empty; the summarization layer fills them for
// ongoing cases.
func (a *Aggregator) Report(rawText, narrative string, reference types.Date) *types.DocumentReport {
	meta := a.Aggregate(rawText, reference)

	statusText := narrative
	if statusText == "" {
		statusText = rawText
	}

	return &types.DocumentReport{
		Narrative:  narrative,
		CaseStatus: a.Status(statusText, meta),
		Metadata:   meta,
	}
}
