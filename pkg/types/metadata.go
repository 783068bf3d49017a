package types

// DateBucket holds one side of the past/upcoming partition.
type DateBucket struct {
	Count int      `json:"count"`
	List  []string `json:"list"`
}

// DateSummary is the result of extracting and classifying every date in a
// document against a reference date. The past and upcoming buckets partition
// AllSorted: a date equal to the reference date counts as upcoming.
type DateSummary struct {
	AllSorted   []string   `json:"all_unique_sorted"`
	Past        DateBucket `json:"past"`
	Upcoming    DateBucket `json:"upcoming"`
	TotalUnique int        `json:"total_unique"`
}

// CitationSummary holds the deduplicated statutory/code references found in a
// document, in first-seen order.
type CitationSummary struct {
	Count int      `json:"count"`
	List  []string `json:"list"`
}

// EventStatus classifies a timeline event relative to the reference date.
type EventStatus string

const (
	EventCompleted EventStatus = "Completed"
	EventUpcoming  EventStatus = "Upcoming"
)

// TimelineEvent is one entry in the chronological case timeline. Created once
// per unique extracted date and immutable thereafter.
type TimelineEvent struct {
	// Date is the resolved calendar date backing the event.
	Date Date `json:"-"`

	// DisplayDate is the date formatted as "DD Month YYYY".
	DisplayDate string `json:"date"`

	// Context is a bounded snippet of normalized text around the date's
	// likely source location, for human review.
	Context string `json:"event_context"`

	Status EventStatus `json:"status"`
}

// CaseMetadata aggregates everything extracted from one document. Owned by
// the call that produced it; never mutated after return.
type CaseMetadata struct {
	Dates     DateSummary     `json:"dates"`
	Citations CitationSummary `json:"sections"`
	Timeline  []TimelineEvent `json:"timeline"`
}

// CaseStatus labels a case as still in motion or concluded.
type CaseStatus string

const (
	StatusOngoing CaseStatus = "Ongoing"
	StatusClosed  CaseStatus = "Closed"
)

// DocumentReport is the full per-document output shape consumed by
// presentation and storage layers: the externally supplied narrative, the
// derived case status, the extracted metadata, and optional recommendations
// produced only for ongoing cases.
type DocumentReport struct {
	Narrative       string        `json:"summary_markdown"`
	CaseStatus      CaseStatus    `json:"case_status"`
	Metadata        *CaseMetadata `json:"metadata"`
	Recommendations []string      `json:"recommendations,omitempty"`
}
