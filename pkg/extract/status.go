package extract

import (
	"strings"

	"github.com/coolbeans/casemind/pkg/types"
)

// DefaultClosingKeywords are disposition terms whose presence marks a case as
// closed when no stronger signal applies.
var DefaultClosingKeywords = []string{
	"dismissed", "acquitted", "convicted", "sentenced",
}

// StatusClassifier decides whether a case is ongoing or closed from document
// text and the upcoming-date count. Rules apply in precedence order:
//
//  1. "judgment" together with "delivered", or "final order" together with
//     "issued", closes the case regardless of upcoming dates.
//  2. Any upcoming date keeps the case ongoing.
//  3. A closing keyword closes the case.
//  4. Otherwise the case is ongoing.
type StatusClassifier struct {
	closingKeywords []string
}

// NewStatusClassifier creates a classifier with the given closing keywords.
// An empty list falls back to DefaultClosingKeywords.
func NewStatusClassifier(closingKeywords []string) *StatusClassifier {
	if len(closingKeywords) == 0 {
		closingKeywords = DefaultClosingKeywords
	}
	return &StatusClassifier{closingKeywords: closingKeywords}
}

// Classify returns the case status for the given text and upcoming-date count.
// Matching is case-insensitive substring containment.
func (c *StatusClassifier) Classify(text string, upcomingCount int) types.CaseStatus {
	lower := strings.ToLower(text)

	judgmentDelivered := strings.Contains(lower, "judgment") && strings.Contains(lower, "delivered")
	finalOrderIssued := strings.Contains(lower, "final order") && strings.Contains(lower, "issued")
	if judgmentDelivered || finalOrderIssued {
		return types.StatusClosed
	}

	if upcomingCount > 0 {
		return types.StatusOngoing
	}

	for _, keyword := range c.closingKeywords {
		if strings.Contains(lower, keyword) {
			return types.StatusClosed
		}
	}

	return types.StatusOngoing
}
