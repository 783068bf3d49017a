package citation

import (
	"strings"
	"sync"

	"github.com/coolbeans/casemind/pkg/normalize"
)

// Registry holds an ordered set of citation parsers and runs them against
// document text. Keyword-section parsers run before named-code parsers so
// that labels from explicit section references win first-seen deduplication.
type Registry struct {
	mu      sync.RWMutex
	parsers []Parser
}

// NewRegistry creates a registry with the given parsers, in order.
func NewRegistry(parsers ...Parser) *Registry {
	return &Registry{parsers: parsers}
}

// DefaultRegistry creates a registry with the built-in parsers.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewSectionParser(nil),
		NewNamedCodeParser(),
	)
}

// Register appends a parser to the registry.
func (r *Registry) Register(parser Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, parser)
}

// ParseAll normalizes the text and returns every citation found by every
// registered parser, in parser order.
func (r *Registry) ParseAll(text string) []*Citation {
	normalized := normalize.Normalize(text)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var citations []*Citation
	for _, parser := range r.parsers {
		citations = append(citations, parser.Parse(normalized)...)
	}
	return citations
}

// ExtractLabels normalizes the text, runs all registered parsers, and returns
// the deduplicated citation labels in first-seen order with the count.
// Deduplication is case-insensitive and keeps the first casing encountered.
// The returned slice is never nil.
func (r *Registry) ExtractLabels(text string) ([]string, int) {
	labels := []string{}
	seen := make(map[string]bool)

	for _, citation := range r.ParseAll(text) {
		key := strings.ToLower(citation.Label)
		if seen[key] {
			continue
		}
		seen[key] = true
		labels = append(labels, citation.Label)
	}

	return labels, len(labels)
}
