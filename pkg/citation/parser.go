package citation

// Parser extracts citations of one pattern family from normalized text.
// Implementations must be safe for concurrent use.
type Parser interface {
	// Name returns the human-readable parser name.
	Name() string

	// Parse extracts all citations of this family from the given text.
	// The text is expected to be normalized already.
	Parse(text string) []*Citation
}
