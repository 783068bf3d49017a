// Package citation extracts statutory and code references from legal-document
// text across two pattern families: keyword-prefixed section references
// ("Section 420 IPC", "u/s 138 NI Act") and named-code references
// ("Franklin Penal Code 312(b)", "Evidence Code 128").
package citation

// Family classifies which pattern family produced a citation.
type Family string

const (
	// FamilyKeywordSection covers references introduced by "section",
	// "sec.", "u/s", or "under section".
	FamilyKeywordSection Family = "keyword-section"

	// FamilyNamedCode covers capitalized phrases ending in "Code" or "Act"
	// followed by a reference token.
	FamilyNamedCode Family = "named-code"
)

// Citation is one statutory or code reference found in the source text.
type Citation struct {
	// RawText is the matched text as found in the source.
	RawText string `json:"raw_text"`

	// Label is the normalized form, e.g. "Section 420 IPC".
	Label string `json:"label"`

	Family Family `json:"family"`

	// Position in the normalized source text.
	TextOffset int `json:"text_offset"`
	TextLength int `json:"text_length"`
}
