package citation

import (
	"testing"
)

func TestNamedCodeParser_Parse(t *testing.T) {
	parser := NewNamedCodeParser()

	tests := []struct {
		name       string
		text       string
		wantLabels []string
	}{
		{
			name:       "penal code with parenthetical",
			text:       "in violation of Franklin Penal Code 312(b) as charged",
			wantLabels: []string{"Franklin Penal Code 312(b)"},
		},
		{
			name:       "evidence code",
			text:       "objection sustained per Evidence Code 128",
			wantLabels: []string{"Evidence Code 128"},
		},
		{
			name:       "act with number",
			text:       "prosecuted under the Digital Security Act 44",
			wantLabels: []string{"Digital Security Act 44"},
		},
		{
			name:       "multiple references",
			text:       "Penal Code 187 and Vehicle Code 23152 both apply",
			wantLabels: []string{"Penal Code 187", "Vehicle Code 23152"},
		},
		{
			name:       "act without trailing number",
			text:       "the Companies Act provisions were considered",
			wantLabels: []string{},
		},
		{
			name:       "lowercase phrase not matched",
			text:       "the penal code 312 reference",
			wantLabels: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			citations := parser.Parse(tt.text)
			if len(citations) != len(tt.wantLabels) {
				t.Fatalf("got %d citations, want %d: %+v", len(citations), len(tt.wantLabels), citations)
			}
			for i, want := range tt.wantLabels {
				if citations[i].Label != want {
					t.Errorf("citation %d label = %q, want %q", i, citations[i].Label, want)
				}
				if citations[i].Family != FamilyNamedCode {
					t.Errorf("citation %d family = %q, want %q", i, citations[i].Family, FamilyNamedCode)
				}
			}
		})
	}
}

func TestNamedCodeParser_Offsets(t *testing.T) {
	parser := NewNamedCodeParser()

	text := "cited Evidence Code 128 here"
	citations := parser.Parse(text)
	if len(citations) != 1 {
		t.Fatalf("got %d citations, want 1", len(citations))
	}
	c := citations[0]
	if got := text[c.TextOffset : c.TextOffset+c.TextLength]; got != c.RawText {
		t.Errorf("offset slice = %q, raw text = %q", got, c.RawText)
	}
}
