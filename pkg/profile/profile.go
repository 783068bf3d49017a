// Package profile defines YAML-serializable extraction profiles: the tunable
// knobs of the extraction pipeline bundled under a name so different document
// collections (cheque-bounce dockets, US-style filings) can be analyzed with
// matching settings.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/casemind/pkg/citation"
	"github.com/coolbeans/casemind/pkg/dates"
	"github.com/coolbeans/casemind/pkg/extract"
)

// ExtractionProfile holds every configurable setting of the extraction
// pipeline for one document collection.
type ExtractionProfile struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// NumericDateOrder disambiguates purely numeric dates: "day-first"
	// reads 03/04/2025 as 3 April, "month-first" as 4 March.
	NumericDateOrder string `yaml:"numeric_date_order"`

	// RecognizedActs are the statute names attached as suffixes to
	// keyword-section citations. Empty means the built-in list.
	RecognizedActs []string `yaml:"recognized_acts,omitempty"`

	// ContextWindow bounds the timeline event snippet around each date.
	ContextWindow ContextWindow `yaml:"context_window"`

	// ClosingKeywords are disposition terms that mark a case closed.
	// Empty means the built-in list.
	ClosingKeywords []string `yaml:"closing_keywords,omitempty"`
}

// ContextWindow is the YAML shape of the timeline snippet bounds.
type ContextWindow struct {
	Before   int `yaml:"before"`
	After    int `yaml:"after"`
	Fallback int `yaml:"fallback"`
}

// Default returns the built-in extraction profile.
func Default() *ExtractionProfile {
	window := dates.DefaultWindowConfig()
	return &ExtractionProfile{
		Name:             "default",
		Description:      "Built-in settings: day-first numeric dates, standard statute list.",
		NumericDateOrder: string(dates.DayFirst),
		RecognizedActs:   append([]string{}, citation.DefaultRecognizedActs...),
		ContextWindow: ContextWindow{
			Before:   window.Before,
			After:    window.After,
			Fallback: window.Fallback,
		},
		ClosingKeywords: append([]string{}, extract.DefaultClosingKeywords...),
	}
}

// NumericOrder returns the profile's numeric date order as the typed value,
// defaulting to day-first for anything unrecognized.
func (p *ExtractionProfile) NumericOrder() dates.NumericOrder {
	if p.NumericDateOrder == string(dates.MonthFirst) {
		return dates.MonthFirst
	}
	return dates.DayFirst
}

// WindowConfig returns the profile's context window as the typed value.
// Non-positive fields fall back to defaults inside the timeline builder.
func (p *ExtractionProfile) WindowConfig() dates.WindowConfig {
	return dates.WindowConfig{
		Before:   p.ContextWindow.Before,
		After:    p.ContextWindow.After,
		Fallback: p.ContextWindow.Fallback,
	}
}

// Aggregator builds a fully wired extraction aggregator from the profile.
func (p *ExtractionProfile) Aggregator() *extract.Aggregator {
	parser := dates.NewParser(p.NumericOrder())
	dateExtractor := dates.NewExtractor(parser)
	registry := citation.NewRegistry(
		citation.NewSectionParser(p.RecognizedActs),
		citation.NewNamedCodeParser(),
	)
	timeline := dates.NewTimelineBuilder(dateExtractor, p.WindowConfig())
	status := extract.NewStatusClassifier(p.ClosingKeywords)
	return extract.NewAggregator(dateExtractor, registry, timeline, status)
}

// ToYAML serializes the profile to YAML bytes.
func (p *ExtractionProfile) ToYAML() ([]byte, error) {
	return yaml.Marshal(p)
}

// FromYAML deserializes YAML bytes into an ExtractionProfile.
func FromYAML(yamlData []byte) (*ExtractionProfile, error) {
	var p ExtractionProfile
	if err := yaml.Unmarshal(yamlData, &p); err != nil {
		return nil, fmt.Errorf("failed to parse YAML profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile is missing a name")
	}
	return &p, nil
}

// LoadFromFile reads a YAML extraction profile from disk.
func LoadFromFile(filePath string) (*ExtractionProfile, error) {
	yamlData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", filePath, err)
	}
	return FromYAML(yamlData)
}

// SaveToFile writes the profile to a YAML file on disk.
func (p *ExtractionProfile) SaveToFile(filePath string) error {
	yamlData, err := p.ToYAML()
	if err != nil {
		return fmt.Errorf("failed to serialize profile to YAML: %w", err)
	}
	if err := os.WriteFile(filePath, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write profile file %s: %w", filePath, err)
	}
	return nil
}
