// Package batch runs the extraction pipeline over many documents concurrently
// with a bounded worker count, progress reporting, and cancellation.
package batch

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/coolbeans/casemind/pkg/extract"
	"github.com/coolbeans/casemind/pkg/types"
)

// DefaultConcurrency is the worker count used when none is configured.
const DefaultConcurrency = 4

// ProgressCallback receives a progress update after each document completes.
type ProgressCallback func(total, completed int, path string)

// Config holds configuration for a batch Processor.
type Config struct {
	// Concurrency is the maximum number of documents processed at once.
	// Default: DefaultConcurrency.
	Concurrency int

	// Reference is the date all documents in the batch are classified
	// against. Zero means today, captured once when the batch starts so
	// every document in the run shares the same reference.
	Reference types.Date
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{Concurrency: DefaultConcurrency}
}

// Result is the outcome of processing one document.
type Result struct {
	Path   string                `json:"path"`
	Report *types.DocumentReport `json:"report,omitempty"`
	Error  string                `json:"error,omitempty"`
}

// Report summarizes a whole batch run.
type Report struct {
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration"`
	Reference   types.Date    `json:"reference"`
	Results     []Result      `json:"results"`
	Processed   int           `json:"processed"`
	Failed      int           `json:"failed"`
}

// Processor runs the extraction aggregator over document files.
type Processor struct {
	aggregator *extract.Aggregator
	config     Config
	progressCb ProgressCallback
	mu         sync.Mutex
}

// NewProcessor creates a batch processor. A nil aggregator uses defaults.
func NewProcessor(aggregator *extract.Aggregator, config Config) *Processor {
	if aggregator == nil {
		aggregator = extract.DefaultAggregator()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	return &Processor{aggregator: aggregator, config: config}
}

// SetProgressCallback sets a callback function to receive progress updates.
func (p *Processor) SetProgressCallback(callback ProgressCallback) {
	p.mu.Lock()
	p.progressCb = callback
	p.mu.Unlock()
}

// ProcessPaths reads and analyzes every file, at most Concurrency at a time.
// The reference date is fixed once for the whole run. Results come back
// sorted by path. Cancelling the context abandons unstarted documents.
func (p *Processor) ProcessPaths(ctx context.Context, paths []string) *Report {
	report := &Report{
		StartedAt: time.Now(),
		Reference: p.config.Reference,
		Results:   []Result{},
	}
	if report.Reference.IsZero() {
		report.Reference = types.Today()
	}

	if len(paths) == 0 {
		report.CompletedAt = time.Now()
		return report
	}

	resultChan := make(chan Result, len(paths))
	semaphore := make(chan struct{}, p.config.Concurrency)
	var wg sync.WaitGroup

	completedCount := 0
	totalCount := len(paths)
	progressMu := sync.Mutex{}

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			select {
			case <-ctx.Done():
				resultChan <- Result{Path: path, Error: ctx.Err().Error()}
			default:
				resultChan <- p.processOne(path, report.Reference)
			}

			progressMu.Lock()
			completedCount++
			p.reportProgress(totalCount, completedCount, path)
			progressMu.Unlock()
		}(path)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	for result := range resultChan {
		if result.Error != "" {
			report.Failed++
		} else {
			report.Processed++
		}
		report.Results = append(report.Results, result)
	}

	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Path < report.Results[j].Path
	})

	report.CompletedAt = time.Now()
	report.Duration = report.CompletedAt.Sub(report.StartedAt)
	return report
}

func (p *Processor) processOne(path string, reference types.Date) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{Path: path, Error: fmt.Sprintf("failed to read document: %v", err)}
	}

	docReport := p.aggregator.Report(string(content), "", reference)
	return Result{Path: path, Report: docReport}
}

func (p *Processor) reportProgress(total, completed int, path string) {
	p.mu.Lock()
	callback := p.progressCb
	p.mu.Unlock()
	if callback != nil {
		callback(total, completed, path)
	}
}
