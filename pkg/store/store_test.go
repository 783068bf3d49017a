package store

import (
	"path/filepath"
	"testing"

	"github.com/coolbeans/casemind/pkg/extract"
	"github.com/coolbeans/casemind/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "casemind.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(t *testing.T, text string, reference types.Date) *types.DocumentReport {
	t.Helper()
	return extract.DefaultAggregator().Report(text, "### Case Summary", reference)
}

func TestSaveAndGetLatest(t *testing.T) {
	s := newTestStore(t)
	reference := types.Date{Year: 2025, Month: 6, Day: 1}
	report := sampleReport(t, "Hearing on 15 November 2025 under Section 138 NI Act.", reference)

	id, err := s.SaveReport("docs/complaint.txt", report, reference)
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero row ID")
	}

	record, err := s.GetLatest("docs/complaint.txt")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if record.CaseStatus != types.StatusOngoing {
		t.Errorf("CaseStatus = %q, want %q", record.CaseStatus, types.StatusOngoing)
	}
	if record.Reference != reference {
		t.Errorf("Reference = %+v, want %+v", record.Reference, reference)
	}
	if record.Metadata == nil || record.Metadata.Citations.Count != 1 {
		t.Errorf("Metadata = %+v, want one citation", record.Metadata)
	}
	if record.CreatedAt.IsZero() {
		t.Error("CreatedAt not populated")
	}
}

func TestGetLatest_ReturnsNewest(t *testing.T) {
	s := newTestStore(t)
	reference := types.Date{Year: 2025, Month: 1, Day: 1}

	ongoing := sampleReport(t, "Next hearing 15 November 2025.", reference)
	closed := sampleReport(t, "The judgment was delivered.", reference)

	if _, err := s.SaveReport("case.txt", ongoing, reference); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if _, err := s.SaveReport("case.txt", closed, reference); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	record, err := s.GetLatest("case.txt")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if record.CaseStatus != types.StatusClosed {
		t.Errorf("CaseStatus = %q, want the second, closed analysis", record.CaseStatus)
	}
}

func TestGetLatest_Missing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetLatest("never-analyzed.txt"); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestListRecent(t *testing.T) {
	s := newTestStore(t)
	reference := types.Date{Year: 2025, Month: 1, Day: 1}

	for _, path := range []string{"a.txt", "b.txt", "c.txt"} {
		report := sampleReport(t, "text", reference)
		if _, err := s.SaveReport(path, report, reference); err != nil {
			t.Fatalf("SaveReport(%s): %v", path, err)
		}
	}

	records, err := s.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Path != "c.txt" || records[1].Path != "b.txt" {
		t.Errorf("order = [%s, %s], want newest first", records[0].Path, records[1].Path)
	}
}

func TestCountByStatus(t *testing.T) {
	s := newTestStore(t)
	reference := types.Date{Year: 2025, Month: 1, Day: 1}

	ongoing := sampleReport(t, "Next hearing 15 November 2025.", reference)
	closed := sampleReport(t, "The appeal was dismissed.", reference)

	s.SaveReport("a.txt", ongoing, reference)
	s.SaveReport("b.txt", closed, reference)
	s.SaveReport("c.txt", closed, reference)

	counts, err := s.CountByStatus()
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[types.StatusOngoing] != 1 || counts[types.StatusClosed] != 2 {
		t.Errorf("counts = %v, want 1 ongoing and 2 closed", counts)
	}
}
