package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}, func(string) {}); err == nil {
		t.Error("expected error for missing directory")
	}
	if _, err := New(Config{Dir: t.TempDir()}, nil); err == nil {
		t.Error("expected error for missing handler")
	}
}

func TestIsWatchedFile(t *testing.T) {
	w, err := New(Config{Dir: t.TempDir()}, func(string) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"complaint.txt", true},
		{"notes.TXT", true},
		{"summary.md", true},
		{"petition.text", true},
		{"scan.pdf", false},
		{"casemind.db", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := w.isWatchedFile(tt.path); got != tt.want {
			t.Errorf("isWatchedFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsWatchedFile_CustomExtensions(t *testing.T) {
	w, err := New(Config{Dir: t.TempDir(), Extensions: []string{".doc"}}, func(string) {})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !w.isWatchedFile("filing.doc") {
		t.Error("custom extension not handled")
	}
	if w.isWatchedFile("filing.txt") {
		t.Error("default extension should be replaced, not extended")
	}
}

func TestWatcher_HandlesNewDocument(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 1)

	w, err := New(Config{Dir: dir, Debounce: 50 * time.Millisecond}, func(path string) {
		handled <- path
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "new-case.txt")
	if err := os.WriteFile(path, []byte("Hearing on 15 November 2025."), 0644); err != nil {
		t.Fatalf("writing document: %v", err)
	}

	select {
	case got := <-handled:
		if got != path {
			t.Errorf("handled %q, want %q", got, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called for new document")
	}
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 1)

	w, err := New(Config{Dir: dir, Debounce: 50 * time.Millisecond}, func(path string) {
		handled <- path
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "scan.pdf"), []byte("binary"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case path := <-handled:
		t.Errorf("handler called for %q, want no call", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesRepeatedWrites(t *testing.T) {
	dir := t.TempDir()
	handled := make(chan string, 8)

	w, err := New(Config{Dir: dir, Debounce: 200 * time.Millisecond}, func(path string) {
		handled <- path
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "growing.txt")
	for i := 0; i < 4; i++ {
		if err := os.WriteFile(path, []byte("chunk"), 0644); err != nil {
			t.Fatalf("writing document: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("handler not called after writes settled")
	}

	select {
	case path := <-handled:
		t.Errorf("handler called again for %q, want writes coalesced", path)
	case <-time.After(400 * time.Millisecond):
	}
}
