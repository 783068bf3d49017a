package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/coolbeans/casemind/pkg/types"
)

// mockHTTPClient returns canned responses per model name, in request order.
type mockHTTPClient struct {
	responses map[string]mockResponse
	requests  []string
}

type mockResponse struct {
	status int
	text   string
	err    error
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	model := modelFromPath(req.URL.Path)
	m.requests = append(m.requests, model)

	response, ok := m.responses[model]
	if !ok {
		response = mockResponse{status: http.StatusNotFound}
	}
	if response.err != nil {
		return nil, response.err
	}

	payload := `{"candidates":[]}`
	if response.text != "" {
		text, _ := json.Marshal(response.text)
		payload = fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%s}]}}]}`, text)
	}

	return &http.Response{
		StatusCode: response.status,
		Body:       io.NopCloser(strings.NewReader(payload)),
	}, nil
}

func modelFromPath(path string) string {
	idx := strings.LastIndex(path, "/models/")
	if idx == -1 {
		return path
	}
	model := path[idx+len("/models/"):]
	if colon := strings.Index(model, ":"); colon != -1 {
		model = model[:colon]
	}
	return model
}

func newTestClient(t *testing.T, mock *mockHTTPClient, models ...string) *Client {
	t.Helper()
	config := DefaultConfig("test-key")
	config.HTTPClient = mock
	if len(models) > 0 {
		config.Models = models
	}
	client, err := NewClient(config)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error for missing API key")
	}
}

func TestSummarize_FirstModelWins(t *testing.T) {
	mock := &mockHTTPClient{responses: map[string]mockResponse{
		"model-a": {status: http.StatusOK, text: "### Case Summary\nA summary."},
	}}
	client := newTestClient(t, mock, "model-a", "model-b")

	got, err := client.Summarize(context.Background(), "document text")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "### Case Summary\nA summary." {
		t.Errorf("summary = %q", got)
	}
	if len(mock.requests) != 1 || mock.requests[0] != "model-a" {
		t.Errorf("requests = %v, want single call to model-a", mock.requests)
	}
}

func TestSummarize_FallsBackToNextModel(t *testing.T) {
	mock := &mockHTTPClient{responses: map[string]mockResponse{
		"model-a": {status: http.StatusTooManyRequests},
		"model-b": {status: http.StatusOK, text: "fallback summary"},
	}}
	client := newTestClient(t, mock, "model-a", "model-b")

	got, err := client.Summarize(context.Background(), "document text")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got != "fallback summary" {
		t.Errorf("summary = %q, want fallback summary", got)
	}
	if len(mock.requests) != 2 {
		t.Errorf("requests = %v, want both models tried", mock.requests)
	}
}

func TestSummarize_AllModelsFail(t *testing.T) {
	mock := &mockHTTPClient{responses: map[string]mockResponse{
		"model-a": {err: fmt.Errorf("connection refused")},
		"model-b": {status: http.StatusServiceUnavailable},
	}}
	client := newTestClient(t, mock, "model-a", "model-b")

	if _, err := client.Summarize(context.Background(), "document text"); err == nil {
		t.Error("expected error when every model fails")
	}
}

func TestSummarize_ContextCancelled(t *testing.T) {
	mock := &mockHTTPClient{responses: map[string]mockResponse{}}
	client := newTestClient(t, mock, "model-a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Summarize(ctx, "document text"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestGenerateTips(t *testing.T) {
	raw := "- Review the evidence chain\n• Prepare witnesses\n\n* Preserve digital proof\nConfirm compliance deadlines\nFile the reply affidavit\nExtra sixth tip"
	mock := &mockHTTPClient{responses: map[string]mockResponse{
		"model-a": {status: http.StatusOK, text: raw},
	}}
	client := newTestClient(t, mock, "model-a")

	meta := &types.CaseMetadata{}
	meta.Dates.Upcoming.Count = 1
	meta.Dates.Upcoming.List = []string{"15 November 2025"}

	tips, err := client.GenerateTips(context.Background(), "### Case Summary", meta)
	if err != nil {
		t.Fatalf("GenerateTips: %v", err)
	}
	if len(tips) != 5 {
		t.Fatalf("got %d tips, want 5 (capped): %v", len(tips), tips)
	}
	if tips[0] != "Review the evidence chain" {
		t.Errorf("tips[0] = %q, bullet not stripped", tips[0])
	}
}

func TestGenerateTips_NilMetadata(t *testing.T) {
	mock := &mockHTTPClient{responses: map[string]mockResponse{
		"model-a": {status: http.StatusOK, text: "Single tip"},
	}}
	client := newTestClient(t, mock, "model-a")

	tips, err := client.GenerateTips(context.Background(), "summary", nil)
	if err != nil {
		t.Fatalf("GenerateTips: %v", err)
	}
	if len(tips) != 1 || tips[0] != "Single tip" {
		t.Errorf("tips = %v", tips)
	}
}
