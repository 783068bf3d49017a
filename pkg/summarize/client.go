// Package summarize generates the narrative case summary and preparation tips
// by calling a Gemini-compatible generateContent API, with ordered model
// fallback when a preferred model is unavailable.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coolbeans/casemind/pkg/types"
)

// HTTPClient is an interface matching the Do method of *http.Client.
// This allows injection of mock clients for testing and custom transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultBaseURL is the default generateContent API endpoint root.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// DefaultUserAgent is the default User-Agent header sent with API requests.
const DefaultUserAgent = "casemind-summarizer/1.0"

// DefaultModels is the preferred model list, tried in order until one answers.
var DefaultModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.0-pro-exp",
	"gemini-2.0-flash",
}

// Config holds configuration for a summarization Client.
type Config struct {
	// APIKey authenticates requests. Required.
	APIKey string

	// BaseURL is the API endpoint root. Default: DefaultBaseURL.
	BaseURL string

	// Models is the ordered fallback list. Default: DefaultModels.
	Models []string

	// Timeout bounds each HTTP request. Default: 60 seconds.
	Timeout time.Duration

	// HTTPClient is the underlying HTTP client used for requests.
	// If nil, an *http.Client with the configured timeout is used.
	HTTPClient HTTPClient

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string
}

// DefaultConfig returns a Config with sensible defaults and the given API key.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		Models:  DefaultModels,
		Timeout: 60 * time.Second,
	}
}

// Client calls the generateContent API for narrative summaries and case tips.
type Client struct {
	httpClient HTTPClient
	apiKey     string
	baseURL    string
	models     []string
	userAgent  string
}

// NewClient creates a Client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("summarize: API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	models := config.Models
	if len(models) == 0 {
		models = DefaultModels
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		httpClient: httpClient,
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		models:     models,
		userAgent:  userAgent,
	}, nil
}

// summaryPrompt instructs the model to produce the structured case narrative.
const summaryPrompt = `You are a legal document summarizer.
Summarize the given legal document in a structured way.
Extract these fields clearly:

1. Case_Name
2. Court_Name
3. Parties (Petitioner / Respondent)
4. Sections_Invoked (list with full references)
5. Facts (concise factual background)
6. Judgment (if available)
7. Final_Order (if available)
8. Date_of_Judgment (if available)

Start with a short markdown summary under a "### Case Summary" heading,
then a fenced JSON block with exactly those keys. The JSON must be valid.`

// Summarize generates the structured narrative summary for the document text.
// Models are tried in configured order; the first successful response wins.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	return c.generate(ctx, summaryPrompt+"\n\n---\n"+text)
}

// GenerateTips asks the model for up to five preparation tips for an ongoing
// case, given the narrative summary and the extracted metadata. The next
// upcoming date, when known, is included in the prompt for stage awareness.
func (c *Client) GenerateTips(ctx context.Context, narrative string, meta *types.CaseMetadata) ([]string, error) {
	var stageInfo string
	if meta != nil && meta.Dates.Upcoming.Count > 0 {
		stageInfo = fmt.Sprintf("The next upcoming date in the case is %s.\n\n", meta.Dates.Upcoming.List[0])
	}

	prompt := fmt.Sprintf(`You are a legal strategy advisor for ongoing court cases.
Based on the following case summary and metadata, suggest 3-5 professional and
practical tips to prepare or strengthen the case.

%sCase Summary:
%s

Tips should be specific, clear, and actionable (e.g., review evidence chain,
witness preparation, digital proof preservation, compliance reminders).
Return one tip per line.`, stageInfo, narrative)

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	tips := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.Trim(line, "•-* \t")
		if line == "" {
			continue
		}
		tips = append(tips, line)
		if len(tips) == 5 {
			break
		}
	}
	return tips, nil
}

// generateContent API request/response shapes (the subset used here).
type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []contentPart `json:"parts"`
}

type contentPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// generate tries each configured model in order and returns the first
// successful response text. Context cancellation aborts the fallback chain.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for _, model := range c.models {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := c.generateWithModel(ctx, model, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("all models failed: %w", lastErr)
}

func (c *Client) generateWithModel(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []contentPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		c.baseURL, url.PathEscape(model), url.QueryEscape(c.apiKey))

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request for model %s: %w", model, err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", c.userAgent)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("request to model %s failed: %w", model, err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		payload, _ := io.ReadAll(io.LimitReader(response.Body, 2048))
		return "", fmt.Errorf("model %s returned HTTP %d: %s",
			model, response.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded generateResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode response from model %s: %w", model, err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model %s returned no candidates", model)
	}

	var parts []string
	for _, part := range decoded.Candidates[0].Content.Parts {
		parts = append(parts, part.Text)
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", fmt.Errorf("model %s returned empty text", model)
	}
	return text, nil
}
