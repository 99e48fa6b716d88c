package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Severity levels returned by the classifier: 0 safe, 2 low, 4 medium, 6 high.
type Severity int

const (
	SeveritySafe   Severity = 0
	SeverityLow    Severity = 2
	SeverityMedium Severity = 4
	SeverityHigh   Severity = 6
)

type Category string

const (
	CategoryHate     Category = "Hate"
	CategorySelfHarm Category = "SelfHarm"
	CategorySexual   Category = "Sexual"
	CategoryViolence Category = "Violence"
)

var allCategories = []Category{CategoryHate, CategorySelfHarm, CategorySexual, CategoryViolence}

const apiVersion = "2023-10-01"

// AuthError reports rejected credentials. It is never retried: the gate
// fails open on it while every other caller treats it as fatal.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("moderation: classifier rejected credentials (status %d)", e.StatusCode)
}

// TransientError reports a temporarily unreachable or overloaded classifier
// and is the only error class the gate retries.
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("moderation: transient classifier failure: %v", e.Err)
	}
	return fmt.Sprintf("moderation: transient classifier failure (status %d)", e.StatusCode)
}

func (e *TransientError) Unwrap() error { return e.Err }

// TokenSource supplies a bearer token for the classifier call. The
// process-wide credential cache satisfies it.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client talks to the content-safety text analysis endpoint. When a
// subscription key is configured it is sent as-is; otherwise each call reads
// a bearer token from the token source.
type Client struct {
	endpoint   string
	key        string
	tokens     TokenSource
	httpClient *http.Client
	log        *slog.Logger
}

func NewClient(endpoint, key string, tokens TokenSource, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		key:        key,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

type analyzeRequest struct {
	Text       string     `json:"text"`
	Categories []Category `json:"categories"`
}

type analyzeResponse struct {
	CategoriesAnalysis []struct {
		Category Category `json:"category"`
		Severity Severity `json:"severity"`
	} `json:"categoriesAnalysis"`
}

// AnalyzeText scores text across all four harm categories.
func (c *Client) AnalyzeText(ctx context.Context, text string) (map[Category]Severity, error) {
	body, err := json.Marshal(analyzeRequest{Text: text, Categories: allCategories})
	if err != nil {
		return nil, fmt.Errorf("moderation: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/contentsafety/text:analyze?api-version=%s", c.endpoint, apiVersion)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("moderation: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if c.key != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
	} else if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, &AuthError{StatusCode: 0}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode == http.StatusRequestTimeout,
		resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= 500:
		return nil, &TransientError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("moderation: classifier returned status %d: %s", resp.StatusCode, data)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("moderation: decode response: %w", err)
	}

	scores := make(map[Category]Severity, len(parsed.CategoriesAnalysis))
	for _, entry := range parsed.CategoriesAnalysis {
		scores[entry.Category] = entry.Severity
	}
	return scores, nil
}
