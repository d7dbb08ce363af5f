// Package ai augments the rule-based review with findings from a hosted
// language model. A missing credential or failing endpoint degrades the
// review instead of failing it.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/KuaaMU/codesage/pkg/review"
)

// Anthropic messages API contract.
const (
	DefaultBaseURL = "https://api.anthropic.com/v1"
	DefaultModel   = "claude-3-5-sonnet-20241022"
	DefaultTimeout = 60 * time.Second

	apiVersion   = "2023-06-01"
	maxTokens    = 4096
	maxBodyBytes = 1 << 20
)

// Environment variables consulted for the API key, in priority order.
const (
	EnvAPIKey         = "CODESAGE_API_KEY"
	EnvFallbackAPIKey = "ANTHROPIC_API_KEY"
)

// ErrNoCredentials signals that no API key could be resolved. Callers treat
// it as a degradation, not a failure.
var ErrNoCredentials = errors.New("ai: no api key configured")

// Config controls the AI client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// ResolveAPIKey returns the first configured credential: the explicit config
// value, then CODESAGE_API_KEY, then ANTHROPIC_API_KEY.
func (c Config) ResolveAPIKey() (string, error) {
	if c.APIKey != "" {
		return c.APIKey, nil
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		return key, nil
	}

	if key := os.Getenv(EnvFallbackAPIKey); key != "" {
		return key, nil
	}

	return "", ErrNoCredentials
}

// Client calls the messages endpoint to review source files.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// NewClient builds a client from config, resolving the credential chain.
func NewClient(cfg Config) (*Client, error) {
	key, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, err
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:  key,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Review asks the model to review a source file and parses its findings into
// issues. Network or protocol failures wrap review.ErrAI.
func (c *Client) Review(ctx context.Context, rc *review.Context) ([]review.Issue, error) {
	prompt := buildPrompt(rc)

	body, err := json.Marshal(messageRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", review.ErrAI, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", review.ErrAI, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", review.ErrAI, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", review.ErrAI, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", review.ErrAI, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed messageResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", review.ErrAI, err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return parseFindings(text.String(), rc), nil
}

func buildPrompt(rc *review.Context) string {
	var sb strings.Builder

	sb.WriteString("Review the following ")
	sb.WriteString(rc.Language)
	sb.WriteString(" code for security vulnerabilities and bugs. ")
	sb.WriteString("For each finding, start a line with SECURITY: or BUG: followed by a short description.\n\n")
	sb.WriteString("File: ")
	sb.WriteString(rc.FilePath)
	sb.WriteString("\n\n```\n")
	sb.WriteString(rc.Source)
	sb.WriteString("\n```\n")

	return sb.String()
}

// Finding rule identifiers and confidences.
const (
	RuleAISecurity = "AI_SECURITY001"
	RuleAIBug      = "AI_BUG001"

	securityConfidence = 0.75
	bugConfidence      = 0.7
)

// parseFindings extracts prefixed findings from the model reply. Lines
// without a recognized prefix are ignored.
func parseFindings(reply string, rc *review.Context) []review.Issue {
	issues := make([]review.Issue, 0)

	for _, raw := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(raw)

		switch {
		case strings.HasPrefix(trimmed, "SECURITY:"):
			issues = append(issues, review.Issue{
				ID:          RuleAISecurity,
				Severity:    review.SeverityP1,
				Category:    review.CategorySecurity,
				Location:    wholeFileLocation(rc),
				Message:     strings.TrimSpace(strings.TrimPrefix(trimmed, "SECURITY:")),
				Explanation: "Flagged by AI review as a potential security vulnerability.",
				Confidence:  securityConfidence,
			})
		case strings.HasPrefix(trimmed, "BUG:"):
			issues = append(issues, review.Issue{
				ID:          RuleAIBug,
				Severity:    review.SeverityP2,
				Category:    review.CategoryBug,
				Location:    wholeFileLocation(rc),
				Message:     strings.TrimSpace(strings.TrimPrefix(trimmed, "BUG:")),
				Explanation: "Flagged by AI review as a potential bug.",
				Confidence:  bugConfidence,
			})
		}
	}

	return issues
}

func wholeFileLocation(rc *review.Context) review.Location {
	end := strings.Count(rc.Source, "\n") + 1

	return review.Location{
		FilePath:    rc.FilePath,
		StartLine:   1,
		StartColumn: 1,
		EndLine:     end,
		EndColumn:   1,
	}
}
