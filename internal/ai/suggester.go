// Package ai provides task field suggestions through a narrow adapter
// contract. The rest of the system depends only on the Suggester interface;
// any failure or malformed response is reported as an error and the caller
// proceeds as if no suggestion existed.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Suggestion is the adapter output for a new task.
type Suggestion struct {
	Priority   string
	Category   string
	DueDate    *time.Time
	Confidence float64
}

// Suggester produces field suggestions from a task title and description.
type Suggester interface {
	Suggest(ctx context.Context, title, description string) (*Suggestion, error)
}

const defaultConfidence = 0.8

// OpenAIClient calls an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

// Ensure OpenAIClient implements Suggester
var _ Suggester = (*OpenAIClient)(nil)

// NewOpenAIClient creates a suggestion client. The timeout bounds every
// Suggest call; expiry is indistinguishable from any other failure.
func NewOpenAIClient(baseURL, apiKey string, timeout time.Duration) *OpenAIClient {
	return &OpenAIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      "gpt-4o-mini",
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type suggestionPayload struct {
	Priority   string   `json:"priority"`
	Category   string   `json:"category"`
	DueInDays  float64  `json:"dueInDays"`
	Confidence *float64 `json:"confidence"`
}

// Suggest asks the model for priority, category, and due date suggestions.
func (c *OpenAIClient) Suggest(ctx context.Context, title, description string) (*Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(
		"Analyze this task and provide suggestions for priority level (LOW, MEDIUM, HIGH, URGENT), "+
			"category (WORK, PERSONAL, SHOPPING, HEALTH, EDUCATION, OTHER), and estimated due date "+
			"(in days from now). Format response as JSON with keys priority, category, dueInDays, confidence.\n"+
			"Task title: %s\nTask description: %s",
		title, description,
	)

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   150,
		Temperature: 0.5,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call suggestion api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion api status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("empty response")
	}

	var payload suggestionPayload
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("malformed suggestion: %w", err)
	}

	suggestion := &Suggestion{
		Priority:   payload.Priority,
		Category:   payload.Category,
		Confidence: defaultConfidence,
	}
	if payload.Confidence != nil {
		suggestion.Confidence = *payload.Confidence
	}
	if payload.DueInDays > 0 {
		due := time.Now().Add(time.Duration(payload.DueInDays*24) * time.Hour)
		suggestion.DueDate = &due
	}

	return suggestion, nil
}
