// Package tips is a client for the savings-tip generator, an external
// service that turns a user's goals and contribution history into advice.
package tips

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTip is shown when no personalized tip is available.
const DefaultTip = "¡Automatiza tu ahorro y olvídate! 🤖"

// Goal is the part of a goal the generator sees.
type Goal struct {
	Name        string  `json:"name"`
	Emoji       string  `json:"emoji"`
	TotalAmount float64 `json:"totalAmount"`
	SavedAmount float64 `json:"savedAmount"`
	Deadline    string  `json:"deadline"` // RFC3339
}

// Contribution is one entry of the contribution history.
type Contribution struct {
	GoalName string  `json:"goalName"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"` // RFC3339
}

// Request is the generator's input.
type Request struct {
	Goals               []Goal         `json:"goals"`
	ContributionHistory []Contribution `json:"contributionHistory"`
}

// Generator produces a tip for a request.
type Generator interface {
	Tip(ctx context.Context, req Request) (string, error)
}

// Client calls the generator over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Client. A nil httpClient gets one with timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Tip asks the generator for one tip. It does not retry.
func (c *Client) Tip(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshaling tip request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/savings-tips", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("requesting tip: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("requesting tip: unexpected status %d", resp.StatusCode)
	}

	var result struct {
		Tip string `json:"tip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding tip response: %w", err)
	}
	return strings.TrimSpace(result.Tip), nil
}
