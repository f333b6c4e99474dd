// Package llm provides the reference model backend: an OpenRouter chat
// completion call that returns a structured Decision. The controller only
// sees a DecideFunc; swapping providers means swapping this package.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/wizard-village/go-decision/internal/observation"
	"github.com/danielpatrickdp/wizard-village/go-decision/internal/vocabulary"
)

// #region wire-types

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// #endregion wire-types

// #region client

const defaultBaseURL = "https://openrouter.ai/api/v1"

const systemPrompt = "You decide one wizard's next action in a village simulation. " +
	"Reply with a single JSON object and nothing else."

// Client calls OpenRouter chat completions and parses decisions out of the
// reply. Model output passes through the vocabulary reverse pass before
// parsing, so synthetic terms come back canonical.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	vocab      *vocabulary.Engine
	log        *zap.Logger
}

// NewClient creates an OpenRouter-backed decision client.
func NewClient(apiKey, model string, vocab *vocabulary.Engine, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		vocab:      vocab,
		log:        log,
	}
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimRight(url, "/")
	return c
}

// #endregion client

// #region decide

// Decide satisfies the controller's DecideFunc signature.
func (c *Client) Decide(ctx context.Context, prompt string, _ *observation.Observation) (observation.Decision, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return observation.Decision{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return observation.Decision{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return observation.Decision{}, fmt.Errorf("chat completion: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return observation.Decision{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return observation.Decision{}, fmt.Errorf("chat completion: status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return observation.Decision{}, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return observation.Decision{}, fmt.Errorf("chat completion: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return observation.Decision{}, fmt.Errorf("chat completion: empty choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	content = c.vocab.Reverse(content)
	d, err := parseDecision(content)
	if err != nil {
		c.log.Warn("unparseable model output",
			zap.String("model", c.model),
			zap.String("content", truncate(content, 200)))
		return observation.Decision{}, err
	}
	return d, nil
}

// parseDecision extracts the decision JSON from model text, tolerating code
// fences and prose around the object.
func parseDecision(content string) (observation.Decision, error) {
	content = stripFences(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return observation.Decision{}, fmt.Errorf("no JSON object in model output")
	}

	var d observation.Decision
	if err := json.Unmarshal([]byte(content[start:end+1]), &d); err != nil {
		return observation.Decision{}, fmt.Errorf("parse decision: %w", err)
	}
	if d.Action == "" {
		return observation.Decision{}, fmt.Errorf("decision missing action")
	}
	return d, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx >= 0 {
			s = s[idx+1:]
		}
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// #endregion decide
