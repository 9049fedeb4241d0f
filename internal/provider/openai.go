package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIClient talks to an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *resty.Client
	model  string
	apiKey string
}

// NewOpenAI builds a client for baseURL (empty selects the OpenAI API).
func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		c.SetAuthToken(apiKey)
	}
	return &OpenAIClient{client: c, model: model, apiKey: apiKey}
}

func (c *OpenAIClient) Name() string { return "openai" }

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
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends the prompt as a single user message and returns the first
// choice's content. HTTP status codes map directly onto failure categories;
// transport errors fall back to the message-substring classifier.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", &Error{Category: CategoryMissingCredential, Message: "provider API key is not configured"}
	}

	req := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
	}
	var out chatResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		SetError(&out).
		Post("/chat/completions")
	if err != nil {
		return "", Classify(err)
	}

	if resp.IsError() {
		msg := resp.Status()
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		switch resp.StatusCode() {
		case http.StatusUnauthorized, http.StatusForbidden:
			return "", &Error{Category: CategoryAuthFailed, Message: msg}
		case http.StatusTooManyRequests:
			return "", &Error{Category: CategoryRateLimited, Message: msg}
		default:
			return "", &Error{Category: CategoryUnknown, Message: fmt.Sprintf("status %d: %s", resp.StatusCode(), msg)}
		}
	}

	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

// HealthPing implements health.HealthPinger by listing models.
func (c *OpenAIClient) HealthPing(ctx context.Context) error {
	if c.apiKey == "" {
		return &Error{Category: CategoryMissingCredential, Message: "provider API key is not configured"}
	}
	resp, err := c.client.R().SetContext(ctx).Get("/models")
	if err != nil {
		return Classify(err)
	}
	if resp.IsError() {
		return fmt.Errorf("openai status %d", resp.StatusCode())
	}
	return nil
}
