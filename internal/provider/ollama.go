package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaClient calls a local Ollama generate API. No credential is needed,
// so MISSING_CREDENTIAL never occurs for this provider.
type OllamaClient struct {
	client *resty.Client
	model  string
}

func NewOllama(baseURL, model string, timeout time.Duration) *OllamaClient {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &OllamaClient{client: c, model: model}
}

func (c *OllamaClient) Name() string { return "ollama" }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{Model: c.model, Prompt: prompt, Stream: false}
	var out generateResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		Post("/api/generate")
	if err != nil {
		return "", Classify(err)
	}
	if resp.IsError() {
		msg := out.Error
		if msg == "" {
			msg = resp.Status()
		}
		return "", &Error{Category: CategoryUnknown, Message: fmt.Sprintf("ollama status %d: %s", resp.StatusCode(), msg)}
	}
	if out.Error != "" {
		return "", &Error{Category: CategoryUnknown, Message: out.Error}
	}
	return out.Response, nil
}

// HealthPing implements health.HealthPinger by checking /api/tags for the
// configured model.
func (c *OllamaClient) HealthPing(ctx context.Context) error {
	var data struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	resp, err := c.client.R().SetContext(ctx).SetResult(&data).Get("/api/tags")
	if err != nil {
		return Classify(err)
	}
	if resp.IsError() {
		return fmt.Errorf("ollama status %d", resp.StatusCode())
	}
	want := strings.Split(c.model, ":")[0]
	for _, m := range data.Models {
		if strings.Split(m.Name, ":")[0] == want {
			return nil
		}
	}
	return fmt.Errorf("model %s not found", want)
}
