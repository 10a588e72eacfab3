package invoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// defaultBaseURL is the default OpenRouter API base URL.
const defaultBaseURL = "https://openrouter.ai/api/v1"

// HTTPDoer abstracts HTTP clients used by the OpenRouter client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenRouterClient implements Invoker against the OpenRouter chat completions
// API, non-streaming.
type OpenRouterClient struct {
	APIKey  string
	BaseURL string
	Client  HTTPDoer
}

// FromEnv builds a client from GAUNTLET_API_KEY and GAUNTLET_BASE_URL.
func FromEnv(client HTTPDoer) (*OpenRouterClient, error) {
	apiKey := strings.TrimSpace(os.Getenv("GAUNTLET_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("GAUNTLET_API_KEY is required")
	}
	return NewOpenRouterClient(apiKey, os.Getenv("GAUNTLET_BASE_URL"), client)
}

// NewOpenRouterClient constructs a client with explicit settings.
func NewOpenRouterClient(apiKey, baseURL string, client HTTPDoer) (*OpenRouterClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenRouterClient{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  client,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string          `json:"type"`
	JSONSchema json.RawMessage `json:"json_schema,omitempty"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
		CompletionTokensDetails struct {
			ReasoningTokens int `json:"reasoning_tokens"`
		} `json:"completion_tokens_details"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Invoke sends one chat completion request and returns the model output with
// its token usage.
func (c *OpenRouterClient) Invoke(ctx context.Context, req Request) (Response, error) {
	body := chatRequest{
		Model:     req.Model,
		Messages:  []chatMessage{{Role: "user", Content: req.Prompt}},
		MaxTokens: req.MaxTokens,
	}
	if strings.TrimSpace(req.Schema) != "" {
		schema, err := json.Marshal(map[string]any{
			"name":   "response",
			"strict": true,
			"schema": json.RawMessage(req.Schema),
		})
		if err != nil {
			return Response{}, fmt.Errorf("marshal schema: %w", err)
		}
		body.ResponseFormat = &responseFormat{Type: "json_schema", JSONSchema: schema}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpRes, err := c.Client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = httpRes.Body.Close() }()

	data, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}
	if httpRes.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("openrouter status %d: %s", httpRes.StatusCode, truncateBody(data))
	}
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Response{}, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return Response{}, fmt.Errorf("openrouter error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return Response{}, fmt.Errorf("openrouter response has no choices")
	}
	return Response{
		Output: parsed.Choices[0].Message.Content,
		Usage: Usage{
			Input:     parsed.Usage.PromptTokens,
			Output:    parsed.Usage.CompletionTokens,
			Reasoning: parsed.Usage.CompletionTokensDetails.ReasoningTokens,
			Total:     parsed.Usage.TotalTokens,
		},
	}, nil
}

// truncateBody bounds error payloads embedded in error messages.
func truncateBody(data []byte) string {
	const limit = 512
	text := strings.TrimSpace(string(data))
	if len(text) > limit {
		return text[:limit] + "..."
	}
	return text
}
