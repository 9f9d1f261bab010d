// Package llm asks an external language model for the ingredients in a piece of text.
//
// Client speaks the OpenAI chat completions format, which also covers
// OpenRouter and other compatible gateways. The gemini subpackage provides
// the same Analyzer contract on top of the Gemini API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

// Analyzer extracts ingredients from free text using a language model.
type Analyzer interface {
	AnalyzeForIngredients(ctx context.Context, contextText string) ([]string, error)
}

const (
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultModel    = "gpt-4o-mini"

	// Generation settings: near-deterministic, short output.
	Temperature = 0.1
	MaxTokens   = 500
)

// Client calls an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey     string
	endpoint   string
	model      string
	httpClient *http.Client
}

// New creates a chat completions client. Empty endpoint or model fall back
// to the OpenAI defaults.
func New(apiKey, endpoint, model string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Model returns the model name requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// --- Chat completions API types ---

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
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// AnalyzeForIngredients sends contextText to the model and returns the
// ingredient lines of its answer. A "no ingredients" answer yields an empty slice.
func (c *Client) AnalyzeForIngredients(ctx context.Context, contextText string) ([]string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: BuildPrompt(contextText)},
		},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, models.Upstream("failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, models.Upstream("failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "BiteList")

	log.Printf("🤖 Analyzing %d chars for ingredients using %s", len(contextText), c.model)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, models.Upstream("language model request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.Upstream("failed to read response", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		log.Printf("❌ %d from language model - check the API key", resp.StatusCode)
		return nil, models.Quota(fmt.Sprintf("language model credential rejected (status %d)", resp.StatusCode))
	default:
		return nil, models.Upstream(fmt.Sprintf("language model returned status %d", resp.StatusCode), nil)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, models.Upstream("failed to parse response", err)
	}
	if chatResp.Error != nil {
		return nil, models.Upstream("language model error: "+chatResp.Error.Message, nil)
	}
	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == nil {
		return nil, models.Upstream("no content in model response", nil)
	}

	return ParseIngredientLines(*chatResp.Choices[0].Message.Content), nil
}
