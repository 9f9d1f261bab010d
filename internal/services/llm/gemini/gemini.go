// Package gemini implements llm.Analyzer on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/llm"
)

const DefaultModel = "gemini-2.5-flash"

type Config struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini API base URL. Useful for proxies/testing.
	BaseURL string
}

type Client struct {
	client *genai.Client
	model  string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Model returns the model name requests are sent with.
func (c *Client) Model() string {
	return c.model
}

// AnalyzeForIngredients implements llm.Analyzer.
func (c *Client) AnalyzeForIngredients(ctx context.Context, contextText string) ([]string, error) {
	temperature := float32(llm.Temperature)

	log.Printf("🤖 Analyzing %d chars for ingredients using %s", len(contextText), c.model)

	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(llm.BuildPrompt(contextText)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(llm.SystemPrompt, genai.RoleUser),
			Temperature:       &temperature,
			MaxOutputTokens:   llm.MaxTokens,
			CandidateCount:    1,
		},
	)
	if err != nil {
		return nil, classifyErr(err)
	}

	return llm.ParseIngredientLines(resp.Text()), nil
}

// classifyErr maps Gemini failures onto the pipeline error kinds.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 401 || apiErr.Code == 403 {
			return models.Quota(fmt.Sprintf("gemini credential rejected (status %d)", apiErr.Code))
		}
		return models.Upstream(fmt.Sprintf("gemini returned status %d", apiErr.Code), err)
	}
	return models.Upstream("gemini request failed", err)
}
