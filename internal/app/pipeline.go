// Package app builds the extraction pipeline from configuration. It is
// shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/Shimizu-Technology/bitelist-api/internal/config"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/extraction"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/llm"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/llm/gemini"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/youtube"
)

// Pipeline is the wired extraction service and its optional clients.
type Pipeline struct {
	Orchestrator *extraction.Orchestrator
	YouTube      *youtube.Client // nil when YOUTUBE_API_KEY is not set
	Analyzer     llm.Analyzer    // nil when no language model key is set
}

// NewPipeline creates the clients the configuration enables and wires them
// into an orchestrator. Missing credentials disable a client, they are not
// an error.
func NewPipeline(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	p := &Pipeline{}

	var metadata extraction.MetadataFetcher
	if cfg.YouTubeConfigured() {
		opts := []youtube.Option{youtube.WithRateLimit(cfg.YouTubeRPS, 1)}
		if cfg.YouTubeBaseURL != "" {
			opts = append(opts, youtube.WithBaseURL(cfg.YouTubeBaseURL))
		}
		p.YouTube = youtube.New(cfg.YouTubeAPIKey, opts...)
		metadata = p.YouTube
		log.Println("✅ YouTube Data API enabled")
	} else {
		log.Println("⚠️  YouTube Data API disabled (set YOUTUBE_API_KEY to enable)")
	}

	analyzer, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if analyzer != nil {
		p.Analyzer = analyzer
		log.Printf("✅ Language model enabled: %s", cfg.LanguageModelName())
	} else {
		log.Printf("⚠️  Language model disabled (set the %s API key to enable)", cfg.LLMProvider)
	}

	p.Orchestrator = extraction.New(p.Analyzer, metadata, extraction.Options{
		MinDescriptionLength: cfg.MinDescriptionLength,
		MinTranscriptLength:  cfg.MinTranscriptLength,
		CallToActionPhrases:  cfg.CallToActionPhrases,
	})
	return p, nil
}

// newAnalyzer returns the configured language model client, or nil.
func newAnalyzer(ctx context.Context, cfg *config.Config) (llm.Analyzer, error) {
	if !cfg.LanguageModelConfigured() {
		return nil, nil
	}

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		c, err := gemini.New(ctx, gemini.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return c, nil
	default:
		return llm.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	}
}
