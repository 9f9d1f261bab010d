// Package extraction turns a video URL (and optional user description) into a
// best-effort ingredient list.
//
// The Orchestrator runs an ordered list of fallback stages:
//
//	user_text → platform_text → transcript → generic_prompt → final_fallback
//
// Each stage either returns a result (done), advances to the next stage, or
// jumps to final_fallback after recovering an upstream error. Only the final
// stage's failure, or a cancelled context, reaches the caller.
package extraction

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/llm"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/parser"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/video"
)

// MetadataFetcher reads text attached to a video on its platform.
type MetadataFetcher interface {
	FetchDescription(ctx context.Context, videoID string) (string, error)
	FetchTranscript(ctx context.Context, videoID string) (string, error)
}

// Options tunes the description and transcript heuristics.
type Options struct {
	MinDescriptionLength int      // descriptions must be longer than this to be analyzed
	MinTranscriptLength  int      // transcripts must be longer than this to be analyzed
	CallToActionPhrases  []string // descriptions containing any of these are boilerplate
}

// DefaultOptions returns the heuristics used when none are configured.
func DefaultOptions() Options {
	return Options{
		MinDescriptionLength: 50,
		MinTranscriptLength:  50,
		CallToActionPhrases:  []string{"subscribe", "like and comment"},
	}
}

// GenericPrompt is analyzed when a video offers no usable text of its own.
const GenericPrompt = "Extract the ingredients shown or mentioned in this cooking video."

// Stage names, in execution order.
const (
	StageUserText      = "user_text"
	StagePlatformText  = "platform_text"
	StageTranscript    = "transcript"
	StageGenericPrompt = "generic_prompt"
	StageFinalFallback = "final_fallback"
)

// Orchestrator is safe for concurrent use. Either dependency may be nil,
// meaning that capability is not configured.
type Orchestrator struct {
	analyzer llm.Analyzer
	metadata MetadataFetcher
	opts     Options
	stages   []stage
}

// stage is one step of the fallback chain. run returns a result to finish,
// (nil, nil) to continue, or a terminal error.
type stage struct {
	name string
	run  func(ctx context.Context, a *attempt) (*models.ExtractionResult, error)
}

// attempt is the per-call state shared by the stages.
type attempt struct {
	req models.ExtractionRequest
	ref models.VideoReference

	jumpTo          string // skip forward to this stage
	weakDescription bool   // platform description was fetched but not meaningful
	recovered       []error
}

// New creates an orchestrator.
func New(analyzer llm.Analyzer, metadata MetadataFetcher, opts Options) *Orchestrator {
	o := &Orchestrator{analyzer: analyzer, metadata: metadata, opts: opts}
	o.stages = []stage{
		{StageUserText, o.userText},
		{StagePlatformText, o.platformText},
		{StageTranscript, o.transcript},
		{StageGenericPrompt, o.genericPrompt},
		{StageFinalFallback, o.finalFallback},
	}
	return o
}

// Extract runs the fallback chain for req. It returns a result (possibly with
// no ingredients) unless the final model call fails or ctx is cancelled.
func (o *Orchestrator) Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResult, error) {
	a := &attempt{
		req: req,
		ref: video.Resolve(req.VideoURL),
	}
	log.Printf("🔎 Extracting ingredients: platform=%s id=%q user_description=%t",
		a.ref.Platform, a.ref.ID, strings.TrimSpace(req.UserDescription) != "")

	for _, s := range o.stages {
		if a.jumpTo != "" && a.jumpTo != s.name {
			continue
		}
		a.jumpTo = ""

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("extraction cancelled before %s: %w", s.name, err)
		}

		result, err := s.run(ctx, a)
		if err != nil {
			return nil, err
		}
		if result != nil {
			result.Video = a.ref
			log.Printf("✅ [%s] %d ingredients from %s (model: %t)", s.name, len(result.Ingredients), result.Source, result.UsedModel)
			return result, nil
		}
	}

	// final_fallback always returns a result or an error.
	return nil, models.Upstream("no extraction stage produced a result", errors.Join(a.recovered...))
}

// fallBack converts a stage error into a jump to the final fallback. A
// cancelled context is returned as terminal instead.
func (o *Orchestrator) fallBack(ctx context.Context, a *attempt, stageName string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("extraction cancelled during %s: %w", stageName, ctxErr)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("extraction cancelled during %s: %w", stageName, err)
	}
	log.Printf("⚠️  [%s] %v; falling back", stageName, err)
	a.recovered = append(a.recovered, fmt.Errorf("%s: %w", stageName, err))
	a.jumpTo = StageFinalFallback
	return nil
}

// analyze runs the model and tags the result.
func (o *Orchestrator) analyze(ctx context.Context, text string, source models.TextSource) (*models.ExtractionResult, error) {
	if o.analyzer == nil {
		return nil, models.Upstream("language model not configured", nil)
	}
	ingredients, err := o.analyzer.AnalyzeForIngredients(ctx, text)
	if err != nil {
		return nil, err
	}
	if ingredients == nil {
		ingredients = []string{}
	}
	return &models.ExtractionResult{Ingredients: ingredients, Source: source, UsedModel: true}, nil
}

// userText analyzes a caller-supplied description. It never calls the platform API.
func (o *Orchestrator) userText(ctx context.Context, a *attempt) (*models.ExtractionResult, error) {
	desc := strings.TrimSpace(a.req.UserDescription)
	if desc == "" {
		return nil, nil
	}

	result, err := o.analyze(ctx, desc, models.SourceUserProvided)
	if err != nil {
		return nil, o.fallBack(ctx, a, StageUserText, err)
	}
	return result, nil
}

// platformText analyzes the platform description, preferring structured parsing.
func (o *Orchestrator) platformText(ctx context.Context, a *attempt) (*models.ExtractionResult, error) {
	if o.metadata == nil || !a.ref.Known() || !video.HasMetadataAPI(a.ref.Platform) {
		a.jumpTo = StageFinalFallback
		return nil, nil
	}

	desc, err := o.metadata.FetchDescription(ctx, a.ref.ID)
	if err != nil {
		return nil, o.fallBack(ctx, a, StagePlatformText, err)
	}

	if !o.isMeaningful(desc) {
		log.Printf("ℹ️  [%s] description not meaningful (%d chars); trying transcript", StagePlatformText, utf8.RuneCountInString(desc))
		a.weakDescription = true
		return nil, nil
	}

	if ingredients := parser.ExtractIngredients(desc); len(ingredients) > 0 {
		return &models.ExtractionResult{
			Ingredients: ingredients,
			Source:      models.SourcePlatformDescription,
			UsedModel:   false,
		}, nil
	}

	result, err := o.analyze(ctx, desc, models.SourcePlatformDescription)
	if err != nil {
		return nil, o.fallBack(ctx, a, StagePlatformText, err)
	}
	return result, nil
}

// transcript analyzes the first caption track when the description was weak.
func (o *Orchestrator) transcript(ctx context.Context, a *attempt) (*models.ExtractionResult, error) {
	if !a.weakDescription {
		a.jumpTo = StageFinalFallback
		return nil, nil
	}

	text, err := o.metadata.FetchTranscript(ctx, a.ref.ID)
	if err != nil {
		if errors.Is(err, models.ErrNoContentFound) && ctx.Err() == nil {
			log.Printf("ℹ️  [%s] no transcript available; using generic prompt", StageTranscript)
			return nil, nil
		}
		return nil, o.fallBack(ctx, a, StageTranscript, err)
	}

	text = strings.TrimSpace(text)
	if n := utf8.RuneCountInString(text); n <= o.opts.MinTranscriptLength {
		log.Printf("ℹ️  [%s] transcript too short (%d chars); using generic prompt", StageTranscript, n)
		return nil, nil
	}

	result, err := o.analyze(ctx, text, models.SourceTranscript)
	if err != nil {
		return nil, o.fallBack(ctx, a, StageTranscript, err)
	}
	return result, nil
}

// genericPrompt asks the model about the video without any specific context.
func (o *Orchestrator) genericPrompt(ctx context.Context, a *attempt) (*models.ExtractionResult, error) {
	result, err := o.analyze(ctx, GenericPrompt, models.SourceGenericPrompt)
	if err != nil {
		return nil, o.fallBack(ctx, a, StageGenericPrompt, err)
	}
	return result, nil
}

// finalFallback is the last resort; its error is the one the caller sees.
func (o *Orchestrator) finalFallback(ctx context.Context, a *attempt) (*models.ExtractionResult, error) {
	result, err := o.analyze(ctx, placeholderText(a.ref.Platform), models.SourceGenericPrompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("extraction cancelled during %s: %w", StageFinalFallback, ctxErr)
		}
		return nil, models.Upstream("ingredient extraction failed after all fallbacks", err)
	}
	return result, nil
}

// isMeaningful reports whether a platform description is worth analyzing.
func (o *Orchestrator) isMeaningful(desc string) bool {
	trimmed := strings.TrimSpace(desc)
	if utf8.RuneCountInString(trimmed) <= o.opts.MinDescriptionLength {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, phrase := range o.opts.CallToActionPhrases {
		if phrase != "" && strings.Contains(lower, strings.ToLower(phrase)) {
			return false
		}
	}
	return true
}

// placeholderText stands in for video content nobody could fetch.
func placeholderText(p models.Platform) string {
	switch p {
	case models.PlatformYouTube:
		return "Detailed content for this YouTube video is unavailable. Please provide a description of the ingredients shown in the video."
	case models.PlatformInstagram:
		return "Detailed content for this Instagram video is unavailable. Please provide a description of the ingredients shown in the video."
	default:
		return "Detailed video content is unavailable. Please provide a description of the ingredients shown in the video."
	}
}
