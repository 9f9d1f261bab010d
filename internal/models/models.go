// Package models defines the data structures used throughout the application.
//
// Pipeline types (VideoReference, ExtractionRequest, ExtractionResult) are
// created per call and never mutated after they are returned. Extraction is
// the persisted history record; the `db` tags work with sqlx for column mapping.
package models

import (
	"encoding/json"
	"time"
)

// Platform identifies the video hosting service a URL belongs to.
type Platform string

const (
	PlatformInstagram Platform = "instagram" // short-form reels
	PlatformYouTube   Platform = "youtube"   // long-form videos and Shorts
	PlatformUnknown   Platform = "unknown"
)

// VideoReference is a resolved video URL.
// ID is non-empty if and only if Platform is not PlatformUnknown.
type VideoReference struct {
	Platform    Platform `json:"platform"`
	ID          string   `json:"id,omitempty"`
	OriginalURL string   `json:"original_url"`
}

// Known reports whether the URL matched a supported platform.
func (v VideoReference) Known() bool {
	return v.Platform != PlatformUnknown && v.ID != ""
}

// ExtractionRequest is the caller-owned input to the pipeline.
// An empty UserDescription means no description was supplied.
type ExtractionRequest struct {
	VideoURL        string
	UserDescription string
}

// TextSource tags where the text that produced the ingredients came from.
type TextSource string

const (
	SourceCaption             TextSource = "caption"
	SourcePinnedComment       TextSource = "pinned_comment"
	SourcePlatformDescription TextSource = "platform_description"
	SourceTranscript          TextSource = "transcript"
	SourceUserProvided        TextSource = "user_provided"
	SourceGenericPrompt       TextSource = "generic_prompt"
)

// ExtractionResult is the pipeline output. Ingredients keep discovery order and
// are not deduplicated; the slice is never nil.
type ExtractionResult struct {
	Ingredients []string       `json:"ingredients"`
	Source      TextSource     `json:"source"`
	UsedModel   bool           `json:"used_model"`
	Video       VideoReference `json:"video"`
}

// ExtractionStatus represents the processing state of a stored extraction.
type ExtractionStatus string

const (
	StatusPending    ExtractionStatus = "pending"
	StatusProcessing ExtractionStatus = "processing"
	StatusCompleted  ExtractionStatus = "completed"
	StatusFailed     ExtractionStatus = "failed"
)

// Extraction is an extraction run stored in the database.
type Extraction struct {
	ID              string           `json:"id" db:"id"`
	VideoURL        string           `json:"video_url" db:"video_url"`
	Platform        Platform         `json:"platform" db:"platform"`
	VideoID         string           `json:"video_id" db:"video_id"`
	UserDescription string           `json:"user_description,omitempty" db:"user_description"`
	Status          ExtractionStatus `json:"status" db:"status"`
	Source          string           `json:"source,omitempty" db:"source"`
	UsedModel       bool             `json:"used_model" db:"used_model"`
	Ingredients     json.RawMessage  `json:"ingredients" db:"ingredients"` // JSONB array of strings
	ThumbnailURL    string           `json:"thumbnail_url,omitempty" db:"thumbnail_url"`
	ErrorMessage    string           `json:"error_message,omitempty" db:"error_message"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`
}

// IngredientList decodes the stored ingredients column.
func (e *Extraction) IngredientList() []string {
	out := []string{}
	if len(e.Ingredients) == 0 {
		return out
	}
	if err := json.Unmarshal(e.Ingredients, &out); err != nil {
		return []string{}
	}
	return out
}

// --- Request/Response DTOs ---

// ExtractRequest is the JSON body for POST /api/v1/ingredients/extract and
// POST /api/v1/extractions.
type ExtractRequest struct {
	URL         string `json:"url" binding:"required"`
	Description string `json:"description,omitempty"`
}

// ExtractionListParams holds query parameters for listing extractions.
type ExtractionListParams struct {
	Page     int              `form:"page"`
	PerPage  int              `form:"per_page"`
	Status   ExtractionStatus `form:"status"`
	Platform Platform         `form:"platform"`
}

// PaginatedResponse wraps a list response with pagination metadata.
type PaginatedResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// ErrorResponse is a standard error format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Database      string `json:"database"`
	Workers       int    `json:"workers"`
	YouTube       bool   `json:"youtube_configured"`
	LanguageModel string `json:"language_model"`
}
