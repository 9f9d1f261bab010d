// Package handlers contains HTTP handler functions for the API.
//
// Handlers are grouped on a Handler struct that holds shared dependencies.
// Dependencies are interfaces so tests can pass fakes; nil Store and Jobs
// mean the server runs without a database and only synchronous extraction
// is available.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/worker"
)

// Extractor runs the ingredient pipeline.
type Extractor interface {
	Extract(ctx context.Context, req models.ExtractionRequest) (*models.ExtractionResult, error)
}

// Store is the extraction history.
type Store interface {
	HealthCheck(ctx context.Context) error
	CreateExtraction(ctx context.Context, e *models.Extraction) error
	GetExtraction(ctx context.Context, id string) (*models.Extraction, error)
	UpdateExtraction(ctx context.Context, e *models.Extraction) error
	ListExtractions(ctx context.Context, params models.ExtractionListParams) ([]models.Extraction, int, error)
	DeleteExtraction(ctx context.Context, id string) error
}

// JobQueue accepts background jobs.
type JobQueue interface {
	Submit(job worker.Job) error
	WorkerCount() int
}

// Info describes the running service for the health endpoint.
type Info struct {
	Version           string
	YouTubeConfigured bool
	LanguageModel     string        // e.g. "openai/gpt-4o-mini" or "none"
	ExtractTimeout    time.Duration // bound for synchronous extractions
}

// Handler holds shared dependencies for all HTTP handlers.
type Handler struct {
	Extractor Extractor
	Store     Store    // nil without a database
	Jobs      JobQueue // nil without a database
	Info      Info
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(ext Extractor, store Store, jobs JobQueue, info Info) *Handler {
	if info.ExtractTimeout <= 0 {
		info.ExtractTimeout = 90 * time.Second
	}
	return &Handler{
		Extractor: ext,
		Store:     store,
		Jobs:      jobs,
		Info:      info,
	}
}

// HealthCheck returns the API health status.
// GET /api/v1/health
func (h *Handler) HealthCheck(c *gin.Context) {
	dbStatus := "disabled"
	if h.Store != nil {
		dbStatus = "healthy"
		if err := h.Store.HealthCheck(c.Request.Context()); err != nil {
			dbStatus = "unhealthy: " + err.Error()
		}
	}

	workers := 0
	if h.Jobs != nil {
		workers = h.Jobs.WorkerCount()
	}

	c.JSON(http.StatusOK, models.HealthResponse{
		Status:        "ok",
		Version:       h.Info.Version,
		Database:      dbStatus,
		Workers:       workers,
		YouTube:       h.Info.YouTubeConfigured,
		LanguageModel: h.Info.LanguageModel,
	})
}
