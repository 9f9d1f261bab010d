// extractions.go handles asynchronous extraction jobs and their history.
package handlers

import (
	"context"
	"errors"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Shimizu-Technology/bitelist-api/internal/database"
	"github.com/Shimizu-Technology/bitelist-api/internal/models"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/video"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/worker"
)

// CreateExtraction queues an extraction for background processing.
// POST /api/v1/extractions
//
// Response: the created record with status "pending". Poll
// GET /api/v1/extractions/:id for the outcome.
func (h *Handler) CreateExtraction(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	var req models.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Provide 'url' (and optionally 'description') in the request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	ref := video.Resolve(strings.TrimSpace(req.URL))
	e := &models.Extraction{
		VideoURL:        ref.OriginalURL,
		Platform:        ref.Platform,
		VideoID:         ref.ID,
		UserDescription: req.Description,
		Status:          models.StatusPending,
	}

	if err := h.Store.CreateExtraction(c.Request.Context(), e); err != nil {
		log.Printf("❌ Failed to create extraction record: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to create extraction record",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	job := worker.Job{ID: e.ID, Type: worker.JobExtraction, CreatedAt: time.Now()}
	if err := h.Jobs.Submit(job); err != nil {
		log.Printf("⚠️  Failed to queue extraction job: %v", err)

		// Don't leave a record that will never leave "pending".
		e.Status = models.StatusFailed
		e.ErrorMessage = err.Error()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if uerr := h.Store.UpdateExtraction(ctx, e); uerr != nil {
			log.Printf("⚠️  Failed to mark extraction %s failed: %v", e.ID, uerr)
		}

		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Error:   "queue_full",
			Message: "Too many extractions in progress. Try again later.",
			Code:    http.StatusServiceUnavailable,
		})
		return
	}

	c.JSON(http.StatusAccepted, e)
}

// GetExtraction retrieves a single extraction by ID.
// GET /api/v1/extractions/:id
func (h *Handler) GetExtraction(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	e, ok := h.loadExtraction(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, e)
}

// ListExtractions returns a paginated list of extractions.
// GET /api/v1/extractions?page=1&per_page=20&status=completed&platform=youtube
func (h *Handler) ListExtractions(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	var params models.ExtractionListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_params",
			Message: "Invalid query parameters: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	extractions, total, err := h.Store.ListExtractions(c.Request.Context(), params)
	if err != nil {
		log.Printf("❌ Failed to list extractions: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to list extractions",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	// Ensure we return an empty array, not null
	if extractions == nil {
		extractions = []models.Extraction{}
	}

	perPage := params.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	page := params.Page
	if page < 1 {
		page = 1
	}

	c.JSON(http.StatusOK, models.PaginatedResponse[models.Extraction]{
		Data:       extractions,
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	})
}

// DeleteExtraction removes an extraction from the history.
// DELETE /api/v1/extractions/:id
func (h *Handler) DeleteExtraction(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		notFound(c)
		return
	}

	err := h.Store.DeleteExtraction(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		log.Printf("❌ Failed to delete extraction: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to delete extraction",
			Code:    http.StatusInternalServerError,
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// requireHistory rejects history endpoints when no database is configured.
func (h *Handler) requireHistory(c *gin.Context) bool {
	if h.Store != nil && h.Jobs != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
		Error:   "history_disabled",
		Message: "Extraction history requires DATABASE_URL; use POST /api/v1/ingredients/extract instead",
		Code:    http.StatusServiceUnavailable,
	})
	return false
}

// loadExtraction fetches the :id record, writing the error response itself.
func (h *Handler) loadExtraction(c *gin.Context) (*models.Extraction, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		notFound(c)
		return nil, false
	}

	e, err := h.Store.GetExtraction(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		notFound(c)
		return nil, false
	}
	if err != nil {
		log.Printf("❌ Failed to get extraction: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "database_error",
			Message: "Failed to load extraction",
			Code:    http.StatusInternalServerError,
		})
		return nil, false
	}
	return e, true
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.ErrorResponse{
		Error:   "not_found",
		Message: "Extraction not found",
		Code:    http.StatusNotFound,
	})
}
