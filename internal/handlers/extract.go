// extract.go handles synchronous ingredient extraction.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/bitelist-api/internal/middleware"
	"github.com/Shimizu-Technology/bitelist-api/internal/models"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/video"
)

// statusClientClosedRequest is nginx's code for a client that went away.
const statusClientClosedRequest = 499

// ExtractIngredients runs the pipeline and waits for the result.
// POST /api/v1/ingredients/extract
//
// Request body:
//
//	{"url": "https://www.youtube.com/shorts/abc123", "description": "optional"}
//
// Response: models.ExtractionResult. When a database is configured the run is
// also recorded and its ID returned in the X-Extraction-ID header.
func (h *Handler) ExtractIngredients(c *gin.Context) {
	var req models.ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Provide 'url' (and optionally 'description') in the request body",
			Code:    http.StatusBadRequest,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Info.ExtractTimeout)
	defer cancel()

	log.Printf("🍳 [%s] Extracting ingredients for %s", middleware.GetRequestID(c), req.URL)

	result, err := h.Extractor.Extract(ctx, models.ExtractionRequest{
		VideoURL:        strings.TrimSpace(req.URL),
		UserDescription: req.Description,
	})
	if err != nil {
		log.Printf("❌ [%s] Extraction failed: %v", middleware.GetRequestID(c), err)
		respondExtractionError(c, err)
		return
	}

	if id := h.recordResult(c.Request.Context(), req, result); id != "" {
		c.Header("X-Extraction-ID", id)
	}

	c.JSON(http.StatusOK, result)
}

// recordResult saves a completed synchronous run to the history, if any.
// Failures are logged; the caller still gets the result.
func (h *Handler) recordResult(ctx context.Context, req models.ExtractRequest, result *models.ExtractionResult) string {
	if h.Store == nil {
		return ""
	}

	ingredients, err := json.Marshal(result.Ingredients)
	if err != nil {
		return ""
	}

	ref := video.Resolve(strings.TrimSpace(req.URL))
	e := &models.Extraction{
		VideoURL:        ref.OriginalURL,
		Platform:        ref.Platform,
		VideoID:         ref.ID,
		UserDescription: req.Description,
		Status:          models.StatusCompleted,
		Source:          string(result.Source),
		UsedModel:       result.UsedModel,
		Ingredients:     ingredients,
	}
	if err := h.Store.CreateExtraction(ctx, e); err != nil {
		log.Printf("⚠️  Failed to record extraction: %v", err)
		return ""
	}
	return e.ID
}

// respondExtractionError maps pipeline errors to HTTP responses.
func respondExtractionError(c *gin.Context, err error) {
	status, code := extractionErrorStatus(err)
	c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: err.Error(),
		Code:    status,
	})
}

func extractionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest, "cancelled"
	case errors.Is(err, models.ErrInvalidURL):
		return http.StatusBadRequest, string(models.KindInvalidURL)
	case errors.Is(err, models.ErrUpstreamUnavailable), errors.Is(err, models.ErrQuotaExceeded), errors.Is(err, models.ErrNoContentFound):
		return http.StatusBadGateway, string(models.KindOf(err))
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
