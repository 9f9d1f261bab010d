// export.go renders a completed extraction as a shopping list.
//
// Supported formats:
//   - txt  : numbered plain-text list, ready to paste into a message
//   - md   : Markdown checklist
//   - json : items with their bought flag
package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
	"github.com/Shimizu-Technology/bitelist-api/internal/services/sharing"
)

// ShoppingList exports an extraction's ingredients as a shopping list.
// GET /api/v1/extractions/:id/shopping-list?format=txt|md|json&title=Pancakes&bought=1,3&download=1
//
// bought lists 1-based ingredient positions that are already purchased.
func (h *Handler) ShoppingList(c *gin.Context) {
	if !h.requireHistory(c) {
		return
	}

	format := c.DefaultQuery("format", "txt")
	validFormats := map[string]bool{"txt": true, "md": true, "json": true}
	if !validFormats[format] {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_format",
			Message: "Supported formats: txt, md, json",
			Code:    http.StatusBadRequest,
		})
		return
	}

	bought, err := parsePositions(c.Query("bought"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_params",
			Message: "bought must be a comma-separated list of item numbers",
			Code:    http.StatusBadRequest,
		})
		return
	}

	e, ok := h.loadExtraction(c)
	if !ok {
		return
	}

	if e.Status != models.StatusCompleted {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Error:   "not_ready",
			Message: "Extraction is not completed (status: " + string(e.Status) + ")",
			Code:    http.StatusConflict,
		})
		return
	}

	title := strings.TrimSpace(c.Query("title"))
	if title == "" {
		title = "your recipe"
	}
	items := sharing.ItemsFromIngredients(e.IngredientList(), bought)

	if c.Query("download") != "" {
		filename := sanitizeFilename(title)
		if filename == "" {
			filename = "shopping-list"
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, filename, format))
	}

	switch format {
	case "txt":
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(sharing.ShoppingList(title, items)))
	case "md":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(markdownChecklist(title, e, items)))
	case "json":
		type jsonItem struct {
			Name   string `json:"name"`
			Bought bool   `json:"bought"`
		}
		out := make([]jsonItem, 0, len(items))
		for _, it := range items {
			out = append(out, jsonItem{Name: it.Name, Bought: it.Bought})
		}
		c.JSON(http.StatusOK, gin.H{
			"title":     title,
			"video_url": e.VideoURL,
			"items":     out,
		})
	}
}

// markdownChecklist renders items as a GitHub-style task list.
func markdownChecklist(title string, e *models.Extraction, items []sharing.Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Shopping list for %s\n\n", title)
	fmt.Fprintf(&sb, "Source: %s\n\n", e.VideoURL)
	for _, it := range items {
		box := " "
		if it.Bought {
			box = "x"
		}
		fmt.Fprintf(&sb, "- [%s] %s\n", box, it.Name)
	}
	return sb.String()
}

// parsePositions parses "1, 3,4" into item numbers. Empty input is no positions.
func parsePositions(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid item number %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// sanitizeFilename removes characters that aren't safe for filenames.
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-",
		"|", "-", "\n", " ", "\r", "",
	)
	name = replacer.Replace(name)

	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	for strings.Contains(name, "--") {
		name = strings.ReplaceAll(name, "--", "-")
	}

	name = strings.TrimSpace(name)
	if len(name) > 100 {
		cut := 100
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}
