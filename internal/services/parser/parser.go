// Package parser finds ingredient lists in free-form text without a language model.
//
// Creators often paste a recipe into a video description:
//
//	Ingredients:
//	- 2 cups flour
//	- 1 cup sugar
//	Instructions:
//	1. Mix
//
// ExtractIngredients walks the lines, starts collecting after an ingredients
// heading and stops at the first instructions-style line.
package parser

import (
	"regexp"
	"strings"
)

// headingPhrases switch the scanner into ingredients mode.
var headingPhrases = []string{
	"ingredients:",
	"ingredient:",
	"what you'll need:",
	"you'll need:",
	"ingredients list:",
	"ingredient list:",
	"what you need:",
	"needed:",
	"ingredients required:",
	"required ingredients:",
	"ingredients for:",
}

// stopWords end the scan entirely.
var stopWords = []string{"instructions", "directions", "method", "steps"}

var (
	// A single leading bullet or list number. Numbers need trailing space so
	// decimals like "1.5 cups" are not mistaken for "1." markers.
	markerRegex = regexp.MustCompile(`^(?:[-*•]\s*|\d+[.)](?:\s+|$))`)

	// One leading quantity + unit, e.g. "2 cups", "1/2 tsp", "200g".
	measurementRegex = regexp.MustCompile(`(?i)^\d+(?:[.,]\d+)?(?:/\d+)?\s*` +
		`(?:cups|cup|tablespoons|tablespoon|tbsp|teaspoons|teaspoon|tsp|ounces|ounce|oz|` +
		`kilograms|kilogram|kg|grams|gram|g|milliliters|milliliter|ml|liters|liter|l|` +
		`pounds|pound|lbs|lb)\b\.?\s*`)
)

// ExtractIngredients returns the ingredient lines found under an ingredients
// heading, in order. An empty result means the text was inconclusive.
func ExtractIngredients(text string) []string {
	ingredients := []string{}
	inSection := false

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if !inSection {
			inSection = containsAny(lower, headingPhrases)
			continue
		}

		if trimmed == "" {
			continue
		}
		if containsAny(lower, stopWords) {
			break
		}

		if cleaned := CleanLine(trimmed); cleaned != "" {
			ingredients = append(ingredients, cleaned)
		}
	}

	return ingredients
}

// CleanLine strips one list marker and one leading measurement from line.
func CleanLine(line string) string {
	cleaned := strings.TrimSpace(line)
	cleaned = markerRegex.ReplaceAllString(cleaned, "")
	cleaned = measurementRegex.ReplaceAllString(strings.TrimSpace(cleaned), "")
	return strings.TrimSpace(cleaned)
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
