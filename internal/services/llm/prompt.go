package llm

import (
	"fmt"
	"regexp"
	"strings"
)

// SystemPrompt frames every ingredient request.
const SystemPrompt = "You are a helpful assistant that extracts ingredients from cooking videos. " +
	"Only mention ingredients that are explicitly shown or mentioned in the video content."

// NoIngredientsSentinel is the reply the model is told to give when nothing is found.
const NoIngredientsSentinel = "No ingredients found"

// maxContextChars bounds the text embedded in a prompt.
const maxContextChars = 12000

const promptTemplate = `Analyze the following video description and extract ONLY the ingredients that are explicitly mentioned or shown in the video.

Video Description: %s

Instructions:
1. Only list ingredients that are clearly mentioned or visible in the video
2. Do not hallucinate or add ingredients that aren't in the video
3. Return ingredients as a simple list, one per line
4. If no ingredients are mentioned, return "%s"
5. Focus only on food ingredients, not cooking utensils or equipment

Please provide the ingredients:`

// BuildPrompt embeds contextText in the ingredient extraction prompt.
func BuildPrompt(contextText string) string {
	text := strings.TrimSpace(contextText)
	if len(text) > maxContextChars {
		text = truncateUTF8(text, maxContextChars) + "\n\n[Text truncated due to length...]"
	}
	return fmt.Sprintf(promptTemplate, text, NoIngredientsSentinel)
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

var (
	numberedLineRegex = regexp.MustCompile(`^\d+\.`)
	bulletRegex       = regexp.MustCompile(`^[-*•]\s*`)
)

// sentinelPhrases mark lines that talk about the answer instead of being one.
var sentinelPhrases = []string{"no ingredients", "ingredients found", "please provide"}

// ParseIngredientLines turns a model reply into ingredient strings: one per
// non-empty line, bullets stripped, numbered and sentinel lines dropped.
func ParseIngredientLines(content string) []string {
	ingredients := []string{}
	for _, line := range strings.Split(stripFences(content), "\n") {
		cleaned := strings.TrimSpace(line)
		if cleaned == "" || numberedLineRegex.MatchString(cleaned) {
			continue
		}
		cleaned = strings.TrimSpace(bulletRegex.ReplaceAllString(cleaned, ""))
		if cleaned == "" || isSentinel(cleaned) {
			continue
		}
		ingredients = append(ingredients, cleaned)
	}
	return ingredients
}

func isSentinel(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range sentinelPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// stripFences removes markdown code fences some models wrap lists in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
