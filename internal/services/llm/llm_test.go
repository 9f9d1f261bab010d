package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

func TestAnalyzeForIngredients(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"- Tomatoes\n- Onions\n\n• Garlic"}}]}`))
	}))
	defer srv.Close()

	c := New("sk-test", srv.URL, "")
	ingredients, err := c.AnalyzeForIngredients(context.Background(), "tomatoes, onions, garlic")
	if err != nil {
		t.Fatalf("AnalyzeForIngredients() unexpected error: %v", err)
	}

	want := []string{"Tomatoes", "Onions", "Garlic"}
	if !reflect.DeepEqual(ingredients, want) {
		t.Errorf("AnalyzeForIngredients() = %q, want %q", ingredients, want)
	}

	if got.Model != DefaultModel || got.MaxTokens != MaxTokens || got.Temperature != Temperature {
		t.Errorf("unexpected generation settings: %+v", got)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	if !strings.Contains(got.Messages[1].Content, "tomatoes, onions, garlic") {
		t.Errorf("prompt does not embed the context text: %q", got.Messages[1].Content)
	}
}

func TestAnalyzeForIngredientsStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, models.ErrQuotaExceeded},
		{"forbidden", http.StatusForbidden, `{}`, models.ErrQuotaExceeded},
		{"rate limited", http.StatusTooManyRequests, `{}`, models.ErrUpstreamUnavailable},
		{"server error", http.StatusBadGateway, `{}`, models.ErrUpstreamUnavailable},
		{"no choices", http.StatusOK, `{"choices":[]}`, models.ErrUpstreamUnavailable},
		{"missing content", http.StatusOK, `{"choices":[{"message":{}}]}`, models.ErrUpstreamUnavailable},
		{"error object", http.StatusOK, `{"error":{"message":"overloaded"}}`, models.ErrUpstreamUnavailable},
		{"not json", http.StatusOK, `hello`, models.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New("k", srv.URL, "m").AnalyzeForIngredients(context.Background(), "text")
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("error = %v, want kind %v", err, tt.wantKind)
			}
		})
	}
}

func TestAnalyzeForIngredientsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":"No ingredients found"}}]}`))
	}))
	defer srv.Close()

	got, err := New("k", srv.URL, "").AnalyzeForIngredients(context.Background(), "subscribe!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("AnalyzeForIngredients() = %#v, want empty slice", got)
	}
}

func TestParseIngredientLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"plain lines", "flour\nsugar", []string{"flour", "sugar"}},
		{"bullets stripped", "- flour\n* sugar\n• eggs", []string{"flour", "sugar", "eggs"}},
		{"numbered lines dropped", "1. Flour\n2. Sugar\nbutter", []string{"butter"}},
		{"sentinel dropped", "No ingredients found", []string{}},
		{"sentinel variants dropped", "Sorry, no ingredients were mentioned.\nPlease provide a description", []string{}},
		{"intro line dropped", "Ingredients found in the video:\n- basil", []string{"basil"}},
		{"code fence stripped", "```\n- rice\n- beans\n```", []string{"rice", "beans"}},
		{"blank lines skipped", "\n\n  salt  \n\n", []string{"salt"}},
		{"quantity in name kept", "2 cloves garlic", []string{"2 cloves garlic"}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIngredientLines(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseIngredientLines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("  pasta with basil  ")
	for _, want := range []string{"Video Description: pasta with basil\n", `"No ingredients found"`, "one per line", "Do not hallucinate"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	long := strings.Repeat("é", maxContextChars)
	bounded := BuildPrompt(long)
	if !strings.Contains(bounded, "[Text truncated due to length...]") {
		t.Error("expected long context to be truncated")
	}
	if len(bounded) > maxContextChars+len(promptTemplate)+100 {
		t.Errorf("prompt length %d is not bounded", len(bounded))
	}
	if !strings.Contains(bounded, "é") || !utf8.ValidString(bounded) {
		t.Error("truncation split a multi-byte character")
	}
}
