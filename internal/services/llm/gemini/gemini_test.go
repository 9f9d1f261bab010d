package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/Shimizu-Technology/bitelist-api/internal/models"
)

type tempNetErr struct{}

func (tempNetErr) Error() string   { return "temp net err" }
func (tempNetErr) Timeout() bool   { return false }
func (tempNetErr) Temporary() bool { return true }

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name     string
		in       error
		wantKind error
	}{
		{name: "api_401", in: genai.APIError{Code: 401}, wantKind: models.ErrQuotaExceeded},
		{name: "api_403", in: genai.APIError{Code: 403}, wantKind: models.ErrQuotaExceeded},
		{name: "api_429", in: genai.APIError{Code: 429}, wantKind: models.ErrUpstreamUnavailable},
		{name: "api_500", in: genai.APIError{Code: 500}, wantKind: models.ErrUpstreamUnavailable},
		{name: "net_temporary", in: tempNetErr{}, wantKind: models.ErrUpstreamUnavailable},
		{name: "cancelled", in: context.Canceled, wantKind: models.ErrUpstreamUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyErr(tt.in)
			if !errors.Is(got, tt.wantKind) {
				t.Fatalf("classifyErr(%v) = %v, want kind %v", tt.in, got, tt.wantKind)
			}
		})
	}

	if classifyErr(nil) != nil {
		t.Error("classifyErr(nil) should be nil")
	}
	if !errors.Is(classifyErr(context.Canceled), context.Canceled) {
		t.Error("cancellation should stay reachable through the wrapped error")
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(context.Background(), Config{APIKey: "  "}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestNewDefaultsModel(t *testing.T) {
	c, err := New(context.Background(), Config{APIKey: "k"})
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
}
