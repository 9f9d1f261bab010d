package models

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestExtractionErrorIs(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"quota matches quota", Quota("status 403"), ErrQuotaExceeded, true},
		{"quota does not match upstream", Quota("status 403"), ErrUpstreamUnavailable, false},
		{"no content matches", NoContent("no caption tracks"), ErrNoContentFound, true},
		{"wrapped upstream matches", fmt.Errorf("fetch description: %w", Upstream("status 500", nil)), ErrUpstreamUnavailable, true},
		{"invalid url matches", InvalidURL("https://example.com"), ErrInvalidURL, true},
		{"plain error does not match", errors.New("boom"), ErrQuotaExceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestExtractionErrorUnwrap(t *testing.T) {
	err := Upstream("request failed", context.Canceled)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled to be reachable, got %v", err)
	}

	// A terminal upstream error wrapping a quota failure matches both kinds.
	terminal := Upstream("final fallback", Quota("status 401"))
	if !errors.Is(terminal, ErrUpstreamUnavailable) || !errors.Is(terminal, ErrQuotaExceeded) {
		t.Errorf("expected terminal error to match both kinds, got %v", terminal)
	}
	if KindOf(terminal) != KindUpstreamUnavailable {
		t.Errorf("KindOf() = %q, want %q", KindOf(terminal), KindUpstreamUnavailable)
	}
}

func TestExtractionErrorMessage(t *testing.T) {
	err := Upstream("status 500", errors.New("internal"))
	want := "upstream_unavailable: status 500: internal"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIngredientList(t *testing.T) {
	e := &Extraction{Ingredients: []byte(`["flour","sugar"]`)}
	got := e.IngredientList()
	if len(got) != 2 || got[0] != "flour" || got[1] != "sugar" {
		t.Errorf("IngredientList() = %v", got)
	}

	empty := &Extraction{}
	if got := empty.IngredientList(); got == nil || len(got) != 0 {
		t.Errorf("IngredientList() on empty = %#v, want empty non-nil slice", got)
	}
}
