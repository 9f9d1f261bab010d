package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestHashAPIKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		if HashAPIKey("bl_key") != HashAPIKey("bl_key") {
			t.Error("HashAPIKey is not deterministic")
		}
	})

	t.Run("different inputs different outputs", func(t *testing.T) {
		if HashAPIKey("bl_key_one") == HashAPIKey("bl_key_two") {
			t.Error("HashAPIKey produced same hash for different inputs")
		}
	})

	t.Run("known value", func(t *testing.T) {
		// SHA-256 of the empty string.
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got := HashAPIKey(""); got != want {
			t.Errorf("HashAPIKey(\"\") = %q, want %q", got, want)
		}
	})
}

func newTestRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, ClientID(c))
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		headers    map[string]string
		wantStatus int
	}{
		{"disabled", "", nil, http.StatusOK},
		{"missing key", "secret", nil, http.StatusUnauthorized},
		{"wrong key", "secret", map[string]string{"X-API-Key": "nope"}, http.StatusUnauthorized},
		{"header key", "secret", map[string]string{"X-API-Key": "secret"}, http.StatusOK},
		{"bearer token", "secret", map[string]string{"Authorization": "Bearer secret"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(APIKeyAuth(tt.configured))

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(NewRateLimiter(2).RateLimit())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
		if w.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("X-RateLimit-Limit = %q, want 2", w.Header().Get("X-RateLimit-Limit"))
		}
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("request %d status = %d, want %d", i+1, codes[i], want[i])
		}
	}
}

func TestRateLimiterAllowPerClient(t *testing.T) {
	rl := &RateLimiter{perHour: 1, clients: map[string]*client{}}
	now := time.Now()

	if ok, _ := rl.allow("a", now); !ok {
		t.Fatal("first request for a should pass")
	}
	if ok, _ := rl.allow("a", now); ok {
		t.Error("second request for a should be limited")
	}
	if ok, _ := rl.allow("b", now); !ok {
		t.Error("clients must not share buckets")
	}
	if ok, _ := rl.allow("a", now.Add(2*time.Hour)); !ok {
		t.Error("bucket should refill after an hour")
	}
}

func TestRequestID(t *testing.T) {
	r := newTestRouter(RequestID())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get("X-Request-ID")
	if len(generated) != 36 {
		t.Errorf("generated X-Request-ID = %q, want a UUID", generated)
	}

	incoming := "3f1c2a9e-6a43-4c55-9d0e-2b7c1f0a8e11"
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != incoming {
		t.Errorf("X-Request-ID = %q, want incoming %q", got, incoming)
	}
}
